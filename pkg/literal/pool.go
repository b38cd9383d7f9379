package literal

// Index addresses a literal stored in a Pool. There is no sentinel "none"
// index for the pool — every token that carries literal data carries a
// valid one.
type Index uint32

// Pool is a deduplicated sequence of literal values referenced by tokens
// and literal AST nodes. Reuse of an existing equal value is an
// optimization, not a correctness requirement, but the pre-seeded indices
// are kept stable so debug/inspection output is deterministic.
type Pool struct {
	values []Value
}

// NewPool returns a pool pre-seeded with the common constants the scanner
// is expected to reference most: null, true, false, "", 0.0, 0.
func NewPool() *Pool {
	p := &Pool{values: make([]Value, 0, 16)}
	p.Add(Nil)
	p.Add(Bool(true))
	p.Add(Bool(false))
	p.Add(Str(""))
	p.Add(Num(0))
	p.Add(Int(0))
	return p
}

// Add deduplicates value against the existing pool contents and returns its
// index, appending a new entry only on a miss.
func (p *Pool) Add(value Value) Index {
	for i, existing := range p.values {
		if existing.Equal(value) {
			return Index(i)
		}
	}
	idx := Index(len(p.values))
	p.values = append(p.values, value)
	return idx
}

// Get returns the value stored at idx. It panics on an out-of-range index,
// which indicates a bug upstream (every token carrying a literal index
// must refer to a value that was Add-ed to this same pool).
func (p *Pool) Get(idx Index) Value {
	return p.values[idx]
}

// Len reports how many distinct literals are stored.
func (p *Pool) Len() int {
	return len(p.values)
}
