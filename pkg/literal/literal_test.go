package literal

import "testing"

func TestConstructorsAndKind(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		kind  Kind
	}{
		{"null", Nil, Null},
		{"boolean", Bool(true), Boolean},
		{"integral", Int(7), Integral},
		{"number", Num(3.5), Number},
		{"string", Str("hi"), String},
	}

	for _, tt := range tests {
		if got := tt.value.Kind(); got != tt.kind {
			t.Errorf("%s: Kind() = %v, want %v", tt.name, got, tt.kind)
		}
		if !tt.value.Is(tt.kind) {
			t.Errorf("%s: Is(%v) = false, want true", tt.name, tt.kind)
		}
	}
}

func TestEqualDoesNotPromote(t *testing.T) {
	if Int(1).Equal(Num(1.0)) {
		t.Fatalf("Int(1).Equal(Num(1.0)) = true, want false (no cross-kind promotion)")
	}
	if !Int(1).Equal(Int(1)) {
		t.Fatalf("Int(1).Equal(Int(1)) = false, want true")
	}
	if !Nil.Equal(Nil) {
		t.Fatalf("Nil.Equal(Nil) = false, want true")
	}
}

func TestStringRendering(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Nil, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(42), "42"},
		{Num(1.0), "1"},
		{Num(1.5), "1.5"},
		{Str("hello"), "hello"},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestParseNumberIntegerFirst(t *testing.T) {
	v := ParseNumber("42")
	if i, ok := v.AsInt(); !ok || i != 42 {
		t.Fatalf("ParseNumber(\"42\") = %v, want Integral 42", v)
	}

	v = ParseNumber("3.14")
	if n, ok := v.AsNumber(); !ok || n != 3.14 {
		t.Fatalf("ParseNumber(\"3.14\") = %v, want Number 3.14", v)
	}

	v = ParseNumber("1'000'000")
	if i, ok := v.AsInt(); !ok || i != 1000000 {
		t.Fatalf("ParseNumber(\"1'000'000\") = %v, want Integral 1000000", v)
	}
}

func TestPoolPreSeedOrder(t *testing.T) {
	p := NewPool()
	want := []Value{Nil, Bool(true), Bool(false), Str(""), Num(0), Int(0)}
	if p.Len() != len(want) {
		t.Fatalf("NewPool().Len() = %d, want %d", p.Len(), len(want))
	}
	for i, v := range want {
		if got := p.Get(Index(i)); !got.Equal(v) {
			t.Errorf("pool[%d] = %v, want %v", i, got, v)
		}
	}
}

func TestPoolDeduplicates(t *testing.T) {
	p := NewPool()
	a := p.Add(Str("shared"))
	b := p.Add(Str("shared"))
	if a != b {
		t.Fatalf("Pool.Add not idempotent: a=%d b=%d", a, b)
	}
}
