package eval

import (
	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/token"
)

// applyBinary evaluates a binary operator over two already-evaluated
// operands. On success it returns the result and an empty reason string;
// on a type mismatch it returns literal.Nil and a non-empty reason (the
// caller turns that into a literal_not_suitable_for_operation diagnostic).
func applyBinary(op token.Kind, l, r literal.Value) (literal.Value, string) {
	switch op {
	case token.Plus:
		return applyPlus(l, r)
	case token.Minus, token.Star, token.Slash:
		return applyArithmetic(op, l, r)
	case token.Greater, token.GreaterEqual, token.Less, token.LessEqual:
		return applyComparison(op, l, r)
	case token.EqualEqual:
		return literal.Bool(applyEquals(l, r)), ""
	case token.BangEqual:
		return literal.Bool(!applyEquals(l, r)), ""
	default:
		return literal.Nil, "unknown operator"
	}
}

// applyPlus fuses numeric addition and string concatenation into one
// operator, per the language's single `+` rule: string + anything else is
// a type mismatch, numeric + numeric promotes per the usual rule.
func applyPlus(l, r literal.Value) (literal.Value, string) {
	if l.Kind() == literal.String && r.Kind() == literal.String {
		ls, _ := l.AsString()
		rs, _ := r.AsString()
		return literal.Str(ls + rs), ""
	}
	return applyArithmetic(token.Plus, l, r)
}

func applyArithmetic(op token.Kind, l, r literal.Value) (literal.Value, string) {
	if !isNumeric(l) || !isNumeric(r) {
		return literal.Nil, "operands must be numeric"
	}
	if l.Kind() == literal.Integral && r.Kind() == literal.Integral {
		li, _ := l.AsInt()
		ri, _ := r.AsInt()
		switch op {
		case token.Plus:
			return literal.Int(li + ri), ""
		case token.Minus:
			return literal.Int(li - ri), ""
		case token.Star:
			return literal.Int(li * ri), ""
		case token.Slash:
			if ri == 0 {
				return literal.Nil, "division by zero"
			}
			return literal.Int(li / ri), ""
		}
	}
	ln := asFloat(l)
	rn := asFloat(r)
	switch op {
	case token.Plus:
		return literal.Num(ln + rn), ""
	case token.Minus:
		return literal.Num(ln - rn), ""
	case token.Star:
		return literal.Num(ln * rn), ""
	case token.Slash:
		return literal.Num(ln / rn), ""
	}
	return literal.Nil, "unknown operator"
}

func applyComparison(op token.Kind, l, r literal.Value) (literal.Value, string) {
	if l.Kind() == literal.String && r.Kind() == literal.String {
		ls, _ := l.AsString()
		rs, _ := r.AsString()
		switch op {
		case token.Greater:
			return literal.Bool(ls > rs), ""
		case token.GreaterEqual:
			return literal.Bool(ls >= rs), ""
		case token.Less:
			return literal.Bool(ls < rs), ""
		default:
			return literal.Bool(ls <= rs), ""
		}
	}
	if !isNumeric(l) || !isNumeric(r) {
		return literal.Nil, "operands must be comparable"
	}
	ln, rn := asFloat(l), asFloat(r)
	switch op {
	case token.Greater:
		return literal.Bool(ln > rn), ""
	case token.GreaterEqual:
		return literal.Bool(ln >= rn), ""
	case token.Less:
		return literal.Bool(ln < rn), ""
	default:
		return literal.Bool(ln <= rn), ""
	}
}

// applyEquals is Equal plus numeric promotion: two operands of different
// kinds are still equal when both are numeric and compare equal as float64
// (so 1 == 1.0 holds), mirroring applyComparison's promotion.
func applyEquals(l, r literal.Value) bool {
	if l.Kind() != r.Kind() && isNumeric(l) && isNumeric(r) {
		return asFloat(l) == asFloat(r)
	}
	return l.Equal(r)
}

// asFloat widens an Integral or Number value to float64 for mixed-type
// arithmetic and comparison.
func asFloat(v literal.Value) float64 {
	if i, ok := v.AsInt(); ok {
		return float64(i)
	}
	n, _ := v.AsNumber()
	return n
}
