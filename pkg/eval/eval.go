// Package eval implements the tree-walking evaluator: it walks the AST,
// maintains the environment stack, dispatches operators, and manages
// calls and returns.
package eval

import (
	"fmt"
	"math"

	"github.com/lox-lang/golox/pkg/ast"
	"github.com/lox-lang/golox/pkg/diag"
	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/lexeme"
	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/token"
)

// maxCallDepth is the maximum number of nested function-call frames. The
// 257th nested call reports stack_overflow.
const maxCallDepth = 256

// runtimeAbort is the unwinding signal for unrecoverable runtime errors.
// The diagnostic is already reported to the Reporter by the time this is
// thrown — the panic value itself carries nothing.
type runtimeAbort struct{}

// returnSignal carries a `return` statement's value up to the enclosing
// call site.
type returnSignal struct {
	value literal.Value
}

// Evaluator walks a Program against one Environment, reporting diagnostics
// and performing the builtins' side effects.
type Evaluator struct {
	prog    *ast.Program
	env     *environment.Environment
	lexemes *lexeme.Database
	errout  *diag.Reporter
	depth   int
}

// New returns an evaluator over prog, using env (already populated with
// builtins) and reporting to errout.
func New(prog *ast.Program, env *environment.Environment, lexemes *lexeme.Database, errout *diag.Reporter) *Evaluator {
	return &Evaluator{prog: prog, env: env, lexemes: lexemes, errout: errout}
}

// Run executes every top-level statement in order. A fatal runtime error
// aborts only the top-level statement it occurred in — execution resumes
// with the next top-level statement, per the "program continues after the
// enclosing statement" boundary behavior.
func (ev *Evaluator) Run() {
	for _, stmt := range ev.prog.Statements {
		ev.runTopLevel(stmt)
	}
}

func (ev *Evaluator) runTopLevel(stmt ast.StmtHandle) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtimeAbort); !ok {
				panic(r)
			}
		}
	}()
	ev.executeStmt(stmt)
}

// --- statement execution ---

func (ev *Evaluator) executeStmt(h ast.StmtHandle) {
	if h.Empty() {
		return
	}
	switch h.Kind {
	case ast.StmtExpression:
		ev.executeExpression(ev.prog.ExpressionStmt(h))
	case ast.StmtVariable:
		ev.executeVariable(ev.prog.VariableStmt(h))
	case ast.StmtConstant:
		ev.executeConstant(ev.prog.ConstantStmt(h))
	case ast.StmtScope:
		ev.executeScope(ev.prog.ScopeStmt(h).Body)
	case ast.StmtBranch:
		ev.executeBranch(ev.prog.BranchStmt(h))
	case ast.StmtLoop:
		ev.executeLoop(ev.prog.LoopStmt(h))
	case ast.StmtFunction:
		ev.executeFunction(ev.prog.FunctionStmt(h))
	case ast.StmtReturn:
		ev.executeReturn(ev.prog.ReturnStmt(h))
	}
}

func (ev *Evaluator) executeExpression(s ast.ExpressionStmt) {
	if s.Expr.Empty() {
		ev.fatal(diag.MissingExpression, 0, 0, 0, "")
		return
	}
	ev.evaluate(s.Expr)
}

func (ev *Evaluator) executeVariable(s ast.VariableStmt) {
	id := s.Name.Lexeme
	if ev.env.Contains(id, environment.CurrentScope) {
		ev.report(diag.IdentifierAlreadyExists, s.Name, fmt.Sprintf("Variable %q is already defined", ev.lexemes.Get(id)))
		return
	}
	value := literal.Nil
	if !s.Initializer.Empty() {
		value = ev.evaluate(s.Initializer)
	}
	ev.env.DefineVariable(id, value)
}

func (ev *Evaluator) executeConstant(s ast.ConstantStmt) {
	id := s.Name.Lexeme
	if ev.env.Contains(id, environment.CurrentScope) {
		ev.report(diag.IdentifierAlreadyExists, s.Name, fmt.Sprintf("Constant %q is already defined", ev.lexemes.Get(id)))
		return
	}
	value := ev.evaluate(s.Initializer)
	ev.env.DefineConstant(id, value)
}

// executeScope pushes a new lexical scope, executes each statement in
// order, and always pops the scope before returning — including when a
// nested statement unwinds via panic.
func (ev *Evaluator) executeScope(stmts []ast.StmtHandle) {
	ev.env.PushScope()
	defer ev.env.PopScope()
	for _, s := range stmts {
		ev.executeStmt(s)
	}
}

func (ev *Evaluator) executeBranch(s ast.BranchStmt) {
	cond, ok := ev.truthValue(s.Condition)
	if !ok {
		return
	}
	if cond {
		ev.executeStmt(s.Then)
	} else if !s.Else.Empty() {
		ev.executeStmt(s.Else)
	}
}

func (ev *Evaluator) executeLoop(s ast.LoopStmt) {
	for {
		cond, ok := ev.truthValue(s.Condition)
		if !ok {
			return
		}
		if !cond {
			return
		}
		ev.executeStmt(s.Body)
	}
}

// truthValue evaluates cond and coerces it via truthiness. If the value
// can't participate in a truth test, condition_is_not_logical is reported
// once and the caller treats the condition as "stop" (ok=false), without
// unwinding the enclosing statement.
func (ev *Evaluator) truthValue(cond ast.ExprHandle) (result bool, ok bool) {
	value := ev.evaluate(cond)
	truth, known := truthiness(value)
	if !known {
		tok := ev.exprToken(cond)
		ev.report(diag.ConditionIsNotLogical, tok, fmt.Sprintf("Value %q is not suitable for a condition", value.String()))
		return false, false
	}
	return truth, true
}

// exprToken returns a representative token for diagnostic placement. Not
// every expression kind carries one directly (literals and groupings
// don't), so it recurses into subexpressions or falls back to the zero
// token, which renders at line 0.
func (ev *Evaluator) exprToken(h ast.ExprHandle) token.Token {
	if h.Empty() {
		return token.Token{}
	}
	switch h.Kind {
	case ast.ExprIdentifier:
		return ev.prog.Identifier(h).Name
	case ast.ExprGrouping:
		return ev.exprToken(ev.prog.Grouping(h).Inner)
	case ast.ExprUnary:
		return ev.prog.Unary(h).Op
	case ast.ExprBinary:
		return ev.prog.Binary(h).Op
	case ast.ExprLogical:
		return ev.prog.Logical(h).Op
	case ast.ExprAssignment:
		return ev.prog.Assignment(h).Target
	case ast.ExprIncDec:
		return ev.prog.IncDec(h).Target
	case ast.ExprCall:
		return ev.prog.Call(h).Paren
	default:
		return token.Token{}
	}
}

func (ev *Evaluator) executeFunction(s ast.FunctionStmt) {
	id := s.Name.Lexeme
	params := make([]lexeme.ID, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Lexeme
	}
	ok := ev.env.RegisterFunction(id, environment.Function{
		Name:   id,
		Params: params,
		Body:   s.Body,
	})
	if !ok {
		ev.report(diag.IdentifierAlreadyExists, s.Name, fmt.Sprintf("Function %q is already defined", ev.lexemes.Get(id)))
	}
}

func (ev *Evaluator) executeReturn(s ast.ReturnStmt) {
	value := literal.Nil
	if !s.Value.Empty() {
		value = ev.evaluate(s.Value)
	}
	panic(returnSignal{value: value})
}

// --- expression evaluation ---

func (ev *Evaluator) evaluate(h ast.ExprHandle) literal.Value {
	if h.Empty() {
		ev.fatal(diag.MissingExpression, 0, 0, 0, "")
		return literal.Nil
	}
	switch h.Kind {
	case ast.ExprLiteral:
		return ev.prog.Literal(h).Value
	case ast.ExprIdentifier:
		return ev.evalIdentifier(ev.prog.Identifier(h))
	case ast.ExprGrouping:
		return ev.evaluate(ev.prog.Grouping(h).Inner)
	case ast.ExprUnary:
		return ev.evalUnary(ev.prog.Unary(h))
	case ast.ExprBinary:
		return ev.evalBinary(ev.prog.Binary(h))
	case ast.ExprLogical:
		return ev.evalLogical(ev.prog.Logical(h))
	case ast.ExprAssignment:
		return ev.evalAssignment(ev.prog.Assignment(h))
	case ast.ExprIncDec:
		return ev.evalIncDec(ev.prog.IncDec(h))
	case ast.ExprCall:
		return ev.evalCall(ev.prog.Call(h))
	default:
		return literal.Nil
	}
}

func (ev *Evaluator) evalIdentifier(id ast.Identifier) literal.Value {
	value, ok := ev.env.LookUp(id.Name.Lexeme)
	if !ok {
		ev.fatal(diag.UndefinedIdentifier, id.Name.Line, id.Name.Position, id.Name.Position+1,
			fmt.Sprintf("Undefined identifier %q", ev.lexemes.Get(id.Name.Lexeme)))
		return literal.Nil
	}
	return value
}

func (ev *Evaluator) evalUnary(u ast.Unary) literal.Value {
	value := ev.evaluate(u.Operand)
	switch u.Op.Kind {
	case token.Plus:
		if !isNumeric(value) {
			ev.fatalNoSuitableUnary(u.Op, value)
			return literal.Nil
		}
		return value
	case token.Minus:
		switch value.Kind() {
		case literal.Integral:
			n, _ := value.AsInt()
			return literal.Int(-n)
		case literal.Number:
			n, _ := value.AsNumber()
			return literal.Num(-n)
		default:
			ev.fatalNoSuitableUnary(u.Op, value)
			return literal.Nil
		}
	case token.Bang:
		truth, ok := truthiness(value)
		if !ok {
			ev.fatalNoSuitableUnary(u.Op, value)
			return literal.Nil
		}
		return literal.Bool(!truth)
	default:
		return literal.Nil
	}
}

func (ev *Evaluator) evalBinary(b ast.Binary) literal.Value {
	lhv := ev.evaluate(b.Left)
	rhv := ev.evaluate(b.Right)

	result, reason := applyBinary(b.Op.Kind, lhv, rhv)
	if reason != "" {
		if reason == "division by zero" {
			ev.fatal(diag.RuntimeError, b.Op.Line, b.Op.Position, b.Op.Position+1, "Division by zero")
			return literal.Nil
		}
		ev.fatalNoSuitableBinary(b.Op, lhv, rhv, reason)
		return literal.Nil
	}
	return result
}

func (ev *Evaluator) evalLogical(l ast.Logical) literal.Value {
	left := ev.evaluate(l.Left)
	truth, ok := truthiness(left)
	if !ok {
		ev.fatal(diag.ConditionIsNotLogical, l.Op.Line, l.Op.Position, l.Op.Position+1,
			fmt.Sprintf("Value %q is not suitable for a logical operation", left.String()))
		return literal.Nil
	}

	if l.Op.Kind == token.Or {
		if truth {
			return left
		}
		return ev.evaluate(l.Right)
	}
	// and
	if !truth {
		return left
	}
	return ev.evaluate(l.Right)
}

func (ev *Evaluator) evalAssignment(a ast.Assignment) literal.Value {
	value := ev.evaluate(a.Value)
	id := a.Target.Lexeme

	switch ev.env.Assign(id, value) {
	case environment.AssignOK:
		return value
	case environment.AssignNotFound:
		ev.fatal(diag.UndefinedIdentifier, a.Target.Line, a.Target.Position, a.Target.Position+1,
			fmt.Sprintf("Undefined identifier %q", ev.lexemes.Get(id)))
		return literal.Nil
	default: // AssignConstant
		ev.report(diag.ConstantAssignment, a.Target, fmt.Sprintf("Cannot assign to constant %q", ev.lexemes.Get(id)))
		return value
	}
}

func (ev *Evaluator) evalIncDec(e ast.IncDec) literal.Value {
	id := e.Target.Lexeme
	current, ok := ev.env.LookUp(id)
	if !ok {
		ev.fatal(diag.UndefinedIdentifier, e.Target.Line, e.Target.Position, e.Target.Position+1,
			fmt.Sprintf("Undefined identifier %q", ev.lexemes.Get(id)))
		return literal.Nil
	}
	n, ok := current.AsInt()
	if !ok {
		ev.fatalNoSuitableUnary(e.Op, current)
		return literal.Nil
	}

	delta := int64(1)
	if e.Op.Kind == token.MinusMinus {
		delta = -1
	}
	updated := literal.Int(n + delta)

	switch ev.env.Assign(id, updated) {
	case environment.AssignOK:
		return updated
	case environment.AssignConstant:
		ev.report(diag.ConstantAssignment, e.Target, fmt.Sprintf("Cannot assign to constant %q", ev.lexemes.Get(id)))
		return updated
	default:
		ev.fatal(diag.UndefinedIdentifier, e.Target.Line, e.Target.Position, e.Target.Position+1,
			fmt.Sprintf("Undefined identifier %q", ev.lexemes.Get(id)))
		return literal.Nil
	}
}

func (ev *Evaluator) evalCall(c ast.Call) literal.Value {
	calleeVal := ev.evaluate(c.Callee)
	index, ok := calleeVal.AsInt()
	if !ok {
		ev.fatal(diag.InvalidCallable, c.Paren.Line, c.Paren.Position, c.Paren.Position+1,
			fmt.Sprintf("Value %q is not callable", calleeVal.String()))
		return literal.Nil
	}

	fn, ok := ev.env.FunctionAt(index)
	if !ok {
		ev.fatal(diag.CallableNotFound, c.Paren.Line, c.Paren.Position, c.Paren.Position+1,
			"No function is registered at this callee")
		return literal.Nil
	}

	args := make([]literal.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = ev.evaluate(a)
	}

	if fn.IsNative {
		return ev.callNative(fn, args, c.Paren)
	}
	return ev.callUser(fn, args, c.Paren)
}

func (ev *Evaluator) callNative(fn environment.Function, args []literal.Value, at token.Token) literal.Value {
	if fn.Arity >= 0 && len(args) != fn.Arity {
		ev.fatal(diag.InvalidArgumentsCount, at.Line, at.Position, at.Position+1,
			fmt.Sprintf("Expected %d arguments but got %d", fn.Arity, len(args)))
		return literal.Nil
	}
	result, err := fn.Native(args)
	if err != nil {
		ev.fatal(diag.RuntimeError, at.Line, at.Position, at.Position+1, err.Error())
		return literal.Nil
	}
	return result
}

func (ev *Evaluator) callUser(fn environment.Function, args []literal.Value, at token.Token) (result literal.Value) {
	if len(args) != len(fn.Params) {
		ev.fatal(diag.InvalidArgumentsCount, at.Line, at.Position, at.Position+1,
			fmt.Sprintf("Expected %d arguments but got %d", len(fn.Params), len(args)))
		return literal.Nil
	}

	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > maxCallDepth {
		ev.fatal(diag.StackOverflow, at.Line, at.Position, at.Position+1, "Maximum call depth exceeded")
		return literal.Nil
	}

	ev.env.PushScope()
	defer ev.env.PopScope()
	for i, p := range fn.Params {
		ev.env.DefineVariable(p, args[i])
	}

	result = literal.Nil
	func() {
		defer func() {
			if r := recover(); r != nil {
				if rs, ok := r.(returnSignal); ok {
					result = rs.value
					return
				}
				panic(r)
			}
		}()
		for _, s := range bodyStatements(ev.prog, fn.Body) {
			ev.executeStmt(s)
		}
	}()
	return result
}

// bodyStatements unwraps a function body's scope handle to its statement
// list, so call() can bind parameters and execute the body in exactly one
// scope rather than one for parameters and a nested one for the block.
func bodyStatements(prog *ast.Program, body ast.StmtHandle) []ast.StmtHandle {
	if body.Kind != ast.StmtScope {
		return []ast.StmtHandle{body}
	}
	return prog.ScopeStmt(body).Body
}

// --- diagnostics ---

func (ev *Evaluator) report(code diag.Code, tok token.Token, message string) {
	width := tok.Width()
	if tok.Kind == token.Identifier {
		width = uint32(len(ev.lexemes.Get(tok.Lexeme)))
	}
	ev.errout.Report(code, tok.Line, tok.Position, tok.Position+width, message)
}

func (ev *Evaluator) fatal(code diag.Code, line, from, to uint32, message string) {
	ev.errout.Report(code, line, from, to, message)
	panic(runtimeAbort{})
}

func (ev *Evaluator) fatalNoSuitableUnary(op token.Token, value literal.Value) {
	ev.fatal(diag.LiteralNotSuitableForOperation, op.Line, op.Position, op.Position+1,
		fmt.Sprintf("Value %q is not suitable for unary %q operation", value.String(), op.Kind))
}

func (ev *Evaluator) fatalNoSuitableBinary(op token.Token, lhv, rhv literal.Value, _ string) {
	ev.fatal(diag.LiteralNotSuitableForOperation, op.Line, op.Position, op.Position+1,
		fmt.Sprintf("No operator %q for literals with types %q and %q", op.Kind, lhv.Kind(), rhv.Kind()))
}

// --- truthiness & numeric coercion ---

const epsilon = 2.220446049250313e-16 // math.Nextafter(1,2)-1, the host's double epsilon

func truthiness(v literal.Value) (truth bool, known bool) {
	switch v.Kind() {
	case literal.Null:
		return false, true
	case literal.Boolean:
		b, _ := v.AsBool()
		return b, true
	case literal.Integral:
		n, _ := v.AsInt()
		return n != 0, true
	case literal.Number:
		n, _ := v.AsNumber()
		return math.Abs(n) > epsilon, true
	case literal.String:
		s, _ := v.AsString()
		return len(s) > 0, true
	default:
		return false, false
	}
}

func isNumeric(v literal.Value) bool {
	return v.Kind() == literal.Integral || v.Kind() == literal.Number
}
