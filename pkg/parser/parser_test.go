package parser

import (
	"testing"

	"github.com/lox-lang/golox/pkg/ast"
	"github.com/lox-lang/golox/pkg/diag"
	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/scanner"
)

func parse(t *testing.T, source string) (*ast.Program, *diag.Reporter) {
	t.Helper()
	errout := diag.New("test.lox", source)
	scanned := scanner.New(source, errout).Scan()
	prog := New(scanned.Tokens, scanned.Pool, errout).Parse()
	return prog, errout
}

func TestParseVariableDeclaration(t *testing.T) {
	prog, errout := parse(t, `var x { 1 + 2 };`)
	if errout.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", errout.Render())
	}
	if len(prog.Statements) != 1 || prog.Statements[0].Kind != ast.StmtVariable {
		t.Fatalf("expected a single variable statement, got %+v", prog.Statements)
	}
	v := prog.VariableStmt(prog.Statements[0])
	if v.Initializer.Kind != ast.ExprBinary {
		t.Fatalf("initializer kind = %v, want ExprBinary", v.Initializer.Kind)
	}
}

func TestParseEmptyVarInitializerBindsNull(t *testing.T) {
	prog, errout := parse(t, `var x { };`)
	if errout.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", errout.Render())
	}
	v := prog.VariableStmt(prog.Statements[0])
	lit := prog.Literal(v.Initializer)
	if lit.Value.Kind() != literal.Null {
		t.Fatalf("empty var initializer = %v, want Null", lit.Value.Kind())
	}
}

func TestParseConstantRequiresBraces(t *testing.T) {
	_, errout := parse(t, `const pi 3.14;`)
	if !errout.HasErrors() {
		t.Fatalf("expected a diagnostic for a const declaration missing '{'")
	}
}

func TestParseCompoundAssignmentDesugars(t *testing.T) {
	prog, errout := parse(t, `var x { 1 }; x += 2;`)
	if errout.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", errout.Render())
	}
	exprStmt := prog.ExpressionStmt(prog.Statements[1])
	if exprStmt.Expr.Kind != ast.ExprAssignment {
		t.Fatalf("expr kind = %v, want ExprAssignment", exprStmt.Expr.Kind)
	}
	assign := prog.Assignment(exprStmt.Expr)
	if assign.Value.Kind != ast.ExprBinary {
		t.Fatalf("compound assignment should desugar to a Binary value, got %v", assign.Value.Kind)
	}
	bin := prog.Binary(assign.Value)
	if bin.Left.Kind != ast.ExprIdentifier {
		t.Fatalf("desugared binary's left operand should be an Identifier, got %v", bin.Left.Kind)
	}
}

func TestParseForLoopDesugarsInitOnceBeforeCondition(t *testing.T) {
	prog, errout := parse(t, `for (var i { 0 }; i < 3; ++i) { println(i); }`)
	if errout.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", errout.Render())
	}
	if len(prog.Statements) != 1 || prog.Statements[0].Kind != ast.StmtScope {
		t.Fatalf("expected the for-loop to desugar to one outer scope, got %+v", prog.Statements)
	}
	outer := prog.ScopeStmt(prog.Statements[0])
	if len(outer.Body) != 2 {
		t.Fatalf("expected outer scope to contain [init, loop], got %d statements", len(outer.Body))
	}
	if outer.Body[0].Kind != ast.StmtVariable {
		t.Fatalf("outer.Body[0].Kind = %v, want StmtVariable (the init)", outer.Body[0].Kind)
	}
	if outer.Body[1].Kind != ast.StmtLoop {
		t.Fatalf("outer.Body[1].Kind = %v, want StmtLoop", outer.Body[1].Kind)
	}
}

func TestParseLogicalOrSingleRightOperand(t *testing.T) {
	prog, errout := parse(t, `var x { true or false };`)
	if errout.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", errout.Render())
	}
	v := prog.VariableStmt(prog.Statements[0])
	if v.Initializer.Kind != ast.ExprLogical {
		t.Fatalf("initializer kind = %v, want ExprLogical", v.Initializer.Kind)
	}
}

func TestParseUnexpectedTokenSynchronizes(t *testing.T) {
	prog, errout := parse(t, `var x { ) }; var y { 1 };`)
	if !errout.HasErrors() {
		t.Fatalf("expected a diagnostic for the stray ')'")
	}
	found := false
	for _, s := range prog.Statements {
		if s.Kind == ast.StmtVariable {
			v := prog.VariableStmt(s)
			if lit, ok := maybeLiteral(prog, v.Initializer); ok && lit.Value.String() == "1" {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected parsing to recover and still parse 'var y { 1 };'")
	}
}

func maybeLiteral(prog *ast.Program, h ast.ExprHandle) (ast.Literal, bool) {
	if h.Empty() || h.Kind != ast.ExprLiteral {
		return ast.Literal{}, false
	}
	return prog.Literal(h), true
}

func TestParseCallArguments(t *testing.T) {
	prog, errout := parse(t, `print(1, 2, 3);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", errout.Render())
	}
	exprStmt := prog.ExpressionStmt(prog.Statements[0])
	if exprStmt.Expr.Kind != ast.ExprCall {
		t.Fatalf("expr kind = %v, want ExprCall", exprStmt.Expr.Kind)
	}
	call := prog.Call(exprStmt.Expr)
	if len(call.Args) != 3 {
		t.Fatalf("len(Args) = %d, want 3", len(call.Args))
	}
}
