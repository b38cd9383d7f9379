package eval

import (
	"bytes"
	"testing"

	"github.com/lox-lang/golox/pkg/builtins"
	"github.com/lox-lang/golox/pkg/diag"
	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/parser"
	"github.com/lox-lang/golox/pkg/scanner"
)

// run scans, parses, and evaluates source against a fresh environment,
// returning captured stdout and the shared Reporter so a test can inspect
// both the observable output and the diagnostics recorded across phases.
func run(t *testing.T, source string) (string, *diag.Reporter) {
	t.Helper()
	errout := diag.New("test.lox", source)

	scanned := scanner.New(source, errout).Scan()
	if errout.HasErrors() {
		return "", errout
	}

	prog := parser.New(scanned.Tokens, scanned.Pool, errout).Parse()
	if errout.HasErrors() {
		return "", errout
	}

	var out bytes.Buffer
	env := environment.New()
	builtins.Register(env, scanned.Lexemes, &out)

	New(prog, env, scanned.Lexemes, errout).Run()
	return out.String(), errout
}

// scenario 1
func TestScenarioArithmeticPrecedence(t *testing.T) {
	out, errout := run(t, `println(1 + 2 * 3);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "7\n" {
		t.Fatalf("stdout = %q, want %q", out, "7\n")
	}
}

// scenario 2
func TestScenarioVariableReference(t *testing.T) {
	out, errout := run(t, `var x { 10 } var y { x + 5 } println(y);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "15\n" {
		t.Fatalf("stdout = %q, want %q", out, "15\n")
	}
}

// scenario 3: assignment to a constant is non-fatal — the statement after
// it still executes and the constant's original value is unchanged.
func TestScenarioConstantAssignmentIsNonFatal(t *testing.T) {
	out, errout := run(t, `const pi { 3.14 } pi = 3; println(pi);`)
	if !errout.HasErrors() {
		t.Fatalf("expected a constant_assignment diagnostic")
	}
	foundCode := false
	for _, rec := range errout.Records() {
		if rec.Code == diag.ConstantAssignment {
			foundCode = true
		}
	}
	if !foundCode {
		t.Fatalf("expected diag.ConstantAssignment, got %+v", errout.Records())
	}
	if out != "3.14\n" {
		t.Fatalf("stdout = %q, want %q", out, "3.14\n")
	}
}

// scenario 4
func TestScenarioStringConcatenation(t *testing.T) {
	out, errout := run(t, `var s { "foo" } println(s + "bar");`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "foobar\n" {
		t.Fatalf("stdout = %q, want %q", out, "foobar\n")
	}
}

// scenario 5: prefix ++ as a for-loop step, init runs exactly once.
func TestScenarioForLoopAccumulation(t *testing.T) {
	out, errout := run(t, `var n { 0 } for (var i { 0 }; i < 5; ++i) { n += i; } println(n);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "10\n" {
		t.Fatalf("stdout = %q, want %q", out, "10\n")
	}
}

// scenario 6: recursion through the function registry.
func TestScenarioRecursiveFunction(t *testing.T) {
	out, errout := run(t, `fun fact(n) { if (n <= 1) { return 1; } return n * fact(n - 1); } println(fact(5));`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "120\n" {
		t.Fatalf("stdout = %q, want %q", out, "120\n")
	}
}

// scenario 7: undefined identifier is fatal (unwinds the enclosing
// statement) and is reported.
func TestScenarioUndefinedIdentifierIsFatal(t *testing.T) {
	_, errout := run(t, `println(undefined_name);`)
	if !errout.HasErrors() {
		t.Fatalf("expected an undefined_identifier diagnostic")
	}
	found := false
	for _, rec := range errout.Records() {
		if rec.Code == diag.UndefinedIdentifier {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.UndefinedIdentifier, got %+v", errout.Records())
	}
}

func TestLogicalOrReturnsLastEvaluatedOperand(t *testing.T) {
	out, errout := run(t, `println(0 or 5);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "5\n" {
		t.Fatalf("stdout = %q, want %q (or should yield the right operand when left is falsy)", out, "5\n")
	}
}

func TestLogicalAndReturnsLastEvaluatedOperand(t *testing.T) {
	out, errout := run(t, `println(2 and 3);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "3\n" {
		t.Fatalf("stdout = %q, want %q (and should yield the right operand when left is truthy)", out, "3\n")
	}
}

func TestBlockScopeReleasesBindingsOnExit(t *testing.T) {
	_, errout := run(t, `{ var x { 1 }; } println(x);`)
	if !errout.HasErrors() {
		t.Fatalf("expected x to be undefined_identifier after its block exits")
	}
}

func TestCallArityMismatchIsFatalButContinuesAtTopLevel(t *testing.T) {
	out, errout := run(t, `fun f(a, b) { return a + b; } f(1); println("after");`)
	if !errout.HasErrors() {
		t.Fatalf("expected an invalid_arguments_count diagnostic")
	}
	if out != "after\n" {
		t.Fatalf("stdout = %q, want %q (program should continue after the failing top-level statement)", out, "after\n")
	}
}

func TestEqualityPromotesNumericOperands(t *testing.T) {
	out, errout := run(t, `println(1 == 1.0); println(1 != 1.0);`)
	if errout.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", errout.Render())
	}
	if out != "true\nfalse\n" {
		t.Fatalf("stdout = %q, want %q (Integral 1 and Number 1.0 should compare equal)", out, "true\nfalse\n")
	}
}

func TestStackOverflowOnDeepRecursion(t *testing.T) {
	_, errout := run(t, `fun loop(n) { return loop(n + 1); } loop(0);`)
	if !errout.HasErrors() {
		t.Fatalf("expected a stack_overflow diagnostic")
	}
	found := false
	for _, rec := range errout.Records() {
		if rec.Code == diag.StackOverflow {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected diag.StackOverflow, got %+v", errout.Records())
	}
}
