package diag

import (
	"strings"
	"testing"
)

func TestEmptyAndHasErrors(t *testing.T) {
	r := New("test.lox", "var x;")
	if !r.Empty() {
		t.Fatalf("new reporter should be Empty()")
	}
	r.Report(UnexpectedToken, 1, 0, 3, "boom")
	if r.Empty() {
		t.Fatalf("reporter with a record should not be Empty()")
	}
	if !r.HasErrors() {
		t.Fatalf("Report() should set HasErrors()")
	}
}

func TestWarnDoesNotCountAsError(t *testing.T) {
	r := New("test.lox", "")
	r.Warn(NoSources, 1, 0, 0, "heads up")
	if r.HasErrors() {
		t.Fatalf("Warn() alone should not set HasErrors()")
	}
}

func TestRenderIncludesExcerptAndUnderline(t *testing.T) {
	source := "const pi { 3.14 }\npi = 3;\n"
	r := New("scenario.lox", source)
	// line 2 ("pi = 3;") starts at byte offset 18; "pi" spans [18, 20).
	r.Report(ConstantAssignment, 2, 18, 20, `Cannot assign to constant "pi"`)

	out := r.Render()
	if !strings.Contains(out, "scenario.lox:2:0 > error #0305:") {
		t.Fatalf("Render() missing expected header, got:\n%s", out)
	}
	if !strings.Contains(out, "pi = 3;") {
		t.Fatalf("Render() missing source excerpt, got:\n%s", out)
	}
	if !strings.Contains(out, "^^") {
		t.Fatalf("Render() missing underline span, got:\n%s", out)
	}
}

func TestClearResetsRecords(t *testing.T) {
	r := New("x.lox", "x")
	r.Report(UnexpectedToken, 1, 0, 1, "boom")
	r.Clear()
	if !r.Empty() {
		t.Fatalf("Clear() should reset to Empty()")
	}
}
