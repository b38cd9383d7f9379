// Package diag implements the Error Reporter: a phase-agnostic sink for
// scanner, parser, and evaluator diagnostics, keyed by source position and
// rendered on demand with a source excerpt.
package diag

import (
	"fmt"
	"strings"
)

// Severity distinguishes errors from warnings.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Code identifies a specific diagnostic. Scanner, parser, and evaluator
// codes share one namespace so the Reporter stays phase-agnostic; the
// numeric value is only used for the "#NNNN" rendering.
type Code uint32

const NoError Code = 0

// Scanner
const (
	NoSources Code = 100 + iota
	UnexpectedSymbol
	BrokenSymmetry
)

// Parser
const (
	MissingEndOfStatement Code = 200 + iota
	UnexpectedToken
	ParserBrokenSymmetry
	MissingLiteral
	MissingConstInitialization
	LvalueAssignment
	TooManyArguments
)

// Evaluator
const (
	LiteralNotSuitableForOperation Code = 300 + iota
	RuntimeError
	MissingExpression
	UndefinedIdentifier
	IdentifierAlreadyExists
	ConstantAssignment
	ConditionIsNotLogical
	InvalidCallable
	CallableNotFound
	InvalidArgumentsCount
	StackOverflow
)

var codeNames = map[Code]string{
	NoSources:        "no_sources",
	UnexpectedSymbol: "unexpected_symbol",
	BrokenSymmetry:   "broken_symmetry",

	MissingEndOfStatement:       "missing_end_of_statement",
	UnexpectedToken:             "unexpected_token",
	ParserBrokenSymmetry:        "broken_symmetry",
	MissingLiteral:              "missing_literal",
	MissingConstInitialization:  "missing_const_initialization",
	LvalueAssignment:            "lvalue_assignment",
	TooManyArguments:            "too_many_arguments",

	LiteralNotSuitableForOperation: "literal_not_suitable_for_operation",
	RuntimeError:                   "runtime_error",
	MissingExpression:              "missing_expression",
	UndefinedIdentifier:            "undefined_identifier",
	IdentifierAlreadyExists:        "identifier_already_exists",
	ConstantAssignment:             "constant_assignment",
	ConditionIsNotLogical:          "condition_is_not_logical",
	InvalidCallable:                "invalid_callable",
	CallableNotFound:               "callable_not_found",
	InvalidArgumentsCount:          "invalid_arguments_count",
	StackOverflow:                  "stack_overflow",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown"
}

// Record is a single diagnostic: what happened, where, and how severe.
type Record struct {
	Code     Code
	Severity Severity
	Line     uint32
	From     uint32 // byte offset into the source, inclusive
	To       uint32 // byte offset into the source, exclusive
	Message  string
}

// Reporter accumulates diagnostics for one file and renders them on
// demand. It never aborts the phase that reports to it — that policy lives
// in the caller (panic-mode recovery in the parser, continue-scanning in
// the scanner, unwind-to-block-boundary in the evaluator).
type Reporter struct {
	path   string
	source string
	lines  map[uint32]string
	records []Record
}

// New returns a reporter for one source file. source may be empty if the
// caller has no excerpt to show (e.g. a REPL line already consumed).
func New(path, source string) *Reporter {
	return &Reporter{path: path, source: source, lines: make(map[uint32]string)}
}

// Empty reports whether no diagnostic has been recorded.
func (r *Reporter) Empty() bool {
	return len(r.records) == 0
}

// HasErrors reports whether any Severity-error diagnostic has been
// recorded; warnings alone do not flip this.
func (r *Reporter) HasErrors() bool {
	for _, rec := range r.records {
		if rec.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Clear drops all accumulated diagnostics and cached source lines, for
// reuse between REPL evaluations.
func (r *Reporter) Clear() {
	r.records = r.records[:0]
	r.lines = make(map[uint32]string)
}

// Report records a diagnostic at error severity.
func (r *Reporter) Report(code Code, line, from, to uint32, message string) {
	r.report(code, SeverityError, line, from, to, message)
}

// Warn records a diagnostic at warning severity.
func (r *Reporter) Warn(code Code, line, from, to uint32, message string) {
	r.report(code, SeverityWarning, line, from, to, message)
}

func (r *Reporter) report(code Code, sev Severity, line, from, to uint32, message string) {
	if r.source != "" {
		if _, ok := r.lines[line]; !ok {
			r.lines[line] = extractLine(r.source, from, to)
		}
	}
	r.records = append(r.records, Record{
		Code: code, Severity: sev, Line: line, From: from, To: to, Message: message,
	})
}

// Records returns the accumulated diagnostics in report order.
func (r *Reporter) Records() []Record {
	return r.records
}

// Render formats every accumulated diagnostic per the §4.5 text format:
//
//	<path>:<line>:<col> > <severity> #<NNNN>: <message>
//	    <line_text>
//	      ^^^^
func (r *Reporter) Render() string {
	var b strings.Builder
	for _, rec := range r.records {
		r.renderOne(&b, rec)
	}
	return b.String()
}

func (r *Reporter) renderOne(b *strings.Builder, rec Record) {
	col := relativeColumn(r.source, rec.From)
	fmt.Fprintf(b, "%s:%d:%d > %s #%04d: %s\n", r.path, rec.Line, col, rec.Severity, uint32(rec.Code), rec.Message)

	line, ok := r.lines[rec.Line]
	if !ok {
		return
	}
	fmt.Fprintf(b, "    %s\n", line)
	if rec.To > rec.From {
		span := rec.To - rec.From
		fmt.Fprintf(b, "    %s%s\n", strings.Repeat(" ", int(col)), strings.Repeat("^", int(span)))
	}
}

func extractLine(source string, from, to uint32) string {
	start := lastIndexBefore(source, '\n', from)
	end := firstIndexFrom(source, '\n', to)
	if end < 0 {
		return source[start:]
	}
	return source[start:end]
}

func lastIndexBefore(s string, sep byte, pos uint32) int {
	if int(pos) > len(s) {
		pos = uint32(len(s))
	}
	idx := strings.LastIndexByte(s[:pos], sep)
	if idx < 0 {
		return 0
	}
	return idx + 1
}

func firstIndexFrom(s string, sep byte, pos uint32) int {
	if int(pos) > len(s) {
		pos = uint32(len(s))
	}
	idx := strings.IndexByte(s[pos:], sep)
	if idx < 0 {
		return -1
	}
	return int(pos) + idx
}

func relativeColumn(source string, pos uint32) uint32 {
	start := lastIndexBefore(source, '\n', pos)
	return pos - uint32(start)
}
