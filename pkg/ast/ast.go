// Package ast implements the flat, index-addressed AST: per-kind arenas of
// expression and statement nodes, addressed by (kind, index) handles
// instead of pointers. Handles are stable for the program's lifetime.
package ast

import (
	"math"

	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/token"
)

// ExprKind tags which arena an expression handle indexes into.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprIdentifier
	ExprGrouping
	ExprUnary
	ExprBinary
	ExprLogical
	ExprAssignment
	ExprIncDec
	ExprCall
)

// StmtKind tags which arena a statement handle indexes into.
type StmtKind uint8

const (
	StmtExpression StmtKind = iota
	StmtVariable
	StmtConstant
	StmtScope
	StmtBranch
	StmtLoop
	StmtFunction
	StmtReturn
)

const invalidIndex = math.MaxUint32

// ExprHandle addresses an expression node: (kind, index) into the arena
// for that kind. The zero value is not automatically "none" — use
// NoExpr — because ExprLiteral index 0 is a legitimate handle.
type ExprHandle struct {
	Kind  ExprKind
	Index uint32
}

// NoExpr is the empty expression handle.
var NoExpr = ExprHandle{Index: invalidIndex}

// Empty reports whether h refers to no node.
func (h ExprHandle) Empty() bool { return h.Index == invalidIndex }

// StmtHandle addresses a statement node the same way ExprHandle does.
type StmtHandle struct {
	Kind  StmtKind
	Index uint32
}

// NoStmt is the empty statement handle.
var NoStmt = StmtHandle{Index: invalidIndex}

func (h StmtHandle) Empty() bool { return h.Index == invalidIndex }

// Expression node payloads.

type Literal struct {
	Value literal.Value
}

type Identifier struct {
	Name token.Token
}

type Grouping struct {
	Inner ExprHandle
}

type Unary struct {
	Op      token.Token
	Operand ExprHandle
}

type Binary struct {
	Op    token.Token
	Left  ExprHandle
	Right ExprHandle
}

type Logical struct {
	Op    token.Token
	Left  ExprHandle
	Right ExprHandle
}

type Assignment struct {
	Target token.Token
	Value  ExprHandle
}

type IncDec struct {
	Target token.Token
	Op     token.Token
}

type Call struct {
	Callee ExprHandle
	Paren  token.Token
	Args   []ExprHandle
}

// Statement node payloads.

type ExpressionStmt struct {
	Expr ExprHandle
}

type VariableStmt struct {
	Name        token.Token
	Initializer ExprHandle // NoExpr if absent
}

type ConstantStmt struct {
	Name        token.Token
	Initializer ExprHandle // always present
}

type ScopeStmt struct {
	Body []StmtHandle
}

type BranchStmt struct {
	Condition ExprHandle
	Then      StmtHandle
	Else      StmtHandle // NoStmt if absent
}

type LoopStmt struct {
	Condition ExprHandle
	Body      StmtHandle // NoStmt only for a malformed loop
}

type FunctionStmt struct {
	Name   token.Token
	Params []token.Token
	Body   StmtHandle
}

type ReturnStmt struct {
	Keyword token.Token
	Value   ExprHandle // NoExpr if absent
}

// Program owns the dense per-kind arenas and the ordered list of
// top-level statement handles. Nodes never move once appended, so handles
// stay valid for the program's entire lifetime.
type Program struct {
	literals    []Literal
	identifiers []Identifier
	groupings   []Grouping
	unaries     []Unary
	binaries    []Binary
	logicals    []Logical
	assignments []Assignment
	incdecs     []IncDec
	calls       []Call

	expressionStmts []ExpressionStmt
	variableStmts   []VariableStmt
	constantStmts   []ConstantStmt
	scopeStmts      []ScopeStmt
	branchStmts     []BranchStmt
	loopStmts       []LoopStmt
	functionStmts   []FunctionStmt
	returnStmts     []ReturnStmt

	Statements []StmtHandle
}

// NewProgram returns an empty program ready to be populated by the parser.
func NewProgram() *Program {
	return &Program{}
}

// AddStatement appends a top-level statement handle to Statements and
// returns it unchanged, mirroring the teacher's add-then-return shape.
func (p *Program) AddStatement(h StmtHandle) StmtHandle {
	p.Statements = append(p.Statements, h)
	return h
}

// Expression arena accessors — each Emplace appends to the dense array for
// that kind and returns the new handle.

func (p *Program) EmplaceLiteral(n Literal) ExprHandle {
	p.literals = append(p.literals, n)
	return ExprHandle{Kind: ExprLiteral, Index: uint32(len(p.literals) - 1)}
}

func (p *Program) Literal(h ExprHandle) Literal { return p.literals[h.Index] }

func (p *Program) EmplaceIdentifier(n Identifier) ExprHandle {
	p.identifiers = append(p.identifiers, n)
	return ExprHandle{Kind: ExprIdentifier, Index: uint32(len(p.identifiers) - 1)}
}

func (p *Program) Identifier(h ExprHandle) Identifier { return p.identifiers[h.Index] }

func (p *Program) EmplaceGrouping(n Grouping) ExprHandle {
	p.groupings = append(p.groupings, n)
	return ExprHandle{Kind: ExprGrouping, Index: uint32(len(p.groupings) - 1)}
}

func (p *Program) Grouping(h ExprHandle) Grouping { return p.groupings[h.Index] }

func (p *Program) EmplaceUnary(n Unary) ExprHandle {
	p.unaries = append(p.unaries, n)
	return ExprHandle{Kind: ExprUnary, Index: uint32(len(p.unaries) - 1)}
}

func (p *Program) Unary(h ExprHandle) Unary { return p.unaries[h.Index] }

func (p *Program) EmplaceBinary(n Binary) ExprHandle {
	p.binaries = append(p.binaries, n)
	return ExprHandle{Kind: ExprBinary, Index: uint32(len(p.binaries) - 1)}
}

func (p *Program) Binary(h ExprHandle) Binary { return p.binaries[h.Index] }

func (p *Program) EmplaceLogical(n Logical) ExprHandle {
	p.logicals = append(p.logicals, n)
	return ExprHandle{Kind: ExprLogical, Index: uint32(len(p.logicals) - 1)}
}

func (p *Program) Logical(h ExprHandle) Logical { return p.logicals[h.Index] }

func (p *Program) EmplaceAssignment(n Assignment) ExprHandle {
	p.assignments = append(p.assignments, n)
	return ExprHandle{Kind: ExprAssignment, Index: uint32(len(p.assignments) - 1)}
}

func (p *Program) Assignment(h ExprHandle) Assignment { return p.assignments[h.Index] }

func (p *Program) EmplaceIncDec(n IncDec) ExprHandle {
	p.incdecs = append(p.incdecs, n)
	return ExprHandle{Kind: ExprIncDec, Index: uint32(len(p.incdecs) - 1)}
}

func (p *Program) IncDec(h ExprHandle) IncDec { return p.incdecs[h.Index] }

func (p *Program) EmplaceCall(n Call) ExprHandle {
	p.calls = append(p.calls, n)
	return ExprHandle{Kind: ExprCall, Index: uint32(len(p.calls) - 1)}
}

func (p *Program) Call(h ExprHandle) Call { return p.calls[h.Index] }

// Statement arena accessors.

func (p *Program) EmplaceExpressionStmt(n ExpressionStmt) StmtHandle {
	p.expressionStmts = append(p.expressionStmts, n)
	return StmtHandle{Kind: StmtExpression, Index: uint32(len(p.expressionStmts) - 1)}
}

func (p *Program) ExpressionStmt(h StmtHandle) ExpressionStmt { return p.expressionStmts[h.Index] }

func (p *Program) EmplaceVariableStmt(n VariableStmt) StmtHandle {
	p.variableStmts = append(p.variableStmts, n)
	return StmtHandle{Kind: StmtVariable, Index: uint32(len(p.variableStmts) - 1)}
}

func (p *Program) VariableStmt(h StmtHandle) VariableStmt { return p.variableStmts[h.Index] }

func (p *Program) EmplaceConstantStmt(n ConstantStmt) StmtHandle {
	p.constantStmts = append(p.constantStmts, n)
	return StmtHandle{Kind: StmtConstant, Index: uint32(len(p.constantStmts) - 1)}
}

func (p *Program) ConstantStmt(h StmtHandle) ConstantStmt { return p.constantStmts[h.Index] }

func (p *Program) EmplaceScopeStmt(n ScopeStmt) StmtHandle {
	p.scopeStmts = append(p.scopeStmts, n)
	return StmtHandle{Kind: StmtScope, Index: uint32(len(p.scopeStmts) - 1)}
}

func (p *Program) ScopeStmt(h StmtHandle) ScopeStmt { return p.scopeStmts[h.Index] }

func (p *Program) EmplaceBranchStmt(n BranchStmt) StmtHandle {
	p.branchStmts = append(p.branchStmts, n)
	return StmtHandle{Kind: StmtBranch, Index: uint32(len(p.branchStmts) - 1)}
}

func (p *Program) BranchStmt(h StmtHandle) BranchStmt { return p.branchStmts[h.Index] }

func (p *Program) EmplaceLoopStmt(n LoopStmt) StmtHandle {
	p.loopStmts = append(p.loopStmts, n)
	return StmtHandle{Kind: StmtLoop, Index: uint32(len(p.loopStmts) - 1)}
}

func (p *Program) LoopStmt(h StmtHandle) LoopStmt { return p.loopStmts[h.Index] }

func (p *Program) EmplaceFunctionStmt(n FunctionStmt) StmtHandle {
	p.functionStmts = append(p.functionStmts, n)
	return StmtHandle{Kind: StmtFunction, Index: uint32(len(p.functionStmts) - 1)}
}

func (p *Program) FunctionStmt(h StmtHandle) FunctionStmt { return p.functionStmts[h.Index] }

func (p *Program) EmplaceReturnStmt(n ReturnStmt) StmtHandle {
	p.returnStmts = append(p.returnStmts, n)
	return StmtHandle{Kind: StmtReturn, Index: uint32(len(p.returnStmts) - 1)}
}

func (p *Program) ReturnStmt(h StmtHandle) ReturnStmt { return p.returnStmts[h.Index] }
