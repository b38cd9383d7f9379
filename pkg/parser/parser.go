// Package parser implements the recursive-descent builder of the AST,
// with panic-mode error recovery at declaration boundaries.
package parser

import (
	"fmt"

	"github.com/lox-lang/golox/pkg/ast"
	"github.com/lox-lang/golox/pkg/diag"
	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/token"
)

// maxArguments is the argument-count cap enforced by call(); exceeding it
// reports too_many_arguments but parsing continues so later calls still
// parse correctly.
const maxArguments = 256

// parseError is a local control-flow signal for panic-mode recovery. It
// carries nothing — the diagnostic itself was already reported to errout
// by the time it's thrown.
type parseError struct{}

// Parser consumes a token stream plus literal/lexeme context and produces
// a fully populated Program.
type Parser struct {
	tokens  []token.Token
	pool    *literal.Pool
	errout  *diag.Reporter
	current int
	prog    *ast.Program
}

// New returns a parser over tokens, resolving literal tokens against pool
// and reporting errors to errout.
func New(tokens []token.Token, pool *literal.Pool, errout *diag.Reporter) *Parser {
	return &Parser{tokens: tokens, pool: pool, errout: errout, prog: ast.NewProgram()}
}

// Parse runs `program := declaration*` and returns the populated Program.
func (p *Parser) Parse() *ast.Program {
	defer func() {
		// declaration() already recovers from parseError locally; this is
		// only a backstop against a bug letting one escape to the top.
		recover()
	}()
	for !p.atEnd() {
		if stmt, ok := p.declaration(); ok {
			p.prog.AddStatement(stmt)
		}
	}
	return p.prog
}

func (p *Parser) declaration() (stmt ast.StmtHandle, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(parseError); !isParseErr {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()

	switch {
	case p.match(token.Var):
		return p.variableDeclaration(), true
	case p.match(token.Const):
		return p.constantDeclaration(), true
	case p.match(token.Fun):
		return p.functionDeclaration(), true
	default:
		return p.statement(), true
	}
}

// variableDecl := 'var' IDENT ('{' expression? '}')? ';'?
func (p *Parser) variableDeclaration() ast.StmtHandle {
	name := p.consume(token.Identifier, diag.UnexpectedToken, "Expected variable name")

	init := ast.NoExpr
	if p.match(token.LeftBrace) {
		if !p.check(token.RightBrace) {
			init = p.expression()
			p.consume(token.RightBrace, diag.ParserBrokenSymmetry, "Missed '}' brace during variable initialization")
		} else {
			p.advance() // consume '}'
			init = p.prog.EmplaceLiteral(ast.Literal{Value: literal.Nil})
		}
	}
	p.match(token.Semicolon)

	return p.prog.EmplaceVariableStmt(ast.VariableStmt{Name: name, Initializer: init})
}

// constDecl := 'const' IDENT '{' expression '}' ';'?
func (p *Parser) constantDeclaration() ast.StmtHandle {
	name := p.consume(token.Identifier, diag.UnexpectedToken, "Expected constant name")
	p.consume(token.LeftBrace, diag.MissingConstInitialization,
		"Missed initialization braces for constant! Constant have to be initialized")

	var init ast.ExprHandle
	if p.check(token.RightBrace) {
		p.advance()
		init = p.prog.EmplaceLiteral(ast.Literal{Value: literal.Nil})
	} else {
		init = p.expression()
		p.consume(token.RightBrace, diag.ParserBrokenSymmetry, "Missed '}' brace during constant initialization")
	}
	p.match(token.Semicolon)

	return p.prog.EmplaceConstantStmt(ast.ConstantStmt{Name: name, Initializer: init})
}

// funDecl := 'fun' IDENT '(' params? ')' block
func (p *Parser) functionDeclaration() ast.StmtHandle {
	name := p.consume(token.Identifier, diag.UnexpectedToken, "Expected function name")
	p.consume(token.LeftParen, diag.UnexpectedToken, "Expected '(' after function name")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			params = append(params, p.consume(token.Identifier, diag.UnexpectedToken, "Expected parameter name"))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, diag.ParserBrokenSymmetry, "Expected ')' after parameters")
	p.consume(token.LeftBrace, diag.UnexpectedToken, "Expected '{' before function body")
	body := p.scopeStatement()

	return p.prog.EmplaceFunctionStmt(ast.FunctionStmt{Name: name, Params: params, Body: body})
}

func (p *Parser) statement() ast.StmtHandle {
	switch {
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.LeftBrace):
		return p.scopeStatement()
	default:
		return p.expressionStatement()
	}
}

// block := '{' declaration* '}'
func (p *Parser) scopeStatement() ast.StmtHandle {
	var body []ast.StmtHandle
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt, ok := p.declaration(); ok {
			body = append(body, stmt)
		}
	}
	p.consume(token.RightBrace, diag.ParserBrokenSymmetry, "Expected '}' after block")
	return p.prog.EmplaceScopeStmt(ast.ScopeStmt{Body: body})
}

// ifStmt := 'if' '(' expression ')' block ('else' block)?
func (p *Parser) ifStatement() ast.StmtHandle {
	p.consume(token.LeftParen, diag.UnexpectedToken, "Expected '(' after 'if'")
	cond := p.expression()
	p.consume(token.RightParen, diag.ParserBrokenSymmetry, "Expected ')' after condition")
	p.consume(token.LeftBrace, diag.UnexpectedToken, "Expected '{' to start if body")
	then := p.scopeStatement()

	elseBranch := ast.NoStmt
	if p.match(token.Else) {
		p.consume(token.LeftBrace, diag.UnexpectedToken, "Expected '{' to start else body")
		elseBranch = p.scopeStatement()
	}

	return p.prog.EmplaceBranchStmt(ast.BranchStmt{Condition: cond, Then: then, Else: elseBranch})
}

// whileStmt := 'while' '(' expression ')' block
func (p *Parser) whileStatement() ast.StmtHandle {
	p.consume(token.LeftParen, diag.UnexpectedToken, "Expected '(' after 'while'")
	cond := p.expression()
	p.consume(token.RightParen, diag.ParserBrokenSymmetry, "Expected ')' after condition")
	p.consume(token.LeftBrace, diag.UnexpectedToken, "Expected '{' to start while body")
	body := p.scopeStatement()

	return p.prog.EmplaceLoopStmt(ast.LoopStmt{Condition: cond, Body: body})
}

// forStmt := 'for' '(' (declaration | exprStmt | ';') expression? ';' expression? ')' block
// desugars to: scope { init;  loop(cond, scope{ block; step?; }) }, or to the
// bare loop when there is no init.
func (p *Parser) forStatement() ast.StmtHandle {
	p.consume(token.LeftParen, diag.UnexpectedToken, "Expected '(' after 'for'")

	var init ast.StmtHandle
	hasInit := false
	switch {
	case p.match(token.Semicolon):
		// no initializer
	case p.match(token.Var):
		init = p.variableDeclaration()
		hasInit = true
	case p.match(token.Const):
		init = p.constantDeclaration()
		hasInit = true
	default:
		init = p.expressionStatement()
		hasInit = true
	}

	cond := ast.NoExpr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, diag.MissingEndOfStatement, "Expected ';' after loop condition")

	var step ast.ExprHandle
	hasStep := false
	if !p.check(token.RightParen) {
		step = p.expression()
		hasStep = true
	}
	p.consume(token.RightParen, diag.ParserBrokenSymmetry, "Expected ')' after for clauses")
	p.consume(token.LeftBrace, diag.UnexpectedToken, "Expected '{' to start for body")
	body := p.scopeStatement()

	if cond.Empty() {
		cond = p.prog.EmplaceLiteral(ast.Literal{Value: literal.Bool(true)})
	}

	innerBody := []ast.StmtHandle{body}
	if hasStep {
		innerBody = append(innerBody, p.prog.EmplaceExpressionStmt(ast.ExpressionStmt{Expr: step}))
	}
	loopBody := p.prog.EmplaceScopeStmt(ast.ScopeStmt{Body: innerBody})
	loop := p.prog.EmplaceLoopStmt(ast.LoopStmt{Condition: cond, Body: loopBody})

	if !hasInit {
		return loop
	}
	return p.prog.EmplaceScopeStmt(ast.ScopeStmt{Body: []ast.StmtHandle{init, loop}})
}

// returnStmt := 'return' expression? ';'
func (p *Parser) returnStatement() ast.StmtHandle {
	keyword := p.previous()
	value := ast.NoExpr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, diag.MissingEndOfStatement, "Expected ';' after return statement")
	return p.prog.EmplaceReturnStmt(ast.ReturnStmt{Keyword: keyword, Value: value})
}

// exprStmt := expression ';'
func (p *Parser) expressionStatement() ast.StmtHandle {
	expr := p.expression()
	p.consume(token.Semicolon, diag.MissingEndOfStatement, "Expected ';' after expression")
	return p.prog.EmplaceExpressionStmt(ast.ExpressionStmt{Expr: expr})
}

// expression := incdec
func (p *Parser) expression() ast.ExprHandle {
	return p.incdec()
}

// incdec := ('++'|'--') logical_or | assignment
func (p *Parser) incdec() ast.ExprHandle {
	if p.match(token.PlusPlus, token.MinusMinus) {
		op := p.previous()
		target := p.logicalOr()
		id, ok := p.asIdentifier(target)
		if !ok {
			p.error(diag.LvalueAssignment, op, "'++'/'--' may only be applied to an identifier")
			return target
		}
		return p.prog.EmplaceIncDec(ast.IncDec{Target: id, Op: op})
	}
	return p.assignment()
}

// assignment := (IDENT ('='|'+='|'-='|'*='|'/=') assignment) | logical_or
// compound forms desugar to `name = name <op> value`, reusing the binary node.
func (p *Parser) assignment() ast.ExprHandle {
	expr := p.logicalOr()

	if p.match(token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual, token.SlashEqual) {
		opTok := p.previous()
		value := p.assignment()

		target, ok := p.asIdentifier(expr)
		if !ok {
			p.error(diag.LvalueAssignment, opTok, "Invalid assignment target.")
			return expr
		}

		if opTok.Kind == token.Equal {
			return p.prog.EmplaceAssignment(ast.Assignment{Target: target, Value: value})
		}

		binOp := compoundToBinaryOp(opTok)
		name := p.prog.EmplaceIdentifier(ast.Identifier{Name: target})
		desugared := p.prog.EmplaceBinary(ast.Binary{Op: binOp, Left: name, Right: value})
		return p.prog.EmplaceAssignment(ast.Assignment{Target: target, Value: desugared})
	}

	return expr
}

func compoundToBinaryOp(opTok token.Token) token.Token {
	switch opTok.Kind {
	case token.PlusEqual:
		return token.Token{Kind: token.Plus, Line: opTok.Line, Position: opTok.Position}
	case token.MinusEqual:
		return token.Token{Kind: token.Minus, Line: opTok.Line, Position: opTok.Position}
	case token.StarEqual:
		return token.Token{Kind: token.Star, Line: opTok.Line, Position: opTok.Position}
	default:
		return token.Token{Kind: token.Slash, Line: opTok.Line, Position: opTok.Position}
	}
}

func (p *Parser) asIdentifier(expr ast.ExprHandle) (token.Token, bool) {
	if expr.Kind != ast.ExprIdentifier {
		return token.Token{}, false
	}
	return p.prog.Identifier(expr).Name, true
}

// logical_or := logical_and ('or' logical_and)?
func (p *Parser) logicalOr() ast.ExprHandle {
	expr := p.logicalAnd()
	if p.match(token.Or) {
		op := p.previous()
		right := p.logicalAnd()
		return p.prog.EmplaceLogical(ast.Logical{Op: op, Left: expr, Right: right})
	}
	return expr
}

// logical_and := equality ('and' equality)?
func (p *Parser) logicalAnd() ast.ExprHandle {
	expr := p.equality()
	if p.match(token.And) {
		op := p.previous()
		right := p.equality()
		return p.prog.EmplaceLogical(ast.Logical{Op: op, Left: expr, Right: right})
	}
	return expr
}

// equality := comparison (('!='|'==') comparison)*
func (p *Parser) equality() ast.ExprHandle {
	expr := p.comparison()
	for p.match(token.BangEqual, token.EqualEqual) {
		op := p.previous()
		right := p.comparison()
		expr = p.prog.EmplaceBinary(ast.Binary{Op: op, Left: expr, Right: right})
	}
	return expr
}

// comparison := term (('<'|'<='|'>'|'>=') term)*
func (p *Parser) comparison() ast.ExprHandle {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		op := p.previous()
		right := p.term()
		expr = p.prog.EmplaceBinary(ast.Binary{Op: op, Left: expr, Right: right})
	}
	return expr
}

// term := factor (('-'|'+') factor)*
func (p *Parser) term() ast.ExprHandle {
	expr := p.factor()
	for p.match(token.Minus, token.Plus) {
		op := p.previous()
		right := p.factor()
		expr = p.prog.EmplaceBinary(ast.Binary{Op: op, Left: expr, Right: right})
	}
	return expr
}

// factor := unary (('/'|'*') unary)*
func (p *Parser) factor() ast.ExprHandle {
	expr := p.unary()
	for p.match(token.Slash, token.Star) {
		op := p.previous()
		right := p.unary()
		expr = p.prog.EmplaceBinary(ast.Binary{Op: op, Left: expr, Right: right})
	}
	return expr
}

// unary := ('!'|'-'|'+') unary | call
func (p *Parser) unary() ast.ExprHandle {
	if p.match(token.Bang, token.Minus, token.Plus) {
		op := p.previous()
		operand := p.unary()
		return p.prog.EmplaceUnary(ast.Unary{Op: op, Operand: operand})
	}
	return p.call()
}

// call := primary ('(' arguments? ')')*
func (p *Parser) call() ast.ExprHandle {
	expr := p.primary()
	for p.match(token.LeftParen) {
		expr = p.finishCall(expr)
	}
	return expr
}

func (p *Parser) finishCall(callee ast.ExprHandle) ast.ExprHandle {
	var args []ast.ExprHandle
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArguments {
				p.error(diag.TooManyArguments, p.peek(), "Can't have more than 256 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren := p.consume(token.RightParen, diag.ParserBrokenSymmetry, "Expected ')' after arguments")
	return p.prog.EmplaceCall(ast.Call{Callee: callee, Paren: paren, Args: args})
}

// primary := NUMBER | STRING | BOOLEAN | NULL | IDENT | '(' expression ')'
func (p *Parser) primary() ast.ExprHandle {
	switch {
	case p.match(token.String, token.Number, token.Boolean, token.Null):
		tok := p.previous()
		if int(tok.Literal) >= p.pool.Len() {
			p.error(diag.MissingLiteral, tok, fmt.Sprintf("Missing literal #%d of the %q token!", tok.Literal, tok.Kind))
			return p.prog.EmplaceLiteral(ast.Literal{Value: literal.Nil})
		}
		return p.prog.EmplaceLiteral(ast.Literal{Value: p.pool.Get(tok.Literal)})

	case p.match(token.Identifier):
		return p.prog.EmplaceIdentifier(ast.Identifier{Name: p.previous()})

	case p.match(token.LeftParen):
		openParen := p.previous()
		inner := p.expression()
		p.consumeTok(token.RightParen, diag.ParserBrokenSymmetry, "Expected ')' after expression", openParen)
		return p.prog.EmplaceGrouping(ast.Grouping{Inner: inner})
	}

	p.error(diag.UnexpectedToken, p.peek(), "Unexpected token!")
	panic(parseError{})
}

// synchronize discards tokens until the next synchronization point so
// parsing can resume at the next declaration after a local error.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.Class, token.Fun, token.Var, token.Const, token.For, token.If, token.While, token.Return:
			return
		}
		p.advance()
	}
}

// --- token stream primitives ---

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	return !p.atEnd() && p.peek().Kind == k
}

func (p *Parser) atEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) advance() token.Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) consume(kind token.Kind, code diag.Code, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.error(code, p.peek(), message)
	panic(parseError{})
}

func (p *Parser) consumeTok(kind token.Kind, code diag.Code, message string, at token.Token) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.error(code, at, message)
	panic(parseError{})
}

func (p *Parser) error(code diag.Code, tok token.Token, message string) {
	width := tok.Width()
	p.errout.Report(code, tok.Line, tok.Position, tok.Position+width, message)
}
