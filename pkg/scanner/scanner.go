// Package scanner turns source text into a token stream, a literal pool,
// and lexeme database entries. It never aborts: every lexical error is
// reported and scanning continues.
package scanner

import (
	"strings"

	"github.com/lox-lang/golox/pkg/diag"
	"github.com/lox-lang/golox/pkg/lexeme"
	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/token"
)

// Output bundles everything a scan produces: the token stream terminated
// by EOF, the literal pool, and the lexeme database.
type Output struct {
	Tokens  []token.Token
	Pool    *literal.Pool
	Lexemes *lexeme.Database
}

// Scanner performs a single forward pass over source text.
type Scanner struct {
	source string
	start  uint32
	pos    uint32
	line   uint32

	errout *diag.Reporter
	out    Output
}

// New returns a scanner for source, reporting lexical errors to errout,
// with a fresh literal pool and lexeme database.
func New(source string, errout *diag.Reporter) *Scanner {
	return NewShared(source, errout, lexeme.NewDatabase(), literal.NewPool())
}

// NewShared returns a scanner that interns into the given lexeme database
// and literal pool instead of fresh ones. The REPL uses this so identifier
// lexeme IDs stay stable across lines sharing one Environment.
func NewShared(source string, errout *diag.Reporter, lexemes *lexeme.Database, pool *literal.Pool) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
		errout: errout,
		out: Output{
			Pool:    pool,
			Lexemes: lexemes,
		},
	}
}

// Scan consumes the entire source and returns the resulting Output.
func (s *Scanner) Scan() Output {
	if len(s.source) == 0 {
		s.errout.Report(diag.NoSources, s.line, 0, 0, "No source was given!")
		s.out.Tokens = append(s.out.Tokens, token.New(token.EOF, s.line, 0))
		return s.out
	}

	for !s.atEnd() {
		s.start = s.pos
		s.scanOne()
	}
	s.out.Tokens = append(s.out.Tokens, token.New(token.EOF, s.line, s.pos))
	return s.out
}

func (s *Scanner) atEnd() bool { return int(s.pos) >= len(s.source) }

func (s *Scanner) advance() byte {
	ch := s.source[s.pos]
	s.pos++
	return ch
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.pos]
}

func (s *Scanner) peekNext() byte {
	if int(s.pos)+1 >= len(s.source) {
		return 0
	}
	return s.source[s.pos+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.peek() != expected {
		return false
	}
	s.pos++
	return true
}

func (s *Scanner) addToken(kind token.Kind) {
	s.out.Tokens = append(s.out.Tokens, token.New(kind, s.line, s.start))
}

func (s *Scanner) addLiteralToken(kind token.Kind, value literal.Value) {
	idx := s.out.Pool.Add(value)
	s.out.Tokens = append(s.out.Tokens, token.WithLiteral(kind, s.line, s.start, idx))
}

func (s *Scanner) scanOne() {
	s.skipWhitespaceAndComments()
	if s.atEnd() {
		return
	}
	s.start = s.pos
	ch := s.advance()

	switch ch {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case ';':
		s.addToken(token.Semicolon)
	case '.':
		s.addToken(token.Dot)
	case '+':
		switch {
		case s.match('+'):
			s.addToken(token.PlusPlus)
		case s.match('='):
			s.addToken(token.PlusEqual)
		default:
			s.addToken(token.Plus)
		}
	case '-':
		switch {
		case s.match('-'):
			s.addToken(token.MinusMinus)
		case s.match('='):
			s.addToken(token.MinusEqual)
		default:
			s.addToken(token.Minus)
		}
	case '*':
		if s.match('=') {
			s.addToken(token.StarEqual)
		} else {
			s.addToken(token.Star)
		}
	case '/':
		if s.match('=') {
			s.addToken(token.SlashEqual)
		} else {
			s.addToken(token.Slash)
		}
	case '!':
		if s.match('=') {
			s.addToken(token.BangEqual)
		} else {
			s.addToken(token.Bang)
		}
	case '=':
		if s.match('=') {
			s.addToken(token.EqualEqual)
		} else {
			s.addToken(token.Equal)
		}
	case '<':
		if s.match('=') {
			s.addToken(token.LessEqual)
		} else {
			s.addToken(token.Less)
		}
	case '>':
		if s.match('=') {
			s.addToken(token.GreaterEqual)
		} else {
			s.addToken(token.Greater)
		}
	case '"':
		s.scanString()
	default:
		switch {
		case isDigit(ch):
			s.scanNumber()
		case isAlpha(ch):
			s.scanIdentifier()
		default:
			s.unexpectedSymbol(ch)
		}
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEnd() {
		ch := s.peek()
		switch {
		case ch == '\n':
			s.line++
			s.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			s.pos++
		case ch == '/' && s.peekNext() == '/':
			for !s.atEnd() && s.peek() != '\n' {
				s.pos++
			}
		case ch == '/' && s.peekNext() == '*':
			s.pos += 2
			for !s.atEnd() && !(s.peek() == '*' && s.peekNext() == '/') {
				if s.peek() == '\n' {
					s.line++
				}
				s.pos++
			}
			if !s.atEnd() {
				s.pos += 2
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanString() {
	startLine := s.line
	var sb strings.Builder
	for !s.atEnd() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		sb.WriteByte(s.advance())
	}

	if s.atEnd() {
		s.errout.Report(diag.BrokenSymmetry, startLine, s.start, s.start+1,
			`Unclosed string literal! No '"' was found`)
		for !s.atEnd() && s.peek() != ';' {
			s.pos++
		}
		return
	}

	s.pos++ // closing quote
	s.addLiteralToken(token.String, literal.Str(sb.String()))
}

func (s *Scanner) scanNumber() {
	for isDigitOrGroupingMark(s.peek()) {
		s.pos++
	}
	if s.peek() == '.' {
		s.pos++
		for isDigitOrGroupingMark(s.peek()) {
			s.pos++
		}
	}
	text := s.source[s.start:s.pos]
	value := literal.ParseNumber(text)
	kind := token.Number
	s.addLiteralToken(kind, value)
}

func (s *Scanner) scanIdentifier() {
	for !s.atEnd() && isAlphaNumeric(s.peek()) {
		s.pos++
	}
	text := s.source[s.start:s.pos]

	switch text {
	case "null":
		s.addLiteralToken(token.Null, literal.Nil)
		return
	case "true":
		s.addLiteralToken(token.Boolean, literal.Bool(true))
		return
	case "false":
		s.addLiteralToken(token.Boolean, literal.Bool(false))
		return
	}

	if kind, ok := token.Keywords[text]; ok {
		s.addToken(kind)
		return
	}

	id := s.out.Lexemes.Add(text)
	s.out.Tokens = append(s.out.Tokens, token.WithLexeme(token.Identifier, s.line, s.start, id))
}

func (s *Scanner) unexpectedSymbol(ch byte) {
	s.errout.Report(diag.UnexpectedSymbol, s.line, s.start, s.start+1,
		"Unexpected symbol '"+string(ch)+"'")
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isDigitOrGroupingMark(ch byte) bool { return isDigit(ch) || ch == '\'' }

func isAlpha(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch byte) bool { return isAlpha(ch) || isDigit(ch) }
