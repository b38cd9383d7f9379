// Package token defines the fixed-layout token record emitted by the
// scanner and consumed by the parser.
package token

import (
	"fmt"

	"github.com/lox-lang/golox/pkg/lexeme"
	"github.com/lox-lang/golox/pkg/literal"
)

// Kind tags the lexical category of a token.
type Kind uint8

const (
	// Single-character
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Semicolon
	Dot

	// One or two character
	Bang
	BangEqual
	Equal
	EqualEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	// Arithmetic and compound assignment
	Plus
	Minus
	Star
	Slash
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PlusPlus
	MinusMinus

	// Literals
	Identifier
	String
	Number
	Boolean
	Null

	// Keywords
	Var
	Const
	And
	Or
	If
	Else
	While
	For
	Fun
	Return
	Class
	This
	Super

	EOF
)

var names = map[Kind]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Semicolon: ";", Dot: ".",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/",
	PlusEqual: "+=", MinusEqual: "-=", StarEqual: "*=", SlashEqual: "/=",
	PlusPlus: "++", MinusMinus: "--",
	Identifier: "identifier", String: "string", Number: "number",
	Boolean: "boolean", Null: "null",
	Var: "var", Const: "const", And: "and", Or: "or",
	If: "if", Else: "else", While: "while", For: "for",
	Fun: "fun", Return: "return", Class: "class", This: "this", Super: "super",
	EOF: "end of file",
}

// String renders the source spelling (or a name, for EOF) of a token kind.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords maps reserved-word spelling to its Kind. null/true/false are
// handled separately by the scanner because they also carry a literal.
var Keywords = map[string]Kind{
	"var": Var, "const": Const, "and": And, "or": Or,
	"if": If, "else": Else, "while": While, "for": For,
	"fun": Fun, "return": Return, "class": Class, "this": This, "super": Super,
}

// sentinel index values for fields that don't apply to a given token kind.
const (
	NoLiteral literal.Index = ^literal.Index(0)
	NoLexeme  lexeme.ID     = ^lexeme.ID(0)
)

// Token is the fixed-layout record produced by the scanner.
type Token struct {
	Kind     Kind
	Line     uint32
	Position uint32
	Literal  literal.Index // valid only for string/number/boolean/null tokens
	Lexeme   lexeme.ID     // valid only for identifier tokens
}

// New constructs a token with no literal/lexeme reference.
func New(kind Kind, line, position uint32) Token {
	return Token{Kind: kind, Line: line, Position: position, Literal: NoLiteral, Lexeme: NoLexeme}
}

// WithLiteral constructs a token that references a pool entry.
func WithLiteral(kind Kind, line, position uint32, lit literal.Index) Token {
	return Token{Kind: kind, Line: line, Position: position, Literal: lit, Lexeme: NoLexeme}
}

// WithLexeme constructs a token that references an interned identifier.
func WithLexeme(kind Kind, line, position uint32, id lexeme.ID) Token {
	return Token{Kind: kind, Line: line, Position: position, Literal: NoLiteral, Lexeme: id}
}

// Width returns the byte length of the kind's spelling (Kind.String), used
// by the diagnostic reporter to compute an underline span. For punctuation,
// operators and keywords this is the source width; for identifier, literal
// and EOF tokens it is the length of the kind's name, not of the source text.
func (t Token) Width() uint32 {
	return uint32(len(t.Kind.String()))
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s @%d:%d)", t.Kind, t.Line, t.Position)
}
