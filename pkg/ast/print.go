package ast

import (
	"fmt"
	"strings"

	"github.com/lox-lang/golox/pkg/lexeme"
)

// Dump renders prog as an indented s-expression tree, for the `lox ast`
// debug subcommand. It is not used by the evaluator.
func Dump(prog *Program, lexemes *lexeme.Database) string {
	var b strings.Builder
	for _, s := range prog.Statements {
		dumpStmt(&b, prog, lexemes, s, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(b *strings.Builder, p *Program, lex *lexeme.Database, h StmtHandle, depth int) {
	if h.Empty() {
		return
	}
	indent(b, depth)
	switch h.Kind {
	case StmtExpression:
		fmt.Fprintln(b, "(expr")
		dumpExpr(b, p, lex, p.ExpressionStmt(h).Expr, depth+1)
		closeParen(b, depth)
	case StmtVariable:
		v := p.VariableStmt(h)
		fmt.Fprintf(b, "(var %s\n", lex.Get(v.Name.Lexeme))
		dumpExpr(b, p, lex, v.Initializer, depth+1)
		closeParen(b, depth)
	case StmtConstant:
		c := p.ConstantStmt(h)
		fmt.Fprintf(b, "(const %s\n", lex.Get(c.Name.Lexeme))
		dumpExpr(b, p, lex, c.Initializer, depth+1)
		closeParen(b, depth)
	case StmtScope:
		fmt.Fprintln(b, "(scope")
		for _, s := range p.ScopeStmt(h).Body {
			dumpStmt(b, p, lex, s, depth+1)
		}
		closeParen(b, depth)
	case StmtBranch:
		br := p.BranchStmt(h)
		fmt.Fprintln(b, "(if")
		dumpExpr(b, p, lex, br.Condition, depth+1)
		dumpStmt(b, p, lex, br.Then, depth+1)
		dumpStmt(b, p, lex, br.Else, depth+1)
		closeParen(b, depth)
	case StmtLoop:
		l := p.LoopStmt(h)
		fmt.Fprintln(b, "(loop")
		dumpExpr(b, p, lex, l.Condition, depth+1)
		dumpStmt(b, p, lex, l.Body, depth+1)
		closeParen(b, depth)
	case StmtFunction:
		f := p.FunctionStmt(h)
		fmt.Fprintf(b, "(fun %s\n", lex.Get(f.Name.Lexeme))
		dumpStmt(b, p, lex, f.Body, depth+1)
		closeParen(b, depth)
	case StmtReturn:
		r := p.ReturnStmt(h)
		fmt.Fprintln(b, "(return")
		dumpExpr(b, p, lex, r.Value, depth+1)
		closeParen(b, depth)
	}
}

func dumpExpr(b *strings.Builder, p *Program, lex *lexeme.Database, h ExprHandle, depth int) {
	if h.Empty() {
		return
	}
	indent(b, depth)
	switch h.Kind {
	case ExprLiteral:
		fmt.Fprintf(b, "%s\n", p.Literal(h).Value.String())
	case ExprIdentifier:
		fmt.Fprintf(b, "%s\n", lex.Get(p.Identifier(h).Name.Lexeme))
	case ExprGrouping:
		fmt.Fprintln(b, "(group")
		dumpExpr(b, p, lex, p.Grouping(h).Inner, depth+1)
		closeParen(b, depth)
	case ExprUnary:
		u := p.Unary(h)
		fmt.Fprintf(b, "(%s\n", u.Op.Kind)
		dumpExpr(b, p, lex, u.Operand, depth+1)
		closeParen(b, depth)
	case ExprBinary:
		bin := p.Binary(h)
		fmt.Fprintf(b, "(%s\n", bin.Op.Kind)
		dumpExpr(b, p, lex, bin.Left, depth+1)
		dumpExpr(b, p, lex, bin.Right, depth+1)
		closeParen(b, depth)
	case ExprLogical:
		lg := p.Logical(h)
		fmt.Fprintf(b, "(%s\n", lg.Op.Kind)
		dumpExpr(b, p, lex, lg.Left, depth+1)
		dumpExpr(b, p, lex, lg.Right, depth+1)
		closeParen(b, depth)
	case ExprAssignment:
		a := p.Assignment(h)
		fmt.Fprintf(b, "(= %s\n", lex.Get(a.Target.Lexeme))
		dumpExpr(b, p, lex, a.Value, depth+1)
		closeParen(b, depth)
	case ExprIncDec:
		id := p.IncDec(h)
		fmt.Fprintf(b, "(%s %s)\n", id.Op.Kind, lex.Get(id.Target.Lexeme))
	case ExprCall:
		c := p.Call(h)
		fmt.Fprintln(b, "(call")
		dumpExpr(b, p, lex, c.Callee, depth+1)
		for _, a := range c.Args {
			dumpExpr(b, p, lex, a, depth+1)
		}
		closeParen(b, depth)
	}
}

func closeParen(b *strings.Builder, depth int) {
	indent(b, depth)
	b.WriteString(")\n")
}
