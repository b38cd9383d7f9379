// Command lox is the interpreter's command-line driver: a REPL when given
// no arguments, a one-shot script runner when given a path, and two
// additive debug subcommands for inspecting the scanner/parser output.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/lox-lang/golox/pkg/ast"
	"github.com/lox-lang/golox/pkg/builtins"
	"github.com/lox-lang/golox/pkg/diag"
	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/eval"
	"github.com/lox-lang/golox/pkg/lexeme"
	"github.com/lox-lang/golox/pkg/literal"
	"github.com/lox-lang/golox/pkg/parser"
	"github.com/lox-lang/golox/pkg/scanner"
)

// sysexits.h-style process exit codes.
const (
	exitOK       = 0
	exitUsage    = 64
	exitSoftware = 70
	exitIOErr    = 74
)

func main() {
	_ = godotenv.Load() // optional; absence of a .env file is not an error

	args := os.Args[1:]

	switch {
	case len(args) == 2 && args[0] == "tokens":
		os.Exit(runTokens(args[1]))
	case len(args) == 2 && args[0] == "ast":
		os.Exit(runAST(args[1]))
	case len(args) == 0:
		runREPL()
	case len(args) == 1:
		os.Exit(runFile(args[0]))
	default:
		printUsage(os.Args[0])
		os.Exit(exitUsage)
	}
}

func printUsage(program string) {
	fmt.Fprintf(os.Stderr, "Usage: %s [script]\n", program)
}

// runFile scans, parses, and evaluates path once, returning the process
// exit code: ok if nothing was reported, software if any diagnostic was
// recorded in any phase, ioerr if the file itself could not be read.
func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: cannot read %q: %v\n", path, err)
		return exitIOErr
	}
	return interpret(path, string(source), os.Stdout)
}

func interpret(path, source string, out io.Writer) int {
	errout := diag.New(path, source)

	lex := scanner.New(source, errout)
	scanned := lex.Scan()

	if errout.HasErrors() {
		fmt.Fprint(out, errout.Render())
		return exitSoftware
	}

	p := parser.New(scanned.Tokens, scanned.Pool, errout)
	prog := p.Parse()

	if errout.HasErrors() {
		fmt.Fprint(out, errout.Render())
		return exitSoftware
	}

	env := environment.New()
	builtins.Register(env, scanned.Lexemes, out)

	ev := eval.New(prog, env, scanned.Lexemes, errout)
	ev.Run()

	if !errout.Empty() {
		fmt.Fprint(out, errout.Render())
	}
	if errout.HasErrors() {
		return exitSoftware
	}
	return exitOK
}

// runREPL implements the interactive prompt: each line is scanned, parsed,
// and evaluated independently, sharing one environment across lines so
// declarations persist.
func runREPL() {
	fmt.Println("Lox 1.0.0")

	env := environment.New()
	lexemes := lexeme.NewDatabase()
	pool := literal.NewPool()
	builtins.Register(env, lexemes, os.Stdout)

	reader := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !reader.Scan() {
			fmt.Println()
			return
		}
		line := reader.Text()
		if line == "" {
			continue
		}
		runLine(line, env, lexemes, pool)
	}
}

// exitName is the sysexits.h-style name printed after each REPL line, per
// spec.md §6.
func exitName(code int) string {
	switch code {
	case exitOK:
		return "ok"
	case exitUsage:
		return "usage"
	case exitIOErr:
		return "ioerr"
	default:
		return "software"
	}
}

// runLine scans and evaluates one REPL line against the shared lexeme
// database and literal pool, so identifier and function-registry
// references declared on earlier lines keep resolving correctly. It prints
// the line's exit-code name after evaluation, matching the one-shot runner's
// contract.
func runLine(line string, env *environment.Environment, lexemes *lexeme.Database, pool *literal.Pool) {
	errout := diag.New("<repl>", line)

	lex := scanner.NewShared(line, errout, lexemes, pool)
	scanned := lex.Scan()

	if errout.HasErrors() {
		fmt.Print(errout.Render())
		fmt.Println(exitName(exitSoftware))
		return
	}

	p := parser.New(scanned.Tokens, scanned.Pool, errout)
	prog := p.Parse()
	if errout.HasErrors() {
		fmt.Print(errout.Render())
		fmt.Println(exitName(exitSoftware))
		return
	}

	ev := eval.New(prog, env, lexemes, errout)
	ev.Run()
	if !errout.Empty() {
		fmt.Print(errout.Render())
	}
	if errout.HasErrors() {
		fmt.Println(exitName(exitSoftware))
	} else {
		fmt.Println(exitName(exitOK))
	}
}

func runTokens(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: cannot read %q: %v\n", path, err)
		return exitIOErr
	}
	errout := diag.New(path, string(source))
	lex := scanner.New(string(source), errout)
	out := lex.Scan()
	for _, tok := range out.Tokens {
		fmt.Println(tok.String())
	}
	if errout.HasErrors() {
		fmt.Fprint(os.Stdout, errout.Render())
		return exitSoftware
	}
	return exitOK
}

func runAST(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: cannot read %q: %v\n", path, err)
		return exitIOErr
	}
	errout := diag.New(path, string(source))
	lex := scanner.New(string(source), errout)
	scanned := lex.Scan()
	if errout.HasErrors() {
		fmt.Fprint(os.Stdout, errout.Render())
		return exitSoftware
	}

	p := parser.New(scanned.Tokens, scanned.Pool, errout)
	prog := p.Parse()
	if errout.HasErrors() {
		fmt.Fprint(os.Stdout, errout.Render())
		return exitSoftware
	}

	fmt.Print(ast.Dump(prog, scanned.Lexemes))
	return exitOK
}
