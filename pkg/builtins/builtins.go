// Package builtins registers the language's native function surface —
// print/println/time plus the domain-stack capabilities backed by the
// host's third-party libraries — into an Environment's function registry.
package builtins

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/lexeme"
	"github.com/lox-lang/golox/pkg/literal"
)

// Register installs every builtin into env, interning each name through
// lexemes so later identifier lookups resolve to the same IDs the scanner
// would produce for a call site. w is where print/println write.
func Register(env *environment.Environment, lexemes *lexeme.Database, w io.Writer) {
	logger := slog.Default()

	def := func(name string, arity int, fn environment.NativeFn) {
		id := lexemes.Add(name)
		env.RegisterFunction(id, environment.Function{
			Name:     id,
			IsNative: true,
			Arity:    arity,
			Native:   fn,
		})
	}

	def("print", -1, nativePrint(w, false))
	def("println", -1, nativePrint(w, true))
	def("time", 0, nativeTime)

	def("hash_password", 1, nativeHashPassword)
	def("verify_password", 2, nativeVerifyPassword)
	def("jwt_sign", 3, nativeJWTSign)
	def("jwt_verify", 2, nativeJWTVerify)
	def("http_get", 1, nativeHTTPGet(logger))
	def("ws_send", 2, nativeWSSend(logger))
	def("send_mail", 3, nativeSendMail(logger))
	def("load_env", 1, nativeLoadEnv)
}

func nativePrint(w io.Writer, newline bool) environment.NativeFn {
	return func(args []literal.Value) (literal.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprint(w, a.String())
		}
		if newline {
			fmt.Fprintln(w)
		}
		return literal.Nil, nil
	}
}

func nativeTime(args []literal.Value) (literal.Value, error) {
	return literal.Int(time.Now().UnixMilli()), nil
}

func argString(args []literal.Value, i int) (string, error) {
	s, ok := args[i].AsString()
	if !ok {
		return "", fmt.Errorf("argument %d must be a string, got %s", i+1, args[i].Kind())
	}
	return s, nil
}

func argInt(args []literal.Value, i int) (int64, error) {
	n, ok := args[i].AsInt()
	if !ok {
		return 0, fmt.Errorf("argument %d must be an integer, got %s", i+1, args[i].Kind())
	}
	return n, nil
}
