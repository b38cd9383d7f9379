package builtins

import (
	"github.com/joho/godotenv"

	"github.com/lox-lang/golox/pkg/literal"
)

// nativeLoadEnv wraps godotenv.Load, letting a running script reload
// configuration without restarting the interpreter.
func nativeLoadEnv(args []literal.Value) (literal.Value, error) {
	path, err := argString(args, 0)
	if err != nil {
		return literal.Nil, err
	}
	if err := godotenv.Load(path); err != nil {
		return literal.Bool(false), nil
	}
	return literal.Bool(true), nil
}
