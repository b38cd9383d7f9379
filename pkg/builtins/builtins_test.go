package builtins

import (
	"bytes"
	"testing"

	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/lexeme"
	"github.com/lox-lang/golox/pkg/literal"
)

func setup(t *testing.T) (*environment.Environment, *lexeme.Database, *bytes.Buffer) {
	t.Helper()
	env := environment.New()
	lexemes := lexeme.NewDatabase()
	var out bytes.Buffer
	Register(env, lexemes, &out)
	return env, lexemes, &out
}

func call(t *testing.T, env *environment.Environment, lexemes *lexeme.Database, name string, args []literal.Value) (literal.Value, error) {
	t.Helper()
	id, ok := lexemes.Find(name)
	if !ok {
		t.Fatalf("builtin %q was not registered", name)
	}
	value, ok := env.LookUp(id)
	if !ok {
		t.Fatalf("builtin %q has no binding", name)
	}
	index, ok := value.AsInt()
	if !ok {
		t.Fatalf("builtin %q binding is not an Integral registry index", name)
	}
	fn, ok := env.FunctionAt(index)
	if !ok {
		t.Fatalf("no function registered at index for %q", name)
	}
	return fn.Native(args)
}

func TestPrintWritesSpaceSeparatedValues(t *testing.T) {
	env, lexemes, out := setup(t)
	if _, err := call(t, env, lexemes, "print", []literal.Value{literal.Int(1), literal.Str("x")}); err != nil {
		t.Fatalf("print: %v", err)
	}
	if out.String() != "1 x" {
		t.Fatalf("print output = %q, want %q", out.String(), "1 x")
	}
}

func TestPrintlnAppendsNewline(t *testing.T) {
	env, lexemes, out := setup(t)
	if _, err := call(t, env, lexemes, "println", []literal.Value{literal.Str("hi")}); err != nil {
		t.Fatalf("println: %v", err)
	}
	if out.String() != "hi\n" {
		t.Fatalf("println output = %q, want %q", out.String(), "hi\n")
	}
}

func TestHashAndVerifyPasswordRoundTrip(t *testing.T) {
	env, lexemes, _ := setup(t)
	hashed, err := call(t, env, lexemes, "hash_password", []literal.Value{literal.Str("s3cret")})
	if err != nil {
		t.Fatalf("hash_password: %v", err)
	}
	hash, ok := hashed.AsString()
	if !ok || hash == "s3cret" {
		t.Fatalf("hash_password should return a distinct hashed string, got %v", hashed)
	}

	verified, err := call(t, env, lexemes, "verify_password", []literal.Value{literal.Str("s3cret"), hashed})
	if err != nil {
		t.Fatalf("verify_password: %v", err)
	}
	if ok, _ := verified.AsBool(); !ok {
		t.Fatalf("verify_password should accept the password it just hashed")
	}

	rejected, err := call(t, env, lexemes, "verify_password", []literal.Value{literal.Str("wrong"), hashed})
	if err != nil {
		t.Fatalf("verify_password: %v", err)
	}
	if ok, _ := rejected.AsBool(); ok {
		t.Fatalf("verify_password should reject the wrong password")
	}
}

func TestJWTSignAndVerifyRoundTrip(t *testing.T) {
	env, lexemes, _ := setup(t)
	signed, err := call(t, env, lexemes, "jwt_sign", []literal.Value{literal.Str("alice"), literal.Str("secret"), literal.Int(3600)})
	if err != nil {
		t.Fatalf("jwt_sign: %v", err)
	}
	token, ok := signed.AsString()
	if !ok || token == "" {
		t.Fatalf("jwt_sign should return a non-empty token string, got %v", signed)
	}

	verified, err := call(t, env, lexemes, "jwt_verify", []literal.Value{signed, literal.Str("secret")})
	if err != nil {
		t.Fatalf("jwt_verify: %v", err)
	}
	if ok, _ := verified.AsBool(); !ok {
		t.Fatalf("jwt_verify should accept a token signed with the same secret")
	}

	rejected, err := call(t, env, lexemes, "jwt_verify", []literal.Value{signed, literal.Str("wrong-secret")})
	if err != nil {
		t.Fatalf("jwt_verify: %v", err)
	}
	if ok, _ := rejected.AsBool(); ok {
		t.Fatalf("jwt_verify should reject a token verified against the wrong secret")
	}
}

func TestLoadEnvMissingFileReturnsFalse(t *testing.T) {
	env, lexemes, _ := setup(t)
	result, err := call(t, env, lexemes, "load_env", []literal.Value{literal.Str("/nonexistent/.env")})
	if err != nil {
		t.Fatalf("load_env: %v", err)
	}
	if ok, _ := result.AsBool(); ok {
		t.Fatalf("load_env on a missing file should return false")
	}
}

func TestTimeReturnsIntegral(t *testing.T) {
	env, lexemes, _ := setup(t)
	result, err := call(t, env, lexemes, "time", nil)
	if err != nil {
		t.Fatalf("time: %v", err)
	}
	if result.Kind() != literal.Integral {
		t.Fatalf("time() kind = %v, want Integral", result.Kind())
	}
}
