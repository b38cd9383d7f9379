package builtins

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lox-lang/golox/pkg/literal"
)

// nativeHashPassword wraps bcrypt.GenerateFromPassword, grounded on the
// teacher's auth_helpers.go:HashPassword.
func nativeHashPassword(args []literal.Value) (literal.Value, error) {
	password, err := argString(args, 0)
	if err != nil {
		return literal.Nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return literal.Nil, fmt.Errorf("hash_password: %w", err)
	}
	return literal.Str(string(hash)), nil
}

// nativeVerifyPassword wraps bcrypt.CompareHashAndPassword, grounded on
// auth_helpers.go:VerifyPassword.
func nativeVerifyPassword(args []literal.Value) (literal.Value, error) {
	password, err := argString(args, 0)
	if err != nil {
		return literal.Nil, err
	}
	hash, err := argString(args, 1)
	if err != nil {
		return literal.Nil, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return literal.Bool(err == nil), nil
}

// nativeJWTSign wraps jwt.NewWithClaims with HS256, grounded on
// auth_helpers.go:SignToken. Lox has no map literal, so the claim set is
// collapsed to `sub` plus the standard `exp`.
func nativeJWTSign(args []literal.Value) (literal.Value, error) {
	subject, err := argString(args, 0)
	if err != nil {
		return literal.Nil, err
	}
	secret, err := argString(args, 1)
	if err != nil {
		return literal.Nil, err
	}
	ttl, err := argInt(args, 2)
	if err != nil {
		return literal.Nil, err
	}

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Duration(ttl) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return literal.Nil, fmt.Errorf("jwt_sign: %w", err)
	}
	return literal.Str(signed), nil
}

// nativeJWTVerify wraps jwt.Parse with an HMAC keyfunc, grounded on
// auth_helpers.go:VerifyToken. Claims are discarded — Lox has no map type
// to return them in, so this reports validity only.
func nativeJWTVerify(args []literal.Value) (literal.Value, error) {
	tokenString, err := argString(args, 0)
	if err != nil {
		return literal.Nil, err
	}
	secret, err := argString(args, 1)
	if err != nil {
		return literal.Nil, err
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return literal.Bool(false), nil
	}
	return literal.Bool(token.Valid), nil
}
