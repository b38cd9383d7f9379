package builtins

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/literal"
)

// httpResponseCap bounds how much of a response body http_get will read
// back into a Lox string, since the language has no streaming type.
const httpResponseCap = 1 << 20 // 1 MiB

// nativeHTTPGet wraps net/http, grounded on the teacher's pkg/vm/http_server.go
// HTTP surface (there used server-side; here used client-side for a script
// built-in, the only direction that fits a call expression).
func nativeHTTPGet(logger *slog.Logger) environment.NativeFn {
	return func(args []literal.Value) (literal.Value, error) {
		url, err := argString(args, 0)
		if err != nil {
			return literal.Nil, err
		}

		logger.Debug("http_get dialing", "url", url)
		resp, err := http.Get(url)
		if err != nil {
			logger.Warn("http_get failed", "url", url, "error", err)
			return literal.Nil, fmt.Errorf("http_get: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			logger.Warn("http_get non-2xx response", "url", url, "status", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, httpResponseCap))
		if err != nil {
			return literal.Nil, fmt.Errorf("http_get: reading body: %w", err)
		}
		return literal.Str(string(body)), nil
	}
}

// nativeWSSend dials url as a client, writes one text frame, and closes.
// Grounded on pkg/eval/ws_helpers.go's use of gorilla/websocket, adapted
// from the teacher's server-side Upgrade to a client Dial since a Lox
// script is always the calling side of this capability.
func nativeWSSend(logger *slog.Logger) environment.NativeFn {
	return func(args []literal.Value) (literal.Value, error) {
		url, err := argString(args, 0)
		if err != nil {
			return literal.Nil, err
		}
		message, err := argString(args, 1)
		if err != nil {
			return literal.Nil, err
		}

		logger.Debug("ws_send dialing", "url", url)
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			logger.Warn("ws_send dial failed", "url", url, "error", err)
			return literal.Bool(false), nil
		}
		defer conn.Close()

		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			logger.Warn("ws_send write failed", "url", url, "error", err)
			return literal.Bool(false), nil
		}
		return literal.Bool(true), nil
	}
}
