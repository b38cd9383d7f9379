package builtins

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"

	"github.com/lox-lang/golox/pkg/environment"
	"github.com/lox-lang/golox/pkg/literal"
)

// nativeSendMail wraps gopkg.in/gomail.v2, grounded verbatim on the
// teacher's mail.send builtin in pkg/eval/eval.go (search "Create message
// using gomail"). SMTP credentials come from the environment — loaded via
// load_env/godotenv, or already present in the process environment.
func nativeSendMail(logger *slog.Logger) environment.NativeFn {
	return func(args []literal.Value) (literal.Value, error) {
		to, err := argString(args, 0)
		if err != nil {
			return literal.Nil, err
		}
		subject, err := argString(args, 1)
		if err != nil {
			return literal.Nil, err
		}
		body, err := argString(args, 2)
		if err != nil {
			return literal.Nil, err
		}

		smtpHost := os.Getenv("SMTP_HOST")
		smtpPortStr := os.Getenv("SMTP_PORT")
		smtpUser := os.Getenv("SMTP_USER")
		smtpPass := os.Getenv("SMTP_PASS")

		if smtpHost == "" || smtpPortStr == "" {
			return literal.Nil, fmt.Errorf("send_mail: SMTP_HOST and SMTP_PORT environment variables must be set")
		}
		smtpPort, err := strconv.Atoi(smtpPortStr)
		if err != nil {
			return literal.Nil, fmt.Errorf("send_mail: SMTP_PORT must be an integer")
		}

		from := smtpUser
		if from == "" {
			from = "noreply@example.com"
		}

		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", body)

		d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
		logger.Debug("send_mail dialing", "host", smtpHost, "port", smtpPort)
		if err := d.DialAndSend(m); err != nil {
			logger.Warn("send_mail failed", "error", err)
			return literal.Bool(false), nil
		}
		return literal.Bool(true), nil
	}
}
