// Package mailer delivers notification email. The SMTP sender is the runtime
// implementation; LogSender stands in when SMTP is not configured so worker
// wiring never branches on delivery capability.
package mailer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"quorum/contexts/qa-core/question-service/ports"
)

type SMTPSender struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

func NewSMTPSender(host string, port int, username string, password string, from string, logger *slog.Logger) (*SMTPSender, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(from) == "" {
		return nil, errors.New("mail from address is required")
	}

	options := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if strings.TrimSpace(username) != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	client, err := mail.NewClient(host, options...)
	if err != nil {
		return nil, err
	}
	return &SMTPSender{
		client: client,
		from:   from,
		logger: logger,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, message ports.MailMessage) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(message.To...); err != nil {
		return err
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		if s.logger != nil {
			s.logger.Error("smtp delivery failed",
				"event", "mailer_send_failed",
				"module", "internal/platform/mailer",
				"layer", "platform",
				"recipient_count", len(message.To),
				"error", err.Error(),
			)
		}
		return err
	}
	return nil
}

// LogSender records the mail instead of delivering it.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, message ports.MailMessage) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("mail delivery skipped (no smtp configured)",
		"event", "mailer_send_logged",
		"module", "internal/platform/mailer",
		"layer", "platform",
		"subject", message.Subject,
		"recipient_count", len(message.To),
	)
	return nil
}

var _ ports.MailSender = (*SMTPSender)(nil)
var _ ports.MailSender = LogSender{}
