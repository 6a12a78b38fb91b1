package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/stayvista/backend/pkg/breaker"
)

// Message is one email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sink delivers messages.
type Sink interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig configures SMTPSink.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPSink sends mail through an SMTP server behind a circuit breaker.
type SMTPSink struct {
	dialer *gomail.Dialer
	from   string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewSMTPSink creates an SMTP sink.
func NewSMTPSink(cfg SMTPConfig, logger *zap.Logger) *SMTPSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%q <%s>", cfg.FromName, cfg.FromAddress)
	}
	return &SMTPSink{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   from,
		cb:     breaker.New("smtp", logger),
		logger: logger,
	}
}

// From returns the formatted sender header.
func (s *SMTPSink) From() string { return s.from }

// Verify dials and authenticates once without sending.
func (s *SMTPSink) Verify() error {
	conn, err := s.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	return conn.Close()
}

// Send delivers m. ctx is checked before dialing; gomail itself is not cancellable.
func (s *SMTPSink) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("smtp send: empty recipient")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)

	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.dialer.DialAndSend(msg)
	})
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", m.To, err)
	}
	s.logger.Debug("email sent", zap.String("to", m.To), zap.String("subject", m.Subject))
	return nil
}
