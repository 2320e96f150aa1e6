// Package mailer delivers the withdrawal confirmation email over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"

	mail "github.com/go-mail/mail/v2"
	"github.com/ognlabs/token-transfer/pkg/config"
	"github.com/ognlabs/token-transfer/pkg/domain"
	"github.com/shopspring/decimal"
)

// Mailer sends transfer confirmation emails. When disabled it logs the link
// instead of dialing SMTP, which keeps local development usable.
type Mailer struct {
	dialer  *mail.Dialer
	from    string
	enabled bool
	logger  *slog.Logger
}

// New creates a Mailer from SMTP config.
func New(cfg config.SMTP, logger *slog.Logger) *Mailer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Mailer{
		dialer:  d,
		from:    cfg.From,
		enabled: cfg.Enabled,
		logger:  logger,
	}
}

// SendTransferConfirmation emails the confirmation link for a pending
// withdrawal. The five minute window in the copy is the same constant the
// server uses to expire the request.
func (m *Mailer) SendTransferConfirmation(ctx context.Context, to string, amount decimal.Decimal, link string) error {
	subject := "Confirm your OGN withdrawal"
	body := fmt.Sprintf(`
		<h1>Confirm your withdrawal</h1>
		<p>You requested a withdrawal of <strong>%s OGN</strong>.</p>
		<p><a href="%s">Click here to confirm your withdrawal.</a></p>
		<p>This link expires %s after your request was made. If you did not
		request this withdrawal, contact support immediately.</p>
	`, amount.String(), link, domain.ConfirmationWindow)

	if !m.enabled {
		m.logger.Info("email sending disabled, confirmation link not delivered",
			"to", to, "link", link)
		return nil
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	m.logger.Info("confirmation email sent", "to", to)
	return nil
}
