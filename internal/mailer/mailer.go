// Package mailer sends transactional mail over SMTP. The only
// message this service sends is the password reset email carrying
// the reset code and a frontend link embedding it.
package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/iliyamo/account-recovery/internal/config"
)

// SMTPMailer dispatches mail through a single configured SMTP
// transport. Dispatch is synchronous: the caller decides what a
// failed send means for the request.
type SMTPMailer struct {
	host            string
	port            int
	username        string
	password        string
	sender          string
	frontendBaseURL string
}

func New(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:            cfg.SMTPHost,
		port:            cfg.SMTPPort,
		username:        cfg.SMTPUser,
		password:        cfg.SMTPPass,
		sender:          cfg.EmailSender,
		frontendBaseURL: strings.TrimRight(cfg.FrontendBaseURL, "/"),
	}
}

// SendPasswordReset emails the reset code to the user, both as a
// literal code and inside a link to the frontend reset page. The
// expiry is included so the recipient knows how long the code lasts.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, code string, expiresAt time.Time) error {
	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Password reset request")

	link := fmt.Sprintf("%s/reset-password?code=%s", m.frontendBaseURL, code)
	minutes := int(time.Until(expiresAt).Minutes())

	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"A password reset was requested for this address.\n\n"+
			"Your reset code is: %s\n\n"+
			"You can also open %s\n\n"+
			"The code expires in %d minutes. If you did not request a reset, ignore this email.\n",
		code, link, minutes))
	msg.AddAlternativeString(mail.TypeTextHTML, fmt.Sprintf(
		"<p>A password reset was requested for this address.</p>"+
			"<p>Your reset code is: <strong>%s</strong></p>"+
			"<p>You can also <a href=%q>reset your password here</a>.</p>"+
			"<p>The code expires in %d minutes. If you did not request a reset, ignore this email.</p>",
		code, link, minutes))

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.username),
			mail.WithPassword(m.password))
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}
