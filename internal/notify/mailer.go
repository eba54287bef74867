// Package notify sends the outbound account emails over SMTP.
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/vivienda/bienesraices/internal/config"
)

// Logger matches the application's small leveled logging contract.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Mailer delivers confirmation and password-reset emails. When SMTP is not
// configured it logs and skips delivery instead of failing registration.
type Mailer struct {
	cfg     config.EmailConfig
	baseURL string
	logger  Logger
}

// NewMailer creates a new Mailer.
func NewMailer(cfg config.EmailConfig, baseURL string, logger Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
	}
}

// SendAccountConfirmation mails the confirmation link carrying the
// single-use token.
func (m *Mailer) SendAccountConfirmation(ctx context.Context, name, email, token string) error {
	link := fmt.Sprintf("%s/auth/confirmar/%s", m.baseURL, token)
	body := fmt.Sprintf(
		"<p>Hola %s, confirma tu cuenta en BienesRaices.</p>"+
			"<p>Tu cuenta ya esta lista, solo debes confirmarla en el siguiente enlace: "+
			"<a href=%q>Confirmar Cuenta</a></p>"+
			"<p>Si tu no creaste esta cuenta, puedes ignorar el mensaje.</p>",
		name, link,
	)

	return m.send(email, "Confirma tu cuenta en BienesRaices", body)
}

// SendPasswordReset mails the reset link carrying the single-use token.
func (m *Mailer) SendPasswordReset(ctx context.Context, name, email, token string) error {
	link := fmt.Sprintf("%s/auth/olvide-password/%s", m.baseURL, token)
	body := fmt.Sprintf(
		"<p>Hola %s, has solicitado reestablecer tu password en BienesRaices.</p>"+
			"<p>Sigue el siguiente enlace para generar un password nuevo: "+
			"<a href=%q>Reestablecer Password</a></p>"+
			"<p>Si tu no solicitaste el cambio, puedes ignorar el mensaje.</p>",
		name, link,
	)

	return m.send(email, "Reestablece tu password en BienesRaices", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.cfg.SMTPHost == "" || m.cfg.FromEmail == "" {
		m.logger.Warnf("email config missing, skipping notification to %s", to)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Infof("email notification sent to %s", to)
	return nil
}
