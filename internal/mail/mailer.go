// Package mail sends the portal's outbound notification emails over SMTP.
// Currently the only notification is the password-reset email; the Mailer is
// kept generic so further notifications reuse the same delivery path.
package mail

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/vijana-portal/vijana-portal/internal/config"
)

// Mailer delivers notification emails using the configured SMTP server
type Mailer struct {
	cfg *config.NotificationsConfig
}

// NewMailer creates a Mailer from the notifications configuration
func NewMailer(cfg *config.NotificationsConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether outbound mail is configured and switched on
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.SMTP.Host != ""
}

// SendPasswordReset emails a reset link to a user, in Swahili with an English
// section underneath so the message is readable regardless of language setting.
func (m *Mailer) SendPasswordReset(toEmail, userName, resetURL string, ttlMinutes int) error {
	subject := "Kubadili Nenosiri / Password Reset"
	body := strings.Join([]string{
		fmt.Sprintf("Habari %s,", userName),
		"",
		"Tumepokea ombi la kubadili nenosiri la akaunti yako.",
		fmt.Sprintf("Fungua kiungo hiki ndani ya dakika %d kuweka nenosiri jipya:", ttlMinutes),
		"",
		"  " + resetURL,
		"",
		"Kama hukuomba kubadili nenosiri, puuza barua pepe hii.",
		"",
		"----------------------------------------",
		"",
		fmt.Sprintf("Hello %s,", userName),
		"",
		"We received a request to reset the password for your account.",
		fmt.Sprintf("Open this link within %d minutes to set a new password:", ttlMinutes),
		"",
		"  " + resetURL,
		"",
		"If you did not request a password reset, ignore this email.",
	}, "\r\n")

	return m.send(toEmail, subject, body)
}

// send composes a plain-text message and delivers it over SMTP
func (m *Mailer) send(toEmail, subject, body string) error {
	smtpCfg := &m.cfg.SMTP
	headers := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n",
		smtpCfg.From, toEmail, subject,
	)
	msg := []byte(headers + body + "\r\n")

	addr := fmt.Sprintf("%s:%d", smtpCfg.Host, smtpCfg.Port)
	auth := smtp.PlainAuth("", smtpCfg.Username, smtpCfg.Password, smtpCfg.Host)

	if smtpCfg.UseTLS {
		return sendMailTLS(addr, smtpCfg.Host, auth, smtpCfg.From, []string{toEmail}, msg)
	}
	return smtp.SendMail(addr, auth, smtpCfg.From, []string{toEmail}, msg)
}

// sendMailTLS connects via implicit TLS (port 465 / SMTPS) and sends a message.
// Use this when UseTLS=true and the port is 465; for port 587 STARTTLS,
// smtp.SendMail handles the upgrade automatically — but we call this path for
// both so the config is unambiguous: UseTLS=true always means an encrypted connection.
func sendMailTLS(addr, host string, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		// Fall back to STARTTLS via the standard smtp.SendMail path (port 587 pattern)
		return smtp.SendMail(addr, auth, from, to, msg)
	}
	defer conn.Close()

	hostname, _, _ := net.SplitHostPort(addr)
	c, err := smtp.NewClient(conn, hostname)
	if err != nil {
		return fmt.Errorf("smtp new client: %w", err)
	}
	defer c.Quit() //nolint:errcheck

	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", rcpt, err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return w.Close()
}
