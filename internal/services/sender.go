package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/noobsmoke/auth-service/internal/lib/sl"
	"github.com/noobsmoke/auth-service/internal/lib/smtp"
	"github.com/noobsmoke/auth-service/internal/models"
)

// SenderService отправляет письма с кодом подтверждения через SMTP транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendVerificationEmail отправляет пользователю письмо с его текущим кодом подтверждения.
func (s *SenderService) SendVerificationEmail(user *models.User) error {
	if user.VerificationCode == nil {
		return fmt.Errorf("user %s has no pending verification code", user.Username)
	}

	subject := fmt.Sprintf("Account Verification (%s)", user.Username)
	return s.sendEmail([]string{user.Email}, subject, verificationHTML(*user.VerificationCode))
}

// verificationHTML собирает HTML-тело письма с кодом подтверждения.
func verificationHTML(code string) string {
	return `<!doctype html>` +
		`<html lang="en">` +
		`<head><meta charset="UTF-8" /><meta name="viewport" content="width=device-width,initial-scale=1" /></head>` +
		`<body style="margin:0;padding:0;background-color:#f4f6f8;">` +
		`<div style="display:none;max-height:0;overflow:hidden;opacity:0;color:transparent;">` +
		`Your verification code is ` + code + `.` +
		`</div>` +
		`<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f6f8;">` +
		`<tr><td align="center" style="padding:24px 12px;">` +
		`<table role="presentation" width="600" cellpadding="0" cellspacing="0" style="width:600px;max-width:600px;background:#ffffff;border-radius:14px;overflow:hidden;">` +
		`<tr><td style="padding:22px 24px;background:#0b5fff;">` +
		`<div style="font-family:Arial,Helvetica,sans-serif;font-size:18px;line-height:1.2;color:#ffffff;font-weight:700;">YourApp</div>` +
		`<div style="font-family:Arial,Helvetica,sans-serif;font-size:13px;line-height:1.4;color:#dbe7ff;margin-top:6px;">Email verification</div>` +
		`</td></tr>` +
		`<tr><td style="padding:28px 24px 10px 24px;">` +
		`<div style="font-family:Arial,Helvetica,sans-serif;font-size:16px;line-height:1.5;color:#111827;font-weight:700;">Verify your email address</div>` +
		`<div style="font-family:Arial,Helvetica,sans-serif;font-size:14px;line-height:1.6;color:#374151;margin-top:10px;">Enter the code below to continue.</div>` +
		`<table role="presentation" cellpadding="0" cellspacing="0" style="margin:18px 0 6px 0;"><tr><td style="background:#f3f4f6;border:1px solid #e5e7eb;border-radius:12px;padding:14px 18px;">` +
		`<div style="font-family:Arial,Helvetica,sans-serif;font-size:28px;letter-spacing:6px;color:#111827;font-weight:800;text-align:center;">` +
		code +
		`</div></td></tr></table>` +
		`<div style="font-family:Arial,Helvetica,sans-serif;font-size:12px;line-height:1.6;color:#6b7280;margin-top:6px;">If you did not request this, ignore this email.</div>` +
		`</td></tr>` +
		`</table></td></tr></table>` +
		`</body></html>`
}

func (s *SenderService) sendEmail(to []string, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("verification email sent", "to", to)
	return nil
}
