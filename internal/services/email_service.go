package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"time"

	"gotransit/internal/config"
	"gotransit/pkg/logger"
)

type EmailService interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendOTPEmail(ctx context.Context, to, code string, expiresAt time.Time) error
}

type emailService struct {
	config *config.SMTPConfig
	logger *logger.Logger
}

func NewEmailService(config *config.SMTPConfig, logger *logger.Logger) EmailService {
	return &emailService{
		config: config,
		logger: logger,
	}
}

func (s *emailService) SendEmail(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		s.config.FromName, s.config.FromEmail, to, subject, body,
	))

	if err := s.send(addr, to, msg); err != nil {
		s.logger.WithError(err).WithField("to", to).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *emailService) send(addr, to string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.config.TLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			return errors.New("smtp server does not support STARTTLS")
		}
		if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return err
		}
	}

	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.config.FromEmail); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

func (s *emailService) SendOTPEmail(ctx context.Context, to, code string, expiresAt time.Time) error {
	body := fmt.Sprintf(
		"<p>Your verification code is: <strong>%s</strong>.</p>"+
			"<p>This code expires at <strong>%s</strong>.</p>"+
			"<p>Please use it promptly.</p>",
		code, expiresAt.Format(time.Kitchen),
	)

	return s.SendEmail(ctx, to, "Your verification code", body)
}
