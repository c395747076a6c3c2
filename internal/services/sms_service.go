package services

import (
	"context"
	"fmt"

	"gotransit/pkg/logger"
	"gotransit/pkg/sms"
)

type SMSService interface {
	SendOTPSMS(ctx context.Context, phone, code string) error
}

type smsService struct {
	provider sms.SMSProvider
	logger   *logger.Logger
}

func NewSMSService(provider sms.SMSProvider, logger *logger.Logger) SMSService {
	return &smsService{
		provider: provider,
		logger:   logger,
	}
}

func (s *smsService) SendOTPSMS(ctx context.Context, phone, code string) error {
	_, err := s.provider.SendSMS(ctx, &sms.SMSRequest{
		To:      phone,
		Message: fmt.Sprintf("Your %s verification code is %s", "GoTransit", code),
	})
	if err != nil {
		s.logger.WithError(err).WithField("phone", phone).Error("Failed to send OTP SMS")
		return fmt.Errorf("failed to send OTP SMS: %w", err)
	}

	return nil
}
