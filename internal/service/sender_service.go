package service

import (
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SenderService wraps the outbound email and SMS channels. Missing
// credentials disable the channel instead of failing a request.
type SenderService struct {
	sendgridAPIKey string
	emailFrom      string
	emailFromName  string

	twilioAccountSID string
	twilioAuthToken  string
	twilioFromNumber string

	logger *zap.Logger
}

func NewSenderService(sendgridAPIKey, emailFrom, emailFromName, twilioAccountSID, twilioAuthToken, twilioFromNumber string, logger *zap.Logger) *SenderService {
	return &SenderService{
		sendgridAPIKey:   sendgridAPIKey,
		emailFrom:        emailFrom,
		emailFromName:    emailFromName,
		twilioAccountSID: twilioAccountSID,
		twilioAuthToken:  twilioAuthToken,
		twilioFromNumber: twilioFromNumber,
		logger:           logger,
	}
}

func (s *SenderService) SendEmail(toAddress, toName, subject, plainText, htmlContent string) error {
	if s.sendgridAPIKey == "" || s.emailFrom == "" {
		s.logger.Warn("sendgrid not configured, skipping email", zap.String("to", toAddress))
		return fmt.Errorf("sendgrid is not configured")
	}

	from := mail.NewEmail(s.emailFromName, s.emailFrom)
	to := mail.NewEmail(toName, toAddress)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("error sending email via sendgrid: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	s.logger.Debug("email sent", zap.String("to", toAddress), zap.String("subject", subject))
	return nil
}

func (s *SenderService) SendSMS(toNumber, body string) error {
	if s.twilioAccountSID == "" || s.twilioAuthToken == "" || s.twilioFromNumber == "" {
		s.logger.Warn("twilio not configured, skipping SMS", zap.String("to", toNumber))
		return fmt.Errorf("twilio is not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		s.logger.Warn("destination number is not E.164, SMS may fail", zap.String("to", toNumber))
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   s.twilioAccountSID,
		Password:   s.twilioAuthToken,
		AccountSid: s.twilioAccountSID,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.twilioFromNumber)
	params.SetBody(body)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("error sending SMS via twilio: %w", err)
	}

	s.logger.Debug("sms sent", zap.String("to", toNumber))
	return nil
}
