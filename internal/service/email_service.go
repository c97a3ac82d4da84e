package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

var (
	ErrEmailDisabled = errors.New("email service disabled: SES_FROM_EMAIL not configured")
)

// SESClient is the subset of the SES v2 client used for delivery
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailMessage is one rendered email addressed to a single recipient
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     SESClient
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
	logger     *zap.Logger
}

// NewEmailService creates a new email service
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool, logger *zap.Logger) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		logger.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			appBaseURL: appBaseURL,
			enabled:    false,
			debug:      debug,
			logger:     logger,
		}, nil
	}

	if debug {
		logger.Debug("initializing email service with AWS SES",
			zap.String("region", awsRegion),
			zap.String("from_email", fromEmail),
			zap.String("from_name", fromName),
			zap.String("app_base_url", appBaseURL))
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("email service enabled",
		zap.String("from", fromEmail),
		zap.String("region", awsRegion))

	return NewEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, appBaseURL, debug, logger), nil
}

// NewEmailServiceWithClient creates an enabled email service around an
// existing SES client
func NewEmailServiceWithClient(client SESClient, fromEmail, fromName, appBaseURL string, debug bool, logger *zap.Logger) *EmailService {
	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
		logger:     logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// AppBaseURL returns the public URL used for links in emails
func (s *EmailService) AppBaseURL() string {
	return s.appBaseURL
}

// Send delivers one message and returns the provider message id
func (s *EmailService) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if !s.enabled {
		s.logger.Info("skipping email send (service disabled)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return "", ErrEmailDisabled
	}

	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		s.logger.Debug("sending email",
			zap.String("from", fromAddress),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Int("html_bytes", len(msg.HTMLBody)),
			zap.Int("text_bytes", len(msg.TextBody)))
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(msg.HTMLBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(msg.TextBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	messageID := aws.ToString(result.MessageId)
	s.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", messageID))
	return messageID, nil
}
