package service

import (
	"context"
	"fmt"

	appconfig "academy_backend/internal/config"
	"academy_backend/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"
)

// EmailService sends transactional mail through Amazon SES. With no sender
// configured it becomes a no-op, so local setups work without AWS
// credentials. Every send here is best-effort: callers run it in a
// goroutine and failures are logged, never propagated, because the payment
// has already succeeded by the time a confirmation goes out.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	baseURL   string
	enabled   bool
}

func NewEmailService(cfg *appconfig.EmailConfig, baseURL string) (*EmailService, error) {
	if cfg.FromEmail == "" {
		logger.Log.Info("email service disabled: no from address configured")
		return &EmailService{enabled: false}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Log.Info("email service enabled",
		zap.String("from", cfg.FromEmail),
		zap.String("region", cfg.Region))

	return &EmailService{
		client:    sesv2.NewFromConfig(awsCfg),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		baseURL:   baseURL,
		enabled:   true,
	}, nil
}

func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendPurchaseConfirmation mails the buyer after a webhook-verified payment.
func (s *EmailService) SendPurchaseConfirmation(ctx context.Context, to, orderID, amount string) error {
	if !s.enabled {
		logger.Log.Info("skipping purchase confirmation (email disabled)", zap.String("to", to))
		return nil
	}

	subject := "Welcome to Agent Code Academy Pro!"
	htmlBody := s.buildPurchaseEmailHTML(orderID, amount)

	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send purchase confirmation: %w", err)
	}

	logger.Log.Info("purchase confirmation sent", zap.String("to", to), zap.String("order", orderID))
	return nil
}

func (s *EmailService) buildPurchaseEmailHTML(orderID, amount string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif; color:#1e293b;">
  <div style="max-width:560px; margin:0 auto; padding:24px;">
    <h1 style="font-size:22px;">Agent Code Academy</h1>
    <h2 style="font-size:18px;">Pro access confirmed</h2>
    <p>Thank you for purchasing Agent Code Academy Pro. All 12 weeks of the
    course are now unlocked, along with every future update and the
    certificate of completion.</p>
    <p><a href="%s/week/5" style="display:inline-block; padding:12px 28px; background:#6366f1; color:#fff; text-decoration:none; border-radius:8px;">Start Week 5 &rarr;</a></p>
    <p style="color:#64748b; font-size:13px;">
      Order ID: #%s<br>
      Amount: %s<br>
      Access: Lifetime
    </p>
    <p style="color:#94a3b8; font-size:12px;">Need help? Reply to this email.</p>
  </div>
</body>
</html>`, s.baseURL, orderID, amount)
}
