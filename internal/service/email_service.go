package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"civicstrainer/internal/models"
)

// sesAPI is the part of the SES client the email service uses
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends progress reports via Amazon SES
type EmailService struct {
	client    sesAPI
	fromEmail string
	fromName  string
	enabled   bool
	logger    *slog.Logger
}

// NewEmailService creates a new email service. Without a sender address the
// service is created disabled and silently skips every send.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string, logger *slog.Logger) (*EmailService, error) {
	if fromEmail == "" {
		logger.Info("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, logger: logger}, nil
	}

	logger.Debug("Initializing email service with AWS SES",
		"region", awsRegion, "from", fromEmail)

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info("Email service enabled", "from", fromEmail, "region", awsRegion)
	return newEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, logger), nil
}

func newEmailServiceWithClient(client sesAPI, fromEmail, fromName string, logger *slog.Logger) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		logger:    logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendProgressReport emails report to toEmail
func (s *EmailService) SendProgressReport(ctx context.Context, toEmail string, report ProgressReport) error {
	if !s.enabled {
		s.logger.Info("Skipping email send (service disabled)", "to", toEmail)
		return nil
	}

	subject := fmt.Sprintf("Naturalización Trainer progress, %s", report.GeneratedAt.Format("2006-01-02"))
	return s.sendEmail(ctx, toEmail, subject, reportHTML(report), ReportText(report))
}

func modeTitle(mr ModeReport) string {
	if mr.Mode == models.ModeMCQ {
		return "Multiple choice"
	}
	return "Short answer"
}

// ReportText renders report as plain text
func ReportText(report ProgressReport) string {
	var b strings.Builder
	b.WriteString("Your civics study progress\n")
	for _, mr := range report.Modes {
		fmt.Fprintf(&b, "\n%s: %d/%d mastered, %d right, %d wrong, %d seen\n",
			modeTitle(mr), mr.Mastered, mr.Totals.Total, mr.Totals.Right, mr.Totals.Wrong, mr.Totals.Seen)
		for _, c := range mr.Categories {
			fmt.Fprintf(&b, "  - %s: %d/%d (%d%%)\n", c.Name, c.Tally.Mastered, c.Tally.Total, c.Tally.Percent())
		}
	}
	b.WriteString("\n---\nThis is an automated email from Naturalización Trainer. Please do not reply.\n")
	return b.String()
}

func reportHTML(report ProgressReport) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.done { color: #065f46; font-weight: bold; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>Your civics study progress</h1></div>
		<div class="content">
`)
	for _, mr := range report.Modes {
		fmt.Fprintf(&b, "\t\t\t<h2>%s</h2>\n\t\t\t<p>%d/%d mastered · %d right · %d wrong · %d seen</p>\n\t\t\t<ul>\n",
			modeTitle(mr), mr.Mastered, mr.Totals.Total, mr.Totals.Right, mr.Totals.Wrong, mr.Totals.Seen)
		for _, c := range mr.Categories {
			class := ""
			if c.Tally.Complete() {
				class = ` class="done"`
			}
			fmt.Fprintf(&b, "\t\t\t\t<li%s>%s: %d/%d (%d%%)</li>\n",
				class, html.EscapeString(c.Name), c.Tally.Mastered, c.Tally.Total, c.Tally.Percent())
		}
		b.WriteString("\t\t\t</ul>\n")
	}
	b.WriteString(`		</div>
		<div class="footer">
			<p>This is an automated email from Naturalización Trainer. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`)
	return b.String()
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	s.logger.Info("Email sent successfully",
		"to", toEmail,
		"subject", subject,
		"message_id", aws.ToString(result.MessageId))
	return nil
}
