package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends assignment notifications via Amazon SES. Without a
// configured sender address it runs disabled and skips all sends.
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates an email service. An empty fromEmail yields a
// disabled service.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: EMAIL_SENDER not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled.
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendAssignmentInvitation emails a share link for a new assignment.
func (s *EmailService) SendAssignmentInvitation(ctx context.Context, toEmail, teacherName, assignmentName, shareToken string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): assignment invitation to %s", toEmail)
		return nil
	}

	link := fmt.Sprintf("%s/assignments/join?token=%s", s.appBaseURL, shareToken)
	subject := fmt.Sprintf("New dictation assignment: %s", assignmentName)
	htmlBody := fmt.Sprintf(
		`<p>%s assigned you a new dictation practice: <strong>%s</strong>.</p>
<p><a href="%s">Start practicing</a></p>
<p>If the link does not work, copy this address into your browser:<br>%s</p>`,
		teacherName, assignmentName, link, link)
	textBody := fmt.Sprintf(
		"%s assigned you a new dictation practice: %s.\n\nStart here: %s\n",
		teacherName, assignmentName, link)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending assignment invitation to %s: %w", toEmail, err)
	}
	return nil
}
