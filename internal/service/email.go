package service

import (
	"context"
	"fmt"

	"memberhub-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func kindLabel(kind domain.ApplicationKind) string {
	if kind == domain.ApplicationKindInitial {
		return "initial application"
	}
	return "full-membership application"
}

func (s *emailService) SendSubmissionReceipt(ctx context.Context, email, name string, kind domain.ApplicationKind, ticket string) error {
	subject := fmt.Sprintf("We received your %s", kindLabel(kind))
	body := fmt.Sprintf("Hello %s,\n\nYour %s has been received and is awaiting review.\n\nYour ticket: %s\n\nBest regards,\nThe MemberHub Team",
		name, kindLabel(kind), ticket)
	return s.send(email, name, subject, body)
}

func (s *emailService) SendDecisionNotification(ctx context.Context, email, name string, kind domain.ApplicationKind, decision domain.ApplicationStatus, adminNotes string) error {
	subject := fmt.Sprintf("Your %s has been %s", kindLabel(kind), decision)
	body := fmt.Sprintf("Hello %s,\n\nYour %s has been reviewed. Decision: %s.", name, kindLabel(kind), decision)
	if adminNotes != "" {
		body += fmt.Sprintf("\n\nReviewer notes: %s", adminNotes)
	}
	body += "\n\nBest regards,\nThe MemberHub Team"
	return s.send(email, name, subject, body)
}

func (s *emailService) SendAdminAlert(ctx context.Context, email, subject, message string) error {
	return s.send(email, "Administrator", subject, message)
}
