package services

import (
	"context"
	"fmt"

	"cityevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendAdmissionDecision notifies a requester that their participation request
// was confirmed or rejected, using the matching template.
func (s *emailService) SendAdmissionDecision(ctx context.Context, data *domain.AdmissionDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("admission decision data is nil")
	}
	templateName := "request_rejected"
	if data.Confirmed {
		templateName = "request_confirmed"
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send admission decision email: %w", err)
	}
	return nil
}
