package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// AdmissionDecisionEmailData holds data for the email a requester receives
// when the organizer decides their participation request.
type AdmissionDecisionEmailData struct {
	Email      string
	EventTitle string
	EventDate  string
	Confirmed  bool
}

// EmailService defines the domain-level emails the admission flow sends.
type EmailService interface {
	SendAdmissionDecision(ctx context.Context, data *AdmissionDecisionEmailData) error
}
