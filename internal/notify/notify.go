// Package notify tells the agency about new contact-form enquiries.
package notify

import (
	"context"
	"fmt"

	"github.com/osteele/liquid"

	"github.com/ttravel/hospitality/internal/domain"
)

// Noop discards notifications. It is used when notifications are disabled.
type Noop struct{}

func (Noop) NotifyContactSubmission(context.Context, domain.ContactSubmission) error { return nil }

// Templates are Liquid sources for the notification email. Variables:
// first_name, last_name, email, subject, message, id, created_at.
type Templates struct {
	Subject string `yaml:"subject"`
	Body    string `yaml:"body"`
}

// DefaultTemplates is used for any template left empty in config.
var DefaultTemplates = Templates{
	Subject: `New enquiry: {{ subject | truncate: 80 }}`,
	Body: `{{ first_name }} {{ last_name }} <{{ email }}> sent a message through the Contact page.

Subject: {{ subject }}
Received: {{ created_at | date: "%d %b %Y %H:%M %Z" }}

{{ message }}

Reply directly to this email to answer {{ first_name | default: "the visitor" }}.
Submission id: {{ id }}`,
}

// renderer holds the parsed templates.
type renderer struct {
	subject *liquid.Template
	body    *liquid.Template
}

func newRenderer(t Templates) (*renderer, error) {
	if t.Subject == "" {
		t.Subject = DefaultTemplates.Subject
	}
	if t.Body == "" {
		t.Body = DefaultTemplates.Body
	}

	engine := liquid.NewEngine()
	subject, err := engine.ParseString(t.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse subject template: %w", err)
	}
	body, err := engine.ParseString(t.Body)
	if err != nil {
		return nil, fmt.Errorf("parse body template: %w", err)
	}
	return &renderer{subject: subject, body: body}, nil
}

func (r *renderer) render(s domain.ContactSubmission) (subject, body string, err error) {
	b := liquid.Bindings{
		"id":         s.ID,
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"email":      s.Email,
		"subject":    s.Subject,
		"message":    s.Message,
		"created_at": s.CreatedAt,
	}
	subject, serr := r.subject.RenderString(b)
	if serr != nil {
		return "", "", fmt.Errorf("render subject: %w", serr)
	}
	body, berr := r.body.RenderString(b)
	if berr != nil {
		return "", "", fmt.Errorf("render body: %w", berr)
	}
	return subject, body, nil
}
