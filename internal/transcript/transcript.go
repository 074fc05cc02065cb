// Package transcript builds the enrollment-transcript attachment.
//
// Document layout is deliberately minimal. The bot depends on the
// Renderer interface, so a PDF implementation can replace the plain-text
// one without touching the command layer.
package transcript

import (
	"fmt"
	"strings"

	"github.com/acampos/matriculabot/internal/domain"
)

// Renderer produces a transcript document for one enrollment period.
type Renderer interface {
	Render(user *domain.User, period *domain.EnrollmentPeriod, subjects []*domain.Subject) (*domain.Attachment, error)
}

// TextRenderer renders the transcript as a plain-text document.
type TextRenderer struct{}

// NewTextRenderer creates the default plain-text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render builds the transcript attachment. The caption is left empty; the
// command layer fills it with a localized string.
func (r *TextRenderer) Render(user *domain.User, period *domain.EnrollmentPeriod, subjects []*domain.Subject) (*domain.Attachment, error) {
	if user == nil || period == nil {
		return nil, fmt.Errorf("transcript render: missing user or period")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ENROLLMENT TRANSCRIPT / CONSTANCIA DE MATRICULA\n")
	fmt.Fprintf(&b, "===============================================\n\n")
	fmt.Fprintf(&b, "Student:  %s\n", user.Name)
	fmt.Fprintf(&b, "Email:    %s\n", user.Email)
	fmt.Fprintf(&b, "Term:     %s\n", period.Term)
	fmt.Fprintf(&b, "Status:   %s\n\n", period.Status)

	for _, s := range subjects {
		fmt.Fprintf(&b, "  %-10s %-40s %2d cr  %s %s\n", s.Code, s.Name, s.Credits, s.Days, s.Hours)
	}
	fmt.Fprintf(&b, "\nTotal credits: %d\n", period.TotalCredits)

	return &domain.Attachment{
		Filename: fmt.Sprintf("transcript-%s.txt", period.Term),
		MIMEType: "text/plain; charset=utf-8",
		Data:     []byte(b.String()),
	}, nil
}
