package render

import (
	"fmt"

	"github.com/ignite/phishsim/internal/domain"
)

// PreviewURL stands in for the tracked landing link in previews.
const PreviewURL = "https://example.com/l/preview"

// SampleRecipient is used when a preview names no target.
var SampleRecipient = domain.Target{
	FirstName: "Jane",
	LastName:  "Doe",
	Email:     "jane.doe@example.com",
}

// Preview is a template rendered for one recipient.
type Preview struct {
	Subject string  `json:"subject"`
	HTML    string  `json:"html"`
	Text    *string `json:"text,omitempty"`
}

// Vars builds the merge fields for a recipient of tpl.
func Vars(tpl *domain.EmailTemplate, to *domain.Target) map[string]interface{} {
	if to == nil {
		to = &SampleRecipient
	}
	position := ""
	if to.Position != nil {
		position = *to.Position
	}
	return map[string]interface{}{
		"first_name": to.FirstName,
		"last_name":  to.LastName,
		"email":      to.Email,
		"position":   position,
		"from_name":  tpl.SenderName,
		"from_email": tpl.SenderEmail,
		"url":        PreviewURL,
	}
}

// Preview renders every part of tpl for to, or for SampleRecipient when to
// is nil.
func (e *Engine) Preview(tpl *domain.EmailTemplate, to *domain.Target) (*Preview, error) {
	vars := Vars(tpl, to)
	subject, err := e.Render(tpl.Subject, vars)
	if err != nil {
		return nil, fmt.Errorf("subject: %w", err)
	}
	html, err := e.Render(tpl.HTMLContent, vars)
	if err != nil {
		return nil, fmt.Errorf("html: %w", err)
	}
	p := &Preview{Subject: subject, HTML: html}
	if tpl.TextContent != nil {
		text, err := e.Render(*tpl.TextContent, vars)
		if err != nil {
			return nil, fmt.Errorf("text: %w", err)
		}
		p.Text = &text
	}
	return p, nil
}
