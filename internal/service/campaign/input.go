package campaign

import (
	"time"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/validation"
)

// CreateInput is the request body for a new campaign. Dates are RFC 3339
// timestamps or plain YYYY-MM-DD dates; empty means unset.
type CreateInput struct {
	Name            string  `json:"name" validate:"required,max=255"`
	GroupID         int64   `json:"groupId" validate:"required"`
	SmtpProfileID   int64   `json:"smtpProfileId" validate:"required"`
	EmailTemplateID int64   `json:"emailTemplateId" validate:"required"`
	LandingPageID   int64   `json:"landingPageId" validate:"required"`
	ScheduledAt     *string `json:"scheduledAt"`
	EndDate         *string `json:"endDate"`
}

// UpdateInput holds the mutable fields of a campaign. Nil fields are left
// unchanged; an empty date string clears that date.
type UpdateInput struct {
	Name            *string                `json:"name" validate:"omitempty,min=1,max=255"`
	Status          *domain.CampaignStatus `json:"status" validate:"omitempty,oneof=Draft Scheduled Active Completed"`
	GroupID         *int64                 `json:"groupId" validate:"omitempty,min=1"`
	SmtpProfileID   *int64                 `json:"smtpProfileId" validate:"omitempty,min=1"`
	EmailTemplateID *int64                 `json:"emailTemplateId" validate:"omitempty,min=1"`
	LandingPageID   *int64                 `json:"landingPageId" validate:"omitempty,min=1"`
	ScheduledAt     *string                `json:"scheduledAt"`
	EndDate         *string                `json:"endDate"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

// ParseDate parses an optional date field. Nil or blank yields nil.
func ParseDate(field string, v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, *v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, validation.Field(field, "must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

// parseDates parses both optional dates and reports every failure.
func parseDates(scheduledAt, endDate *string) (*time.Time, *time.Time, error) {
	var errs validation.Errors
	start, err := ParseDate("scheduledAt", scheduledAt)
	if verrs, ok := validation.As(err); ok {
		errs = append(errs, verrs...)
	}
	end, err := ParseDate("endDate", endDate)
	if verrs, ok := validation.As(err); ok {
		errs = append(errs, verrs...)
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}
	return start, end, nil
}

// checkDateOrder rejects an end date before the start date.
func checkDateOrder(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return validation.Field("endDate", "must not be before scheduledAt")
	}
	return nil
}

// isClear reports whether v asks for a date to be removed.
func isClear(v *string) bool { return v != nil && *v == "" }

// mergeDate returns the date a campaign will hold after an update.
func mergeDate(current, next *time.Time, clear bool) *time.Time {
	switch {
	case clear:
		return nil
	case next != nil:
		return next
	}
	return current
}
