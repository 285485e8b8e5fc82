package repository

import (
	"time"

	"github.com/ignite/phishsim/internal/domain"
)

// Reference names used in *domain.AccessDeniedError.
const (
	RefGroup         = "group"
	RefSmtpProfile   = "SMTP profile"
	RefEmailTemplate = "email template"
	RefLandingPage   = "landing page"
	RefCampaign      = "campaign"
	RefTarget        = "target"
	RefUser          = "user"
)

// MissingRefs names the campaign references left unset in in.
func MissingRefs(in domain.InsertCampaign) error {
	var bad []string
	if in.GroupID == 0 {
		bad = append(bad, RefGroup)
	}
	if in.SmtpProfileID == 0 {
		bad = append(bad, RefSmtpProfile)
	}
	if in.EmailTemplateID == 0 {
		bad = append(bad, RefEmailTemplate)
	}
	if in.LandingPageID == 0 {
		bad = append(bad, RefLandingPage)
	}
	return &domain.AccessDeniedError{Refs: bad}
}

// ApplyOutcome sets an outcome flag. Turning it on stamps at unless it was
// already stamped; turning it off clears the stamp.
func ApplyOutcome(flag *bool, stamp **time.Time, set *bool, at time.Time) {
	if set == nil {
		return
	}
	*flag = *set
	switch {
	case !*set:
		*stamp = nil
	case *stamp == nil:
		t := at
		*stamp = &t
	}
}
