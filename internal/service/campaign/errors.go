package campaign

import (
	"fmt"

	"github.com/ignite/phishsim/internal/domain"
)

// transitionError reports a lifecycle change the campaign's status does not
// allow. It matches domain.ErrInvalidState.
type transitionError struct {
	from domain.CampaignStatus
	op   string
}

func (e *transitionError) Error() string {
	return fmt.Sprintf("cannot %s a campaign in %s status", e.op, e.from)
}

func (e *transitionError) Unwrap() error { return domain.ErrInvalidState }

// ErrLaunchInProgress is returned when another request holds the campaign's
// launch lock.
var ErrLaunchInProgress = fmt.Errorf("campaign launch already in progress: %w", domain.ErrInvalidState)
