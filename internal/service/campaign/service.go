package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/pkg/distlock"
	"github.com/ignite/phishsim/internal/pkg/logger"
	"github.com/ignite/phishsim/internal/pkg/validation"
	"github.com/ignite/phishsim/internal/repository"
)

// Service implements campaign business logic. All public methods are safe
// for concurrent use if the underlying repository is.
type Service struct {
	repo  Repository
	now   func() time.Time
	locks distlock.Factory
}

// launchLockTTL bounds how long a crashed Launch can block a retry.
const launchLockTTL = 30 * time.Second

// NewService creates a campaign service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now, locks: distlock.NewLocalFactory()}
}

// WithLocks replaces the lock factory that serializes launches.
func (s *Service) WithLocks(f distlock.Factory) *Service {
	s.locks = f
	return s
}

// WithClock replaces the clock used to decide Launch's target status.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Get returns a campaign owned by orgID.
func (s *Service) Get(ctx context.Context, orgID, id int64) (*domain.Campaign, error) {
	c, err := s.repo.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.OrganizationID != orgID {
		return nil, domain.ErrAccessDenied
	}
	return c, nil
}

// List returns the organization's campaigns in creation order.
func (s *Service) List(ctx context.Context, orgID int64) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx, orgID)
}

// Create validates input and every reference, then persists a Draft
// campaign owned by userID.
func (s *Service) Create(ctx context.Context, orgID, userID int64, in CreateInput) (*domain.Campaign, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	start, end, err := parseDates(in.ScheduledAt, in.EndDate)
	if err != nil {
		return nil, err
	}
	if err := checkDateOrder(start, end); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, orgID, in.GroupID, in.SmtpProfileID, in.EmailTemplateID, in.LandingPageID); err != nil {
		return nil, err
	}

	c, err := s.repo.CreateCampaign(ctx, orgID, userID, domain.InsertCampaign{
		Name:            in.Name,
		Status:          domain.CampaignDraft,
		GroupID:         in.GroupID,
		SmtpProfileID:   in.SmtpProfileID,
		EmailTemplateID: in.EmailTemplateID,
		LandingPageID:   in.LandingPageID,
		ScheduledAt:     start,
		EndDate:         end,
	})
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	logger.Info("campaign created", "org_id", orgID, "campaign_id", c.ID, "user_id", userID)
	return c, nil
}

// Update applies the non-nil fields of in. Changed references get the same
// ownership checks as Create.
func (s *Service) Update(ctx context.Context, orgID, id int64, in UpdateInput) (*domain.Campaign, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	start, end, err := parseDates(in.ScheduledAt, in.EndDate)
	if err != nil {
		return nil, err
	}
	cur, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	clearStart, clearEnd := isClear(in.ScheduledAt), isClear(in.EndDate)
	if err := checkDateOrder(mergeDate(cur.ScheduledAt, start, clearStart), mergeDate(cur.EndDate, end, clearEnd)); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, orgID, deref(in.GroupID), deref(in.SmtpProfileID),
		deref(in.EmailTemplateID), deref(in.LandingPageID)); err != nil {
		return nil, err
	}

	return s.repo.UpdateCampaign(ctx, id, domain.CampaignUpdate{
		Name:             in.Name,
		Status:           in.Status,
		GroupID:          in.GroupID,
		SmtpProfileID:    in.SmtpProfileID,
		EmailTemplateID:  in.EmailTemplateID,
		LandingPageID:    in.LandingPageID,
		ScheduledAt:      start,
		EndDate:          end,
		ClearScheduledAt: clearStart,
		ClearEndDate:     clearEnd,
	})
}

// Delete removes a campaign and its results.
func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return err
	}
	return s.repo.DeleteCampaign(ctx, id)
}

// Launch moves a Draft campaign to Scheduled when its start is in the
// future, otherwise to Active, and seeds a result row for every target in
// its group.
func (s *Service) Launch(ctx context.Context, orgID, id int64) (*domain.Campaign, error) {
	lock := s.locks.NewLock(fmt.Sprintf("campaign:launch:%d", id), launchLockTTL)
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("lock campaign: %w", err)
	}
	if !ok {
		return nil, ErrLaunchInProgress
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release launch lock", "campaign_id", id, "error", err)
		}
	}()

	c, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CampaignDraft {
		return nil, &transitionError{from: c.Status, op: "launch"}
	}

	targets, err := s.repo.ListTargets(ctx, orgID, c.GroupID)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	seeded := 0
	for _, t := range targets {
		_, err := s.repo.CreateCampaignResult(ctx, orgID, domain.InsertCampaignResult{CampaignID: c.ID, TargetID: t.ID})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("seed result for target %d: %w", t.ID, err)
		}
		seeded++
	}

	next := domain.CampaignActive
	if c.ScheduledAt != nil && c.ScheduledAt.After(s.now()) {
		next = domain.CampaignScheduled
	}
	updated, err := s.repo.UpdateCampaign(ctx, id, domain.CampaignUpdate{Status: &next})
	if err != nil {
		return nil, fmt.Errorf("launch campaign: %w", err)
	}
	logger.Info("campaign launched", "org_id", orgID, "campaign_id", id, "status", string(next), "targets", seeded)
	return updated, nil
}

// Complete closes an Active or Scheduled campaign.
func (s *Service) Complete(ctx context.Context, orgID, id int64) (*domain.Campaign, error) {
	c, err := s.Get(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.CampaignActive && c.Status != domain.CampaignScheduled {
		return nil, &transitionError{from: c.Status, op: "complete"}
	}
	done := domain.CampaignCompleted
	return s.repo.UpdateCampaign(ctx, id, domain.CampaignUpdate{Status: &done})
}

// Summary counts outcomes across a campaign's results.
type Summary struct {
	Total     int `json:"total"`
	Sent      int `json:"sent"`
	Opened    int `json:"opened"`
	Clicked   int `json:"clicked"`
	Submitted int `json:"submitted"`
}

// Results is a campaign's per-target outcomes with totals.
type Results struct {
	Summary Summary                 `json:"summary"`
	Results []domain.CampaignResult `json:"results"`
}

// Results returns the outcome rows for one campaign.
func (s *Service) Results(ctx context.Context, orgID, id int64) (*Results, error) {
	if _, err := s.Get(ctx, orgID, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListCampaignResults(ctx, orgID, id)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := &Results{Results: rows, Summary: Summary{Total: len(rows)}}
	for _, r := range rows {
		if r.Sent {
			out.Summary.Sent++
		}
		if r.Opened {
			out.Summary.Opened++
		}
		if r.Clicked {
			out.Summary.Clicked++
		}
		if r.Submitted {
			out.Summary.Submitted++
		}
	}
	return out, nil
}

// checkRefs fetches every non-zero reference and collects each one that is
// missing or belongs to another organization.
func (s *Service) checkRefs(ctx context.Context, orgID, groupID, smtpID, templateID, pageID int64) error {
	var bad []string
	check := func(name string, id int64, owner func() (int64, error)) error {
		if id == 0 {
			return nil
		}
		got, err := owner()
		if errors.Is(err, domain.ErrNotFound) || (err == nil && got != orgID) {
			bad = append(bad, name)
			return nil
		}
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		return nil
	}

	checks := []struct {
		name  string
		id    int64
		owner func() (int64, error)
	}{
		{repository.RefGroup, groupID, func() (int64, error) {
			g, err := s.repo.GetGroup(ctx, groupID)
			if err != nil {
				return 0, err
			}
			return g.OrganizationID, nil
		}},
		{repository.RefSmtpProfile, smtpID, func() (int64, error) {
			p, err := s.repo.GetSmtpProfile(ctx, smtpID)
			if err != nil {
				return 0, err
			}
			return p.OrganizationID, nil
		}},
		{repository.RefEmailTemplate, templateID, func() (int64, error) {
			t, err := s.repo.GetEmailTemplate(ctx, templateID)
			if err != nil {
				return 0, err
			}
			return t.OrganizationID, nil
		}},
		{repository.RefLandingPage, pageID, func() (int64, error) {
			p, err := s.repo.GetLandingPage(ctx, pageID)
			if err != nil {
				return 0, err
			}
			return p.OrganizationID, nil
		}},
	}
	for _, c := range checks {
		if err := check(c.name, c.id, c.owner); err != nil {
			return err
		}
	}
	if len(bad) > 0 {
		return &domain.AccessDeniedError{Refs: bad}
	}
	return nil
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
