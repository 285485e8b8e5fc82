package memory

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

func cloneCampaign(c *domain.Campaign) *domain.Campaign {
	v := *c
	v.ScheduledAt = clonePtr(c.ScheduledAt)
	v.EndDate = clonePtr(c.EndDate)
	return &v
}

func cloneResult(r *domain.CampaignResult) *domain.CampaignResult {
	v := *r
	v.SentAt = clonePtr(r.SentAt)
	v.OpenedAt = clonePtr(r.OpenedAt)
	v.ClickedAt = clonePtr(r.ClickedAt)
	v.SubmittedAt = clonePtr(r.SubmittedAt)
	if r.SubmittedData != nil {
		v.SubmittedData = append([]byte(nil), r.SubmittedData...)
	}
	return &v
}

// checkCampaignRefs reports every reference that is missing or owned by a
// different organization. Zero ids are skipped. mu must be held.
func (s *Store) checkCampaignRefs(orgID, groupID, smtpID, templateID, pageID int64) error {
	var bad []string
	if groupID != 0 {
		if g, ok := s.groups[groupID]; !ok || g.OrganizationID != orgID {
			bad = append(bad, repository.RefGroup)
		}
	}
	if smtpID != 0 {
		if p, ok := s.smtp[smtpID]; !ok || p.OrganizationID != orgID {
			bad = append(bad, repository.RefSmtpProfile)
		}
	}
	if templateID != 0 {
		if t, ok := s.templates[templateID]; !ok || t.OrganizationID != orgID {
			bad = append(bad, repository.RefEmailTemplate)
		}
	}
	if pageID != 0 {
		if p, ok := s.pages[pageID]; !ok || p.OrganizationID != orgID {
			bad = append(bad, repository.RefLandingPage)
		}
	}
	if len(bad) > 0 {
		return &domain.AccessDeniedError{Refs: bad}
	}
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCampaign(c), nil
}

func (s *Store) CreateCampaign(ctx context.Context, orgID, userID int64, in domain.InsertCampaign) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOwner(orgID, userID); err != nil {
		return nil, err
	}
	if in.GroupID == 0 || in.SmtpProfileID == 0 || in.EmailTemplateID == 0 || in.LandingPageID == 0 {
		return nil, repository.MissingRefs(in)
	}
	if err := s.checkCampaignRefs(orgID, in.GroupID, in.SmtpProfileID, in.EmailTemplateID, in.LandingPageID); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.CampaignDraft
	}
	now := repository.Stamp()
	c := &domain.Campaign{
		ID:              s.nextID("campaigns"),
		OrganizationID:  orgID,
		Name:            in.Name,
		Status:          status,
		GroupID:         in.GroupID,
		SmtpProfileID:   in.SmtpProfileID,
		EmailTemplateID: in.EmailTemplateID,
		LandingPageID:   in.LandingPageID,
		ScheduledAt:     repository.NormalizeTime(in.ScheduledAt),
		EndDate:         repository.NormalizeTime(in.EndDate),
		CreatedByID:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.campaigns[c.ID] = c
	return cloneCampaign(c), nil
}

func (s *Store) UpdateCampaign(ctx context.Context, id int64, u domain.CampaignUpdate) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	var gid, sid, tid, pid int64
	if u.GroupID != nil {
		gid = *u.GroupID
	}
	if u.SmtpProfileID != nil {
		sid = *u.SmtpProfileID
	}
	if u.EmailTemplateID != nil {
		tid = *u.EmailTemplateID
	}
	if u.LandingPageID != nil {
		pid = *u.LandingPageID
	}
	if err := s.checkCampaignRefs(c.OrganizationID, gid, sid, tid, pid); err != nil {
		return nil, err
	}
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if gid != 0 {
		c.GroupID = gid
	}
	if sid != 0 {
		c.SmtpProfileID = sid
	}
	if tid != 0 {
		c.EmailTemplateID = tid
	}
	if pid != 0 {
		c.LandingPageID = pid
	}
	switch {
	case u.ClearScheduledAt:
		c.ScheduledAt = nil
	case u.ScheduledAt != nil:
		c.ScheduledAt = repository.NormalizeTime(u.ScheduledAt)
	}
	switch {
	case u.ClearEndDate:
		c.EndDate = nil
	case u.EndDate != nil:
		c.EndDate = repository.NormalizeTime(u.EndDate)
	}
	c.UpdatedAt = repository.NextStamp(c.UpdatedAt)
	return cloneCampaign(c), nil
}

func (s *Store) DeleteCampaign(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteResultsWhere(func(r *domain.CampaignResult) bool { return r.CampaignID == id })
	delete(s.campaigns, id)
	return nil
}

func (s *Store) ListCampaigns(ctx context.Context, orgID int64) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, 0)
	for _, id := range sortedIDs(s.campaigns) {
		if c := s.campaigns[id]; c.OrganizationID == orgID {
			out = append(out, *cloneCampaign(c))
		}
	}
	return out, nil
}

func (s *Store) CountCampaignsByStatus(ctx context.Context, orgID int64, status domain.CampaignStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.campaigns {
		if c.OrganizationID == orgID && c.Status == status {
			n++
		}
	}
	return n, nil
}

// ─── Campaign results ───

func (s *Store) GetCampaignResult(ctx context.Context, id int64) (*domain.CampaignResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneResult(r), nil
}

func (s *Store) CreateCampaignResult(ctx context.Context, orgID int64, in domain.InsertCampaignResult) (*domain.CampaignResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	var bad []string
	if c, ok := s.campaigns[in.CampaignID]; !ok || c.OrganizationID != orgID {
		bad = append(bad, repository.RefCampaign)
	}
	if t, ok := s.targets[in.TargetID]; !ok || t.OrganizationID != orgID {
		bad = append(bad, repository.RefTarget)
	}
	if len(bad) > 0 {
		return nil, &domain.AccessDeniedError{Refs: bad}
	}
	for _, r := range s.results {
		if r.CampaignID == in.CampaignID && r.TargetID == in.TargetID {
			return nil, domain.ErrDuplicate
		}
	}
	now := repository.Stamp()
	r := &domain.CampaignResult{
		ID:             s.nextID("campaign_results"),
		OrganizationID: orgID,
		CampaignID:     in.CampaignID,
		TargetID:       in.TargetID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.results[r.ID] = r
	return cloneResult(r), nil
}

func (s *Store) UpdateCampaignResult(ctx context.Context, id int64, u domain.CampaignResultUpdate) (*domain.CampaignResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := repository.Stamp()
	repository.ApplyOutcome(&r.Sent, &r.SentAt, u.Sent, now)
	repository.ApplyOutcome(&r.Opened, &r.OpenedAt, u.Opened, now)
	repository.ApplyOutcome(&r.Clicked, &r.ClickedAt, u.Clicked, now)
	repository.ApplyOutcome(&r.Submitted, &r.SubmittedAt, u.Submitted, now)
	if u.SubmittedData != nil {
		r.SubmittedData = append([]byte(nil), u.SubmittedData...)
	}
	r.UpdatedAt = repository.NextStamp(r.UpdatedAt)
	return cloneResult(r), nil
}

func (s *Store) DeleteCampaignResult(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.results, id)
	return nil
}

func (s *Store) ListCampaignResults(ctx context.Context, orgID, campaignID int64) ([]domain.CampaignResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CampaignResult, 0)
	for _, id := range sortedIDs(s.results) {
		if r := s.results[id]; r.OrganizationID == orgID && r.CampaignID == campaignID {
			out = append(out, *cloneResult(r))
		}
	}
	return out, nil
}
