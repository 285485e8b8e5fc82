package memory

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

func cloneGroup(g *domain.Group) *domain.Group {
	c := *g
	c.Description = clonePtr(g.Description)
	return &c
}

func cloneTarget(t *domain.Target) *domain.Target {
	c := *t
	c.Position = clonePtr(t.Position)
	return &c
}

// deleteResultsWhere must be called with mu held.
func (s *Store) deleteResultsWhere(match func(*domain.CampaignResult) bool) {
	for k, r := range s.results {
		if match(r) {
			delete(s.results, k)
		}
	}
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneGroup(g), nil
}

func (s *Store) CreateGroup(ctx context.Context, orgID int64, in domain.InsertGroup) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	now := repository.Stamp()
	g := &domain.Group{
		ID:             s.nextID("groups"),
		OrganizationID: orgID,
		Name:           in.Name,
		Description:    clonePtr(in.Description),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.groups[g.ID] = g
	return cloneGroup(g), nil
}

func (s *Store) UpdateGroup(ctx context.Context, id int64, u domain.GroupUpdate) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Description != nil {
		g.Description = clonePtr(u.Description)
	}
	g.UpdatedAt = repository.NextStamp(g.UpdatedAt)
	return cloneGroup(g), nil
}

func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range s.campaigns {
		if c.GroupID == id {
			return domain.ErrInUse
		}
	}
	for k, t := range s.targets {
		if t.GroupID == id {
			tid := k
			s.deleteResultsWhere(func(r *domain.CampaignResult) bool { return r.TargetID == tid })
			delete(s.targets, k)
		}
	}
	delete(s.groups, id)
	return nil
}

func (s *Store) ListGroups(ctx context.Context, orgID int64) ([]domain.GroupSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[int64]int)
	for _, t := range s.targets {
		counts[t.GroupID]++
	}
	out := make([]domain.GroupSummary, 0)
	for _, id := range sortedIDs(s.groups) {
		if g := s.groups[id]; g.OrganizationID == orgID {
			out = append(out, domain.GroupSummary{Group: *cloneGroup(g), TargetCount: counts[id]})
		}
	}
	return out, nil
}

// ─── Targets ───

func (s *Store) GetTarget(ctx context.Context, id int64) (*domain.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.targets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTarget(t), nil
}

func (s *Store) CreateTarget(ctx context.Context, orgID, groupID int64, in domain.InsertTarget) (*domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	if g, ok := s.groups[groupID]; !ok || g.OrganizationID != orgID {
		return nil, &domain.AccessDeniedError{Refs: []string{repository.RefGroup}}
	}
	now := repository.Stamp()
	t := &domain.Target{
		ID:             s.nextID("targets"),
		OrganizationID: orgID,
		GroupID:        groupID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Position:       clonePtr(in.Position),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.targets[t.ID] = t
	return cloneTarget(t), nil
}

func (s *Store) UpdateTarget(ctx context.Context, id int64, u domain.TargetUpdate) (*domain.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.targets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.FirstName != nil {
		t.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		t.LastName = *u.LastName
	}
	if u.Email != nil {
		t.Email = *u.Email
	}
	if u.Position != nil {
		t.Position = clonePtr(u.Position)
	}
	t.UpdatedAt = repository.NextStamp(t.UpdatedAt)
	return cloneTarget(t), nil
}

func (s *Store) DeleteTarget(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.targets[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteResultsWhere(func(r *domain.CampaignResult) bool { return r.TargetID == id })
	delete(s.targets, id)
	return nil
}

func (s *Store) ListTargets(ctx context.Context, orgID, groupID int64) ([]domain.Target, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Target, 0)
	for _, id := range sortedIDs(s.targets) {
		if t := s.targets[id]; t.OrganizationID == orgID && t.GroupID == groupID {
			out = append(out, *cloneTarget(t))
		}
	}
	return out, nil
}
