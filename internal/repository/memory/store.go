// Package memory is the process-lifetime repository.Store. Every table is a
// map keyed by an auto-incrementing id; reads return copies so callers can
// never mutate stored rows.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	seq map[string]int64

	orgs      map[int64]*domain.Organization
	users     map[int64]*domain.User
	groups    map[int64]*domain.Group
	targets   map[int64]*domain.Target
	smtp      map[int64]*domain.SmtpProfile
	templates map[int64]*domain.EmailTemplate
	pages     map[int64]*domain.LandingPage
	campaigns map[int64]*domain.Campaign
	results   map[int64]*domain.CampaignResult
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		seq:       make(map[string]int64),
		orgs:      make(map[int64]*domain.Organization),
		users:     make(map[int64]*domain.User),
		groups:    make(map[int64]*domain.Group),
		targets:   make(map[int64]*domain.Target),
		smtp:      make(map[int64]*domain.SmtpProfile),
		templates: make(map[int64]*domain.EmailTemplate),
		pages:     make(map[int64]*domain.LandingPage),
		campaigns: make(map[int64]*domain.Campaign),
		results:   make(map[int64]*domain.CampaignResult),
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// nextID must be called with mu held.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// requireOrg must be called with mu held.
func (s *Store) requireOrg(orgID int64) error {
	if _, ok := s.orgs[orgID]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

// ─── Organizations ───

func (s *Store) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *o
	return &c, nil
}

func (s *Store) CreateOrganization(ctx context.Context, in domain.InsertOrganization) (*domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := repository.Stamp()
	o := &domain.Organization{ID: s.nextID("organizations"), Name: in.Name, CreatedAt: now, UpdatedAt: now}
	s.orgs[o.ID] = o
	c := *o
	return &c, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, id int64, u domain.OrganizationUpdate) (*domain.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		o.Name = *u.Name
	}
	o.UpdatedAt = repository.NextStamp(o.UpdatedAt)
	c := *o
	return &c, nil
}

func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return domain.ErrNotFound
	}
	for k, r := range s.results {
		if r.OrganizationID == id {
			delete(s.results, k)
		}
	}
	for k, c := range s.campaigns {
		if c.OrganizationID == id {
			delete(s.campaigns, k)
		}
	}
	for k, t := range s.targets {
		if t.OrganizationID == id {
			delete(s.targets, k)
		}
	}
	for k, g := range s.groups {
		if g.OrganizationID == id {
			delete(s.groups, k)
		}
	}
	for k, p := range s.smtp {
		if p.OrganizationID == id {
			delete(s.smtp, k)
		}
	}
	for k, t := range s.templates {
		if t.OrganizationID == id {
			delete(s.templates, k)
		}
	}
	for k, p := range s.pages {
		if p.OrganizationID == id {
			delete(s.pages, k)
		}
	}
	for k, u := range s.users {
		if u.OrganizationID == id {
			delete(s.users, k)
		}
	}
	delete(s.orgs, id)
	return nil
}

func (s *Store) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Organization, 0, len(s.orgs))
	for _, id := range sortedIDs(s.orgs) {
		out = append(out, *s.orgs[id])
	}
	return out, nil
}
