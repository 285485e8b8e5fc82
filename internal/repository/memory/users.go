package memory

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

// userCopy fills the denormalized organization name. mu must be held.
func (s *Store) userCopy(u *domain.User) *domain.User {
	c := *u
	if o, ok := s.orgs[u.OrganizationID]; ok {
		c.OrganizationName = o.Name
	}
	return &c
}

// emailTaken must be called with mu held.
func (s *Store) emailTaken(email string, exceptID int64) bool {
	want := repository.NormalizeEmail(email)
	for id, u := range s.users {
		if id != exceptID && repository.NormalizeEmail(u.Email) == want {
			return true
		}
	}
	return false
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.userCopy(u), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := repository.NormalizeEmail(email)
	for _, id := range sortedIDs(s.users) {
		if u := s.users[id]; repository.NormalizeEmail(u.Email) == want {
			return s.userCopy(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, orgID int64, in domain.InsertUser) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	if s.emailTaken(in.Email, 0) {
		return nil, domain.ErrDuplicate
	}
	now := repository.Stamp()
	u := &domain.User{
		ID:             s.nextID("users"),
		Email:          in.Email,
		Password:       in.Password,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		IsAdmin:        in.IsAdmin,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.users[u.ID] = u
	return s.userCopy(u), nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, up domain.UserUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if up.Email != nil && s.emailTaken(*up.Email, id) {
		return nil, domain.ErrDuplicate
	}
	if up.Email != nil {
		u.Email = *up.Email
	}
	if up.Password != nil {
		u.Password = *up.Password
	}
	if up.FirstName != nil {
		u.FirstName = *up.FirstName
	}
	if up.LastName != nil {
		u.LastName = *up.LastName
	}
	if up.IsAdmin != nil {
		u.IsAdmin = *up.IsAdmin
	}
	u.UpdatedAt = repository.NextStamp(u.UpdatedAt)
	return s.userCopy(u), nil
}

// DeleteUser removes the user's campaigns (with their results), then their
// templates and landing pages. A template or page still used by another
// user's campaign blocks the whole delete.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range s.campaigns {
		if c.CreatedByID == id {
			continue
		}
		if t, ok := s.templates[c.EmailTemplateID]; ok && t.CreatedByID == id {
			return domain.ErrInUse
		}
		if p, ok := s.pages[c.LandingPageID]; ok && p.CreatedByID == id {
			return domain.ErrInUse
		}
	}
	for cid, c := range s.campaigns {
		if c.CreatedByID == id {
			s.deleteResultsWhere(func(r *domain.CampaignResult) bool { return r.CampaignID == cid })
			delete(s.campaigns, cid)
		}
	}
	for k, t := range s.templates {
		if t.CreatedByID == id {
			delete(s.templates, k)
		}
	}
	for k, p := range s.pages {
		if p.CreatedByID == id {
			delete(s.pages, k)
		}
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListUsers(ctx context.Context, orgID int64) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0)
	for _, id := range sortedIDs(s.users) {
		if u := s.users[id]; u.OrganizationID == orgID {
			out = append(out, *s.userCopy(u))
		}
	}
	return out, nil
}

func (s *Store) CountUsers(ctx context.Context, orgID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}
