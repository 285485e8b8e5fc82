package memory

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

// requireOwner checks that userID is a member of orgID. mu must be held.
func (s *Store) requireOwner(orgID, userID int64) error {
	if err := s.requireOrg(orgID); err != nil {
		return err
	}
	if u, ok := s.users[userID]; !ok || u.OrganizationID != orgID {
		return &domain.AccessDeniedError{Refs: []string{repository.RefUser}}
	}
	return nil
}

// ─── SMTP profiles ───

func (s *Store) GetSmtpProfile(ctx context.Context, id int64) (*domain.SmtpProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.smtp[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *Store) CreateSmtpProfile(ctx context.Context, orgID int64, in domain.InsertSmtpProfile) (*domain.SmtpProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOrg(orgID); err != nil {
		return nil, err
	}
	now := repository.Stamp()
	p := &domain.SmtpProfile{
		ID:             s.nextID("smtp_profiles"),
		OrganizationID: orgID,
		Name:           in.Name,
		Host:           in.Host,
		Port:           in.Port,
		Username:       in.Username,
		Password:       in.Password,
		FromName:       in.FromName,
		FromEmail:      in.FromEmail,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.smtp[p.ID] = p
	c := *p
	return &c, nil
}

func (s *Store) UpdateSmtpProfile(ctx context.Context, id int64, u domain.SmtpProfileUpdate) (*domain.SmtpProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.smtp[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Host != nil {
		p.Host = *u.Host
	}
	if u.Port != nil {
		p.Port = *u.Port
	}
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.Password != nil {
		p.Password = *u.Password
	}
	if u.FromName != nil {
		p.FromName = *u.FromName
	}
	if u.FromEmail != nil {
		p.FromEmail = *u.FromEmail
	}
	p.UpdatedAt = repository.NextStamp(p.UpdatedAt)
	c := *p
	return &c, nil
}

func (s *Store) DeleteSmtpProfile(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.smtp[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range s.campaigns {
		if c.SmtpProfileID == id {
			return domain.ErrInUse
		}
	}
	delete(s.smtp, id)
	return nil
}

func (s *Store) ListSmtpProfiles(ctx context.Context, orgID int64) ([]domain.SmtpProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SmtpProfile, 0)
	for _, id := range sortedIDs(s.smtp) {
		if p := s.smtp[id]; p.OrganizationID == orgID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ─── Email templates ───

func cloneTemplate(t *domain.EmailTemplate) *domain.EmailTemplate {
	c := *t
	c.TextContent = clonePtr(t.TextContent)
	return &c
}

func (s *Store) GetEmailTemplate(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTemplate(t), nil
}

func (s *Store) CreateEmailTemplate(ctx context.Context, orgID, userID int64, in domain.InsertEmailTemplate) (*domain.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOwner(orgID, userID); err != nil {
		return nil, err
	}
	now := repository.Stamp()
	t := &domain.EmailTemplate{
		ID:             s.nextID("email_templates"),
		OrganizationID: orgID,
		Name:           in.Name,
		Subject:        in.Subject,
		HTMLContent:    in.HTMLContent,
		TextContent:    clonePtr(in.TextContent),
		SenderName:     in.SenderName,
		SenderEmail:    in.SenderEmail,
		CreatedByID:    userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.templates[t.ID] = t
	return cloneTemplate(t), nil
}

func (s *Store) UpdateEmailTemplate(ctx context.Context, id int64, u domain.EmailTemplateUpdate) (*domain.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Subject != nil {
		t.Subject = *u.Subject
	}
	if u.HTMLContent != nil {
		t.HTMLContent = *u.HTMLContent
	}
	if u.TextContent != nil {
		t.TextContent = clonePtr(u.TextContent)
	}
	if u.SenderName != nil {
		t.SenderName = *u.SenderName
	}
	if u.SenderEmail != nil {
		t.SenderEmail = *u.SenderEmail
	}
	t.UpdatedAt = repository.NextStamp(t.UpdatedAt)
	return cloneTemplate(t), nil
}

func (s *Store) DeleteEmailTemplate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range s.campaigns {
		if c.EmailTemplateID == id {
			return domain.ErrInUse
		}
	}
	delete(s.templates, id)
	return nil
}

func (s *Store) ListEmailTemplates(ctx context.Context, orgID int64) ([]domain.EmailTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EmailTemplate, 0)
	for _, id := range sortedIDs(s.templates) {
		if t := s.templates[id]; t.OrganizationID == orgID {
			out = append(out, *cloneTemplate(t))
		}
	}
	return out, nil
}

// ─── Landing pages ───

func clonePage(p *domain.LandingPage) *domain.LandingPage {
	c := *p
	c.Description = clonePtr(p.Description)
	c.RedirectURL = clonePtr(p.RedirectURL)
	c.Thumbnail = clonePtr(p.Thumbnail)
	return &c
}

func (s *Store) GetLandingPage(ctx context.Context, id int64) (*domain.LandingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePage(p), nil
}

func (s *Store) CreateLandingPage(ctx context.Context, orgID, userID int64, in domain.InsertLandingPage) (*domain.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireOwner(orgID, userID); err != nil {
		return nil, err
	}
	now := repository.Stamp()
	p := &domain.LandingPage{
		ID:             s.nextID("landing_pages"),
		OrganizationID: orgID,
		Name:           in.Name,
		Description:    clonePtr(in.Description),
		HTMLContent:    in.HTMLContent,
		RedirectURL:    clonePtr(in.RedirectURL),
		PageType:       in.PageType,
		Thumbnail:      clonePtr(in.Thumbnail),
		CreatedByID:    userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.pages[p.ID] = p
	return clonePage(p), nil
}

func (s *Store) UpdateLandingPage(ctx context.Context, id int64, u domain.LandingPageUpdate) (*domain.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = clonePtr(u.Description)
	}
	if u.HTMLContent != nil {
		p.HTMLContent = *u.HTMLContent
	}
	if u.RedirectURL != nil {
		p.RedirectURL = clonePtr(u.RedirectURL)
	}
	if u.PageType != nil {
		p.PageType = *u.PageType
	}
	if u.Thumbnail != nil {
		p.Thumbnail = clonePtr(u.Thumbnail)
	}
	p.UpdatedAt = repository.NextStamp(p.UpdatedAt)
	return clonePage(p), nil
}

func (s *Store) DeleteLandingPage(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[id]; !ok {
		return domain.ErrNotFound
	}
	for _, c := range s.campaigns {
		if c.LandingPageID == id {
			return domain.ErrInUse
		}
	}
	delete(s.pages, id)
	return nil
}

func (s *Store) ListLandingPages(ctx context.Context, orgID int64) ([]domain.LandingPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LandingPage, 0)
	for _, id := range sortedIDs(s.pages) {
		if p := s.pages[id]; p.OrganizationID == orgID {
			out = append(out, *clonePage(p))
		}
	}
	return out, nil
}
