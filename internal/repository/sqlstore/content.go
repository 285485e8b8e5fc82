package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

// deleteUnreferenced removes row id of table unless a campaign points at it
// through col.
func (s *Store) deleteUnreferenced(ctx context.Context, table, col string, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		used, err := count(ctx, tx, `SELECT COUNT(*) FROM campaigns WHERE `+col+` = ?`, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return domain.ErrInUse
		}
		return deleteByID(ctx, tx, table, id)
	})
}

// ─── SMTP profiles ───

const smtpColumns = `id, organization_id, name, host, port, username, password, from_name, from_email,
	created_at, updated_at`

func getSmtpProfile(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.SmtpProfile, error) {
	p := &domain.SmtpProfile{}
	if err := get(ctx, q, p, `SELECT `+smtpColumns+` FROM smtp_profiles WHERE id = ?`, id); err != nil {
		return nil, err
	}
	utc(&p.CreatedAt)
	utc(&p.UpdatedAt)
	return p, nil
}

func (s *Store) GetSmtpProfile(ctx context.Context, id int64) (*domain.SmtpProfile, error) {
	return getSmtpProfile(ctx, s.db, id)
}

func (s *Store) CreateSmtpProfile(ctx context.Context, orgID int64, in domain.InsertSmtpProfile) (*domain.SmtpProfile, error) {
	var out *domain.SmtpProfile
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOrg(ctx, tx, orgID); err != nil {
			return err
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO smtp_profiles
			(organization_id, name, host, port, username, password, from_name, from_email, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orgID, in.Name, in.Host, in.Port, in.Username, in.Password, in.FromName, in.FromEmail, now, now)
		if err != nil {
			return fmt.Errorf("create smtp profile: %w", err)
		}
		out, err = getSmtpProfile(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateSmtpProfile(ctx context.Context, id int64, u domain.SmtpProfileUpdate) (*domain.SmtpProfile, error) {
	var out *domain.SmtpProfile
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.Name != nil {
			set.add("name", *u.Name)
		}
		if u.Host != nil {
			set.add("host", *u.Host)
		}
		if u.Port != nil {
			set.add("port", *u.Port)
		}
		if u.Username != nil {
			set.add("username", *u.Username)
		}
		if u.Password != nil {
			set.add("password", *u.Password)
		}
		if u.FromName != nil {
			set.add("from_name", *u.FromName)
		}
		if u.FromEmail != nil {
			set.add("from_email", *u.FromEmail)
		}
		if err := updateRow(ctx, tx, "smtp_profiles", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getSmtpProfile(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteSmtpProfile(ctx context.Context, id int64) error {
	return s.deleteUnreferenced(ctx, "smtp_profiles", "smtp_profile_id", id)
}

func (s *Store) ListSmtpProfiles(ctx context.Context, orgID int64) ([]domain.SmtpProfile, error) {
	out := []domain.SmtpProfile{}
	if err := sel(ctx, s.db, &out, `SELECT `+smtpColumns+` FROM smtp_profiles
		WHERE organization_id = ? ORDER BY id`, orgID); err != nil {
		return nil, fmt.Errorf("list smtp profiles: %w", err)
	}
	for i := range out {
		utc(&out[i].CreatedAt)
		utc(&out[i].UpdatedAt)
	}
	return out, nil
}

// ─── Email templates ───

const templateColumns = `id, organization_id, name, subject, html_content, text_content,
	sender_name, sender_email, created_by_id, created_at, updated_at`

func getEmailTemplate(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.EmailTemplate, error) {
	t := &domain.EmailTemplate{}
	if err := get(ctx, q, t, `SELECT `+templateColumns+` FROM email_templates WHERE id = ?`, id); err != nil {
		return nil, err
	}
	utc(&t.CreatedAt)
	utc(&t.UpdatedAt)
	return t, nil
}

func (s *Store) GetEmailTemplate(ctx context.Context, id int64) (*domain.EmailTemplate, error) {
	return getEmailTemplate(ctx, s.db, id)
}

func (s *Store) CreateEmailTemplate(ctx context.Context, orgID, userID int64, in domain.InsertEmailTemplate) (*domain.EmailTemplate, error) {
	var out *domain.EmailTemplate
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOwner(ctx, tx, orgID, userID); err != nil {
			return err
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO email_templates
			(organization_id, name, subject, html_content, text_content, sender_name, sender_email,
			 created_by_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orgID, in.Name, in.Subject, in.HTMLContent, in.TextContent, in.SenderName, in.SenderEmail,
			userID, now, now)
		if err != nil {
			return fmt.Errorf("create email template: %w", err)
		}
		out, err = getEmailTemplate(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateEmailTemplate(ctx context.Context, id int64, u domain.EmailTemplateUpdate) (*domain.EmailTemplate, error) {
	var out *domain.EmailTemplate
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.Name != nil {
			set.add("name", *u.Name)
		}
		if u.Subject != nil {
			set.add("subject", *u.Subject)
		}
		if u.HTMLContent != nil {
			set.add("html_content", *u.HTMLContent)
		}
		if u.TextContent != nil {
			set.add("text_content", *u.TextContent)
		}
		if u.SenderName != nil {
			set.add("sender_name", *u.SenderName)
		}
		if u.SenderEmail != nil {
			set.add("sender_email", *u.SenderEmail)
		}
		if err := updateRow(ctx, tx, "email_templates", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getEmailTemplate(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteEmailTemplate(ctx context.Context, id int64) error {
	return s.deleteUnreferenced(ctx, "email_templates", "email_template_id", id)
}

func (s *Store) ListEmailTemplates(ctx context.Context, orgID int64) ([]domain.EmailTemplate, error) {
	out := []domain.EmailTemplate{}
	if err := sel(ctx, s.db, &out, `SELECT `+templateColumns+` FROM email_templates
		WHERE organization_id = ? ORDER BY id`, orgID); err != nil {
		return nil, fmt.Errorf("list email templates: %w", err)
	}
	for i := range out {
		utc(&out[i].CreatedAt)
		utc(&out[i].UpdatedAt)
	}
	return out, nil
}

// ─── Landing pages ───

const pageColumns = `id, organization_id, name, description, html_content, redirect_url, page_type,
	thumbnail, created_by_id, created_at, updated_at`

func getLandingPage(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.LandingPage, error) {
	p := &domain.LandingPage{}
	if err := get(ctx, q, p, `SELECT `+pageColumns+` FROM landing_pages WHERE id = ?`, id); err != nil {
		return nil, err
	}
	utc(&p.CreatedAt)
	utc(&p.UpdatedAt)
	return p, nil
}

func (s *Store) GetLandingPage(ctx context.Context, id int64) (*domain.LandingPage, error) {
	return getLandingPage(ctx, s.db, id)
}

func (s *Store) CreateLandingPage(ctx context.Context, orgID, userID int64, in domain.InsertLandingPage) (*domain.LandingPage, error) {
	var out *domain.LandingPage
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOwner(ctx, tx, orgID, userID); err != nil {
			return err
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO landing_pages
			(organization_id, name, description, html_content, redirect_url, page_type, thumbnail,
			 created_by_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orgID, in.Name, in.Description, in.HTMLContent, in.RedirectURL, string(in.PageType), in.Thumbnail,
			userID, now, now)
		if err != nil {
			return fmt.Errorf("create landing page: %w", err)
		}
		out, err = getLandingPage(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateLandingPage(ctx context.Context, id int64, u domain.LandingPageUpdate) (*domain.LandingPage, error) {
	var out *domain.LandingPage
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.Name != nil {
			set.add("name", *u.Name)
		}
		if u.Description != nil {
			set.add("description", *u.Description)
		}
		if u.HTMLContent != nil {
			set.add("html_content", *u.HTMLContent)
		}
		if u.RedirectURL != nil {
			set.add("redirect_url", *u.RedirectURL)
		}
		if u.PageType != nil {
			set.add("page_type", string(*u.PageType))
		}
		if u.Thumbnail != nil {
			set.add("thumbnail", *u.Thumbnail)
		}
		if err := updateRow(ctx, tx, "landing_pages", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getLandingPage(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteLandingPage(ctx context.Context, id int64) error {
	return s.deleteUnreferenced(ctx, "landing_pages", "landing_page_id", id)
}

func (s *Store) ListLandingPages(ctx context.Context, orgID int64) ([]domain.LandingPage, error) {
	out := []domain.LandingPage{}
	if err := sel(ctx, s.db, &out, `SELECT `+pageColumns+` FROM landing_pages
		WHERE organization_id = ? ORDER BY id`, orgID); err != nil {
		return nil, fmt.Errorf("list landing pages: %w", err)
	}
	for i := range out {
		utc(&out[i].CreatedAt)
		utc(&out[i].UpdatedAt)
	}
	return out, nil
}
