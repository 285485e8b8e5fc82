package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

const orgColumns = `id, name, created_at, updated_at`

func getOrganization(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.Organization, error) {
	o := &domain.Organization{}
	if err := get(ctx, q, o, `SELECT `+orgColumns+` FROM organizations WHERE id = ?`, id); err != nil {
		return nil, err
	}
	utc(&o.CreatedAt)
	utc(&o.UpdatedAt)
	return o, nil
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (*domain.Organization, error) {
	return getOrganization(ctx, s.db, id)
}

func (s *Store) CreateOrganization(ctx context.Context, in domain.InsertOrganization) (*domain.Organization, error) {
	now := repository.Stamp()
	id, err := insert(ctx, s.db, `INSERT INTO organizations (name, created_at, updated_at) VALUES (?, ?, ?)`,
		in.Name, now, now)
	if err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return &domain.Organization{ID: id, Name: in.Name, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *Store) UpdateOrganization(ctx context.Context, id int64, u domain.OrganizationUpdate) (*domain.Organization, error) {
	var out *domain.Organization
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.Name != nil {
			set.add("name", *u.Name)
		}
		if err := updateRow(ctx, tx, "organizations", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getOrganization(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteOrganization removes dependents leaf-first so foreign keys hold at
// every step.
func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOrg(ctx, tx, id); err != nil {
			return err
		}
		for _, table := range []string{
			"campaign_results", "campaigns", "targets", "target_groups",
			"smtp_profiles", "email_templates", "landing_pages", "users",
		} {
			if _, err := exec(ctx, tx, "DELETE FROM "+table+" WHERE organization_id = ?", id); err != nil {
				return fmt.Errorf("delete organization %s: %w", table, err)
			}
		}
		return deleteByID(ctx, tx, "organizations", id)
	})
}

func (s *Store) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	out := []domain.Organization{}
	if err := sel(ctx, s.db, &out, `SELECT `+orgColumns+` FROM organizations ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	for i := range out {
		utc(&out[i].CreatedAt)
		utc(&out[i].UpdatedAt)
	}
	return out, nil
}

// ─── Users ───

const userSelect = `SELECT u.id, u.email, u.password, u.first_name, u.last_name, u.is_admin,
	u.organization_id, o.name AS organization_name, u.created_at, u.updated_at
	FROM users u JOIN organizations o ON o.id = u.organization_id`

func fixUser(u *domain.User) {
	utc(&u.CreatedAt)
	utc(&u.UpdatedAt)
}

func getUser(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.User, error) {
	u := &domain.User{}
	if err := get(ctx, q, u, userSelect+` WHERE u.id = ?`, id); err != nil {
		return nil, err
	}
	fixUser(u)
	return u, nil
}

func emailTaken(ctx context.Context, q sqlx.ExtContext, email string, exceptID int64) (bool, error) {
	n, err := count(ctx, q, `SELECT COUNT(*) FROM users WHERE LOWER(TRIM(email)) = ? AND id <> ?`,
		repository.NormalizeEmail(email), exceptID)
	return n > 0, err
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return getUser(ctx, s.db, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := get(ctx, s.db, u, userSelect+` WHERE LOWER(TRIM(u.email)) = ? ORDER BY u.id LIMIT 1`,
		repository.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	fixUser(u)
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, orgID int64, in domain.InsertUser) (*domain.User, error) {
	var out *domain.User
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOrg(ctx, tx, orgID); err != nil {
			return err
		}
		taken, err := emailTaken(ctx, tx, in.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrDuplicate
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO users
			(email, password, first_name, last_name, is_admin, organization_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			in.Email, in.Password, in.FirstName, in.LastName, in.IsAdmin, orgID, now, now)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		out, err = getUser(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateUser(ctx context.Context, id int64, u domain.UserUpdate) (*domain.User, error) {
	var out *domain.User
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.Email != nil {
			taken, err := emailTaken(ctx, tx, *u.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrDuplicate
			}
			set.add("email", *u.Email)
		}
		if u.Password != nil {
			set.add("password", *u.Password)
		}
		if u.FirstName != nil {
			set.add("first_name", *u.FirstName)
		}
		if u.LastName != nil {
			set.add("last_name", *u.LastName)
		}
		if u.IsAdmin != nil {
			set.add("is_admin", *u.IsAdmin)
		}
		if err := updateRow(ctx, tx, "users", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getUser(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getUser(ctx, tx, id); err != nil {
			return err
		}
		blocked, err := count(ctx, tx, `SELECT COUNT(*) FROM campaigns
			WHERE created_by_id <> ?
			AND (email_template_id IN (SELECT id FROM email_templates WHERE created_by_id = ?)
			  OR landing_page_id IN (SELECT id FROM landing_pages WHERE created_by_id = ?))`, id, id, id)
		if err != nil {
			return err
		}
		if blocked > 0 {
			return domain.ErrInUse
		}
		steps := []string{
			`DELETE FROM campaign_results WHERE campaign_id IN (SELECT id FROM campaigns WHERE created_by_id = ?)`,
			`DELETE FROM campaigns WHERE created_by_id = ?`,
			`DELETE FROM email_templates WHERE created_by_id = ?`,
			`DELETE FROM landing_pages WHERE created_by_id = ?`,
		}
		for _, q := range steps {
			if _, err := exec(ctx, tx, q, id); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
		}
		return deleteByID(ctx, tx, "users", id)
	})
}

func (s *Store) ListUsers(ctx context.Context, orgID int64) ([]domain.User, error) {
	out := []domain.User{}
	if err := sel(ctx, s.db, &out, userSelect+` WHERE u.organization_id = ? ORDER BY u.id`, orgID); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range out {
		fixUser(&out[i])
	}
	return out, nil
}

func (s *Store) CountUsers(ctx context.Context, orgID int64) (int, error) {
	return count(ctx, s.db, `SELECT COUNT(*) FROM users WHERE organization_id = ?`, orgID)
}
