package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

const groupColumns = `id, organization_id, name, description, created_at, updated_at`

func getGroup(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.Group, error) {
	g := &domain.Group{}
	if err := get(ctx, q, g, `SELECT `+groupColumns+` FROM target_groups WHERE id = ?`, id); err != nil {
		return nil, err
	}
	utc(&g.CreatedAt)
	utc(&g.UpdatedAt)
	return g, nil
}

func (s *Store) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	return getGroup(ctx, s.db, id)
}

func (s *Store) CreateGroup(ctx context.Context, orgID int64, in domain.InsertGroup) (*domain.Group, error) {
	var out *domain.Group
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOrg(ctx, tx, orgID); err != nil {
			return err
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO target_groups
			(organization_id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			orgID, in.Name, in.Description, now, now)
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		out, err = getGroup(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateGroup(ctx context.Context, id int64, u domain.GroupUpdate) (*domain.Group, error) {
	var out *domain.Group
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.Name != nil {
			set.add("name", *u.Name)
		}
		if u.Description != nil {
			set.add("description", *u.Description)
		}
		if err := updateRow(ctx, tx, "target_groups", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getGroup(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getGroup(ctx, tx, id); err != nil {
			return err
		}
		used, err := count(ctx, tx, `SELECT COUNT(*) FROM campaigns WHERE group_id = ?`, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return domain.ErrInUse
		}
		if _, err := exec(ctx, tx, `DELETE FROM campaign_results
			WHERE target_id IN (SELECT id FROM targets WHERE group_id = ?)`, id); err != nil {
			return fmt.Errorf("delete group results: %w", err)
		}
		if _, err := exec(ctx, tx, `DELETE FROM targets WHERE group_id = ?`, id); err != nil {
			return fmt.Errorf("delete group targets: %w", err)
		}
		return deleteByID(ctx, tx, "target_groups", id)
	})
}

func (s *Store) ListGroups(ctx context.Context, orgID int64) ([]domain.GroupSummary, error) {
	out := []domain.GroupSummary{}
	err := sel(ctx, s.db, &out, `SELECT g.id, g.organization_id, g.name, g.description,
		g.created_at, g.updated_at,
		(SELECT COUNT(*) FROM targets t WHERE t.group_id = g.id) AS target_count
		FROM target_groups g WHERE g.organization_id = ? ORDER BY g.id`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	for i := range out {
		utc(&out[i].CreatedAt)
		utc(&out[i].UpdatedAt)
	}
	return out, nil
}

// ─── Targets ───

const targetColumns = `id, organization_id, group_id, first_name, last_name, email, position,
	created_at, updated_at`

func getTarget(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.Target, error) {
	t := &domain.Target{}
	if err := get(ctx, q, t, `SELECT `+targetColumns+` FROM targets WHERE id = ?`, id); err != nil {
		return nil, err
	}
	utc(&t.CreatedAt)
	utc(&t.UpdatedAt)
	return t, nil
}

func (s *Store) GetTarget(ctx context.Context, id int64) (*domain.Target, error) {
	return getTarget(ctx, s.db, id)
}

func (s *Store) CreateTarget(ctx context.Context, orgID, groupID int64, in domain.InsertTarget) (*domain.Target, error) {
	var out *domain.Target
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOrg(ctx, tx, orgID); err != nil {
			return err
		}
		ok, err := ownedBy(ctx, tx, "target_groups", groupID, orgID)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.AccessDeniedError{Refs: []string{repository.RefGroup}}
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO targets
			(organization_id, group_id, first_name, last_name, email, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			orgID, groupID, in.FirstName, in.LastName, in.Email, in.Position, now, now)
		if err != nil {
			return fmt.Errorf("create target: %w", err)
		}
		out, err = getTarget(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateTarget(ctx context.Context, id int64, u domain.TargetUpdate) (*domain.Target, error) {
	var out *domain.Target
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var set setter
		if u.FirstName != nil {
			set.add("first_name", *u.FirstName)
		}
		if u.LastName != nil {
			set.add("last_name", *u.LastName)
		}
		if u.Email != nil {
			set.add("email", *u.Email)
		}
		if u.Position != nil {
			set.add("position", *u.Position)
		}
		if err := updateRow(ctx, tx, "targets", id, &set); err != nil {
			return err
		}
		var err error
		out, err = getTarget(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteTarget(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getTarget(ctx, tx, id); err != nil {
			return err
		}
		if _, err := exec(ctx, tx, `DELETE FROM campaign_results WHERE target_id = ?`, id); err != nil {
			return fmt.Errorf("delete target results: %w", err)
		}
		return deleteByID(ctx, tx, "targets", id)
	})
}

func (s *Store) ListTargets(ctx context.Context, orgID, groupID int64) ([]domain.Target, error) {
	out := []domain.Target{}
	err := sel(ctx, s.db, &out, `SELECT `+targetColumns+` FROM targets
		WHERE organization_id = ? AND group_id = ? ORDER BY id`, orgID, groupID)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	for i := range out {
		utc(&out[i].CreatedAt)
		utc(&out[i].UpdatedAt)
	}
	return out, nil
}
