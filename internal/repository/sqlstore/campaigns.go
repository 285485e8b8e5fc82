package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignite/phishsim/internal/domain"
	"github.com/ignite/phishsim/internal/repository"
)

const campaignColumns = `id, organization_id, name, status, group_id, smtp_profile_id,
	email_template_id, landing_page_id, scheduled_at, end_date, created_by_id, created_at, updated_at`

func fixCampaign(c *domain.Campaign) {
	utc(&c.CreatedAt)
	utc(&c.UpdatedAt)
	c.ScheduledAt = utcPtr(c.ScheduledAt)
	c.EndDate = utcPtr(c.EndDate)
}

func getCampaign(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	if err := get(ctx, q, c, `SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id); err != nil {
		return nil, err
	}
	fixCampaign(c)
	return c, nil
}

// checkCampaignRefs reports every reference that is missing or owned by a
// different organization. Zero ids are skipped.
func checkCampaignRefs(ctx context.Context, q sqlx.ExtContext, orgID, groupID, smtpID, templateID, pageID int64) error {
	refs := []struct {
		id    int64
		table string
		name  string
	}{
		{groupID, "target_groups", repository.RefGroup},
		{smtpID, "smtp_profiles", repository.RefSmtpProfile},
		{templateID, "email_templates", repository.RefEmailTemplate},
		{pageID, "landing_pages", repository.RefLandingPage},
	}
	var bad []string
	for _, r := range refs {
		if r.id == 0 {
			continue
		}
		ok, err := ownedBy(ctx, q, r.table, r.id, orgID)
		if err != nil {
			return err
		}
		if !ok {
			bad = append(bad, r.name)
		}
	}
	if len(bad) > 0 {
		return &domain.AccessDeniedError{Refs: bad}
	}
	return nil
}

func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	return getCampaign(ctx, s.db, id)
}

func (s *Store) CreateCampaign(ctx context.Context, orgID, userID int64, in domain.InsertCampaign) (*domain.Campaign, error) {
	var out *domain.Campaign
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOwner(ctx, tx, orgID, userID); err != nil {
			return err
		}
		if in.GroupID == 0 || in.SmtpProfileID == 0 || in.EmailTemplateID == 0 || in.LandingPageID == 0 {
			return repository.MissingRefs(in)
		}
		if err := checkCampaignRefs(ctx, tx, orgID, in.GroupID, in.SmtpProfileID, in.EmailTemplateID, in.LandingPageID); err != nil {
			return err
		}
		status := in.Status
		if status == "" {
			status = domain.CampaignDraft
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO campaigns
			(organization_id, name, status, group_id, smtp_profile_id, email_template_id, landing_page_id,
			 scheduled_at, end_date, created_by_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orgID, in.Name, string(status), in.GroupID, in.SmtpProfileID, in.EmailTemplateID, in.LandingPageID,
			repository.NormalizeTime(in.ScheduledAt), repository.NormalizeTime(in.EndDate), userID, now, now)
		if err != nil {
			return fmt.Errorf("create campaign: %w", err)
		}
		out, err = getCampaign(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateCampaign(ctx context.Context, id int64, u domain.CampaignUpdate) (*domain.Campaign, error) {
	var out *domain.Campaign
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getCampaign(ctx, tx, id)
		if err != nil {
			return err
		}
		var set setter
		var gid, sid, tid, pid int64
		if u.GroupID != nil && *u.GroupID != 0 {
			gid = *u.GroupID
			set.add("group_id", gid)
		}
		if u.SmtpProfileID != nil && *u.SmtpProfileID != 0 {
			sid = *u.SmtpProfileID
			set.add("smtp_profile_id", sid)
		}
		if u.EmailTemplateID != nil && *u.EmailTemplateID != 0 {
			tid = *u.EmailTemplateID
			set.add("email_template_id", tid)
		}
		if u.LandingPageID != nil && *u.LandingPageID != 0 {
			pid = *u.LandingPageID
			set.add("landing_page_id", pid)
		}
		if err := checkCampaignRefs(ctx, tx, cur.OrganizationID, gid, sid, tid, pid); err != nil {
			return err
		}
		if u.Name != nil {
			set.add("name", *u.Name)
		}
		if u.Status != nil {
			set.add("status", string(*u.Status))
		}
		switch {
		case u.ClearScheduledAt:
			set.add("scheduled_at", nil)
		case u.ScheduledAt != nil:
			set.add("scheduled_at", *repository.NormalizeTime(u.ScheduledAt))
		}
		switch {
		case u.ClearEndDate:
			set.add("end_date", nil)
		case u.EndDate != nil:
			set.add("end_date", *repository.NormalizeTime(u.EndDate))
		}
		if err := updateRow(ctx, tx, "campaigns", id, &set); err != nil {
			return err
		}
		out, err = getCampaign(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteCampaign(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getCampaign(ctx, tx, id); err != nil {
			return err
		}
		if _, err := exec(ctx, tx, `DELETE FROM campaign_results WHERE campaign_id = ?`, id); err != nil {
			return fmt.Errorf("delete campaign results: %w", err)
		}
		return deleteByID(ctx, tx, "campaigns", id)
	})
}

func (s *Store) ListCampaigns(ctx context.Context, orgID int64) ([]domain.Campaign, error) {
	out := []domain.Campaign{}
	if err := sel(ctx, s.db, &out, `SELECT `+campaignColumns+` FROM campaigns
		WHERE organization_id = ? ORDER BY id`, orgID); err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	for i := range out {
		fixCampaign(&out[i])
	}
	return out, nil
}

func (s *Store) CountCampaignsByStatus(ctx context.Context, orgID int64, status domain.CampaignStatus) (int, error) {
	return count(ctx, s.db, `SELECT COUNT(*) FROM campaigns WHERE organization_id = ? AND status = ?`,
		orgID, string(status))
}

// ─── Campaign results ───

const resultColumns = `id, organization_id, campaign_id, target_id, sent, sent_at, opened, opened_at,
	clicked, clicked_at, submitted, submitted_at, submitted_data, created_at, updated_at`

// resultRow carries submitted_data as text; both backings store it in a TEXT
// column.
type resultRow struct {
	ID             int64          `db:"id"`
	OrganizationID int64          `db:"organization_id"`
	CampaignID     int64          `db:"campaign_id"`
	TargetID       int64          `db:"target_id"`
	Sent           bool           `db:"sent"`
	SentAt         *time.Time     `db:"sent_at"`
	Opened         bool           `db:"opened"`
	OpenedAt       *time.Time     `db:"opened_at"`
	Clicked        bool           `db:"clicked"`
	ClickedAt      *time.Time     `db:"clicked_at"`
	Submitted      bool           `db:"submitted"`
	SubmittedAt    *time.Time     `db:"submitted_at"`
	SubmittedData  sql.NullString `db:"submitted_data"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r resultRow) toDomain() domain.CampaignResult {
	out := domain.CampaignResult{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		CampaignID:     r.CampaignID,
		TargetID:       r.TargetID,
		Sent:           r.Sent,
		SentAt:         utcPtr(r.SentAt),
		Opened:         r.Opened,
		OpenedAt:       utcPtr(r.OpenedAt),
		Clicked:        r.Clicked,
		ClickedAt:      utcPtr(r.ClickedAt),
		Submitted:      r.Submitted,
		SubmittedAt:    utcPtr(r.SubmittedAt),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
	if r.SubmittedData.Valid {
		out.SubmittedData = json.RawMessage(r.SubmittedData.String)
	}
	return out
}

func getCampaignResult(ctx context.Context, q sqlx.ExtContext, id int64) (*domain.CampaignResult, error) {
	var row resultRow
	if err := get(ctx, q, &row, `SELECT `+resultColumns+` FROM campaign_results WHERE id = ?`, id); err != nil {
		return nil, err
	}
	r := row.toDomain()
	return &r, nil
}

func (s *Store) GetCampaignResult(ctx context.Context, id int64) (*domain.CampaignResult, error) {
	return getCampaignResult(ctx, s.db, id)
}

func (s *Store) CreateCampaignResult(ctx context.Context, orgID int64, in domain.InsertCampaignResult) (*domain.CampaignResult, error) {
	var out *domain.CampaignResult
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := requireOrg(ctx, tx, orgID); err != nil {
			return err
		}
		var bad []string
		if ok, err := ownedBy(ctx, tx, "campaigns", in.CampaignID, orgID); err != nil {
			return err
		} else if !ok {
			bad = append(bad, repository.RefCampaign)
		}
		if ok, err := ownedBy(ctx, tx, "targets", in.TargetID, orgID); err != nil {
			return err
		} else if !ok {
			bad = append(bad, repository.RefTarget)
		}
		if len(bad) > 0 {
			return &domain.AccessDeniedError{Refs: bad}
		}
		dup, err := count(ctx, tx, `SELECT COUNT(*) FROM campaign_results WHERE campaign_id = ? AND target_id = ?`,
			in.CampaignID, in.TargetID)
		if err != nil {
			return err
		}
		if dup > 0 {
			return domain.ErrDuplicate
		}
		now := repository.Stamp()
		id, err := insert(ctx, tx, `INSERT INTO campaign_results
			(organization_id, campaign_id, target_id, sent, opened, clicked, submitted, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orgID, in.CampaignID, in.TargetID, false, false, false, false, now, now)
		if err != nil {
			return fmt.Errorf("create campaign result: %w", err)
		}
		out, err = getCampaignResult(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) UpdateCampaignResult(ctx context.Context, id int64, u domain.CampaignResultUpdate) (*domain.CampaignResult, error) {
	var out *domain.CampaignResult
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		cur, err := getCampaignResult(ctx, tx, id)
		if err != nil {
			return err
		}
		now := repository.Stamp()
		repository.ApplyOutcome(&cur.Sent, &cur.SentAt, u.Sent, now)
		repository.ApplyOutcome(&cur.Opened, &cur.OpenedAt, u.Opened, now)
		repository.ApplyOutcome(&cur.Clicked, &cur.ClickedAt, u.Clicked, now)
		repository.ApplyOutcome(&cur.Submitted, &cur.SubmittedAt, u.Submitted, now)

		var set setter
		set.add("sent", cur.Sent)
		set.add("sent_at", cur.SentAt)
		set.add("opened", cur.Opened)
		set.add("opened_at", cur.OpenedAt)
		set.add("clicked", cur.Clicked)
		set.add("clicked_at", cur.ClickedAt)
		set.add("submitted", cur.Submitted)
		set.add("submitted_at", cur.SubmittedAt)
		if u.SubmittedData != nil {
			set.add("submitted_data", string(u.SubmittedData))
		}
		if err := updateRow(ctx, tx, "campaign_results", id, &set); err != nil {
			return err
		}
		out, err = getCampaignResult(ctx, tx, id)
		return err
	})
	return out, err
}

func (s *Store) DeleteCampaignResult(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "campaign_results", id)
}

func (s *Store) ListCampaignResults(ctx context.Context, orgID, campaignID int64) ([]domain.CampaignResult, error) {
	var rows []resultRow
	if err := sel(ctx, s.db, &rows, `SELECT `+resultColumns+` FROM campaign_results
		WHERE organization_id = ? AND campaign_id = ? ORDER BY id`, orgID, campaignID); err != nil {
		return nil, fmt.Errorf("list campaign results: %w", err)
	}
	out := make([]domain.CampaignResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
