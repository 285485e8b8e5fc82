// Package repository defines the organization-scoped entity store contract.
//
// Two implementations live below this package: memory/ (process-lifetime
// maps) and sqlstore/ (Postgres in production, SQLite for local runs and
// tests). Both must produce identical observable results for the same
// sequence of calls; storetest/ holds the shared conformance suite.
//
// Conventions for every implementation:
//   - Get/Update/Delete of a missing row return domain.ErrNotFound
//   - Create stamps CreatedAt and UpdatedAt with Stamp
//   - Update merges non-nil fields and re-stamps UpdatedAt strictly after
//     the prior value (see NextStamp)
//   - List returns rows in insertion (id) order, never nil
//   - Writes that reference another organization's rows return
//     *domain.AccessDeniedError
//   - Deleting a row a campaign points to returns domain.ErrInUse
package repository

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
)

// Store is the full entity store. Implementations must be safe for
// concurrent use.
type Store interface {
	OrganizationStore
	UserStore
	GroupStore
	TargetStore
	SmtpProfileStore
	EmailTemplateStore
	LandingPageStore
	CampaignStore
	CampaignResultStore

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}

type OrganizationStore interface {
	GetOrganization(ctx context.Context, id int64) (*domain.Organization, error)
	CreateOrganization(ctx context.Context, in domain.InsertOrganization) (*domain.Organization, error)
	UpdateOrganization(ctx context.Context, id int64, u domain.OrganizationUpdate) (*domain.Organization, error)
	// DeleteOrganization removes the organization and every row it owns.
	DeleteOrganization(ctx context.Context, id int64) error
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// CreateUser returns domain.ErrDuplicate when the email is taken and
	// domain.ErrNotFound when the organization does not exist.
	CreateUser(ctx context.Context, orgID int64, in domain.InsertUser) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, u domain.UserUpdate) (*domain.User, error)
	// DeleteUser also removes the templates, landing pages and campaigns
	// the user created.
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, orgID int64) ([]domain.User, error)
	CountUsers(ctx context.Context, orgID int64) (int, error)
}

type GroupStore interface {
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	CreateGroup(ctx context.Context, orgID int64, in domain.InsertGroup) (*domain.Group, error)
	UpdateGroup(ctx context.Context, id int64, u domain.GroupUpdate) (*domain.Group, error)
	// DeleteGroup removes the group's targets first.
	DeleteGroup(ctx context.Context, id int64) error
	// ListGroups augments each group with its current target count.
	ListGroups(ctx context.Context, orgID int64) ([]domain.GroupSummary, error)
}

type TargetStore interface {
	GetTarget(ctx context.Context, id int64) (*domain.Target, error)
	CreateTarget(ctx context.Context, orgID, groupID int64, in domain.InsertTarget) (*domain.Target, error)
	UpdateTarget(ctx context.Context, id int64, u domain.TargetUpdate) (*domain.Target, error)
	DeleteTarget(ctx context.Context, id int64) error
	ListTargets(ctx context.Context, orgID, groupID int64) ([]domain.Target, error)
}

type SmtpProfileStore interface {
	GetSmtpProfile(ctx context.Context, id int64) (*domain.SmtpProfile, error)
	CreateSmtpProfile(ctx context.Context, orgID int64, in domain.InsertSmtpProfile) (*domain.SmtpProfile, error)
	UpdateSmtpProfile(ctx context.Context, id int64, u domain.SmtpProfileUpdate) (*domain.SmtpProfile, error)
	DeleteSmtpProfile(ctx context.Context, id int64) error
	ListSmtpProfiles(ctx context.Context, orgID int64) ([]domain.SmtpProfile, error)
}

type EmailTemplateStore interface {
	GetEmailTemplate(ctx context.Context, id int64) (*domain.EmailTemplate, error)
	CreateEmailTemplate(ctx context.Context, orgID, userID int64, in domain.InsertEmailTemplate) (*domain.EmailTemplate, error)
	UpdateEmailTemplate(ctx context.Context, id int64, u domain.EmailTemplateUpdate) (*domain.EmailTemplate, error)
	DeleteEmailTemplate(ctx context.Context, id int64) error
	ListEmailTemplates(ctx context.Context, orgID int64) ([]domain.EmailTemplate, error)
}

type LandingPageStore interface {
	GetLandingPage(ctx context.Context, id int64) (*domain.LandingPage, error)
	CreateLandingPage(ctx context.Context, orgID, userID int64, in domain.InsertLandingPage) (*domain.LandingPage, error)
	UpdateLandingPage(ctx context.Context, id int64, u domain.LandingPageUpdate) (*domain.LandingPage, error)
	DeleteLandingPage(ctx context.Context, id int64) error
	ListLandingPages(ctx context.Context, orgID int64) ([]domain.LandingPage, error)
}

type CampaignStore interface {
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	CreateCampaign(ctx context.Context, orgID, userID int64, in domain.InsertCampaign) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, u domain.CampaignUpdate) (*domain.Campaign, error)
	// DeleteCampaign removes the campaign's results first.
	DeleteCampaign(ctx context.Context, id int64) error
	ListCampaigns(ctx context.Context, orgID int64) ([]domain.Campaign, error)
	CountCampaignsByStatus(ctx context.Context, orgID int64, status domain.CampaignStatus) (int, error)
}

type CampaignResultStore interface {
	GetCampaignResult(ctx context.Context, id int64) (*domain.CampaignResult, error)
	// CreateCampaignResult returns domain.ErrDuplicate when the
	// (campaign, target) pair already has a row.
	CreateCampaignResult(ctx context.Context, orgID int64, in domain.InsertCampaignResult) (*domain.CampaignResult, error)
	UpdateCampaignResult(ctx context.Context, id int64, u domain.CampaignResultUpdate) (*domain.CampaignResult, error)
	DeleteCampaignResult(ctx context.Context, id int64) error
	ListCampaignResults(ctx context.Context, orgID, campaignID int64) ([]domain.CampaignResult, error)
}
