package campaign

import (
	"context"

	"github.com/ignite/phishsim/internal/domain"
)

// Repository is the slice of the entity store the campaign service needs.
// Implementations must be safe for concurrent use.
type Repository interface {
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	GetSmtpProfile(ctx context.Context, id int64) (*domain.SmtpProfile, error)
	GetEmailTemplate(ctx context.Context, id int64) (*domain.EmailTemplate, error)
	GetLandingPage(ctx context.Context, id int64) (*domain.LandingPage, error)
	ListTargets(ctx context.Context, orgID, groupID int64) ([]domain.Target, error)

	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	CreateCampaign(ctx context.Context, orgID, userID int64, in domain.InsertCampaign) (*domain.Campaign, error)
	UpdateCampaign(ctx context.Context, id int64, u domain.CampaignUpdate) (*domain.Campaign, error)
	DeleteCampaign(ctx context.Context, id int64) error
	ListCampaigns(ctx context.Context, orgID int64) ([]domain.Campaign, error)

	CreateCampaignResult(ctx context.Context, orgID int64, in domain.InsertCampaignResult) (*domain.CampaignResult, error)
	ListCampaignResults(ctx context.Context, orgID, campaignID int64) ([]domain.CampaignResult, error)
}
