// Package dashboard assembles the overview widgets. Only the active
// campaign and user counts are computed; the other figures are fixed
// placeholders that keep the response shape the front end expects.
package dashboard

import (
	"context"
	"fmt"

	"github.com/ignite/phishsim/internal/domain"
)

// Placeholder figures returned alongside the computed counts.
const (
	CampaignChange     = 12.5
	SuccessRate        = 23.4
	SuccessRateChange  = -4.2
	UserChange         = 8.1
	TrainingCompletion = 67.0
	TrainingChange     = 5.3
)

// Repository is the slice of the entity store the dashboard reads.
type Repository interface {
	CountCampaignsByStatus(ctx context.Context, orgID int64, status domain.CampaignStatus) (int, error)
	CountUsers(ctx context.Context, orgID int64) (int, error)
}

// Stats is the headline card row.
type Stats struct {
	ActiveCampaigns    int     `json:"activeCampaigns"`
	CampaignChange     float64 `json:"campaignChange"`
	SuccessRate        float64 `json:"successRate"`
	SuccessRateChange  float64 `json:"successRateChange"`
	TotalUsers         int     `json:"totalUsers"`
	UserChange         float64 `json:"userChange"`
	TrainingCompletion float64 `json:"trainingCompletion"`
	TrainingChange     float64 `json:"trainingChange"`
}

// Metric is one month of the click-rate chart.
type Metric struct {
	Month    string `json:"month"`
	Sent     int    `json:"sent"`
	Opened   int    `json:"opened"`
	Clicked  int    `json:"clicked"`
	Reported int    `json:"reported"`
}

// Threat is one row of the threat-category breakdown.
type Threat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Severity string `json:"severity"`
}

// RiskUser is one entry of the most-susceptible list.
type RiskUser struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	RiskScore  int    `json:"riskScore"`
	Clicks     int    `json:"clicks"`
}

// TrainingModule is one awareness course's completion figure.
type TrainingModule struct {
	Module     string  `json:"module"`
	Completion float64 `json:"completion"`
	Enrolled   int     `json:"enrolled"`
}

// Service computes dashboard data for one organization.
type Service struct {
	repo Repository
}

// NewService creates a dashboard service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Stats counts the organization's active campaigns and users.
func (s *Service) Stats(ctx context.Context, orgID int64) (*Stats, error) {
	active, err := s.repo.CountCampaignsByStatus(ctx, orgID, domain.CampaignActive)
	if err != nil {
		return nil, fmt.Errorf("count active campaigns: %w", err)
	}
	users, err := s.repo.CountUsers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	return &Stats{
		ActiveCampaigns:    active,
		CampaignChange:     CampaignChange,
		SuccessRate:        SuccessRate,
		SuccessRateChange:  SuccessRateChange,
		TotalUsers:         users,
		UserChange:         UserChange,
		TrainingCompletion: TrainingCompletion,
		TrainingChange:     TrainingChange,
	}, nil
}

// Metrics returns the placeholder six-month series.
func (s *Service) Metrics(ctx context.Context, orgID int64) []Metric {
	return []Metric{
		{Month: "Jan", Sent: 420, Opened: 310, Clicked: 96, Reported: 41},
		{Month: "Feb", Sent: 380, Opened: 275, Clicked: 81, Reported: 52},
		{Month: "Mar", Sent: 450, Opened: 330, Clicked: 77, Reported: 68},
		{Month: "Apr", Sent: 400, Opened: 290, Clicked: 64, Reported: 74},
		{Month: "May", Sent: 470, Opened: 350, Clicked: 58, Reported: 91},
		{Month: "Jun", Sent: 430, Opened: 315, Clicked: 49, Reported: 97},
	}
}

// Threats returns the placeholder category breakdown.
func (s *Service) Threats(ctx context.Context, orgID int64) []Threat {
	return []Threat{
		{Category: "Credential harvesting", Count: 38, Severity: "high"},
		{Category: "Malicious attachment", Count: 21, Severity: "high"},
		{Category: "Invoice fraud", Count: 14, Severity: "medium"},
		{Category: "Gift card scam", Count: 9, Severity: "low"},
	}
}

// RiskUsers returns the placeholder most-susceptible list.
func (s *Service) RiskUsers(ctx context.Context, orgID int64) []RiskUser {
	return []RiskUser{
		{Name: "J. Smith", Department: "Finance", RiskScore: 87, Clicks: 5},
		{Name: "A. Patel", Department: "Sales", RiskScore: 74, Clicks: 4},
		{Name: "M. Garcia", Department: "HR", RiskScore: 69, Clicks: 3},
		{Name: "K. Chen", Department: "Operations", RiskScore: 55, Clicks: 2},
	}
}

// Training returns the placeholder course completion figures.
func (s *Service) Training(ctx context.Context, orgID int64) []TrainingModule {
	return []TrainingModule{
		{Module: "Spotting phishing emails", Completion: 82.0, Enrolled: 120},
		{Module: "Password hygiene", Completion: 71.5, Enrolled: 118},
		{Module: "Reporting suspicious messages", Completion: 64.0, Enrolled: 97},
		{Module: "Social engineering by phone", Completion: 48.5, Enrolled: 60},
	}
}
