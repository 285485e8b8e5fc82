package domain

import (
	"encoding/json"
	"time"
)

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "Draft"
	CampaignScheduled CampaignStatus = "Scheduled"
	CampaignActive    CampaignStatus = "Active"
	CampaignCompleted CampaignStatus = "Completed"
)

// Valid reports whether s is one of the four known statuses.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignActive, CampaignCompleted:
		return true
	}
	return false
}

// Campaign associates one Group, SmtpProfile, EmailTemplate and LandingPage.
// The four referenced rows cannot be deleted while the campaign exists.
type Campaign struct {
	ID              int64          `json:"id" db:"id"`
	OrganizationID  int64          `json:"organizationId" db:"organization_id"`
	Name            string         `json:"name" db:"name"`
	Status          CampaignStatus `json:"status" db:"status"`
	GroupID         int64          `json:"groupId" db:"group_id"`
	SmtpProfileID   int64          `json:"smtpProfileId" db:"smtp_profile_id"`
	EmailTemplateID int64          `json:"emailTemplateId" db:"email_template_id"`
	LandingPageID   int64          `json:"landingPageId" db:"landing_page_id"`
	ScheduledAt     *time.Time     `json:"scheduledAt" db:"scheduled_at"`
	EndDate         *time.Time     `json:"endDate" db:"end_date"`
	CreatedByID     int64          `json:"createdById" db:"created_by_id"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" db:"updated_at"`
}

// InsertCampaign is the store-level create shape; dates are already parsed.
// An empty Status is stored as Draft.
type InsertCampaign struct {
	Name            string
	Status          CampaignStatus
	GroupID         int64
	SmtpProfileID   int64
	EmailTemplateID int64
	LandingPageID   int64
	ScheduledAt     *time.Time
	EndDate         *time.Time
}

type CampaignUpdate struct {
	Name             *string
	Status           *CampaignStatus
	GroupID          *int64
	SmtpProfileID    *int64
	EmailTemplateID  *int64
	LandingPageID    *int64
	ScheduledAt      *time.Time
	EndDate          *time.Time
	// ClearScheduledAt and ClearEndDate null the date; they win over a
	// non-nil value.
	ClearScheduledAt bool
	ClearEndDate     bool
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignCompleted
}

// CampaignResult tracks one target's outcome within one campaign.
type CampaignResult struct {
	ID             int64           `json:"id" db:"id"`
	OrganizationID int64           `json:"organizationId" db:"organization_id"`
	CampaignID     int64           `json:"campaignId" db:"campaign_id"`
	TargetID       int64           `json:"targetId" db:"target_id"`
	Sent           bool            `json:"sent" db:"sent"`
	SentAt         *time.Time      `json:"sentAt" db:"sent_at"`
	Opened         bool            `json:"opened" db:"opened"`
	OpenedAt       *time.Time      `json:"openedAt" db:"opened_at"`
	Clicked        bool            `json:"clicked" db:"clicked"`
	ClickedAt      *time.Time      `json:"clickedAt" db:"clicked_at"`
	Submitted      bool            `json:"submitted" db:"submitted"`
	SubmittedAt    *time.Time      `json:"submittedAt" db:"submitted_at"`
	SubmittedData  json.RawMessage `json:"submittedData,omitempty" db:"submitted_data"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

type InsertCampaignResult struct {
	CampaignID int64
	TargetID   int64
}

// CampaignResultUpdate sets outcome flags. Setting a flag to true without a
// timestamp stamps the current time.
type CampaignResultUpdate struct {
	Sent          *bool
	Opened        *bool
	Clicked       *bool
	Submitted     *bool
	SubmittedData json.RawMessage
}
