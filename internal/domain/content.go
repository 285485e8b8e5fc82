package domain

import "time"

// SmtpProfile holds the outbound mail server settings a campaign would use.
// Password is write-only over the API.
type SmtpProfile struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"organizationId" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Host           string    `json:"host" db:"host"`
	Port           int       `json:"port" db:"port"`
	Username       string    `json:"username" db:"username"`
	Password       string    `json:"-" db:"password"`
	FromName       string    `json:"fromName" db:"from_name"`
	FromEmail      string    `json:"fromEmail" db:"from_email"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type InsertSmtpProfile struct {
	Name      string `json:"name" validate:"required,max=255"`
	Host      string `json:"host" validate:"required,max=255"`
	Port      int    `json:"port" validate:"required,min=1,max=65535"`
	Username  string `json:"username" validate:"required,max=255"`
	Password  string `json:"password" validate:"required"`
	FromName  string `json:"fromName" validate:"required,max=255"`
	FromEmail string `json:"fromEmail" validate:"required,email"`
}

type SmtpProfileUpdate struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=255"`
	Host      *string `json:"host" validate:"omitempty,min=1,max=255"`
	Port      *int    `json:"port" validate:"omitempty,min=1,max=65535"`
	Username  *string `json:"username" validate:"omitempty,min=1,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=1"`
	FromName  *string `json:"fromName" validate:"omitempty,min=1,max=255"`
	FromEmail *string `json:"fromEmail" validate:"omitempty,email"`
}

// EmailTemplate is the lure message. Subject and bodies are Liquid templates.
type EmailTemplate struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"organizationId" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Subject        string    `json:"subject" db:"subject"`
	HTMLContent    string    `json:"htmlContent" db:"html_content"`
	TextContent    *string   `json:"textContent" db:"text_content"`
	SenderName     string    `json:"senderName" db:"sender_name"`
	SenderEmail    string    `json:"senderEmail" db:"sender_email"`
	CreatedByID    int64     `json:"createdById" db:"created_by_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type InsertEmailTemplate struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Subject     string  `json:"subject" validate:"required,max=998"`
	HTMLContent string  `json:"htmlContent" validate:"required"`
	TextContent *string `json:"textContent"`
	SenderName  string  `json:"senderName" validate:"required,max=255"`
	SenderEmail string  `json:"senderEmail" validate:"required,email"`
}

type EmailTemplateUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Subject     *string `json:"subject" validate:"omitempty,min=1,max=998"`
	HTMLContent *string `json:"htmlContent" validate:"omitempty,min=1"`
	TextContent *string `json:"textContent"`
	SenderName  *string `json:"senderName" validate:"omitempty,min=1,max=255"`
	SenderEmail *string `json:"senderEmail" validate:"omitempty,email"`
}

// PageType enumerates the kinds of landing page.
type PageType string

const (
	PageLogin       PageType = "login"
	PageForm        PageType = "form"
	PageEducational PageType = "educational"
)

// LandingPage is what a target sees after clicking the lure.
type LandingPage struct {
	ID             int64     `json:"id" db:"id"`
	OrganizationID int64     `json:"organizationId" db:"organization_id"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description" db:"description"`
	HTMLContent    string    `json:"htmlContent" db:"html_content"`
	RedirectURL    *string   `json:"redirectUrl" db:"redirect_url"`
	PageType       PageType  `json:"pageType" db:"page_type"`
	Thumbnail      *string   `json:"thumbnail" db:"thumbnail"`
	CreatedByID    int64     `json:"createdById" db:"created_by_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

type InsertLandingPage struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	HTMLContent string   `json:"htmlContent" validate:"required"`
	RedirectURL *string  `json:"redirectUrl" validate:"omitempty,url"`
	PageType    PageType `json:"pageType" validate:"required,oneof=login form educational"`
	Thumbnail   *string  `json:"thumbnail"`
}

type LandingPageUpdate struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	HTMLContent *string   `json:"htmlContent" validate:"omitempty,min=1"`
	RedirectURL *string   `json:"redirectUrl" validate:"omitempty,url"`
	PageType    *PageType `json:"pageType" validate:"omitempty,oneof=login form educational"`
	Thumbnail   *string   `json:"thumbnail"`
}
