package domain

import "time"

// Organization is the root of tenancy. Deleting it removes every row that
// carries its ID.
type Organization struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type InsertOrganization struct {
	Name string `json:"name" validate:"required,max=255"`
}

type OrganizationUpdate struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

// User is a platform operator, distinct from a Target. Password holds the
// bcrypt hash and is never serialized.
type User struct {
	ID               int64     `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	Password         string    `json:"-" db:"password"`
	FirstName        string    `json:"firstName" db:"first_name"`
	LastName         string    `json:"lastName" db:"last_name"`
	IsAdmin          bool      `json:"isAdmin" db:"is_admin"`
	OrganizationID   int64     `json:"organizationId" db:"organization_id"`
	OrganizationName string    `json:"organizationName" db:"organization_name"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// InsertUser is the create shape for a user. Password must already be
// hashed when it reaches the store.
type InsertUser struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	IsAdmin   bool   `json:"isAdmin"`
}

type UserUpdate struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	IsAdmin   *bool   `json:"isAdmin"`
}
