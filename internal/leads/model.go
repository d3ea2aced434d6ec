package leads

import (
	"log/slog"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusGrading  = "grading"
	StatusDropped  = "dropped"
	StatusSold     = "sold"

	redacted = "REDACTED"
)

// Variant selects the backend endpoint a submission goes to.
type Variant string

const (
	// VariantAuthenticated posts to /lead/upsert with campaign and user resolved by the caller.
	VariantAuthenticated Variant = "authenticated"
	// VariantExternal posts to /lead/external with placeholder campaign and user.
	VariantExternal Variant = "external"
)

// Draft holds raw form values keyed by their wire names.
type Draft struct {
	FirstName       string `json:"first_name" validate:"min=2"`
	LastName        string `json:"last_name" validate:"min=2"`
	Email           string `json:"email" validate:"required,email"`
	MobilePhone     string `json:"mobile_phone" validate:"required,mobile"`
	InterestProgram string `json:"interestProgram" validate:"required"`
	Campaign        string `json:"campaign" validate:"required"`
	User            string `json:"user" validate:"required"`
	Status          string `json:"status,omitempty"`
	FullName        string `json:"full_name,omitempty"`
	Number          string `json:"number,omitempty"`
}

// Payload is the normalized body sent to the CRM. Build it with Pipeline.
type Payload struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	MobilePhone     string `json:"mobile_phone"`
	Number          string `json:"number"`
	InterestProgram string `json:"interestProgram"`
	Campaign        string `json:"campaign"`
	User            string `json:"user"`
	Status          string `json:"status"`
	FullName        string `json:"full_name"`
}

// LogValue keeps phone numbers out of logs.
func (p Payload) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("first_name", p.FirstName),
		slog.String("last_name", p.LastName),
		slog.String("email", p.Email),
		slog.String("mobile_phone", redacted),
		slog.String("number", redacted),
		slog.String("interestProgram", p.InterestProgram),
		slog.String("campaign", p.Campaign),
		slog.String("user", p.User),
		slog.String("status", p.Status),
	)
}

type externalPayload struct {
	Payload
	IgnoreInteraction bool `json:"ignore_interaction"`
}

type Tracking struct {
	Tracking  string `json:"tracking"`
	Interest  *int   `json:"interest,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Lead is the CRM record returned by the backend.
type Lead struct {
	ID              string     `json:"_id,omitempty"`
	Incremental     int64      `json:"incremental,omitempty"`
	Number          string     `json:"number,omitempty"`
	FullName        string     `json:"full_name"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Email           string     `json:"email"`
	MobilePhone     string     `json:"mobile_phone"`
	InterestProgram string     `json:"interestProgram"`
	Campaign        string     `json:"campaign"`
	User            string     `json:"user,omitempty"`
	Adviser         string     `json:"adviser,omitempty"`
	Status          string     `json:"status,omitempty"`
	Trackings       []Tracking `json:"trackings,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Result mirrors the CRM response envelope.
type Result struct {
	Success bool   `json:"success"`
	Object  *Lead  `json:"object,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code,omitempty"`
}
