package dto

import (
	"time"

	"github.com/buscapatitas/backend/internal/models"
	"github.com/google/uuid"
)

type CreateReportRequest struct {
	PublicationID uuid.UUID `json:"publication_id"`
	Reason        string    `json:"reason"`
	Description   string    `json:"description,omitempty"`
}

type ActionReportRequest struct {
	Status string `json:"status"`
}

type ForceStatusRequest struct {
	Status string `json:"status"`
}

type BanUserRequest struct {
	Reason string `json:"reason"`
}

// ReportView is a report joined with its publication title for the admin
// panel. Deleted publications render a placeholder instead of an error.
type ReportView struct {
	models.Report
	PublicationTitle   string `json:"publication_title"`
	PublicationDeleted bool   `json:"publication_deleted"`
}

// UserStats aggregates a user's activity for the admin UI. All counts
// default to zero when no rows exist.
type UserStats struct {
	UserID               uuid.UUID  `json:"user_id"`
	FullName             string     `json:"full_name"`
	Email                string     `json:"email"`
	Phone                *string    `json:"phone"`
	Banned               bool       `json:"banned"`
	BannedAt             *time.Time `json:"banned_at"`
	BanReason            *string    `json:"ban_reason"`
	PublicationsCount    int64      `json:"publications_count"`
	ReportsReceivedCount int64      `json:"reports_received_count"`
	ReportsMadeCount     int64      `json:"reports_made_count"`
	CreatedAt            time.Time  `json:"created_at"`
}

// PublicationDetails is the admin aggregate view of one publication.
type PublicationDetails struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PetType      string    `json:"pet_type"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UserFullName string    `json:"user_full_name"`
	UserEmail    string    `json:"user_email"`
	UserPhone    *string   `json:"user_phone"`
	UserBanned   bool      `json:"user_banned"`
	ReportCount  int64     `json:"report_count"`
}

// AdminPublicationRow is a publication with its owner's profile summary
// for the admin listing table.
type AdminPublicationRow struct {
	models.Publication
	OwnerFullName string `json:"owner_full_name"`
	OwnerEmail    string `json:"owner_email"`
	OwnerBanned   bool   `json:"owner_banned"`
}
