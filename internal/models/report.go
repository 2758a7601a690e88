package models

import (
	"time"

	"github.com/buscapatitas/backend/internal/status"
	"github.com/google/uuid"
)

// Report is a user-filed complaint against a publication. There is
// deliberately no foreign-key constraint on PublicationID: deleting a
// publication orphans its reports, and readers substitute a placeholder
// title instead of failing.
type Report struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	PublicationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"publication_id"`
	ReporterID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reason        status.Reason `gorm:"size:50;not null" json:"reason"`
	Description   *string       `gorm:"size:1000" json:"description,omitempty"`
	Status        status.Report `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
