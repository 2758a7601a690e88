package models

import (
	"time"

	"github.com/buscapatitas/backend/internal/status"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Publication is a lost-or-found pet listing. Images holds an ordered
// JSON array of public URLs; contact fields are nullable because only one
// contact method is required.
type Publication struct {
	ID              uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	PublicationType status.PublicationType `gorm:"size:10;not null;index" json:"publication_type"`
	Title           string                 `gorm:"not null;size:255" json:"title"`
	Description     string                 `gorm:"not null;type:text" json:"description"`
	PetType         string                 `gorm:"not null;size:50;index" json:"pet_type"`
	PetSize         *string                `gorm:"size:50" json:"pet_size,omitempty"`
	PetColor        *string                `gorm:"size:100" json:"pet_color,omitempty"`
	PetBreed        *string                `gorm:"size:100" json:"pet_breed,omitempty"`
	Location        string                 `gorm:"not null;size:255" json:"location"`
	EventDate       time.Time              `gorm:"not null" json:"event_date"`
	Images          datatypes.JSON         `gorm:"default:'[]'" json:"images"`
	ContactPhone    *string                `gorm:"size:20" json:"contact_phone,omitempty"`
	ContactEmail    *string                `gorm:"size:255" json:"contact_email,omitempty"`
	IsUrgent        bool                   `gorm:"default:false;index" json:"is_urgent"`
	Status          status.Publication     `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}
