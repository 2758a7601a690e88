package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the public-facing account row, keyed by the user's ID. Ban
// state lives here rather than on User so moderation reads never touch
// credentials.
type Profile struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string     `gorm:"not null;size:255" json:"full_name"`
	Email     string     `gorm:"not null;size:255;index" json:"email"`
	Phone     *string    `gorm:"size:20" json:"phone,omitempty"`
	Banned    bool       `gorm:"default:false;index" json:"banned"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	BannedBy  *uuid.UUID `gorm:"type:uuid" json:"banned_by,omitempty"`
	BanReason *string    `gorm:"size:500" json:"ban_reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
