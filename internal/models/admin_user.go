package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser marks an account as staff. Membership in this side table is
// the admin check; User itself carries no role column.
type AdminUser struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Role      string    `gorm:"size:50;not null;default:'moderator'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
