// Package store holds shared GORM query scopes for row-level visibility
// and ownership filtering.
package store

import (
	"github.com/buscapatitas/backend/internal/status"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PubliclyVisible limits publications to the statuses shown in the public
// directory (active and resolved). Inactive rows stay owner-only.
func PubliclyVisible(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", status.PublicStatuses())
}

// OwnedBy limits rows to those belonging to the given user.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// TextSearch matches a case-insensitive substring against title and
// description. Written with LOWER/LIKE so it behaves the same on Postgres
// and the sqlite dialector used in tests.
func TextSearch(term string) func(db *gorm.DB) *gorm.DB {
	pattern := "%" + term + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
}
