package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/buscapatitas/backend/internal/models"
	"github.com/buscapatitas/backend/internal/status"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.AdminUser{},
		&models.Publication{},
		&models.Report{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type fakeBanCache struct {
	marks map[uuid.UUID]string
}

func newFakeBanCache() *fakeBanCache {
	return &fakeBanCache{marks: make(map[uuid.UUID]string)}
}

func (f *fakeBanCache) MarkBanned(_ context.Context, userID uuid.UUID, reason string) error {
	f.marks[userID] = reason
	return nil
}

func (f *fakeBanCache) ClearBan(_ context.Context, userID uuid.UUID) error {
	delete(f.marks, userID)
	return nil
}

func (f *fakeBanCache) BanReason(_ context.Context, userID uuid.UUID) (string, bool, error) {
	reason, ok := f.marks[userID]
	return reason, ok, nil
}

// fakeImageStore records uploads and can be told to fail specific files.
type fakeImageStore struct {
	uploaded []string
	failOn   map[string]bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{failOn: make(map[string]bool)}
}

func (f *fakeImageStore) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if f.failOn[key] {
		return "", errors.New("upload rejected")
	}
	f.uploaded = append(f.uploaded, key)
	return f.PublicURL(key), nil
}

func (f *fakeImageStore) PublicURL(key string) string {
	return "https://images.test/" + key
}

func seedUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	user := models.User{ID: id, Email: name + "@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	profile := models.Profile{ID: id, FullName: name, Email: user.Email}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return id
}

func seedPublication(t *testing.T, db *gorm.DB, owner uuid.UUID, mutate ...func(*models.Publication)) *models.Publication {
	t.Helper()
	email := "owner@example.com"
	pub := &models.Publication{
		ID:              uuid.New(),
		UserID:          owner,
		PublicationType: status.TypeFound,
		Title:           fmt.Sprintf("Found pet %s", uuid.NewString()[:8]),
		Description:     "Friendly, no collar",
		PetType:         "perro",
		Location:        "Parque Centenario",
		EventDate:       time.Now().AddDate(0, 0, -1),
		Images:          datatypes.JSON([]byte("[]")),
		ContactEmail:    &email,
		Status:          status.PublicationActive,
	}
	for _, m := range mutate {
		m(pub)
	}
	if err := db.Create(pub).Error; err != nil {
		t.Fatalf("seed publication: %v", err)
	}
	return pub
}
