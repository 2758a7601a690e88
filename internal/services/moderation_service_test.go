package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/models"
	"github.com/buscapatitas/backend/internal/status"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func seedRefreshToken(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.RefreshToken {
	t.Helper()
	sum := sha256.Sum256([]byte(uuid.NewString()))
	token := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hex.EncodeToString(sum[:]),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("seed refresh token: %v", err)
	}
	return token
}

func TestIsAdmin(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	admin := seedUser(t, db, "admin")
	regular := seedUser(t, db, "regular")

	if err := db.Create(&models.AdminUser{ID: admin, Role: "moderator"}).Error; err != nil {
		t.Fatalf("seed admin row: %v", err)
	}

	got, err := svc.IsAdmin(admin)
	if err != nil || !got {
		t.Errorf("IsAdmin(admin) = %v, %v; want true", got, err)
	}
	got, err = svc.IsAdmin(regular)
	if err != nil || got {
		t.Errorf("IsAdmin(regular) = %v, %v; want false", got, err)
	}
}

func TestFileReport(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	pub := seedPublication(t, db, owner)

	report, err := svc.FileReport(reporter, &dto.CreateReportRequest{
		PublicationID: pub.ID,
		Reason:        "spam",
		Description:   "posted five times",
	})
	if err != nil {
		t.Fatalf("FileReport: %v", err)
	}
	if report.Status != status.ReportPending {
		t.Errorf("status = %s, want pending", report.Status)
	}
	if report.Description == nil || *report.Description != "posted five times" {
		t.Error("description was not stored")
	}

	_, err = svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: pub.ID, Reason: "harassment"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "reason" {
		t.Errorf("unknown reason error = %v, want ValidationError on reason", err)
	}

	_, err = svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: uuid.New(), Reason: "spam"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing publication error = %v, want ErrNotFound", err)
	}
}

func TestUpdateReportStatus(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	pub := seedPublication(t, db, owner)

	report, err := svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: pub.ID, Reason: "otro"})
	if err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	// Any valid status is reachable from any other, in either direction.
	for _, target := range []status.Report{status.ReportResolved, status.ReportPending, status.ReportDismissed, status.ReportReviewed} {
		if err := svc.UpdateReportStatus(report.ID, target); err != nil {
			t.Errorf("-> %s: %v", target, err)
		}
	}

	var verr *ValidationError
	if err := svc.UpdateReportStatus(report.ID, status.Report("closed")); !errors.As(err, &verr) {
		t.Errorf("invalid status error = %v, want ValidationError", err)
	}
	if err := svc.UpdateReportStatus(uuid.New(), status.ReportResolved); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing report error = %v, want ErrNotFound", err)
	}
}

func TestForceStatusBypassesOwnerRules(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	admin := seedUser(t, db, "admin")

	pub := seedPublication(t, db, owner, func(p *models.Publication) {
		p.Status = status.PublicationResolved
	})

	// resolved -> active is forbidden for owners but fine for admins.
	if err := svc.ForceStatus(pub.ID, admin, status.PublicationActive); err != nil {
		t.Fatalf("ForceStatus: %v", err)
	}

	var reloaded models.Publication
	if err := db.First(&reloaded, "id = ?", pub.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != status.PublicationActive {
		t.Errorf("status = %s, want active", reloaded.Status)
	}

	if err := svc.ForceStatus(uuid.New(), admin, status.PublicationActive); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing publication error = %v, want ErrNotFound", err)
	}
	var verr *ValidationError
	if err := svc.ForceStatus(pub.ID, admin, status.Publication("banned")); !errors.As(err, &verr) {
		t.Errorf("invalid status error = %v, want ValidationError", err)
	}
}

func TestDeletePublicationOrphansReports(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	admin := seedUser(t, db, "admin")

	pub := seedPublication(t, db, owner)
	if _, err := svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: pub.ID, Reason: "spam"}); err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	if err := svc.DeletePublication(pub.ID, admin); err != nil {
		t.Fatalf("DeletePublication: %v", err)
	}
	if err := svc.DeletePublication(pub.ID, admin); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}

	views, total, err := svc.ListReports("", 0, 20)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if total != 1 || len(views) != 1 {
		t.Fatalf("got %d reports (total %d), want 1", len(views), total)
	}
	if !views[0].PublicationDeleted {
		t.Error("orphaned report should be flagged as deleted")
	}
	if views[0].PublicationTitle != DeletedPublicationTitle {
		t.Errorf("title = %q, want placeholder", views[0].PublicationTitle)
	}
}

func TestListReportsStitchesTitles(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	pub := seedPublication(t, db, owner)

	if _, err := svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: pub.ID, Reason: "informacion_falsa"}); err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	views, _, err := svc.ListReports("pending", 0, 20)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d pending reports, want 1", len(views))
	}
	if views[0].PublicationTitle != pub.Title {
		t.Errorf("title = %q, want %q", views[0].PublicationTitle, pub.Title)
	}
	if views[0].PublicationDeleted {
		t.Error("live publication flagged as deleted")
	}

	views, _, err = svc.ListReports("resolved", 0, 20)
	if err != nil {
		t.Fatalf("ListReports resolved: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("got %d resolved reports, want 0", len(views))
	}
}

func TestBanAndUnbanUser(t *testing.T) {
	db := openTestDB(t)
	bans := newFakeBanCache()
	svc := NewModerationService(db, bans)
	admin := seedUser(t, db, "admin")
	target := seedUser(t, db, "target")
	token := seedRefreshToken(t, db, target)

	if err := svc.BanUser(context.Background(), target, admin, "spam"); err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	var profile models.Profile
	if err := db.First(&profile, "id = ?", target).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if !profile.Banned {
		t.Error("profile not flagged as banned")
	}
	if profile.BanReason == nil || *profile.BanReason != "spam" {
		t.Error("ban reason not stored")
	}
	if profile.BannedBy == nil || *profile.BannedBy != admin {
		t.Error("banning admin not recorded")
	}

	var reloadedToken models.RefreshToken
	if err := db.First(&reloadedToken, "id = ?", token.ID).Error; err != nil {
		t.Fatalf("reload token: %v", err)
	}
	if !reloadedToken.Revoked {
		t.Error("refresh token not revoked on ban")
	}

	if reason, found, _ := bans.BanReason(context.Background(), target); !found || reason != "spam" {
		t.Error("ban marker not written to cache")
	}

	if err := svc.UnbanUser(context.Background(), target, admin); err != nil {
		t.Fatalf("UnbanUser: %v", err)
	}
	// reload into a fresh struct: GORM leaves pointer fields stale when
	// scanning NULL into an already-populated destination
	var unbanned models.Profile
	if err := db.First(&unbanned, "id = ?", target).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if unbanned.Banned || unbanned.BanReason != nil || unbanned.BannedAt != nil {
		t.Error("ban fields not cleared")
	}
	if _, found, _ := bans.BanReason(context.Background(), target); found {
		t.Error("ban marker not cleared from cache")
	}

	if err := svc.BanUser(context.Background(), uuid.New(), admin, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ban unknown user error = %v, want ErrNotFound", err)
	}
	if err := svc.UnbanUser(context.Background(), uuid.New(), admin); !errors.Is(err, ErrNotFound) {
		t.Errorf("unban unknown user error = %v, want ErrNotFound", err)
	}
}

func TestGetUserStats(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")

	stats, err := svc.GetUserStats(owner)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.PublicationsCount != 0 || stats.ReportsReceivedCount != 0 || stats.ReportsMadeCount != 0 {
		t.Error("fresh user should have all-zero counts")
	}

	pub := seedPublication(t, db, owner)
	seedPublication(t, db, owner)
	if _, err := svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: pub.ID, Reason: "spam"}); err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	stats, err = svc.GetUserStats(owner)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.PublicationsCount != 2 {
		t.Errorf("publications = %d, want 2", stats.PublicationsCount)
	}
	if stats.ReportsReceivedCount != 1 {
		t.Errorf("reports received = %d, want 1", stats.ReportsReceivedCount)
	}

	stats, err = svc.GetUserStats(reporter)
	if err != nil {
		t.Fatalf("GetUserStats reporter: %v", err)
	}
	if stats.ReportsMadeCount != 1 {
		t.Errorf("reports made = %d, want 1", stats.ReportsMadeCount)
	}

	if _, err := svc.GetUserStats(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user error = %v, want ErrNotFound", err)
	}
}

func TestGetPublicationDetails(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	reporter := seedUser(t, db, "reporter")
	pub := seedPublication(t, db, owner)
	if _, err := svc.FileReport(reporter, &dto.CreateReportRequest{PublicationID: pub.ID, Reason: "spam"}); err != nil {
		t.Fatalf("FileReport: %v", err)
	}

	details, err := svc.GetPublicationDetails(pub.ID)
	if err != nil {
		t.Fatalf("GetPublicationDetails: %v", err)
	}
	if details.UserFullName != "owner" {
		t.Errorf("owner name = %q, want owner", details.UserFullName)
	}
	if details.ReportCount != 1 {
		t.Errorf("report count = %d, want 1", details.ReportCount)
	}

	if _, err := svc.GetPublicationDetails(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown publication error = %v, want ErrNotFound", err)
	}
}

func TestListUsersExcludesAdmins(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	admin := seedUser(t, db, "admin")
	seedUser(t, db, "maria")
	banned := seedUser(t, db, "banned-user")

	if err := db.Create(&models.AdminUser{ID: admin, Role: "moderator"}).Error; err != nil {
		t.Fatalf("seed admin row: %v", err)
	}
	if err := svc.BanUser(context.Background(), banned, admin, "abuse"); err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	profiles, total, err := svc.ListUsers(0, 20, nil, "")
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 non-admin users", total)
	}
	for _, p := range profiles {
		if p.ID == admin {
			t.Error("admin leaked into the user listing")
		}
	}

	isBanned := true
	profiles, total, err = svc.ListUsers(0, 20, &isBanned, "")
	if err != nil {
		t.Fatalf("ListUsers banned: %v", err)
	}
	if total != 1 || len(profiles) != 1 || profiles[0].ID != banned {
		t.Errorf("banned filter returned %d users (total %d)", len(profiles), total)
	}

	_, total, err = svc.ListUsers(0, 20, nil, "MARIA")
	if err != nil {
		t.Fatalf("ListUsers search: %v", err)
	}
	if total != 1 {
		t.Errorf("case-insensitive search total = %d, want 1", total)
	}
}

func TestListPublicationsWithOwners(t *testing.T) {
	db := openTestDB(t)
	svc := NewModerationService(db, newFakeBanCache())
	owner := seedUser(t, db, "owner")
	seedPublication(t, db, owner)
	seedPublication(t, db, owner, func(p *models.Publication) {
		p.Status = status.PublicationInactive
	})

	rows, total, err := svc.ListPublications(0, 20, "", "")
	if err != nil {
		t.Fatalf("ListPublications: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 (admins see every status)", total)
	}
	for _, row := range rows {
		if row.OwnerFullName != "owner" {
			t.Errorf("owner name = %q, want owner", row.OwnerFullName)
		}
	}

	_, total, err = svc.ListPublications(0, 20, "inactive", "")
	if err != nil {
		t.Fatalf("ListPublications inactive: %v", err)
	}
	if total != 1 {
		t.Errorf("inactive total = %d, want 1", total)
	}
}
