package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/models"
	"github.com/buscapatitas/backend/internal/status"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeletedPublicationTitle is rendered for reports whose publication has
// been removed; orphaned reports must never surface as broken references.
const DeletedPublicationTitle = "listing deleted"

// ModerationService is the administrative surface: reports, forced
// publication status, deletion, bans and the admin read aggregates. It is
// the only service with cross-entity side effects.
type ModerationService struct {
	db   *gorm.DB
	bans BanCache
}

func NewModerationService(db *gorm.DB, bans BanCache) *ModerationService {
	return &ModerationService{db: db, bans: bans}
}

// IsAdmin reports whether the user has a row in the admin_users side
// table. Absence means an ordinary user.
func (s *ModerationService) IsAdmin(userID uuid.UUID) (bool, error) {
	var admin models.AdminUser
	err := s.db.First(&admin, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admin table: %w", err)
	}
	return true, nil
}

// FileReport creates a report in pending status. Self-reporting is
// allowed; moderators dismiss the noise.
func (s *ModerationService) FileReport(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	reason := status.Reason(req.Reason)
	if !reason.Valid() {
		return nil, &ValidationError{Field: "reason", Message: "unknown report reason"}
	}

	var pub models.Publication
	if err := s.db.Select("id").First(&pub, "id = ?", req.PublicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load publication: %w", err)
	}

	report := models.Report{
		ID:            uuid.New(),
		PublicationID: req.PublicationID,
		ReporterID:    reporterID,
		Reason:        reason,
		Status:        status.ReportPending,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		report.Description = &d
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

// ListReports returns reports newest first with their publication titles
// stitched in. Orphaned reports get the deleted-listing placeholder.
func (s *ModerationService) ListReports(statusFilter string, page, limit int) ([]dto.ReportView, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 0 {
		page = 0
	}

	query := s.db.Model(&models.Report{})
	if statusFilter != "" {
		query = query.Where("status = ?", statusFilter)
	}

	var total int64
	query.Count(&total)

	var reports []models.Report
	if err := query.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reports: %w", err)
	}

	pubIDs := make([]uuid.UUID, 0, len(reports))
	for _, r := range reports {
		pubIDs = append(pubIDs, r.PublicationID)
	}

	titles := make(map[uuid.UUID]string, len(pubIDs))
	if len(pubIDs) > 0 {
		var pubs []models.Publication
		if err := s.db.Select("id", "title").Where("id IN ?", pubIDs).Find(&pubs).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to load reported publications: %w", err)
		}
		for _, p := range pubs {
			titles[p.ID] = p.Title
		}
	}

	views := make([]dto.ReportView, len(reports))
	for i, r := range reports {
		view := dto.ReportView{Report: r}
		if title, ok := titles[r.PublicationID]; ok {
			view.PublicationTitle = title
		} else {
			view.PublicationTitle = DeletedPublicationTitle
			view.PublicationDeleted = true
		}
		views[i] = view
	}
	return views, total, nil
}

// UpdateReportStatus sets a report's status. Deliberately no transition
// table here, in contrast to publication statuses: moderation is a human
// action and any valid status is reachable from any other.
func (s *ModerationService) UpdateReportStatus(reportID uuid.UUID, newStatus status.Report) error {
	if !newStatus.Valid() {
		return &ValidationError{Field: "status", Message: "unknown report status"}
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("status", newStatus)
	if result.Error != nil {
		return fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ForceStatus is the admin override: it bypasses the ownership check and
// the owner transition table. Unconditional for any valid target.
func (s *ModerationService) ForceStatus(publicationID, adminID uuid.UUID, target status.Publication) error {
	if !target.Valid() {
		return &ValidationError{Field: "status", Message: "must be active, resolved or inactive"}
	}

	result := s.db.Model(&models.Publication{}).
		Where("id = ?", publicationID).
		Update("status", target)
	if result.Error != nil {
		return fmt.Errorf("failed to force status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	slog.Info("publication status forced", "publication_id", publicationID, "status", target, "admin_id", adminID)
	return nil
}

// DeletePublication permanently removes the row. Reports referencing it
// become orphans by design; ListReports substitutes the placeholder.
func (s *ModerationService) DeletePublication(publicationID, adminID uuid.UUID) error {
	result := s.db.Delete(&models.Publication{}, "id = ?", publicationID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete publication: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	slog.Info("publication deleted", "publication_id", publicationID, "admin_id", adminID)
	return nil
}

// BanUser flags the profile and revokes every refresh token inside one
// transaction, then writes the cache marker so in-flight access tokens are
// rejected on their next request. The flag in the database is what the
// ban-gate falls back to, so the ban takes effect within one validation
// cycle even if the cache write fails.
func (s *ModerationService) BanUser(ctx context.Context, userID, adminID uuid.UUID, reason string) error {
	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Profile{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"banned":     true,
				"banned_at":  now,
				"banned_by":  adminID,
				"ban_reason": reason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", userID).
			Update("revoked", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to ban user: %w", err)
	}

	if err := s.bans.MarkBanned(ctx, userID, reason); err != nil {
		slog.Error("failed to write ban marker", "user_id", userID, "error", err)
	}

	slog.Info("user banned", "user_id", userID, "admin_id", adminID)
	return nil
}

// UnbanUser clears the flag and the cache marker. Revoked sessions are not
// restored; the user must authenticate again.
func (s *ModerationService) UnbanUser(ctx context.Context, userID, adminID uuid.UUID) error {
	result := s.db.Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"banned":     false,
			"banned_at":  nil,
			"banned_by":  nil,
			"ban_reason": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to unban user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	if err := s.bans.ClearBan(ctx, userID); err != nil {
		slog.Error("failed to clear ban marker", "user_id", userID, "error", err)
	}

	slog.Info("user unbanned", "user_id", userID, "admin_id", adminID)
	return nil
}

// GetUserStats aggregates a user's activity. Every count tolerates zero
// rows and comes back 0, never null.
func (s *ModerationService) GetUserStats(userID uuid.UUID) (*dto.UserStats, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	stats := &dto.UserStats{
		UserID:    profile.ID,
		FullName:  profile.FullName,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Banned:    profile.Banned,
		BannedAt:  profile.BannedAt,
		BanReason: profile.BanReason,
		CreatedAt: profile.CreatedAt,
	}

	s.db.Model(&models.Publication{}).Where("user_id = ?", userID).Count(&stats.PublicationsCount)
	s.db.Model(&models.Report{}).
		Where("publication_id IN (?)", s.db.Model(&models.Publication{}).Select("id").Where("user_id = ?", userID)).
		Count(&stats.ReportsReceivedCount)
	s.db.Model(&models.Report{}).Where("reporter_id = ?", userID).Count(&stats.ReportsMadeCount)

	return stats, nil
}

// GetPublicationDetails is the admin aggregate view: the publication, its
// owner's profile and how many reports it has drawn.
func (s *ModerationService) GetPublicationDetails(publicationID uuid.UUID) (*dto.PublicationDetails, error) {
	var pub models.Publication
	if err := s.db.First(&pub, "id = ?", publicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load publication: %w", err)
	}

	details := &dto.PublicationDetails{
		ID:          pub.ID,
		UserID:      pub.UserID,
		Title:       pub.Title,
		Description: pub.Description,
		PetType:     pub.PetType,
		Status:      string(pub.Status),
		CreatedAt:   pub.CreatedAt,
	}

	var owner models.Profile
	if err := s.db.First(&owner, "id = ?", pub.UserID).Error; err == nil {
		details.UserFullName = owner.FullName
		details.UserEmail = owner.Email
		details.UserPhone = owner.Phone
		details.UserBanned = owner.Banned
	}

	s.db.Model(&models.Report{}).Where("publication_id = ?", publicationID).Count(&details.ReportCount)

	return details, nil
}

// ListUsers pages over non-admin profiles for the management UI.
func (s *ModerationService) ListUsers(page, limit int, banned *bool, search string) ([]models.Profile, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 0 {
		page = 0
	}

	query := s.db.Model(&models.Profile{}).
		Where("id NOT IN (?)", s.db.Model(&models.AdminUser{}).Select("id"))
	if banned != nil {
		query = query.Where("banned = ?", *banned)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(full_name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var profiles []models.Profile
	if err := query.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&profiles).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return profiles, total, nil
}

// ListPublications pages over all publications with their owners' profile
// summaries for the management UI.
func (s *ModerationService) ListPublications(page, limit int, statusFilter, search string) ([]dto.AdminPublicationRow, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 0 {
		page = 0
	}

	query := s.db.Model(&models.Publication{})
	if statusFilter != "" && statusFilter != "all" {
		query = query.Where("status = ?", statusFilter)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var pubs []models.Publication
	if err := query.Order("created_at DESC").Offset(page * limit).Limit(limit).Find(&pubs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}

	ownerIDs := make([]uuid.UUID, 0, len(pubs))
	for _, p := range pubs {
		ownerIDs = append(ownerIDs, p.UserID)
	}
	owners := make(map[uuid.UUID]models.Profile, len(ownerIDs))
	if len(ownerIDs) > 0 {
		var profiles []models.Profile
		if err := s.db.Where("id IN ?", ownerIDs).Find(&profiles).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to load owner profiles: %w", err)
		}
		for _, p := range profiles {
			owners[p.ID] = p
		}
	}

	rows := make([]dto.AdminPublicationRow, len(pubs))
	for i, p := range pubs {
		row := dto.AdminPublicationRow{Publication: p}
		if owner, ok := owners[p.UserID]; ok {
			row.OwnerFullName = owner.FullName
			row.OwnerEmail = owner.Email
			row.OwnerBanned = owner.Banned
		}
		rows[i] = row
	}
	return rows, total, nil
}
