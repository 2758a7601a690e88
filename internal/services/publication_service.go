package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/models"
	"github.com/buscapatitas/backend/internal/status"
	"github.com/buscapatitas/backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DirectoryPageSize is the fixed public directory page size; the client
// appends pages ("load more") rather than replacing them.
const DirectoryPageSize = 12

// MaxImagesPerPublication is the default cap on the ordered image set,
// used when no limit is configured.
const MaxImagesPerPublication = 5

var (
	phonePattern = regexp.MustCompile(`^(\+\d{1,3}[\s-]?)?\d{10,14}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// PublicationFilters are the directory search parameters. Empty or "all"
// values match everything.
type PublicationFilters struct {
	Search          string
	PetType         string
	PetSize         string
	PublicationType string
	Location        string
}

// PublicationService owns publication creation, the public directory read
// path, image attachment and the owner-side status lifecycle.
type PublicationService struct {
	db        *gorm.DB
	images    ImageStore
	maxImages int
}

func NewPublicationService(db *gorm.DB, images ImageStore, maxImages int) *PublicationService {
	if maxImages <= 0 {
		maxImages = MaxImagesPerPublication
	}
	return &PublicationService{db: db, images: images, maxImages: maxImages}
}

func (s *PublicationService) Create(userID uuid.UUID, req *dto.CreatePublicationRequest) (*models.Publication, error) {
	eventDate, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	pub := &models.Publication{
		ID:              uuid.New(),
		UserID:          userID,
		PublicationType: status.PublicationType(req.PublicationType),
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		PetType:         req.PetType,
		Location:        strings.TrimSpace(req.Location),
		EventDate:       eventDate,
		Images:          datatypes.JSON([]byte("[]")),
		IsUrgent:        req.IsUrgent,
		Status:          status.PublicationActive,
	}
	setOptional(&pub.PetSize, req.PetSize)
	setOptional(&pub.PetColor, req.PetColor)
	setOptional(&pub.PetBreed, req.PetBreed)
	setOptional(&pub.ContactPhone, req.ContactPhone)
	setOptional(&pub.ContactEmail, req.ContactEmail)

	if err := s.db.Create(pub).Error; err != nil {
		return nil, fmt.Errorf("failed to create publication: %w", err)
	}
	return pub, nil
}

// validate runs every form check before any write; failures carry the
// offending field so the client renders them inline.
func (s *PublicationService) validate(req *dto.CreatePublicationRequest) (time.Time, error) {
	if !status.PublicationType(req.PublicationType).Valid() {
		return time.Time{}, &ValidationError{Field: "publication_type", Message: "must be found or lost"}
	}
	if strings.TrimSpace(req.Title) == "" {
		return time.Time{}, &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(req.Description) == "" {
		return time.Time{}, &ValidationError{Field: "description", Message: "description is required"}
	}
	if req.PetType == "" {
		return time.Time{}, &ValidationError{Field: "pet_type", Message: "pet type is required"}
	}
	if strings.TrimSpace(req.Location) == "" {
		return time.Time{}, &ValidationError{Field: "location", Message: "location is required"}
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "event_date", Message: "event date must be YYYY-MM-DD"}
	}

	phone := strings.TrimSpace(req.ContactPhone)
	email := strings.TrimSpace(req.ContactEmail)
	if phone == "" && email == "" {
		return time.Time{}, &ValidationError{Field: "contact", Message: "at least one contact method (phone or email) is required"}
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return time.Time{}, &ValidationError{Field: "contact_phone", Message: "phone must have 10-14 digits, optionally with a country code"}
	}
	if email != "" && !emailPattern.MatchString(email) {
		return time.Time{}, &ValidationError{Field: "contact_email", Message: "invalid email format"}
	}
	return eventDate, nil
}

// List is the public directory: active and resolved listings only, urgent
// first then newest, fixed page size.
func (s *PublicationService) List(f PublicationFilters, page int) ([]models.Publication, int64, error) {
	if page < 0 {
		page = 0
	}

	query := s.db.Model(&models.Publication{}).Scopes(store.PubliclyVisible)

	if f.PetType != "" && f.PetType != "all" {
		query = query.Where("pet_type = ?", f.PetType)
	}
	if f.PetSize != "" && f.PetSize != "all" {
		query = query.Where("pet_size = ?", f.PetSize)
	}
	if f.PublicationType != "" && f.PublicationType != "all" {
		query = query.Where("publication_type = ?", f.PublicationType)
	}
	if f.Location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+f.Location+"%")
	}
	if f.Search != "" {
		query = query.Scopes(store.TextSearch(f.Search))
	}

	var total int64
	query.Count(&total)

	var pubs []models.Publication
	err := query.Order("is_urgent DESC, created_at DESC").
		Offset(page * DirectoryPageSize).
		Limit(DirectoryPageSize).
		Find(&pubs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list publications: %w", err)
	}

	// The directory is an anonymous read path; contact details are shown
	// only while a listing is active, same rule as GetByID.
	for i := range pubs {
		if pubs[i].Status != status.PublicationActive {
			pubs[i].ContactPhone = nil
			pubs[i].ContactEmail = nil
		}
	}
	return pubs, total, nil
}

// GetByID returns one publication. Contact details are hidden once the
// listing leaves active status, unless the requester is the owner.
// requesterID is uuid.Nil for anonymous visitors.
func (s *PublicationService) GetByID(id, requesterID uuid.UUID) (*models.Publication, error) {
	var pub models.Publication
	if err := s.db.First(&pub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load publication: %w", err)
	}

	if pub.Status == status.PublicationInactive && requesterID != pub.UserID {
		return nil, ErrNotFound
	}
	if pub.Status != status.PublicationActive && requesterID != pub.UserID {
		pub.ContactPhone = nil
		pub.ContactEmail = nil
	}
	return &pub, nil
}

// ListMine returns all of the owner's publications regardless of status,
// newest first.
func (s *PublicationService) ListMine(userID uuid.UUID) ([]models.Publication, error) {
	var pubs []models.Publication
	err := s.db.Scopes(store.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&pubs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list own publications: %w", err)
	}
	return pubs, nil
}

// SetStatus applies an owner-requested status transition. Ownership is
// checked here, server-side, never trusted from the client. Re-issuing the
// current status is an idempotent no-op success.
func (s *PublicationService) SetStatus(id, requesterID uuid.UUID, target status.Publication) error {
	if !target.Valid() {
		return &ValidationError{Field: "status", Message: "must be active, resolved or inactive"}
	}

	var pub models.Publication
	if err := s.db.First(&pub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load publication: %w", err)
	}

	if pub.UserID != requesterID {
		return ErrUnauthorized
	}
	if pub.Status == target {
		return nil
	}
	if !pub.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}

	if err := s.db.Model(&pub).Update("status", target).Error; err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// ImageUpload is one file from the multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// AttachImages uploads files to object storage and patches the row with
// the accumulated public URLs. Individual upload failures are skipped and
// counted, not rolled back: a partial image set is a correctable state.
func (s *PublicationService) AttachImages(ctx context.Context, id, requesterID uuid.UUID, uploads []ImageUpload) (*models.Publication, int, error) {
	var pub models.Publication
	if err := s.db.First(&pub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, fmt.Errorf("failed to load publication: %w", err)
	}
	if pub.UserID != requesterID {
		return nil, 0, ErrUnauthorized
	}

	var urls []string
	if len(pub.Images) > 0 {
		if err := json.Unmarshal(pub.Images, &urls); err != nil {
			return nil, 0, fmt.Errorf("corrupt image list: %w", err)
		}
	}
	if len(urls)+len(uploads) > s.maxImages {
		return nil, 0, &ValidationError{
			Field:   "images",
			Message: fmt.Sprintf("a publication can have at most %d images", s.maxImages),
		}
	}

	failed := 0
	for i, up := range uploads {
		key := ImageKey(pub.ID, len(urls), up.Filename)
		url, err := s.images.Upload(ctx, key, up.ContentType, up.Body)
		if err != nil {
			slog.Error("image upload failed", "publication_id", pub.ID, "index", i, "error", err)
			failed++
			continue
		}
		urls = append(urls, url)
	}

	encoded, err := json.Marshal(urls)
	if err != nil {
		return nil, failed, fmt.Errorf("failed to encode image list: %w", err)
	}
	pub.Images = datatypes.JSON(encoded)
	if err := s.db.Model(&pub).Update("images", pub.Images).Error; err != nil {
		return nil, failed, fmt.Errorf("failed to save image list: %w", err)
	}
	return &pub, failed, nil
}

func setOptional(dst **string, val string) {
	if v := strings.TrimSpace(val); v != "" {
		*dst = &v
	}
}
