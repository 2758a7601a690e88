package handlers

import (
	"strconv"

	"github.com/buscapatitas/backend/internal/dto"
	"github.com/buscapatitas/backend/internal/middleware"
	"github.com/buscapatitas/backend/internal/services"
	"github.com/buscapatitas/backend/internal/status"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PublicationHandler struct {
	publications *services.PublicationService
}

func NewPublicationHandler(publications *services.PublicationService) *PublicationHandler {
	return &PublicationHandler{publications: publications}
}

// List serves the public directory with search filters and fixed-size
// pages; total lets the client decide whether to show "load more".
func (h *PublicationHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	filters := services.PublicationFilters{
		Search:          c.Query("search"),
		PetType:         c.Query("pet_type"),
		PetSize:         c.Query("pet_size"),
		PublicationType: c.Query("publication_type"),
		Location:        c.Query("location"),
	}

	pubs, total, err := h.publications.List(filters, page)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"publications": pubs,
		"total":        total,
		"page":         page,
		"limit":        services.DirectoryPageSize,
	})
}

func (h *PublicationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	pub, err := h.publications.GetByID(id, middleware.OptionalUserID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(pub)
}

func (h *PublicationHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreatePublicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	pub, err := h.publications.Create(userID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(pub)
}

// AttachImages accepts a multipart form with an "images" field and patches
// the listing with the uploaded URLs. Per-file failures are reported in
// failed_uploads; the request still succeeds because a partial image set
// is correctable by re-submitting.
func (h *PublicationHandler) AttachImages(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid multipart form",
		})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "No images provided", Field: "images",
		})
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	opened := make([]interface{ Close() error }, 0, len(files))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to read uploaded file", Field: "images",
			})
		}
		opened = append(opened, file)
		uploads = append(uploads, services.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Body:        file,
		})
	}

	pub, failed, err := h.publications.AttachImages(c.Context(), id, userID, uploads)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"publication":    pub,
		"failed_uploads": failed,
	})
}

func (h *PublicationHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	pubs, err := h.publications.ListMine(userID)
	if err != nil {
		return serviceError(c, err)
	}

	counts := map[string]int{}
	for _, p := range pubs {
		counts[string(p.Status)]++
	}

	return c.JSON(fiber.Map{
		"publications": pubs,
		"counts":       counts,
	})
}

func (h *PublicationHandler) SetStatus(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid publication ID",
		})
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.publications.SetStatus(id, userID, status.Publication(req.Status)); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Status updated successfully"})
}
