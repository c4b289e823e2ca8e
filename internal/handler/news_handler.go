package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/middleware"
	"github.com/ratotecki/smartgridlab-api/internal/service"
	"github.com/ratotecki/smartgridlab-api/internal/utils"
)

// NewsHandler serves the public news feed and the admin CRUD surface.
type NewsHandler struct {
	service service.NewsService
	images  service.NewsImageService
	logger  zerolog.Logger
}

// NewNewsHandler constructs a news handler.
func NewNewsHandler(svc service.NewsService, images service.NewsImageService, logger zerolog.Logger) *NewsHandler {
	return &NewsHandler{
		service: svc,
		images:  images,
		logger:  logger.With().Str("component", "news_handler").Logger(),
	}
}

func (h *NewsHandler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list news")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load news")
	}

	if list.CacheHit {
		c.Set("X-Cache-Hit", "true")
	}

	return utils.SendOK(c, fiber.Map{"news": list.News})
}

func (h *NewsHandler) Get(c *fiber.Ctx) error {
	// An unparseable id cannot name a stored item, so it reads as absent
	// rather than as a malformed request.
	id, ok := parseUintParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusNotFound, "News not found")
	}

	news, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "News not found")
		}
		h.logger.Error().Err(err).Uint("news_id", id).Msg("failed to load news")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load news")
	}

	return utils.SendOK(c, fiber.Map{"news": news})
}

func (h *NewsHandler) Create(c *fiber.Ctx) error {
	var payload dto.NewsCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	news, err := h.service.Create(c.Context(), payload, middleware.RequestMeta(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "Title, date, summary and content are required", err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to create news")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create news")
	}

	return utils.SendCreated(c, fiber.Map{"success": true, "news": news})
}

func (h *NewsHandler) Update(c *fiber.Ctx) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid news id")
	}

	var payload dto.NewsUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	news, err := h.service.Update(c.Context(), id, payload, middleware.RequestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNewsNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "News not found")
		case isValidationError(err):
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid news fields", err.Error())
		default:
			h.logger.Error().Err(err).Uint("news_id", id).Msg("failed to update news")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update news")
		}
	}

	return utils.SendOK(c, fiber.Map{"success": true, "news": news})
}

func (h *NewsHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid news id")
	}

	if err := h.service.Delete(c.Context(), id, middleware.RequestMeta(c)); err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "News not found")
		}
		h.logger.Error().Err(err).Uint("news_id", id).Msg("failed to delete news")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete news")
	}

	return utils.SendOK(c, fiber.Map{"success": true})
}

func (h *NewsHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "image file is required")
	}

	url, err := h.images.Upload(c.Context(), file, middleware.RequestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrImageUploadsDisabled):
			return utils.SendError(c, fiber.StatusServiceUnavailable, "image uploads are not configured")
		case errors.Is(err, service.ErrImageTypeNotAllowed):
			return utils.SendError(c, fiber.StatusBadRequest, "only image files are allowed")
		case errors.Is(err, service.ErrImageTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "image exceeds maximum allowed size")
		case errors.Is(err, service.ErrImageRequired):
			return utils.SendError(c, fiber.StatusBadRequest, "image file is required")
		default:
			h.logger.Error().Err(err).Msg("failed to upload news image")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload image")
		}
	}

	return utils.SendCreated(c, fiber.Map{"success": true, "url": url})
}
