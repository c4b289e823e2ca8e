package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/ratotecki/smartgridlab-api/internal/dto"
	"github.com/ratotecki/smartgridlab-api/internal/service"
	"github.com/ratotecki/smartgridlab-api/internal/utils"
)

// ActivityHandler exposes the audit trail to the admin dashboard,
// both as a paginated listing and as a live websocket stream.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(svc service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: svc,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

func (h *ActivityHandler) List(c *fiber.Ctx) error {
	req := dto.ActivityListRequest{
		Page:       c.QueryInt("page", 1),
		PageSize:   c.QueryInt("page_size", 50),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if userID := c.QueryInt("user_id", 0); userID > 0 {
		req.UserID = uint(userID)
	}

	list, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list activity log")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load activity log")
	}

	return utils.SendOK(c, list)
}

// Upgrade gates the websocket handshake; non-upgrade requests are
// rejected before the connection handler runs.
func (h *ActivityHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Stream pushes freshly recorded activity entries to the dashboard as
// they are persisted. Entries recorded while the hand-off buffer is
// full are skipped for that subscriber.
func (h *ActivityHandler) Stream(conn *websocket.Conn) {
	entries, cancel := h.service.Subscribe()
	defer cancel()

	h.logger.Info().Msg("activity stream connected")
	defer h.logger.Info().Msg("activity stream disconnected")

	// Reader goroutine: its only job is to notice the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			if err := conn.WriteJSON(entry); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
