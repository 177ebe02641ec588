package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/teampulse/api/internal/service"
)

type SyncHandler struct {
	s service.SyncService
}

func NewSyncHandler(service service.SyncService) *SyncHandler {
	return &SyncHandler{s: service}
}

// TriggerSync runs one full synchronization and reports the structured
// result. The status code mirrors the outcome so operator tooling can tell
// "please authorize" apart from a failed run.
func (h *SyncHandler) TriggerSync(c *fiber.Ctx) error {
	result := h.s.RunSync(c.Context())

	status := fiber.StatusOK
	if result.NotConfigured {
		status = fiber.StatusPreconditionFailed
	} else if !result.Success {
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(result)
}

func (h *SyncHandler) GetSyncStatus(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	status, err := h.s.Status(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load sync status",
		})
	}

	return c.Status(fiber.StatusOK).JSON(status)
}
