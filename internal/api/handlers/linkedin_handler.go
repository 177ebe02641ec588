package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/teampulse/api/configs"
	"github.com/teampulse/api/internal/service"
	"github.com/teampulse/api/pkg/utils"
)

// LinkedInHandler drives the one-time delegated authorization an admin
// performs so the sync can act on behalf of the organization page.
type LinkedInHandler struct {
	s   service.LinkedInService
	cfg config.Config
}

func NewLinkedInHandler(cfg config.Config, service service.LinkedInService) *LinkedInHandler {
	return &LinkedInHandler{s: service, cfg: cfg}
}

func (h *LinkedInHandler) Authorize(c *fiber.Ctx) error {
	state, err := utils.GenerateRandomKey(16)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "linkedin_oauth_state",
		Value:    state,
		HTTPOnly: true,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(h.s.AuthorizeURL(state))
}

func (h *LinkedInHandler) CallbackHandler(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies("linkedin_oauth_state") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid state",
		})
	}

	if err := h.s.Callback(c.Context(), c.Query("code")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "authorization failed",
		})
	}

	return c.Redirect(h.cfg.FrontendURL, fiber.StatusTemporaryRedirect)
}
