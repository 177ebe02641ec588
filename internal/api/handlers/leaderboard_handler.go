package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/teampulse/api/internal/service"
)

type LeaderboardHandler struct {
	s service.LeaderboardService
}

func NewLeaderboardHandler(service service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{s: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)

	entries, err := h.s.Leaderboard(c.Context(), days)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to load leaderboard",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"days":    days,
		"entries": entries,
	})
}

func (h *LeaderboardHandler) ListPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	posts, err := h.s.RecentPosts(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
