package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/teampulse/api/internal/queue"
	"github.com/teampulse/api/internal/service"
	"github.com/teampulse/api/internal/transfer"
)

type PostHandler struct {
	s           service.PublishService
	AsynqClient *asynq.Client
}

func NewPostHandler(service service.PublishService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{s: service, AsynqClient: asynqClient}
}

func (h *PostHandler) CreatePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	commentary := c.FormValue("commentary")
	scheduledTime := c.FormValue("scheduled_time")

	file, err := c.FormFile("file")
	if err != nil {
		file = nil // media is optional
	}

	postID, delay, err := h.s.CreatePost(c.Context(), userID, &transfer.PostCreation{
		Commentary:    commentary,
		ScheduledTime: scheduledTime,
	}, file)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	err = queue.EnqueuePublish(h.AsynqClient, queue.PublishPostPayload{ScheduledPostID: postID}, delay)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
	})
}

func (h *PostHandler) ListScheduled(c *fiber.Ctx) error {
	userID := GetUserID(c)

	posts, err := h.s.List(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list scheduled posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}
