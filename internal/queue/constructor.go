package queue

import (
	"github.com/teampulse/api/internal/service"
)

type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{
		ps: ps,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	ScheduledPostID int64 `json:"scheduled_post_id"`
}
