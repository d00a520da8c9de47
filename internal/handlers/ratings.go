package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eventcrew/eventcrew-api/internal/apperr"
	"github.com/eventcrew/eventcrew-api/internal/services/rating"
)

type RatingHandler struct {
	Ratings *rating.Service
}

func NewRatingHandler(ratings *rating.Service) *RatingHandler {
	return &RatingHandler{Ratings: ratings}
}

type SubmitRatingReq struct {
	JobRequestID string `json:"job_request_id"`
	Score        int    `json:"score"`
	Review       string `json:"review"`
}

func (h *RatingHandler) Submit(c *fiber.Ctx) error {
	uid, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req SubmitRatingReq
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, apperr.Validation("invalid body"))
	}

	jobRequestID, err := uuid.Parse(req.JobRequestID)
	if err != nil {
		return apperr.Write(c, apperr.Validation("invalid job_request_id"))
	}

	r, err := h.Ratings.Submit(c.Context(), uid, rating.SubmitInput{
		JobRequestID: jobRequestID,
		Score:        req.Score,
		Review:       req.Review,
	})
	if err != nil {
		return apperr.Write(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": r})
}

func (h *RatingHandler) List(c *fiber.Ctx) error {
	workerID, err := queryUUID(c, "worker_id")
	if err != nil {
		return apperr.Write(c, err)
	}
	organizerID, err := queryUUID(c, "organizer_id")
	if err != nil {
		return apperr.Write(c, err)
	}

	ratings, err := h.Ratings.List(c.Context(), rating.ListFilter{
		WorkerID:    workerID,
		OrganizerID: organizerID,
	})
	if err != nil {
		return apperr.Write(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": ratings})
}
