package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/moviereel/ratings-pipeline/internal/service"
	"github.com/moviereel/ratings-pipeline/pkg/logger"
)

// SubmitRatingRequest mirrors the public submission contract. The required
// tag rejects missing, empty, and zero values, so a rating of 0 is refused
// the same way a missing one is.
type SubmitRatingRequest struct {
	Email   string  `json:"email" validate:"required"`
	MovieID string  `json:"movieId" validate:"required"`
	Rating  float64 `json:"rating" validate:"required"`
	Comment string  `json:"comment"`
}

// BrokerStatus reports whether a live broker channel exists. Implemented by
// broker.Manager.
type BrokerStatus interface {
	IsReady() bool
}

type Handler struct {
	ratingSvc service.RatingService
	broker    BrokerStatus
	l         logger.Logger
	validator *validator.Validate
}

func NewHandler(ratingSvc service.RatingService, broker BrokerStatus, l logger.Logger) *Handler {
	return &Handler{
		ratingSvc: ratingSvc,
		broker:    broker,
		l:         l,
		validator: validator.New(),
	}
}

// SubmitRating handles POST /ratings. A 201 means the rating was durably
// enqueued for processing, not that it was persisted.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	_, err := h.ratingSvc.SubmitRating(r.Context(), service.SubmitRatingInput{
		Email:   req.Email,
		MovieID: req.MovieID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBrokerUnavailable):
			h.respondError(w, http.StatusServiceUnavailable, "Service unavailable (queue not connected)")
		default:
			h.l.Errorf(r.Context(), "delivery.http.Handler.SubmitRating: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Rating received and processing",
	})
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !h.broker.IsReady() {
		h.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"broker": "disconnected",
		})
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"broker": "connected",
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.l.Errorf(context.Background(), "delivery.http.Handler.respondJSON: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, map[string]string{"error": message})
}
