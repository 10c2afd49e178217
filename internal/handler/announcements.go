package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string    `json:"title" validate:"required"`
		Content   string    `json:"content" validate:"required"`
		StartDate time.Time `json:"startDate" validate:"required"`
		EndDate   time.Time `json:"endDate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.EndDate.Before(req.StartDate) {
		h.errorResponse(w, r, "the end date must not be before the start date")
		return
	}

	announcement := &domain.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := h.coordinator.PublishAnnouncement(r.Context(), announcement); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "announcement created", announcement)
}

func (h *Handler) ListActiveAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.repository.GetActiveAnnouncements(time.Now())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "active announcements", announcements)
}

func (h *Handler) ListAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcements, err := h.repository.GetAllAnnouncements()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "all announcements", announcements)
}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid announcement ID")
		return
	}

	if err := h.repository.DeleteAnnouncement(id); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "announcement deleted", nil)
}
