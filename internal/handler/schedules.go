package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (h *Handler) PublishSchedule(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Entries json.RawMessage `json:"entries" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	schedule, err := h.coordinator.PublishSchedule(r.Context(), myInfo, month, req.Entries)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "schedule published", schedule)
}

func (h *Handler) GetPublishedSchedule(w http.ResponseWriter, r *http.Request) {
	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	schedule, err := h.repository.GetPublishedSchedule(month)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "no schedule published for this month yet", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "published schedule", schedule)
}
