package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (h *Handler) GetSubmissionWindow(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	window := h.coordinator.SubmissionWindow(myInfo)
	h.successResponse(w, r, "submission window", window)
}

func (h *Handler) SubmitAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	var req struct {
		Dates      []string `json:"dates" validate:"dive,datetime=2006-01-02"`
		Overnights []string `json:"overnights" validate:"dive,datetime=2006-01-02"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// an empty selection never reaches the ledger
	if len(req.Dates) == 0 && len(req.Overnights) == 0 {
		h.errorResponse(w, r, "select at least one shift date")
		return
	}

	submission, err := h.coordinator.SubmitAvailability(r.Context(), myInfo, month, req.Dates, req.Overnights)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDeadlinePassed), errors.Is(err, domain.ErrEditLimitExceeded):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "availability submitted", submission)
}

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	submission, err := h.repository.GetAvailabilitySubmission(myInfo.ID, month)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "no availability submitted for this month yet", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "availability submission", submission)
}

func (h *Handler) GetMonthSubmissions(w http.ResponseWriter, r *http.Request) {
	month, ok := h.monthParam(w, r)
	if !ok {
		return
	}

	submissions, err := h.repository.GetAllSubmissionsByMonth(month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "availability submissions", submissions)
}

func (h *Handler) monthParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	month := chi.URLParam(r, "month")
	if _, err := time.Parse("2006-01", month); err != nil {
		h.errorResponse(w, r, "invalid month, expected YYYY-MM")
		return "", false
	}
	return month, true
}
