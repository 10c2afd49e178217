package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
)

func (h *Handler) ProposeExchange(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		TargetEmail string `json:"targetEmail" validate:"required,email"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		Shift       string `json:"shift" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request, err := h.coordinator.ProposeExchange(r.Context(), myInfo, req.TargetEmail, req.Date, req.Shift)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfExchange), errors.Is(err, domain.ErrDuplicatePending):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "no volunteer with this email")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "exchange request sent", request)
}

func (h *Handler) RespondToExchange(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	idParam := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "invalid exchange request ID")
		return
	}

	var req struct {
		Decision string `json:"decision" validate:"required,oneof=accept reject"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// only the addressed volunteer may answer
	request, err := h.repository.GetExchangeRequestByID(requestID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "exchange request not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if request.TargetEmail != myInfo.Email {
		h.errorResponse(w, r, "this exchange request is not addressed to you")
		return
	}

	resolved, err := h.coordinator.RespondToExchange(r.Context(), myInfo, requestID, req.Decision == "accept")
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyResolved):
			h.errorResponse(w, r, err.Error())
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "exchange request answered", resolved)
}

func (h *Handler) ListMyPendingExchanges(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	requests, err := h.repository.ListPendingByTarget(myInfo.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "pending exchange requests", requests)
}
