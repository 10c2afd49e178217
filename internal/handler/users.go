package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName            string      `json:"fullName" validate:"required"`
		Email               string      `json:"email" validate:"required,email"`
		Role                domain.Role `json:"role" validate:"required,oneof=volunteer admin"`
		ChatID              string      `json:"chatID"`
		AllowLateSubmission bool        `json:"allowLateSubmission"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// a friendlier refusal than the constraint error below
	exists, err := h.repository.CheckEmailIfExists(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.errorResponse(w, r, "email already exists")
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Username:            utils.UsernameFromEmail(req.Email),
		PasswordHash:        string(passwordHash),
		FullName:            req.FullName,
		Email:               req.Email,
		Role:                req.Role,
		ChatID:              req.ChatID,
		AllowLateSubmission: req.AllowLateSubmission,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_username_key":
				h.errorResponse(w, r, "username already exists")
			case "users_email_key":
				h.errorResponse(w, r, "email already exists")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// send the generated credentials to the new volunteer
	msg := domain.NotificationMessage{
		Channel: domain.ChannelEmail,
		To:      user.Email,
		Payload: domain.NotificationPayload{
			Title: "Your volunteer account",
			Body:  fmt.Sprintf("Hello %s, your account is ready. Username: %s, temporary password: %s. Please change it after your first login.", user.FullName, user.Username, password),
		},
	}
	if err := h.publisher.Publish(r.Context(), msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "user created", user)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "all users", users)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)
	h.successResponse(w, r, "user information", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		Email               *string      `json:"email" validate:"omitempty,email"`
		Role                *domain.Role `json:"role" validate:"omitempty,oneof=volunteer admin"`
		ChatID              *string      `json:"chatID"`
		AllowLateSubmission *bool        `json:"allowLateSubmission"`
		IsActive            *bool        `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.ChatID != nil {
		user.ChatID = *req.ChatID
	}
	if req.AllowLateSubmission != nil {
		user.AllowLateSubmission = *req.AllowLateSubmission
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_email_key":
				h.errorResponse(w, r, "email already exists")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "the user was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "user updated", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "user deleted", nil)
}
