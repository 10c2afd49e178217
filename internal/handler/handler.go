package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/redis/go-redis/v9"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/config"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/coordinator"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/dispatch"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/domain"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	coordinator *coordinator.Coordinator
	translator  ut.Translator
	publisher   dispatch.Publisher
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, coord *coordinator.Coordinator, publisher dispatch.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		coordinator: coord,
		translator:  trans,
		publisher:   publisher,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in user
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/push-subscriptions", func(r chi.Router) {
				r.Post("/", h.RegisterPushSubscription)
				r.Delete("/", h.RemovePushSubscription)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/availability", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveVolunteer)
			r.Get("/window", h.GetSubmissionWindow)
			r.Route("/{month}", func(r chi.Router) {
				r.Post("/", h.SubmitAvailability)
				r.Get("/", h.GetMyAvailability)
			})
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/{month}/all", h.GetMonthSubmissions)
		})

		r.Route("/exchanges", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveVolunteer)
			r.Post("/", h.ProposeExchange)
			r.Get("/pending", h.ListMyPendingExchanges)
			r.Post("/{id}/respond", h.RespondToExchange)
		})

		r.Route("/schedules/{month}", func(r chi.Router) {
			r.Get("/", h.GetPublishedSchedule)
			r.With(h.myInfo).With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Put("/", h.PublishSchedule)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Get("/", h.ListActiveAnnouncements)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Get("/all", h.ListAllAnnouncements)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateAnnouncement)
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/{id}", h.DeleteAnnouncement)
		})

		r.Route("/settings/{key}", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/", h.GetSetting)
			r.Put("/", h.PutSetting)
		})
	})
}
