package app

import (
	"log/slog"
	"time"

	"github.com/foxafamily/community/internal/audit"
	"github.com/foxafamily/community/internal/auth"
	"github.com/foxafamily/community/internal/cache"
	"github.com/foxafamily/community/internal/domain"
	"github.com/foxafamily/community/internal/guard"
	"github.com/foxafamily/community/internal/handler"
	"github.com/foxafamily/community/internal/infra"
	"github.com/foxafamily/community/internal/repository"
	"github.com/foxafamily/community/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Producer *infra.KafkaProducer
	Logger   *slog.Logger

	CORSAllowedOrigins string
	CacheTTL           time.Duration
	LoginRateLimit     int
	LoginRateWindow    time.Duration
}

// Services bundles the wired service layer so cmd/api can reach the session
// sweeper without re-assembling everything.
type Services struct {
	Sessions *service.SessionService
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) (chi.Router, *Services) {
	pool := deps.Pool
	logger := deps.Logger

	if deps.LoginRateLimit <= 0 {
		deps.LoginRateLimit = 20
	}
	if deps.LoginRateWindow <= 0 {
		deps.LoginRateWindow = time.Minute
	}
	if deps.Producer == nil {
		deps.Producer = infra.NewKafkaProducer("", false, logger)
	}

	// Repositories
	userRepo := repository.NewUserRepository()
	sessionRepo := repository.NewSessionRepository()
	settingRepo := repository.NewSettingRepository()
	commandRepo := repository.NewCommandRepository()
	announcementRepo := repository.NewAnnouncementRepository()
	sectionRepo := repository.NewSectionRepository()
	skillRepo := repository.NewSkillRepository()
	activityRepo := repository.NewActivityLogRepository()

	// Infrastructure
	recorder := audit.NewRecorder(pool, activityRepo, deps.Producer, logger)
	settingsCache := cache.NewSettingsCache(deps.Redis, deps.CacheTTL, logger)
	lockout := guard.NewLockout(pool)
	loginLimiter := guard.NewRateLimiter(deps.LoginRateLimit, deps.LoginRateWindow)

	// Services
	settingsSvc := service.NewSettingsService(pool, settingRepo, settingsCache, recorder, logger)
	sessionSvc := service.NewSessionService(pool, userRepo, sessionRepo, skillRepo, settingsSvc, lockout, recorder, logger)
	usersSvc := service.NewUsersService(pool, userRepo, skillRepo, recorder, logger)
	contentSvc := service.NewContentService(pool, commandRepo, announcementRepo, sectionRepo, recorder, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(sessionSvc, usersSvc, loginLimiter)
	profileHandler := handler.NewProfileHandler(usersSvc)
	contentHandler := handler.NewContentHandler(contentSvc)
	adminHandler := handler.NewAdminHandler(usersSvc, contentSvc, settingsSvc, recorder)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORSWithOrigins(deps.CORSAllowedOrigins))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints (no auth)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Public content. The command list is trimmed by viewer rank, so a
		// presented token is honored but never required.
		r.With(auth.MaybeAuthenticate(sessionSvc)).Get("/commands", contentHandler.ListCommands)
		r.Get("/announcements", contentHandler.ListAnnouncements)
		r.Get("/sections", contentHandler.ListSections)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(sessionSvc))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/verify", authHandler.Verify)

			r.Get("/profile", profileHandler.Get)
			r.Patch("/profile", profileHandler.Update)

			r.Route("/admin", func(r chi.Router) {
				// Admin and up
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(domain.RoleAdmin))

					r.Get("/activity", adminHandler.ListActivity)
					r.Get("/users", adminHandler.ListUsers)
					r.Patch("/users/{id}", adminHandler.UpdateUser)
					r.Put("/users/{id}/skills", adminHandler.UpdateSkill)

					r.Post("/commands", adminHandler.CreateCommand)
					r.Patch("/commands/{id}", adminHandler.UpdateCommand)
					r.Delete("/commands/{id}", adminHandler.DeleteCommand)

					r.Post("/announcements", adminHandler.CreateAnnouncement)
					r.Delete("/announcements/{id}", adminHandler.DeleteAnnouncement)

					r.Put("/sections", adminHandler.UpsertSection)

					// Superadmin only
					r.Group(func(r chi.Router) {
						r.Use(auth.RequireRole(domain.RoleSuperadmin))
						r.Get("/settings", adminHandler.ListSettings)
						r.Put("/settings", adminHandler.UpdateSetting)
					})
				})
			})
		})
	})

	return r, &Services{Sessions: sessionSvc}
}
