package wire

import (
	"context"
	"net/http"
	"time"

	"streaming-catalog/internal/adaptor"
	"streaming-catalog/internal/data/entity"
	"streaming-catalog/internal/data/repository"
	"streaming-catalog/internal/media"
	"streaming-catalog/internal/usecase"
	"streaming-catalog/pkg/database"
	"streaming-catalog/pkg/middleware"
	"streaming-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router *chi.Mux
}

// Dependencies are the infrastructure pieces built by main.
type Dependencies struct {
	Services    usecase.Dependencies
	Tokens      middleware.TokenValidator
	DB          database.PgxIface
	MediaRoot   string // empty when media is not served from disk
	MediaPrefix string
}

// Wiring builds services and handlers and mounts every route
func Wiring(repo *repository.Repository, deps Dependencies, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps.Services, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	router := setupRouter(handler, deps, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	deps Dependencies,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS))
	r.Use(middleware.Metrics)

	auth := middleware.Authenticate(deps.Tokens, logger)
	admin := middleware.RequireRole(logger, entity.RoleAdmin)

	// Apply routes
	wireAuth(r, handler.Auth, auth, config)
	wireUser(r, handler.User, auth, admin)
	wireContent(r, handler.Content, auth, admin)
	wireEpisode(r, handler.Episode, auth, admin)
	wireCatalog(r, handler, auth, admin)
	wireSubscription(r, handler.Subscription, auth, admin)
	wireRating(r, handler.Rating, auth)
	wireDiscover(r, handler.Discover)

	if deps.MediaRoot != "" {
		r.Handle(deps.MediaPrefix+"/*", media.StaticHandler(deps.MediaRoot, deps.MediaPrefix))
	}

	r.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := deps.DB.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			utils.ResponseUnavailable(w, "database unreachable")
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
