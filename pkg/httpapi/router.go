package httpapi

import (
	"log/slog"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"go.uber.org/zap"

	"github.com/jakechorley/turnify/internal/config"
	"github.com/jakechorley/turnify/pkg/db"
)

// maxBodyBytes caps request bodies; a large roster is well under this
const maxBodyBytes = 4 << 20

// Deps are the collaborators of the HTTP API
type Deps struct {
	Store  db.Database
	Config *config.Config
	Logger *zap.Logger

	// RequestLogger logs every request when set
	RequestLogger *slog.Logger
}

type server struct {
	store  db.Database
	cfg    *config.Config
	logger *zap.Logger

	// writeMu serialises requests that change the roster or the plannings
	writeMu sync.Mutex
}

// NewRouter builds the API router
func NewRouter(deps Deps) *chi.Mux {
	s := &server{
		store:  deps.Store,
		cfg:    deps.Config,
		logger: deps.Logger,
	}

	r := chi.NewRouter()

	if len(deps.Config.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.Config.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Use(chiMiddleware.RequestID)
	if deps.RequestLogger != nil {
		r.Use(httplog.RequestLogger(deps.RequestLogger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/roster", func(r chi.Router) {
			r.Get("/", s.getRoster)
			r.Put("/", s.putRoster)
		})

		r.Route("/plannings", func(r chi.Router) {
			r.Post("/", s.generatePlanning)
			r.Delete("/", s.clearPlannings)
			r.Route("/latest", func(r chi.Router) {
				r.Get("/", s.getLatestPlanning)
				r.Get("/export", s.exportPlanning)
				r.Get("/matrix", s.getPlanningMatrix)
			})
		})

		r.Get("/metrics", s.getMetrics)
	})

	return r
}

// NewRequestLogger returns the slog logger used for request logs
func NewRequestLogger(env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "prod")
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "turnify"),
		slog.String("env", env),
	)
}
