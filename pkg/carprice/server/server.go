package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/nekruzvatanshoev/carprice/pkg/apperrors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/form"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/session"
	"github.com/nekruzvatanshoev/carprice/pkg/logger"
	"github.com/nekruzvatanshoev/carprice/pkg/metrics"
)

const sessionCookie = "carprice_session"

// HealthChecker reports whether the prediction service is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the collaborators of the HTTP server. Health may be nil.
type Deps struct {
	Schema     form.Schema
	Predictor  predict.Predictor
	Health     HealthChecker
	Log        *slog.Logger
	SessionTTL time.Duration
}

// Server is the form host together with its session store
type Server struct {
	*http.Server
	Sessions *Store
}

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(addr string, deps Deps) *Server {
	h := newHTTPServer(deps)
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           h.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		Sessions: h.sessions,
	}
}

type httpServer struct {
	log      *slog.Logger
	errs     *apperrors.Handler
	health   HealthChecker
	sessions *Store
}

func newHTTPServer(deps Deps) *httpServer {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http"))
	errs := apperrors.NewHandler(log)

	newSession := func() *session.Session {
		return session.New(session.Options{
			Schema:    deps.Schema,
			Predictor: deps.Predictor,
			Errors:    errs,
			Log:       log,
		})
	}

	return &httpServer{
		log:      log,
		errs:     errs,
		health:   deps.Health,
		sessions: NewStore(deps.SessionTTL, newSession, log),
	}
}

func (h *httpServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(logger.Middleware, h.requestLogging)

	r.HandleFunc("/", h.GetPage).Methods(http.MethodGet)
	r.HandleFunc("/", h.PostPage).Methods(http.MethodPost)

	api := r.PathPrefix("/api/v1/form").Subrouter()
	api.HandleFunc("", h.GetForm).Methods(http.MethodGet)
	api.HandleFunc("/fields/{name}", h.PutField).Methods(http.MethodPut)
	api.HandleFunc("/submit", h.Submit).Methods(http.MethodPost)
	api.HandleFunc("/reset", h.Reset).Methods(http.MethodPost)

	r.HandleFunc("/healthz", h.Liveness).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Readiness).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return r
}
