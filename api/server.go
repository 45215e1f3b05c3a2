package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rpupo63/game-catalog-backend/config"
	"github.com/rpupo63/game-catalog-backend/database"
	"github.com/rpupo63/game-catalog-backend/errs"
	"github.com/rpupo63/game-catalog-backend/services"
	"github.com/rpupo63/game-catalog-backend/storage"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Option customises the router built by NewServer.
type Option func(*router)

func WithImageStore(images storage.ImageStore) Option {
	return func(r *router) {
		r.deps.images = images
	}
}

// WithAccounts replaces the account service, e.g. to use a cheaper bcrypt cost.
func WithAccounts(accounts *services.Accounts) Option {
	return func(r *router) {
		r.deps.accounts = accounts
	}
}

func NewServer(c map[string]string, database database.Database, opts ...Option) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	opts = append([]Option{withConfig(c), withStartupTime(startupTime)}, opts...)
	router := newRouter(database, opts...)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
	}

	return Server{server, startupTime}, nil
}

type dependencies struct {
	images   storage.ImageStore
	accounts *services.Accounts
}

type router struct {
	config      map[string]string
	startupTime time.Time
	deps        dependencies
}

func withConfig(c map[string]string) Option {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, opts ...Option) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"*"}
	}
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   acceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	secret := config.GetString(router.config, "SESSION_SECRET", "")
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	sessions := newSessions(secret,
		time.Duration(config.GetInt(router.config, "SESSION_TTL_HOURS", 24))*time.Hour,
		config.GetBool(router.config, "SESSION_SECURE", false),
	)

	handlers := initializeHandlers(database, router.deps, sessions)
	authMiddleware := newAuthMiddleware(sessions)

	responder := NewResponder(log.With().Str("handlerName", "router").Logger())
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.NotFound("page"))
	})
	chiRouter.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responder.WriteError(w, errs.MethodNotAllowed(r.Method))
	})

	if local, ok := router.deps.images.(*storage.LocalStore); ok {
		chiRouter.Handle("/static/images/*", http.StripPrefix("/static/images/", http.FileServer(http.Dir(local.Dir()))))
	}
	chiRouter.Get("/health", healthCheck(database, router.startupTime, responder))

	setupRoutes(chiRouter, handlers, authMiddleware)

	return chiRouter
}

func healthCheck(database database.Database, startupTime time.Time, responder Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := database.Ping(r.Context()); err != nil {
			responder.WriteError(w, err)
			return
		}
		responder.WriteJSON(w, map[string]any{
			"status": "ok",
			"uptime": time.Since(startupTime).Round(time.Second).String(),
		})
	}
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
