package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"dixit/internal/app"
	"dixit/internal/config"
	"dixit/internal/transport/ws"
)

// Server is the HTTP surface: the WebSocket endpoint, a handful of thin
// JSON routes, and static card images.
type Server struct {
	server *http.Server
	hub    *app.Hub
	config *config.Config
	logger *slog.Logger
}

// NewServer wires the routes and returns an unstarted server.
func NewServer(cfg *config.Config, hub *app.Hub, logger *slog.Logger) *Server {
	s := &Server{
		hub:    hub,
		config: cfg,
		logger: logger,
	}

	router := httprouter.New()
	s.setupRoutes(router)

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.middleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/health", s.handleHealth)
	router.HandlerFunc(http.MethodGet, "/api/stats", s.handleStats)
	router.GET("/api/rooms/:roomCode", s.handleGetRoom)
	router.GET("/api/rooms/:roomCode/qr", s.handleRoomQR)
	router.GET("/cards/:file", s.handleCardImage)

	wsHandler := ws.NewHandler(s.hub, s.logger)
	router.Handler(http.MethodGet, "/ws", wsHandler)
}

// middleware adds CORS headers and request logging.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		if s.config.IsDevelopment() || !isCardRequest(r.URL.Path) {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration", time.Since(start),
			)
		}
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// isCardRequest checks if the request is for a static card image.
func isCardRequest(path string) bool {
	return len(path) > 7 && path[:7] == "/cards/"
}
