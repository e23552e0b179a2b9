package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/julienschmidt/httprouter"
	qrcode "github.com/skip2/go-qrcode"

	"dixit/internal/domain"
)

// Response is a standard API response.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetRoomResponse is the response for getting room info.
type GetRoomResponse struct {
	RoomCode    string `json:"roomCode"`
	PlayerCount int    `json:"playerCount"`
	Phase       string `json:"phase"`
	CanJoin     bool   `json:"canJoin"`
}

// HealthResponse is the response for the health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for the stats endpoint.
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
	Connections  int `json:"connections"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &StatsResponse{
		ActiveRooms:  s.hub.SessionCount(),
		TotalPlayers: s.hub.PlayerCount(),
		Connections:  s.hub.ConnectionCount(),
	})
}

// handleGetRoom handles GET /api/rooms/:roomCode.
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	roomCode := strings.ToLower(p.ByName("roomCode"))

	session, err := s.hub.Session(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		}
		return
	}

	s.sendSuccess(w, &GetRoomResponse{
		RoomCode:    session.RoomID(),
		PlayerCount: session.PlayerCount(),
		Phase:       session.Phase().String(),
		CanJoin:     session.Phase() == domain.PhaseJoining,
	})
}

// handleRoomQR handles GET /api/rooms/:roomCode/qr, returning a PNG QR
// code of the join link.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	roomCode := strings.ToLower(p.ByName("roomCode"))

	if _, err := s.hub.Session(roomCode); err != nil {
		s.sendError(w, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		return
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	joinLink := scheme + "://" + r.Host + "/join/" + roomCode

	png, err := qrcode.Encode(joinLink, qrcode.Medium, 256)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "INTERNAL", "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleCardImage handles GET /cards/:file, serving card images from the
// configured directory.
func (s *Server) handleCardImage(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	file := p.ByName("file")

	// Only bare filenames; no traversal.
	if file != filepath.Base(file) || strings.HasPrefix(file, ".") {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(s.config.Game.CardsDir, file))
}

// sendSuccess sends a successful JSON response.
func (s *Server) sendSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response.
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
