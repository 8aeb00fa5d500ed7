package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"kniffel/internal/kniffel"
	"kniffel/internal/session"
)

// Config holds transport-level defaults.
type Config struct {
	// EliminateOnTimeout is applied when a create request leaves the
	// policy unset.
	EliminateOnTimeout bool
}

// Server is the HTTP and websocket surface over the session registry. It
// holds no game logic.
type Server struct {
	router  chi.Router
	manager *session.Manager
	cfg     Config
	log     zerolog.Logger
}

// New creates a server with all routes.
func New(manager *session.Manager, cfg Config, log zerolog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		manager: manager,
		cfg:     cfg,
		log:     log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	s.router.Post("/sessions", s.handleCreateSession)
	s.router.Get("/sessions", s.handleListSessions)
	s.router.Get("/sessions/{id}", s.handleGetSession)
	s.router.Get("/sessions/{id}/ws", s.handleWebSocket)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type createSessionRequest struct {
	Mode               string `json:"mode"`
	MaxPlayers         int    `json:"maxPlayers"`
	AIPlayers          int    `json:"aiPlayers"`
	IsPublic           *bool  `json:"isPublic"`
	TournamentMode     bool   `json:"tournamentMode"`
	JokerEnabled       bool   `json:"jokerEnabled"`
	TimedMode          bool   `json:"timedMode"`
	TurnTimeLimit      int    `json:"turnTimeLimitSeconds"`
	BlockCount         int    `json:"blockCount"`
	EliminateOnTimeout *bool  `json:"eliminateOnTimeout"`
	CreatorID          string `json:"creatorId"`
	CreatorName        string `json:"creatorName"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	settings := session.Settings{
		Mode:               kniffel.Mode(req.Mode),
		MaxPlayers:         req.MaxPlayers,
		AIPlayers:          req.AIPlayers,
		IsPublic:           req.IsPublic == nil || *req.IsPublic,
		TournamentMode:     req.TournamentMode,
		JokerEnabled:       req.JokerEnabled,
		TimedMode:          req.TimedMode,
		TurnTimeLimit:      req.TurnTimeLimit,
		BlockCount:         req.BlockCount,
		EliminateOnTimeout: s.cfg.EliminateOnTimeout,
	}
	if req.EliminateOnTimeout != nil {
		settings.EliminateOnTimeout = *req.EliminateOnTimeout
	}
	if settings.BlockCount == 0 {
		settings.BlockCount = 1
	}

	sess, err := s.manager.Create(settings, req.CreatorID, req.CreatorName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	summaries := s.manager.ListPublic()
	if summaries == nil {
		summaries = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, session.ErrSessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var serr *session.Error
	if errors.As(err, &serr) {
		status := http.StatusInternalServerError
		switch serr.Kind {
		case session.KindValidation:
			status = http.StatusBadRequest
		case session.KindConflict:
			status = http.StatusConflict
		case session.KindNotFound:
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": serr.Error(), "code": serr.Code})
		return
	}
	s.log.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
