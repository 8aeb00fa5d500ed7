package session

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"kniffel/internal/storage"
)

// Options tune manager-owned wiring shared by all sessions.
type Options struct {
	Logger zerolog.Logger
	// TickInterval is the timer tick period; defaults to one second.
	// Tests shrink it to run timed scenarios quickly.
	TickInterval time.Duration
	// BotDelay is the pause before an AI seat makes its move.
	BotDelay time.Duration
	// Autoplayer plays AI seats; nil leaves AI seats idle.
	Autoplayer Autoplayer
	// DieRoll overrides the dice source; nil uses math/rand.
	DieRoll func() int
}

// Summary is the lobby view of a session.
type Summary struct {
	ID         string       `json:"id"`
	Mode       string       `json:"mode"`
	Status     Status       `json:"status"`
	Players    int          `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
	TimedMode  bool         `json:"timedMode"`
}

// Manager is the session registry: it owns the id -> session mapping,
// routes persistence, and restores state on startup. It holds no game
// logic of its own.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	store    *storage.Store
	log      zerolog.Logger
	opts     Options
}

// NewManager creates a session manager. store may be nil to run without
// persistence.
func NewManager(store *storage.Store, opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		log:      opts.Logger,
		opts:     opts,
	}
}

func (m *Manager) deps() deps {
	d := deps{
		log:          m.log,
		rollDie:      m.opts.DieRoll,
		tickInterval: m.opts.TickInterval,
		botDelay:     m.opts.BotDelay,
		autoplay:     m.opts.Autoplayer,
	}
	if m.store != nil {
		d.onSnapshot = m.saveSnapshot
	}
	return d
}

// Create validates the settings and registers a new waiting session with
// the creator in seat 0 and any requested AI seats after it.
func (m *Manager) Create(settings Settings, creatorID, creatorName string) (*Session, error) {
	if creatorID == "" {
		return nil, invalidSettings("creator id required")
	}
	if err := settings.validate(); err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s := newSession(id, settings, creatorID, creatorName, m.deps())
	if m.store != nil {
		if err := m.store.CreateSession(id, string(StatusWaiting), settings.IsPublic); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
		m.saveSnapshot(s.Snapshot())
	}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	m.log.Info().Str("session_id", id).Str("mode", string(settings.Mode)).Msg("session created")
	return s, nil
}

// Get returns a session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// ListPublic returns summaries of public sessions still accepting players.
func (m *Manager) ListPublic() []Summary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Summary
	for _, s := range m.sessions {
		s.mu.Lock()
		if s.settings.IsPublic && s.status == StatusWaiting {
			out = append(out, Summary{
				ID:         s.id,
				Mode:       string(s.settings.Mode),
				Status:     s.status,
				Players:    len(s.players),
				MaxPlayers: s.settings.MaxPlayers,
				TimedMode:  s.settings.TimedMode,
			})
		}
		s.mu.Unlock()
	}
	return out
}

func (m *Manager) saveSnapshot(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		m.log.Error().Err(err).Str("session_id", snap.ID).Msg("marshal snapshot")
		return
	}
	if err := m.store.UpdateSessionStatus(snap.ID, string(snap.Status)); err != nil {
		m.log.Error().Err(err).Str("session_id", snap.ID).Msg("update session status")
	}
	if err := m.store.SaveState(snap.ID, string(data)); err != nil {
		m.log.Error().Err(err).Str("session_id", snap.ID).Msg("save session state")
	}
}

// Restore loads unfinished sessions from the database on startup. Active
// timed sessions resume with a fresh full-length turn timer.
func (m *Manager) Restore() error {
	if m.store == nil {
		return nil
	}
	rows, err := m.store.ListSessions("")
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, row := range rows {
		if row.Status == string(StatusFinished) {
			continue
		}
		stateJSON, err := m.store.GetState(row.ID)
		if err != nil {
			m.log.Warn().Err(err).Str("session_id", row.ID).Msg("skipping session: no state")
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal([]byte(stateJSON), &snap); err != nil {
			m.log.Warn().Err(err).Str("session_id", row.ID).Msg("skipping session: bad state")
			continue
		}
		s := restoreSession(snap, m.deps())
		m.mu.Lock()
		m.sessions[row.ID] = s
		m.mu.Unlock()
		m.log.Info().Str("session_id", row.ID).Str("status", row.Status).Msg("session restored")
	}
	return nil
}

// Remove deletes a session from memory and storage.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	if m.store != nil {
		if err := m.store.DeleteSession(id); err != nil {
			m.log.Warn().Err(err).Str("session_id", id).Msg("delete session")
		}
	}
}

// CleanupLoop removes finished and abandoned sessions periodically.
func (m *Manager) CleanupLoop(interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		m.cleanup(maxAge)
	}
}

func (m *Manager) cleanup(maxAge time.Duration) {
	now := time.Now()
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		s.mu.Lock()
		finished := s.status == StatusFinished
		idle := len(s.subs) == 0
		old := now.Sub(s.createdAt) > maxAge
		s.mu.Unlock()
		if idle && (finished || old) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()
	for _, id := range stale {
		m.log.Info().Str("session_id", id).Msg("cleaning up session")
		m.Remove(id)
	}
}
