package session

import (
	"time"

	"kniffel/internal/kniffel"
)

// PlayerSnapshot is the serialized form of one seat.
type PlayerSnapshot struct {
	Index         int                   `json:"index"`
	ParticipantID string                `json:"participantId"`
	Name          string                `json:"name"`
	IsAI          bool                  `json:"isAI"`
	Eliminated    bool                  `json:"eliminated"`
	Blocks        []*kniffel.ScoreBlock `json:"blocks"`
	TotalScore    int                   `json:"totalScore"`
}

// Snapshot is the full serialized session state. It is both the outbound
// state event payload and the persistence format: a session restored from
// a snapshot resumes mid-game.
type Snapshot struct {
	ID                 string    `json:"id"`
	Settings           Settings  `json:"settings"`
	Status             Status    `json:"status"`
	CreatedBy          string    `json:"createdBy"`
	CreatedAt          time.Time `json:"createdAt"`
	Players            []PlayerSnapshot `json:"players"`
	CurrentPlayerIndex int       `json:"currentPlayerIndex"`
	CurrentRound       int       `json:"currentRound"`
	Turn               TurnRoll  `json:"turn"`
	Winners            []int     `json:"winners,omitempty"`
}

// Snapshot returns a deep copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	players := make([]PlayerSnapshot, len(s.players))
	for i, p := range s.players {
		blocks := make([]*kniffel.ScoreBlock, len(p.Blocks))
		for j, b := range p.Blocks {
			blocks[j] = b.Clone()
		}
		players[i] = PlayerSnapshot{
			Index:         p.Index,
			ParticipantID: p.ParticipantID,
			Name:          p.Name,
			IsAI:          p.IsAI,
			Eliminated:    p.Eliminated,
			Blocks:        blocks,
			TotalScore:    p.TotalScore(),
		}
	}
	return Snapshot{
		ID:                 s.id,
		Settings:           s.settings,
		Status:             s.status,
		CreatedBy:          s.createdBy,
		CreatedAt:          s.createdAt,
		Players:            players,
		CurrentPlayerIndex: s.current,
		CurrentRound:       s.round,
		Turn:               s.turn,
		Winners:            append([]int(nil), s.winners...),
	}
}

// restoreSession rebuilds a session from a persisted snapshot. Active
// timed sessions come back with a freshly armed full-length timer, and an
// AI seat on turn is rescheduled.
func restoreSession(snap Snapshot, d deps) *Session {
	s := newSession(snap.ID, snap.Settings, snap.CreatedBy, "", d)
	s.mu.Lock()
	s.createdAt = snap.CreatedAt
	s.status = snap.Status
	s.current = snap.CurrentPlayerIndex
	s.round = snap.CurrentRound
	s.turn = snap.Turn
	s.winners = append([]int(nil), snap.Winners...)
	s.players = make([]*Player, len(snap.Players))
	for i, ps := range snap.Players {
		blocks := make([]*kniffel.ScoreBlock, len(ps.Blocks))
		for j, b := range ps.Blocks {
			blocks[j] = b.Clone()
		}
		s.players[i] = &Player{
			Index:         ps.Index,
			ParticipantID: ps.ParticipantID,
			Name:          ps.Name,
			IsAI:          ps.IsAI,
			Eliminated:    ps.Eliminated,
			Blocks:        blocks,
		}
	}
	if s.status == StatusActive {
		if s.settings.TimedMode {
			s.armTimerLocked()
		}
		s.scheduleBotLocked()
	}
	s.mu.Unlock()
	return s
}
