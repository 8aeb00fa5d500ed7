package session

import "time"

// The turn timer lives inside the session so its expiry funnels through
// the same mutex as player commands. Arming bumps a generation counter; a
// goroutine from a previous arm notices the stale generation on its next
// tick and exits without touching state, which makes disarm race-free
// against an in-flight expiry.

func (s *Session) armTimerLocked() {
	s.timerGen++
	s.timerRemaining = s.settings.TurnTimeLimit
	go s.runTimer(s.timerGen)
}

func (s *Session) disarmTimerLocked() {
	s.timerGen++
}

func (s *Session) runTimer(gen uint64) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		if gen != s.timerGen || s.status != StatusActive {
			s.mu.Unlock()
			return
		}
		s.timerRemaining--
		remaining := s.timerRemaining
		s.emitLocked(Event{EventTimerTick, TimerTickPayload{Remaining: remaining}})
		if remaining > 0 {
			s.mu.Unlock()
			continue
		}
		s.expireLocked()
		s.unlockAndSave()
		return
	}
}

// expireLocked is the privileged timeout path: it cannot fail validation.
// The current player is eliminated (always in tournament mode, otherwise
// per the EliminateOnTimeout setting) or skipped, then the turn advances
// exactly as after a voluntary score submission.
func (s *Session) expireLocked() {
	p := s.players[s.current]
	if s.settings.TournamentMode || s.settings.EliminateOnTimeout {
		p.Eliminated = true
		s.emitLocked(Event{EventPlayerEliminated, PlayerEliminatedPayload{PlayerIndex: p.Index, Reason: "timeout"}})
		s.log.Info().Int("seat", p.Index).Msg("player eliminated on timeout")
	} else {
		s.log.Info().Int("seat", p.Index).Msg("turn skipped on timeout")
	}
	if s.remainingLocked() == 0 {
		s.turn = TurnRoll{}
		s.finishLocked()
		return
	}
	s.advanceTurnLocked()
}
