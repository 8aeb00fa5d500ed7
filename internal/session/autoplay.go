package session

import (
	"time"

	"kniffel/internal/kniffel"
)

// AI seats are driven through the same serialized command methods as human
// players. A scheduled bot move validates its own staleness: if the turn
// was forced away before the move lands, the command fails with a conflict
// and the goroutine gives up.

func (s *Session) scheduleBotLocked() {
	if s.autoplay == nil || s.status != StatusActive {
		return
	}
	p := s.players[s.current]
	if !p.IsAI {
		return
	}
	pid := p.ParticipantID
	delay := s.botDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	time.AfterFunc(delay, func() { s.runBotTurn(pid) })
}

func (s *Session) runBotTurn(pid string) {
	for {
		s.mu.Lock()
		p := s.playerByIDLocked(pid)
		if p == nil || s.status != StatusActive || p.Index != s.current {
			s.mu.Unlock()
			return
		}
		roll := s.turn
		blocks := p.Blocks
		joker := s.settings.JokerEnabled
		s.mu.Unlock()

		if roll.RollNumber == 0 {
			if _, err := s.Roll(pid, [5]bool{}); err != nil {
				return
			}
			continue
		}

		if roll.RollNumber < maxRollsPerTurn {
			keep, again := s.autoplay.KeepMask(roll, blocks[0])
			if again {
				_, err := s.Roll(pid, keep)
				if err == nil {
					continue
				}
				if err != ErrInvalidKeepTransition {
					return
				}
				// The variant forbids this re-roll; score instead.
			}
		}

		cat, bi := s.autoplay.PickCategory(roll.Values, blocks, joker)
		if _, _, err := s.SubmitScore(pid, cat, bi); err != nil {
			s.submitFirstOpen(pid)
		}
		return
	}
}

// submitFirstOpen is the fallback when the strategy picked an illegal
// target; it dumps the roll into the first open slot so the turn cannot
// stall the session.
func (s *Session) submitFirstOpen(pid string) {
	s.mu.Lock()
	p := s.playerByIDLocked(pid)
	if p == nil || s.status != StatusActive || p.Index != s.current {
		s.mu.Unlock()
		return
	}
	type target struct {
		cat kniffel.Category
		bi  int
	}
	var open []target
	for bi, b := range p.Blocks {
		for _, cat := range kniffel.Categories() {
			if b.IsOpen(cat) {
				open = append(open, target{cat, bi})
			}
		}
	}
	s.mu.Unlock()
	for _, t := range open {
		if _, _, err := s.SubmitScore(pid, t.cat, t.bi); err == nil {
			return
		}
	}
}
