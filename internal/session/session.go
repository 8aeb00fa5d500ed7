package session

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"kniffel/internal/kniffel"
)

// Status represents the session lifecycle. Transitions only ever move
// forward: waiting -> active -> finished.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

const maxRollsPerTurn = 3

// Settings are the immutable per-session options chosen at creation.
type Settings struct {
	Mode           kniffel.Mode `json:"mode"`
	MaxPlayers     int          `json:"maxPlayers"`
	AIPlayers      int          `json:"aiPlayers"`
	IsPublic       bool         `json:"isPublic"`
	TournamentMode bool         `json:"tournamentMode"`
	JokerEnabled   bool         `json:"jokerEnabled"`
	TimedMode      bool         `json:"timedMode"`
	// TurnTimeLimit is the per-turn limit in seconds; required when
	// TimedMode is set. Only 60 and 120 are accepted.
	TurnTimeLimit int `json:"turnTimeLimitSeconds,omitempty"`
	// BlockCount is the number of scorecards per player. Forced to 1
	// outside multi-block mode.
	BlockCount int `json:"blockCount"`
	// EliminateOnTimeout controls whether a timed-out player in a
	// non-tournament game is eliminated or merely skipped. Tournament
	// sessions always eliminate.
	EliminateOnTimeout bool `json:"eliminateOnTimeout"`
}

func (st *Settings) validate() error {
	if _, err := kniffel.ParseMode(string(st.Mode)); err != nil {
		return invalidSettings(err.Error())
	}
	if st.MaxPlayers < 2 || st.MaxPlayers > 10 {
		return invalidSettings("maxPlayers must be between 2 and 10")
	}
	if st.AIPlayers < 0 || st.AIPlayers >= st.MaxPlayers {
		return invalidSettings("aiPlayers must leave room for the creator")
	}
	if st.TimedMode && st.TurnTimeLimit != 60 && st.TurnTimeLimit != 120 {
		return invalidSettings("timed mode requires a turn time limit of 60 or 120 seconds")
	}
	if st.Mode == kniffel.ModeMultiBlock {
		if st.BlockCount < 1 || st.BlockCount > 10 {
			return invalidSettings("blockCount must be between 1 and 10")
		}
	} else {
		st.BlockCount = 1
	}
	return nil
}

// Player is one seat in a session. Seats are never removed once the game
// has started; elimination is one-way.
type Player struct {
	Index         int                   `json:"index"`
	ParticipantID string                `json:"participantId"`
	Name          string                `json:"name"`
	IsAI          bool                  `json:"isAI"`
	Eliminated    bool                  `json:"eliminated"`
	Blocks        []*kniffel.ScoreBlock `json:"blocks"`
}

// TotalScore sums the grand totals of all the player's blocks.
func (p *Player) TotalScore() int {
	total := 0
	for _, b := range p.Blocks {
		total += b.Total()
	}
	return total
}

// TurnRoll is the ephemeral dice state of the active player's turn.
type TurnRoll struct {
	RollNumber int     `json:"rollNumber"`
	Values     [5]int  `json:"values"`
	Kept       [5]bool `json:"kept"`
}

// Autoplayer decides turns for AI seats.
type Autoplayer interface {
	// KeepMask returns the dice to keep for a re-roll and whether to
	// roll again at all.
	KeepMask(roll TurnRoll, block *kniffel.ScoreBlock) (keep [5]bool, rollAgain bool)
	// PickCategory chooses where to score the final roll.
	PickCategory(dice [5]int, blocks []*kniffel.ScoreBlock, jokerEnabled bool) (kniffel.Category, int)
}

// Session is the authoritative state machine for one game. Every command
// and every timer event is serialized on the session mutex; a rejected
// command leaves the state untouched.
type Session struct {
	mu sync.Mutex

	id        string
	settings  Settings
	status    Status
	createdBy string
	createdAt time.Time

	players []*Player
	current int
	round   int
	turn    TurnRoll
	winners []int

	subs map[string]chan Event

	timerGen       uint64
	timerRemaining int

	log          zerolog.Logger
	rollDie      func() int
	tickInterval time.Duration
	botDelay     time.Duration
	autoplay     Autoplayer
	onSnapshot   func(Snapshot)
}

type deps struct {
	log          zerolog.Logger
	rollDie      func() int
	tickInterval time.Duration
	botDelay     time.Duration
	autoplay     Autoplayer
	onSnapshot   func(Snapshot)
}

func defaultDie() int { return rand.IntN(6) + 1 }

func newSession(id string, settings Settings, creatorID, creatorName string, d deps) *Session {
	s := &Session{
		id:           id,
		settings:     settings,
		status:       StatusWaiting,
		createdBy:    creatorID,
		createdAt:    time.Now(),
		subs:         make(map[string]chan Event),
		log:          d.log.With().Str("session_id", id).Logger(),
		rollDie:      d.rollDie,
		tickInterval: d.tickInterval,
		botDelay:     d.botDelay,
		autoplay:     d.autoplay,
		onSnapshot:   d.onSnapshot,
	}
	if s.rollDie == nil {
		s.rollDie = defaultDie
	}
	if s.tickInterval <= 0 {
		s.tickInterval = time.Second
	}
	s.seatLocked(creatorID, creatorName, false)
	for i := 0; i < settings.AIPlayers; i++ {
		s.seatLocked(fmt.Sprintf("ai-seat-%d", i+1), fmt.Sprintf("AI Player %d", i+1), true)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Settings returns the session settings.
func (s *Session) Settings() Settings { return s.settings }

func (s *Session) seatLocked(participantID, name string, isAI bool) *Player {
	blocks := make([]*kniffel.ScoreBlock, s.settings.BlockCount)
	for i := range blocks {
		blocks[i] = kniffel.NewScoreBlock()
	}
	p := &Player{
		Index:         len(s.players),
		ParticipantID: participantID,
		Name:          name,
		IsAI:          isAI,
		Blocks:        blocks,
	}
	s.players = append(s.players, p)
	return p
}

func (s *Session) playerByIDLocked(participantID string) *Player {
	for _, p := range s.players {
		if p.ParticipantID == participantID {
			return p
		}
	}
	return nil
}

// Join seats a new participant. Only legal while the session is waiting.
func (s *Session) Join(participantID, name string) error {
	s.mu.Lock()
	if s.status != StatusWaiting {
		s.mu.Unlock()
		return ErrNotWaiting
	}
	if len(s.players) >= s.settings.MaxPlayers {
		s.mu.Unlock()
		return ErrSessionFull
	}
	if s.playerByIDLocked(participantID) != nil {
		s.mu.Unlock()
		return ErrAlreadyJoined
	}
	p := s.seatLocked(participantID, name, false)
	s.emitLocked(Event{EventPlayerJoined, PlayerEventPayload{p.Index, p.Name, false}})
	s.log.Info().Str("participant_id", participantID).Int("seat", p.Index).Msg("player joined")
	s.unlockAndSave()
	return nil
}

// Start transitions waiting -> active. Only the creator may start, and at
// least two seats must be filled.
func (s *Session) Start(requesterID string) error {
	s.mu.Lock()
	if s.status != StatusWaiting {
		s.mu.Unlock()
		return ErrNotWaiting
	}
	if requesterID != s.createdBy {
		s.mu.Unlock()
		return ErrUnauthorized
	}
	if len(s.players) < 2 {
		s.mu.Unlock()
		return ErrNotEnoughPlayers
	}

	s.status = StatusActive
	s.round = 1
	s.current = 0
	s.turn = TurnRoll{}

	limit := 0
	if s.settings.TimedMode {
		limit = s.settings.TurnTimeLimit
	}
	s.emitLocked(Event{EventSessionStarted, SessionStartedPayload{FirstPlayer: 0, TimeLimit: limit}})
	s.emitLocked(Event{EventTurnStarted, TurnStartedPayload{PlayerIndex: 0, Round: 1, TimeLimit: limit}})
	if s.settings.TimedMode {
		s.armTimerLocked()
	}
	s.scheduleBotLocked()
	s.log.Info().Int("players", len(s.players)).Msg("session started")
	s.unlockAndSave()
	return nil
}

// Roll rolls every die not covered by the kept mask. The first roll of a
// turn always rolls all five dice.
func (s *Session) Roll(participantID string, kept [5]bool) (TurnRoll, error) {
	s.mu.Lock()
	p := s.playerByIDLocked(participantID)
	if p == nil {
		s.mu.Unlock()
		return TurnRoll{}, ErrPlayerNotFound
	}
	if s.status != StatusActive {
		s.mu.Unlock()
		return TurnRoll{}, ErrNotActive
	}
	if p.Index != s.current || p.Eliminated {
		s.mu.Unlock()
		return TurnRoll{}, ErrNotYourTurn
	}
	if s.turn.RollNumber >= maxRollsPerTurn {
		s.mu.Unlock()
		return TurnRoll{}, ErrMaxRollsReached
	}
	if s.turn.RollNumber == 0 {
		kept = [5]bool{}
	} else if !kniffel.ValidateKeep(s.settings.Mode, s.turn.Kept, kept) {
		s.mu.Unlock()
		return TurnRoll{}, ErrInvalidKeepTransition
	}

	for i := range kept {
		if !kept[i] {
			s.turn.Values[i] = s.rollDie()
		}
	}
	s.turn.Kept = kept
	s.turn.RollNumber++
	roll := s.turn

	s.emitLocked(Event{EventDiceRolled, DiceRolledPayload{PlayerIndex: p.Index, Roll: roll}})
	s.log.Debug().Int("seat", p.Index).Int("roll", roll.RollNumber).Ints("dice", roll.Values[:]).Msg("dice rolled")
	s.unlockAndSave()
	return roll, nil
}

// SubmitScore writes the current roll into a category and advances the
// turn. Returns the score credited and the player's new total.
func (s *Session) SubmitScore(participantID string, cat kniffel.Category, blockIndex int) (score, newTotal int, err error) {
	s.mu.Lock()
	p := s.playerByIDLocked(participantID)
	if p == nil {
		s.mu.Unlock()
		return 0, 0, ErrPlayerNotFound
	}
	if s.status != StatusActive {
		s.mu.Unlock()
		return 0, 0, ErrNotActive
	}
	if p.Index != s.current || p.Eliminated {
		s.mu.Unlock()
		return 0, 0, ErrNotYourTurn
	}
	if s.turn.RollNumber < 1 {
		s.mu.Unlock()
		return 0, 0, ErrNoRollYet
	}
	if blockIndex < 0 || blockIndex >= len(p.Blocks) {
		s.mu.Unlock()
		return 0, 0, ErrInvalidBlockIndex
	}

	block := p.Blocks[blockIndex]
	dice := s.turn.Values
	joker := kniffel.CanUseJoker(block, dice, s.settings.JokerEnabled)

	switch {
	case block.IsOpen(cat):
		if joker {
			score = kniffel.JokerScore(cat, dice[0])
			block.JokerCount++
		} else {
			score = kniffel.Score(cat, dice)
		}
		block.Set(cat, score)
	case joker:
		// Joker into a closed category: the stored value stands, the
		// joker bonus is still credited.
		block.JokerCount++
		score = 0
	default:
		s.mu.Unlock()
		return 0, 0, ErrCategoryClosed
	}

	newTotal = p.TotalScore()
	s.emitLocked(Event{EventScoreSubmitted, ScoreSubmittedPayload{
		PlayerIndex: p.Index,
		Category:    cat.String(),
		Score:       score,
		BlockIndex:  blockIndex,
		NewTotal:    newTotal,
	}})
	s.log.Info().Int("seat", p.Index).Str("category", cat.String()).Int("score", score).Int("total", newTotal).Msg("score submitted")

	s.advanceTurnLocked()
	s.unlockAndSave()
	return score, newTotal, nil
}

// Leave removes a waiting seat; once the session is active the seat stays
// to preserve turn order and scoring history.
func (s *Session) Leave(participantID string) error {
	s.mu.Lock()
	p := s.playerByIDLocked(participantID)
	if p == nil {
		s.mu.Unlock()
		return ErrPlayerNotFound
	}
	if s.status == StatusWaiting {
		idx := p.Index
		s.players = append(s.players[:idx], s.players[idx+1:]...)
		for i, q := range s.players {
			q.Index = i
		}
		s.emitLocked(Event{EventPlayerLeft, PlayerEventPayload{idx, p.Name, p.IsAI}})
		s.log.Info().Str("participant_id", participantID).Msg("player left")
		s.unlockAndSave()
		return nil
	}
	// Disconnect bookkeeping only; the seat remains.
	s.emitLocked(Event{EventPlayerLeft, PlayerEventPayload{p.Index, p.Name, p.IsAI}})
	s.mu.Unlock()
	return nil
}

// advanceTurnLocked resets the roll, moves the turn pointer to the next
// non-eliminated seat, bumps the round on every wrap past seat 0, applies
// the tournament cull, re-arms the timer, and detects game end.
func (s *Session) advanceTurnLocked() {
	s.disarmTimerLocked()
	s.turn = TurnRoll{}

	if s.allBlocksCompleteLocked() {
		s.finishLocked()
		return
	}

	next := s.nextSeatLocked(s.current)
	if next == -1 || (s.settings.TournamentMode && s.remainingLocked() <= 1) {
		s.finishLocked()
		return
	}
	s.current = next

	limit := 0
	if s.settings.TimedMode {
		limit = s.settings.TurnTimeLimit
	}
	s.emitLocked(Event{EventTurnStarted, TurnStartedPayload{PlayerIndex: next, Round: s.round, TimeLimit: limit}})
	if s.settings.TimedMode {
		s.armTimerLocked()
	}
	s.scheduleBotLocked()
}

// nextSeatLocked walks forward from the given seat to the next
// non-eliminated one, incrementing the round (and culling in tournament
// mode) each time play wraps past seat 0. Returns -1 if nobody is left.
func (s *Session) nextSeatLocked(from int) int {
	n := len(s.players)
	idx := from
	for steps := 0; steps < n; steps++ {
		idx = (idx + 1) % n
		if idx == 0 {
			s.round++
			if s.settings.TournamentMode {
				s.eliminateLowestLocked()
			}
		}
		if !s.players[idx].Eliminated {
			return idx
		}
	}
	return -1
}

// eliminateLowestLocked removes the lowest-scoring surviving player at the
// end of a tournament cycle. Ties keep the earliest seat alive.
func (s *Session) eliminateLowestLocked() {
	if s.remainingLocked() <= 1 {
		return
	}
	lowest := -1
	for _, p := range s.players {
		if p.Eliminated {
			continue
		}
		if lowest == -1 || p.TotalScore() <= s.players[lowest].TotalScore() {
			lowest = p.Index
		}
	}
	if lowest == -1 {
		return
	}
	s.players[lowest].Eliminated = true
	s.emitLocked(Event{EventPlayerEliminated, PlayerEliminatedPayload{PlayerIndex: lowest, Reason: "tournament"}})
	s.log.Info().Int("seat", lowest).Msg("player eliminated by tournament cull")
}

func (s *Session) remainingLocked() int {
	n := 0
	for _, p := range s.players {
		if !p.Eliminated {
			n++
		}
	}
	return n
}

// allBlocksCompleteLocked reports whether every surviving player has
// filled every slot on every block.
func (s *Session) allBlocksCompleteLocked() bool {
	for _, p := range s.players {
		if p.Eliminated {
			continue
		}
		for _, b := range p.Blocks {
			if !b.Complete() {
				return false
			}
		}
	}
	return true
}

func (s *Session) finishLocked() {
	s.status = StatusFinished
	s.disarmTimerLocked()
	s.winners = s.winnersLocked()
	s.emitLocked(Event{EventSessionFinished, SessionFinishedPayload{
		Winners: s.winners,
		Final:   s.snapshotLocked(),
	}})
	s.log.Info().Ints("winners", s.winners).Msg("session finished")
}

// winnersLocked returns every surviving seat sharing the maximum total
// score. When everyone has been eliminated the comparison falls back to
// all seats.
func (s *Session) winnersLocked() []int {
	pool := make([]*Player, 0, len(s.players))
	for _, p := range s.players {
		if !p.Eliminated {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		pool = s.players
	}
	best := -1
	var winners []int
	for _, p := range pool {
		total := p.TotalScore()
		switch {
		case total > best:
			best = total
			winners = []int{p.Index}
		case total == best:
			winners = append(winners, p.Index)
		}
	}
	return winners
}

// Winners returns the winning seat indices of a finished session.
func (s *Session) Winners() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.winners...)
}

// Subscribe registers an event channel for a connection and immediately
// delivers a full state snapshot on it. Slow subscribers drop events.
func (s *Session) Subscribe(subID string) <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.subs[subID]; ok {
		close(old)
	}
	ch := make(chan Event, 64)
	s.subs[subID] = ch
	ch <- Event{EventState, s.snapshotLocked()}
	return ch
}

// Unsubscribe removes a connection's event channel.
func (s *Session) Unsubscribe(subID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.subs[subID]; ok {
		close(ch)
		delete(s.subs, subID)
	}
}

func (s *Session) emitLocked(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// drop for slow consumers
		}
	}
}

// unlockAndSave releases the mutex and hands the post-mutation snapshot to
// the persistence hook, outside the lock.
func (s *Session) unlockAndSave() {
	var snap *Snapshot
	if s.onSnapshot != nil {
		sn := s.snapshotLocked()
		snap = &sn
	}
	hook := s.onSnapshot
	s.mu.Unlock()
	if snap != nil {
		hook(*snap)
	}
}
