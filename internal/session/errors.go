package session

// Kind classifies command rejections so the transport layer can map them
// without matching message strings.
type Kind int

const (
	// KindValidation marks a malformed command. Never retried.
	KindValidation Kind = iota
	// KindConflict marks a command issued against a stale view of the
	// session (wrong turn, closed category, ...). The client is expected
	// to resynchronize from the next state snapshot.
	KindConflict
	// KindNotFound marks an unknown session or participant.
	KindNotFound
)

// Error is a command rejection surfaced to the issuing participant only.
// The session is never partially mutated when one is returned.
type Error struct {
	Kind Kind
	Code string // stable identifier sent to clients
	msg  string
}

func (e *Error) Error() string { return e.msg }

var (
	ErrSessionNotFound       = &Error{KindNotFound, "session_not_found", "session not found"}
	ErrPlayerNotFound        = &Error{KindNotFound, "player_not_found", "participant is not seated in this session"}
	ErrSessionFull           = &Error{KindConflict, "session_full", "session is full"}
	ErrAlreadyJoined         = &Error{KindConflict, "already_joined", "participant already seated"}
	ErrNotWaiting            = &Error{KindConflict, "not_waiting", "session is not accepting players"}
	ErrUnauthorized          = &Error{KindValidation, "unauthorized", "only the session creator can start it"}
	ErrNotEnoughPlayers      = &Error{KindConflict, "not_enough_players", "at least 2 players required to start"}
	ErrNotActive             = &Error{KindConflict, "not_active", "session is not active"}
	ErrNotYourTurn           = &Error{KindConflict, "not_your_turn", "not your turn"}
	ErrMaxRollsReached       = &Error{KindConflict, "max_rolls_reached", "no rolls left this turn"}
	ErrInvalidKeepTransition = &Error{KindConflict, "invalid_keep_transition", "at least one new die must be kept"}
	ErrCategoryClosed        = &Error{KindConflict, "category_closed", "category already scored"}
	ErrNoRollYet             = &Error{KindConflict, "no_roll_yet", "roll the dice before scoring"}
	ErrInvalidBlockIndex     = &Error{KindValidation, "invalid_block_index", "block index out of range"}
)

func invalidSettings(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_settings", msg: msg}
}
