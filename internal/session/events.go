package session

// EventType names an outbound session event.
type EventType string

const (
	EventState            EventType = "state"
	EventPlayerJoined     EventType = "player_joined"
	EventPlayerLeft       EventType = "player_left"
	EventSessionStarted   EventType = "session_started"
	EventTurnStarted      EventType = "turn_started"
	EventDiceRolled       EventType = "dice_rolled"
	EventScoreSubmitted   EventType = "score_submitted"
	EventTimerTick        EventType = "timer_tick"
	EventPlayerEliminated EventType = "player_eliminated"
	EventSessionFinished  EventType = "session_finished"
)

// Event is the envelope fanned out to every subscribed participant.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

type PlayerEventPayload struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	IsAI  bool   `json:"isAI"`
}

type SessionStartedPayload struct {
	FirstPlayer int `json:"firstPlayer"`
	TimeLimit   int `json:"timeLimitSeconds,omitempty"`
}

type TurnStartedPayload struct {
	PlayerIndex int `json:"playerIndex"`
	Round       int `json:"round"`
	TimeLimit   int `json:"timeLimitSeconds,omitempty"`
}

type DiceRolledPayload struct {
	PlayerIndex int      `json:"playerIndex"`
	Roll        TurnRoll `json:"roll"`
}

type ScoreSubmittedPayload struct {
	PlayerIndex int    `json:"playerIndex"`
	Category    string `json:"category"`
	Score       int    `json:"score"`
	BlockIndex  int    `json:"blockIndex"`
	NewTotal    int    `json:"newTotal"`
}

type TimerTickPayload struct {
	Remaining int `json:"remainingSeconds"`
}

type PlayerEliminatedPayload struct {
	PlayerIndex int    `json:"playerIndex"`
	Reason      string `json:"reason"` // "timeout" or "tournament"
}

type SessionFinishedPayload struct {
	Winners []int    `json:"winners"`
	Final   Snapshot `json:"final"`
}
