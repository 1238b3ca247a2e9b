package domain

// EventType identifies a round lifecycle notification
type EventType string

const (
	EventRoundStarted      EventType = "round.started"
	EventMultiplierUpdated EventType = "round.multiplier_updated"
	EventBetPlaced         EventType = "round.bet_placed"
	EventPlayerCashedOut   EventType = "round.player_cashed_out"
	EventRoundCrashed      EventType = "round.crashed"
	EventRoundSettled      EventType = "round.settled"
)
