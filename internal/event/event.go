package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairlines/engine/internal/domain"
	"github.com/fairlines/engine/internal/metrics"
)

// Type represents the type of an event
type Type string

// Event represents a round lifecycle notification
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Typed event payloads for type safety

// RoundStartedPayloadV1 announces a new round. It carries the commitment
// hash only; the server seed stays hidden until the round crashes.
type RoundStartedPayloadV1 struct {
	RoundID        uuid.UUID `json:"round_id"`
	ServerSeedHash string    `json:"server_seed_hash"`
	ClientSeed     string    `json:"client_seed"`
	Timestamp      int64     `json:"timestamp"`
}

// MultiplierUpdatedPayloadV1 is emitted on every running tick.
type MultiplierUpdatedPayloadV1 struct {
	RoundID    uuid.UUID `json:"round_id"`
	Multiplier float64   `json:"multiplier"`
}

// BetPlacedPayloadV1 is emitted when a bet is accepted into the open round.
type BetPlacedPayloadV1 struct {
	RoundID  uuid.UUID       `json:"round_id"`
	PlayerID string          `json:"player_id"`
	Stake    decimal.Decimal `json:"stake"`
}

// PlayerCashedOutPayloadV1 is emitted for explicit and auto cash-outs alike.
type PlayerCashedOutPayloadV1 struct {
	RoundID    uuid.UUID       `json:"round_id"`
	PlayerID   string          `json:"player_id"`
	Multiplier float64         `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Auto       bool            `json:"auto"`
}

// RoundCrashedPayloadV1 reveals the crash point and the server seed,
// enabling external verification of the round.
type RoundCrashedPayloadV1 struct {
	RoundID    uuid.UUID `json:"round_id"`
	CrashPoint float64   `json:"crash_point"`
	ServerSeed string    `json:"server_seed"`
}

// RoundSettledPayloadV1 carries the final round summary.
type RoundSettledPayloadV1 struct {
	Summary domain.HistoryEntry `json:"summary"`
}

// Type-safe event constructors

// NewRoundStartedEvent creates a round started event with type-safe payload
func NewRoundStartedEvent(roundID uuid.UUID, serverSeedHash, clientSeed string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventRoundStarted),
		Payload: RoundStartedPayloadV1{
			RoundID:        roundID,
			ServerSeedHash: serverSeedHash,
			ClientSeed:     clientSeed,
			Timestamp:      time.Now().Unix(),
		},
	}
}

// NewMultiplierUpdatedEvent creates a multiplier update event
func NewMultiplierUpdatedEvent(roundID uuid.UUID, multiplier float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventMultiplierUpdated),
		Payload: MultiplierUpdatedPayloadV1{
			RoundID:    roundID,
			Multiplier: multiplier,
		},
	}
}

// NewBetPlacedEvent creates a bet placed event
func NewBetPlacedEvent(roundID uuid.UUID, playerID string, stake decimal.Decimal) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventBetPlaced),
		Payload: BetPlacedPayloadV1{
			RoundID:  roundID,
			PlayerID: playerID,
			Stake:    stake,
		},
	}
}

// NewPlayerCashedOutEvent creates a cash-out event
func NewPlayerCashedOutEvent(roundID uuid.UUID, playerID string, multiplier float64, payout decimal.Decimal, auto bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventPlayerCashedOut),
		Payload: PlayerCashedOutPayloadV1{
			RoundID:    roundID,
			PlayerID:   playerID,
			Multiplier: multiplier,
			Payout:     payout,
			Auto:       auto,
		},
	}
}

// NewRoundCrashedEvent creates a round crashed event revealing the seed
func NewRoundCrashedEvent(roundID uuid.UUID, crashPoint float64, serverSeed string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventRoundCrashed),
		Payload: RoundCrashedPayloadV1{
			RoundID:    roundID,
			CrashPoint: crashPoint,
			ServerSeed: serverSeed,
		},
	}
}

// NewRoundSettledEvent creates a round settled event
func NewRoundSettledEvent(summary domain.HistoryEntry) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.EventRoundSettled),
		Payload: RoundSettledPayloadV1{Summary: summary},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus. Handlers for a
// given subscriber run in subscription order, so a subscriber observes round
// lifecycle notifications in the order they were published.
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	metrics.EventsPublished.WithLabelValues(string(event.Type)).Inc()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			metrics.EventHandlerErrors.WithLabelValues(string(event.Type)).Inc()
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
