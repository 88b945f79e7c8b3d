package ports

import (
	"context"
	"errors"
	"time"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	"tranche/internal/shared/events"
)

// Ledger-level failures are environment conditions, not domain errors. Every
// TokenLedger adapter returns these same sentinels so callers can branch on
// them without knowing which custody backend is wired.
var (
	ErrAccountNotFound      = errors.New("token account not found")
	ErrAccountExists        = errors.New("token account already exists")
	ErrInsufficientBalance  = errors.New("insufficient token balance")
	ErrInvalidLedgerRequest = errors.New("invalid ledger request")
)

// ScheduleAggregate is the staged working copy of one schedule plus its
// recipient registry. Application operations mutate the copy; the repository
// commits it only when the mutation callback returns nil, which is what makes
// batch release all-or-nothing.
type ScheduleAggregate struct {
	Schedule   entities.Schedule
	Recipients []entities.RecipientEntry
}

// FindRecipient returns a pointer into the staged registry, or nil.
func (a *ScheduleAggregate) FindRecipient(wallet string) *entities.RecipientEntry {
	for i := range a.Recipients {
		if a.Recipients[i].Wallet == wallet {
			return &a.Recipients[i]
		}
	}
	return nil
}

// AllocationSum is the running total of registered allocations.
func (a *ScheduleAggregate) AllocationSum() uint64 {
	var sum uint64
	for _, entry := range a.Recipients {
		sum += entry.Allocation
	}
	return sum
}

// Repository persists schedules and recipient registries.
type Repository interface {
	CreateSchedule(ctx context.Context, aggregate ScheduleAggregate) error
	GetSchedule(ctx context.Context, scheduleID string) (entities.Schedule, error)
	ListRecipients(ctx context.Context, scheduleID string) ([]entities.RecipientEntry, error)
	GetRecipient(ctx context.Context, scheduleID string, wallet string) (entities.RecipientEntry, error)

	// UpdateSchedule loads the aggregate, runs mutate against a staged copy
	// under the schedule's serialization boundary, and commits the copy plus
	// any outbox appends if mutate returns nil. A non-nil error discards every
	// staged change.
	UpdateSchedule(ctx context.Context, scheduleID string, mutate func(*ScheduleAggregate, OutboxAppender) error) error
}

// OutboxAppender stages event envelopes inside an UpdateSchedule commit.
type OutboxAppender interface {
	Append(envelope events.Envelope) error
}

// TokenAccount is the custody ledger's view of one account.
type TokenAccount struct {
	Address string
	Owner   string
	Mint    string
	Balance uint64
}

// TokenLedger is the external custody mechanism holding the fungible units.
// A missing account surfaces as the ledger's own not-found error, never as a
// domain error: account provisioning belongs to calling tooling.
type TokenLedger interface {
	CreateAccount(ctx context.Context, address string, owner string, mint string) error
	GetAccount(ctx context.Context, address string) (TokenAccount, error)
	BalanceOf(ctx context.Context, address string) (uint64, error)
	Transfer(ctx context.Context, from string, to string, amount uint64) error
}

// AddressDeriver yields the canonical storage locations for a schedule's
// persistent records and each recipient's receiving account.
type AddressDeriver interface {
	ScheduleAddress(scheduleID string) string
	VaultAddress(scheduleID string) string
	RegistryAddress(scheduleID string) string
	ReceivingAddress(mint string, wallet string) string
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

// OutboxMessage is a pending event row awaiting relay to the bus.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxWriter appends an envelope outside a staged schedule update
// (schedule creation is the only such path).
type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
