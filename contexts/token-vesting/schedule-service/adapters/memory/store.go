package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
	"tranche/contexts/token-vesting/schedule-service/ports"

	"github.com/google/uuid"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// Store is the in-memory repository. UpdateSchedule serializes operations
// per process under one mutex and commits a staged copy of the aggregate
// only when the mutation succeeds, which is the whole batch-atomicity story
// for this adapter.
type Store struct {
	mu sync.RWMutex

	schedules  map[string]entities.Schedule
	recipients map[string][]entities.RecipientEntry
	outbox     map[string]outboxRecord
	outboxSeq  []string
}

type outboxRecord struct {
	Message ports.OutboxMessage
	Status  string
	SentAt  *time.Time
}

func NewStore() *Store {
	return &Store{
		schedules:  make(map[string]entities.Schedule),
		recipients: make(map[string][]entities.RecipientEntry),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) CreateSchedule(_ context.Context, aggregate ports.ScheduleAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(aggregate.Schedule.ScheduleID)
	if id == "" {
		return domainerrors.ErrInvalidConfig
	}
	if _, exists := s.schedules[id]; exists {
		return domainerrors.ErrScheduleExists
	}
	s.schedules[id] = aggregate.Schedule
	s.recipients[id] = append([]entities.RecipientEntry(nil), aggregate.Recipients...)
	return nil
}

func (s *Store) GetSchedule(_ context.Context, scheduleID string) (entities.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[strings.TrimSpace(scheduleID)]
	if !ok {
		return entities.Schedule{}, domainerrors.ErrScheduleNotFound
	}
	return schedule, nil
}

func (s *Store) ListRecipients(_ context.Context, scheduleID string) ([]entities.RecipientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.schedules[strings.TrimSpace(scheduleID)]; !ok {
		return nil, domainerrors.ErrScheduleNotFound
	}
	return append([]entities.RecipientEntry(nil), s.recipients[strings.TrimSpace(scheduleID)]...), nil
}

func (s *Store) GetRecipient(_ context.Context, scheduleID string, wallet string) (entities.RecipientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.recipients[strings.TrimSpace(scheduleID)] {
		if entry.Wallet == wallet {
			return entry, nil
		}
	}
	return entities.RecipientEntry{}, domainerrors.ErrRecipientNotFound
}

func (s *Store) UpdateSchedule(ctx context.Context, scheduleID string, mutate func(*ports.ScheduleAggregate, ports.OutboxAppender) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(scheduleID)
	schedule, ok := s.schedules[id]
	if !ok {
		return domainerrors.ErrScheduleNotFound
	}

	staged := ports.ScheduleAggregate{
		Schedule:   schedule,
		Recipients: append([]entities.RecipientEntry(nil), s.recipients[id]...),
	}
	collector := &outboxCollector{}

	if err := mutate(&staged, collector); err != nil {
		return err
	}

	s.schedules[id] = staged.Schedule
	s.recipients[id] = staged.Recipients
	for _, envelope := range collector.envelopes {
		if err := s.appendOutboxLocked(envelope); err != nil {
			return err
		}
	}
	return nil
}

type outboxCollector struct {
	envelopes []ports.EventEnvelope
}

func (c *outboxCollector) Append(envelope ports.EventEnvelope) error {
	c.envelopes = append(c.envelopes, envelope)
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendOutboxLocked(envelope)
}

func (s *Store) appendOutboxLocked(envelope ports.EventEnvelope) error {
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidConfig
	}
	if _, exists := s.outbox[outboxID]; exists {
		return nil
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	s.outboxSeq = append(s.outboxSeq, outboxID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, id := range s.outboxSeq {
		row := s.outbox[id]
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrScheduleNotFound
	}
	ts := sentAt.UTC()
	row.Status = outboxStatusSent
	row.SentAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

// Now lets the store double as the Clock port in in-memory wiring.
func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

// NewID lets the store double as the IDGenerator port.
func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
