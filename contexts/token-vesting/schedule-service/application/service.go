package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tranche/contexts/token-vesting/schedule-service/ports"
)

const (
	sourceService = "schedule-service"
	moduleTag     = "token-vesting/schedule-service"
)

// Service implements every schedule operation. All mutating operations take
// an explicit actor identity and run inside the repository's staged-update
// boundary, so each operation commits fully or not at all.
type Service struct {
	Repo      ports.Repository
	Ledger    ports.TokenLedger
	Addresses ports.AddressDeriver
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) newEnvelope(ctx context.Context, eventType string, partitionKey string, data map[string]any) (ports.EventEnvelope, error) {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    s.now(),
		SourceService: sourceService,
		SchemaVersion: 1,
		PartitionKey:  partitionKey,
		Data:          payload,
	}, nil
}
