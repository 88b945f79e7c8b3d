package provisioning

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tranche/contexts/token-vesting/schedule-service/application"
	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	"tranche/contexts/token-vesting/schedule-service/ports"

	"github.com/shopspring/decimal"
)

// DefaultChunkSize bounds how many recipients one registration call carries.
const DefaultChunkSize = 10

// Row is one parsed allocation line: wallet plus the allocation in base units.
type Row struct {
	Wallet     string
	Allocation uint64
}

// ParseAllocationCSV reads "wallet,amount" lines and converts the human
// readable amount into base units using the mint's decimal count. Amounts
// that do not land on a whole base unit are rejected rather than rounded.
func ParseAllocationCSV(r io.Reader, decimals int32) ([]Row, error) {
	if decimals < 0 {
		return nil, fmt.Errorf("decimals must be non-negative, got %d", decimals)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	scale := decimal.New(1, decimals)
	seen := make(map[string]struct{})
	var rows []Row
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read allocation csv: %w", err)
		}
		line++
		if len(record) != 2 {
			return nil, fmt.Errorf("line %d: expected wallet,amount", line)
		}

		wallet := strings.TrimSpace(record[0])
		rawAmount := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(wallet, "wallet") {
			continue
		}
		if wallet == "" {
			return nil, fmt.Errorf("line %d: empty wallet", line)
		}
		if _, dup := seen[wallet]; dup {
			return nil, fmt.Errorf("line %d: duplicate wallet %s", line, wallet)
		}

		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q: %w", line, rawAmount, err)
		}
		if amount.IsNegative() || amount.IsZero() {
			return nil, fmt.Errorf("line %d: amount must be positive", line)
		}

		baseUnits := amount.Mul(scale)
		if !baseUnits.IsInteger() {
			return nil, fmt.Errorf("line %d: amount %s does not convert to whole base units at %d decimals", line, rawAmount, decimals)
		}
		if !baseUnits.BigInt().IsUint64() {
			return nil, fmt.Errorf("line %d: amount %s overflows the base unit range", line, rawAmount)
		}

		seen[wallet] = struct{}{}
		rows = append(rows, Row{
			Wallet:     wallet,
			Allocation: baseUnits.BigInt().Uint64(),
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("allocation csv contains no rows")
	}
	if len(rows) > entities.MaxRecipients {
		return nil, fmt.Errorf("allocation csv has %d rows, registry holds at most %d", len(rows), entities.MaxRecipients)
	}
	return rows, nil
}

// Provisioner drives bulk recipient onboarding for one schedule: it creates
// each recipient's receiving account on the ledger and registers the parsed
// rows in chunks, sealing the registry with the final chunk.
type Provisioner struct {
	Service   application.Service
	Ledger    ports.TokenLedger
	Addresses ports.AddressDeriver
	ChunkSize int
	Logger    *slog.Logger
}

func (p Provisioner) Register(ctx context.Context, actor string, scheduleID string, rows []Row, seal bool) error {
	logger := application.ResolveLogger(p.Logger)
	chunkSize := p.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	schedule, err := p.Service.GetSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		receiving := p.Addresses.ReceivingAddress(schedule.Mint, row.Wallet)
		if err := p.Ledger.CreateAccount(ctx, receiving, row.Wallet, schedule.Mint); err != nil {
			return fmt.Errorf("provision receiving account for %s: %w", row.Wallet, err)
		}
	}

	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		inputs := make([]entities.RecipientInput, 0, end-start)
		for _, row := range rows[start:end] {
			inputs = append(inputs, entities.RecipientInput{
				Wallet:     row.Wallet,
				Allocation: row.Allocation,
			})
		}

		sealChunk := seal && end == len(rows)
		result, err := p.Service.AddRecipients(ctx, actor, scheduleID, inputs, sealChunk)
		if err != nil {
			return fmt.Errorf("register chunk [%d:%d]: %w", start, end, err)
		}

		logger.Info("recipient chunk registered",
			"event", "vesting_provisioning_chunk_registered",
			"module", "internal/provisioning",
			"layer", "tooling",
			"schedule_id", scheduleID,
			"chunk_start", start,
			"chunk_end", end,
			"recipient_count", result.RecipientCount,
			"allocation_sum", result.AllocationSum,
			"sealed", result.Sealed,
		)
	}
	return nil
}
