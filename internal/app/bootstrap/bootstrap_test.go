package bootstrap

import (
	"io"
	"log/slog"
	"testing"

	scheduleservice "tranche/contexts/token-vesting/schedule-service"
	postgresadapter "tranche/contexts/token-vesting/schedule-service/adapters/postgres"
	"tranche/internal/platform/config"
)

// Custody balances must live beside the schedule rows: a worker or restarted
// api wired against a process-local ledger would never find the vault account
// the initialize call created.
func TestPostgresCompositionUsesDurableLedger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := newPostgresDeps(nil, config.Config{AddressNamespace: "test"}, logger)

	if deps.ledger == nil {
		t.Fatal("postgres composition carries no ledger")
	}
	module := scheduleservice.NewModule(deps.moduleDependencies(logger))
	ledger, ok := module.Service.Ledger.(*postgresadapter.Ledger)
	if !ok {
		t.Fatalf("schedule service composed with %T, want the database-backed ledger", module.Service.Ledger)
	}
	if ledger != deps.ledger {
		t.Fatal("service and worker monitoring must share one ledger instance")
	}
}
