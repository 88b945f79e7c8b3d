package workers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"tranche/contexts/token-vesting/schedule-service/adapters/addressing"
	"tranche/contexts/token-vesting/schedule-service/adapters/memory"
	"tranche/contexts/token-vesting/schedule-service/application"
	"tranche/contexts/token-vesting/schedule-service/application/workers"
	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	"tranche/contexts/token-vesting/schedule-service/ports"
)

const (
	workerAdmin       = "admin-1"
	workerDistributor = "dist-1"
	workerMint        = "mint-1"
	workerScheduleID  = "sched-1"
)

var workerStart = time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type capturingPublisher struct {
	topic     string
	envelopes []ports.EventEnvelope
	fail      error
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, envelope ports.EventEnvelope) error {
	if p.fail != nil {
		return p.fail
	}
	p.topic = topic
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

type workerFixture struct {
	t       *testing.T
	service application.Service
	store   *memory.Store
	ledger  *memory.Ledger
	deriver addressing.Deriver
	clock   *fixedClock
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()
	store := memory.NewStore()
	ledger := memory.NewLedger()
	deriver := addressing.NewDeriver("")
	clock := &fixedClock{now: workerStart.AddDate(0, 0, -30)}

	return &workerFixture{
		t:       t,
		store:   store,
		ledger:  ledger,
		deriver: deriver,
		clock:   clock,
		service: application.Service{
			Repo:      store,
			Ledger:    ledger,
			Addresses: deriver,
			Outbox:    store,
			Clock:     clock,
			IDGen:     store,
			Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
	}
}

// setupSealed mirrors the service tests: wallet-a 700, wallet-b 500, exact
// funding, sealed registry.
func (f *workerFixture) setupSealed() {
	f.t.Helper()
	ctx := context.Background()
	if _, err := f.service.InitializeSchedule(ctx, workerAdmin, application.InitializeScheduleInput{
		ScheduleID:  workerScheduleID,
		Mint:        workerMint,
		Distributor: workerDistributor,
		StartAt:     workerStart,
		TotalSupply: 1200,
	}); err != nil {
		f.t.Fatalf("initialize schedule: %v", err)
	}
	for _, wallet := range []string{"wallet-a", "wallet-b"} {
		address := f.deriver.ReceivingAddress(workerMint, wallet)
		if err := f.ledger.CreateAccount(ctx, address, wallet, workerMint); err != nil {
			f.t.Fatalf("provision %s: %v", wallet, err)
		}
	}
	if err := f.ledger.CreateAccount(ctx, "admin-src", workerAdmin, workerMint); err != nil {
		f.t.Fatalf("create source: %v", err)
	}
	if err := f.ledger.Mint(ctx, "admin-src", 1200); err != nil {
		f.t.Fatalf("mint: %v", err)
	}
	if _, err := f.service.DepositTokens(ctx, workerAdmin, workerScheduleID, "admin-src", 1200); err != nil {
		f.t.Fatalf("deposit: %v", err)
	}
	if _, err := f.service.AddRecipients(ctx, workerAdmin, workerScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 700},
		{Wallet: "wallet-b", Allocation: 500},
	}, true); err != nil {
		f.t.Fatalf("register and seal: %v", err)
	}
}

func TestOutboxRelayDrainsPending(t *testing.T) {
	f := newWorkerFixture(t)
	f.setupSealed()

	pendingBefore, err := f.store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pendingBefore) == 0 {
		t.Fatal("fixture produced no outbox rows")
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    f.store,
		Publisher: publisher,
		Clock:     f.clock,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run: %v", err)
	}

	if publisher.topic != "vesting.events" {
		t.Fatalf("published to topic %q", publisher.topic)
	}
	if len(publisher.envelopes) != len(pendingBefore) {
		t.Fatalf("published %d envelopes, want %d", len(publisher.envelopes), len(pendingBefore))
	}
	for i, envelope := range publisher.envelopes {
		if envelope.EventID != pendingBefore[i].OutboxID {
			t.Fatalf("envelope %d carries event id %q, outbox row %q", i, envelope.EventID, pendingBefore[i].OutboxID)
		}
		if envelope.PartitionKey != workerScheduleID {
			t.Fatalf("envelope %d partition key %q", i, envelope.PartitionKey)
		}
	}

	pendingAfter, err := f.store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pendingAfter) != 0 {
		t.Fatalf("%d rows still pending after relay", len(pendingAfter))
	}
}

func TestOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	f := newWorkerFixture(t)
	f.setupSealed()

	publisher := &capturingPublisher{fail: errors.New("broker down")}
	relay := workers.OutboxRelay{
		Outbox:    f.store,
		Publisher: publisher,
		Clock:     f.clock,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish failure to propagate")
	}

	pending, err := f.store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) == 0 {
		t.Fatal("failed publishes must leave rows pending for retry")
	}
}

func TestReleaseRunnerPaysDueRecipients(t *testing.T) {
	f := newWorkerFixture(t)
	f.setupSealed()
	f.clock.now = time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

	runner := workers.ReleaseRunner{
		Service:     f.service,
		ScheduleID:  workerScheduleID,
		Distributor: workerDistributor,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("runner: %v", err)
	}

	for wallet, want := range map[string]uint64{"wallet-a": 58, "wallet-b": 41} {
		balance, err := f.ledger.BalanceOf(context.Background(), f.deriver.ReceivingAddress(workerMint, wallet))
		if err != nil {
			t.Fatalf("balance of %s: %v", wallet, err)
		}
		if balance != want {
			t.Fatalf("%s received %d, want %d", wallet, balance, want)
		}
	}

	// Nothing left to do until the next boundary.
	if err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle runner: %v", err)
	}
	entry, err := f.store.GetRecipient(context.Background(), workerScheduleID, "wallet-a")
	if err != nil {
		t.Fatalf("get recipient: %v", err)
	}
	if entry.ReleasedAmount != 58 {
		t.Fatalf("second cycle changed released amount to %d", entry.ReleasedAmount)
	}
}

func TestReleaseRunnerIdlesBeforeStart(t *testing.T) {
	f := newWorkerFixture(t)
	f.setupSealed()

	runner := workers.ReleaseRunner{
		Service:     f.service,
		ScheduleID:  workerScheduleID,
		Distributor: workerDistributor,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("pre-start cycle must be a no-op, got %v", err)
	}
}

func TestReleaseRunnerSkipsWhilePaused(t *testing.T) {
	f := newWorkerFixture(t)
	f.setupSealed()
	f.clock.now = time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

	if err := f.service.Pause(context.Background(), workerAdmin, workerScheduleID); err != nil {
		t.Fatalf("pause: %v", err)
	}

	runner := workers.ReleaseRunner{
		Service:     f.service,
		ScheduleID:  workerScheduleID,
		Distributor: workerDistributor,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("paused cycle must be skipped, got %v", err)
	}

	entry, err := f.store.GetRecipient(context.Background(), workerScheduleID, "wallet-a")
	if err != nil {
		t.Fatalf("get recipient: %v", err)
	}
	if entry.ReleasedAmount != 0 {
		t.Fatalf("paused schedule released %d", entry.ReleasedAmount)
	}
}

func TestDriftMonitorRunOnce(t *testing.T) {
	f := newWorkerFixture(t)
	f.setupSealed()
	f.clock.now = time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

	if _, err := f.service.BatchRelease(context.Background(), workerDistributor, workerScheduleID, []string{"wallet-a", "wallet-b"}); err != nil {
		t.Fatalf("release: %v", err)
	}

	monitor := workers.DriftMonitor{
		Repo:       f.store,
		Ledger:     f.ledger,
		Addresses:  f.deriver,
		ScheduleID: workerScheduleID,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("monitor: %v", err)
	}
}
