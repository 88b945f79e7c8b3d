package application_test

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
	"tranche/contexts/token-vesting/schedule-service/domain/entities"
	domainerrors "tranche/contexts/token-vesting/schedule-service/domain/errors"
)

const (
	testAdmin       = "admin-1"
	testDistributor = "dist-1"
	testMint        = "mint-1"
	testScheduleID  = "sched-1"
	testSource      = "admin-src"
	testTotalSupply = uint64(1200)
)

// Schedule anchored to a month-end so clamped boundaries get exercised:
// boundary 1 is Feb 28, boundary 2 is Mar 31, boundary 12 is Jan 31 2026.
var testStart = time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type fixture struct {
	t       *testing.T
	service application.Service
	store   *memory.Store
	ledger  *memory.Ledger
	deriver addressing.Deriver
	clock   *fixedClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ledger := memory.NewLedger()
	deriver := addressing.NewDeriver("")
	clock := &fixedClock{now: testStart.AddDate(0, 0, -30)}

	return &fixture{
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

func (f *fixture) advanceTo(now time.Time) {
	f.clock.now = now
}

func (f *fixture) initSchedule() entities.Schedule {
	f.t.Helper()
	schedule, err := f.service.InitializeSchedule(context.Background(), testAdmin, application.InitializeScheduleInput{
		ScheduleID:  testScheduleID,
		Mint:        testMint,
		Distributor: testDistributor,
		StartAt:     testStart,
		TotalSupply: testTotalSupply,
	})
	if err != nil {
		f.t.Fatalf("initialize schedule: %v", err)
	}
	return schedule
}

func (f *fixture) fund(amount uint64) {
	f.t.Helper()
	ctx := context.Background()
	if _, err := f.ledger.GetAccount(ctx, testSource); err != nil {
		if err := f.ledger.CreateAccount(ctx, testSource, testAdmin, testMint); err != nil {
			f.t.Fatalf("create source account: %v", err)
		}
	}
	if err := f.ledger.Mint(ctx, testSource, amount); err != nil {
		f.t.Fatalf("mint to source: %v", err)
	}
	if _, err := f.service.DepositTokens(ctx, testAdmin, testScheduleID, testSource, amount); err != nil {
		f.t.Fatalf("deposit: %v", err)
	}
}

func (f *fixture) provisionReceiving(wallet string) string {
	f.t.Helper()
	address := f.deriver.ReceivingAddress(testMint, wallet)
	if err := f.ledger.CreateAccount(context.Background(), address, wallet, testMint); err != nil {
		f.t.Fatalf("provision receiving account for %s: %v", wallet, err)
	}
	return address
}

// setupSealed builds the canonical two-recipient schedule: wallet-a holds
// 700 (monthly 58, dust 4) and wallet-b holds 500 (monthly 41, dust 8), the
// vault is funded with exactly the total supply and the registry is sealed.
func (f *fixture) setupSealed() {
	f.t.Helper()
	f.initSchedule()
	f.provisionReceiving("wallet-a")
	f.provisionReceiving("wallet-b")
	f.fund(testTotalSupply)
	_, err := f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 700},
		{Wallet: "wallet-b", Allocation: 500},
	}, true)
	if err != nil {
		f.t.Fatalf("register and seal: %v", err)
	}
}

func (f *fixture) vaultBalance() uint64 {
	f.t.Helper()
	balance, err := f.ledger.BalanceOf(context.Background(), f.deriver.VaultAddress(testScheduleID))
	if err != nil {
		f.t.Fatalf("vault balance: %v", err)
	}
	return balance
}

func (f *fixture) recipient(wallet string) entities.RecipientEntry {
	f.t.Helper()
	entry, err := f.store.GetRecipient(context.Background(), testScheduleID, wallet)
	if err != nil {
		f.t.Fatalf("get recipient %s: %v", wallet, err)
	}
	return entry
}

func TestInitializeScheduleRejectsDistributorCollisions(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.InitializeSchedule(context.Background(), testAdmin, application.InitializeScheduleInput{
		ScheduleID:  testScheduleID,
		Mint:        testMint,
		Distributor: testAdmin,
		StartAt:     testStart,
		TotalSupply: testTotalSupply,
	})
	if !errors.Is(err, domainerrors.ErrInvalidConfig) {
		t.Fatalf("admin as distributor: expected ErrInvalidConfig, got %v", err)
	}

	_, err = f.service.InitializeSchedule(context.Background(), testAdmin, application.InitializeScheduleInput{
		ScheduleID:  testScheduleID,
		Mint:        testMint,
		Distributor: f.deriver.VaultAddress(testScheduleID),
		StartAt:     testStart,
		TotalSupply: testTotalSupply,
	})
	if !errors.Is(err, domainerrors.ErrInvalidConfig) {
		t.Fatalf("vault as distributor: expected ErrInvalidConfig, got %v", err)
	}

	_, err = f.service.InitializeSchedule(context.Background(), testAdmin, application.InitializeScheduleInput{
		ScheduleID:  testScheduleID,
		Mint:        testMint,
		Distributor: "",
		StartAt:     testStart,
		TotalSupply: testTotalSupply,
	})
	if !errors.Is(err, domainerrors.ErrInvalidWallet) {
		t.Fatalf("empty distributor: expected ErrInvalidWallet, got %v", err)
	}
}

func TestInitializeScheduleIsOneShot(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	_, err := f.service.InitializeSchedule(context.Background(), testAdmin, application.InitializeScheduleInput{
		ScheduleID:  testScheduleID,
		Mint:        testMint,
		Distributor: testDistributor,
		StartAt:     testStart,
		TotalSupply: testTotalSupply,
	})
	if !errors.Is(err, domainerrors.ErrScheduleExists) {
		t.Fatalf("expected ErrScheduleExists, got %v", err)
	}
}

func TestAddRecipientsRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	_, err := f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 100},
	}, false)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err = f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 100},
	}, false)
	if !errors.Is(err, domainerrors.ErrDuplicateRecipient) {
		t.Fatalf("registry duplicate: expected ErrDuplicateRecipient, got %v", err)
	}

	_, err = f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-b", Allocation: 100},
		{Wallet: "wallet-b", Allocation: 200},
	}, false)
	if !errors.Is(err, domainerrors.ErrDuplicateRecipient) {
		t.Fatalf("intra-batch duplicate: expected ErrDuplicateRecipient, got %v", err)
	}
}

func TestAddRecipientsRejectedBatchLeavesRegistryUntouched(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	_, err := f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 100},
		{Wallet: "wallet-b", Allocation: 0},
	}, false)
	if !errors.Is(err, domainerrors.ErrInvalidAllocation) {
		t.Fatalf("expected ErrInvalidAllocation, got %v", err)
	}

	entries, err := f.store.ListRecipients(context.Background(), testScheduleID)
	if err != nil {
		t.Fatalf("list recipients: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected batch left %d entries behind", len(entries))
	}
}

func TestAddRecipientsEnforcesCapacity(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	inputs := make([]entities.RecipientInput, 0, entities.MaxRecipients+1)
	for i := 0; i <= entities.MaxRecipients; i++ {
		inputs = append(inputs, entities.RecipientInput{
			Wallet:     "wallet-" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Allocation: 12,
		})
	}
	_, err := f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, inputs, false)
	if !errors.Is(err, domainerrors.ErrRecipientListFull) {
		t.Fatalf("expected ErrRecipientListFull, got %v", err)
	}
}

func TestAddRecipientsRejectsOverAllocation(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	_, err := f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: testTotalSupply + 1},
	}, false)
	if !errors.Is(err, domainerrors.ErrAllocationSumExceedsTotalSupply) {
		t.Fatalf("expected ErrAllocationSumExceedsTotalSupply, got %v", err)
	}
}

func TestSealRequiresExactAllocationSum(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	result, err := f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 700},
	}, true)
	if !errors.Is(err, domainerrors.ErrAllocationSumMismatchAtSeal) {
		t.Fatalf("expected ErrAllocationSumMismatchAtSeal, got %v", err)
	}
	if result.Sealed {
		t.Fatalf("registry must not seal on a sum mismatch")
	}

	// The appends from the rejected seal still commit.
	entry := f.recipient("wallet-a")
	if entry.Allocation != 700 || entry.MonthlyAmount != 58 {
		t.Fatalf("unexpected committed entry: %+v", entry)
	}

	// Topping up to the exact total seals.
	result, err = f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-b", Allocation: 500},
	}, true)
	if err != nil {
		t.Fatalf("exact seal: %v", err)
	}
	if !result.Sealed {
		t.Fatalf("registry should seal at exact sum")
	}

	_, err = f.service.AddRecipients(context.Background(), testAdmin, testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-c", Allocation: 1},
	}, false)
	if !errors.Is(err, domainerrors.ErrRecipientsSealed) {
		t.Fatalf("expected ErrRecipientsSealed after sealing, got %v", err)
	}
}

func TestAddRecipientsRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.initSchedule()

	_, err := f.service.AddRecipients(context.Background(), "intruder", testScheduleID, []entities.RecipientInput{
		{Wallet: "wallet-a", Allocation: 100},
	}, false)
	if !errors.Is(err, domainerrors.ErrUnauthorizedAdmin) {
		t.Fatalf("expected ErrUnauthorizedAdmin, got %v", err)
	}
}

func TestQuoteIsSideEffectFree(t *testing.T) {
	f := newFixture(t)
	f.setupSealed()
	f.advanceTo(time.Date(2025, time.April, 15, 0, 0, 0, 0, time.UTC))

	before, err := f.store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}

	quote, err := f.service.Quote(context.Background(), testScheduleID, "wallet-a")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.MonthIndex != 2 {
		t.Fatalf("mid-april sits after two boundaries, got month index %d", quote.MonthIndex)
	}
	if quote.Releasable != 116 {
		t.Fatalf("expected 2*58 releasable, got %d", quote.Releasable)
	}

	after, err := f.store.ListPendingOutbox(context.Background(), 0)
	if err != nil {
		t.Fatalf("list outbox: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("quote appended %d outbox rows", len(after)-len(before))
	}
	if entry := f.recipient("wallet-a"); entry.ReleasedAmount != 0 {
		t.Fatalf("quote mutated released amount to %d", entry.ReleasedAmount)
	}
}

func TestQuoteBeforeStartFails(t *testing.T) {
	f := newFixture(t)
	f.setupSealed()

	_, err := f.service.Quote(context.Background(), testScheduleID, "wallet-a")
	if !errors.Is(err, domainerrors.ErrBeforeStart) {
		t.Fatalf("expected ErrBeforeStart, got %v", err)
	}
}
