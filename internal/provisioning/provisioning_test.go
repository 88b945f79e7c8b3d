package provisioning

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"tranche/contexts/token-vesting/schedule-service/adapters/addressing"
	"tranche/contexts/token-vesting/schedule-service/adapters/memory"
	"tranche/contexts/token-vesting/schedule-service/application"
)

func TestParseAllocationCSVSkipsHeader(t *testing.T) {
	input := "wallet,amount\nwallet-a,700\nwallet-b,500\n"
	rows, err := ParseAllocationCSV(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	if rows[0].Wallet != "wallet-a" || rows[0].Allocation != 700 {
		t.Fatalf("row 0 = %+v", rows[0])
	}
}

func TestParseAllocationCSVScalesToBaseUnits(t *testing.T) {
	rows, err := ParseAllocationCSV(strings.NewReader("wallet-a,1.5\n"), 9)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if rows[0].Allocation != 1_500_000_000 {
		t.Fatalf("allocation %d, want 1.5 tokens at 9 decimals", rows[0].Allocation)
	}
}

func TestParseAllocationCSVRejectsFractionalBaseUnits(t *testing.T) {
	if _, err := ParseAllocationCSV(strings.NewReader("wallet-a,0.1234567891\n"), 9); err == nil {
		t.Fatal("sub-base-unit amount must be rejected")
	}
}

func TestParseAllocationCSVRejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"duplicate wallet": "wallet-a,1\nwallet-a,2\n",
		"zero amount":      "wallet-a,0\n",
		"negative amount":  "wallet-a,-5\n",
		"empty wallet":     " ,5\n",
		"no rows":          "wallet,amount\n",
	}
	for name, input := range cases {
		if _, err := ParseAllocationCSV(strings.NewReader(input), 0); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestParseAllocationCSVRejectsOversizedRegistry(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 36; i++ {
		fmt.Fprintf(&b, "wallet-%d,10\n", i)
	}
	if _, err := ParseAllocationCSV(strings.NewReader(b.String()), 0); err == nil {
		t.Fatal("36 rows must exceed the registry capacity")
	}
}

type provisioningClock struct {
	now time.Time
}

func (c *provisioningClock) Now() time.Time { return c.now }

func TestProvisionerRegistersInChunksAndSeals(t *testing.T) {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	deriver := addressing.NewDeriver("")
	start := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	service := application.Service{
		Repo:      store,
		Ledger:    ledger,
		Addresses: deriver,
		Outbox:    store,
		Clock:     &provisioningClock{now: start.AddDate(0, 0, -30)},
		IDGen:     store,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ctx := context.Background()
	if _, err := service.InitializeSchedule(ctx, "admin-1", application.InitializeScheduleInput{
		ScheduleID:  "sched-1",
		Mint:        "mint-1",
		Distributor: "dist-1",
		StartAt:     start,
		TotalSupply: 70,
	}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	rows := make([]Row, 0, 7)
	for i := 0; i < 7; i++ {
		rows = append(rows, Row{Wallet: fmt.Sprintf("wallet-%d", i), Allocation: 10})
	}

	provisioner := Provisioner{
		Service:   service,
		Ledger:    ledger,
		Addresses: deriver,
		ChunkSize: 3,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := provisioner.Register(ctx, "admin-1", "sched-1", rows, true); err != nil {
		t.Fatalf("register: %v", err)
	}

	schedule, err := store.GetSchedule(ctx, "sched-1")
	if err != nil {
		t.Fatalf("get schedule: %v", err)
	}
	if schedule.RecipientCount != 7 {
		t.Fatalf("recipient count %d, want 7", schedule.RecipientCount)
	}
	if !schedule.Sealed {
		t.Fatal("final chunk must seal the registry")
	}

	for _, row := range rows {
		receiving := deriver.ReceivingAddress("mint-1", row.Wallet)
		account, err := ledger.GetAccount(ctx, receiving)
		if err != nil {
			t.Fatalf("receiving account for %s: %v", row.Wallet, err)
		}
		if account.Owner != row.Wallet {
			t.Fatalf("receiving account owner %q, want %q", account.Owner, row.Wallet)
		}
	}
}
