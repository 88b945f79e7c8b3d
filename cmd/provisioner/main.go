package main

import (
	"log"
	"log/slog"
	"os"

	scheduleservice "tranche/contexts/token-vesting/schedule-service"
	"tranche/contexts/token-vesting/schedule-service/adapters/addressing"
	postgresadapter "tranche/contexts/token-vesting/schedule-service/adapters/postgres"
	"tranche/internal/platform/db"
	"tranche/internal/provisioning"

	"github.com/urfave/cli/v2"
)

// Provisioner entrypoint: bulk-register recipients for one schedule from an
// allocation CSV.
func main() {
	app := &cli.App{
		Name:  "tranche-provisioner",
		Usage: "register vesting recipients from an allocation csv",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres_dsn", Usage: "postgres dsn", EnvVars: []string{"POSTGRES_DSN"}, Required: true},
			&cli.StringFlag{Name: "schedule_id", Usage: "target schedule id", EnvVars: []string{"VESTING_SCHEDULE_ID"}, Required: true},
			&cli.StringFlag{Name: "admin", Usage: "schedule admin identity", EnvVars: []string{"VESTING_ADMIN"}, Required: true},
			&cli.StringFlag{Name: "csv", Usage: "allocation csv path (wallet,amount)", Required: true},
			&cli.IntFlag{Name: "decimals", Value: 9, Usage: "mint decimal places", EnvVars: []string{"MINT_DECIMALS"}},
			&cli.IntFlag{Name: "chunk_size", Value: provisioning.DefaultChunkSize, Usage: "recipients per registration call"},
			&cli.BoolFlag{Name: "seal", Value: false, Usage: "seal the registry with the final chunk"},
			&cli.StringFlag{Name: "namespace", Usage: "address derivation namespace", EnvVars: []string{"ADDRESS_NAMESPACE"}},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	logger := slog.Default().With("service", "tranche", "process", "provisioner")

	pg, err := db.Connect(c.String("postgres_dsn"))
	if err != nil {
		return err
	}
	defer func() {
		if err := pg.Close(); err != nil {
			logger.Warn("postgres close failed", "error", err.Error())
		}
	}()

	// The durable ledger shares the schedule database: receiving accounts
	// created here are the ones the api and worker release into.
	repo := postgresadapter.NewRepository(pg.DB, logger)
	ledger := postgresadapter.NewLedger(pg.DB, logger)
	deriver := addressing.NewDeriver(c.String("namespace"))
	module := scheduleservice.NewModule(scheduleservice.Dependencies{
		Repository:  repo,
		Ledger:      ledger,
		Addresses:   deriver,
		Outbox:      repo,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Logger:      logger,
	})

	file, err := os.Open(c.String("csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	rows, err := provisioning.ParseAllocationCSV(file, int32(c.Int("decimals")))
	if err != nil {
		return err
	}

	provisioner := provisioning.Provisioner{
		Service:   module.Service,
		Ledger:    ledger,
		Addresses: deriver,
		ChunkSize: c.Int("chunk_size"),
		Logger:    logger,
	}
	return provisioner.Register(c.Context, c.String("admin"), c.String("schedule_id"), rows, c.Bool("seal"))
}
