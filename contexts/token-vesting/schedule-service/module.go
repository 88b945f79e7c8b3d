package scheduleservice

import (
	"log/slog"

	"tranche/contexts/token-vesting/schedule-service/adapters/addressing"
	httpadapter "tranche/contexts/token-vesting/schedule-service/adapters/http"
	"tranche/contexts/token-vesting/schedule-service/adapters/memory"
	"tranche/contexts/token-vesting/schedule-service/application"
	"tranche/contexts/token-vesting/schedule-service/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
	Ledger  *memory.Ledger
}

type Dependencies struct {
	Repository  ports.Repository
	Ledger      ports.TokenLedger
	Addresses   ports.AddressDeriver
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:      deps.Repository,
		Ledger:    deps.Ledger,
		Addresses: deps.Addresses,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	ledger := memory.NewLedger()
	module := NewModule(Dependencies{
		Repository:  store,
		Ledger:      ledger,
		Addresses:   addressing.NewDeriver(""),
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	module.Ledger = ledger
	return module
}
