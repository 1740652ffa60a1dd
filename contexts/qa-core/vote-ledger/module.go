package voteledger

import (
	"log/slog"

	httpadapter "quorum/contexts/qa-core/vote-ledger/adapters/http"
	"quorum/contexts/qa-core/vote-ledger/adapters/memory"
	"quorum/contexts/qa-core/vote-ledger/application/commands"
	"quorum/contexts/qa-core/vote-ledger/application/queries"
	"quorum/contexts/qa-core/vote-ledger/domain/entities"
	"quorum/contexts/qa-core/vote-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Votes  ports.VoteRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Votes:  deps.Votes,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	votesUseCase := queries.VotesUseCase{
		Votes: deps.Votes,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:  voteUseCase,
			Reads:  votesUseCase,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Vote, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Votes:  store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
