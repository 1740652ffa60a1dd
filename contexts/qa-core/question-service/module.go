package questionservice

import (
	"log/slog"

	httpadapter "quorum/contexts/qa-core/question-service/adapters/http"
	"quorum/contexts/qa-core/question-service/adapters/memory"
	"quorum/contexts/qa-core/question-service/application/commands"
	"quorum/contexts/qa-core/question-service/application/queries"
	"quorum/contexts/qa-core/question-service/domain/entities"
	"quorum/contexts/qa-core/question-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Questions ports.QuestionRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	questionUseCase := commands.QuestionUseCase{
		Questions: deps.Questions,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	questionsUseCase := queries.QuestionsUseCase{
		Questions: deps.Questions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Questions: questionUseCase,
			Reads:     questionsUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Question, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Questions: store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
