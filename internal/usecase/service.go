package usecase

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/ports"
	"browserflow/internal/usecase/adapters"
)

type Service struct {
	Compile    adapters.CompileService
	Candidates adapters.CandidateService
	Baselines  adapters.BaselineService
	Visual     adapters.VisualService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Store   ports.LockfileStore
	Writer  ports.TestWriter
	Browser ports.BrowserSession
	Files   ports.SnapshotSource
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Compile:    factory.CreateCompileService(),
		Candidates: factory.CreateCandidateService(),
		Baselines:  factory.CreateBaselineService(),
		Visual:     factory.CreateVisualService(),
	}
}
