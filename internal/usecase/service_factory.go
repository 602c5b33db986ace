package usecase

import (
	"browserflow/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateCompileService() adapters.CompileService {
	return NewCompileService(CompileServiceParams{
		Config: f.deps.Config,
		Logger: f.deps.Logger,
		Store:  f.deps.Store,
		Writer: f.deps.Writer,
	})
}

func (f *serviceFactory) CreateCandidateService() adapters.CandidateService {
	return NewCandidateService(CandidateServiceParams{
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
		Browser: f.deps.Browser,
		Files:   f.deps.Files,
	})
}

func (f *serviceFactory) CreateBaselineService() adapters.BaselineService {
	return NewBaselineService(BaselineServiceParams{
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
		Browser: f.deps.Browser,
	})
}

func (f *serviceFactory) CreateVisualService() adapters.VisualService {
	return NewVisualService(VisualServiceParams{
		Config: f.deps.Config,
		Logger: f.deps.Logger,
	})
}
