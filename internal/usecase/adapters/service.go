package adapters

import (
	"context"

	"browserflow/internal/entity"
)

type CompileService interface {
	Compile(ctx context.Context, lockfilePath, reviewPath string) (*entity.GeneratedTest, string, error)
	CompileDocument(ctx context.Context, lf entity.ExplorationLockfile, review *entity.ReviewData) (*entity.GeneratedTest, error)
}

type CandidateService interface {
	Candidates(ctx context.Context, query, source string) ([]entity.CandidateView, error)
	Rank(ctx context.Context, query string, snap entity.Snapshot) ([]entity.CandidateView, error)
	EmitLocator(ctx context.Context, d entity.LocatorDescriptor, opts entity.EmitOptions) (string, error)
}

type BaselineService interface {
	Capture(ctx context.Context, url, name string) (string, error)
}

type VisualService interface {
	Emit(ctx context.Context, req entity.VisualRequest) (string, error)
}
