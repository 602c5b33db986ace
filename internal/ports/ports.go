package ports

import (
	"context"

	"browserflow/internal/entity"
)

type LockfileStore interface {
	LoadLockfile(ctx context.Context, path string) (*entity.ExplorationLockfile, error)
	LoadReview(ctx context.Context, path string) (*entity.ReviewData, error)
}

type TestWriter interface {
	WriteTest(ctx context.Context, test *entity.GeneratedTest) (string, error)
}

// SnapshotSource produces an element snapshot of a page. The target is
// interpreted by the implementation (a URL, a file path).
type SnapshotSource interface {
	Capture(ctx context.Context, target string) (*entity.Snapshot, error)
}

type BrowserSession interface {
	SnapshotSource

	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	Screenshot(ctx context.Context, path string) error
	IsReady() bool
}
