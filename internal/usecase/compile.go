package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/compiler"
	"browserflow/internal/config"
	"browserflow/internal/entity"
	"browserflow/internal/ports"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
	"browserflow/pkg/tracing"
)

const (
	compileServiceName = "CompileService"
	compileTracer      = "usecase.compile"
)

type CompileService struct {
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
	store  ports.LockfileStore
	writer ports.TestWriter
	now    func() time.Time
}

type CompileServiceParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Store  ports.LockfileStore
	Writer ports.TestWriter
}

func NewCompileService(params CompileServiceParams) *CompileService {
	return &CompileService{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, compileServiceName)),
		tracer: otel.Tracer(compileTracer),
		store:  params.Store,
		writer: params.Writer,
		now:    time.Now,
	}
}

// Compile loads a lockfile (and optional review), compiles it and writes the
// test file. It returns the generated test and the path written.
func (s *CompileService) Compile(ctx context.Context, lockfilePath, reviewPath string) (test *entity.GeneratedTest, written string, err error) {
	const op = "Compile"
	runID := uuid.NewString()
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.RunID, runID),
		zap.String(logg.Path, lockfilePath),
	)

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("run_id", runID),
		attribute.String("lockfile", lockfilePath))
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(lockfilePath) == "" {
		return nil, "", apperr.InvalidReqError(op, "lockfile", errors.New("lockfile path cannot be empty"))
	}

	lf, err := s.store.LoadLockfile(ctx, lockfilePath)
	if err != nil {
		return nil, "", err
	}

	step.AddEvent("lockfile loaded", attribute.Int("steps", len(lf.Steps)))

	var review *entity.ReviewData

	if reviewPath != "" {
		review, err = s.store.LoadReview(ctx, reviewPath)
		if err != nil {
			return nil, "", err
		}

		step.AddEvent("review loaded")
	}

	test, err = s.CompileDocument(ctx, *lf, review)
	if err != nil {
		return nil, "", err
	}

	written, err = s.writer.WriteTest(ctx, test)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Lockfile compiled",
		zap.String(logg.SpecName, lf.SpecName),
		zap.String("written", written))

	return test, written, nil
}

// CompileDocument compiles an in-memory lockfile without touching the disk.
func (s *CompileService) CompileDocument(ctx context.Context, lf entity.ExplorationLockfile, review *entity.ReviewData) (test *entity.GeneratedTest, err error) {
	const op = "CompileDocument"
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.SpecName, lf.SpecName),
	)

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("spec_name", lf.SpecName),
		attribute.Int("steps", len(lf.Steps)),
		attribute.Bool("reviewed", review != nil))
	defer func() {
		step.End(err)
	}()

	test, err = compiler.Compile(lf, s.Options(), review)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			logger.Warn("Step failed to compile",
				zap.Any(logg.Step, appErr.Metadata[apperr.MetaStep]),
				zap.Any(logg.Action, appErr.Metadata[apperr.MetaAction]),
				zap.Error(err))
		}

		return nil, err
	}

	logger.Debug("Test generated", zap.String(logg.Path, test.Path), zap.Int("bytes", len(test.Content)))

	return test, nil
}

// Options derives compiler options from configuration.
func (s *CompileService) Options() compiler.Options {
	opts := compiler.DefaultOptions()
	opts.GeneratedAt = s.now().UTC()

	if c := s.config.CompilerConfig; c != nil {
		if c.PageVariable != "" {
			opts.PageVariable = c.PageVariable
		}

		if c.OutputDir != "" {
			opts.OutputDir = c.OutputDir
		}

		opts.IncludeComments = c.IncludeComments
	}

	return opts
}
