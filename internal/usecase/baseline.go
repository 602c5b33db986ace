package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/ports"
	"browserflow/internal/visual"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
	"browserflow/pkg/tracing"
)

const (
	baselineServiceName = "BaselineService"
	baselineTracer      = "usecase.baseline"
	defaultBaselinesDir = "baselines"
)

type BaselineService struct {
	config  *config.Config
	logger  *zap.Logger
	tracer  trace.Tracer
	browser ports.BrowserSession
}

type BaselineServiceParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Browser ports.BrowserSession
}

func NewBaselineService(params BaselineServiceParams) *BaselineService {
	return &BaselineService{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, baselineServiceName)),
		tracer:  otel.Tracer(baselineTracer),
		browser: params.Browser,
	}
}

// Capture opens url and stores a PNG baseline named name under the baselines
// directory. It returns the written path.
func (s *BaselineService) Capture(ctx context.Context, url, name string) (path string, err error) {
	const op = "CaptureBaseline"
	runID := uuid.NewString()
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.RunID, runID),
		zap.String(logg.URL, url),
	)

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("run_id", runID),
		attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if !isURL(url) {
		return "", apperr.InvalidReqError(op, "url", errors.New("baseline source must be an http(s) URL"))
	}

	if strings.TrimSpace(name) == "" {
		return "", apperr.InvalidReqError(op, "name", errors.New("baseline name cannot be empty"))
	}

	if _, err := s.browser.Capture(ctx, url); err != nil {
		return "", err
	}

	dir := s.baselinesDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "mkdir_failed",
			apperr.MetaStage:  apperr.StageStorage,
			apperr.MetaPath:   dir,
		})
	}

	path = filepath.Join(dir, visual.NormalizeName(name))

	if err := s.browser.Screenshot(ctx, path); err != nil {
		return "", err
	}

	logger.Info("Baseline captured", zap.String(logg.Path, path))

	return path, nil
}

func (s *BaselineService) baselinesDir() string {
	if s.config.CompilerConfig != nil && s.config.CompilerConfig.BaselinesPath != "" {
		return s.config.CompilerConfig.BaselinesPath
	}

	return defaultBaselinesDir
}
