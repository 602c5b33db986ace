package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/entity"
	"browserflow/internal/locator"
	"browserflow/internal/visual"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
	"browserflow/pkg/tracing"
)

const (
	visualServiceName = "VisualService"
	visualTracer      = "usecase.visual"
)

type VisualService struct {
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer
}

type VisualServiceParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewVisualService(params VisualServiceParams) *VisualService {
	return &VisualService{
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, visualServiceName)),
		tracer: otel.Tracer(visualTracer),
	}
}

// Emit renders screenshot assertion, capture or comparison code.
func (s *VisualService) Emit(ctx context.Context, req entity.VisualRequest) (code string, err error) {
	const op = "EmitVisual"
	logger := s.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("mode", string(req.Mode)))
	defer func() {
		step.End(err)
	}()

	opts := entity.EmitOptions{PageVariable: req.Page}
	if opts.PageVariable == "" && s.config.CompilerConfig != nil {
		opts.PageVariable = s.config.CompilerConfig.PageVariable
	}

	switch req.Mode {
	case entity.VisualAssert, "":
		if req.Locator == nil {
			return visual.EmitScreenshotAssertion(req.Directive, opts), nil
		}

		target, err := locator.Emit(*req.Locator, opts)
		if err != nil {
			return "", err
		}

		return visual.EmitElementScreenshotAssertion(target, req.Directive, opts), nil

	case entity.VisualCapture:
		return visual.EmitScreenshotCapture(req.Directive, s.baselinesPath(), opts), nil

	case entity.VisualCompare:
		threshold := -1.0
		switch {
		case req.Threshold != nil:
			threshold = *req.Threshold
		case s.config.CompilerConfig != nil:
			threshold = s.config.CompilerConfig.CompareThreshold
		}

		return visual.EmitComparison(req.Baseline, req.Actual, threshold), nil

	default:
		return "", apperr.InvalidReqError(op, "mode", fmt.Errorf("unknown visual mode %q", req.Mode))
	}
}

func (s *VisualService) baselinesPath() string {
	if s.config.CompilerConfig == nil {
		return ""
	}

	return s.config.CompilerConfig.BaselinesPath
}
