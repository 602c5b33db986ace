package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/config"
	"browserflow/internal/entity"
	"browserflow/internal/locator"
	"browserflow/internal/ports"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
	"browserflow/pkg/tracing"
)

const (
	candidateServiceName = "CandidateService"
	candidateTracer      = "usecase.candidates"
)

type CandidateService struct {
	config   *config.Config
	logger   *zap.Logger
	tracer   trace.Tracer
	resolver *locator.Resolver
	browser  ports.SnapshotSource
	files    ports.SnapshotSource
}

type CandidateServiceParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Browser ports.BrowserSession
	Files   ports.SnapshotSource
}

func NewCandidateService(params CandidateServiceParams) *CandidateService {
	maxCandidates := 0
	if params.Config.CompilerConfig != nil {
		maxCandidates = params.Config.CompilerConfig.MaxCandidates
	}

	return &CandidateService{
		config:   params.Config,
		logger:   params.Logger.With(zap.String(logg.Layer, candidateServiceName)),
		tracer:   otel.Tracer(candidateTracer),
		resolver: locator.NewResolver(maxCandidates),
		browser:  params.Browser,
		files:    params.Files,
	}
}

// Candidates snapshots source (an http(s) URL through the browser, anything
// else as a saved HTML file) and ranks locators for the element query describes.
func (s *CandidateService) Candidates(ctx context.Context, query, source string) (views []entity.CandidateView, err error) {
	const op = "Candidates"
	runID := uuid.NewString()
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.RunID, runID),
		zap.String(logg.Query, query),
	)

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("run_id", runID),
		attribute.String("source", source))
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(source) == "" {
		return nil, apperr.InvalidReqError(op, "source", errors.New("snapshot source cannot be empty"))
	}

	snapshots := s.files
	if isURL(source) {
		snapshots = s.browser
	}

	snap, err := snapshots.Capture(ctx, source)
	if err != nil {
		return nil, err
	}

	step.AddEvent("snapshot captured", attribute.Int("elements", len(snap.Elements)))

	return s.Rank(ctx, query, *snap)
}

// Rank resolves candidates against an in-memory snapshot and emits code for each.
func (s *CandidateService) Rank(ctx context.Context, query string, snap entity.Snapshot) (views []entity.CandidateView, err error) {
	const op = "Rank"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Query, query))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("query", query),
		attribute.Int("elements", len(snap.Elements)))
	defer func() {
		step.End(err)
	}()

	if strings.TrimSpace(query) == "" {
		return nil, apperr.InvalidReqError(op, "query", errors.New("query cannot be empty"))
	}

	candidates := s.resolver.ResolveCandidates(query, snap)
	views = make([]entity.CandidateView, 0, len(candidates))
	opts := entity.EmitOptions{PageVariable: s.pageVariable()}

	for _, c := range candidates {
		code, err := s.EmitLocator(ctx, c.Descriptor, opts)
		if err != nil {
			return nil, err
		}

		views = append(views, entity.CandidateView{LocatorCandidate: c, Code: code})
	}

	logger.Info("Candidates ranked", zap.Int(logg.Candidates, len(views)))

	return views, nil
}

// EmitLocator renders d, defaulting the page variable to the configured one.
func (s *CandidateService) EmitLocator(_ context.Context, d entity.LocatorDescriptor, opts entity.EmitOptions) (string, error) {
	if opts.PageVariable == "" {
		opts.PageVariable = s.pageVariable()
	}

	return locator.Emit(d, opts)
}

func (s *CandidateService) pageVariable() string {
	if s.config.CompilerConfig != nil && s.config.CompilerConfig.PageVariable != "" {
		return s.config.CompilerConfig.PageVariable
	}

	return entity.DefaultPageVariable
}

func isURL(source string) bool {
	lower := strings.ToLower(source)

	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
