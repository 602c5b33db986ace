// Package httpapi exposes the compiler and locator tooling over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"browserflow/internal/entity"
	"browserflow/internal/usecase"
	"browserflow/pkg/apperr"
	"browserflow/pkg/logg"
	"browserflow/pkg/tracing"
)

const (
	handlerName = "HTTPHandler"
	httpTracer  = "httpapi"

	maxBodyBytes = 8 << 20
)

type Handler struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	usecase *usecase.Service
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewHandler(params Params) *Handler {
	return &Handler{
		logger:  params.Logger.With(zap.String(logg.Layer, handlerName)),
		tracer:  otel.Tracer(httpTracer),
		usecase: params.Usecase,
	}
}

// Router returns a chi router with every endpoint mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	h.RegisterHTTP(r)

	return r
}

func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/compile", h.handleCompile)
		r.Post("/candidates", h.handleCandidates)
		r.Post("/locators/emit", h.handleEmitLocator)
		r.Post("/visual/emit", h.handleEmitVisual)
	})
}

type compileRequest struct {
	Lockfile *entity.ExplorationLockfile `json:"lockfile"`
	Review   *entity.ReviewData          `json:"review,omitempty"`
}

type candidatesRequest struct {
	Query    string           `json:"query"`
	Source   string           `json:"source,omitempty"`
	Snapshot *entity.Snapshot `json:"snapshot,omitempty"`
}

type candidatesResponse struct {
	Candidates []entity.CandidateView `json:"candidates"`
}

type emitLocatorRequest struct {
	Descriptor entity.LocatorDescriptor `json:"descriptor"`
	Options    entity.EmitOptions       `json:"options"`
}

type codeResponse struct {
	Code string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCompile(w http.ResponseWriter, r *http.Request) {
	const op = "handleCompile"
	logger := h.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(r.Context(), h.tracer, logger, op)

	var err error
	defer func() {
		step.End(err)
	}()

	var req compileRequest
	if err = decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	if req.Lockfile == nil {
		err = apperr.InvalidReqError(op, "lockfile", errors.New("lockfile is required"))
		h.writeError(w, err)

		return
	}

	step.SetAttributes(attribute.String("spec_name", req.Lockfile.SpecName))

	test, err := h.usecase.Compile.CompileDocument(ctx, *req.Lockfile, req.Review)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, test)
}

func (h *Handler) handleCandidates(w http.ResponseWriter, r *http.Request) {
	const op = "handleCandidates"
	logger := h.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(r.Context(), h.tracer, logger, op)

	var err error
	defer func() {
		step.End(err)
	}()

	var req candidatesRequest
	if err = decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	var views []entity.CandidateView

	if req.Snapshot != nil {
		views, err = h.usecase.Candidates.Rank(ctx, req.Query, *req.Snapshot)
	} else {
		views, err = h.usecase.Candidates.Candidates(ctx, req.Query, req.Source)
	}

	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, candidatesResponse{Candidates: views})
}

func (h *Handler) handleEmitLocator(w http.ResponseWriter, r *http.Request) {
	var req emitLocatorRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	code, err := h.usecase.Candidates.EmitLocator(r.Context(), req.Descriptor, req.Options)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, codeResponse{Code: code})
}

func (h *Handler) handleEmitVisual(w http.ResponseWriter, r *http.Request) {
	var req entity.VisualRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	code, err := h.usecase.Visual.Emit(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, codeResponse{Code: code})
}

func decode(r *http.Request, out any) error {
	const op = "decode"

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(out); err != nil {
		return apperr.WrapWithReason(op, apperr.CodeDecodeFailed, fmt.Errorf("decode request body: %w", err), "malformed_body")
	}

	return nil
}

// StatusOf maps an error code to the HTTP status returned to clients.
func StatusOf(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeInvalidArgument, apperr.CodeDecodeFailed:
		return http.StatusBadRequest
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeCompileFailed:
		return http.StatusUnprocessableEntity
	case apperr.CodeUnavailable, apperr.CodeBrowserNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}

	h.writeJSON(w, status, errorResponse{Error: err.Error(), Code: apperr.CodeOf(err)})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}
