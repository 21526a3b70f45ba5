/*
handlers.go - HTTP handlers for the scoring pipeline

ENDPOINTS:

	GET    /api/health          Liveness and data vintage
	POST   /api/score           Score one policy
	POST   /api/distribution    Score and allocate across income groups
	POST   /api/compare         Score a base policy against alternatives
	POST   /api/solve           Find the rate change that hits a target
	GET    /api/runs            Recent saved runs
	GET    /api/runs/{id}       One saved run with its full result

ERROR HANDLING:

	Errors are JSON {error, details}:
	- 400: invalid policy parameters or malformed body
	- 404: unknown run
	- 422: data unavailable, degenerate numerics, unreachable target
	- 503: run history disabled
	- 500: anything else
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/laurencehw/fiscal-policy-calculator/internal/breakeven"
	"github.com/laurencehw/fiscal-policy-calculator/internal/compare"
	"github.com/laurencehw/fiscal-policy-calculator/internal/config"
	"github.com/laurencehw/fiscal-policy-calculator/internal/data"
	"github.com/laurencehw/fiscal-policy-calculator/internal/distribution"
	"github.com/laurencehw/fiscal-policy-calculator/internal/domain"
	"github.com/laurencehw/fiscal-policy-calculator/internal/scoring"
	"github.com/laurencehw/fiscal-policy-calculator/internal/store/sqlite"
	"github.com/laurencehw/fiscal-policy-calculator/internal/transform"
)

const (
	maxBodyBytes     = 1 << 20
	defaultHorizon   = 10
	defaultRunsLimit = 20
)

// Version is reported by the health endpoint.
var Version = "dev"

// Handler holds the collaborators every endpoint needs. Store is optional;
// when nil, runs are not saved and the /runs endpoints answer 503.
type Handler struct {
	Scorer      *scoring.Scorer
	Baselines   data.BaselineProvider
	Distributor *distribution.Engine
	Comparer    *compare.CompareEngine
	Solver      *breakeven.Solver
	Transforms  *transform.TransformRegistry
	Parser      *config.InputParser
	Store       *sqlite.Store
	Horizon     int
	Logger      *slog.Logger
}

// NewHandler wires the default CBO baseline and SOI tables around scorer.
func NewHandler(scorer *scoring.Scorer, store *sqlite.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Scorer:      scorer,
		Baselines:   data.NewCBOBaseline(),
		Distributor: distribution.NewEngine(data.NewSOIGroups(data.DefaultSOITable(), scorer.Config().DataYear)),
		Comparer:    compare.NewCompareEngine(scorer),
		Solver:      breakeven.NewDefaultSolver(scorer),
		Transforms:  transform.NewTransformRegistry(),
		Parser:      config.NewInputParser(),
		Store:       store,
		Horizon:     defaultHorizon,
		Logger:      logger,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeFailure maps a pipeline error to its status code.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var be *breakeven.BreakEvenError
	switch {
	case domain.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid policy", err)
	case domain.IsDataUnavailable(err):
		writeError(w, http.StatusUnprocessableEntity, "Data unavailable", err)
	case domain.IsNumericDegenerate(err):
		writeError(w, http.StatusUnprocessableEntity, "Degenerate input", err)
	case errors.Is(err, sqlite.ErrRunNotFound):
		writeError(w, http.StatusNotFound, "Run not found", err)
	case errors.As(err, &be) && be.Cause == nil:
		writeError(w, http.StatusUnprocessableEntity, "No solution", err)
	default:
		h.Logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

func (h *Handler) horizon() int {
	if h.Horizon > 0 {
		return h.Horizon
	}
	return defaultHorizon
}

// policy converts spec and applies any transform specs in order.
func (h *Handler) policy(spec config.PolicySpec, transforms []string) (domain.Policy, error) {
	p, err := h.Parser.ToPolicy(spec)
	if err != nil {
		return domain.Policy{}, err
	}
	if len(transforms) == 0 {
		return p, nil
	}
	ts, err := h.Transforms.ParseTransformSpecs(transforms)
	if err != nil {
		return domain.Policy{}, domain.NewPolicyError(spec.Name, "transforms", err.Error())
	}
	return transform.ApplyTransforms(p, ts)
}

func (h *Handler) baseline(start int) (domain.Baseline, error) {
	return h.Baselines.Baseline(start, h.horizon())
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Version:    Version,
		DataYear:   h.Scorer.Config().DataYear,
		RunHistory: h.Store != nil,
	})
}

// Score scores one policy and saves the run when history is enabled. The
// saved run id is returned in the X-Run-ID header.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.policy(req.Policy, req.Transforms)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	start := req.StartYear
	if start == 0 {
		start = p.StartYear
	}
	baseline, err := h.baseline(start)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	opts := scoring.Options{Dynamic: req.Dynamic, Uncertainty: req.Uncertainty == nil || *req.Uncertainty}
	result, err := h.Scorer.Score(r.Context(), p, baseline, opts)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	if h.Store != nil {
		run, err := h.Store.SaveRun(r.Context(), result, "api")
		if err != nil {
			h.Logger.Warn("failed to save run", "policy", p.Name, "error", err)
		} else {
			w.Header().Set("X-Run-ID", run.ID)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

// Distribution scores a policy and allocates its effect across income groups.
func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	var req DistributionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.policy(req.Policy, nil)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	scheme := domain.GroupScheme(req.Scheme)
	if scheme == "" {
		scheme = domain.SchemeQuintile
		if len(req.Custom) > 0 {
			scheme = domain.SchemeCustom
		}
	}
	switch scheme {
	case domain.SchemeQuintile, domain.SchemeDecile, domain.SchemeJCTDollar, domain.SchemeTopIncome, domain.SchemeCustom:
	default:
		writeError(w, http.StatusBadRequest, "Invalid request body", fmt.Errorf("unknown scheme %q", scheme))
		return
	}

	baseline, err := h.baseline(p.StartYear)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	result, err := h.Scorer.Score(r.Context(), p, baseline, scoring.Options{Dynamic: req.Dynamic})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	analysis, err := h.Distributor.Analyze(p, result, scheme, distribution.Options{Year: req.Year, Custom: req.bounds()})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Compare scores the first policy as the base and the rest, plus any
// template variants, as alternatives.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Policies) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid request body", errors.New("at least one policy is required"))
		return
	}

	policies := make([]domain.Policy, len(req.Policies))
	for i, spec := range req.Policies {
		p, err := h.policy(spec, nil)
		if err != nil {
			h.writeFailure(w, r, fmt.Errorf("policy %d: %w", i+1, err))
			return
		}
		policies[i] = p
	}

	start := req.StartYear
	if start == 0 {
		start = policies[0].StartYear
	}
	baseline, err := h.baseline(start)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	set, err := h.Comparer.Compare(r.Context(), policies, baseline, compare.CompareOptions{
		Scoring:   scoring.Options{Dynamic: req.Dynamic},
		Templates: req.Templates,
	})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// Solve finds the rate change that moves the ten-year final total to target.
func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.policy(req.Policy, nil)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	baseline, err := h.baseline(p.StartYear)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	result, err := h.Solver.Solve(r.Context(), breakeven.Request{
		Policy:   p,
		Baseline: baseline,
		Target:   req.Target,
		Min:      req.Min,
		Max:      req.Max,
		Dynamic:  req.Dynamic,
	})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListRuns returns recent runs. Query: limit (default 20, 0 for all).
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "Run history is disabled", nil)
		return
	}
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	runs, err := h.Store.ListRuns(r.Context(), limit)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	if runs == nil {
		runs = []sqlite.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun returns one run with its full result.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "Run history is disabled", nil)
		return
	}
	run, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}
