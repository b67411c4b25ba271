// Package server exposes the water engine and saved history over a JSON
// HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/brew-water/internal/blend"
	"github.com/iwvelando/brew-water/internal/history"
	"github.com/iwvelando/brew-water/internal/optimizer"
	"github.com/iwvelando/brew-water/pkg/constants"
	"github.com/iwvelando/brew-water/pkg/evaluation"
	"github.com/iwvelando/brew-water/pkg/optimization"
	"github.com/iwvelando/brew-water/pkg/reading"
	"github.com/iwvelando/brew-water/pkg/standards"
	"github.com/iwvelando/brew-water/pkg/validation"
	"github.com/iwvelando/brew-water/pkg/water"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Store is the persistence the API needs. *history.Store satisfies it.
type Store interface {
	SaveProfile(ctx context.Context, name string, p water.Profile) (history.Record, error)
	SaveResult(ctx context.Context, kind, name string, payload any) (history.Record, error)
	Get(ctx context.Context, id string) (history.Record, error)
	GetProfile(ctx context.Context, id string) (water.Profile, error)
	ListProfiles(ctx context.Context, limit int) ([]history.Record, error)
}

var errNoStore = errors.New("server: history is not configured")

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
	store          Store
	evaluator      *evaluation.Evaluator
	optimizer      *optimizer.Optimizer
	blender        *blend.Blender
	metrics        *metrics
}

// NewHandler constructs the HTTP handler that serves the water API. A nil
// store disables saving and the profile endpoints.
func NewHandler(logger *zap.Logger, maxRequestSize int64, version string, store Store) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	table := standards.Default()
	evaluator := evaluation.NewEvaluator(table)
	h := &handler{
		logger:         logger,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
		store:          store,
		evaluator:      evaluator,
		optimizer:      optimizer.New(logger, table),
		blender:        blend.New(logger, evaluator),
		metrics:        newMetrics(),
	}

	mux := http.NewServeMux()

	// Scoring of a single profile
	mux.Handle("/api/evaluate", h.instrument("evaluate", h.handleEvaluate))

	// Drop recommendations
	mux.Handle("/api/optimize", h.instrument("optimize", h.handleOptimize))

	// Mixing two profiles
	mux.Handle("/api/blend", h.instrument("blend", h.handleBlend))

	// Saved profiles
	mux.Handle("/api/profiles", h.instrument("profiles", h.handleProfiles))
	mux.Handle("/api/profiles/{id}", h.instrument("profile", h.handleProfile))

	// Solution catalog with prep instructions
	mux.Handle("/api/solutions", h.instrument("solutions", h.handleSolutions))

	// Version endpoint for client metadata
	mux.Handle("/api/version", h.instrument("version", h.handleVersion))

	mux.Handle("/metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))

	return mux
}

// profileInput is a profile as sent by clients. A missing pH reads as 7 and a
// missing tds as the mineral sum.
type profileInput struct {
	Calcium     float64  `json:"calcium"`
	Magnesium   float64  `json:"magnesium"`
	Sodium      float64  `json:"sodium"`
	Bicarbonate float64  `json:"bicarbonate"`
	PH          *float64 `json:"ph,omitempty"`
	TDS         *float64 `json:"tds,omitempty"`
}

func (in profileInput) profile() water.Profile {
	p := water.New(in.Calcium, in.Magnesium, in.Sodium, in.Bicarbonate)
	if in.PH != nil {
		p.PH = *in.PH
	}
	if in.TDS != nil {
		p.TDS = *in.TDS
	}
	return p
}

type evaluateRequest struct {
	Name    string       `json:"name"`
	Profile profileInput `json:"profile"`
	Save    bool         `json:"save"`
}

type evaluateResponse struct {
	ID         string                       `json:"id,omitempty"`
	Name       string                       `json:"name,omitempty"`
	Profile    water.Profile                `json:"profile"`
	Hardness   float64                      `json:"hardness"`
	Alkalinity float64                      `json:"alkalinity"`
	Score      evaluation.Score             `json:"score"`
	Breakdown  []evaluation.ParameterResult `json:"breakdown"`
	Warnings   []string                     `json:"warnings,omitempty"`
}

type optimizeRequest struct {
	Name              string        `json:"name"`
	Current           profileInput  `json:"current"`
	Target            *profileInput `json:"target,omitempty"`
	AlkalinityCarrier string        `json:"alkalinityCarrier,omitempty"`
	Save              bool          `json:"save"`
}

type optimizeResponse struct {
	ID        string              `json:"id,omitempty"`
	Result    optimization.Result `json:"result"`
	Score     evaluation.Score    `json:"score"`
	Projected evaluation.Score    `json:"projected"`
}

type blendRequest struct {
	Name    string        `json:"name"`
	A       *profileInput `json:"a,omitempty"`
	AID     string        `json:"aId,omitempty"`
	VolumeA float64       `json:"volumeA"`
	B       *profileInput `json:"b,omitempty"`
	BID     string        `json:"bId,omitempty"`
	VolumeB float64       `json:"volumeB"`
	Save    bool          `json:"save"`
}

type blendResponse struct {
	ID     string       `json:"id,omitempty"`
	Result blend.Result `json:"result"`
}

type saveProfileRequest struct {
	Name    string       `json:"name"`
	Profile profileInput `json:"profile"`
}

type profileRecord struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Profile   water.Profile `json:"profile"`
}

type solutionInfo struct {
	water.Solution
	PrepInstructions string `json:"prepInstructions"`
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req evaluateRequest
	if isJSON(r) {
		if !h.decodeJSON(w, r, &req, op) {
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
		if err := r.ParseForm(); err != nil {
			h.respondRequestError(w, err, op)
			return
		}
		fields := make(map[string]string, len(r.PostForm))
		for key := range r.PostForm {
			fields[key] = r.PostForm.Get(key)
		}
		p := reading.ParseProfile(fields)
		req.Name = r.PostForm.Get("name")
		req.Save = coerceBool(r.PostForm.Get("save"))
		req.Profile = profileInput{
			Calcium:     p.Calcium,
			Magnesium:   p.Magnesium,
			Sodium:      p.Sodium,
			Bicarbonate: p.Bicarbonate,
			PH:          &p.PH,
			TDS:         &p.TDS,
		}
	}

	p := req.Profile.profile()
	score := h.evaluator.ScoreProfile(p)
	h.metrics.scores.WithLabelValues(score.Status.String()).Inc()

	resp := evaluateResponse{
		Name:       req.Name,
		Profile:    p,
		Hardness:   p.Hardness(),
		Alkalinity: p.Alkalinity(),
		Score:      score,
		Breakdown:  h.evaluator.Breakdown(p),
		Warnings:   validation.ValidateProfile(displayName(req.Name, "request"), p),
	}

	if req.Save {
		rec, err := h.save(r.Context(), history.KindEvaluate, req.Name, resp)
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		resp.ID = rec.ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req optimizeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	opts := []optimizer.Option{}
	if carrier := strings.TrimSpace(req.AlkalinityCarrier); carrier != "" {
		solution, err := water.FindByName(water.Catalog(), carrier)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		opts = append(opts, optimizer.WithAlkalinityCarrier(solution.Name))
	}
	if req.Target != nil {
		opts = append(opts, optimizer.WithTarget(req.Target.profile()))
	}

	current := req.Current.profile()
	result := h.optimizer.Optimize(current, opts...)
	h.metrics.drops.Observe(float64(result.TotalDrops()))

	resp := optimizeResponse{
		Result:    result,
		Score:     h.evaluator.ScoreProfile(current),
		Projected: h.evaluator.ScoreProfile(result.Achievable),
	}

	if req.Save {
		rec, err := h.save(r.Context(), history.KindOptimize, req.Name, resp)
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		resp.ID = rec.ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleBlend(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBlend"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req blendRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	a, err := h.resolveProfile(r.Context(), "a", req.A, req.AID)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	b, err := h.resolveProfile(r.Context(), "b", req.B, req.BID)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	result, err := h.blender.Blend(a, req.VolumeA, b, req.VolumeB)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	resp := blendResponse{Result: result}
	if req.Save {
		rec, err := h.save(r.Context(), history.KindBlend, req.Name, resp)
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		resp.ID = rec.ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProfiles"
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, errNoStore.Error(), op)
		return
	}

	switch r.Method {
	case http.MethodGet:
		limit := constants.DefaultHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), op)
				return
			}
			limit = n
		}
		records, err := h.store.ListProfiles(r.Context(), limit)
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		profiles := make([]profileRecord, 0, len(records))
		for _, rec := range records {
			pr, err := toProfileRecord(rec)
			if err != nil {
				h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
				return
			}
			profiles = append(profiles, pr)
		}
		h.writeJSON(w, http.StatusOK, profiles)

	case http.MethodPost:
		var req saveProfileRequest
		if !h.decodeJSON(w, r, &req, op) {
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			h.respondErrorWithOp(w, http.StatusBadRequest, "profile name is required", op)
			return
		}
		rec, err := h.store.SaveProfile(r.Context(), name, req.Profile.profile())
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		pr, err := toProfileRecord(rec)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		h.writeJSON(w, http.StatusCreated, pr)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProfile"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, errNoStore.Error(), op)
		return
	}

	rec, err := h.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	pr, err := toProfileRecord(rec)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, pr)
}

func (h *handler) handleSolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	catalog := water.Catalog()
	solutions := make([]solutionInfo, 0, len(catalog))
	for _, s := range catalog {
		solutions = append(solutions, solutionInfo{Solution: s, PrepInstructions: s.PrepInstructions()})
	}
	h.writeJSON(w, http.StatusOK, solutions)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// resolveProfile returns the inline profile or loads the saved one by id.
func (h *handler) resolveProfile(ctx context.Context, label string, inline *profileInput, id string) (water.Profile, error) {
	id = strings.TrimSpace(id)
	switch {
	case id != "":
		if h.store == nil {
			return water.Profile{}, errNoStore
		}
		return h.store.GetProfile(ctx, id)
	case inline != nil:
		return inline.profile(), nil
	default:
		return water.Profile{}, fmt.Errorf("%w: profile %s is required", errBadRequest, label)
	}
}

func (h *handler) save(ctx context.Context, kind, name string, payload any) (history.Record, error) {
	if h.store == nil {
		return history.Record{}, errNoStore
	}
	return h.store.SaveResult(ctx, kind, name, payload)
}

func toProfileRecord(rec history.Record) (profileRecord, error) {
	p, err := rec.Profile()
	if err != nil {
		return profileRecord{}, err
	}
	return profileRecord{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt, Profile: p}, nil
}

var errBadRequest = errors.New("bad request")

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, history.ErrNotFound), errors.Is(err, history.ErrWrongKind):
		return http.StatusNotFound
	case errors.Is(err, errNoStore):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest), errors.Is(err, blend.ErrInvalidVolume), errors.Is(err, water.ErrSolutionNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

// decodeJSON reads the body into dst and writes the error response itself
// when it fails.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.respondRequestError(w, err, op)
		return false
	}
	return true
}

func (h *handler) respondRequestError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

func displayName(name, fallback string) string {
	if strings.TrimSpace(name) == "" {
		return fallback
	}
	return name
}

func coerceBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
