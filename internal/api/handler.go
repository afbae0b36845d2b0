package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eugenenazirov/truck-loader/internal/dataset"
	"github.com/eugenenazirov/truck-loader/internal/knapsack"
	"github.com/eugenenazirov/truck-loader/internal/results"
	"github.com/eugenenazirov/truck-loader/internal/runner"
	"github.com/eugenenazirov/truck-loader/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const inlineDatasetName = "inline"

// History gives read access to recorded runs.
type History interface {
	Records() ([]results.Record, error)
}

// Handler wires runner, storage and history dependencies into HTTP handlers.
type Handler struct {
	runner  *runner.Runner
	storage storage.Storage
	history History

	clock func() time.Time

	mu                sync.RWMutex
	datasetsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithHistory enables the accuracy endpoint over the given records.
func WithHistory(history History) HandlerOption {
	return func(h *Handler) {
		h.history = history
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(run *runner.Runner, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		runner:  run,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.datasetsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	_ = r
	available := make(map[knapsack.Algorithm]bool)
	for _, alg := range h.runner.Available() {
		available[alg] = true
	}

	resp := algorithmsResponse{Algorithms: make([]algorithmInfo, 0, len(knapsack.Algorithms()))}
	for _, alg := range knapsack.Algorithms() {
		resp.Algorithms = append(resp.Algorithms, algorithmInfo{
			Name:        alg,
			Label:       alg.Label(),
			Exact:       alg.Exact(),
			Exponential: alg.Exponential(),
			Available:   available[alg],
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	_ = r
	summaries, err := h.storage.ListDatasets()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := datasetsResponse{
		Datasets:  summaries,
		UpdatedAt: h.currentDatasetsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := h.storage.GetDataset(r.PathValue("name"))
	if err != nil {
		writeStorageError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *Handler) handlePutDataset(w http.ResponseWriter, r *http.Request) {
	var req datasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}
	if req.Capacity == nil {
		writeError(w, http.StatusBadRequest, "Invalid dataset", "capacity is required")
		return
	}

	name := r.PathValue("name")
	ds := dataset.Dataset{Name: name, Capacity: *req.Capacity, Pallets: req.Pallets}
	if err := h.storage.PutDataset(ds); err != nil {
		writeStorageError(w, err)
		return
	}

	h.markDatasetsUpdated()

	stored, err := h.storage.GetDataset(strings.TrimSpace(name))
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := datasetUpdatedResponse{
		Dataset:   stored,
		UpdatedAt: h.currentDatasetsUpdatedAt(),
		Message:   "Dataset stored successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	alg, err := knapsack.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error(), "Use one of: "+algorithmNames())
		return
	}

	ds, ok := h.resolveDataset(w, req.instanceRequest)
	if !ok {
		return
	}

	rec, err := h.runner.Run(r.Context(), alg, ds)
	if err != nil {
		writeRunError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSolveResponse(rec))
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req instanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	ds, ok := h.resolveDataset(w, req)
	if !ok {
		return
	}

	cmp, err := h.runner.Compare(r.Context(), ds)
	if err != nil {
		writeRunError(w, err)
		return
	}

	resp := compareResponse{
		Dataset: ds.Name,
		Results: make([]solveResponse, 0, len(cmp.Records)),
		Skipped: cmp.Skipped,
	}
	for _, rec := range cmp.Records {
		resp.Results = append(resp.Results, newSolveResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	_ = r
	if h.history == nil {
		writeJSON(w, http.StatusOK, results.Summarize(nil))
		return
	}

	records, err := h.history.Records()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results.Summarize(records))
}

// resolveDataset returns the stored dataset named in req or the inline instance.
// It writes the error response itself and reports false when there is none.
func (h *Handler) resolveDataset(w http.ResponseWriter, req instanceRequest) (dataset.Dataset, bool) {
	if name := strings.TrimSpace(req.Dataset); name != "" {
		ds, err := h.storage.GetDataset(name)
		if err != nil {
			writeStorageError(w, err)
			return dataset.Dataset{}, false
		}
		return ds, true
	}

	if req.Capacity == nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "either dataset or capacity and pallets is required")
		return dataset.Dataset{}, false
	}

	ds := dataset.Dataset{Name: inlineDatasetName, Capacity: *req.Capacity, Pallets: req.Pallets}
	if err := ds.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid dataset", err.Error())
		return dataset.Dataset{}, false
	}
	return ds.Clone(), true
}

func (h *Handler) currentDatasetsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.datasetsUpdatedAt
}

func (h *Handler) markDatasetsUpdated() {
	h.mu.Lock()
	h.datasetsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func algorithmNames() string {
	names := make([]string, 0, len(knapsack.Algorithms()))
	for _, alg := range knapsack.Algorithms() {
		names = append(names, string(alg))
	}
	return strings.Join(names, ", ")
}

type instanceRequest struct {
	Dataset  string            `json:"dataset,omitempty"`
	Capacity *int              `json:"capacity,omitempty"`
	Pallets  []knapsack.Pallet `json:"pallets,omitempty"`
}

type solveRequest struct {
	Algorithm string `json:"algorithm"`
	instanceRequest
}

type datasetRequest struct {
	Capacity *int              `json:"capacity"`
	Pallets  []knapsack.Pallet `json:"pallets"`
}

type solveResponse struct {
	RunID             string             `json:"runId"`
	Algorithm         knapsack.Algorithm `json:"algorithm"`
	Label             string             `json:"label"`
	Dataset           string             `json:"dataset"`
	Capacity          int                `json:"capacity"`
	Profit            int                `json:"profit"`
	Weight            int                `json:"weight"`
	SelectedPallets   []int              `json:"selectedPallets"`
	CalculationTimeMs float64            `json:"calculationTimeMs"`
}

func newSolveResponse(rec results.Record) solveResponse {
	selected := rec.Selected
	if selected == nil {
		selected = []int{}
	}
	return solveResponse{
		RunID:             rec.RunID,
		Algorithm:         rec.Algorithm,
		Label:             rec.Algorithm.Label(),
		Dataset:           rec.Dataset,
		Capacity:          rec.Capacity,
		Profit:            rec.Profit,
		Weight:            rec.Weight,
		SelectedPallets:   selected,
		CalculationTimeMs: float64(rec.Elapsed) / float64(time.Millisecond),
	}
}

type compareResponse struct {
	Dataset string                        `json:"dataset"`
	Results []solveResponse               `json:"results"`
	Skipped map[knapsack.Algorithm]string `json:"skipped,omitempty"`
}

type algorithmInfo struct {
	Name        knapsack.Algorithm `json:"name"`
	Label       string             `json:"label"`
	Exact       bool               `json:"exact"`
	Exponential bool               `json:"exponential"`
	Available   bool               `json:"available"`
}

type algorithmsResponse struct {
	Algorithms []algorithmInfo `json:"algorithms"`
}

type datasetsResponse struct {
	Datasets  []storage.Summary `json:"datasets"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type datasetUpdatedResponse struct {
	Dataset   dataset.Dataset `json:"dataset"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Message   string          `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrDatasetNotFound):
		writeError(w, http.StatusNotFound, "Dataset not found", err.Error(), "List available datasets with GET /api/datasets")
	case errors.Is(err, storage.ErrInvalidDataset):
		writeError(w, http.StatusBadRequest, "Invalid dataset", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func writeRunError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, knapsack.ErrUnknownAlgorithm):
		writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error(), "Use one of: "+algorithmNames())
	case errors.Is(err, knapsack.ErrInvalidCapacity):
		writeError(w, http.StatusBadRequest, "Invalid dataset", err.Error())
	case errors.Is(err, runner.ErrTooManyPallets), errors.Is(err, knapsack.ErrCatalogTooLarge):
		suggestion := fmt.Sprintf("Use %s or %s for large catalogs", knapsack.DynamicProgramming, knapsack.Greedy)
		writeError(w, http.StatusUnprocessableEntity, "Catalog too large", err.Error(), suggestion)
	case errors.Is(err, runner.ErrTableTooLarge):
		suggestion := fmt.Sprintf("Use %s, which does not allocate by capacity, or raise max_dp_cells", knapsack.Greedy)
		writeError(w, http.StatusUnprocessableEntity, "Capacity too large", err.Error(), suggestion)
	case errors.Is(err, runner.ErrUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "Algorithm unavailable", err.Error(), "Set ilp.command in the configuration to enable it")
	default:
		writeInternalError(w, err)
	}
}
