package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-sync/internal/model"
	"issue-sync/internal/pipeline"
	"issue-sync/internal/store"
)

// Runner starts one sync run. Satisfied by *syncer.Syncer.
type Runner interface {
	Run(ctx context.Context, runID string, spec model.SyncJobSpec) error
}

// SyncHandler serves the sync-run API. Zero-value fields in a request
// spec are filled from the configured defaults.
type SyncHandler struct {
	store    *store.Store
	runner   Runner
	registry *pipeline.Registry[model.Issue, model.Document]
	defaults model.SyncJobSpec
	log      *zap.SugaredLogger
}

func NewSyncHandler(st *store.Store, runner Runner, reg *pipeline.Registry[model.Issue, model.Document], defaults model.SyncJobSpec, log *zap.SugaredLogger) *SyncHandler {
	return &SyncHandler{store: st, runner: runner, registry: reg, defaults: defaults, log: log}
}

// applyDefaults fills zero-value spec fields from the configuration.
func (h *SyncHandler) applyDefaults(spec model.SyncJobSpec) model.SyncJobSpec {
	if spec.Owner == "" {
		spec.Owner = h.defaults.Owner
	}
	if spec.Repo == "" {
		spec.Repo = h.defaults.Repo
	}
	if spec.State == "" {
		spec.State = h.defaults.State
	}
	if spec.Collection == "" {
		spec.Collection = h.defaults.Collection
	}
	if spec.PageSize == 0 {
		spec.PageSize = h.defaults.PageSize
	}
	if spec.Workers == 0 {
		spec.Workers = h.defaults.Workers
	}
	if spec.JobTimeout == "" {
		spec.JobTimeout = h.defaults.JobTimeout
	}
	return spec
}

// CreateSync triggers a new sync run
// @Summary Trigger a sync run
// @Description Start a new sync run; omitted fields fall back to the configured defaults
// @Tags syncs
// @Accept json
// @Produce json
// @Param sync body model.SyncJobSpec false "Sync run configuration"
// @Success 200 {object} map[string]interface{} "Sync run created"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs [post]
func (h *SyncHandler) CreateSync(w http.ResponseWriter, r *http.Request) {
	spec := h.defaults
	if r.Body != nil && r.ContentLength != 0 {
		var body model.SyncJobSpec
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}
		spec = h.applyDefaults(body)
	}

	if spec.Owner == "" || spec.Repo == "" {
		http.Error(w, "owner and repo are required", http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()
	if err := h.store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go func() {
		if err := h.runner.Run(context.Background(), runID, spec); err != nil {
			h.log.Errorw("sync run failed", "run_id", runID, "error", err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Sync run created",
		"runId":     runID,
		"status":    model.StatusPending,
		"createdAt": time.Now().UTC(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListSyncs lists all sync runs
// @Summary List sync runs
// @Description Get all sync runs with their current status, newest first
// @Tags syncs
// @Produce json
// @Success 200 {array} model.SyncRun "List of sync runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs [get]
func (h *SyncHandler) ListSyncs(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetSync fetches one sync run
// @Summary Get sync run
// @Description Retrieve a single sync run with its spec and counters
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.SyncRun "Sync run"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /syncs/{id} [get]
func (h *SyncHandler) GetSync(w http.ResponseWriter, r *http.Request) {
	runID := extractRunID(r.URL.Path, "")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := h.store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetSyncErrors fetches the errors of a sync run
// @Summary Get sync run errors
// @Description Retrieve all errors recorded during a sync run
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs/{id}/errors [get]
func (h *SyncHandler) GetSyncErrors(w http.ResponseWriter, r *http.Request) {
	runID := extractRunID(r.URL.Path, "/errors")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	runErrs, err := h.store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"runId":  runID,
		"errors": runErrs,
		"count":  len(runErrs),
	})
}

// GetSyncLogs fetches the logs of a sync run
// @Summary Get sync run logs
// @Description Retrieve log lines recorded during a sync run
// @Tags syncs
// @Produce json
// @Param id path string true "Run ID"
// @Param limit query int false "Maximum number of lines" default(100)
// @Success 200 {object} map[string]interface{} "Run logs"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /syncs/{id}/logs [get]
func (h *SyncHandler) GetSyncLogs(w http.ResponseWriter, r *http.Request) {
	runID := extractRunID(r.URL.Path, "/logs")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	limit := 100 // default
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	logs, err := h.store.GetRunLogs(runID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"runId": runID,
		"logs":  logs,
		"count": len(logs),
		"limit": limit,
	})
}

// ListPipelines lists the registered pipelines
// @Summary List pipelines
// @Description Get all registered pipelines with their capabilities and priority
// @Tags pipelines
// @Produce json
// @Success 200 {array} pipeline.Info "Registered pipelines"
// @Router /pipelines [get]
func (h *SyncHandler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.registry.List())
}

// extractRunID pulls the run ID out of /api/v1/syncs/{id}<suffix>.
func extractRunID(path, suffix string) string {
	prefix := "/api/v1/syncs/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return ""
	}
	return path[len(prefix) : len(path)-len(suffix)]
}
