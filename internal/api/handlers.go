package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"daflow/internal/config"
	"daflow/internal/metrics"
	"daflow/internal/record"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler serves the presentation layer: it hands record snapshots to the
// metrics engine and returns plain aggregates as JSON. It renders nothing.
type Handler struct {
	store     *record.Store
	analytics config.Analytics
}

// NewHandler creates a Handler bound to a store and analytics declaration.
func NewHandler(store *record.Store, analytics config.Analytics) *Handler {
	return &Handler{store: store, analytics: analytics}
}

// Health reports liveness and the current table size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"rows":   h.store.Len(),
	})
}

// Fields returns the declared field-type mapping so the presentation layer
// resolves semantics once, at the boundary, instead of inferring them from
// field naming conventions.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fieldTypes": h.analytics.FieldTypes,
		"stages":     h.analytics.Stages,
	})
}

// ReplaceRecords swaps the whole table for the uploaded one.
func (h *Handler) ReplaceRecords(w http.ResponseWriter, r *http.Request) {
	var rows record.RecordSet
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid record payload: %w", err))
		return
	}

	h.store.Replace(rows)
	log.Info().Int("rows", len(rows)).Msg("Record table replaced")
	writeJSON(w, http.StatusOK, map[string]any{"rows": len(rows)})
}

// ListRequestIDs returns the unique request ids in first-appearance order.
func (h *Handler) ListRequestIDs(w http.ResponseWriter, r *http.Request) {
	ids := h.store.RequestIDs(h.analytics.RequestIDField)
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"requestIds": ids})
}

// GetRequest returns all rows belonging to one request id.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rows := h.store.ForRequest(h.analytics.RequestIDField, id)
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no rows for request %q", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": rows})
}

// fieldUpdate is one edit command against a request's rows. DatasetID narrows
// the edit to the rows of a single associated dataset.
type fieldUpdate struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	DatasetID string `json:"datasetId,omitempty"`
}

// UpdateRequest applies field-level edits to the rows of one request.
func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updates []fieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid update payload: %w", err))
		return
	}

	changed := 0
	for _, u := range updates {
		if u.Field == "" {
			writeError(w, http.StatusBadRequest, fmt.Errorf("update is missing a field name"))
			return
		}
		if u.DatasetID != "" {
			changed += h.store.UpdateDatasetField(h.analytics.RequestIDField, id, h.analytics.DatasetIDField, u.DatasetID, u.Field, u.Value)
		} else {
			changed += h.store.UpdateField(h.analytics.RequestIDField, id, u.Field, u.Value)
		}
	}

	if changed == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no rows matched request %q", id))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": changed})
}

// Summary returns the dashboard snapshot over the current table.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	rows := h.store.All()
	res := metrics.Summary(rows, h.analytics.SummaryConfig(), time.Now().UTC())
	writeJSON(w, http.StatusOK, res)
}

// Distribution returns the frequency table of a categorical field.
func (h *Handler) Distribution(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	if field == "" {
		field = h.analytics.StatusField
	}
	dist := metrics.Distribution(h.store.All(), field)
	writeJSON(w, http.StatusOK, map[string]any{
		"field":        field,
		"distribution": dist,
	})
}

// Breakdown returns the weekly or monthly intake/completion series.
func (h *Handler) Breakdown(w http.ResponseWriter, r *http.Request) {
	bucket, err := h.bucketParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	buckets := metrics.Breakdown(h.store.All(), metrics.BreakdownOptions{
		Bucket:          bucket,
		ReceivedField:   h.analytics.ReceivedField,
		CompletionField: h.analytics.GrantedField,
		StatusField:     h.analytics.StatusField,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"bucket":  bucket,
		"periods": buckets,
	})
}

// Stages returns the per-stage average duration series for the configured
// milestone catalogue.
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	bucket, err := h.bucketParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	series := metrics.StageDurations(h.store.All(), h.analytics.Stages, bucket)
	writeJSON(w, http.StatusOK, map[string]any{
		"bucket": bucket,
		"stages": series,
	})
}

func (h *Handler) bucketParam(r *http.Request) (string, error) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		return h.analytics.Bucket, nil
	}
	if bucket != metrics.BucketWeek && bucket != metrics.BucketMonth {
		return "", fmt.Errorf("invalid bucket %q: must be %q or %q", bucket, metrics.BucketWeek, metrics.BucketMonth)
	}
	return bucket, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
