// Package api exposes the estimator service over HTTP and provides a typed
// client for it. Responses are JSON; errors carry an {"error": "..."} body
// with a status mapped from the error kind.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/threepoint/internal/pert"
	"github.com/louisbranch/threepoint/internal/services/estimator"
	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
	"github.com/louisbranch/threepoint/internal/services/estimator/platform/httpx"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
)

// Route paths served by Register and consumed by Client.
const (
	EstimatePath        = "/api/v1/estimate"
	HistoryPath         = "/api/v1/history"
	HistoryInsightsPath = "/api/v1/history/insights"
	ConvertPath         = "/api/v1/convert"
	ZScoresPath         = "/api/v1/zscores"
	HealthPath          = "/healthz"

	historyEntryPattern = HistoryPath + "/{id}"
)

// Service defines the estimator operations the HTTP layer depends on.
type Service interface {
	Estimate(ctx context.Context, req estimator.EstimateRequest) (estimator.Estimation, error)
	EstimateAndSave(ctx context.Context, req estimator.EstimateRequest) (storage.HistoryEntry, error)
	History(ctx context.Context, limit, offset int) ([]storage.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, entryID string) error
	ClearHistory(ctx context.Context) error
	Insights(ctx context.Context) (estimator.Insights, error)
	Convert(value float64, to estimator.Unit) (float64, error)
}

type handlers struct {
	service Service
}

// Register mounts the estimator API routes on mux.
func Register(mux *http.ServeMux, service Service) {
	if mux == nil || service == nil {
		return
	}
	h := handlers{service: service}
	mux.HandleFunc(http.MethodPost+" "+EstimatePath, h.handleEstimate)
	mux.HandleFunc(http.MethodPost+" "+HistoryPath, h.handleSaveEstimate)
	mux.HandleFunc(http.MethodGet+" "+HistoryPath, h.handleListHistory)
	mux.HandleFunc(http.MethodDelete+" "+HistoryPath, h.handleClearHistory)
	mux.HandleFunc(http.MethodGet+" "+HistoryInsightsPath, h.handleInsights)
	mux.HandleFunc(http.MethodDelete+" "+historyEntryPattern, h.handleDeleteEntry)
	mux.HandleFunc(http.MethodGet+" "+ConvertPath, h.handleConvert)
	mux.HandleFunc(http.MethodGet+" "+ZScoresPath, h.handleZScores)
	mux.HandleFunc(http.MethodGet+" "+HealthPath, h.handleHealth)
}

func (h handlers) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	estimation, err := h.service.Estimate(httpx.RequestContext(r), toDomainRequest(req))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, NewEstimationResponse(estimation))
}

func (h handlers) handleSaveEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	entry, err := h.service.EstimateAndSave(httpx.RequestContext(r), toDomainRequest(req))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, NewHistoryEntry(entry))
}

func (h handlers) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	limit, offset = estimator.ClampHistoryPage(limit, offset)
	entries, err := h.service.History(httpx.RequestContext(r), limit, offset)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	resp := HistoryListResponse{
		Entries: make([]HistoryEntry, 0, len(entries)),
		Limit:   limit,
		Offset:  offset,
	}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, NewHistoryEntry(entry))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h handlers) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := strings.TrimSpace(r.PathValue("id"))
	if entryID == "" {
		httpx.WriteError(w, apperrors.E(apperrors.KindNotFound, "history entry not found"))
		return
	}
	if err := h.service.DeleteHistoryEntry(httpx.RequestContext(r), entryID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(httpx.RequestContext(r)); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.service.Insights(httpx.RequestContext(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, InsightsResponse{
		Count:    insights.Count,
		MeanMin:  insights.MeanMin,
		MeanMax:  insights.MeanMax,
		MeanAvg:  insights.MeanAvg,
		MeanP50:  insights.MeanP50,
		MeanP90:  insights.MeanP90,
		SigmaAvg: insights.SigmaAvg,
	})
}

func (h handlers) handleConvert(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rawValue := strings.TrimSpace(query.Get("value"))
	if rawValue == "" {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "value is required"))
		return
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "value must be a number"))
		return
	}
	rawTo := strings.TrimSpace(query.Get("to"))
	if rawTo == "" {
		httpx.WriteError(w, apperrors.E(apperrors.KindInvalidInput, "to is required"))
		return
	}
	to, err := estimator.ParseUnit(rawTo)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	converted, err := h.service.Convert(value, to)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, ConvertResponse{Value: converted, Unit: string(to)})
}

func (h handlers) handleZScores(w http.ResponseWriter, r *http.Request) {
	levels := pert.Percentiles()
	resp := ZScoresResponse{ZScores: make([]ZScoreEntry, 0, len(levels))}
	for _, p := range levels {
		resp.ZScores = append(resp.ZScores, ZScoreEntry{
			Percentile: p.Int(),
			Label:      p.String(),
			Z:          p.ZScore(),
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// queryInt reads an optional integer query parameter; absence reports zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.E(apperrors.KindInvalidInput, name+" must be a whole number")
	}
	return value, nil
}
