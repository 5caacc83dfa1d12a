// Package web serves the server-rendered estimator page. The form posts
// back to / and works without JavaScript; the embedded app.js upgrades
// history actions to API calls and adds clipboard export.
package web

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/threepoint/internal/pert"
	"github.com/louisbranch/threepoint/internal/platform/branding"
	"github.com/louisbranch/threepoint/internal/services/estimator"
	apperrors "github.com/louisbranch/threepoint/internal/services/estimator/platform/errors"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
	"github.com/louisbranch/threepoint/internal/services/estimator/web/static"
)

// estimatorService defines the service operations used by page handlers.
type estimatorService interface {
	EstimateAndSave(ctx context.Context, req estimator.EstimateRequest) (storage.HistoryEntry, error)
	History(ctx context.Context, limit, offset int) ([]storage.HistoryEntry, error)
	DeleteHistoryEntry(ctx context.Context, entryID string) error
	ClearHistory(ctx context.Context) error
	Insights(ctx context.Context) (estimator.Insights, error)
}

type handlers struct {
	service estimatorService
}

// Register mounts the page, its form fallbacks, and static assets on mux.
func Register(mux *http.ServeMux, service estimatorService) {
	if mux == nil || service == nil {
		return
	}
	h := handlers{service: service}
	mux.HandleFunc("/", h.handleIndex)
	mux.Handle(http.MethodGet+" /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))
	mux.HandleFunc(http.MethodPost+" /history/{id}/delete", h.handleDeleteEntry)
	mux.HandleFunc(http.MethodPost+" /history/clear", h.handleClearHistory)
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.renderIndex(w, r, http.StatusOK, defaultFormView(), "", nil)
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	form := formViewFromRequest(r)
	req, err := estimateRequestFromForm(r)
	if err != nil {
		h.renderIndex(w, r, apperrors.HTTPStatus(err), form, err.Error(), nil)
		return
	}

	entry, err := h.service.EstimateAndSave(r.Context(), req)
	if err != nil {
		h.renderIndex(w, r, apperrors.HTTPStatus(err), form, err.Error(), nil)
		return
	}
	h.renderIndex(w, r, http.StatusOK, form, "", &entry)
}

func (h handlers) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID := strings.TrimSpace(r.PathValue("id"))
	if entryID == "" {
		http.NotFound(w, r)
		return
	}
	err := h.service.DeleteHistoryEntry(r.Context(), entryID)
	if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
		log.Printf("web: delete history entry: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h handlers) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearHistory(r.Context()); err != nil {
		log.Printf("web: clear history: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderIndex renders the page with the current history, insights, and
// z-score table. History load failures degrade to an empty section so the
// estimate form stays usable.
func (h handlers) renderIndex(w http.ResponseWriter, r *http.Request, status int, form formView, formError string, entry *storage.HistoryEntry) {
	printer, lang := localizer(w, r)
	pageLabels := buildLabels(printer)

	view := indexView{
		AppName:   branding.AppName,
		Lang:      lang,
		L:         pageLabels,
		Languages: buildLanguageOptions(lang),
		Form:      form,
		FormError: formError,
		ZScores:   buildZScoreRows(printer),
	}
	if entry != nil {
		view.Result = buildResultView(printer, pageLabels, *entry)
	}

	ctx := r.Context()
	if entries, err := h.service.History(ctx, 0, 0); err != nil {
		log.Printf("web: list history: %v", err)
	} else {
		view.History = buildHistoryRows(printer, entries)
	}
	if insights, err := h.service.Insights(ctx); err != nil {
		log.Printf("web: history insights: %v", err)
	} else {
		view.Insights = buildInsightLines(printer, insights)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, "index.html", view); err != nil {
		log.Printf("web: render index: %v", err)
	}
}

// formViewFromRequest echoes the submitted values so errors keep the
// visitor's input in place.
func formViewFromRequest(r *http.Request) formView {
	checked := map[string]bool{}
	for _, raw := range r.PostForm["percentiles"] {
		checked[strings.TrimSpace(raw)] = true
	}
	options := make([]percentileOption, 0, len(pert.Percentiles()))
	for _, level := range pert.Percentiles() {
		options = append(options, percentileOption{
			Level:   level.Int(),
			Label:   level.String(),
			Checked: checked[strconv.Itoa(level.Int())],
		})
	}

	unit := strings.TrimSpace(r.PostFormValue("unit"))
	if unit == "" {
		unit = string(estimator.UnitHours)
	}
	return formView{
		Optimistic:  strings.TrimSpace(r.PostFormValue("optimistic")),
		MostLikely:  strings.TrimSpace(r.PostFormValue("most_likely")),
		Pessimistic: strings.TrimSpace(r.PostFormValue("pessimistic")),
		Lambda:      strings.TrimSpace(r.PostFormValue("lambda")),
		Unit:        unit,
		Percentiles: options,
		Note:        r.PostFormValue("note"),
	}
}

func estimateRequestFromForm(r *http.Request) (estimator.EstimateRequest, error) {
	var req estimator.EstimateRequest

	var err error
	if req.Optimistic, err = parseFormFloat(r, "optimistic"); err != nil {
		return req, err
	}
	if req.MostLikely, err = parseFormFloat(r, "most_likely"); err != nil {
		return req, err
	}
	if req.Pessimistic, err = parseFormFloat(r, "pessimistic"); err != nil {
		return req, err
	}

	if raw := strings.TrimSpace(r.PostFormValue("lambda")); raw != "" {
		lambda, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, apperrors.E(apperrors.KindInvalidInput, "lambda must be a number")
		}
		req.Lambda = &lambda
	}

	for _, raw := range r.PostForm["percentiles"] {
		level, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return req, apperrors.E(apperrors.KindInvalidInput, "percentile must be a whole number")
		}
		req.Percentiles = append(req.Percentiles, level)
	}

	req.Unit = r.PostFormValue("unit")
	req.Note = r.PostFormValue("note")
	return req, nil
}

func parseFormFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.PostFormValue(name))
	if raw == "" {
		return 0, apperrors.E(apperrors.KindInvalidInput, strings.ReplaceAll(name, "_", " ")+" is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.E(apperrors.KindInvalidInput, strings.ReplaceAll(name, "_", " ")+" must be a number")
	}
	return value, nil
}
