package web

import (
	"fmt"
	"strings"

	"github.com/louisbranch/threepoint/internal/pert"
	"github.com/louisbranch/threepoint/internal/services/estimator"
	"github.com/louisbranch/threepoint/internal/services/estimator/storage"
	"golang.org/x/text/message"
)

// indexView is the full template payload for the estimator page.
type indexView struct {
	AppName   string
	Lang      string
	L         labels
	Languages []langOption
	Form      formView
	FormError string
	Result    *resultView
	History   []historyRow
	Insights  []string
	ZScores   []zscoreRow
}

// labels carries the localized static strings for the page.
type labels struct {
	Title            string
	Tagline          string
	FormLegend       string
	Optimistic       string
	MostLikely       string
	Pessimistic      string
	Lambda           string
	Unit             string
	UnitHours        string
	UnitDays         string
	PercentilesLabel string
	Note             string
	Submit           string
	ResultTitle      string
	Mean             string
	Sigma            string
	Copy             string
	Copied           string
	HistoryTitle     string
	HistoryEmpty     string
	HistorySaved     string
	HistoryInputs    string
	HistoryMean      string
	HistorySigma     string
	HistoryNote      string
	Delete           string
	Clear            string
	InsightsTitle    string
	ZScoresTitle     string
	ZPercentile      string
	ZValue           string
	LangLabel        string
}

type langOption struct {
	Tag    string
	Label  string
	Active bool
}

// formView holds the raw submitted values so invalid input stays visible.
type formView struct {
	Optimistic  string
	MostLikely  string
	Pessimistic string
	Lambda      string
	Unit        string
	Percentiles []percentileOption
	Note        string
}

type percentileOption struct {
	Level   int
	Label   string
	Checked bool
}

type resultView struct {
	Mean        string
	Sigma       string
	UnitLabel   string
	Percentiles []resultRow
	PlainText   string
}

type resultRow struct {
	Label string
	Value string
}

type historyRow struct {
	ID     string
	Saved  string
	Inputs string
	Mean   string
	Sigma  string
	Note   string
}

type zscoreRow struct {
	Label string
	Z     string
}

func buildLabels(p *message.Printer) labels {
	return labels{
		Title:            p.Sprintf("web.title"),
		Tagline:          p.Sprintf("web.tagline"),
		FormLegend:       p.Sprintf("web.form.legend"),
		Optimistic:       p.Sprintf("web.form.optimistic"),
		MostLikely:       p.Sprintf("web.form.most_likely"),
		Pessimistic:      p.Sprintf("web.form.pessimistic"),
		Lambda:           p.Sprintf("web.form.lambda"),
		Unit:             p.Sprintf("web.form.unit"),
		UnitHours:        p.Sprintf("web.unit.hours"),
		UnitDays:         p.Sprintf("web.unit.days"),
		PercentilesLabel: p.Sprintf("web.form.percentiles"),
		Note:             p.Sprintf("web.form.note"),
		Submit:           p.Sprintf("web.form.submit"),
		ResultTitle:      p.Sprintf("web.result.title"),
		Mean:             p.Sprintf("web.result.mean"),
		Sigma:            p.Sprintf("web.result.sigma"),
		Copy:             p.Sprintf("web.result.copy"),
		Copied:           p.Sprintf("web.result.copied"),
		HistoryTitle:     p.Sprintf("web.history.title"),
		HistoryEmpty:     p.Sprintf("web.history.empty"),
		HistorySaved:     p.Sprintf("web.history.saved"),
		HistoryInputs:    p.Sprintf("web.history.inputs"),
		HistoryMean:      p.Sprintf("web.history.mean"),
		HistorySigma:     p.Sprintf("web.history.sigma"),
		HistoryNote:      p.Sprintf("web.history.note"),
		Delete:           p.Sprintf("web.history.delete"),
		Clear:            p.Sprintf("web.history.clear"),
		InsightsTitle:    p.Sprintf("web.insights.title"),
		ZScoresTitle:     p.Sprintf("web.zscores.title"),
		ZPercentile:      p.Sprintf("web.zscores.percentile"),
		ZValue:           p.Sprintf("web.zscores.z"),
		LangLabel:        p.Sprintf("web.lang.label"),
	}
}

func buildLanguageOptions(active string) []langOption {
	return []langOption{
		{Tag: "en-US", Label: "English (US)", Active: active == "en-US"},
		{Tag: "pt-BR", Label: "Português (BR)", Active: active == "pt-BR"},
	}
}

// defaultFormView preselects hours and every confidence level.
func defaultFormView() formView {
	options := make([]percentileOption, 0, len(pert.Percentiles()))
	for _, level := range pert.Percentiles() {
		options = append(options, percentileOption{
			Level:   level.Int(),
			Label:   level.String(),
			Checked: true,
		})
	}
	return formView{Unit: string(estimator.UnitHours), Percentiles: options}
}

// fmtValue renders a number with the locale's decimal mark and minimal
// digits, for echoing inputs.
func fmtValue(p *message.Printer, v float64) string {
	return p.Sprintf("%v", v)
}

// fmtFixed renders a derived value with two fixed decimals.
func fmtFixed(p *message.Printer, v float64) string {
	return p.Sprintf("%.2f", v)
}

func unitLabel(p *message.Printer, unit string) string {
	if unit == string(estimator.UnitDays) {
		return p.Sprintf("web.unit.days")
	}
	return p.Sprintf("web.unit.hours")
}

func buildResultView(p *message.Printer, l labels, entry storage.HistoryEntry) *resultView {
	rows := make([]resultRow, 0, len(entry.Percentiles))
	for _, level := range entry.Percentiles {
		rows = append(rows, resultRow{
			Label: level.String(),
			Value: fmtFixed(p, entry.PercentileValues[level]),
		})
	}

	view := &resultView{
		Mean:        fmtFixed(p, entry.Mean),
		Sigma:       fmtFixed(p, entry.Sigma),
		UnitLabel:   unitLabel(p, entry.Unit),
		Percentiles: rows,
	}

	var plain strings.Builder
	fmt.Fprintf(&plain, "O %s / M %s / P %s (%s)\n",
		fmtValue(p, entry.Optimistic), fmtValue(p, entry.MostLikely), fmtValue(p, entry.Pessimistic), view.UnitLabel)
	fmt.Fprintf(&plain, "%s: %s\n", l.Mean, view.Mean)
	fmt.Fprintf(&plain, "%s: %s\n", l.Sigma, view.Sigma)
	for _, row := range rows {
		fmt.Fprintf(&plain, "%s: %s\n", row.Label, row.Value)
	}
	view.PlainText = plain.String()

	return view
}

func buildHistoryRows(p *message.Printer, entries []storage.HistoryEntry) []historyRow {
	rows := make([]historyRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, historyRow{
			ID:    entry.ID,
			Saved: entry.CreatedAt.Format("2006-01-02 15:04"),
			Inputs: fmt.Sprintf("%s / %s / %s %s",
				fmtValue(p, entry.Optimistic), fmtValue(p, entry.MostLikely), fmtValue(p, entry.Pessimistic), unitLabel(p, entry.Unit)),
			Mean:  fmtFixed(p, entry.Mean),
			Sigma: fmtFixed(p, entry.Sigma),
			Note:  entry.Note,
		})
	}
	return rows
}

// buildInsightLines returns nothing for an empty history so the template
// drops the section.
func buildInsightLines(p *message.Printer, insights estimator.Insights) []string {
	if insights.Count == 0 {
		return nil
	}
	return []string{
		p.Sprintf("web.insights.count", insights.Count),
		p.Sprintf("web.insights.mean_range", fmtFixed(p, insights.MeanMin), fmtFixed(p, insights.MeanMax)),
		p.Sprintf("web.insights.mean_avg", fmtFixed(p, insights.MeanAvg)),
		p.Sprintf("web.insights.mean_p50", fmtFixed(p, insights.MeanP50)),
		p.Sprintf("web.insights.mean_p90", fmtFixed(p, insights.MeanP90)),
		p.Sprintf("web.insights.sigma_avg", fmtFixed(p, insights.SigmaAvg)),
	}
}

func buildZScoreRows(p *message.Printer) []zscoreRow {
	rows := make([]zscoreRow, 0, len(pert.Percentiles()))
	for _, level := range pert.Percentiles() {
		rows = append(rows, zscoreRow{
			Label: level.String(),
			Z:     p.Sprintf("%.4f", level.ZScore()),
		})
	}
	return rows
}
