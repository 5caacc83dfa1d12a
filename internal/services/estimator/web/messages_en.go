package web

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.AmericanEnglish

	message.SetString(lang, "web.title", "Three-Point Estimator")
	message.SetString(lang, "web.tagline", "PERT estimates from optimistic, most likely, and pessimistic guesses.")
	message.SetString(lang, "web.form.legend", "New estimate")
	message.SetString(lang, "web.form.optimistic", "Optimistic (O)")
	message.SetString(lang, "web.form.most_likely", "Most likely (M)")
	message.SetString(lang, "web.form.pessimistic", "Pessimistic (P)")
	message.SetString(lang, "web.form.lambda", "Most-likely weight (lambda)")
	message.SetString(lang, "web.form.unit", "Unit")
	message.SetString(lang, "web.form.percentiles", "Confidence levels")
	message.SetString(lang, "web.form.note", "Note")
	message.SetString(lang, "web.form.submit", "Estimate and save")
	message.SetString(lang, "web.unit.hours", "hours")
	message.SetString(lang, "web.unit.days", "days")
	message.SetString(lang, "web.result.title", "Result")
	message.SetString(lang, "web.result.mean", "Mean")
	message.SetString(lang, "web.result.sigma", "Sigma")
	message.SetString(lang, "web.result.copy", "Copy")
	message.SetString(lang, "web.result.copied", "Copied to clipboard")
	message.SetString(lang, "web.history.title", "History")
	message.SetString(lang, "web.history.empty", "No saved estimates yet.")
	message.SetString(lang, "web.history.saved", "Saved")
	message.SetString(lang, "web.history.inputs", "O / M / P")
	message.SetString(lang, "web.history.mean", "Mean")
	message.SetString(lang, "web.history.sigma", "Sigma")
	message.SetString(lang, "web.history.note", "Note")
	message.SetString(lang, "web.history.delete", "Delete")
	message.SetString(lang, "web.history.clear", "Clear all")
	message.SetString(lang, "web.insights.title", "Insights")
	message.SetString(lang, "web.insights.count", "Saved estimates: %d")
	message.SetString(lang, "web.insights.mean_range", "Mean range: %s to %s")
	message.SetString(lang, "web.insights.mean_avg", "Average mean: %s")
	message.SetString(lang, "web.insights.mean_p50", "Median mean: %s")
	message.SetString(lang, "web.insights.mean_p90", "P90 mean: %s")
	message.SetString(lang, "web.insights.sigma_avg", "Average sigma: %s")
	message.SetString(lang, "web.zscores.title", "Z-score reference")
	message.SetString(lang, "web.zscores.percentile", "Percentile")
	message.SetString(lang, "web.zscores.z", "z")
	message.SetString(lang, "web.lang.label", "Language")
}
