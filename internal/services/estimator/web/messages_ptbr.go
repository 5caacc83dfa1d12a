package web

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.MustParse("pt-BR")

	message.SetString(lang, "web.title", "Estimador de Três Pontos")
	message.SetString(lang, "web.tagline", "Estimativas PERT a partir de palpites otimista, mais provável e pessimista.")
	message.SetString(lang, "web.form.legend", "Nova estimativa")
	message.SetString(lang, "web.form.optimistic", "Otimista (O)")
	message.SetString(lang, "web.form.most_likely", "Mais provável (M)")
	message.SetString(lang, "web.form.pessimistic", "Pessimista (P)")
	message.SetString(lang, "web.form.lambda", "Peso do mais provável (lambda)")
	message.SetString(lang, "web.form.unit", "Unidade")
	message.SetString(lang, "web.form.percentiles", "Níveis de confiança")
	message.SetString(lang, "web.form.note", "Observação")
	message.SetString(lang, "web.form.submit", "Estimar e salvar")
	message.SetString(lang, "web.unit.hours", "horas")
	message.SetString(lang, "web.unit.days", "dias")
	message.SetString(lang, "web.result.title", "Resultado")
	message.SetString(lang, "web.result.mean", "Média")
	message.SetString(lang, "web.result.sigma", "Sigma")
	message.SetString(lang, "web.result.copy", "Copiar")
	message.SetString(lang, "web.result.copied", "Copiado para a área de transferência")
	message.SetString(lang, "web.history.title", "Histórico")
	message.SetString(lang, "web.history.empty", "Nenhuma estimativa salva ainda.")
	message.SetString(lang, "web.history.saved", "Salvo em")
	message.SetString(lang, "web.history.inputs", "O / M / P")
	message.SetString(lang, "web.history.mean", "Média")
	message.SetString(lang, "web.history.sigma", "Sigma")
	message.SetString(lang, "web.history.note", "Observação")
	message.SetString(lang, "web.history.delete", "Excluir")
	message.SetString(lang, "web.history.clear", "Limpar tudo")
	message.SetString(lang, "web.insights.title", "Panorama")
	message.SetString(lang, "web.insights.count", "Estimativas salvas: %d")
	message.SetString(lang, "web.insights.mean_range", "Faixa de médias: %s a %s")
	message.SetString(lang, "web.insights.mean_avg", "Média das médias: %s")
	message.SetString(lang, "web.insights.mean_p50", "Mediana das médias: %s")
	message.SetString(lang, "web.insights.mean_p90", "Média P90: %s")
	message.SetString(lang, "web.insights.sigma_avg", "Sigma médio: %s")
	message.SetString(lang, "web.zscores.title", "Tabela de escores z")
	message.SetString(lang, "web.zscores.percentile", "Percentil")
	message.SetString(lang, "web.zscores.z", "z")
	message.SetString(lang, "web.lang.label", "Idioma")
}
