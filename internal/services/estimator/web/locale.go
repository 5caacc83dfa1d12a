package web

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// langParam is the query parameter used to select a language.
	langParam = "lang"
	// langCookieName stores the visitor's language preference.
	langCookieName = "tp_lang"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var langMatcher = language.NewMatcher(supportedTags)

func defaultTag() language.Tag {
	return supportedTags[0]
}

// parseTag maps a raw tag value onto a supported tag, matching the exact
// tag first and the language base second, so "pt" selects pt-BR.
func parseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Tag{}, false
	}
	parsed, err := language.Parse(value)
	if err != nil {
		return language.Tag{}, false
	}
	for _, tag := range supportedTags {
		if parsed == tag {
			return tag, true
		}
	}
	parsedBase, _ := parsed.Base()
	for _, tag := range supportedTags {
		if base, _ := tag.Base(); base == parsedBase {
			return tag, true
		}
	}
	return language.Tag{}, false
}

// resolveTag determines the page language: lang query param, then cookie,
// then Accept-Language, then the default. The bool reports whether the
// choice came from the query param and should be persisted as a cookie.
func resolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return defaultTag(), false
	}

	if value := strings.TrimSpace(r.URL.Query().Get(langParam)); value != "" {
		if tag, ok := parseTag(value); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(langCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			_, index, _ := langMatcher.Match(tags...)
			return supportedTags[index], false
		}
	}

	return defaultTag(), false
}

// setLanguageCookie persists the selected language on the response.
func setLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     langCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

// localizer resolves the request language, persisting query-param choices,
// and returns the message printer plus the tag string for the page.
func localizer(w http.ResponseWriter, r *http.Request) (*message.Printer, string) {
	tag, persist := resolveTag(r)
	if persist {
		setLanguageCookie(w, tag)
	}
	return message.NewPrinter(tag), tag.String()
}
