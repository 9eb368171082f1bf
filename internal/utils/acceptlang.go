package utils

import (
	"sort"
	"strconv"
	"strings"
)

// DetermineLocale resolves the locale to use from an explicit query param, the
// Accept-Language header, the supported locale list, and a default fallback.
// Supported values are normalized base languages like "en", "zh".
func DetermineLocale(queryLang, acceptLang string, supported []string, def string) string {
	sup := map[string]struct{}{}
	for _, s := range supported {
		sup[strings.ToLower(s)] = struct{}{}
	}

	pick := func(lang string) (string, bool) {
		if lang == "" {
			return "", false
		}
		l := strings.ToLower(strings.TrimSpace(lang))
		if _, ok := sup[l]; ok {
			return l, true
		}
		// Prefer the base language: en-US -> en.
		if i := strings.Index(l, "-"); i > 0 {
			if _, ok := sup[l[:i]]; ok {
				return l[:i], true
			}
		}
		return "", false
	}

	if v, ok := pick(queryLang); ok {
		return v
	}

	// Accept-Language with q-values, e.g. "en-US,en;q=0.9,zh;q=0.8".
	type cand struct {
		lang string
		q    float64
	}
	var cands []cand
	for _, part := range strings.Split(acceptLang, ",") {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}
		lang := p
		q := 1.0
		if semi := strings.Index(p, ";"); semi >= 0 {
			lang = strings.TrimSpace(p[:semi])
			if rest := strings.TrimSpace(p[semi+1:]); strings.HasPrefix(rest, "q=") {
				if v, err := strconv.ParseFloat(strings.TrimPrefix(rest, "q="), 64); err == nil {
					q = v
				}
			}
		}
		if l, ok := pick(lang); ok {
			cands = append(cands, cand{lang: l, q: q})
		}
	}
	if len(cands) > 0 {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].q > cands[j].q })
		return cands[0].lang
	}

	if v, ok := pick(def); ok {
		return v
	}
	if len(supported) > 0 {
		return strings.ToLower(supported[0])
	}
	return "en"
}
