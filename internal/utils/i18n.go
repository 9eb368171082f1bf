package utils

// Minimal server-side i18n for fixed keys. Validation messages stay in
// English by contract; only the few decorative strings are localized.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":     "ok",
		"submit.thanks": "Thank you for your submission! Your responses have been recorded.",
	},
	"zh": {
		"health.ok":     "好的",
		"submit.thanks": "感谢你的提交！你的回答已被记录。",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
