package utils

import "testing"

func TestT(t *testing.T) {
	if got := T("zh", "health.ok"); got != "好的" {
		t.Fatalf("zh health.ok = %q", got)
	}
	if got := T("fr", "health.ok"); got != "ok" {
		t.Fatalf("fallback = %q, want english", got)
	}
	if got := T("en", "missing.key"); got != "missing.key" {
		t.Fatalf("unknown key = %q, want key echoed", got)
	}
}
