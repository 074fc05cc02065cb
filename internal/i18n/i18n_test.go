package i18n

import "testing"

func TestTSubstitutesParams(t *testing.T) {
	t.Parallel()
	c := New()

	got := c.T("es", "subject_created", Params{"name": "Cálculo"})
	if got != "📘 Materia Cálculo creada." {
		t.Errorf("T = %q", got)
	}
}

func TestTUnknownLocaleFallsBack(t *testing.T) {
	t.Parallel()
	c := New()

	if got, want := c.T("fr", "unrecognized", nil), c.T("es", "unrecognized", nil); got != want {
		t.Errorf("T(fr) = %q, want spanish fallback %q", got, want)
	}
}

func TestTUnknownKeyReturnsKey(t *testing.T) {
	t.Parallel()
	c := New()

	if got := c.T("es", "no_such_key", nil); got != "no_such_key" {
		t.Errorf("T = %q, want the key itself", got)
	}
}

func TestCatalogsCoverTheSameKeys(t *testing.T) {
	t.Parallel()
	for key := range spanish {
		if _, ok := english[key]; !ok {
			t.Errorf("Key %q has no english entry", key)
		}
	}
	for key := range english {
		if _, ok := spanish[key]; !ok {
			t.Errorf("Key %q has no spanish entry", key)
		}
	}
}

func TestMatchLocale(t *testing.T) {
	t.Parallel()
	tests := []struct {
		tag  string
		want string
	}{
		{"es", "es"},
		{"ES", "es"},
		{"es-CO", "es"},
		{"en", "en"},
		{"en-US", "en"},
		{"fr", "es"},
		{"", "es"},
		{"???", "es"},
	}
	for _, tc := range tests {
		if got := MatchLocale(tc.tag); got != tc.want {
			t.Errorf("MatchLocale(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}
