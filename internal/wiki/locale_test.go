package wiki

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"fi_FI": "fi",
		"fi-FI": "fi",
		"FI":    "fi",
		" en ":  "en",
		"":      "",
	}
	for in, want := range cases {
		if got := NormalizeLocale(in); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilter_CanonicalAlwaysActive(t *testing.T) {
	f := NewFilter(DefaultLocales(), "fi_FI")
	for _, title := range []string{"References", "See also", "Lähteet", "Katso myös"} {
		if !f.Ignored(title) {
			t.Errorf("expected %q to be ignored", title)
		}
	}
	if f.Ignored("Historia") {
		t.Fatalf("content heading must not be ignored")
	}
}

func TestFilter_ExactMatch(t *testing.T) {
	f := NewFilter(DefaultLocales())
	for _, title := range []string{"references", " References", "References "} {
		if f.Ignored(title) {
			t.Errorf("expected %q not to match", title)
		}
	}
	if f.Ignored("Lähteet") {
		t.Fatalf("finnish boilerplate must not apply without the fi locale")
	}
}

func TestFilter_UnknownLocale(t *testing.T) {
	f := NewFilter(DefaultLocales(), "xx")
	if len(f.Titles()) != len(canonicalBoilerplate) {
		t.Fatalf("expected only canonical titles, got %d", len(f.Titles()))
	}
}

func TestFilter_Nil(t *testing.T) {
	var f *Filter
	if f.Ignored("References") {
		t.Fatalf("nil filter ignores nothing")
	}
}

func TestLoadLocales_MergesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locales.yaml")
	content := `fi:
  boilerplate: ["Lähdekirjallisuus"]
et_EE:
  name: Eesti
  boilerplate: ["Viited", "Välislingid"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	table, err := LoadLocales(path)
	if err != nil {
		t.Fatalf("LoadLocales: %v", err)
	}

	fi, ok := table.Lookup("fi")
	if !ok {
		t.Fatalf("fi missing")
	}
	if fi.Name != "Suomi" {
		t.Fatalf("expected name kept, got %q", fi.Name)
	}
	f := NewFilter(table, "fi", "et")
	for _, title := range []string{"Lähteet", "Lähdekirjallisuus", "Viited", "References"} {
		if !f.Ignored(title) {
			t.Errorf("expected %q to be ignored", title)
		}
	}
	et, _ := table.Lookup("et")
	if et.Code != "et" || et.Name != "Eesti" {
		t.Fatalf("unexpected et locale %+v", et)
	}

	if len(DefaultLocales()["fi"].Boilerplate) != 5 {
		t.Fatalf("defaults must not be mutated by merge")
	}
}

func TestLoadLocales_EmptyPath(t *testing.T) {
	table, err := LoadLocales("")
	if err != nil {
		t.Fatalf("LoadLocales: %v", err)
	}
	if _, ok := table["fi"]; !ok {
		t.Fatalf("expected default table")
	}
}

func TestLoadLocales_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locales.yaml")
	if err := os.WriteFile(path, []byte("fi: [unclosed"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLocales(path); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := LoadLocales(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected read error")
	}
}
