package wiki

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"
)

// canonicalBoilerplate is always filtered, whatever the locale.
var canonicalBoilerplate = []string{
	"See also",
	"References",
	"External links",
	"Further reading",
	"Footnotes",
	"Bibliography",
	"Sources",
	"Citations",
	"Literature",
	"Notes and references",
	"Photo gallery",
	"Works cited",
	"Photos",
	"Gallery",
	"Notes",
	"References and sources",
	"References and notes",
}

// Locale is one row of the locale table.
type Locale struct {
	Code        string   `json:"code"`
	Name        string   `json:"name,omitempty"`
	Boilerplate []string `json:"boilerplate,omitempty"`
}

// LocaleTable maps a language code to its locale data. Extend it by adding
// entries; never by editing the canonical list.
type LocaleTable map[string]Locale

// DefaultLocales returns the built-in table.
func DefaultLocales() LocaleTable {
	return LocaleTable{
		"en": {Code: "en", Name: "English"},
		"fi": {Code: "fi", Name: "Suomi", Boilerplate: []string{
			"Lähteet",
			"Aiheesta muualla",
			"Kirjallisuutta",
			"Katso myös",
			"Viitteet",
		}},
		"sv": {Code: "sv", Name: "Svenska", Boilerplate: []string{
			"Referenser",
			"Se även",
			"Externa länkar",
			"Källor",
			"Noter",
		}},
	}
}

// NormalizeLocale reduces fi_FI, fi-FI or FI to the language code fi.
func NormalizeLocale(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "_-"); i >= 0 {
		code = code[:i]
	}
	return code
}

// Lookup finds the locale for any spelling of a locale code.
func (t LocaleTable) Lookup(code string) (Locale, bool) {
	l, ok := t[NormalizeLocale(code)]
	return l, ok
}

// Merge returns a new table with other's entries added. Boilerplate titles
// of an existing locale are appended, a non-empty name replaces the old one.
func (t LocaleTable) Merge(other LocaleTable) LocaleTable {
	out := make(LocaleTable, len(t)+len(other))
	for k, v := range t {
		v.Boilerplate = append([]string(nil), v.Boilerplate...)
		out[k] = v
	}
	for k, v := range other {
		key := NormalizeLocale(k)
		cur, ok := out[key]
		if !ok {
			cur = Locale{Code: key}
		}
		if v.Name != "" {
			cur.Name = v.Name
		}
		cur.Boilerplate = append(cur.Boilerplate, v.Boilerplate...)
		out[key] = cur
	}
	return out
}

// LoadLocales reads a YAML locale table and merges it over the defaults.
// An empty path yields the defaults.
//
//	fi:
//	  boilerplate: ["Lähdekirjallisuus"]
//	et:
//	  name: Eesti
//	  boilerplate: ["Viited", "Välislingid"]
func LoadLocales(path string) (LocaleTable, error) {
	defaults := DefaultLocales()
	if strings.TrimSpace(path) == "" {
		return defaults, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locales file: %w", err)
	}
	var extra LocaleTable
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("parse locales file %s: %w", path, err)
	}
	return defaults.Merge(extra), nil
}

// Filter decides which section headings are boilerplate.
type Filter struct {
	titles map[string]struct{}
}

// NewFilter builds a filter from the canonical titles plus the boilerplate
// of each requested locale. Unknown locales contribute nothing.
func NewFilter(table LocaleTable, locales ...string) *Filter {
	f := &Filter{titles: make(map[string]struct{}, len(canonicalBoilerplate))}
	for _, t := range canonicalBoilerplate {
		f.titles[t] = struct{}{}
	}
	for _, code := range locales {
		l, ok := table.Lookup(code)
		if !ok {
			continue
		}
		for _, t := range l.Boilerplate {
			f.titles[t] = struct{}{}
		}
	}
	return f
}

// Ignored reports whether a cleaned heading title is boilerplate. Matching
// is exact: no case folding, no trimming beyond what the caller did.
func (f *Filter) Ignored(title string) bool {
	if f == nil {
		return false
	}
	_, ok := f.titles[title]
	return ok
}

// Titles lists the filtered titles in sorted order.
func (f *Filter) Titles() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.titles))
	for t := range f.titles {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
