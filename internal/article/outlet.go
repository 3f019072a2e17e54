package article

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

// Rule decides whether an article URL belongs to an outlet.
type Rule interface {
	Match(raw string, u *url.URL) bool
}

// PatternRule matches the raw URL against a regular expression anchored at
// the start.
type PatternRule struct {
	Pattern *regexp.Regexp
}

func (r PatternRule) Match(raw string, _ *url.URL) bool {
	loc := r.Pattern.FindStringIndex(raw)
	return loc != nil && loc[0] == 0
}

// PartialURLRule matches when every non-empty component of the rule URL
// equals the same component of the article URL.
type PartialURLRule struct {
	Rule *url.URL
}

// Partial parses a rule such as "//www.iltalehti.fi" or "https://example.com/news".
func Partial(rule string) PartialURLRule {
	u, err := url.Parse(rule)
	if err != nil {
		panic("article: bad outlet rule " + rule + ": " + err.Error())
	}
	return PartialURLRule{Rule: u}
}

func (r PartialURLRule) Match(_ string, u *url.URL) bool {
	if u == nil {
		return false
	}
	pairs := [][2]string{
		{r.Rule.Scheme, u.Scheme},
		{r.Rule.Host, u.Host},
		{r.Rule.Path, u.Path},
		{r.Rule.RawQuery, u.RawQuery},
		{r.Rule.Fragment, u.Fragment},
	}
	for _, p := range pairs {
		if p[0] != "" && p[0] != p[1] {
			return false
		}
	}
	return true
}

// Outlet is a news site with its URL rules.
type Outlet struct {
	Name  string
	Rules []Rule
}

// Generic handles every URL no registered outlet claims.
var Generic = Outlet{Name: "generic"}

var Iltalehti = Outlet{
	Name:  "Iltalehti",
	Rules: []Rule{Partial("//www.iltalehti.fi")},
}

// Registry resolves article URLs to outlets in registration order.
type Registry struct {
	outlets []Outlet
	log     logging.Logger
}

func NewRegistry(log logging.Logger, outlets ...Outlet) *Registry {
	return &Registry{outlets: outlets, log: log.WithName("outlets")}
}

// DefaultRegistry knows the built-in outlets.
func DefaultRegistry(log logging.Logger) *Registry {
	return NewRegistry(log, Iltalehti)
}

// Register adds an outlet after the existing ones.
func (r *Registry) Register(o Outlet) {
	r.outlets = append(r.outlets, o)
}

// Match returns the first outlet with a matching rule, or Generic.
func (r *Registry) Match(raw string) Outlet {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		u = nil
	}
	for _, o := range r.outlets {
		for _, rule := range o.Rules {
			if rule.Match(raw, u) {
				r.log.Debug("matched outlet", "outlet", o.Name, "url", raw)
				return o
			}
		}
	}
	r.log.Info("no outlet matched, using generic", "url", raw)
	return Generic
}
