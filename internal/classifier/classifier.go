// Package classifier decides whether a work is genuine research output
// versus news, commentary, or a correction. It is a pure predicate over a
// raw work record: no I/O, no state.
package classifier

import (
	"regexp"
	"strings"

	"github.com/paper-digest/backend/internal/domain"
)

const (
	// minAbstractChars is the minimum plain-text abstract length for a work
	// without other research signals. News snippets typically carry no
	// abstract or a very short one.
	minAbstractChars = 40

	// minIndexWords is the minimum distinct-word count for an
	// inverted-index abstract, a rough proxy for word count.
	minIndexWords = 10
)

// nonResearchTitleRE matches titles of commentary and news-like items.
var nonResearchTitleRE = regexp.MustCompile(
	`(?i)(news|news & views|world view|editorial|comment(ary)?|perspective|opinion|careers|podcast|interview|q.?a|toolbox|technology feature|research briefing|outlook|correspondence|matters arising|briefing)`,
)

// correctionGenres always disqualify, even when news-like content is allowed.
var correctionGenres = []string{"retraction", "correction", "erratum", "addendum"}

// nonResearchGenres disqualify unless news-like content is allowed.
var nonResearchGenres = []string{"editorial", "news", "comment", "book-review"}

// venueWhitelist lists venues known to sometimes publish genuine research
// with missing or very short abstracts in the metadata; works from these
// venues skip the abstract-length check.
var venueWhitelist = map[string]bool{
	"Nature":                            true,
	"Science":                           true,
	"Cell":                              true,
	"Immunity":                          true,
	"Nature Immunology":                 true,
	"Nature Medicine":                   true,
	"PNAS":                              true,
	"Science Immunology":                true,
	"Science Translational Medicine":    true,
	"Nature Biotechnology":              true,
	"Nature Aging":                      true,
	"Journal of Clinical Investigation": true,
}

type verdict int

const (
	next verdict = iota
	accept
	reject
)

// rule is one named step of the decision. Rules run in order and the first
// accept or reject wins.
type rule struct {
	name string
	eval func(w *domain.RawWork, allowNews bool) verdict
}

var rules = []rule{
	{
		// Corrections and retractions are never research, regardless of
		// the allow-news flag.
		name: "correction-genre",
		eval: func(w *domain.RawWork, _ bool) verdict {
			genre := w.Genre()
			for _, k := range correctionGenres {
				if strings.Contains(genre, k) {
					return reject
				}
			}
			return next
		},
	},
	{
		name: "allow-news",
		eval: func(_ *domain.RawWork, allowNews bool) verdict {
			if allowNews {
				return accept
			}
			return next
		},
	},
	{
		name: "non-research-title",
		eval: func(w *domain.RawWork, _ bool) verdict {
			if nonResearchTitleRE.MatchString(strings.ToLower(w.Title)) {
				return reject
			}
			return next
		},
	},
	{
		name: "non-research-genre",
		eval: func(w *domain.RawWork, _ bool) verdict {
			genre := w.Genre()
			for _, k := range nonResearchGenres {
				if strings.Contains(genre, k) {
					return reject
				}
			}
			return next
		},
	},
	{
		// Known high-signal venues bypass the abstract-length proxy to
		// avoid false negatives from metadata gaps.
		name: "whitelisted-venue",
		eval: func(w *domain.RawWork, _ bool) verdict {
			if venueWhitelist[w.VenueName()] {
				return accept
			}
			return next
		},
	},
	{
		// Everything else needs abstract evidence of being a real article.
		name: "abstract-signal",
		eval: func(w *domain.RawWork, _ bool) verdict {
			if len(w.AbstractInvertedIndex) >= minIndexWords || len(w.Abstract) >= minAbstractChars {
				return accept
			}
			return reject
		},
	},
}

// IsResearch reports whether the work is genuine research output. When
// allowNews is set, news-like content passes, but corrections and
// retractions are still rejected.
func IsResearch(w *domain.RawWork, allowNews bool) bool {
	for _, r := range rules {
		switch r.eval(w, allowNews) {
		case accept:
			return true
		case reject:
			return false
		}
	}
	return false
}
