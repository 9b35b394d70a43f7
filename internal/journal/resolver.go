package journal

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/paper-digest/backend/pkg/openalex"
)

// SourceSearcher looks up publication sources by free-text name. Implemented
// by the OpenAlex client.
type SourceSearcher interface {
	SearchSources(ctx context.Context, name string) ([]openalex.Source, error)
}

// Resolver maps a journal name to its ISSN set: seed table and prior
// resolutions first, then a single live source-search lookup. Every outcome,
// including failures, is memoized for the process lifetime.
type Resolver struct {
	cache   *Cache
	sources SourceSearcher
	timeout time.Duration
	logger  zerolog.Logger
}

// NewResolver creates a resolver backed by the given cache and source
// searcher. timeout bounds each live lookup; identity lookups are cheap and
// get a shorter budget than bulk fetches.
func NewResolver(cache *Cache, sources SourceSearcher, timeout time.Duration, logger zerolog.Logger) *Resolver {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		cache:   cache,
		sources: sources,
		timeout: timeout,
		logger:  logger,
	}
}

// Resolve returns the ISSN set for the journal name, possibly empty. Cached
// names, including negatively cached ones, never hit the network. An
// unresolved name gets exactly one lookup attempt: the top-ranked source is
// accepted only when the queried name appears case-insensitively in its
// display name, and any transport failure, error status, or no-match is
// cached as an empty list.
func (r *Resolver) Resolve(ctx context.Context, name string) []string {
	if issns, ok := r.cache.Get(name); ok {
		return issns
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	results, err := r.sources.SearchSources(ctx, name)
	if err != nil {
		r.logger.Warn().Err(err).Str("journal", name).Msg("issn lookup failed")
		r.cache.Put(name, nil)
		return []string{}
	}

	if len(results) > 0 {
		top := results[0]
		if strings.Contains(strings.ToLower(top.DisplayName), strings.ToLower(name)) {
			r.cache.Put(name, top.ISSNs)
			issns, _ := r.cache.Get(name)
			return issns
		}
	}

	r.logger.Debug().Str("journal", name).Msg("no matching source")
	r.cache.Put(name, nil)
	return []string{}
}
