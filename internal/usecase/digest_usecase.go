package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/paper-digest/backend/internal/classifier"
	"github.com/paper-digest/backend/internal/domain"
	"github.com/paper-digest/backend/internal/journal"
	"github.com/paper-digest/backend/pkg/crossref"
	"github.com/paper-digest/backend/pkg/openalex"
)

// researchTypeClause restricts results to article/review non-paratext works.
const researchTypeClause = "type:article|review,is_paratext:false"

// genreExclusionClause keeps out common non-research genres when news-like
// content is not allowed.
const genreExclusionClause = "type_crossref:!editorial|news-item|comment|letter|book-review|retraction|correction"

// Params is one aggregation request for a single journal.
type Params struct {
	Journal   string
	Since     string // ISO date, publication-date cutoff
	Per       int    // target item count
	AllowNews bool
	Keywords  string
}

// DigestUsecase aggregates recent research articles for a journal: it
// resolves the journal's identity, runs a ladder of filter strategies
// against OpenAlex, tops up from Crossref when short, and returns a
// normalized, deduplicated, date-sorted feed.
type DigestUsecase struct {
	resolver  *journal.Resolver
	primary   *openalex.Client
	secondary *crossref.Client

	primaryMaxPages   int
	secondaryMaxPages int

	logger zerolog.Logger
}

// NewDigestUsecase wires the aggregation pipeline. Page caps bound the work
// done per strategy; they are the effective circuit breaker since upstream
// failures only ever stop a single collection run.
func NewDigestUsecase(resolver *journal.Resolver, primary *openalex.Client, secondary *crossref.Client, primaryMaxPages, secondaryMaxPages int, logger zerolog.Logger) *DigestUsecase {
	if primaryMaxPages <= 0 {
		primaryMaxPages = 8
	}
	if secondaryMaxPages <= 0 {
		secondaryMaxPages = 2
	}
	return &DigestUsecase{
		resolver:          resolver,
		primary:           primary,
		secondary:         secondary,
		primaryMaxPages:   primaryMaxPages,
		secondaryMaxPages: secondaryMaxPages,
		logger:            logger,
	}
}

// Aggregate collects up to p.Per canonical records for the journal. It
// never fails: upstream errors are stopping conditions for individual
// collection runs, and whatever was collected is normalized and returned,
// possibly empty.
func (u *DigestUsecase) Aggregate(ctx context.Context, p Params) []domain.Work {
	log := u.logger.With().
		Str("run_id", uuid.NewString()).
		Str("journal", p.Journal).
		Logger()

	issns := u.resolver.Resolve(ctx, p.Journal)

	accept := func(w *domain.RawWork) bool {
		return classifier.IsResearch(w, p.AllowNews)
	}

	var raw []domain.RawWork
	for _, q := range u.buildStrategies(p, issns) {
		if len(raw) >= p.Per {
			break
		}
		need := p.Per - len(raw)
		works, outcome := u.primary.CollectWorks(ctx, q, need, accept, u.primaryMaxPages)
		if outcome.Failed() {
			log.Warn().Err(outcome.Err).Stringer("outcome", outcome).Str("filter", q.Filter).Msg("openalex collection stopped")
		} else {
			log.Debug().Stringer("outcome", outcome).Int("collected", len(works)).Str("filter", q.Filter).Msg("openalex strategy done")
		}
		raw = append(raw, works...)
	}

	// Crossref only helps when the journal's ISSN is known.
	if len(raw) < p.Per && len(issns) > 0 {
		need := p.Per - len(raw)
		works, outcome := u.secondary.CollectByISSN(ctx, issns, p.Since, need, u.secondaryMaxPages)
		if outcome.Failed() {
			log.Warn().Err(outcome.Err).Stringer("outcome", outcome).Msg("crossref top-up stopped")
		} else {
			log.Debug().Stringer("outcome", outcome).Int("collected", len(works)).Msg("crossref top-up done")
		}
		raw = append(raw, works...)
	}

	normalized := make([]domain.Work, 0, len(raw))
	for i := range raw {
		normalized = append(normalized, Normalize(&raw[i], p.Journal))
	}

	results := dedupe(normalized)

	// Descending by date; records without one sink to the bottom because
	// the empty string compares lowest.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Published > results[j].Published
	})

	if len(results) > p.Per {
		results = results[:p.Per]
	}

	log.Info().Int("delivered", len(results)).Int("requested", p.Per).Msg("aggregation complete")
	return results
}

// buildStrategies returns the filter ladder in precedence order: ISSN and
// display-name scopes against the publication-date field, then the same two
// against the record-created-date field, which catches freshly ingested
// items whose publication date lags. Strategies needing ISSNs are skipped
// when none are known.
func (u *DigestUsecase) buildStrategies(p Params, issns []string) []openalex.WorksQuery {
	issnScope := ""
	if len(issns) > 0 {
		issnScope = "locations.source.issn:" + strings.Join(issns, "|")
	}
	nameScope := "locations.source.display_name.search:" + p.Journal

	var queries []openalex.WorksQuery
	for _, dateField := range []string{"from_publication_date", "from_created_date"} {
		for _, scope := range []string{issnScope, nameScope} {
			if scope == "" {
				continue
			}
			queries = append(queries, openalex.WorksQuery{
				Filter: u.buildFilter(p, dateField, scope),
				Sort:   "publication_date:desc",
			})
		}
	}
	return queries
}

func (u *DigestUsecase) buildFilter(p Params, dateField, scope string) string {
	typeClause := researchTypeClause
	if !p.AllowNews {
		typeClause += "," + genreExclusionClause
	}

	clauses := []string{dateField + ":" + p.Since, typeClause}
	if p.Keywords != "" {
		clauses = append(clauses, "title_and_abstract.search:"+p.Keywords)
	}
	clauses = append(clauses, scope)
	return strings.Join(clauses, ",")
}

// dedupe drops records whose identity was already seen, first occurrence
// winning. Identity is the bare DOI when present, else the source
// identifier.
func dedupe(works []domain.Work) []domain.Work {
	seen := make(map[string]struct{}, len(works))
	out := make([]domain.Work, 0, len(works))
	for _, w := range works {
		key := w.DOI
		if key == "" {
			key = w.ID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, w)
	}
	return out
}
