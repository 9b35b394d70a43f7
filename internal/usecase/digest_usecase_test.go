package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paper-digest/backend/internal/domain"
	"github.com/paper-digest/backend/internal/journal"
	"github.com/paper-digest/backend/pkg/crossref"
	"github.com/paper-digest/backend/pkg/openalex"
)

// workJSON renders one OpenAlex-shaped work published in a whitelisted
// venue so the research classifier accepts it.
func workJSON(id, doi, published string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"title": "Work %s",
		"type": "article",
		"type_crossref": "journal-article",
		"doi": %q,
		"publication_date": %q,
		"primary_location": {"source": {"display_name": "Nature"}}
	}`, id, id, doi, published)
}

func openalexPage(works ...string) string {
	body := "["
	for i, w := range works {
		if i > 0 {
			body += ","
		}
		body += w
	}
	body += "]"
	return `{"meta": {"next_cursor": ""}, "results": ` + body + `}`
}

func crossrefPage(items ...string) string {
	body := "["
	for i, it := range items {
		if i > 0 {
			body += ","
		}
		body += it
	}
	body += "]"
	return `{"message": {"items": ` + body + `, "next-cursor": ""}}`
}

func crossrefItemJSON(doi, title string, y, m, d int) string {
	return fmt.Sprintf(`{
		"DOI": %q,
		"title": [%q],
		"container-title": ["Nature"],
		"published-online": {"date-parts": [[%d, %d, %d]]}
	}`, doi, title, y, m, d)
}

func newTestUsecase(t *testing.T, primary, secondary http.HandlerFunc) *DigestUsecase {
	t.Helper()

	primarySrv := httptest.NewServer(primary)
	t.Cleanup(primarySrv.Close)
	secondarySrv := httptest.NewServer(secondary)
	t.Cleanup(secondarySrv.Close)

	primaryClient := openalex.NewClient(openalex.Config{
		BaseURL:   primarySrv.URL,
		RateLimit: 1000,
		Burst:     1000,
	})
	secondaryClient := crossref.NewClient(crossref.Config{
		BaseURL:   secondarySrv.URL,
		RateLimit: 1000,
		Burst:     1000,
	})
	resolver := journal.NewResolver(journal.NewCache(), primaryClient, 0, zerolog.Nop())

	return NewDigestUsecase(resolver, primaryClient, secondaryClient, 8, 2, zerolog.Nop())
}

func TestAggregateDedupesAndSortsDescending(t *testing.T) {
	var crossrefCalls int
	u := newTestUsecase(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, openalexPage(
				workJSON("https://openalex.org/W1", "https://doi.org/10.1/a", "2024-01-01"),
				workJSON("https://openalex.org/W2", "https://doi.org/10.1/b", "2024-03-01"),
				workJSON("https://openalex.org/W3", "https://doi.org/10.1/c", ""),
			))
		},
		func(w http.ResponseWriter, r *http.Request) {
			crossrefCalls++
			fmt.Fprint(w, crossrefPage())
		},
	)

	results := u.Aggregate(context.Background(), Params{
		Journal: "Nature",
		Since:   "2024-01-01",
		Per:     5,
	})

	// The same three works come back from more than one strategy; identity
	// collapses them to three, newest first, undated last.
	require.Len(t, results, 3)
	assert.Equal(t, "2024-03-01", results[0].Published)
	assert.Equal(t, "2024-01-01", results[1].Published)
	assert.Empty(t, results[2].Published)
	assert.Equal(t, "10.1/b", results[0].DOI, "served DOIs are bare")
	assert.Zero(t, crossrefCalls, "no top-up once the primary satisfied the target")

	// Deterministic upstream, deterministic feed.
	again := u.Aggregate(context.Background(), Params{
		Journal: "Nature",
		Since:   "2024-01-01",
		Per:     5,
	})
	assert.Equal(t, results, again)
}

func TestAggregateCrossrefTopUp(t *testing.T) {
	var crossrefPath string
	u := newTestUsecase(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, openalexPage())
		},
		func(w http.ResponseWriter, r *http.Request) {
			crossrefPath = r.URL.Path
			fmt.Fprint(w, crossrefPage(
				crossrefItemJSON("10.1038/x1", "Fresh article one", 2024, 4, 2),
				crossrefItemJSON("10.1038/x2", "Fresh article two", 2024, 4, 1),
			))
		},
	)

	results := u.Aggregate(context.Background(), Params{
		Journal: "Nature",
		Since:   "2024-01-01",
		Per:     5,
	})

	assert.Equal(t, "/journals/0028-0836/works", crossrefPath, "top-up queries the journal's first known ISSN")
	require.Len(t, results, 2)
	assert.Equal(t, "Fresh article one", results[0].Title)
	assert.Equal(t, "10.1038/x1", results[0].DOI)
	assert.Equal(t, "Nature", results[0].Journal)
	assert.Equal(t, "2024-04-02", results[0].Published)
	assert.Equal(t, "https://doi.org/10.1038/x1", results[0].URL)
}

// editorialJSON renders a work the classifier rejects.
func editorialJSON(id string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"title": "On the state of the field",
		"type": "article",
		"type_crossref": "editorial",
		"primary_location": {"source": {"display_name": "Nature"}}
	}`, id)
}

func TestAggregateTopsUpExactShortfall(t *testing.T) {
	var primaryCalls int
	u := newTestUsecase(t,
		func(w http.ResponseWriter, r *http.Request) {
			primaryCalls++
			if primaryCalls == 1 {
				fmt.Fprint(w, openalexPage(
					workJSON("https://openalex.org/W1", "https://doi.org/10.1/a", "2024-05-03"),
					editorialJSON("https://openalex.org/W2"),
					workJSON("https://openalex.org/W3", "https://doi.org/10.1/b", "2024-05-02"),
					editorialJSON("https://openalex.org/W4"),
					workJSON("https://openalex.org/W5", "https://doi.org/10.1/c", "2024-05-01"),
				))
				return
			}
			fmt.Fprint(w, openalexPage())
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, crossrefPage(
				crossrefItemJSON("10.1038/y1", "Top-up one", 2024, 4, 3),
				crossrefItemJSON("10.1038/y2", "Top-up two", 2024, 4, 2),
				crossrefItemJSON("10.1038/y3", "Beyond the shortfall", 2024, 4, 1),
			))
		},
	)

	results := u.Aggregate(context.Background(), Params{
		Journal: "Nature",
		Since:   "2024-01-01",
		Per:     5,
	})

	// Three research items survive the primary's page, so the secondary is
	// asked for the remaining two only.
	require.Len(t, results, 5)
	assert.Equal(t, "10.1/a", results[0].DOI)
	assert.Equal(t, "10.1/b", results[1].DOI)
	assert.Equal(t, "10.1/c", results[2].DOI)
	assert.Equal(t, "10.1038/y1", results[3].DOI)
	assert.Equal(t, "10.1038/y2", results[4].DOI)
}

func TestAggregateDedupesAcrossSources(t *testing.T) {
	var primaryCalls int
	u := newTestUsecase(t,
		func(w http.ResponseWriter, r *http.Request) {
			primaryCalls++
			if primaryCalls == 1 {
				fmt.Fprint(w, openalexPage(
					workJSON("https://openalex.org/W1", "https://doi.org/10.1038/shared", "2024-02-01"),
				))
				return
			}
			fmt.Fprint(w, openalexPage())
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, crossrefPage(
				crossrefItemJSON("10.1038/SHARED", "Shared item", 2024, 2, 1),
				crossrefItemJSON("10.1038/other", "Other item", 2024, 1, 15),
			))
		},
	)

	results := u.Aggregate(context.Background(), Params{
		Journal: "Nature",
		Since:   "2024-01-01",
		Per:     3,
	})

	require.Len(t, results, 2, "the same DOI from both sources is one record")
	assert.Equal(t, "https://openalex.org/W1", results[0].ID, "first occurrence wins")
	assert.Equal(t, "10.1038/other", results[1].DOI)
}

func TestAggregateUpstreamDownReturnsEmpty(t *testing.T) {
	u := newTestUsecase(t,
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
	)

	results := u.Aggregate(context.Background(), Params{
		Journal: "Nature",
		Since:   "2024-01-01",
		Per:     5,
	})

	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestBuildStrategies(t *testing.T) {
	u := &DigestUsecase{}
	p := Params{Journal: "Nature", Since: "2024-01-01"}

	withISSNs := u.buildStrategies(p, []string{"0028-0836", "1476-4687"})
	require.Len(t, withISSNs, 4)
	assert.Contains(t, withISSNs[0].Filter, "from_publication_date:2024-01-01")
	assert.Contains(t, withISSNs[0].Filter, "locations.source.issn:0028-0836|1476-4687")
	assert.Contains(t, withISSNs[1].Filter, "locations.source.display_name.search:Nature")
	assert.Contains(t, withISSNs[2].Filter, "from_created_date:2024-01-01")
	assert.Contains(t, withISSNs[3].Filter, "from_created_date:2024-01-01")
	assert.Contains(t, withISSNs[3].Filter, "locations.source.display_name.search:Nature")
	for _, q := range withISSNs {
		assert.Equal(t, "publication_date:desc", q.Sort)
	}

	withoutISSNs := u.buildStrategies(p, nil)
	require.Len(t, withoutISSNs, 2)
	for _, q := range withoutISSNs {
		assert.Contains(t, q.Filter, "locations.source.display_name.search:Nature")
	}
}

func TestBuildFilter(t *testing.T) {
	u := &DigestUsecase{}

	strict := u.buildFilter(Params{Since: "2024-01-01"}, "from_publication_date", "scope:x")
	assert.Equal(t,
		"from_publication_date:2024-01-01,"+
			"type:article|review,is_paratext:false,"+
			"type_crossref:!editorial|news-item|comment|letter|book-review|retraction|correction,"+
			"scope:x",
		strict)

	news := u.buildFilter(Params{Since: "2024-01-01", AllowNews: true}, "from_publication_date", "scope:x")
	assert.NotContains(t, news, "type_crossref:!")

	keyworded := u.buildFilter(Params{Since: "2024-01-01", Keywords: "microbiome"}, "from_created_date", "scope:x")
	assert.Contains(t, keyworded, "title_and_abstract.search:microbiome")
}

func TestDedupe(t *testing.T) {
	works := []domain.Work{
		{ID: "A", DOI: "10.1/x", Title: "first"},
		{ID: "B", DOI: "10.1/x", Title: "duplicate doi"},
		{ID: "A", DOI: "", Title: "duplicate id"},
		{ID: "C", DOI: "", Title: "kept by id"},
	}

	out := dedupe(works)

	require.Len(t, out, 3)
	assert.Equal(t, "first", out[0].Title)
	assert.Equal(t, "duplicate id", out[1].Title)
	assert.Equal(t, "kept by id", out[2].Title)
}
