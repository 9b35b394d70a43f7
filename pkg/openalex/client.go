package openalex

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/paper-digest/backend/internal/domain"
)

const (
	// DefaultBaseURL is the OpenAlex API base URL.
	DefaultBaseURL = "https://api.openalex.org"

	// firstCursor is the sentinel value for the first page of a
	// cursor-paginated listing.
	firstCursor = "*"
)

// Config holds configuration for the OpenAlex client.
type Config struct {
	// BaseURL defaults to https://api.openalex.org.
	BaseURL string

	// Contact is the attribution contact sent as the mailto parameter.
	// Providing it puts requests in the polite pool for faster responses.
	Contact string

	// UserAgent identifies this service to the API.
	UserAgent string

	// Timeout is the per-request timeout. Defaults to 30s; works fetches
	// are bulk operations and get the longer of the two service timeouts.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. Defaults to 10.
	RateLimit float64

	// Burst is the maximum request burst. Defaults to 10.
	Burst int
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 10
	}
	if c.Burst == 0 {
		c.Burst = 10
	}
}

// Client is an OpenAlex API client. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new OpenAlex API client.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}
}

// CollectWorks walks the cursor-paginated works listing for the given query
// until want accepted items are collected, maxPages pages were fetched, the
// listing runs out, or a request fails. Items rejected by accept are
// dropped. Failures are reported through the outcome, never as an error:
// whatever was collected so far is still returned.
//
// The result is truncated to want even if the last page overshoots.
func (c *Client) CollectWorks(ctx context.Context, q WorksQuery, want int, accept func(*domain.RawWork) bool, maxPages int) ([]domain.RawWork, domain.FetchOutcome) {
	var out []domain.RawWork
	cursor := firstCursor

	for page := 0; page < maxPages; page++ {
		if len(out) >= want {
			return out[:want], domain.FetchOutcome{Kind: domain.StopSatisfied}
		}

		params := url.Values{}
		params.Set("filter", q.Filter)
		if q.Sort != "" {
			params.Set("sort", q.Sort)
		}
		params.Set("cursor", cursor)
		params.Set("per_page", strconv.Itoa(pageSize(want)))
		if c.cfg.Contact != "" {
			params.Set("mailto", c.cfg.Contact)
		}

		var resp worksResponse
		if outcome, ok := c.getJSON(ctx, "/works", params, &resp); !ok {
			return truncate(out, want), outcome
		}

		if len(resp.Results) == 0 {
			return truncate(out, want), domain.FetchOutcome{Kind: domain.StopExhausted}
		}
		for i := range resp.Results {
			w := resp.Results[i]
			if accept == nil || accept(&w) {
				out = append(out, w)
			}
		}

		cursor = resp.Meta.NextCursor
		if cursor == "" {
			if len(out) >= want {
				return out[:want], domain.FetchOutcome{Kind: domain.StopSatisfied}
			}
			return out, domain.FetchOutcome{Kind: domain.StopExhausted}
		}
	}

	if len(out) >= want {
		return out[:want], domain.FetchOutcome{Kind: domain.StopSatisfied}
	}
	return out, domain.FetchOutcome{Kind: domain.StopPageCap}
}

// SearchSources queries the source-search endpoint for the given free-text
// term and returns the ranked matches.
func (c *Client) SearchSources(ctx context.Context, name string) ([]Source, error) {
	params := url.Values{}
	params.Set("search", name)
	if c.cfg.Contact != "" {
		params.Set("mailto", c.cfg.Contact)
	}

	var resp sourcesResponse
	if outcome, ok := c.getJSON(ctx, "/sources", params, &resp); !ok {
		if outcome.Err != nil {
			return nil, outcome.Err
		}
		return nil, &StatusError{Status: outcome.Status}
	}
	return resp.Results, nil
}

// StatusError is a non-success HTTP status from the API.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return "openalex: unexpected status " + strconv.Itoa(e.Status)
}

// getJSON issues one GET and decodes the body into v. A false return comes
// with the outcome describing the failure.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v interface{}) (domain.FetchOutcome, bool) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.FetchOutcome{Kind: domain.StopTransport, Err: err}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return domain.FetchOutcome{Kind: domain.StopTransport, Err: err}, false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.FetchOutcome{Kind: domain.StopTransport, Err: err}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.FetchOutcome{Kind: domain.StopHTTP, Status: resp.StatusCode}, false
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(v); err != nil {
		return domain.FetchOutcome{Kind: domain.StopTransport, Err: err}, false
	}
	return domain.FetchOutcome{Kind: domain.StopSatisfied}, true
}

// pageSize doubles the target to absorb classifier rejections, clamped to
// the API's 50..200 per-page range.
func pageSize(want int) int {
	size := want * 2
	if size < 50 {
		size = 50
	}
	if size > 200 {
		size = 200
	}
	return size
}

func truncate(works []domain.RawWork, want int) []domain.RawWork {
	if len(works) > want {
		return works[:want]
	}
	return works
}
