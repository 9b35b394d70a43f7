package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/paper-digest/backend/internal/domain"
)

const (
	// DefaultBaseURL is the Crossref API base URL.
	DefaultBaseURL = "https://api.crossref.org"

	firstCursor = "*"

	doiResolverPrefix = "https://doi.org/"

	maxTitleLen = 500
)

// jatsTagRE strips JATS markup from Crossref abstracts.
var jatsTagRE = regexp.MustCompile(`<[^>]+>`)

// Config holds configuration for the Crossref client.
type Config struct {
	// BaseURL defaults to https://api.crossref.org.
	BaseURL string

	// Contact is the attribution contact sent as the mailto parameter.
	Contact string

	// UserAgent identifies this service to the API.
	UserAgent string

	// Timeout is the per-request timeout. Defaults to 30s.
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

// Client is a Crossref API client. It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Crossref API client.
func NewClient(cfg Config) *Client {
	cfg.applyDefaults()
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
	}
}

// CollectByISSN walks the journal's work listing for items published since
// the given ISO date, newest first, converting each into the raw-record
// shape the normalizer consumes. Only the first ISSN is queried. The query
// filter already restricts items to journal articles, so no local
// classification happens here.
//
// Stop conditions mirror the primary client: target reached, page cap,
// empty page, missing cursor, or a failed request, reported through the
// outcome with whatever was collected.
func (c *Client) CollectByISSN(ctx context.Context, issns []string, since string, want, maxPages int) ([]domain.RawWork, domain.FetchOutcome) {
	if len(issns) == 0 {
		return nil, domain.FetchOutcome{Kind: domain.StopExhausted}
	}

	var out []domain.RawWork
	cursor := firstCursor
	endpoint := fmt.Sprintf("%s/journals/%s/works", c.cfg.BaseURL, url.PathEscape(issns[0]))

	for page := 0; page < maxPages; page++ {
		if len(out) >= want {
			return out[:want], domain.FetchOutcome{Kind: domain.StopSatisfied}
		}

		params := url.Values{}
		params.Set("filter", "from-pub-date:"+since+",type:journal-article")
		params.Set("sort", "published")
		params.Set("order", "desc")
		params.Set("rows", strconv.Itoa(rowCount(want)))
		params.Set("cursor", cursor)
		if c.cfg.Contact != "" {
			params.Set("mailto", c.cfg.Contact)
		}

		resp, outcome := c.getPage(ctx, endpoint, params)
		if outcome.Failed() {
			return truncate(out, want), outcome
		}

		if len(resp.Message.Items) == 0 {
			return truncate(out, want), domain.FetchOutcome{Kind: domain.StopExhausted}
		}
		for i := range resp.Message.Items {
			out = append(out, toRawWork(&resp.Message.Items[i]))
		}

		cursor = resp.Message.NextCursor
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

func (c *Client) getPage(ctx context.Context, endpoint string, params url.Values) (*worksResponse, domain.FetchOutcome) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.FetchOutcome{Kind: domain.StopTransport, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, domain.FetchOutcome{Kind: domain.StopTransport, Err: err}
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.FetchOutcome{Kind: domain.StopTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, domain.FetchOutcome{Kind: domain.StopHTTP, Status: resp.StatusCode}
	}

	var page worksResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&page); err != nil {
		return nil, domain.FetchOutcome{Kind: domain.StopTransport, Err: err}
	}
	return &page, domain.FetchOutcome{Kind: domain.StopSatisfied}
}

// toRawWork converts a Crossref item into the raw-record shape the
// normalizer consumes. The DOI keeps its resolver-URL form so downstream
// handling matches the primary source's records.
func toRawWork(it *workItem) domain.RawWork {
	doi := strings.ToLower(strings.TrimSpace(it.DOI))

	title := strings.Join(it.Title, " ")
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}

	var id, doiURL string
	if doi != "" {
		id = "crossref:" + doi
		doiURL = doiResolverPrefix + doi
	}

	raw := domain.RawWork{
		ID:              id,
		Title:           title,
		Type:            "article",
		TypeCrossref:    "journal-article",
		DOI:             doiURL,
		PublicationDate: pubDate(it),
		Abstract:        jatsToText(it.Abstract),
		HostVenue:       &domain.Venue{DisplayName: strings.Join(it.ContainerTitle, " ")},
	}
	if doiURL != "" {
		raw.PrimaryLocation = &domain.Location{LandingPageURL: doiURL}
	}
	return raw
}

// pubDate picks the first available of online, print, and issued dates.
// Missing month or day parts default to 1.
func pubDate(it *workItem) string {
	for _, f := range []*dateField{it.PublishedOnline, it.PublishedPrint, it.Issued} {
		if f == nil || len(f.DateParts) == 0 || len(f.DateParts[0]) == 0 {
			continue
		}
		parts := f.DateParts[0]
		y, m, d := parts[0], 1, 1
		if len(parts) > 1 {
			m = parts[1]
		}
		if len(parts) > 2 {
			d = parts[2]
		}
		return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
	}
	return ""
}

// jatsToText strips JATS markup tags and unescapes entities.
func jatsToText(jats string) string {
	if jats == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(jatsTagRE.ReplaceAllString(jats, "")))
}

// rowCount doubles the target to keep page counts low, clamped to 50..200.
func rowCount(want int) int {
	rows := want * 2
	if rows < 50 {
		rows = 50
	}
	if rows > 200 {
		rows = 200
	}
	return rows
}

func truncate(works []domain.RawWork, want int) []domain.RawWork {
	if len(works) > want {
		return works[:want]
	}
	return works
}
