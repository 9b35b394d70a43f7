// Package openalex provides a client for the OpenAlex API.
//
// OpenAlex is free, has no hard rate limits in the polite pool, and exposes
// cursor-paginated work listings plus a source-search endpoint.
//
// API Documentation: https://docs.openalex.org/
package openalex

import "github.com/paper-digest/backend/internal/domain"

// worksResponse is a page of the works endpoint.
type worksResponse struct {
	Meta    meta             `json:"meta"`
	Results []domain.RawWork `json:"results"`
}

type meta struct {
	Count      int    `json:"count"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	NextCursor string `json:"next_cursor"`
}

// Source is one entry of the source-search endpoint, ranked by relevance.
type Source struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	ISSNs       []string `json:"issn"`
}

type sourcesResponse struct {
	Results []Source `json:"results"`
}

// WorksQuery is a composed works query: a comma-joined filter expression
// plus a sort directive.
type WorksQuery struct {
	Filter string
	Sort   string
}
