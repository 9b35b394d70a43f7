package domain

import "strings"

// Work is the canonical record served to the presentation layer.
// DOI is always bare (no resolver-URL prefix); URL prefers the DOI resolver
// link, then the landing page, then the source's opaque identifier.
type Work struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	Published             string           `json:"published"`
	Journal               string           `json:"journal"`
	DOI                   string           `json:"doi"`
	URL                   string           `json:"url,omitempty"`
	Abstract              string           `json:"abstract,omitempty"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index,omitempty"`
}

// RawWork is the source-shaped record produced by the upstream clients.
// OpenAlex responses decode into it directly; the Crossref client converts
// its items into the same shape. Depending on the OpenAlex API version the
// venue lives under primary_location.source or under host_venue, so both
// are kept and VenueName checks both.
type RawWork struct {
	ID                    string           `json:"id"`
	Title                 string           `json:"title"`
	Type                  string           `json:"type"`
	TypeCrossref          string           `json:"type_crossref"`
	DOI                   string           `json:"doi"`
	PublicationDate       string           `json:"publication_date"`
	CreatedDate           string           `json:"created_date"`
	Abstract              string           `json:"abstract"`
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
	PrimaryLocation       *Location        `json:"primary_location"`
	HostVenue             *Venue           `json:"host_venue"`
}

// Location is where a work is available.
type Location struct {
	LandingPageURL string `json:"landing_page_url"`
	Source         *Venue `json:"source"`
}

// Venue is a publication outlet.
type Venue struct {
	DisplayName string `json:"display_name"`
}

// Genre returns the lowercased genre tag, preferring the more specific
// Crossref type over the native one.
func (w *RawWork) Genre() string {
	if w.TypeCrossref != "" {
		return strings.ToLower(w.TypeCrossref)
	}
	return strings.ToLower(w.Type)
}

// VenueName returns the venue display name from whichever nested location
// holds it, or "".
func (w *RawWork) VenueName() string {
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil && w.PrimaryLocation.Source.DisplayName != "" {
		return w.PrimaryLocation.Source.DisplayName
	}
	if w.HostVenue != nil {
		return w.HostVenue.DisplayName
	}
	return ""
}

// LandingPageURL returns the record's landing-page URL, or "".
func (w *RawWork) LandingPageURL() string {
	if w.PrimaryLocation != nil {
		return w.PrimaryLocation.LandingPageURL
	}
	return ""
}
