package usecase

import (
	"strings"

	"github.com/paper-digest/backend/internal/domain"
)

const (
	doiResolverPrefix = "https://doi.org/"

	noTitlePlaceholder    = "[No Title]"
	unknownJournalDisplay = "Unknown Journal"
)

// Normalize converts a source-shaped record into the canonical output
// schema. It is total: every field gets a best-effort value or an explicit
// default, and it never fails.
func Normalize(w *domain.RawWork, fallbackJournal string) domain.Work {
	title := w.Title
	if title == "" {
		title = noTitlePlaceholder
	}

	published := w.PublicationDate
	if published == "" {
		published = w.CreatedDate
	}

	journal := w.VenueName()
	if journal == "" {
		journal = fallbackJournal
	}
	if journal == "" {
		journal = unknownJournalDisplay
	}

	var url string
	switch {
	case strings.HasPrefix(w.DOI, "http"):
		url = w.DOI
	case w.LandingPageURL() != "":
		url = w.LandingPageURL()
	default:
		url = w.ID
	}

	return domain.Work{
		ID:                    w.ID,
		Title:                 title,
		Published:             published,
		Journal:               journal,
		DOI:                   strings.TrimPrefix(w.DOI, doiResolverPrefix),
		URL:                   url,
		Abstract:              w.Abstract,
		AbstractInvertedIndex: w.AbstractInvertedIndex,
	}
}
