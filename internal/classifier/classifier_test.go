package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paper-digest/backend/internal/domain"
)

func venue(name string) *domain.Location {
	return &domain.Location{Source: &domain.Venue{DisplayName: name}}
}

func TestIsResearch(t *testing.T) {
	longAbstract := "This study characterizes the transcriptional landscape of tissue-resident memory T cells."

	tests := []struct {
		name      string
		work      domain.RawWork
		allowNews bool
		want      bool
	}{
		{
			name: "article with long abstract",
			work: domain.RawWork{
				Title:        "Single-cell atlas of human bone marrow",
				TypeCrossref: "journal-article",
				Abstract:     longAbstract,
			},
			want: true,
		},
		{
			name: "article with rich inverted index",
			work: domain.RawWork{
				Title:        "Metabolic control of stem cell fate",
				TypeCrossref: "journal-article",
				AbstractInvertedIndex: map[string][]int{
					"the": {0}, "role": {1}, "of": {2}, "metabolism": {3}, "in": {4},
					"stem": {5}, "cell": {6}, "fate": {7}, "is": {8}, "explored": {9},
				},
			},
			want: true,
		},
		{
			name: "no abstract signal",
			work: domain.RawWork{
				Title:        "Metabolic control of stem cell fate",
				TypeCrossref: "journal-article",
				Abstract:     "Too short.",
			},
			want: false,
		},
		{
			name: "whitelisted venue bypasses abstract check",
			work: domain.RawWork{
				Title:           "Structural basis of ribosome rescue",
				TypeCrossref:    "journal-article",
				PrimaryLocation: venue("Nature"),
			},
			want: true,
		},
		{
			name: "whitelisted venue via host venue field",
			work: domain.RawWork{
				Title:        "Gut microbes shape antiviral immunity",
				TypeCrossref: "journal-article",
				HostVenue:    &domain.Venue{DisplayName: "Cell"},
			},
			want: true,
		},
		{
			name: "news-like title rejected",
			work: domain.RawWork{
				Title:           "News & Views: the year in immunology",
				TypeCrossref:    "journal-article",
				PrimaryLocation: venue("Nature"),
			},
			want: false,
		},
		{
			name: "research briefing title rejected",
			work: domain.RawWork{
				Title:        "Research Briefing: how plants sense heat",
				TypeCrossref: "journal-article",
				Abstract:     longAbstract,
			},
			want: false,
		},
		{
			name: "editorial genre rejected",
			work: domain.RawWork{
				Title:        "On the future of peer review",
				TypeCrossref: "editorial",
				Abstract:     longAbstract,
			},
			want: false,
		},
		{
			name: "news genre rejected via native type",
			work: domain.RawWork{
				Title:    "A telescope like no other",
				Type:     "news-item",
				Abstract: longAbstract,
			},
			want: false,
		},
		{
			name: "allow news accepts news genre",
			work: domain.RawWork{
				Title:        "A telescope like no other",
				TypeCrossref: "news-item",
			},
			allowNews: true,
			want:      true,
		},
		{
			name: "allow news accepts news-like title",
			work: domain.RawWork{
				Title:        "World View: science funding at a crossroads",
				TypeCrossref: "journal-article",
			},
			allowNews: true,
			want:      true,
		},
		{
			name: "correction rejected even when news allowed",
			work: domain.RawWork{
				Title:           "Author Correction: single-cell atlas of human bone marrow",
				TypeCrossref:    "correction",
				PrimaryLocation: venue("Nature"),
			},
			allowNews: true,
			want:      false,
		},
		{
			name: "retraction rejected",
			work: domain.RawWork{
				Title:        "Retraction Note: metabolic control of stem cell fate",
				TypeCrossref: "retraction",
				Abstract:     longAbstract,
			},
			want: false,
		},
		{
			name: "empty record rejected",
			work: domain.RawWork{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsResearch(&tt.work, tt.allowNews))
		})
	}
}

func TestIsResearchIndexWordThreshold(t *testing.T) {
	// Nine distinct words is below the threshold, ten is at it.
	index := map[string][]int{}
	words := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for i, w := range words {
		index[w] = []int{i}
	}

	w := domain.RawWork{
		Title:                 "Plain article title",
		TypeCrossref:          "journal-article",
		AbstractInvertedIndex: index,
	}
	assert.False(t, IsResearch(&w, false))

	index["j"] = []int{9}
	assert.True(t, IsResearch(&w, false))
}
