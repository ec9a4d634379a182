package textscore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const lbModel = "A load balancer distributes incoming traffic across multiple servers. " +
	"It improves availability and scalability by routing requests to healthy instances."

func TestScore_VerbatimModelAnswer(t *testing.T) {
	req := require.New(t)
	keywords := []string{"load balancer", "traffic", "availability", "healthy instances"}

	got := NewScorer(nil).Score(lbModel, lbModel, keywords)
	req.Equal(100.0, got.Relevance)
	req.Equal(100.0, got.Completeness)
	req.Equal(keywords, got.Matched)
	req.Empty(got.Missed)
	req.NotNil(got.Missed)
}

func TestScore_ShortAnswer(t *testing.T) {
	req := require.New(t)
	keywords := []string{"index", "b-tree"}

	got := NewScorer(nil).Score("  hey ", lbModel, keywords)
	req.Zero(got.Relevance)
	req.Zero(got.Completeness)
	req.Zero(got.Clarity)
	req.Zero(got.TextScore)
	req.Empty(got.Matched)
	req.Equal(keywords, got.Missed)
}

func TestScore_Clarity(t *testing.T) {
	req := require.New(t)

	got := NewScorer(nil).Score("Um I think it works.", "", nil)
	// length 20, structure 50, diversity 100, one filler
	req.Equal(64.3, got.Clarity)
	req.Zero(got.Relevance)
	req.Equal(50.0, got.Completeness)
	req.Equal(33.6, got.TextScore)
}

func TestScore_EmptyVocabularyFallsBack(t *testing.T) {
	got := NewScorer(nil).Score("it is what it is", "", []string{"queue"})
	require.Equal(t, FallbackRelevance, got.Relevance)
	require.Zero(t, got.Completeness)
}

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		description string
		text        string
		keywords    []string
		matched     []string
		missed      []string
	}{
		{
			"Should match whole words and significant sub-words",
			"We deploy Go services in Docker containers with a clean architecture",
			[]string{"Go", "Docker", "rust", "architecture design"},
			[]string{"Go", "Docker", "architecture design"},
			[]string{"rust"},
		},
		{
			"Should not match short keywords inside longer words",
			"i like google",
			[]string{"go"},
			[]string{},
			[]string{"go"},
		},
		{
			"Should miss everything when nothing appears",
			"nothing relevant here",
			[]string{"consensus", "raft"},
			[]string{},
			[]string{"consensus", "raft"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			matched, missed := MatchKeywords(tt.text, tt.keywords)
			require.Equal(t, tt.matched, matched)
			require.Equal(t, tt.missed, missed)
			require.Len(t, append(matched, missed...), len(tt.keywords))
		})
	}
}

func TestContainsWholeWord(t *testing.T) {
	req := require.New(t)
	req.True(containsWholeWord("use rest apis", "rest"))
	req.False(containsWholeWord("interesting", "rest"))
	req.True(containsWholeWord("interesting rest", "rest"))
	req.True(containsWholeWord("node.js rocks", "node.js"))
}
