package questionbank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	b := Default()
	require.Equal(t, []string{"backend", "datascience", "devops", "frontend", "fullstack"}, b.Tracks())
	require.Equal(t, []string{RoundBackground, RoundDomain, RoundProject}, b.Rounds("backend"))

	for _, track := range b.Tracks() {
		all, err := b.Questions(track, LevelAll)
		require.NoError(t, err)
		require.Len(t, all, 15, track)
		for _, e := range all {
			require.NotEmpty(t, e.Keywords)
			require.NotEmpty(t, e.ModelAnswer)
		}
	}
}

func TestRoundWeights(t *testing.T) {
	b := Default()
	cases := []struct {
		round    string
		weight   float64
		category string
	}{
		{RoundBackground, 1, "behavioral"},
		{RoundDomain, 2, "technical"},
		{RoundProject, 3, "problem_solving"},
	}
	for _, tc := range cases {
		t.Run(tc.round, func(t *testing.T) {
			q, err := b.Lookup("frontend", tc.round, 0)
			require.NoError(t, err)
			require.Equal(t, tc.weight, q.Weight)
			require.Equal(t, tc.category, q.Category)
		})
	}
}

func TestLookupNotFound(t *testing.T) {
	b := Default()
	for _, tc := range []struct {
		track, round string
		index        int
	}{
		{"mobile", RoundDomain, 0},
		{"backend", "round_9", 0},
		{"backend", RoundDomain, 99},
		{"backend", RoundDomain, -1},
	} {
		_, err := b.Lookup(tc.track, tc.round, tc.index)
		require.ErrorIs(t, err, ErrNotFound)
	}
	_, err := b.Questions("mobile", "")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = b.Questions("backend", "round_9")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionsByLevel(t *testing.T) {
	qs, err := Default().Questions("devops", RoundProject)
	require.NoError(t, err)
	require.Len(t, qs, 5)
	for i, e := range qs {
		require.Equal(t, RoundProject, e.Round)
		require.Equal(t, i, e.Index)
		require.Equal(t, "devops", e.Track)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.yaml")
	doc := `tracks:
  go:
    round_2_domain:
      - prompt: What does a goroutine cost?
        keywords: [stack, scheduler]
        model_answer: A few kilobytes of stack.
        category: technical
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	q, err := b.Lookup("go", RoundDomain, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"stack", "scheduler"}, q.Keywords)
	require.Equal(t, 1.0, q.Weight)

	b, err = Load("")
	require.NoError(t, err)
	require.Len(t, b.Tracks(), 5)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Parse([]byte("tracks: {}"))
	require.Error(t, err)
	_, err = Parse([]byte("tracks:\n  x:\n    r:\n      - keywords: [a]\n"))
	require.Error(t, err)
}
