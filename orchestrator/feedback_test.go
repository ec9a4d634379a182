package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harishgm1236-debug/interview-text/sentiment"
	"github.com/harishgm1236-debug/interview-text/textscore"
)

func TestFeedback(t *testing.T) {
	tests := []struct {
		description string
		text        textscore.Evaluation
		tone        sentiment.Result
		overall     float64
		want        string
	}{
		{
			"Should list at most five keywords and every hint",
			textscore.Evaluation{Relevance: 40, Clarity: 85, Matched: []string{"a", "b", "c", "d", "e", "f"}, Missed: []string{"x"}},
			sentiment.Result{Label: sentiment.Negative, Confidence: 30},
			65,
			"👍 Good answer with solid understanding. Room for improvement. " +
				"Try to address the question more directly. " +
				"✅ Good coverage of: a, b, c, d, e. " +
				"❌ Consider mentioning: x. " +
				"Your answer was well-structured and clear. " +
				"Express answers with more confidence. " +
				"Try to maintain a more positive tone.",
		},
		{
			"Should praise a strong answer",
			textscore.Evaluation{Relevance: 90, Clarity: 60, Matched: []string{"raft"}, Missed: []string{}},
			sentiment.Result{Label: sentiment.Positive, Confidence: 85},
			80,
			"🌟 Excellent answer! You demonstrated strong understanding. ✅ Good coverage of: raft. You demonstrated strong confidence.",
		},
		{
			"Should use the fair opener",
			textscore.Evaluation{Relevance: 50, Clarity: 49},
			sentiment.Result{Label: sentiment.Neutral, Confidence: 40},
			40,
			"💪 Fair answer. Covered some points but missed important concepts. Structure your answer more clearly.",
		},
		{
			"Should use the weak opener",
			textscore.Evaluation{Relevance: 60, Clarity: 60},
			sentiment.Result{Label: sentiment.Neutral, Confidence: 60},
			39.9,
			"📚 Your answer needs improvement. Review the core concepts.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			require.Equal(t, tt.want, Feedback(tt.text, tt.tone, tt.overall))
		})
	}
}
