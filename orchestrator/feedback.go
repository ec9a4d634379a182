package orchestrator

import (
	"strings"

	"github.com/harishgm1236-debug/interview-text/sentiment"
	"github.com/harishgm1236-debug/interview-text/textscore"
)

const maxListedKeywords = 5

// Feedback assembles the comment shown with a score. Each rule adds at
// most one sentence, in a fixed order.
func Feedback(text textscore.Evaluation, tone sentiment.Result, overall float64) string {
	var parts []string

	switch {
	case overall >= 80:
		parts = append(parts, "🌟 Excellent answer! You demonstrated strong understanding.")
	case overall >= 60:
		parts = append(parts, "👍 Good answer with solid understanding. Room for improvement.")
	case overall >= 40:
		parts = append(parts, "💪 Fair answer. Covered some points but missed important concepts.")
	default:
		parts = append(parts, "📚 Your answer needs improvement. Review the core concepts.")
	}

	if text.Relevance < 50 {
		parts = append(parts, "Try to address the question more directly.")
	}
	if len(text.Matched) > 0 {
		parts = append(parts, "✅ Good coverage of: "+strings.Join(firstN(text.Matched, maxListedKeywords), ", ")+".")
	}
	if len(text.Missed) > 0 {
		parts = append(parts, "❌ Consider mentioning: "+strings.Join(firstN(text.Missed, maxListedKeywords), ", ")+".")
	}

	switch {
	case text.Clarity < 50:
		parts = append(parts, "Structure your answer more clearly.")
	case text.Clarity >= 80:
		parts = append(parts, "Your answer was well-structured and clear.")
	}

	switch {
	case tone.Confidence < 40:
		parts = append(parts, "Express answers with more confidence.")
	case tone.Confidence >= 80:
		parts = append(parts, "You demonstrated strong confidence.")
	}

	if tone.Label == sentiment.Negative {
		parts = append(parts, "Try to maintain a more positive tone.")
	}
	return strings.Join(parts, " ")
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
