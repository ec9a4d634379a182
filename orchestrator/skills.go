package orchestrator

import (
	"github.com/harishgm1236-debug/interview-text/prosody"
	"github.com/harishgm1236-debug/interview-text/scoring"
	"github.com/harishgm1236-debug/interview-text/sentiment"
	"github.com/harishgm1236-debug/interview-text/textscore"
	"github.com/harishgm1236-debug/interview-text/vision"
)

const (
	CategoryTechnical      = "technical"
	CategoryProblemSolving = "problem_solving"
	CategoryBehavioral     = "behavioral"
)

type technicalWeights struct{ relevance, completeness, clarity float64 }

var technicalByCategory = map[string]technicalWeights{
	CategoryTechnical:      {0.4, 0.4, 0.2},
	CategoryProblemSolving: {0.3, 0.5, 0.2},
}

var defaultTechnical = technicalWeights{0.3, 0.3, 0.4}

// Skills combines the per-modality scores into the four skill scores.
func Skills(text textscore.Evaluation, tone sentiment.Result, face vision.Result, voice prosody.Result, category string) SkillScores {
	w, ok := technicalByCategory[category]
	if !ok {
		w = defaultTechnical
	}
	technical := text.Relevance*w.relevance + text.Completeness*w.completeness + text.Clarity*w.clarity

	communication := text.Clarity*0.4 + voice.VocalConfidence*0.3 +
		face.Confidence*0.2 + (50+tone.Bonus())*0.1

	problemSolving := text.Completeness*0.4 + text.Relevance*0.35 +
		text.Clarity*0.15 + tone.Confidence*0.1

	confidence := tone.Confidence*0.4 + face.Confidence*0.3 + voice.VocalConfidence*0.3

	return SkillScores{
		Technical:      scoring.Round1(scoring.Percent(technical)),
		Communication:  scoring.Round1(scoring.Percent(communication)),
		ProblemSolving: scoring.Round1(scoring.Percent(problemSolving)),
		Confidence:     scoring.Round1(scoring.Percent(confidence)),
	}
}

// Overall is the weighted percentage across modalities, clamped to 0..100.
func Overall(text textscore.Evaluation, tone sentiment.Result, face vision.Result, voice prosody.Result, skills SkillScores) float64 {
	return scoring.Percent(text.TextScore*0.50 +
		face.Confidence*0.15 +
		voice.VocalConfidence*0.15 +
		tone.Confidence*0.10 +
		skills.Communication*0.10)
}
