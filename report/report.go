// Package report summarises a whole interview session from its per-answer
// evaluations.
package report

import (
	"github.com/samber/lo"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/scoring"
)

const (
	maxMarks       = 10.0
	strengthAbove  = 70.0
	weaknessBelow  = 50.0
	noEmotion      = "none"
	skillTechnical = "technical"
	skillComm      = "communication"
	skillProblem   = "problem_solving"
	skillConf      = "confidence"
)

var skillOrder = []string{skillTechnical, skillComm, skillProblem, skillConf}

// Answer is one evaluated answer and the weight of its question.
type Answer struct {
	Weight float64             `json:"weight" validate:"gte=0"`
	Result orchestrator.Result `json:"result"`
}

type Summary struct {
	Answers         int                `json:"answers"`
	TotalMarks      float64            `json:"total_marks"`
	MaxPossible     float64            `json:"max_possible"`
	Percentage      float64            `json:"percentage"`
	AverageScore    float64            `json:"average_score"`
	SkillAverages   map[string]float64 `json:"skill_averages"`
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	DominantEmotion string             `json:"dominant_emotion"`
	Grade           string             `json:"grade"`
}

// Summarize folds the answers of a session into one Summary. A missing
// weight counts as 1.
func Summarize(answers []Answer) Summary {
	s := Summary{
		SkillAverages:   map[string]float64{},
		Strengths:       []string{},
		Weaknesses:      []string{},
		DominantEmotion: noEmotion,
		Grade:           Grade(0),
	}
	if len(answers) == 0 {
		return s
	}
	s.Answers = len(answers)

	var marks float64
	for _, a := range answers {
		w := a.Weight
		if w <= 0 {
			w = 1
		}
		s.TotalMarks += a.Result.OverallMarks * w
		s.MaxPossible += maxMarks * w
		marks += a.Result.OverallMarks
	}
	s.AverageScore = scoring.Round1(marks / float64(len(answers)))
	s.Percentage = scoring.Round1(scoring.Percent(s.TotalMarks / s.MaxPossible * 100))
	s.TotalMarks = scoring.Round1(s.TotalMarks)
	s.Grade = Grade(s.Percentage)

	skills := lo.Map(answers, func(a Answer, _ int) orchestrator.SkillScores { return a.Result.SkillScores })
	mean := func(pick func(orchestrator.SkillScores) float64) float64 {
		return scoring.Round1(lo.SumBy(skills, pick) / float64(len(skills)))
	}
	s.SkillAverages[skillTechnical] = mean(func(k orchestrator.SkillScores) float64 { return k.Technical })
	s.SkillAverages[skillComm] = mean(func(k orchestrator.SkillScores) float64 { return k.Communication })
	s.SkillAverages[skillProblem] = mean(func(k orchestrator.SkillScores) float64 { return k.ProblemSolving })
	s.SkillAverages[skillConf] = mean(func(k orchestrator.SkillScores) float64 { return k.Confidence })

	s.Strengths = lo.Filter(skillOrder, func(k string, _ int) bool { return s.SkillAverages[k] >= strengthAbove })
	s.Weaknesses = lo.Filter(skillOrder, func(k string, _ int) bool { return s.SkillAverages[k] < weaknessBelow })

	s.DominantEmotion = dominant(lo.Map(answers, func(a Answer, _ int) string { return a.Result.EmotionDetected }))
	return s
}

// dominant returns the most frequent emotion, ties going to the one seen
// first. Unknown and empty labels are ignored.
func dominant(labels []string) string {
	labels = lo.Filter(labels, func(l string, _ int) bool {
		return l != "" && l != noEmotion && l != "unknown"
	})
	if len(labels) == 0 {
		return noEmotion
	}
	counts := lo.CountValues(labels)
	best := labels[0]
	for _, l := range lo.Uniq(labels) {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}

// Grade maps a session percentage to a letter.
func Grade(pct float64) string {
	switch {
	case pct >= 90:
		return "A+"
	case pct >= 80:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 60:
		return "C"
	case pct >= 50:
		return "D"
	default:
		return "F"
	}
}
