package orchestrator

import (
	"time"

	"github.com/harishgm1236-debug/interview-text/prosody"
	"github.com/harishgm1236-debug/interview-text/sentiment"
)

const (
	// MinTranscriptLen is the trimmed length under which an answer counts
	// as not given.
	MinTranscriptLen = 5

	NoAnswerFeedback = "No answer was provided. Please speak clearly into the microphone."
	noEmotion        = "none"
)

// Request is one answer to evaluate.
type Request struct {
	AnswerText  string
	Keywords    []string
	Weight      float64
	ImagePath   string
	AudioPath   string
	ModelAnswer string
	Category    string
}

type Breakdown struct {
	TechnicalAccuracy float64 `json:"technical_accuracy"`
	Relevance         float64 `json:"relevance"`
	Completeness      float64 `json:"completeness"`
	Clarity           float64 `json:"clarity"`
	VisualConfidence  float64 `json:"visual_confidence"`
	VocalConfidence   float64 `json:"vocal_confidence"`
	TextConfidence    float64 `json:"text_confidence"`
}

type SkillScores struct {
	Technical      float64 `json:"technical"`
	Communication  float64 `json:"communication"`
	ProblemSolving float64 `json:"problem_solving"`
	Confidence     float64 `json:"confidence"`
}

type VoiceAnalysis struct {
	WPM      float64 `json:"wpm"`
	Pace     string  `json:"pace"`
	Duration float64 `json:"duration"`
}

type Keywords struct {
	Matched []string `json:"matched"`
	Missed  []string `json:"missed"`
}

// Result is the evaluation of one answer, shaped as the output record.
type Result struct {
	OverallMarks      float64            `json:"overall_marks"`
	OverallPercentage float64            `json:"overall_percentage"`
	Transcript        string             `json:"transcript"`
	EmotionDetected   string             `json:"emotion_detected"`
	EmotionDetails    map[string]float64 `json:"emotion_details"`
	Sentiment         string             `json:"sentiment"`
	SentimentPolarity float64            `json:"sentiment_polarity"`
	Feedback          string             `json:"feedback"`
	Breakdown         Breakdown          `json:"breakdown"`
	SkillScores       SkillScores        `json:"skill_scores"`
	VoiceAnalysis     VoiceAnalysis      `json:"voice_analysis"`
	Keywords          Keywords           `json:"keywords"`
}

// EmptyResult is returned whenever no usable answer was given.
func EmptyResult() Result {
	return Result{
		EmotionDetected: noEmotion,
		EmotionDetails:  map[string]float64{},
		Sentiment:       sentiment.Neutral,
		Feedback:        NoAnswerFeedback,
		VoiceAnalysis:   VoiceAnalysis{Pace: prosody.PaceNone},
		Keywords:        Keywords{Matched: []string{}, Missed: []string{}},
	}
}

// Record renders r as plain maps, slices and scalars. It is never nil.
func (r Result) Record() map[string]any {
	m, ok := Sanitize(r).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return m
}

// Evaluation is a Result with the identity it is stored and published under.
type Evaluation struct {
	ID          string    `json:"evaluation_id"`
	CreatedAt   time.Time `json:"created_at"`
	Category    string    `json:"category"`
	Weight      float64   `json:"weight"`
	Keywords    []string  `json:"keywords"`
	Transcribed bool      `json:"transcribed"`
	Result      Result    `json:"result"`
}
