// Package vision turns the candidate's facial expression into a visual
// confidence score.
package vision

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/scoring"
)

const (
	Unknown           = "unknown"
	DefaultConfidence = 50.0
)

// ConfidenceByEmotion maps a dominant emotion to visual confidence.
var ConfidenceByEmotion = map[string]float64{
	"happy":    95,
	"neutral":  85,
	"surprise": 75,
	"fear":     35,
	"sad":      30,
	"angry":    25,
	"disgust":  20,
}

type Result struct {
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"visual_confidence"`
	Details    map[string]float64 `json:"emotion_details"`
}

// Unavailable is the result when no face could be assessed.
func Unavailable() Result {
	return Result{Emotion: Unknown, Confidence: DefaultConfidence, Details: map[string]float64{}}
}

type Mapper struct {
	classifier Classifier
	log        logrus.FieldLogger
}

func NewMapper(c Classifier, log logrus.FieldLogger) *Mapper {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Mapper{classifier: c, log: log}
}

// Analyze never fails: a missing image, no face or a classifier error
// yield Unavailable.
func (m *Mapper) Analyze(ctx context.Context, imagePath string) Result {
	if imagePath == "" || m.classifier == nil {
		return Unavailable()
	}
	if _, err := os.Stat(imagePath); err != nil {
		return Unavailable()
	}

	e, err := m.classifier.Classify(ctx, imagePath)
	if err != nil {
		fields := logrus.Fields{"stage": "vision", "path": imagePath, "error": err}
		if errors.Is(err, ErrNoFace) {
			m.log.WithFields(fields).Info("no face in frame")
		} else {
			m.log.WithFields(fields).Warn("face analysis failed")
		}
		return Unavailable()
	}

	conf, ok := ConfidenceByEmotion[e.Dominant]
	if !ok {
		conf = DefaultConfidence
	}
	details := make(map[string]float64, len(e.Scores))
	for k, v := range e.Scores {
		details[k] = scoring.Round1(v)
	}
	return Result{Emotion: e.Dominant, Confidence: conf, Details: details}
}
