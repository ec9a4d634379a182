//go:generate go run go.uber.org/mock/mockgen -source=classifier.go -destination=../mocks/mock_classifier.go -package=mocks
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harishgm1236-debug/interview-text/clients"
)

// ErrNoFace is returned when the image holds no detectable face.
var ErrNoFace = errors.New("vision: no face detected")

// Emotion is a classifier verdict: the dominant label and the score of
// every label, in percent.
type Emotion struct {
	Dominant string
	Scores   map[string]float64
}

// Classifier detects the facial emotion in a still image.
type Classifier interface {
	Classify(ctx context.Context, imagePath string) (Emotion, error)
}

// ServiceClassifier calls the emotion service's /detect endpoint.
type ServiceClassifier struct {
	http *clients.HTTP
	url  string
}

func NewServiceClassifier(h *clients.HTTP, url string) *ServiceClassifier {
	return &ServiceClassifier{http: h, url: url}
}

func (s *ServiceClassifier) Classify(ctx context.Context, imagePath string) (Emotion, error) {
	resp, err := s.http.Emotion(ctx, s.url, imagePath)
	if err != nil {
		return Emotion{}, fmt.Errorf("classify %s: %w", imagePath, err)
	}
	if (resp.FaceFound != nil && !*resp.FaceFound) || resp.DominantEmotion == "" {
		return Emotion{}, ErrNoFace
	}
	out := Emotion{Dominant: strings.ToLower(resp.DominantEmotion), Scores: make(map[string]float64, len(resp.Emotions))}
	for _, e := range resp.Emotions {
		out.Scores[strings.ToLower(e.Label)] = e.Score
	}
	return out, nil
}
