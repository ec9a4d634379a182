//go:generate go run go.uber.org/mock/mockgen -source=polarity.go -destination=../mocks/mock_polarity.go -package=mocks
package sentiment

import (
	"context"
	"io"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/clients"
	"github.com/harishgm1236-debug/interview-text/scoring"
)

// PolarityScorer rates text between -1 (negative) and 1 (positive).
type PolarityScorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// VaderPolarity scores text with the VADER rule set. The compound score is
// already normalised to [-1, 1].
type VaderPolarity struct {
	sia *govader.SentimentIntensityAnalyzer
}

func NewVaderPolarity() *VaderPolarity {
	return &VaderPolarity{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderPolarity) Polarity(_ context.Context, text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	return scoring.Clamp(v.sia.PolarityScores(text).Compound, -1, 1), nil
}

// ServicePolarity asks the NLP service and falls back to VADER when it is
// unavailable.
type ServicePolarity struct {
	http     *clients.HTTP
	url      string
	fallback PolarityScorer
	log      logrus.FieldLogger
}

func NewServicePolarity(h *clients.HTTP, url string, log logrus.FieldLogger) *ServicePolarity {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &ServicePolarity{http: h, url: url, fallback: NewVaderPolarity(), log: log}
}

func (s *ServicePolarity) Polarity(ctx context.Context, text string) (float64, error) {
	resp, err := s.http.NLP(ctx, s.url, text)
	if err != nil {
		s.log.WithFields(logrus.Fields{"stage": "sentiment", "error": err}).Warn("nlp service failed, using vader")
		return s.fallback.Polarity(ctx, text)
	}
	return scoring.Clamp(resp.Polarity, -1, 1), nil
}
