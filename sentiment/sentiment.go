// Package sentiment rates the tone of an answer and how confidently it is
// phrased.
package sentiment

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/lexicon"
	"github.com/harishgm1236-debug/interview-text/scoring"
)

const (
	Positive = "positive"
	Neutral  = "neutral"
	Negative = "negative"

	labelThreshold = 0.1
	minTextLen     = 5
)

var (
	ConfidentWords = []string{
		"definitely", "certainly", "absolutely", "clearly", "specifically",
		"precisely", "implemented", "built", "designed", "created",
		"developed", "achieved", "successfully", "demonstrated", "proven",
		"strong", "efficient", "effective", "expertise", "proficient",
	}
	HesitationWords = []string{
		"maybe", "perhaps", "possibly", "might", "could be",
		"i think", "i guess", "not sure", "probably", "i believe",
		"somewhat", "sort of", "kind of", "um", "uh", "hmm",
	}
	UncertaintyWords = []string{
		"don't know", "no idea", "not familiar", "can't remember",
		"forgot", "unclear", "confused", "not confident",
	}
)

// Result is the tone of one answer.
type Result struct {
	Label      string  `json:"sentiment"`
	Polarity   float64 `json:"polarity"`
	Confidence float64 `json:"confidence"`
}

// Bonus is the communication adjustment for the tone.
func (r Result) Bonus() float64 {
	switch r.Label {
	case Positive:
		return 5
	case Negative:
		return -5
	}
	return 0
}

type Analyzer struct {
	polarity   PolarityScorer
	confident  *lexicon.Matcher
	hesitation *lexicon.Matcher
	uncertain  *lexicon.Matcher
	log        logrus.FieldLogger
}

// NewAnalyzer uses VADER when scorer is nil.
func NewAnalyzer(scorer PolarityScorer, log logrus.FieldLogger) *Analyzer {
	if scorer == nil {
		scorer = NewVaderPolarity()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Analyzer{
		polarity:   scorer,
		confident:  lexicon.MustNew(ConfidentWords...),
		hesitation: lexicon.MustNew(HesitationWords...),
		uncertain:  lexicon.MustNew(UncertaintyWords...),
		log:        log,
	}
}

// Analyze never fails; a polarity error counts as neutral.
func (a *Analyzer) Analyze(ctx context.Context, text string) Result {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLen {
		return Result{Label: Neutral}
	}

	p, err := a.polarity.Polarity(ctx, text)
	if err != nil {
		a.log.WithFields(logrus.Fields{"stage": "sentiment", "error": err}).Warn("polarity failed")
		p = 0
	}
	p = scoring.Clamp(p, -1, 1)

	return Result{
		Label:      Label(p),
		Polarity:   scoring.Round4(p),
		Confidence: scoring.Round1(a.confidence(text)),
	}
}

// Label buckets a polarity.
func Label(p float64) string {
	switch {
	case p > labelThreshold:
		return Positive
	case p < -labelThreshold:
		return Negative
	}
	return Neutral
}

func (a *Analyzer) confidence(text string) float64 {
	lower := strings.ToLower(text)
	boost := min(float64(a.confident.Count(lower))*7, 35)
	hedge := min(float64(a.hesitation.Count(lower))*6, 25)
	doubt := min(float64(a.uncertain.Count(lower))*10, 25)

	var lengthMod float64
	switch wc := len(strings.Fields(lower)); {
	case wc < 10:
		lengthMod = -20
	case wc < 30:
		lengthMod = -5
	default:
		lengthMod = 10
	}
	return scoring.Percent(50 + boost - hedge - doubt + lengthMod)
}
