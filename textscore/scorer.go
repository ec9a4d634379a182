// Package textscore rates the content of a transcript against a question's
// model answer and keyword set: relevance, completeness and clarity.
package textscore

import (
	"errors"
	"io"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/lexicon"
	"github.com/harishgm1236-debug/interview-text/scoring"
)

const (
	// RelevanceScale stretches cosine similarity before capping at 100.
	RelevanceScale = 1.5
	// FallbackRelevance is used when the answer cannot be vectorized.
	FallbackRelevance = 30.0
	// MinAnswerLen is the trimmed length under which nothing is scored.
	MinAnswerLen = 5

	emptyKeywordCompleteness = 50.0
	subWordMinLen            = 4
)

// Fillers are hedging words penalized in the clarity score.
var Fillers = []string{
	"um", "uh", "like", "basically", "actually", "literally",
	"you know", "i mean", "sort of", "kind of",
}

var sentenceSplitRE = regexp.MustCompile(`[.!?]+`)

// Evaluation is the content score of one answer.
type Evaluation struct {
	Relevance    float64  `json:"relevance"`
	Completeness float64  `json:"completeness"`
	Clarity      float64  `json:"clarity"`
	TextScore    float64  `json:"text_score"`
	Matched      []string `json:"matched_keywords"`
	Missed       []string `json:"missed_keywords"`
}

type Scorer struct {
	vectorizer Vectorizer
	fillers    *lexicon.Matcher
	log        logrus.FieldLogger
}

func NewScorer(log logrus.FieldLogger) *Scorer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Scorer{vectorizer: NewVectorizer(), fillers: lexicon.MustNew(Fillers...), log: log}
}

// Score rates answer. Scores are rounded to one decimal; TextScore is
// combined from the unrounded parts.
func (s *Scorer) Score(answer, modelAnswer string, keywords []string) Evaluation {
	if utf8.RuneCountInString(strings.TrimSpace(answer)) < MinAnswerLen {
		return Evaluation{Matched: []string{}, Missed: append([]string{}, keywords...)}
	}
	clean := strings.ToLower(strings.TrimSpace(answer))

	relevance := s.relevance(modelAnswer, clean)
	matched, missed := MatchKeywords(clean, keywords)
	completeness := emptyKeywordCompleteness
	if len(keywords) > 0 {
		completeness = float64(len(matched)) / float64(len(keywords)) * 100
	}
	clarity := s.clarity(answer, clean)
	text := relevance*0.40 + completeness*0.35 + clarity*0.25

	return Evaluation{
		Relevance:    scoring.Round1(relevance),
		Completeness: scoring.Round1(completeness),
		Clarity:      scoring.Round1(clarity),
		TextScore:    scoring.Round1(text),
		Matched:      matched,
		Missed:       missed,
	}
}

func (s *Scorer) relevance(modelAnswer, clean string) float64 {
	sim, err := s.vectorizer.Similarity(modelAnswer, clean)
	if err != nil {
		if !errors.Is(err, ErrEmptyVocabulary) {
			s.log.WithError(err).Warn("relevance vectorization failed")
		}
		return FallbackRelevance
	}
	return math.Min(sim*100*RelevanceScale, 100)
}

// MatchKeywords partitions keywords into those present in text and those
// missing, preserving input order. A keyword matches as a whole word, or
// when any of its words longer than three characters appears anywhere.
func MatchKeywords(text string, keywords []string) (matched, missed []string) {
	matched, missed = []string{}, []string{}
	text = strings.ToLower(text)
	for _, k := range keywords {
		if keywordPresent(text, strings.ToLower(k)) {
			matched = append(matched, k)
		} else {
			missed = append(missed, k)
		}
	}
	return matched, missed
}

func keywordPresent(text, k string) bool {
	if containsWholeWord(text, k) {
		return true
	}
	for _, part := range strings.Fields(k) {
		if utf8.RuneCountInString(part) >= subWordMinLen && strings.Contains(text, part) {
			return true
		}
	}
	return false
}

// containsWholeWord reports whether k occurs in text with a word boundary
// on both ends, in the regexp \b sense.
func containsWholeWord(text, k string) bool {
	if k == "" {
		return atBoundary(text, 0)
	}
	for off := 0; off <= len(text); {
		i := strings.Index(text[off:], k)
		if i < 0 {
			return false
		}
		start := off + i
		if atBoundary(text, start) && atBoundary(text, start+len(k)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		off = start + size
	}
	return false
}

func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (s *Scorer) clarity(answer, clean string) float64 {
	words := strings.Fields(clean)
	wc := len(words)

	var length float64
	switch {
	case wc < 10:
		length = 20
	case wc < 30:
		length = 50
	case wc <= 200:
		length = 100
	default:
		length = math.Max(70, 100-float64(wc-200)/5)
	}

	sentences := 0
	for _, part := range sentenceSplitRE.Split(answer, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	structure := 40.0
	if sentences > 0 {
		avg := float64(wc) / float64(sentences)
		switch {
		case avg >= 10 && avg <= 25:
			structure = 100
		case avg < 10:
			structure = avg * 10
		default:
			structure = math.Max(40, 100-(avg-25)*3)
		}
	}

	unique := make(map[string]struct{}, wc)
	for _, w := range words {
		unique[w] = struct{}{}
	}
	diversity := math.Min(float64(len(unique))/float64(max(wc, 1))*130, 100)

	penalty := math.Min(float64(s.fillers.Count(clean))*5, 25)

	return length*0.25 + structure*0.30 + diversity*0.30 + (100-penalty)*0.15
}
