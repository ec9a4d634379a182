package textscore

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmptyVocabulary is returned when no document holds a usable term.
var ErrEmptyVocabulary = errors.New("textscore: empty vocabulary; documents only contain stop words")

var tokenRE = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer builds unigram and bigram TF-IDF vectors with smoothed idf and
// l2 normalization.
type Vectorizer struct {
	MaxFeatures int
	MaxN        int
}

func NewVectorizer() Vectorizer { return Vectorizer{MaxFeatures: 5000, MaxN: 2} }

// Terms lowercases doc, drops stop words and returns its n-grams.
func (v Vectorizer) Terms(doc string) []string {
	var tokens []string
	for _, t := range tokenRE.FindAllString(strings.ToLower(doc), -1) {
		if _, stop := englishStopWords[t]; !stop {
			tokens = append(tokens, t)
		}
	}
	maxN := max(v.MaxN, 1)
	terms := make([]string, 0, len(tokens)*maxN)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// FitTransform learns the vocabulary over docs and returns one l2-normalized
// sparse vector per document.
func (v Vectorizer) FitTransform(docs ...string) ([]map[string]float64, error) {
	counts := make([]map[string]int, len(docs))
	df := map[string]int{}
	total := map[string]int{}
	for i, d := range docs {
		counts[i] = map[string]int{}
		for _, t := range v.Terms(d) {
			counts[i][t]++
			total[t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	vocab := v.limit(total)
	n := float64(len(docs))
	out := make([]map[string]float64, len(docs))
	for i, c := range counts {
		vec := map[string]float64{}
		var norm float64
		for t, tf := range c {
			if _, ok := vocab[t]; !ok {
				continue
			}
			w := float64(tf) * (math.Log((1+n)/(1+float64(df[t]))) + 1)
			vec[t] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range vec {
				vec[t] /= norm
			}
		}
		out[i] = vec
	}
	return out, nil
}

// limit keeps the MaxFeatures most frequent terms, ties broken
// alphabetically.
func (v Vectorizer) limit(total map[string]int) map[string]struct{} {
	terms := make([]string, 0, len(total))
	for t := range total {
		terms = append(terms, t)
	}
	if v.MaxFeatures > 0 && len(terms) > v.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.MaxFeatures]
	}
	keep := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		keep[t] = struct{}{}
	}
	return keep
}

// Cosine of two normalized sparse vectors.
func Cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}

// Similarity fits a and b together and returns their cosine similarity.
func (v Vectorizer) Similarity(a, b string) (float64, error) {
	vecs, err := v.FitTransform(a, b)
	if err != nil {
		return 0, err
	}
	return Cosine(vecs[0], vecs[1]), nil
}
