// Package lexicon finds which phrases of a fixed word list occur in a text.
// Matching is case-insensitive and substring based, so "um" also fires
// inside "album".
package lexicon

import (
	"slices"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Matcher struct {
	machine *goahocorasick.Machine
	terms   []string
}

// New builds an Aho-Corasick automaton over the lowercased, de-duplicated
// terms.
func New(terms []string) (*Matcher, error) {
	uniq := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			uniq = append(uniq, t)
		}
	}
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)
	if len(uniq) == 0 {
		return &Matcher{}, nil
	}

	patterns := make([][]rune, len(uniq))
	for i, t := range uniq {
		patterns[i] = []rune(t)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Matcher{machine: m, terms: uniq}, nil
}

// MustNew is New for static lists; it panics on a build error.
func MustNew(terms ...string) *Matcher {
	m, err := New(terms)
	if err != nil {
		panic("lexicon: " + err.Error())
	}
	return m
}

// Terms returns the normalized term list.
func (m *Matcher) Terms() []string { return slices.Clone(m.terms) }

// Hits returns every distinct term found in text, in order of first
// occurrence.
func (m *Matcher) Hits(text string) []string {
	if m == nil || m.machine == nil || text == "" {
		return nil
	}
	found := m.machine.MultiPatternSearch([]rune(strings.ToLower(text)), false)
	if len(found) == 0 {
		return nil
	}
	slices.SortStableFunc(found, func(a, b *goahocorasick.Term) int { return a.Pos - b.Pos })

	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, t := range found {
		w := string(t.Word)
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// Count is the number of distinct terms found in text.
func (m *Matcher) Count(text string) int { return len(m.Hits(text)) }
