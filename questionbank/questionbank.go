// Package questionbank holds the interview questions an answer is scored
// against: prompt, expected keywords, model answer, weight and category,
// grouped by track and round.
package questionbank

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Rounds, in interview order.
const (
	RoundBackground = "round_1_background"
	RoundDomain     = "round_2_domain"
	RoundProject    = "round_3_project"

	// LevelAll selects every round of a track.
	LevelAll = "all"
)

var ErrNotFound = errors.New("question not found")

//go:embed default.yaml
var defaultBank []byte

type Question struct {
	Prompt      string   `yaml:"prompt" json:"q"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	ModelAnswer string   `yaml:"model_answer" json:"model_answer"`
	Weight      float64  `yaml:"weight" json:"weight"`
	Category    string   `yaml:"category" json:"category"`
	Difficulty  string   `yaml:"difficulty" json:"difficulty"`
}

// Entry is a question together with where it lives in the bank.
type Entry struct {
	Track string `json:"track"`
	Round string `json:"round"`
	Index int    `json:"index"`
	Question
}

// Bank maps track to round to an ordered question list.
type Bank struct {
	tracks map[string]map[string][]Question
}

type document struct {
	Tracks map[string]map[string][]Question `yaml:"tracks"`
}

// Default returns the built-in bank.
func Default() *Bank {
	b, err := Parse(defaultBank)
	if err != nil {
		panic(fmt.Sprintf("questionbank: embedded bank: %v", err))
	}
	return b
}

// Load reads a bank from a YAML file. An empty path yields the built-in bank.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("question bank: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Bank, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("question bank decode: %w", err)
	}
	if len(doc.Tracks) == 0 {
		return nil, errors.New("question bank: no tracks")
	}
	for track, rounds := range doc.Tracks {
		for round, qs := range rounds {
			for i, q := range qs {
				if q.Prompt == "" {
					return nil, fmt.Errorf("question bank: %s/%s[%d]: empty prompt", track, round, i)
				}
				if q.Weight <= 0 {
					rounds[round][i].Weight = 1
				}
			}
		}
	}
	return &Bank{tracks: doc.Tracks}, nil
}

// Tracks lists the track names in sorted order.
func (b *Bank) Tracks() []string {
	out := make([]string, 0, len(b.tracks))
	for t := range b.tracks {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Rounds lists the round names of a track in sorted order.
func (b *Bank) Rounds(track string) []string {
	rounds := b.tracks[track]
	out := make([]string, 0, len(rounds))
	for r := range rounds {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

func (b *Bank) Lookup(track, round string, index int) (Question, error) {
	qs, ok := b.tracks[track][round]
	if !ok || index < 0 || index >= len(qs) {
		return Question{}, fmt.Errorf("%w: %s/%s[%d]", ErrNotFound, track, round, index)
	}
	return qs[index], nil
}

// Questions returns the questions of a track for one round, or for every
// round when level is LevelAll or empty.
func (b *Bank) Questions(track, level string) ([]Entry, error) {
	rounds, ok := b.tracks[track]
	if !ok {
		return nil, fmt.Errorf("%w: track %q", ErrNotFound, track)
	}
	names := b.Rounds(track)
	if level != "" && level != LevelAll {
		if _, ok := rounds[level]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, track, level)
		}
		names = []string{level}
	}
	var out []Entry
	for _, r := range names {
		for i, q := range rounds[r] {
			out = append(out, Entry{Track: track, Round: r, Index: i, Question: q})
		}
	}
	return out, nil
}
