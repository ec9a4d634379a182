// Package speech acquires the transcript of an answer: caller supplied text
// when there is enough of it, otherwise the output of a speech-to-text
// backend run over the resolved recording.
package speech

import (
	"strings"
	"unicode/utf8"
)

type Provenance string

const (
	ProvenanceProvided Provenance = "provided"
	ProvenanceASR      Provenance = "asr"
)

// Transcript is the text an evaluation is scored on.
type Transcript struct {
	Text       string
	Provenance Provenance
}

func (t Transcript) WordCount() int { return len(strings.Fields(t.Text)) }

// Len is the character count of the trimmed text.
func (t Transcript) Len() int { return utf8.RuneCountInString(strings.TrimSpace(t.Text)) }
