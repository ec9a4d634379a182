// Package prosody scores vocal delivery: speaking pace from the transcript
// length over the clip duration and loudness from framed RMS energy.
package prosody

import (
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/audio"
	"github.com/harishgm1236-debug/interview-text/scoring"
)

const (
	PaceIdeal    = "ideal"
	PaceSlow     = "slow"
	PaceFast     = "fast"
	PaceVerySlow = "very_slow"
	PaceVeryFast = "very_fast"
	PaceTooShort = "too_short"
	PaceError    = "error"
	PaceNone     = "none"

	minDuration = 1.0
)

type Result struct {
	WPM             float64 `json:"wpm"`
	Pace            string  `json:"pace"`
	PaceScore       float64 `json:"-"`
	Duration        float64 `json:"duration"`
	Energy          float64 `json:"energy"`
	VocalConfidence float64 `json:"vocal_confidence"`
}

// TooShort is returned for clips under one second.
func TooShort() Result { return Result{Pace: PaceTooShort, VocalConfidence: 30} }

// Failed is returned when the clip cannot be read or holds non-finite
// samples.
func Failed() Result { return Result{Pace: PaceError, VocalConfidence: 50} }

// Pace buckets words per minute into a category and its score.
func Pace(wpm float64) (string, float64) {
	switch {
	case wpm >= 110 && wpm <= 160:
		return PaceIdeal, 100
	case wpm >= 80 && wpm < 110:
		return PaceSlow, 80
	case wpm > 160 && wpm <= 190:
		return PaceFast, 80
	case wpm < 80:
		return PaceVerySlow, 50
	default:
		return PaceVeryFast, 50
	}
}

type Analyzer struct {
	log logrus.FieldLogger
}

func NewAnalyzer(log logrus.FieldLogger) *Analyzer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Analyzer{log: log}
}

// Analyze never fails; see TooShort and Failed.
func (a *Analyzer) Analyze(clip *audio.Clip, wordCount int) Result {
	if clip == nil {
		return Failed()
	}
	w, err := clip.Waveform()
	if err != nil {
		a.log.WithFields(logrus.Fields{"stage": "prosody", "path": clip.Path, "error": err}).Warn("voice analysis failed")
		return Failed()
	}
	return Score(w, wordCount)
}

// Score computes the prosody of a decoded waveform.
func Score(w audio.Waveform, wordCount int) Result {
	duration := w.Seconds()
	if duration < minDuration {
		return TooShort()
	}

	wpm := float64(wordCount) / duration * 60
	pace, paceScore := Pace(wpm)
	energy := audio.MeanRMS(w)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return Failed()
	}
	energyScore := math.Min(energy*1000, 100)

	return Result{
		WPM:             scoring.Round1(wpm),
		Pace:            pace,
		PaceScore:       paceScore,
		Duration:        scoring.Round1(duration),
		Energy:          scoring.Round4(energy),
		VocalConfidence: scoring.Round1(paceScore*0.7 + energyScore*0.3),
	}
}
