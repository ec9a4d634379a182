package speech

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/audio"
)

// MinProvidedLen is the trimmed length from which supplied text is used
// as is.
const MinProvidedLen = 3

// Acquirer picks or produces the transcript of an answer.
type Acquirer struct {
	rec      Recognizer
	language string
	window   time.Duration
	log      logrus.FieldLogger
}

type AcquirerOpts struct {
	Language          string
	CalibrationWindow time.Duration
	Logger            logrus.FieldLogger
}

func NewAcquirer(rec Recognizer, o AcquirerOpts) *Acquirer {
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	if o.CalibrationWindow <= 0 {
		o.CalibrationWindow = audio.DefaultCalibrationDur
	}
	if o.Language == "" {
		o.Language = "en-US"
	}
	return &Acquirer{rec: rec, language: o.Language, window: o.CalibrationWindow, log: o.Logger}
}

// Acquire never fails: recognition problems yield an empty transcript.
func (a *Acquirer) Acquire(ctx context.Context, provided string, clip *audio.Clip) Transcript {
	if t := (Transcript{Text: provided, Provenance: ProvenanceProvided}); t.Len() >= MinProvidedLen {
		return t
	}
	empty := Transcript{Provenance: ProvenanceASR}
	if clip == nil || a.rec == nil {
		return empty
	}

	req, ok := a.request(clip)
	if !ok {
		return empty
	}

	start := time.Now()
	text, err := a.rec.Transcribe(ctx, req)
	fields := logrus.Fields{"stage": "speech", "path": clip.Path, "took": time.Since(start)}
	switch {
	case errors.Is(err, ErrUnintelligible):
		a.log.WithFields(fields).Warn("speech not intelligible")
		return empty
	case err != nil:
		fields["error"] = err
		a.log.WithFields(fields).Warn("speech backend failed")
		return empty
	}
	a.log.WithFields(fields).Debug("transcribed answer")
	return Transcript{Text: text, Provenance: ProvenanceASR}
}

// request builds the recognition call. Decodable WAV carries its ambient
// calibration along; anything else is shipped as raw bytes with its
// container's MIME type. Only the backend decides a clip is unintelligible.
func (a *Acquirer) request(clip *audio.Clip) (Request, bool) {
	raw, err := clip.Bytes()
	if err != nil {
		a.log.WithFields(logrus.Fields{"stage": "speech", "path": clip.Path, "error": err}).Warn("read audio failed")
		return Request{}, false
	}
	req := Request{Audio: raw, MimeType: clip.Codec.MimeType(), Language: a.language}
	if !clip.IsWAV() {
		return req, true
	}

	w, err := audio.ReadWAV(bytes.NewReader(raw))
	if err != nil {
		a.log.WithFields(logrus.Fields{"stage": "speech", "path": clip.Path, "error": err}).Debug("wav unreadable, sending raw")
		return req, true
	}
	req.MimeType = audio.CodecWAV.MimeType()
	req.SampleRate = w.SampleRate
	req.Calibration = audio.Calibrate(w, a.window)
	a.log.WithFields(logrus.Fields{
		"stage": "speech", "path": clip.Path, "threshold": req.Calibration.EnergyThreshold,
		"voiced": req.Calibration.Voiced(w),
	}).Debug("calibrated ambient noise")
	return req, true
}
