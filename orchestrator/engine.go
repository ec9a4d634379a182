// Package orchestrator runs one answer through every analyzer and combines
// their scores into the evaluation record. Evaluate is total: analyzer
// failures, panics included, degrade to fixed defaults and never reach the
// caller.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/harishgm1236-debug/interview-text/audio"
	"github.com/harishgm1236-debug/interview-text/prosody"
	"github.com/harishgm1236-debug/interview-text/scoring"
	"github.com/harishgm1236-debug/interview-text/sentiment"
	"github.com/harishgm1236-debug/interview-text/speech"
	"github.com/harishgm1236-debug/interview-text/textscore"
	"github.com/harishgm1236-debug/interview-text/vision"
)

// Outcomes reported to the Observer.
const (
	OutcomeScored = "scored"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// Observer receives evaluation telemetry.
type Observer interface {
	Evaluated(ctx context.Context, outcome string, took time.Duration)
	Degraded(ctx context.Context, stage string)
}

// Sink receives every finished evaluation.
type Sink interface {
	Deliver(ctx context.Context, ev Evaluation) error
}

type nopObserver struct{}

func (nopObserver) Evaluated(context.Context, string, time.Duration) {}
func (nopObserver) Degraded(context.Context, string)                 {}

// Deps wires the analyzers. Nil members get their built-in default.
type Deps struct {
	Resolver  *audio.Resolver
	Acquirer  *speech.Acquirer
	Text      *textscore.Scorer
	Sentiment *sentiment.Analyzer
	Vision    *vision.Mapper
	Prosody   *prosody.Analyzer
	Observer  Observer
	Sinks     []Sink
	Logger    logrus.FieldLogger
}

type Engine struct {
	resolver  *audio.Resolver
	acquirer  *speech.Acquirer
	text      *textscore.Scorer
	sentiment *sentiment.Analyzer
	vision    *vision.Mapper
	prosody   *prosody.Analyzer
	obs       Observer
	sinks     []Sink
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewEngine(d Deps) *Engine {
	log := d.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	e := &Engine{
		resolver:  d.Resolver,
		acquirer:  d.Acquirer,
		text:      d.Text,
		sentiment: d.Sentiment,
		vision:    d.Vision,
		prosody:   d.Prosody,
		obs:       d.Observer,
		sinks:     d.Sinks,
		log:       log,
		now:       time.Now,
	}
	if e.resolver == nil {
		e.resolver = audio.NewResolver(audio.NewFFmpegDecoder(""), log)
	}
	if e.acquirer == nil {
		e.acquirer = speech.NewAcquirer(nil, speech.AcquirerOpts{Logger: log})
	}
	if e.text == nil {
		e.text = textscore.NewScorer(log)
	}
	if e.sentiment == nil {
		e.sentiment = sentiment.NewAnalyzer(nil, log)
	}
	if e.vision == nil {
		e.vision = vision.NewMapper(nil, log)
	}
	if e.prosody == nil {
		e.prosody = prosody.NewAnalyzer(log)
	}
	if e.obs == nil {
		e.obs = nopObserver{}
	}
	return e
}

// Evaluate scores one answer. It always returns a complete Result.
func (e *Engine) Evaluate(ctx context.Context, req Request) Result {
	res, _ := e.evaluate(ctx, req)
	return res
}

// Run evaluates req, assigns it an id and hands it to every sink. Sink
// failures are logged and do not affect the returned evaluation.
func (e *Engine) Run(ctx context.Context, req Request) Evaluation {
	res, tr := e.evaluate(ctx, req)
	ev := Evaluation{
		ID:          uuid.NewString(),
		CreatedAt:   e.now().UTC(),
		Category:    req.Category,
		Weight:      req.Weight,
		Keywords:    append([]string{}, req.Keywords...),
		Transcribed: tr.Provenance == speech.ProvenanceASR && tr.Text != "",
		Result:      res,
	}
	for _, s := range e.sinks {
		if err := s.Deliver(ctx, ev); err != nil {
			e.log.WithFields(logrus.Fields{
				"stage": "sink", "sink": fmt.Sprintf("%T", s), "evaluation_id": ev.ID, "error": err,
			}).Warn("deliver evaluation failed")
			e.obs.Degraded(ctx, "sink")
		}
	}
	return ev
}

func (e *Engine) evaluate(ctx context.Context, req Request) (res Result, tr speech.Transcript) {
	start := time.Now()
	outcome := OutcomeScored
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{"stage": "engine", "panic": r}).Error("evaluation panicked")
			res, outcome = EmptyResult(), OutcomeFailed
		}
		e.obs.Evaluated(ctx, outcome, time.Since(start))
	}()

	clip := guard(e, ctx, "audio", (*audio.Clip)(nil), func() *audio.Clip {
		return e.resolver.Open(ctx, req.AudioPath)
	})
	defer func() {
		if err := clip.Close(); err != nil {
			e.log.WithFields(logrus.Fields{"stage": "audio", "path": clip.Path, "error": err}).Warn("remove converted audio failed")
		}
	}()

	tr = guard(e, ctx, "speech", speech.Transcript{Provenance: speech.ProvenanceASR}, func() speech.Transcript {
		return e.acquirer.Acquire(ctx, req.AnswerText, clip)
	})
	if tr.Len() < MinTranscriptLen {
		if req.AudioPath != "" && tr.Provenance == speech.ProvenanceASR {
			e.obs.Degraded(ctx, "speech")
		}
		outcome = OutcomeEmpty
		return EmptyResult(), tr
	}

	var (
		text  textscore.Evaluation
		tone  sentiment.Result
		face  vision.Result
		voice prosody.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text = guard(e, gctx, "text", textscore.Evaluation{Matched: []string{}, Missed: append([]string{}, req.Keywords...)}, func() textscore.Evaluation {
			return e.text.Score(tr.Text, req.ModelAnswer, req.Keywords)
		})
		return nil
	})
	g.Go(func() error {
		tone = guard(e, gctx, "sentiment", sentiment.Result{Label: sentiment.Neutral}, func() sentiment.Result {
			return e.sentiment.Analyze(gctx, tr.Text)
		})
		return nil
	})
	g.Go(func() error {
		face = guard(e, gctx, "vision", vision.Unavailable(), func() vision.Result {
			return e.vision.Analyze(gctx, req.ImagePath)
		})
		return nil
	})
	g.Go(func() error {
		voice = guard(e, gctx, "prosody", prosody.Failed(), func() prosody.Result {
			return e.prosody.Analyze(clip, tr.WordCount())
		})
		return nil
	})
	_ = g.Wait()

	if req.ImagePath != "" && face.Emotion == vision.Unknown {
		e.obs.Degraded(ctx, "vision")
	}
	if req.AudioPath != "" && voice.Pace == prosody.PaceError {
		e.obs.Degraded(ctx, "prosody")
	}

	skills := Skills(text, tone, face, voice, req.Category)
	overall := Overall(text, tone, face, voice, skills)

	res = Result{
		OverallMarks:      scoring.Round1(min(10, overall/10)),
		OverallPercentage: scoring.Round1(overall),
		Transcript:        tr.Text,
		EmotionDetected:   face.Emotion,
		EmotionDetails:    face.Details,
		Sentiment:         tone.Label,
		SentimentPolarity: tone.Polarity,
		Feedback:          Feedback(text, tone, overall),
		Breakdown: Breakdown{
			TechnicalAccuracy: text.TextScore,
			Relevance:         text.Relevance,
			Completeness:      text.Completeness,
			Clarity:           text.Clarity,
			VisualConfidence:  face.Confidence,
			VocalConfidence:   voice.VocalConfidence,
			TextConfidence:    tone.Confidence,
		},
		SkillScores: skills,
		VoiceAnalysis: VoiceAnalysis{
			WPM:      voice.WPM,
			Pace:     voice.Pace,
			Duration: voice.Duration,
		},
		Keywords: Keywords{Matched: text.Matched, Missed: text.Missed},
	}
	e.log.WithFields(logrus.Fields{
		"overall": res.OverallPercentage, "words": tr.WordCount(), "provenance": tr.Provenance,
		"took": time.Since(start),
	}).Info("answer evaluated")
	return res, tr
}

// guard runs fn and substitutes fallback if it panics.
func guard[T any](e *Engine, ctx context.Context, stage string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{"stage": stage, "panic": r}).Error("analyzer panicked")
			e.obs.Degraded(ctx, stage)
			out = fallback
		}
	}()
	return fn()
}
