package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/audio"
	"github.com/harishgm1236-debug/interview-text/clients"
	"github.com/harishgm1236-debug/interview-text/config"
	"github.com/harishgm1236-debug/interview-text/events"
	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/prosody"
	"github.com/harishgm1236-debug/interview-text/sentiment"
	"github.com/harishgm1236-debug/interview-text/speech"
	"github.com/harishgm1236-debug/interview-text/store"
	"github.com/harishgm1236-debug/interview-text/textscore"
	"github.com/harishgm1236-debug/interview-text/vision"
)

// runtime is everything a command needs to evaluate answers. Close releases
// the connections it opened.
type runtime struct {
	engine  *orchestrator.Engine
	store   *store.Store
	closers []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

type wireOpts struct {
	observer orchestrator.Observer
	// saveFiles adds a FileSink under paths.outputs.
	saveFiles bool
}

func newRecognizer(ctx context.Context, cfg *config.Root, h *clients.HTTP) (speech.Recognizer, error) {
	switch cfg.Speech.Provider {
	case config.ProviderGemini:
		return speech.NewGeminiRecognizer(ctx, cfg.Speech.APIKey, cfg.Speech.Model)
	case config.ProviderWhisper:
		if cfg.Services.Whisper.URL == "" {
			return nil, nil
		}
		return speech.NewWhisperRecognizer(h, cfg.Services.Whisper.URL, cfg.Speech.Model), nil
	default:
		if cfg.Services.ASR.URL == "" {
			return nil, nil
		}
		return speech.NewServiceRecognizer(h, cfg.Services.ASR.URL), nil
	}
}

func wire(ctx context.Context, cfg *config.Root, log *logrus.Logger, o wireOpts) (*runtime, error) {
	rt := &runtime{}
	h := clients.NewHTTP(clients.DefaultTimeout)

	rec, err := newRecognizer(ctx, cfg, h)
	if err != nil {
		return nil, fmt.Errorf("speech recognizer: %w", err)
	}
	if rec == nil {
		log.WithField("provider", cfg.Speech.Provider).Warn("no speech backend configured, audio answers will not be transcribed")
	}

	var polarity sentiment.PolarityScorer
	if cfg.Services.NLP.URL != "" {
		polarity = sentiment.NewServicePolarity(h, cfg.Services.NLP.URL, log)
	}
	var classifier vision.Classifier
	if cfg.Services.Emotion.URL != "" {
		classifier = vision.NewServiceClassifier(h, cfg.Services.Emotion.URL)
	}

	dec := audio.NewFFmpegDecoder(cfg.Audio.FFmpegPath)
	dec.SampleRate = cfg.Audio.SampleRate
	dec.Channels = cfg.Audio.Channels
	dec.Timeout = config.DurSeconds(cfg.Audio.DecodeTimeout)

	var sinks []orchestrator.Sink
	if o.saveFiles {
		sinks = append(sinks, orchestrator.NewFileSink(cfg.Paths.Outputs))
	}
	if cfg.Database.URL != "" {
		st, err := store.New(ctx, cfg.Database.URL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			rt.Close()
			return nil, err
		}
		rt.store = st
		rt.closers = append(rt.closers, st.Close)
		sinks = append(sinks, st)
	}
	if cfg.Events.NATSURL != "" {
		pub, err := events.Connect(cfg.Events.NATSURL, cfg.Events.Subject, log)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, pub.Close)
		sinks = append(sinks, pub)
	}

	rt.engine = orchestrator.NewEngine(orchestrator.Deps{
		Resolver: audio.NewResolver(dec, log),
		Acquirer: speech.NewAcquirer(rec, speech.AcquirerOpts{
			Language:          cfg.Speech.Language,
			CalibrationWindow: cfg.CalibrationWindow(),
			Logger:            log,
		}),
		Text:      textscore.NewScorer(log),
		Sentiment: sentiment.NewAnalyzer(polarity, log),
		Vision:    vision.NewMapper(classifier, log),
		Prosody:   prosody.NewAnalyzer(log),
		Observer:  o.observer,
		Sinks:     sinks,
		Logger:    log,
	})
	return rt, nil
}
