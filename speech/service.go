package speech

import (
	"context"
	"fmt"

	"github.com/harishgm1236-debug/interview-text/clients"
)

// ServiceRecognizer calls the speech service's /transcribe endpoint.
type ServiceRecognizer struct {
	http *clients.HTTP
	url  string
}

func NewServiceRecognizer(h *clients.HTTP, url string) *ServiceRecognizer {
	return &ServiceRecognizer{http: h, url: url}
}

func (s *ServiceRecognizer) Transcribe(ctx context.Context, req Request) (string, error) {
	resp, err := s.http.ASR(ctx, s.url, req.Audio, clients.ASROpts{
		Filename:        filename(req.MimeType),
		Language:        req.Language,
		SampleRate:      req.SampleRate,
		EnergyThreshold: req.Calibration.EnergyThreshold,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackend, err)
	}
	text := resp.Transcript()
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// WhisperRecognizer calls a whisper.cpp server's /inference endpoint.
type WhisperRecognizer struct {
	http  *clients.HTTP
	url   string
	model string
}

func NewWhisperRecognizer(h *clients.HTTP, url, model string) *WhisperRecognizer {
	return &WhisperRecognizer{http: h, url: url, model: model}
}

func (w *WhisperRecognizer) Transcribe(ctx context.Context, req Request) (string, error) {
	text, err := w.http.Whisper(ctx, w.url, req.Audio, whisperLanguage(req.Language), w.model)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if text == "" || text == "[BLANK_AUDIO]" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// whisperLanguage reduces a BCP 47 tag to the two letter code whisper.cpp
// expects.
func whisperLanguage(tag string) string {
	if len(tag) > 2 && (tag[2] == '-' || tag[2] == '_') {
		return tag[:2]
	}
	return tag
}

func filename(mime string) string {
	switch mime {
	case "audio/wav", "":
		return "answer.wav"
	case "audio/mpeg":
		return "answer.mp3"
	case "audio/mp4":
		return "answer.m4a"
	default:
		// audio/webm -> answer.webm
		for i := len(mime) - 1; i >= 0; i-- {
			if mime[i] == '/' {
				return "answer." + mime[i+1:]
			}
		}
		return "answer.bin"
	}
}
