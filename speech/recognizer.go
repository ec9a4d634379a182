//go:generate go run go.uber.org/mock/mockgen -source=recognizer.go -destination=../mocks/mock_recognizer.go -package=mocks
package speech

import (
	"context"
	"errors"

	"github.com/harishgm1236-debug/interview-text/audio"
)

var (
	// ErrUnintelligible means the backend heard no usable speech.
	ErrUnintelligible = errors.New("speech: audio not intelligible")
	// ErrBackend wraps transport and service failures.
	ErrBackend = errors.New("speech: backend failure")
)

// Request is one recognition call.
type Request struct {
	Audio       []byte
	MimeType    string
	SampleRate  int
	Language    string
	Calibration audio.Calibration
}

// Recognizer converts audio to text.
type Recognizer interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}
