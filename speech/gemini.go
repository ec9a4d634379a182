package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	transcribePrompt   = "Transcribe the spoken answer in this recording verbatim. " +
		"Reply with the transcript only. If no speech can be heard, reply with an empty message."
)

// contentGenerator is the part of genai.Models the recognizer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiRecognizer sends the audio inline to a Gemini model.
type GeminiRecognizer struct {
	models contentGenerator
	model  string
}

// NewGeminiRecognizer creates a recognizer on the Gemini API backend.
func NewGeminiRecognizer(ctx context.Context, apiKey, model string) (*GeminiRecognizer, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiRecognizer(client.Models, model), nil
}

func newGeminiRecognizer(models contentGenerator, model string) *GeminiRecognizer {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	return &GeminiRecognizer{models: models, model: model}
}

func (g *GeminiRecognizer) Transcribe(ctx context.Context, req Request) (string, error) {
	prompt := transcribePrompt
	if req.Language != "" {
		prompt += " The answer is spoken in " + req.Language + "."
	}
	mime := req.MimeType
	if mime == "" {
		mime = "audio/wav"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(req.Audio, mime),
		}, genai.RoleUser),
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %w", ErrBackend, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
