package clients

import (
	"context"
	"strings"
)

// --- whisper.cpp server (/inference) ---
type WhisperResp struct {
	Text string `json:"text"`
}

// Whisper posts a WAV file to a whisper.cpp server and returns the text.
func (h *HTTP) Whisper(ctx context.Context, url string, wav []byte, language, model string) (string, error) {
	var out WhisperResp
	fields := map[string]string{"language": language, "model": model, "response_format": "json"}
	if err := h.postMultipart(ctx, "whisper", url+"/inference", filePart{field: "file", filename: "audio.wav", data: wav}, fields, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Text), nil
}
