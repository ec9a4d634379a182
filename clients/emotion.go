package clients

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// --- Emotion (/detect) ---
type EmoScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
type EmoResp struct {
	Emotions        []EmoScore `json:"emotions"`
	DominantEmotion string     `json:"dominant_emotion"`
	FaceFound       *bool      `json:"face_found,omitempty"`
}

// Emotion uploads a still image to the facial emotion service.
func (h *HTTP) Emotion(ctx context.Context, url, imagePath string) (*EmoResp, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("emotion: %w", err)
	}
	var out EmoResp
	if err := h.postMultipart(ctx, "emotion", url+"/detect", filePart{field: "file", filename: filepath.Base(imagePath), data: img}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
