package clients

import (
	"context"
	"strconv"
	"strings"
)

// --- ASR (/transcribe) ---
type TransSeg struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
type ASRResp struct {
	Segments []TransSeg `json:"segments"`
	Text     string     `json:"text,omitempty"`
	Language string     `json:"language"`
}

// Transcript joins the segment texts, or returns Text when the service
// answered without segments.
func (r *ASRResp) Transcript() string {
	if len(r.Segments) == 0 {
		return strings.TrimSpace(r.Text)
	}
	parts := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

type ASROpts struct {
	Filename        string
	Language        string
	SampleRate      int
	EnergyThreshold float64
}

func (h *HTTP) ASR(ctx context.Context, url string, audio []byte, o ASROpts) (*ASRResp, error) {
	if o.Filename == "" {
		o.Filename = "answer.wav"
	}
	fields := map[string]string{"language": o.Language}
	if o.SampleRate > 0 {
		fields["sample_rate"] = strconv.Itoa(o.SampleRate)
	}
	if o.EnergyThreshold > 0 {
		fields["energy_threshold"] = strconv.FormatFloat(o.EnergyThreshold, 'f', 1, 64)
	}

	var out ASRResp
	err := h.postMultipart(ctx, "asr", url+"/transcribe", filePart{field: "file", filename: o.Filename, data: audio}, fields, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
