package clients

import "context"

// --- NLP (/analyze) ---
type NLPReq struct {
	Text string `json:"text"`
}
type NLPResp struct {
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

func (h *HTTP) NLP(ctx context.Context, url, text string) (*NLPResp, error) {
	var out NLPResp
	if err := h.postJSON(ctx, "nlp", url+"/analyze", NLPReq{Text: text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
