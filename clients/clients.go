// Package clients holds thin HTTP clients for the model services the
// evaluator delegates to: speech recognition, whisper.cpp inference, facial
// emotion classification and sentiment analysis.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const DefaultTimeout = 60 * time.Second

type HTTP struct{ c *http.Client }

// NewHTTP returns a client with the given timeout; zero means DefaultTimeout.
func NewHTTP(timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTP{c: &http.Client{Timeout: timeout}}
}

// FromClient wraps an existing http.Client, e.g. an httptest server client.
func FromClient(c *http.Client) *HTTP { return &HTTP{c: c} }

// StatusError is returned when a service answers with a non-200 status.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Service, e.Code, e.Body)
}

type filePart struct {
	field    string
	filename string
	data     []byte
}

// postMultipart sends one file part plus plain fields to url and decodes
// the JSON response into out.
func (h *HTTP) postMultipart(ctx context.Context, service, url string, file filePart, fields map[string]string, out any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile(file.field, file.filename)
	if err != nil {
		return fmt.Errorf("%s: create form file: %w", service, err)
	}
	if _, err = fw.Write(file.data); err != nil {
		return fmt.Errorf("%s: write form file: %w", service, err)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("%s: write %s field: %w", service, k, err)
		}
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("%s: close multipart writer: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &b)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", service, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return h.do(req, service, out)
}

func (h *HTTP) postJSON(ctx context.Context, service, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", service, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: create request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return h.do(req, service, out)
}

func (h *HTTP) do(req *http.Request, service string, out any) error {
	resp, err := h.c.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Service: service, Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s decode: %w", service, err)
	}
	return nil
}
