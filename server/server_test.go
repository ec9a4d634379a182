package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/report"
	"github.com/harishgm1236-debug/interview-text/store"
)

type fakeEngine struct {
	got       orchestrator.Request
	audioSeen []byte
	marks     float64
}

func (f *fakeEngine) Run(_ context.Context, req orchestrator.Request) orchestrator.Evaluation {
	f.got = req
	if req.AudioPath != "" {
		f.audioSeen, _ = os.ReadFile(req.AudioPath)
	}
	res := orchestrator.EmptyResult()
	res.OverallMarks = 7.5
	if f.marks != 0 {
		res.OverallMarks = f.marks
	}
	return orchestrator.Evaluation{ID: "ev-1", Result: res}
}

type fakeHistory map[string]orchestrator.Evaluation

func (h fakeHistory) Get(_ context.Context, id string) (orchestrator.Evaluation, error) {
	ev, ok := h[id]
	if !ok {
		return ev, store.ErrNotFound
	}
	return ev, nil
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := mw.CreateFormFile(name, name+".wav")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := serve(NewServer(Options{}), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	exporter := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("interview_evaluations_total 1\n"))
	})
	w := serve(NewServer(Options{Exporter: exporter}), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "interview_evaluations_total")
}

func TestQuestions(t *testing.T) {
	s := NewServer(Options{})

	w := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/questions/backend?level=round_2_domain", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Track     string `json:"track"`
		Questions []struct {
			Prompt   string   `json:"q"`
			Round    string   `json:"round"`
			Keywords []string `json:"keywords"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "backend", body.Track)
	require.Len(t, body.Questions, 5)
	require.Equal(t, "round_2_domain", body.Questions[0].Round)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/questions/backend", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Questions, 15)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/questions/mobile", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/questions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "datascience")
}

func TestEvaluateFromBank(t *testing.T) {
	eng := &fakeEngine{}
	s := NewServer(Options{Engine: eng})

	body, ct := multipartBody(t, map[string]string{
		"answer_text": "I would shard the cache and use LRU eviction.",
		"track":       "backend",
		"round":       "round_2_domain",
		"index":       "1",
	}, map[string][]byte{"audio": []byte("RIFF....WAVE")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", body)
	req.Header.Set("Content-Type", ct)
	w := serve(s, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "ev-1", out["evaluation_id"])
	require.Equal(t, 7.5, out["overall_marks"])

	require.Equal(t, 2.0, eng.got.Weight)
	require.Equal(t, "technical", eng.got.Category)
	require.NotEmpty(t, eng.got.Keywords)
	require.NotEmpty(t, eng.got.ModelAnswer)
	require.Equal(t, []byte("RIFF....WAVE"), eng.audioSeen)
	require.Empty(t, eng.got.ImagePath)

	_, err := os.Stat(eng.got.AudioPath)
	require.True(t, errors.Is(err, os.ErrNotExist), "upload should be removed after the call")
}

func TestEvaluateInline(t *testing.T) {
	eng := &fakeEngine{}
	s := NewServer(Options{Engine: eng})

	body, ct := multipartBody(t, map[string]string{
		"answer_text":  "Goroutines are cheap.",
		"keywords":     "goroutine, scheduler",
		"model_answer": "Goroutines are multiplexed onto threads by the scheduler.",
		"category":     "technical",
	}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", body)
	req.Header.Set("Content-Type", ct)
	w := serve(s, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []string{"goroutine", "scheduler"}, eng.got.Keywords)
	require.Equal(t, 1.0, eng.got.Weight)
	require.Empty(t, eng.got.AudioPath)
}

func TestEvaluateNonFiniteScore(t *testing.T) {
	s := NewServer(Options{Engine: &fakeEngine{marks: math.NaN()}})
	body, ct := multipartBody(t, map[string]string{"answer_text": "We sharded by tenant."}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", body)
	req.Header.Set("Content-Type", ct)
	w := serve(s, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "ev-1", out["evaluation_id"])
	require.Nil(t, out["overall_marks"])
}

func TestCopyPart(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	data := bytes.Repeat([]byte("RIFF"), 4096)

	path, err := copyPart(bytes.NewReader(data), &multipart.FileHeader{Filename: "../clip.webm"}, "audio", dir)
	req.NoError(err)
	req.Equal(filepath.Join(dir, "audio.webm"), path)
	got, err := os.ReadFile(path)
	req.NoError(err)
	req.Equal(data, got)

	_, err = copyPart(bytes.NewReader(data), &multipart.FileHeader{Filename: "x.wav"}, "audio", filepath.Join(dir, "missing"))
	req.Error(err)

	_, err = copyPart(iotest.ErrReader(errors.New("reset")), &multipart.FileHeader{Filename: "x.wav"}, "image", dir)
	req.ErrorContains(err, "image: reset")
}

func TestEvaluateRejects(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
		code   int
	}{
		{"bad category", map[string]string{"category": "trivia"}, http.StatusBadRequest},
		{"track without round", map[string]string{"track": "backend"}, http.StatusBadRequest},
		{"negative weight", map[string]string{"weight": "-1"}, http.StatusBadRequest},
		{"bad index", map[string]string{"track": "backend", "round": "round_1_background", "index": "x"}, http.StatusBadRequest},
		{"unknown question", map[string]string{"track": "backend", "round": "round_1_background", "index": "40"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := multipartBody(t, tc.fields, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", body)
			req.Header.Set("Content-Type", ct)
			w := serve(NewServer(Options{Engine: &fakeEngine{}}), req)
			require.Equal(t, tc.code, w.Code, w.Body.String())
			require.Contains(t, w.Body.String(), `"error"`)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusBadRequest, serve(NewServer(Options{}), req).Code)
}

func TestEvaluationLookup(t *testing.T) {
	w := serve(NewServer(Options{}), httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/abc", nil))
	require.Equal(t, http.StatusNotImplemented, w.Code)

	hist := fakeHistory{"abc": {ID: "abc", Category: "behavioral"}}
	s := NewServer(Options{History: hist})
	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"evaluation_id":"abc"`)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/evaluations/zzz", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReport(t *testing.T) {
	answers := []report.Answer{
		{Weight: 1, Result: orchestrator.Result{OverallMarks: 9, SkillScores: orchestrator.SkillScores{Technical: 90}}},
		{Weight: 1, Result: orchestrator.Result{OverallMarks: 9, SkillScores: orchestrator.SkillScores{Technical: 90}}},
	}
	raw, err := json.Marshal(answers)
	require.NoError(t, err)

	w := serve(NewServer(Options{}), httptest.NewRequest(http.MethodPost, "/api/v1/report", bytes.NewReader(raw)))
	require.Equal(t, http.StatusOK, w.Code)
	var sum report.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	require.Equal(t, "A+", sum.Grade)
	require.Equal(t, 90.0, sum.Percentage)

	w = serve(NewServer(Options{}), httptest.NewRequest(http.MethodPost, "/api/v1/report", strings.NewReader(`[{"weight":-2}]`)))
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(NewServer(Options{}), httptest.NewRequest(http.MethodPost, "/api/v1/report", strings.NewReader(`nope`)))
	require.Equal(t, http.StatusBadRequest, w.Code)
}
