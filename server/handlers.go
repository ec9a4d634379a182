package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/questionbank"
	"github.com/harishgm1236-debug/interview-text/report"
	"github.com/harishgm1236-debug/interview-text/store"
)

// evaluateForm is the multipart body of POST /api/v1/evaluate. A question
// is taken from the bank when Track is set, otherwise from the inline
// fields.
type evaluateForm struct {
	AnswerText  string
	Track       string
	Round       string `validate:"required_with=Track"`
	Index       int    `validate:"gte=0"`
	Keywords    []string
	ModelAnswer string
	Category    string  `validate:"omitempty,oneof=technical problem_solving behavioral"`
	Weight      float64 `validate:"gte=0"`
}

func parseEvaluateForm(r *http.Request) (evaluateForm, error) {
	f := evaluateForm{
		AnswerText:  r.FormValue("answer_text"),
		Track:       strings.TrimSpace(r.FormValue("track")),
		Round:       strings.TrimSpace(r.FormValue("round")),
		ModelAnswer: r.FormValue("model_answer"),
		Category:    strings.TrimSpace(r.FormValue("category")),
	}
	if v := r.FormValue("index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("index: %w", err)
		}
		f.Index = n
	}
	if v := r.FormValue("weight"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, fmt.Errorf("weight: %w", err)
		}
		f.Weight = w
	}
	for _, v := range r.Form["keywords"] {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				f.Keywords = append(f.Keywords, k)
			}
		}
	}
	return f, validate.Struct(f)
}

func (s *Server) request(f evaluateForm) (orchestrator.Request, error) {
	req := orchestrator.Request{
		AnswerText:  f.AnswerText,
		Keywords:    f.Keywords,
		ModelAnswer: f.ModelAnswer,
		Category:    f.Category,
		Weight:      f.Weight,
	}
	if f.Track != "" {
		q, err := s.bank.Lookup(f.Track, f.Round, f.Index)
		if err != nil {
			return req, err
		}
		req.Keywords = q.Keywords
		req.ModelAnswer = q.ModelAnswer
		req.Category = q.Category
		req.Weight = q.Weight
	}
	if req.Weight == 0 {
		req.Weight = 1
	}
	return req, nil
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart body: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	form, err := parseEvaluateForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req, err := s.request(form)
	if errors.Is(err, questionbank.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	dir, err := os.MkdirTemp("", "evaluate-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	log := s.log.WithField("request_id", middleware.GetReqID(r.Context()))
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.WithError(err).Warn("remove upload dir failed")
		}
	}()

	if req.AudioPath, err = saveUpload(r, "audio", dir); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ImagePath, err = saveUpload(r, "image", dir); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ev := s.engine.Run(r.Context(), req)
	log.WithFields(logrus.Fields{
		"evaluation_id": ev.ID,
		"marks":         ev.Result.OverallMarks,
	}).Info("answer evaluated")

	out := ev.Result.Record()
	out["evaluation_id"] = ev.ID
	writeJSON(w, http.StatusOK, out)
}

// saveUpload copies the named file part into dir. A missing part yields an
// empty path.
func saveUpload(r *http.Request, field, dir string) (string, error) {
	file, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	defer file.Close()
	return copyPart(file, hdr, field, dir)
}

// copyPart writes src to dir under the field name. The file is closed before
// returning so a failed flush surfaces as an error.
func copyPart(src io.Reader, hdr *multipart.FileHeader, field, dir string) (string, error) {
	name := field + filepath.Ext(filepath.Base(hdr.Filename))
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("%s: %w", field, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", field, err)
	}
	return path, nil
}

func (s *Server) tracks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"tracks": s.bank.Tracks()})
}

func (s *Server) questions(w http.ResponseWriter, r *http.Request) {
	track := chi.URLParam(r, "track")
	qs, err := s.bank.Questions(track, r.URL.Query().Get("level"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"track": track, "questions": qs})
}

func (s *Server) evaluation(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotImplemented, errors.New("evaluation history is not configured"))
		return
	}
	ev, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	var answers []report.Answer
	if err := json.NewDecoder(io.LimitReader(r.Body, s.maxUpload)).Decode(&answers); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}
	for i := range answers {
		if err := validate.Struct(answers[i]); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("answer %d: %w", i, err))
			return
		}
	}
	writeJSON(w, http.StatusOK, report.Summarize(answers))
}
