// Package server exposes the evaluation engine, the question bank and
// session reports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/harishgm1236-debug/interview-text/observe"
	"github.com/harishgm1236-debug/interview-text/orchestrator"
	"github.com/harishgm1236-debug/interview-text/questionbank"
)

const defaultMaxUpload = 32 << 20

var validate = validator.New()

// Evaluator runs one answer through the engine.
type Evaluator interface {
	Run(ctx context.Context, req orchestrator.Request) orchestrator.Evaluation
}

// History looks up stored evaluations.
type History interface {
	Get(ctx context.Context, id string) (orchestrator.Evaluation, error)
}

type Options struct {
	Port      int
	Engine    Evaluator
	Bank      *questionbank.Bank
	History   History
	Metrics   *observe.Metrics
	Exporter  http.Handler
	MaxUpload int64
	// WriteTimeout bounds a whole request, evaluation included.
	WriteTimeout time.Duration
	Logger       logrus.FieldLogger
}

type Server struct {
	router    *chi.Mux
	port      int
	engine    Evaluator
	bank      *questionbank.Bank
	history   History
	maxUpload int64
	timeout   time.Duration
	log       logrus.FieldLogger
}

func NewServer(o Options) *Server {
	log := o.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	s := &Server{
		router:    chi.NewRouter(),
		port:      o.Port,
		engine:    o.Engine,
		bank:      o.Bank,
		history:   o.History,
		maxUpload: o.MaxUpload,
		timeout:   o.WriteTimeout,
		log:       log,
	}
	if s.bank == nil {
		s.bank = questionbank.Default()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	if s.timeout <= 0 {
		s.timeout = 2 * time.Minute
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	if o.Metrics != nil {
		s.router.Use(observe.Middleware(o.Metrics, log))
	}

	s.router.Get("/health", s.health)
	if o.Exporter != nil {
		s.router.Method(http.MethodGet, "/metrics", o.Exporter)
	}
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/questions", s.tracks)
		r.Get("/questions/{track}", s.questions)
		r.Post("/evaluate", s.evaluate)
		r.Get("/evaluations/{id}", s.evaluation)
		r.Post("/report", s.report)
	})
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.timeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("API server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
