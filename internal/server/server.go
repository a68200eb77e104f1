// Package server exposes the grading engine over HTTP.
//
// One JSON endpoint does the work: POST /v1/grade accepts a recited text and
// a reference text and returns the grade, pass verdict, and per-word
// breakdown. The rest of the surface is operational: /healthz, /readyz, and
// /metrics (Prometheus).
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rattil/rattil/internal/config"
	"github.com/rattil/rattil/internal/health"
	"github.com/rattil/rattil/internal/observe"
	"github.com/rattil/rattil/pkg/arabic"
	"github.com/rattil/rattil/pkg/grading"
)

// shutdownGrace bounds the drain of in-flight requests once the run context
// is cancelled.
const shutdownGrace = 15 * time.Second

// Server holds the HTTP surface and its dependencies.
type Server struct {
	cfg     *config.Config
	metrics *observe.Metrics
	handler http.Handler
}

// Option is a functional option for New.
type Option func(*Server)

// WithMetrics injects a metrics set instead of using the process-wide default.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New builds the full handler chain: routes, CORS, request metrics and
// tracing.
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/grade", s.handleGrade)
	mux.Handle("GET /metrics", promhttp.Handler())

	hc := health.New(health.Checker{Name: "lexicon", Check: checkLexicon})
	hc.Register(mux)

	s.handler = observe.Middleware(s.metrics)(s.cors(mux))
	return s
}

// Handler returns the fully wrapped HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// checkLexicon verifies the letter-name table is populated.
func checkLexicon(context.Context) error {
	if arabic.Letters() == 0 {
		return errors.New("letter lexicon is empty")
	}
	return nil
}

// ─── Grade endpoint ──────────────────────────────────────────────────────────

// gradeRequest is the POST /v1/grade body. Threshold is optional; when nil
// the configured pass threshold applies.
type gradeRequest struct {
	RecitedText   string   `json:"recited_text"`
	ReferenceText string   `json:"reference_text"`
	Threshold     *float64 `json:"threshold,omitempty"`
}

// gradeResponse echoes the inputs alongside the verdict and the per-word
// alignment detail.
type gradeResponse struct {
	Grade           float64              `json:"grade"`
	Passed          bool                 `json:"is_passed"`
	SimilarityScore float64              `json:"similarity_score"`
	ReferenceText   string               `json:"reference_text"`
	RecitedText     string               `json:"recited_text"`
	Words           []grading.TokenScore `json:"words"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		writeError(w, http.StatusBadRequest, "Content-Type must be application/json")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.Grading.MaxTextBytes))

	var req gradeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.ReferenceText) == "" {
		writeError(w, http.StatusBadRequest, "reference_text must not be empty")
		return
	}

	threshold := s.cfg.Grading.PassThreshold
	if req.Threshold != nil {
		threshold = *req.Threshold
		if threshold < 0 || threshold > 100 {
			writeError(w, http.StatusBadRequest, "threshold must be between 0 and 100")
			return
		}
	}

	start := time.Now()
	similarity, words := grading.CompareDetailed(req.RecitedText, req.ReferenceText)
	result := grading.Grade(similarity, threshold)
	s.metrics.RecordComparison(r.Context(), similarity, result.Passed, time.Since(start))

	slog.DebugContext(r.Context(), "graded recitation",
		"grade", result.Grade,
		"passed", result.Passed,
		"words", len(words),
	)

	writeJSON(w, http.StatusOK, gradeResponse{
		Grade:           result.Grade,
		Passed:          result.Passed,
		SimilarityScore: result.Similarity,
		ReferenceText:   req.ReferenceText,
		RecitedText:     req.RecitedText,
		Words:           words,
	})
}

// ─── CORS ────────────────────────────────────────────────────────────────────

// cors applies the configured origin allowlist and answers OPTIONS
// preflights. An allowlist entry of "*" permits any origin.
func (s *Server) cors(next http.Handler) http.Handler {
	allowed := s.cfg.CORS.AllowedOrigins
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

// Run serves HTTP until ctx is cancelled, then drains in-flight requests for
// up to shutdownGrace. A nil error means a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", srv.Addr, "tls", s.cfg.Server.TLS != nil)
		var err error
		if tls := s.cfg.Server.TLS; tls != nil {
			err = srv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ─── JSON helpers ────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
