package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/xtding233/roic-sim/internal/metrics"
	"github.com/xtding233/roic-sim/internal/simulator"
)

const surface = "http"

// maxBody bounds POST /v1/analyze payloads.
const maxBody = 1 << 20

type errorResp struct {
	Err string `json:"err"`
}

// Server exposes the simulator over HTTP/JSON.
type Server struct {
	svc     *simulator.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
	router  *chi.Mux
}

// New builds the router. m may be nil.
func New(svc *simulator.Service, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{svc: svc, metrics: m, logger: logger, router: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5, "application/json"))

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/profiles", s.handleProfiles)
		r.Get("/single-year", s.handleSingleYear)
		r.Get("/projection", s.handleProjection)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/export.xlsx", s.handleExport)
	})
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	names, err := s.svc.Profiles()
	if err != nil {
		s.fail(w, "profiles", err, time.Now())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"profiles": names})
}

func (s *Server) handleSingleYear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := s.query(w, r, "single_year")
	if !ok {
		return
	}
	res, err := s.svc.SingleYear(r.Context(), req)
	if err != nil {
		s.fail(w, "single_year", err, start)
		return
	}
	s.done("single_year", start)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := s.query(w, r, "projection")
	if !ok {
		return
	}
	res, err := s.svc.Project(r.Context(), req)
	if err != nil {
		s.fail(w, "projection", err, start)
		return
	}
	s.done("projection", start)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req simulator.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.observe("analyze", "invalid", start)
		writeJSON(w, http.StatusBadRequest, errorResp{Err: "invalid body: " + err.Error()})
		return
	}
	res, err := s.svc.Analyze(r.Context(), req)
	if err != nil {
		s.fail(w, "analyze", err, start)
		return
	}
	s.done("analyze", start)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, ok := s.query(w, r, "export")
	if !ok {
		return
	}
	// render first so a failure can still produce a JSON error
	var buf bytes.Buffer
	meta, err := s.svc.Export(r.Context(), req, &buf)
	if err != nil {
		s.fail(w, "export", err, start)
		return
	}
	s.done("export", start)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="roic-%s.xlsx"`, meta.RunID))
	w.Header().Set("X-Run-ID", meta.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) query(w http.ResponseWriter, r *http.Request, kind string) (simulator.Request, bool) {
	req, errs := requestFromQuery(r)
	if len(errs) > 0 {
		s.observe(kind, "invalid", time.Now())
		writeJSON(w, http.StatusBadRequest, errorResp{Err: strings.Join(errs, "; ")})
		return req, false
	}
	return req, true
}

func (s *Server) fail(w http.ResponseWriter, kind string, err error, start time.Time) {
	k := simulator.Classify(err)
	s.observe(kind, k.String(), start)
	status := http.StatusInternalServerError
	switch k {
	case simulator.KindInvalid:
		status = http.StatusBadRequest
	case simulator.KindNotFound:
		status = http.StatusNotFound
	case simulator.KindCanceled:
		// client closed request
		status = 499
	default:
		s.logger.Error("request failed", "kind", kind, "err", err)
	}
	writeJSON(w, status, errorResp{Err: err.Error()})
}

func (s *Server) done(kind string, start time.Time) {
	s.observe(kind, "ok", start)
}

func (s *Server) observe(kind, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.Observe(surface, kind, status, time.Since(start))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResp{Err: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
