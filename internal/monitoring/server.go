// internal/monitoring/server.go
package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/valpere/UIProbe/internal/output"
)

// ServerConfig configures the report and metrics server
type ServerConfig struct {
	Listen    string
	ReportDir string
}

// Server serves the report directory, run summaries, health and metrics
type Server struct {
	config  ServerConfig
	metrics *Metrics
	health  *HealthManager
	logger  *zap.Logger
	router  *mux.Router
}

// RunSummary is one entry of /api/runs
type RunSummary struct {
	File     string         `json:"file"`
	RunID    string         `json:"run_id"`
	Title    string         `json:"title"`
	Start    time.Time      `json:"start"`
	Duration string         `json:"duration"`
	Passed   bool           `json:"passed"`
	Counts   map[string]int `json:"counts"`
}

// NewServer builds the routes. metrics and health may be nil.
func NewServer(config ServerConfig, metrics *Metrics, health *HealthManager, logger *zap.Logger) *Server {
	if config.Listen == "" {
		config.Listen = ":9090"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if health == nil {
		health = NewHealthManager("")
	}
	s := &Server{config: config, metrics: metrics, health: health, logger: logger}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/healthz", s.health.HealthHandler()).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/runs", s.listRuns).Methods(http.MethodGet)
	api.HandleFunc("/runs/{file}", s.getRun).Methods(http.MethodGet)

	r.PathPrefix("/report/").Handler(
		http.StripPrefix("/report/", http.FileServer(http.Dir(s.config.ReportDir))))
	r.Handle("/", http.RedirectHandler("/report/", http.StatusFound))
	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// readRun decodes a JSON report written by output.JSONWriter.
func readRun(path string) (*output.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep output.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, err
	}
	if rep.RunID == "" {
		return nil, errors.New("not a run report")
	}
	return &rep, nil
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	paths, err := filepath.Glob(filepath.Join(s.config.ReportDir, "*.json"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	runs := make([]RunSummary, 0, len(paths))
	for _, p := range paths {
		rep, err := readRun(p)
		if err != nil {
			s.logger.Debug("Skipping file", zap.String("path", p), zap.Error(err))
			continue
		}
		runs = append(runs, RunSummary{
			File:     filepath.Base(p),
			RunID:    rep.RunID,
			Title:    rep.Title,
			Start:    rep.Start,
			Duration: rep.Duration().String(),
			Passed:   rep.Passed(),
			Counts:   rep.Counts,
		})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Start.After(runs[j].Start) })
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if file != filepath.Base(file) || !strings.HasSuffix(file, ".json") {
		writeError(w, http.StatusBadRequest, errors.New("invalid report file name"))
		return
	}
	rep, err := readRun(filepath.Join(s.config.ReportDir, file))
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Start serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Serving reports", zap.String("listen", s.config.Listen), zap.String("dir", s.config.ReportDir))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
