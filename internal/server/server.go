// Package server exposes the log analysis pipeline over HTTP. Every
// request runs a fresh analysis: the model and scaler are fit on the
// current batch only, so results always reflect the log file as it is now.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Nikhil-sh2112/azure-webapp/internal/config"
	"github.com/Nikhil-sh2112/azure-webapp/internal/events"
	"github.com/Nikhil-sh2112/azure-webapp/internal/integrity"
	"github.com/Nikhil-sh2112/azure-webapp/internal/logging"
	"github.com/Nikhil-sh2112/azure-webapp/internal/logsource"
	"github.com/Nikhil-sh2112/azure-webapp/internal/metrics"
	"github.com/Nikhil-sh2112/azure-webapp/internal/ml"
	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
	"github.com/Nikhil-sh2112/azure-webapp/internal/parser"
)

// Server wires the line source, parser, and scorer behind an HTTP API.
type Server struct {
	cfg         *config.Config
	source      logsource.Source
	fingerprint *integrity.Fingerprinter
	bus         *events.EventBus
	logger      *logging.Logger
	httpServer  *http.Server
}

// New creates a server for the given configuration. A nil bus disables
// event publication.
func New(cfg *config.Config, source logsource.Source, bus *events.EventBus) *Server {
	if source == nil {
		source = logsource.NewFileSource(cfg.LogFilePath, true)
	}
	s := &Server{
		cfg:         cfg,
		source:      source,
		fingerprint: integrity.New(),
		bus:         bus,
		logger:      logging.ServerLogger(),
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/api/analysis", s.handleAnalysis).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return r
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening",
		"addr", s.httpServer.Addr,
		"log_file", s.cfg.LogFilePath,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// runAnalysis executes one full pipeline pass: read lines, parse, score.
// Parser and scorer are created per call; nothing carries over between
// runs.
func (s *Server) runAnalysis(ctx context.Context) (*models.AnalysisReport, error) {
	runID := uuid.New().String()
	start := time.Now()

	lines, err := s.source.Lines()
	if err != nil {
		s.failRun(runID, err)
		return nil, fmt.Errorf("read log source: %w", err)
	}
	metrics.LinesRead.Add(float64(len(lines)))

	if s.bus != nil {
		s.bus.EmitAnalysisStarted(runID, len(lines))
	}

	p := parser.New()
	records, err := p.Parse(lines)
	if err != nil {
		metrics.ParseFailures.Inc()
		s.failRun(runID, err)
		return nil, err
	}
	metrics.LinesDropped.Add(float64(p.DroppedLines))

	scorer := ml.NewScorer(&ml.ScorerConfig{
		Forest: &ml.ForestConfig{
			Trees:         s.cfg.Trees,
			Contamination: s.cfg.Contamination,
			Seed:          s.cfg.Seed,
		},
		StrictLevels: s.cfg.StrictLevels,
	})
	scored, err := scorer.Score(ctx, records)
	if err != nil {
		s.failRun(runID, err)
		return nil, err
	}

	report := &models.AnalysisReport{
		RunID:       runID,
		Fingerprint: s.fingerprint.Fingerprint(lines),
		GeneratedAt: time.Now().UTC(),
		LinesRead:   len(lines),
		LinesParsed: len(records),
		Threshold:   scorer.Threshold(),
		Records:     scored,
	}

	stats := report.Stats(time.Since(start))
	metrics.AnalysesRun.WithLabelValues("success").Inc()
	metrics.AnalysisDuration.Observe(stats.Duration.Seconds())
	metrics.RecordsLastRun.Set(float64(stats.Total))
	metrics.AnomaliesFlagged.Add(float64(stats.Anomalies))

	s.logger.Info("Analysis run completed",
		logging.Run(runID, stats.Total, stats.Anomalies),
		logging.Count("normals", int64(stats.Normals)),
		logging.Duration("elapsed", stats.Duration),
	)

	if s.bus != nil {
		for i := range report.Records {
			if report.Records[i].IsAnomaly {
				s.bus.EmitAnomalyDetected(runID, &report.Records[i])
			}
		}
		s.bus.EmitAnalysisCompleted(report)
	}
	return report, nil
}

func (s *Server) failRun(runID string, err error) {
	metrics.AnalysesRun.WithLabelValues("failure").Inc()
	s.logger.Error("Analysis run failed", "run_id", runID, logging.Err(err))
	if s.bus != nil {
		s.bus.EmitAnalysisFailed(runID, err)
	}
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	var parseErr *parser.ParseError
	switch {
	case errors.Is(err, ml.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.As(err, &parseErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
