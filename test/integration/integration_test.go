// Package integration exercises the full pipeline end to end: file on
// disk, HTTP request, parsed and scored report.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nikhil-sh2112/azure-webapp/internal/config"
	"github.com/Nikhil-sh2112/azure-webapp/internal/events"
	"github.com/Nikhil-sh2112/azure-webapp/internal/logsource"
	"github.com/Nikhil-sh2112/azure-webapp/internal/ml"
	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
	"github.com/Nikhil-sh2112/azure-webapp/internal/parser"
	"github.com/Nikhil-sh2112/azure-webapp/internal/server"
	"github.com/Nikhil-sh2112/azure-webapp/test/fixtures"
	"github.com/Nikhil-sh2112/azure-webapp/test/mocks"
)

func testConfig(path string) *config.Config {
	return &config.Config{
		Port:          8080,
		LogFilePath:   path,
		Trees:         150,
		Contamination: 0.05,
		Seed:          42,
	}
}

func TestFileToReportPipeline(t *testing.T) {
	// Build a log file with routine traffic and two severe lines
	lf := fixtures.NewLogFixture()
	var lines []string
	for i := 0; i < 18; i++ {
		lines = append(lines, lf.InfoLine())
	}
	lines = append(lines, lf.ErrorLine(), lf.CriticalLine())

	path := filepath.Join(t.TempDir(), "system_logs.txt")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}

	cfg := testConfig(path)
	srv := server.New(cfg, logsource.NewFileSource(path, false), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Total() != 20 {
		t.Fatalf("Expected 20 records, got %d", report.Total())
	}
	if report.AnomalyCount() < 1 {
		t.Error("Expected at least one flagged record")
	}

	// Flagged records should be the severe ones, not routine INFO traffic
	for _, a := range report.Anomalies() {
		if a.Level == models.LevelInfo {
			t.Errorf("Routine INFO line flagged over severe lines: %q (score %v)", a.Message, a.Score)
		}
	}
}

func TestBootstrapThenDashboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system_logs.txt")
	cfg := testConfig(path)
	srv := server.New(cfg, logsource.NewFileSource(path, true), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<b>Total Logs:</b> 8") {
		t.Error("Dashboard should show the 8 bootstrapped sample lines")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Bootstrap file missing: %v", err)
	}
}

func TestMalformedLinesAreDroppedEndToEnd(t *testing.T) {
	lf := fixtures.NewLogFixture()
	lines := []string{
		lf.InfoLine(),
		lf.MalformedLine(),
		lf.InfoLine(),
		lf.CriticalLine(),
		"short line",
		lf.InfoLine(),
	}

	cfg := testConfig("unused")
	srv := server.New(cfg, mocks.NewMockSource(lines), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.LinesRead != 6 {
		t.Errorf("Expected 6 lines read, got %d", report.LinesRead)
	}
	if report.LinesParsed != 4 {
		t.Errorf("Expected 4 lines parsed, got %d", report.LinesParsed)
	}
}

func TestEventsFlowThroughBus(t *testing.T) {
	bus := events.NewEventBus()
	recorder := mocks.NewEventRecorder(bus)

	lf := fixtures.NewLogFixture()
	var lines []string
	for i := 0; i < 25; i++ {
		lines = append(lines, lf.InfoLine())
	}
	lines = append(lines, lf.CriticalLine())

	cfg := testConfig("unused")
	srv := server.New(cfg, mocks.NewMockSource(lines), bus)

	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if n := recorder.CountByType(events.EventAnalysisStarted); n != 1 {
		t.Errorf("Expected 1 started event, got %d", n)
	}
	if n := recorder.CountByType(events.EventAnalysisCompleted); n != 1 {
		t.Errorf("Expected 1 completed event, got %d", n)
	}
	if n := recorder.CountByType(events.EventAnomalyDetected); n < 1 {
		t.Error("Expected at least one anomaly event")
	}
}

func TestDirectPipelineMatchesServer(t *testing.T) {
	// Running the parser and scorer directly must match what the HTTP
	// layer reports for the same input.
	lines := append([]string(nil), logsource.SampleLines...)

	p := parser.New()
	records, err := p.Parse(lines)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	scorer := ml.NewScorer(nil)
	scored, err := scorer.Score(context.Background(), records)
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	srv := server.New(testConfig("unused"), mocks.NewMockSource(lines), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var report models.AnalysisReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(scored) != report.Total() {
		t.Fatalf("Record count mismatch: %d vs %d", len(scored), report.Total())
	}
	for i := range scored {
		if scored[i].Score != report.Records[i].Score {
			t.Errorf("Record %d score mismatch: %v vs %v", i, scored[i].Score, report.Records[i].Score)
		}
		if scored[i].IsAnomaly != report.Records[i].IsAnomaly {
			t.Errorf("Record %d classification mismatch", i)
		}
	}
}
