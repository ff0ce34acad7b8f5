package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Nikhil-sh2112/azure-webapp/internal/logging"
	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

var homeTemplate = template.Must(template.New("home").Parse(`<html>
<head>
    <title>AIOps Analysis</title>
    <style>
        body { font-family: Arial; margin: 40px; background: lightblue; }
        .header { background: blue; color: white; padding: 20px; text-align: center; }
        .box { background: white; padding: 20px; margin: 15px 0; border: 2px solid blue; }
        .problem { background: red; color: white; padding: 10px; margin: 5px 0; }
        .normal { background: green; color: white; padding: 10px; margin: 5px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>AIOps Log Analysis</h1>
        <p>Machine Learning on Microsoft Azure</p>
    </div>

    <div class="box">
        <h2>Results</h2>
        <p><b>Total Logs:</b> {{.Total}}</p>
        <p><b>Normal:</b> {{.Normal}}</p>
        <p><b>Problems:</b> {{.Problems}}</p>
    </div>

    <div class="box">
        <h2>Problems Found</h2>
        {{range .Anomalies}}<div class="problem"><b>{{.Level}}:</b> {{.Message}}<br><small>Time: {{.Time}} | Score: {{.Score}}</small></div>
        {{end}}
    </div>

    <div class="box">
        <p><b>Algorithm:</b> Isolation Forest | <b>Trees:</b> {{.Trees}} | <b>Contamination:</b> {{.Contamination}}%</p>
    </div>
</body>
</html>
`))

// homeView is the template payload for the dashboard page.
type homeView struct {
	Total         int
	Normal        int
	Problems      int
	Anomalies     []anomalyView
	Trees         int
	Contamination float64
}

type anomalyView struct {
	Level   string
	Message string
	Time    string
	Score   string
}

// handleHome renders the dashboard: run counts, flagged records, and the
// model parameters.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	report, err := s.runAnalysis(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	view := homeView{
		Total:         report.Total(),
		Normal:        report.NormalCount(),
		Problems:      report.AnomalyCount(),
		Trees:         s.cfg.Trees,
		Contamination: s.cfg.Contamination * 100,
	}
	for _, rec := range report.Anomalies() {
		view.Anomalies = append(view.Anomalies, anomalyView{
			Level:   rec.Level,
			Message: rec.Message,
			Time:    rec.Timestamp.Format(models.TimestampLayout),
			Score:   formatScore(rec.Score),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, view); err != nil {
		s.logger.Error("Failed to render dashboard", logging.Err(err))
	}
}

// handleAnalysis returns the full report as JSON.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.runAnalysis(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleHealth reports liveness. It does not run an analysis.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.3f", score)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ServerLogger().Error("Failed to encode response", logging.Err(err))
	}
}

func writeJSONError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}
