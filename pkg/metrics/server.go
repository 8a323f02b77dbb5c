package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"

	"github.com/psantana5/tasktimer/pkg/timing"
)

// Server serves the exporter over HTTP: Prometheus exposition at /metrics and
// a JSON snapshot of progress and per-task statistics at /status.
type Server struct {
	addr     string
	exporter *Exporter
	registry *prometheus.Registry
	srv      *http.Server
	log      *logrus.Entry
}

// NewServer creates a Server for the given listen address. The exporter is
// registered on a private registry so the endpoint carries only tasktimer
// metrics.
func NewServer(addr string, exporter *Exporter, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(exporter)

	s := &Server{
		addr:     addr,
		exporter: exporter,
		registry: registry,
		log:      log.WithField("component", "metrics-server"),
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")
	router.HandleFunc("/status", s.handleStatus).Methods("GET")

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves in a background goroutine until Shutdown.
func (s *Server) Start() {
	s.log.WithField("addr", s.addr).Info("metrics server listening")
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("metrics server failed")
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// nullableFloat marshals NaN (an undefined statistic) as JSON null, which
// encoding/json otherwise rejects.
type nullableFloat float64

func (f nullableFloat) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

type statusProgress struct {
	Step      int           `json:"step"`
	Total     int           `json:"total"`
	Percent   nullableFloat `json:"percent"`
	ETA       nullableFloat `json:"eta_seconds"`
	Projected nullableFloat `json:"projected_seconds"`
	Task      string        `json:"task,omitempty"`
	Running   bool          `json:"running"`
}

type statusRow struct {
	Tag     string        `json:"tag"`
	Laps    uint64        `json:"laps"`
	Mean    nullableFloat `json:"mean_seconds"`
	Stdev   nullableFloat `json:"stdev_seconds"`
	Total   nullableFloat `json:"total_seconds"`
	Percent nullableFloat `json:"percent"`
}

type statusResponse struct {
	Progress statusProgress `json:"progress"`
	Tasks    []statusRow    `json:"tasks"`
	Total    statusRow      `json:"total"`
}

func toStatusRow(r timing.SummaryRow) statusRow {
	return statusRow{
		Tag:     r.Tag,
		Laps:    r.Laps,
		Mean:    nullableFloat(r.Mean),
		Stdev:   nullableFloat(r.Stdev),
		Total:   nullableFloat(r.Total),
		Percent: nullableFloat(r.Percent),
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	rows, total, progress := s.exporter.Snapshot()

	resp := statusResponse{
		Progress: statusProgress{
			Step:      progress.Step,
			Total:     progress.Total,
			Percent:   nullableFloat(progress.Percent),
			ETA:       nullableFloat(progress.ETA),
			Projected: nullableFloat(progress.Projected),
			Task:      progress.Task,
			Running:   progress.Running,
		},
		Tasks: []statusRow{},
		Total: toStatusRow(total),
	}
	for _, row := range rows {
		resp.Tasks = append(resp.Tasks, toStatusRow(row))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.WithError(err).Error("failed to write status response")
	}
}

// WriteText writes the current metrics in Prometheus text exposition format,
// for dumping a final scrape to a terminal or file without an HTTP roundtrip.
func (s *Server) WriteText(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	encoder := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("encoding metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
