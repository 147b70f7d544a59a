package metrics

import (
	"net/http"
	"time"

	"edinet_notifier/internal/app"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edinet_notifier"

// Recorder exports check runs as Prometheus metrics. It implements app.RunRecorder.
type Recorder struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	runDuration   prometheus.Histogram
	documents     prometheus.Counter
	skipped       prometheus.Counter
	notifications *prometheus.CounterVec
	lastSuccess   prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed checks by status and run type.",
		}, []string{"status", "run"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a check.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_checked_total",
			Help:      "Documents returned by the EDINET document list.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Watched records dropped for an unparsable submit time.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful check.",
		}),
	}
	r.registry.MustRegister(
		r.runs, r.runDuration, r.documents, r.skipped, r.notifications, r.lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) RunCompleted(res app.Result, elapsed time.Duration) {
	run := "day"
	if res.NightRun {
		run = "night"
	}
	r.runs.WithLabelValues(string(res.Status), run).Inc()
	r.runDuration.Observe(elapsed.Seconds())
	r.documents.Add(float64(res.Checked))
	r.skipped.Add(float64(res.Skipped))
	if res.OK() {
		r.lastSuccess.SetToCurrentTime()
	}
}

func (r *Recorder) NotificationAttempted(kind string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	r.notifications.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
