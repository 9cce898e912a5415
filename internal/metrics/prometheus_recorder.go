package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	mutations      *prom.CounterVec
	saveResults    *prom.CounterVec
	saveDuration   prom.Histogram
	remindersFired prom.Counter
	notifications  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.mutations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "obrador",
			Name:      "mutations_total",
			Help:      "Store mutations by collection and operation",
		}, []string{"collection", "op"})
		pr.saveResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "obrador",
			Name:      "save_results_total",
			Help:      "Durable save outcomes",
		}, []string{"result"})
		pr.saveDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "obrador",
			Name:      "save_duration_seconds",
			Help:      "Duration of full-document saves",
			Buckets:   prom.DefBuckets,
		})
		pr.remindersFired = prom.NewCounter(prom.CounterOpts{
			Namespace: "obrador",
			Name:      "reminders_fired_total",
			Help:      "Reminders transitioned to fired by the scheduler",
		})
		pr.notifications = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "obrador",
			Name:      "notifications_total",
			Help:      "Notification deliveries by outcome",
		}, []string{"outcome"})
		reg.MustRegister(pr.mutations, pr.saveResults, pr.saveDuration, pr.remindersFired, pr.notifications)
	})
	return pr
}

func (p *PrometheusRecorder) IncMutation(collection, op string) {
	if p == nil || p.mutations == nil {
		return
	}
	p.mutations.WithLabelValues(collection, op).Inc()
}

func (p *PrometheusRecorder) IncSaveResult(success bool) {
	if p == nil || p.saveResults == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.saveResults.WithLabelValues(res).Inc()
}

func (p *PrometheusRecorder) ObserveSaveDuration(d time.Duration) {
	if p == nil || p.saveDuration == nil {
		return
	}
	p.saveDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncReminderFired() {
	if p == nil || p.remindersFired == nil {
		return
	}
	p.remindersFired.Inc()
}

func (p *PrometheusRecorder) IncNotification(outcome NotifyOutcome) {
	if p == nil || p.notifications == nil {
		return
	}
	p.notifications.WithLabelValues(string(outcome)).Inc()
}
