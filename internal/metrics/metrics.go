package metrics

import (
	"net/http"

	"health_monitor/internal/models"
	"health_monitor/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "health_monitor"

// Metrics exports the monitoring pipeline as Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	heartRate     prometheus.Gauge
	bloodOxygen   prometheus.Gauge
	severity      *prometheus.GaugeVec
	readingsTotal prometheus.Counter
	alertsTotal   *prometheus.CounterVec
	escalation    prometheus.Gauge
}

var _ service.Recorder = (*Metrics)(nil)

// New registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		heartRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heart_rate_bpm",
			Help:      "Most recent heart rate reading.",
		}),
		bloodOxygen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "blood_oxygen_percent",
			Help:      "Most recent SpO2 reading.",
		}),
		severity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "severity",
			Help:      "Current severity per metric (0 normal, 1 warning, 2 critical, 3 emergency).",
		}, []string{"metric"}),
		readingsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_total",
			Help:      "Total readings evaluated.",
		}),
		alertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Total alerts emitted by kind.",
		}, []string{"kind"}),
		escalation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "consecutive_abnormal",
			Help:      "Consecutive abnormal evaluation cycles.",
		}),
	}

	m.registry.MustRegister(
		m.heartRate,
		m.bloodOxygen,
		m.severity,
		m.readingsTotal,
		m.alertsTotal,
		m.escalation,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveReading(r models.Reading, hr, o2 models.Severity) {
	if m == nil {
		return
	}
	m.readingsTotal.Inc()
	m.heartRate.Set(r.HeartRate)
	m.bloodOxygen.Set(r.BloodOxygen)
	m.severity.WithLabelValues(string(models.MetricHeartRate)).Set(float64(hr))
	m.severity.WithLabelValues(string(models.MetricBloodOxygen)).Set(float64(o2))
}

func (m *Metrics) AlertEmitted(kind models.AlertKind) {
	if m == nil {
		return
	}
	m.alertsTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) SetEscalation(consecutiveAbnormal int) {
	if m == nil {
		return
	}
	m.escalation.Set(float64(consecutiveAbnormal))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
