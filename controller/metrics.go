package controller

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/projecthelios/HeliosManager/system/sensors"
)

// Metrics exports the auto-boost loop's telemetry.
type Metrics struct {
	cpuTemp     prometheus.Gauge
	gpuTemp     prometheus.Gauge
	boosted     prometheus.Gauge
	transitions *prometheus.CounterVec
}

// NewMetrics registers the controller metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cpuTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helios",
			Subsystem: "autoboost",
			Name:      "cpu_temp_celsius",
			Help:      "Last sampled CPU package temperature.",
		}),
		gpuTemp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helios",
			Subsystem: "autoboost",
			Name:      "gpu_temp_celsius",
			Help:      "Last sampled GPU temperature (0 when no GPU reading is available).",
		}),
		boosted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "helios",
			Subsystem: "autoboost",
			Name:      "boosted",
			Help:      "Whether turbo fans are currently forced (1) or not (0).",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "helios",
			Subsystem: "autoboost",
			Name:      "transitions_total",
			Help:      "Hysteresis state transitions by target state.",
		}, []string{"to"}),
	}
	reg.MustRegister(m.cpuTemp, m.gpuTemp, m.boosted, m.transitions)
	return m
}

func (m *Metrics) observe(s sensors.Sample) {
	m.cpuTemp.Set(float64(s.CPU))
	m.gpuTemp.Set(float64(s.GPU))
}

func (m *Metrics) transition(boosted bool) {
	if boosted {
		m.boosted.Set(1)
		m.transitions.WithLabelValues("boosted").Inc()
	} else {
		m.boosted.Set(0)
		m.transitions.WithLabelValues("normal").Inc()
	}
}
