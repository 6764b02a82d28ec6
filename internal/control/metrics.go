package control

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/cyclehud/pkg/types"
)

// Metrics holds the controller's Prometheus metrics.
type Metrics struct {
	Events         *prometheus.CounterVec
	MenuResponses  *prometheus.CounterVec
	Directives     *prometheus.CounterVec
	TimerRetries   prometheus.Counter
	DecodeFailures prometheus.Counter
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclehud_events_total",
		Help: "Host events handled, by event type and outcome",
	}, []string{"event", "handled"})

	menuResponses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclehud_menu_responses_total",
		Help: "Menu and favorite responses returned to the host",
	}, []string{"response"})

	directives := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cyclehud_directives_total",
		Help: "Equip, use, and unequip directives returned to the host",
	}, []string{"kind"})

	timerRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cyclehud_timer_retries_total",
		Help: "Delayed equips re-armed because the entry could not be resolved",
	})

	decodeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cyclehud_decode_failures_total",
		Help: "Save payloads rejected on load",
	})

	reg.MustRegister(events, menuResponses, directives, timerRetries, decodeFailures)

	return &Metrics{
		Events:         events,
		MenuResponses:  menuResponses,
		Directives:     directives,
		TimerRetries:   timerRetries,
		DecodeFailures: decodeFailures,
	}
}

func (m *Metrics) observe(event string, resp types.Response) {
	if m == nil {
		return
	}
	handled := "false"
	if resp.Handled {
		handled = "true"
	}
	m.Events.WithLabelValues(event, handled).Inc()
	if resp.Menu != types.MenuUnhandled {
		m.MenuResponses.WithLabelValues(resp.Menu.String()).Inc()
	}
	for _, d := range resp.Directives {
		m.Directives.WithLabelValues(d.Kind.String()).Inc()
	}
}

func (m *Metrics) timerRetry() {
	if m != nil {
		m.TimerRetries.Inc()
	}
}

func (m *Metrics) decodeFailure() {
	if m != nil {
		m.DecodeFailures.Inc()
	}
}
