package expiry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the expiration scheduler. All methods
// are safe on a nil receiver so tests can run scans without a registry.
type Metrics struct {
	RunDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all scheduler metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "passreg_expiry_run_duration_seconds",
			Help: "Wall-clock duration of completed expiration scan runs",
		}),
	}
}

// ObserveRun records the duration of one completed scan.
func (m *Metrics) ObserveRun(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}
