package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the passport module. All methods are
// safe on a nil receiver so tests can run services without a registry.
type Metrics struct {
	PassportsCreated prometheus.Counter
	PassportsExpired prometheus.Counter
	PublicViews      prometheus.Counter
}

// New creates a new Metrics instance with all passport module metrics registered.
func New() *Metrics {
	return &Metrics{
		PassportsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passreg_passports_created_total",
			Help: "Total number of passport records created",
		}),
		PassportsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passreg_passports_expired_total",
			Help: "Total number of passports auto-deactivated on expiration",
		}),
		PublicViews: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passreg_public_views_total",
			Help: "Total number of public passport page lookups",
		}),
	}
}

// IncrementCreated records a successful passport creation.
func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.PassportsCreated.Inc()
	}
}

// IncrementExpired records an automatic expiration transition.
func (m *Metrics) IncrementExpired() {
	if m != nil {
		m.PassportsExpired.Inc()
	}
}

// IncrementPublicView records a public lookup by public id.
func (m *Metrics) IncrementPublicView() {
	if m != nil {
		m.PublicViews.Inc()
	}
}
