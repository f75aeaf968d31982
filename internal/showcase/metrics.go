package showcase

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the domain-level counters exposed by the showcase service
type Metrics struct {
	portfoliosCreated prometheus.Counter
	viewsRecorded     prometheus.Counter
	likesRecorded     prometheus.Counter
	likesRejected     prometheus.Counter
}

// NewMetrics creates the showcase counters and registers them with the
// default registry
func NewMetrics(namespace string) (*Metrics, error) {
	if namespace == "" {
		namespace = "pmhelper"
	}

	m := &Metrics{
		portfoliosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "showcase",
			Name:      "portfolios_created_total",
			Help:      "Total number of portfolios created",
		}),
		viewsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "showcase",
			Name:      "views_recorded_total",
			Help:      "Total number of portfolio views counted",
		}),
		likesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "showcase",
			Name:      "likes_recorded_total",
			Help:      "Total number of portfolio likes recorded",
		}),
		likesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "showcase",
			Name:      "likes_rejected_total",
			Help:      "Total number of duplicate like attempts rejected",
		}),
	}

	for _, collector := range []prometheus.Collector{
		m.portfoliosCreated, m.viewsRecorded, m.likesRecorded, m.likesRejected,
	} {
		if err := prometheus.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}

	return m, nil
}
