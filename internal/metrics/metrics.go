package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "relay"

// drop reasons for FramesDropped
const (
	DropMalformed   = "malformed"
	DropReadOnly    = "read_only"
	DropRateLimited = "rate_limited"
	DropNotMember   = "not_member"
	DropNoSession   = "no_session"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_file_sessions",
		Help:      "Number of file sessions with at least one member.",
	})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Number of connections that are members of a file session.",
	})

	MessagesRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_relayed_total",
		Help:      "Stamped messages fanned out to a file session, by type.",
	}, []string{"type"})

	FramesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_dropped_total",
		Help:      "Inbound frames discarded without relay, by reason.",
	}, []string{"reason"})

	LeaderElections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leader_elections_total",
		Help:      "Times a connection was designated leader of a file session.",
	})

	HandshakesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "handshakes_rejected_total",
		Help:      "Websocket handshakes refused before upgrade, by reason.",
	}, []string{"reason"})
)

// serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
