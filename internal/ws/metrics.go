package ws

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_events_published_total",
			Help: "Mutation events published to board channels",
		},
		[]string{"event"},
	)
	EventsRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_events_relayed_total",
			Help: "Events received from other instances and applied locally",
		},
		[]string{"event"},
	)
	SessionsConnected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "board_sessions_connected",
			Help: "Sessions currently connected per board",
		},
		[]string{"board"},
	)
)

func init() {
	prometheus.MustRegister(EventsPublished)
	prometheus.MustRegister(EventsRelayed)
	prometheus.MustRegister(SessionsConnected)
}
