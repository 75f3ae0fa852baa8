package room

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are optional; a nil *Metrics records nothing.
type Metrics struct {
	Rooms          prometheus.Gauge
	Players        prometheus.Gauge
	PiecesServed   prometheus.Counter
	MalformedLines prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Rooms: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tetrecs",
			Name:      "rooms",
			Help:      "Open game rooms.",
		}),
		Players: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "tetrecs",
			Name:      "players",
			Help:      "Connected players across all rooms.",
		}),
		PiecesServed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tetrecs",
			Name:      "pieces_served_total",
			Help:      "PIECE replies sent to players.",
		}),
		MalformedLines: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tetrecs",
			Name:      "malformed_lines_total",
			Help:      "Frames from players that could not be used.",
		}),
	}
}

func (m *Metrics) roomOpened() {
	if m != nil {
		m.Rooms.Inc()
	}
}

func (m *Metrics) roomClosed() {
	if m != nil {
		m.Rooms.Dec()
	}
}

func (m *Metrics) playerJoined() {
	if m != nil {
		m.Players.Inc()
	}
}

func (m *Metrics) playerLeft() {
	if m != nil {
		m.Players.Dec()
	}
}

func (m *Metrics) pieceServed() {
	if m != nil {
		m.PiecesServed.Inc()
	}
}

func (m *Metrics) malformed() {
	if m != nil {
		m.MalformedLines.Inc()
	}
}
