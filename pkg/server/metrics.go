package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metric descriptors for the game server.
type Metrics struct {
	game      *Game
	startTime time.Time

	playersConnected *prometheus.GaugeVec
	entitiesTotal    *prometheus.GaugeVec
	connectionsTotal *prometheus.CounterVec
	commandsTotal    prometheus.Counter
	itemsMovedTotal  prometheus.Counter
	resolutionMisses prometheus.Counter
	uptimeSeconds    prometheus.Gauge
	memoryHeapBytes  prometheus.Gauge
	goroutines       prometheus.Gauge
}

// NewMetrics creates and registers Prometheus metrics for the game.
func NewMetrics(game *Game, startTime time.Time) *Metrics {
	m := &Metrics{
		game:      game,
		startTime: startTime,
		playersConnected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goembermud_players_connected",
			Help: "Number of currently connected players by transport.",
		}, []string{"transport"}),
		entitiesTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "goembermud_entities_total",
			Help: "Number of live entities by type.",
		}, []string{"type"}),
		connectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goembermud_connections_total",
			Help: "Total connections since server start.",
		}, []string{"transport"}),
		commandsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goembermud_commands_processed_total",
			Help: "Total commands processed since server start.",
		}),
		itemsMovedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goembermud_items_moved_total",
			Help: "Total item relocations from get/put/drop/give.",
		}),
		resolutionMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goembermud_resolution_misses_total",
			Help: "Item references that resolved to nothing.",
		}),
		uptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "goembermud_uptime_seconds",
			Help: "Server uptime in seconds.",
		}),
		memoryHeapBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "goembermud_memory_heap_bytes",
			Help: "Go heap memory allocated in bytes.",
		}),
		goroutines: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "goembermud_goroutines",
			Help: "Number of active goroutines.",
		}),
	}

	prometheus.MustRegister(
		m.playersConnected,
		m.entitiesTotal,
		m.connectionsTotal,
		m.commandsTotal,
		m.itemsMovedTotal,
		m.resolutionMisses,
		m.uptimeSeconds,
		m.memoryHeapBytes,
		m.goroutines,
	)

	return m
}

// Update refreshes all gauge metrics from current game state.
func (m *Metrics) Update() {
	tcp, ws := 0, 0
	for _, ch := range m.game.Conns.ConnectedCharacters() {
		for _, d := range m.game.Conns.GetByCharacter(ch) {
			if d.Transport == TransportWebSocket {
				ws++
			} else {
				tcp++
			}
		}
	}
	m.playersConnected.WithLabelValues("tcp").Set(float64(tcp))
	m.playersConnected.WithLabelValues("websocket").Set(float64(ws))

	counts := map[string]int{}
	for _, e := range m.game.World.Entities {
		counts[e.Type.String()]++
	}
	for typ, n := range counts {
		m.entitiesTotal.WithLabelValues(typ).Set(float64(n))
	}

	m.uptimeSeconds.Set(time.Since(m.startTime).Seconds())

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	m.memoryHeapBytes.Set(float64(mem.HeapAlloc))
	m.goroutines.Set(float64(runtime.NumGoroutine()))
}

// CommandProcessed counts one dispatched command.
func (m *Metrics) CommandProcessed() {
	m.commandsTotal.Inc()
}

// ConnectionOpened counts one accepted connection.
func (m *Metrics) ConnectionOpened(transport string) {
	m.connectionsTotal.WithLabelValues(transport).Inc()
}

// Handler returns an http.Handler that updates metrics before serving them.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.Update()
		promhttp.Handler().ServeHTTP(w, r)
	})
}

// countItemMoved and resolutionMiss are nil-safe shims so commands can
// count without checking whether metrics are enabled.
func (g *Game) countItemMoved() {
	if g.Metrics != nil {
		g.Metrics.itemsMovedTotal.Inc()
	}
}

func (g *Game) resolutionMiss() {
	if g.Metrics != nil {
		g.Metrics.resolutionMisses.Inc()
	}
}
