package octree

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels used in logs and metrics.
const (
	opBuild   = "build"
	opRebuild = "rebuild"
	opSubtree = "subtree"
	opReuse   = "reuse"
)

// Metrics records tree construction statistics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	duration *prometheus.HistogramVec
	cells    *prometheus.GaugeVec
	leaves   *prometheus.GaugeVec
	depth    *prometheus.GaugeVec
	warnings *prometheus.CounterVec
}

// NewMetrics creates the octree collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "octree_build_duration_seconds",
			Help:    "Time to build, rebuild, reuse or extract a tree",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10},
		}, []string{"op"}),
		cells: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "octree_cells",
			Help: "Number of cells in the most recently built tree",
		}, []string{"op"}),
		leaves: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "octree_leaves",
			Help: "Number of leaves in the most recently built tree",
		}, []string{"op"}),
		depth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "octree_depth",
			Help: "Depth of the most recently built tree",
		}, []string{"op"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "octree_warnings_total",
			Help: "Non-fatal conditions such as empty trees",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(op string, d time.Duration, lay *layout) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(op).Observe(d.Seconds())
	if lay == nil {
		return
	}
	m.cells.WithLabelValues(op).Set(float64(len(lay.cells)))
	m.leaves.WithLabelValues(op).Set(float64(len(lay.leaves)))
	m.depth.WithLabelValues(op).Set(float64(lay.depth))
}

func (m *Metrics) warn(kind string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(kind).Inc()
}
