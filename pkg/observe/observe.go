package observe

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vdiff/pkg/vdom"
)

// DefaultTracerName is the tracer used when none is injected.
const DefaultTracerName = "vdiff"

// DefaultNodeBuckets are histogram buckets for nodes_visited.
var DefaultNodeBuckets = prometheus.ExponentialBuckets(8, 4, 8)

// Config configures a Differ.
type Config struct {
	// Namespace is the metric namespace (default: "vdiff").
	Namespace string

	// Subsystem is the metric subsystem (default: "").
	Subsystem string

	// ConstLabels are added to every metric.
	ConstLabels prometheus.Labels

	// Buckets are the duration histogram buckets (default: prometheus.DefBuckets).
	Buckets []float64

	// NodeBuckets are the nodes_visited histogram buckets.
	NodeBuckets []float64

	// Registry is where metrics are registered (default: prometheus.DefaultRegisterer).
	Registry prometheus.Registerer

	// TracerName names the tracer resolved from the global provider.
	TracerName string

	// Tracer overrides the global tracer.
	Tracer trace.Tracer
}

// Option configures a Differ.
type Option func(*Config)

// WithNamespace sets the metric namespace.
func WithNamespace(ns string) Option {
	return func(c *Config) {
		c.Namespace = ns
	}
}

// WithSubsystem sets the metric subsystem.
func WithSubsystem(sub string) Option {
	return func(c *Config) {
		c.Subsystem = sub
	}
}

// WithConstLabels sets labels added to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the diff duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithNodeBuckets sets the nodes_visited histogram buckets.
func WithNodeBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.NodeBuckets = buckets
	}
}

// WithRegistry sets the registerer metrics are registered with.
// Pass nil to skip registration.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = reg
	}
}

// WithTracerName sets the name of the tracer taken from the global provider.
func WithTracerName(name string) Option {
	return func(c *Config) {
		c.TracerName = name
	}
}

// WithTracer injects a tracer.
func WithTracer(t trace.Tracer) Option {
	return func(c *Config) {
		c.Tracer = t
	}
}

func defaultConfig() Config {
	return Config{
		Namespace:   "vdiff",
		Buckets:     prometheus.DefBuckets,
		NodeBuckets: DefaultNodeBuckets,
		Registry:    prometheus.DefaultRegisterer,
		TracerName:  DefaultTracerName,
	}
}

// Differ computes diffs and records metrics and spans for each one.
// It is safe for concurrent use.
type Differ struct {
	diffsTotal   prometheus.Counter
	patchesTotal *prometheus.CounterVec
	duration     prometheus.Histogram
	nodesVisited prometheus.Histogram
	tracer       trace.Tracer
}

// NewDiffer creates a Differ and registers its metrics. Registering two
// Differs with the same namespace and subsystem on one registry panics, as
// with promauto.
func NewDiffer(opts ...Option) *Differ {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)
	d := &Differ{
		diffsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diffs_total",
			Help:        "Total number of tree diffs computed",
			ConstLabels: config.ConstLabels,
		}),
		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patches emitted, by op",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "diff_duration_seconds",
			Help:        "Time spent computing a tree diff",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		nodesVisited: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_visited",
			Help:        "Nodes in the old and new trees of a diff",
			ConstLabels: config.ConstLabels,
			Buckets:     config.NodeBuckets,
		}),
		tracer: config.Tracer,
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(config.TracerName)
	}
	return d
}

// Diff computes the patch list turning prev into next.
func (d *Differ) Diff(ctx context.Context, prev, next *vdom.VNode) []vdom.Patch {
	oldNodes, newNodes := vdom.Count(prev), vdom.Count(next)

	_, span := d.tracer.Start(ctx, "vdom.Diff",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("vdiff.old_nodes", oldNodes),
			attribute.Int("vdiff.new_nodes", newNodes),
		),
	)
	defer span.End()

	start := time.Now()
	patches := vdom.Diff(prev, next)
	d.duration.Observe(time.Since(start).Seconds())

	d.diffsTotal.Inc()
	d.nodesVisited.Observe(float64(oldNodes + newNodes))
	for _, p := range patches {
		d.patchesTotal.WithLabelValues(p.Op.String()).Inc()
	}

	span.SetAttributes(attribute.Int("vdiff.patches", len(patches)))
	return patches
}
