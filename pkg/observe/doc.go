// Package observe instruments tree diffing with Prometheus metrics and
// OpenTelemetry spans.
//
// A Differ wraps vdom.Diff. Each call records:
//
//   - diffs_total: number of diffs computed
//   - patches_total{op}: patches emitted, by op
//   - diff_duration_seconds: wall time per diff
//   - nodes_visited: nodes in the old and new trees combined
//
// and runs inside a "vdom.Diff" span carrying vdiff.patches, vdiff.old_nodes
// and vdiff.new_nodes attributes.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	d := observe.NewDiffer(
//	    observe.WithNamespace("myapp"),
//	    observe.WithRegistry(reg),
//	)
//	patches := d.Diff(ctx, prev, next)
//
// The tracer comes from the global OpenTelemetry provider unless WithTracer
// is given, so spans are no-ops until a provider is installed.
package observe
