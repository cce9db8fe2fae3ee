package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys. Values must stay low cardinality.
const (
	ProfilingLabelRoute        = "route"
	ProfilingLabelMethod       = "method"
	ProfilingLabelController   = "controller"
	ProfilingLabelOperation    = "operation"
	ProfilingLabelExportFormat = "export_format"
)

// MaxLabelValueLength caps label values.
const MaxLabelValueLength = 128

// WithProfilingLabels runs fn with the given pprof labels attached to ctx.
// Empty values are dropped and long values are truncated.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// labelPairs flattens labels into sorted key/value pairs.
func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > MaxLabelValueLength {
			v = v[:MaxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
