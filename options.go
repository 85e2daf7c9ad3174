package spatialindex

import "go.uber.org/zap"

// An Option configures an Index created with New.
type Option func(*Index)

// WithCapacity sets how many entities a leaf holds before it splits. Values
// below 1 are ignored.
func WithCapacity(n int) Option {
	return func(t *Index) {
		if n >= 1 {
			t.capacity = n
		}
	}
}

// WithMaxDepth sets the depth at which regions stop splitting. Negative values
// are ignored. A max depth of 0 keeps the whole index in a single leaf.
func WithMaxDepth(n int) Option {
	return func(t *Index) {
		if n >= 0 {
			t.maxDepth = n
		}
	}
}

// WithMetric replaces the default planar metric.
func WithMetric(m Metric) Option {
	return func(t *Index) {
		if m != nil {
			t.metric = m
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(t *Index) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithName labels the metrics and logs of the index. Indexes that share a
// name, including every index left at the default name, report into the same
// metric series, so give each long-lived index a unique name.
func WithName(name string) Option {
	return func(t *Index) {
		if name != "" {
			t.name = name
		}
	}
}
