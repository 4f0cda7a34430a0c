package kmedgo

import "log/slog"

type options struct {
	maxIter int
	tol     float64
	seed    int64
	init    Initializer
	logger  *Logger
	metrics MetricsCollector
}

// Option configures fit behavior.
type Option func(*options)

// WithMaxIter sets the iteration budget for a single fit.
// Defaults to 300.
func WithMaxIter(maxIter int) Option {
	return func(o *options) {
		o.maxIter = maxIter
	}
}

// WithTol sets the convergence tolerance: the fit stops at the first
// iteration whose inertia (sum of squared center displacement) is at
// most tol. A negative value disables the early stop so the fit always
// runs the full iteration budget. Defaults to 1e-4.
func WithTol(tol float64) Option {
	return func(o *options) {
		o.tol = tol
	}
}

// WithSeed sets the seed for center initialization and empty-cluster
// reseeding. Random draws are performed on rank 0 and broadcast, so a
// fixed seed makes fits reproducible. Defaults to 1.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithInit sets the center initialization strategy.
// Defaults to InitRandom().
func WithInit(init Initializer) Option {
	return func(o *options) {
		if init != nil {
			o.init = init
		}
	}
}

// WithLogger configures structured logging for fit operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxIter: 300,
		tol:     1e-4,
		seed:    1,
		init:    InitRandom(),
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
