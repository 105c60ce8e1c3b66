package resample

import (
	"github.com/YuminosukeSato/eslgo/pkg/log"
)

const (
	// DefaultReplicates is the bootstrap count B when none is given.
	DefaultReplicates = 200
	// DefaultSeed makes unseeded runs reproducible.
	DefaultSeed uint64 = 1
)

type config struct {
	seed       uint64
	workers    int
	replicates int
	logger     log.Logger
}

func newConfig(opts []Option) *config {
	c := &config{
		seed:       DefaultSeed,
		replicates: DefaultReplicates,
		logger:     log.GetLoggerWithName("resample"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a resampling run.
type Option func(*config)

// WithSeed sets the base seed. Replicate i draws from PCG(seed, i).
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// WithWorkers sets the worker-pool size; below one means one per CPU core.
// Fit functions run concurrently when the pool has more than one worker.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithReplicates sets the bootstrap count B.
func WithReplicates(b int) Option {
	return func(c *config) { c.replicates = b }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}
