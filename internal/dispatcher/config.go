package dispatcher

import "time"

// Config holds dispatcher configuration options.
type Config struct {
	// AsyncDispatch enables asynchronous action dispatch via channels.
	AsyncDispatch bool

	// ActionBufferSize is the buffer size for the async action channel.
	// Only used when AsyncDispatch is true.
	ActionBufferSize int

	// EnableMetrics enables dispatch counters and latency tracking.
	EnableMetrics bool

	// RecoverFromPanic converts handler panics into error results.
	RecoverFromPanic bool

	// SlowActionThreshold is the latency above which an action is reported
	// as slow. Zero disables slow-action reports.
	SlowActionThreshold time.Duration

	// MaxRepeatCount limits the count an action may repeat with.
	// Zero means no limit.
	MaxRepeatCount int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		AsyncDispatch:       false,
		ActionBufferSize:    64,
		EnableMetrics:       false,
		RecoverFromPanic:    true,
		SlowActionThreshold: 0,
		MaxRepeatCount:      1000,
	}
}

// WithAsyncDispatch returns a copy of the config with async dispatch enabled.
func (c Config) WithAsyncDispatch(bufferSize int) Config {
	c.AsyncDispatch = true
	if bufferSize > 0 {
		c.ActionBufferSize = bufferSize
	}
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithSlowActionThreshold returns a copy of the config with the slow-action
// threshold set.
func (c Config) WithSlowActionThreshold(threshold time.Duration) Config {
	c.SlowActionThreshold = threshold
	return c
}

// WithMaxRepeatCount returns a copy of the config with the max repeat count set.
func (c Config) WithMaxRepeatCount(max int) Config {
	c.MaxRepeatCount = max
	return c
}
