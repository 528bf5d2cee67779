package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// PartyTTL is refreshed on every write so stale entries age out even
	// if a crashed instance never ran explicit cleanup. It must comfortably
	// exceed the inactivity sweep timeout.
	PartyTTL time.Duration

	// IndexTTL applies to the player and connection mapping keys
	IndexTTL time.Duration

	// OpTimeout bounds each storage round-trip so a slow backend cannot
	// wedge a party's event handling
	OpTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		PartyTTL:     time.Hour,
		IndexTTL:     time.Hour,
		OpTimeout:    5 * time.Second,
	}
}
