// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

// Config carries the knobs a Hashgraph instance actually takes. The
// super-majority threshold is derived from the participant count unless
// SuperMajorityOverride is set.
type Config struct {
	// CacheSize is the capacity shared by all five-plus-one predicate
	// caches.
	CacheSize int
	// SuperMajorityOverride, when non-zero, replaces the derived
	// 2N/3+1 threshold. Exists only for test harnesses exercising
	// degenerate thresholds; production callers leave it at 0.
	SuperMajorityOverride int
}

// DefaultConfig returns the configuration used when a caller does not
// need to tune anything: a modestly sized cache, no threshold override.
func DefaultConfig() Config {
	return Config{
		CacheSize:             500,
		SuperMajorityOverride: 0,
	}
}

// Builder is a fluent constructor for Config, mirroring the teacher's
// own Builder-over-Parameters convention.
type Builder struct {
	cfg Config
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithCacheSize sets the predicate-cache capacity.
func (b *Builder) WithCacheSize(size int) *Builder {
	b.cfg.CacheSize = size
	return b
}

// WithSuperMajorityOverride sets an explicit super-majority threshold.
func (b *Builder) WithSuperMajorityOverride(threshold int) *Builder {
	b.cfg.SuperMajorityOverride = threshold
	return b
}

// Build returns the assembled Config.
func (b *Builder) Build() Config {
	return b.cfg
}
