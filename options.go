package ffp

import (
	"github.com/gogpu/ffp/cache"
	"github.com/gogpu/ffp/compiler"
	"github.com/gogpu/ffp/device"
	"github.com/gogpu/ffp/regbank"
	"github.com/gogpu/ffp/settings"
)

// SessionOption configures a Session during creation.
//
// Example:
//
//	// Defaults: in-memory device mirror, ARB and WGSL compilers
//	s := ffp.NewSession()
//
//	// Driver-owned mirror and a larger variant cache
//	s := ffp.NewSession(ffp.WithMirror(drv), ffp.WithCapacity(500))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	capacity    int
	compiler    compiler.Service
	mirror      device.Mirror
	equal       cache.Equality[settings.PipelineSettings]
	checksum    cache.Checksum[settings.PipelineSettings]
	bankSize    int
	memoEntries int
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		capacity: cache.DefaultCapacity,
		compiler: nil, // compiler.Default(bankSize) if nil
		mirror:   nil, // device.NewMemory() if nil
		equal:    settings.Equal,
		checksum: settings.Checksum,
		bankSize: regbank.DefaultSize,
	}
}

// WithCapacity sets the number of variants each of the vertex and
// fragment caches holds before it is cleared. Values <= 0 select
// cache.DefaultCapacity.
func WithCapacity(n int) SessionOption {
	return func(o *sessionOptions) {
		o.capacity = n
	}
}

// WithCompiler sets the service that compiles generated and caller
// programs. WithBankSize has no effect on a custom service.
func WithCompiler(c compiler.Service) SessionOption {
	return func(o *sessionOptions) {
		o.compiler = c
	}
}

// WithMirror sets the device state the session's PipelineState syncs into
// and binding resolution reads from.
func WithMirror(m device.Mirror) SessionOption {
	return func(o *sessionOptions) {
		o.mirror = m
	}
}

// WithEquality sets the function deciding whether two settings share a
// cached variant. Use settings.LegacyEqual to reproduce the legacy cache
// comparison.
func WithEquality(eq func(a, b *settings.PipelineSettings) bool) SessionOption {
	return func(o *sessionOptions) {
		o.equal = eq
	}
}

// WithChecksum sets the function bucketing settings in the variant caches.
// The checksum affects lookup speed only.
func WithChecksum(sum func(*settings.PipelineSettings) uint32) SessionOption {
	return func(o *sessionOptions) {
		o.checksum = sum
	}
}

// WithBankSize sets the parameter register count of the default compiler.
func WithBankSize(n int) SessionOption {
	return func(o *sessionOptions) {
		o.bankSize = n
	}
}

// WithCompileMemo keeps up to n compile results keyed by source text, so
// variants evicted by a cache clear are rebuilt without recompiling.
func WithCompileMemo(n int) SessionOption {
	return func(o *sessionOptions) {
		o.memoEntries = n
	}
}
