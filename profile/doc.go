// Package profile provides optional runtime profiling for the ysx
// application.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] to provide runtime
// profiling capabilities with conditional compilation support. Profiling is
// optional and must be enabled at build time using the "pprof" build tag.
//
// When built with profiling disabled (default), all operations are no-ops
// with zero runtime overhead.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list of supported modes programmatically.
//
// # Usage
//
// The profiler is configured with functional options on [Config] and
// started with [Config.Start]:
//
//	ctrl := profile.Config(func() (string, string, bool) {
//		return "cpu", "/tmp/profiles", false
//	}).Start()
//	defer ctrl.Stop()
//
// Profile files are written to the configured directory with names matching
// the profiling mode (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
// The ysx command exposes profiling through command-line flags when built
// with the pprof tag:
//
//	# Enable CPU profiling (writes to default cache directory)
//	ysx --pprof-mode cpu convert config.yaml
//
//	# Enable heap profiling with custom output directory
//	ysx --pprof-mode heap --pprof-dir ./profiles convert config.yaml
//
// The default output directory is:
//
//	$XDG_CACHE_HOME/ysx/pprof   (Linux/Unix)
//	~/Library/Caches/ysx/pprof  (macOS)
//	%LocalAppData%\ysx\pprof    (Windows)
//
// # Analyzing Profile Data
//
// Use the go tool pprof command to analyze profile data:
//
//	# Analyze a CPU profile
//	go tool pprof ./ysx /tmp/profiles/cpu.pprof
//
//	# Open web UI with flame graphs
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
//	# Compare two profiles
//	go tool pprof -base=old.pprof new.pprof
//
// # Performance Overhead
//
//   - CPU profiling: ~5% overhead
//   - Heap profiling: minimal overhead (sampled)
//   - Block/mutex profiling: can add significant overhead at high rates
//   - Trace profiling: high overhead, use for short durations only
//
// Adjust sampling rates using [runtime.SetBlockProfileRate],
// [runtime.SetMutexProfileFraction], and [runtime.MemProfileRate].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
