// Package parallel fans independent per-sample work out across goroutines.
//
// It is used by the dataset adapter to decode samples; training itself is
// strictly sequential and never runs through this package.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Config controls how For splits work.
type Config struct {
	Enabled      bool // Whether to use more than one goroutine.
	Workers      int  // Upper bound on concurrent goroutines.
	MinChunkSize int  // Minimum items per goroutine.
}

// DefaultConfig uses one worker per physical core.
//
// The physical core count comes from CPUID; when it is unavailable the
// logical CPU count reported by the runtime is used instead.
func DefaultConfig() Config {
	n := Cores()
	return Config{
		Enabled:      n > 1,
		Workers:      n,
		MinChunkSize: 256,
	}
}

// Cores returns the number of cores available for decoding work.
func Cores() int {
	logical := runtime.NumCPU()
	if physical := cpuid.CPU.PhysicalCores; physical > 0 && physical < logical {
		return physical
	}
	return logical
}

// For executes f(i) for i in [0, n).
//
// Work is split into contiguous chunks of at least MinChunkSize items, one
// goroutine per chunk, at most Workers chunks. f must be safe to call
// concurrently for distinct i. Falls back to a plain loop when parallelism
// is disabled or n is below MinChunkSize.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.Workers <= 1 || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	chunk := max((n+cfg.Workers-1)/cfg.Workers, cfg.MinChunkSize, 1)

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
