// SPDX-License-Identifier: MIT

// Functional options shared by every engine. Invalid values panic in the
// WithX constructor: they are programming errors, not runtime input.

package decomp

import (
	"io"
	"log/slog"
	"math"
)

const (
	// DefaultSingularityThreshold of 0 selects the relative policy
	// max(m,n)·ε·scale (see package doc).
	DefaultSingularityThreshold = 0.0

	// DefaultMaxSweeps bounds the one-sided Jacobi SVD. Convergence is
	// quadratic; well-scaled inputs settle in well under 20 sweeps.
	DefaultMaxSweeps = 64
)

// Option mutates Options during construction.
type Option func(*Options)

// Options holds engine configuration. Fields are unexported; use WithX.
type Options struct {
	threshold float64      // absolute singularity threshold; 0 = relative policy
	maxSweeps int          // Jacobi sweep budget (SVD only)
	logger    *slog.Logger // never nil after gatherOptions
}

// WithSingularityThreshold sets an absolute threshold t: pivots, R diagonal
// entries and singular values with magnitude ≤ t count as zero.
// Panics if t is negative, NaN or ±Inf. t == 0 restores the relative policy.
func WithSingularityThreshold(t float64) Option {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		panic("decomp: WithSingularityThreshold requires a finite t >= 0")
	}

	return func(o *Options) { o.threshold = t }
}

// WithRelativeThreshold restores the default relative singularity policy.
func WithRelativeThreshold() Option {
	return func(o *Options) { o.threshold = DefaultSingularityThreshold }
}

// WithMaxSweeps bounds the number of Jacobi sweeps of the SVD engine.
// Panics if n <= 0. Ignored by LU and QR.
func WithMaxSweeps(n int) Option {
	if n <= 0 {
		panic("decomp: WithMaxSweeps requires n > 0")
	}

	return func(o *Options) { o.maxSweeps = n }
}

// WithLogger routes Debug records about each decomposition to l.
// A nil logger silences output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = discardLogger()
		}
		o.logger = l
	}
}

// defaultOptions returns the documented defaults.
func defaultOptions() Options {
	return Options{
		threshold: DefaultSingularityThreshold,
		maxSweeps: DefaultMaxSweeps,
		logger:    discardLogger(),
	}
}

// gatherOptions applies defaults, then user options in order (last wins).
// nil options are skipped.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, fn := range user {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
