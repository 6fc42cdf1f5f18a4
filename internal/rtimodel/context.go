// Package rtimodel implements the refinement engine: states, their
// per-symbol interval partitions, reversible merge/split/point/undo
// operations, and the consistency invariants that bind them.
package rtimodel

import "github.com/adaptive-rti/rti-go/internal/timedcorpus"

// #region test-type
// TestType selects which statistical family scores merges and splits.
type TestType int

const (
	Likelihood TestType = iota
	ChiSquared
)

// #endregion test-type

// #region context
// LearningContext bundles the process-wide, read-only parameters a
// refinement run needs (the symbol/time domain bounds, the histogram IQR
// boundaries, the minimum-data threshold, the p-value clamps) so they
// thread explicitly through the call graph instead of living as mutable
// package state.
type LearningContext struct {
	MaxSymbol        int
	MinTime          int
	MaxTime          int
	NumHistogramBars int

	IQR25, IQR50, IQR75 int

	MinData      int
	MaxPValue    float64
	MinPValue    float64
	TestType     TestType
	Significance float64
}

// NewContext derives a LearningContext from a parsed corpus's statistics.
func NewContext(c *timedcorpus.Corpus, testType TestType, significance float64) *LearningContext {
	return &LearningContext{
		MaxSymbol:        c.MaxSymbol,
		MinTime:          0,
		MaxTime:          c.MaxTime,
		NumHistogramBars: 4,
		IQR25:            c.IQR25,
		IQR50:            c.IQR50,
		IQR75:            c.IQR75,
		MinData:          10,
		MaxPValue:        1 - 0.1e-100,
		MinPValue:        0.1e-100,
		TestType:         testType,
		Significance:     significance,
	}
}

// GetBar buckets a delay into one of NumHistogramBars time bins, using the
// corpus's interquartile boundaries.
func (ctx *LearningContext) GetBar(time int) int {
	switch {
	case time <= ctx.IQR25:
		return 0
	case time <= ctx.IQR50:
		return 1
	case time <= ctx.IQR75:
		return 2
	default:
		return 3
	}
}

// GetBeginTime returns the first delay value mapped to bar.
func (ctx *LearningContext) GetBeginTime(bar int) int {
	switch bar {
	case 0:
		return 0
	case 1:
		return ctx.IQR25 + 1
	case 2:
		return ctx.IQR50 + 1
	default:
		return ctx.IQR75 + 1
	}
}

// GetEndTime returns the last delay value mapped to bar — bar 3 (the last)
// is open-ended, represented by MaxTime+1 as its sentinel end.
func (ctx *LearningContext) GetEndTime(bar int) int {
	switch bar {
	case 0:
		return ctx.IQR25
	case 1:
		return ctx.IQR50
	case 2:
		return ctx.IQR75
	default:
		return ctx.MaxTime + 1
	}
}

// #endregion context
