package rtimodel

import "github.com/adaptive-rti/rti-go/internal/timedcorpus"

// #region state-stats
// stateStats tracks per-symbol and per-time-bin tail counts for one state,
// split into "counts" (settled) and "marks" (provisionally counted during
// a candidate-split scoring pass).
type stateStats struct {
	ctx *LearningContext

	totalCounts  int
	symbolCounts []int
	timeCounts   []int

	totalMarks  int
	symbolMarks []int
	timeMarks   []int
}

func newStateStats(ctx *LearningContext) *stateStats {
	return &stateStats{
		ctx:          ctx,
		symbolCounts: make([]int, ctx.MaxSymbol),
		timeCounts:   make([]int, ctx.NumHistogramBars),
		symbolMarks:  make([]int, ctx.MaxSymbol),
		timeMarks:    make([]int, ctx.NumHistogramBars),
	}
}

func (s *stateStats) AddCount(tail *timedcorpus.Tail) {
	sym := tail.Symbol()
	bar := s.ctx.GetBar(tail.TimeValue())
	s.symbolCounts[sym]++
	s.timeCounts[bar]++
	s.totalCounts++
}

func (s *stateStats) DelCount(tail *timedcorpus.Tail) {
	sym := tail.Symbol()
	bar := s.ctx.GetBar(tail.TimeValue())
	s.symbolCounts[sym]--
	s.timeCounts[bar]--
	s.totalCounts--
}

func (s *stateStats) Mark(tail *timedcorpus.Tail) {
	sym := tail.Symbol()
	bar := s.ctx.GetBar(tail.TimeValue())
	s.symbolCounts[sym]--
	s.symbolMarks[sym]++
	s.timeCounts[bar]--
	s.timeMarks[bar]++
	s.totalCounts--
	s.totalMarks++
}

func (s *stateStats) UnMark(tail *timedcorpus.Tail) {
	sym := tail.Symbol()
	bar := s.ctx.GetBar(tail.TimeValue())
	s.symbolCounts[sym]++
	s.symbolMarks[sym]--
	s.timeCounts[bar]++
	s.timeMarks[bar]--
	s.totalCounts++
	s.totalMarks--
}

// GetProbability is the naive independence-assumption symbol*time estimate
// used by AIC scoring.
func (s *stateStats) GetProbability(symbol, time int) float64 {
	if s.totalCounts == 0 {
		return 0
	}
	bar := s.ctx.GetBar(time)
	return (float64(s.symbolCounts[symbol]) * float64(s.timeCounts[bar])) /
		(float64(s.totalCounts) * float64(s.totalCounts))
}

// GetProbabilityTime is a Laplace-smoothed blend of symbol and time-bin
// frequency.
func (s *stateStats) GetProbabilityTime(symbol, time int) float64 {
	bar := s.ctx.GetBar(time)
	count := (float64(s.totalCounts) / 1000.0) + float64(s.symbolCounts[symbol])
	timec := (float64(s.totalCounts) / 1000.0) + float64(s.timeCounts[bar])
	additionalCount := (float64(s.totalCounts) / 1000.0) * float64(s.ctx.MaxSymbol)
	additionalTime := (float64(s.totalCounts) / 1000.0) * float64(s.ctx.NumHistogramBars)
	return (count * timec) / ((float64(s.totalCounts) + additionalCount) * (float64(s.totalCounts) + additionalTime))
}

func (s *stateStats) ClearMarks() {
	s.totalMarks = 0
	for i := range s.symbolCounts {
		s.symbolCounts[i] += s.symbolMarks[i]
		s.symbolMarks[i] = 0
	}
	for j := range s.timeCounts {
		s.timeCounts[j] += s.timeMarks[j]
		s.timeMarks[j] = 0
	}
}

func (s *stateStats) TotalCounts() int { return s.totalCounts }
func (s *stateStats) TotalMarks() int  { return s.totalMarks }

// SymbolCounts, TimeCounts, SymbolMarks, TimeMarks, TotalCounts and
// TotalMarks satisfy the rtistat.Scorable interface structurally, avoiding
// an import cycle between this package and the package that scores it.
func (s *stateStats) SymbolCounts() []int { return s.symbolCounts }
func (s *stateStats) TimeCounts() []int   { return s.timeCounts }
func (s *stateStats) SymbolMarks() []int  { return s.symbolMarks }
func (s *stateStats) TimeMarks() []int    { return s.timeMarks }

// #endregion state-stats
