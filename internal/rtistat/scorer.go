package rtistat

import "math"

// #region chi2-value
// chi2Value computes one 2-category chi-squared contribution for counts
// (first, second) drawn from samples of size (total1, total2). Yates
// continuity correction (|observed-expected| - 0.5) is applied to both
// terms whenever either count falls below minData; the corrected
// difference is allowed to go negative before squaring.
func chi2Value(first, second, total1, total2, minData int) float64 {
	total := total1 + total2
	sum := first + second
	if total == 0 || sum == 0 {
		return 0
	}
	expected1 := float64(total1) * float64(sum) / float64(total)
	expected2 := float64(total2) * float64(sum) / float64(total)

	d1 := math.Abs(float64(first) - expected1)
	d2 := math.Abs(float64(second) - expected2)
	if first < minData || second < minData {
		d1 -= 0.5
		d2 -= 0.5
	}

	var contribution float64
	if expected1 > 0 {
		contribution += d1 * d1 / expected1
	}
	if expected2 > 0 {
		contribution += d2 * d2 / expected2
	}
	return contribution
}

// #endregion chi2-value

// #region chi2-score
// chi2Score runs the pooled chi-squared test across a fixed number of
// categories, comparing firstCounts/totalFirst against
// secondCounts/totalSecond. Categories where both sides fall below minData
// are pooled in a first pass; when BOTH pooled sides are still below
// minData, the pool is discarded entirely and subtracted out of
// totalFirst/totalSecond before the second, scoring pass runs against the
// reduced totals, so a discarded category's counts cannot keep inflating
// the expected-value denominator for the categories that remain. This AND
// pooling guard is deliberately not shared with the likelihood-ratio
// variant below, which pools on OR instead (see likelihoodRatio); the two
// tests are intentionally allowed to diverge on which categories they
// treat as well-supported. Returns (chi2, degreesOfFreedom, ok); ok is
// false whenever either sample total is below minData or fewer than two
// categories (counting a scored pool) survive, i.e. dof < 1.
func chi2Score(firstCounts, secondCounts []int, totalFirst, totalSecond, minData int) (chi2, dof float64, ok bool) {
	if totalFirst < minData || totalSecond < minData {
		return 0, 0, false
	}

	oldPool, newPool := 0, 0
	for i := range firstCounts {
		fi, si := firstCounts[i], secondCounts[i]
		if fi < minData && si < minData {
			oldPool += fi
			newPool += si
		}
	}

	if oldPool < minData && newPool < minData {
		totalFirst -= oldPool
		totalSecond -= newPool
		oldPool, newPool = 0, 0
	}

	dof = -1.0
	for i := range firstCounts {
		fi, si := firstCounts[i], secondCounts[i]
		if fi < minData && si < minData {
			continue
		}
		chi2 += chi2Value(fi, si, totalFirst, totalSecond, minData)
		dof++
	}

	if oldPool > minData || newPool > minData {
		chi2 += chi2Value(oldPool, newPool, totalFirst, totalSecond, minData)
		dof++
	}

	if dof < 1.0 {
		return 0, 0, false
	}
	return chi2, dof, true
}

func finishChi2(acc *Accumulator, chi2Val, dof float64, ok bool, params Params) (float64, bool) {
	if !ok {
		return -1, false
	}
	p := ChiSquaredUpperTail(chi2Val, dof)
	if p < params.MinPValue {
		p = params.MinPValue
	}
	acc.AddConsensus(p)
	return p, true
}

// Chi2Symbols scores a candidate merge of old into new over the symbol
// distribution, folding the result into acc's Fisher consensus.
func Chi2Symbols(acc *Accumulator, old, new Scorable, params Params) (float64, bool) {
	chi2, dof, ok := chi2Score(old.SymbolCounts(), new.SymbolCounts(), old.TotalCounts(), new.TotalCounts(), params.MinData)
	return finishChi2(acc, chi2, dof, ok, params)
}

// Chi2Time scores a candidate merge over the time-bin histogram.
func Chi2Time(acc *Accumulator, old, new Scorable, params Params) (float64, bool) {
	chi2, dof, ok := chi2Score(old.TimeCounts(), new.TimeCounts(), old.TotalCounts(), new.TotalCounts(), params.MinData)
	return finishChi2(acc, chi2, dof, ok, params)
}

// Chi2SymbolsSplit scores a candidate split of state, comparing its
// settled symbol counts against the symbols marked for the candidate new
// side.
func Chi2SymbolsSplit(acc *Accumulator, state Scorable, params Params) (float64, bool) {
	chi2, dof, ok := chi2Score(state.SymbolCounts(), state.SymbolMarks(), state.TotalCounts(), state.TotalMarks(), params.MinData)
	return finishChi2(acc, chi2, dof, ok, params)
}

// Chi2TimeSplit scores a candidate split over the time-bin histogram.
func Chi2TimeSplit(acc *Accumulator, state Scorable, params Params) (float64, bool) {
	chi2, dof, ok := chi2Score(state.TimeCounts(), state.TimeMarks(), state.TotalCounts(), state.TotalMarks(), params.MinData)
	return finishChi2(acc, chi2, dof, ok, params)
}

// #endregion chi2-score

// #region likelihood-ratio
// likelihoodRatio computes the pooled log-likelihood-ratio statistic and
// its parameter (degrees of freedom) count for firstCounts/totalFirst vs
// secondCounts/totalSecond. Its pooling guard uses OR, not AND. See the
// note on chi2Score above; this divergence is intentional and preserved.
// As in chi2Score, a discarded pool is subtracted out of
// totalFirst/totalSecond before the surviving categories are scored
// against the reduced totals.
func likelihoodRatio(firstCounts, secondCounts []int, totalFirst, totalSecond, minData int) (ratio float64, parameters int, ok bool) {
	if totalFirst < minData || totalSecond < minData {
		return 0, 0, false
	}

	oldPool, newPool := 0, 0
	for i := range firstCounts {
		fi, si := firstCounts[i], secondCounts[i]
		if fi < minData && si < minData {
			oldPool += fi
			newPool += si
		}
	}

	if oldPool < minData || newPool < minData {
		totalFirst -= oldPool
		totalSecond -= newPool
		oldPool, newPool = 0, 0
	}

	addTerm := func(fi, si int) {
		top := (float64(fi) + float64(si)) / (float64(totalFirst) + float64(totalSecond))
		bottom1 := 1.0
		if fi != 0 {
			bottom1 = float64(fi) / float64(totalFirst)
		}
		bottom2 := 1.0
		if si != 0 {
			bottom2 = float64(si) / float64(totalSecond)
		}
		if top > 0 {
			if fi != 0 {
				ratio += float64(fi) * math.Log(top)
			}
			if si != 0 {
				ratio += float64(si) * math.Log(top)
			}
		}
		if fi != 0 {
			ratio -= float64(fi) * math.Log(bottom1)
		}
		if si != 0 {
			ratio -= float64(si) * math.Log(bottom2)
		}
	}

	for i := range firstCounts {
		fi, si := firstCounts[i], secondCounts[i]
		if fi < minData && si < minData {
			continue
		}
		addTerm(fi, si)
		parameters++
	}

	if oldPool > minData || newPool > minData {
		addTerm(oldPool, newPool)
		parameters++
	}

	if parameters == 0 {
		return 0, 0, false
	}
	return ratio, parameters, true
}

func finishLikelihood(acc *Accumulator, ratio float64, parameters int, ok bool) (int, float64) {
	if !ok {
		return 0, 0
	}
	acc.AddLikelihood(ratio, parameters)
	return parameters, ratio
}

// LikelihoodSymbols scores a candidate merge of old into new over the
// symbol distribution.
func LikelihoodSymbols(acc *Accumulator, old, new Scorable, params Params) (int, float64) {
	ratio, parameters, ok := likelihoodRatio(old.SymbolCounts(), new.SymbolCounts(), old.TotalCounts(), new.TotalCounts(), params.MinData)
	return finishLikelihood(acc, ratio, parameters, ok)
}

// LikelihoodTime scores a candidate merge over the time-bin histogram.
func LikelihoodTime(acc *Accumulator, old, new Scorable, params Params) (int, float64) {
	ratio, parameters, ok := likelihoodRatio(old.TimeCounts(), new.TimeCounts(), old.TotalCounts(), new.TotalCounts(), params.MinData)
	return finishLikelihood(acc, ratio, parameters, ok)
}

// LikelihoodSymbolsSplit scores a candidate split of state over the
// symbol distribution.
func LikelihoodSymbolsSplit(acc *Accumulator, state Scorable, params Params) (int, float64) {
	ratio, parameters, ok := likelihoodRatio(state.SymbolCounts(), state.SymbolMarks(), state.TotalCounts(), state.TotalMarks(), params.MinData)
	return finishLikelihood(acc, ratio, parameters, ok)
}

// LikelihoodTimeSplit scores a candidate split over the time-bin
// histogram.
func LikelihoodTimeSplit(acc *Accumulator, state Scorable, params Params) (int, float64) {
	ratio, parameters, ok := likelihoodRatio(state.TimeCounts(), state.TimeMarks(), state.TotalCounts(), state.TotalMarks(), params.MinData)
	return finishLikelihood(acc, ratio, parameters, ok)
}

// #endregion likelihood-ratio
