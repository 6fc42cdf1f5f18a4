package rtistat

import "gonum.org/v1/gonum/stat/distuv"

// #region chisq
// ChiSquaredUpperTail computes P(X > x) for X ~ chi-squared(dof), the
// regularized upper incomplete gamma function Q(dof/2, x/2). gonum's
// distuv.ChiSquared.Survival is exactly this quantity, so it replaces the
// hand-rolled continued-fraction/series pair this package used to carry.
func ChiSquaredUpperTail(x, dof float64) float64 {
	if x <= 0 {
		return 1
	}
	if dof <= 0 {
		return 1
	}
	return distuv.ChiSquared{K: dof}.Survival(x)
}

// #endregion chisq
