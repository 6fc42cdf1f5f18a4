// Package search explores the space of point (merge), split, and color
// refinements of an automaton under construction, scoring each candidate
// with the statistical tests in rtistat and ranking by the AIC of the
// resulting model.
package search

import "github.com/adaptive-rti/rti-go/internal/rtimodel"

// #region refinement
// Kind identifies which of the three refinement operations a Refinement
// performs.
type Kind int

const (
	// Point repoints StateIdx's (Symbol, Time) interval onto the colored
	// state at TargetIdx.
	Point Kind = iota
	// Split divides StateIdx's (Symbol, Time) interval in two.
	Split
	// Color promotes the tree state currently reached from StateIdx on
	// (Symbol, Time) into the colored state list.
	Color
)

// Refinement is one candidate change to an automaton-under-construction:
// a point, a split, or a color, identified purely by the colored-state
// indices and (symbol, time) coordinates it acts on rather than by direct
// pointers, so a Refinement can be replayed against any Automaton sharing
// the same state numbering.
type Refinement struct {
	Kind      Kind
	StateIdx  int
	TargetIdx int
	Symbol    int
	Time      int
}

// Refine applies the refinement to ta.
func (r Refinement) Refine(ta *rtimodel.Automaton) {
	state := ta.GetState(r.StateIdx)
	switch r.Kind {
	case Point:
		state.Point(r.Symbol, r.Time, ta.GetState(r.TargetIdx))
	case Split:
		state.Split(r.Symbol, r.Time)
	case Color:
		ta.AddState(state.GetTarget(r.Symbol, r.Time))
	}
}

// UndoRefine reverses a prior Refine.
func (r Refinement) UndoRefine(ta *rtimodel.Automaton) {
	state := ta.GetState(r.StateIdx)
	switch r.Kind {
	case Point:
		state.UndoPoint(r.Symbol, r.Time, ta.GetState(r.TargetIdx))
	case Split:
		state.UndoSplit(r.Symbol, r.Time)
	case Color:
		ta.DelState(state.GetTarget(r.Symbol, r.Time))
	}
}

// ScoredRefinement pairs a Refinement with the p-value GetBestRefinements
// scored it at.
type ScoredRefinement struct {
	Score      float64
	Refinement Refinement
}

// #endregion refinement
