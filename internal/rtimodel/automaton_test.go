package rtimodel

import (
	"strings"
	"testing"

	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

func buildTestAutomaton(t *testing.T, input string) *Automaton {
	t.Helper()
	c, err := timedcorpus.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewAutomaton(c, ChiSquared, 0.05)
}

func TestNewAutomatonHasSingleColoredRoot(t *testing.T) {
	a := buildTestAutomaton(t, "2 2\n2 a 1 b 3\n2 a 2 b 4\n")
	if a.NumStates() != 1 {
		t.Fatalf("expected exactly the root colored, got %d", a.NumStates())
	}
	if a.Root() != a.GetState(0) {
		t.Fatal("expected root to be colored state 0")
	}
}

func TestAddDelContainsState(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	s := newState(a.ctx)

	if a.ContainsState(s) {
		t.Fatal("expected new state not yet contained")
	}
	a.AddState(s)
	if !a.ContainsState(s) {
		t.Fatal("expected state contained after AddState")
	}
	if a.GetNumber(s) != 1 {
		t.Fatalf("expected number 1, got %d", a.GetNumber(s))
	}

	a.DelState(s)
	if a.ContainsState(s) {
		t.Fatal("expected state removed after DelState")
	}
	if a.GetNumber(s) != -1 {
		t.Fatalf("expected -1 after removal, got %d", a.GetNumber(s))
	}
}

func TestGetStateOutOfRange(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	if a.GetState(5) != nil {
		t.Fatal("expected nil for an out-of-range state number")
	}
	if a.GetState(-1) != nil {
		t.Fatal("expected nil for a negative state number")
	}
}

func TestGarbageAutomatonSelfLoops(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	a.GarbageAutomaton()
	root := a.GetState(0)
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		if root.GetTarget(symbol, 0) != root {
			t.Fatalf("expected root to self-loop on symbol %d", symbol)
		}
	}
}

func TestTreeAutomatonColorsEveryReachableState(t *testing.T) {
	a := buildTestAutomaton(t, "2 1\n2 a 1 a 2\n1 a 3\n")
	before := a.TotalNumStates()

	a.TreeAutomaton()

	if a.NumStates() != before+1 {
		t.Fatalf("expected colored list to grow by exactly one (the garbage state), got before=%d after=%d", before, a.NumStates())
	}
	garbage := a.GetState(a.NumStates() - 1)
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		if garbage.GetTarget(symbol, 0) != garbage {
			t.Fatalf("expected garbage state to self-loop on symbol %d", symbol)
		}
	}
}

func TestGetSizeCollapsesEqualTargetRuns(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	root := a.GetState(0)
	// A single unsplit interval per symbol collapses to exactly MaxSymbol
	// transitions, regardless of how many tails it holds.
	if got := a.GetSize(); got != a.ctx.MaxSymbol {
		t.Fatalf("expected %d, got %d", a.ctx.MaxSymbol, got)
	}
	_ = root
}

func TestToStrProducesOneLinePerTransition(t *testing.T) {
	a := buildTestAutomaton(t, "2 2\n2 a 1 b 3\n2 a 2 b 4\n")
	a.TreeAutomaton()

	out := a.ToStr()
	if out == "" {
		t.Fatal("expected non-empty transition dump")
	}
	if !strings.Contains(out, "->") {
		t.Fatalf("expected transition arrows in output, got %q", out)
	}
}

func TestToStrFullIncludesCounts(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	out := a.ToStrFull()
	if !strings.Contains(out, "prob: symbol=") {
		t.Fatalf("expected symbol counts header, got %q", out)
	}
}

func TestFromFileRejectsAlreadyColoredAutomaton(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	a.TreeAutomaton()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when FromFile is called on an already-colored automaton")
		}
	}()
	a.FromFile(strings.NewReader(""))
}

func TestFromFileRoundTripsASimpleDump(t *testing.T) {
	a := buildTestAutomaton(t, "1 1\n1 a 1\n")
	dump := "0 a [0, 5]->1 #3 p=1\n"

	a.FromFile(strings.NewReader(dump))

	root := a.GetState(0)
	target := root.GetTarget(0, 0)
	if target == nil {
		t.Fatal("expected a target assigned from the dump")
	}
	if a.GetNumber(target) != 1 {
		t.Fatalf("expected target numbered 1, got %d", a.GetNumber(target))
	}
}
