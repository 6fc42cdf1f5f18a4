package interval

import (
	"testing"

	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

type stubState struct{ name string }

func fakeTail(t int) *timedcorpus.Tail {
	w := &timedcorpus.Word{Symbols: []int{0, 0}, Times: []int{t, t}, Length: 1}
	return &timedcorpus.Tail{Word: w, Index: 0}
}

func TestNewIsUnsplit(t *testing.T) {
	p := New[*stubState](0, 100)
	if !p.IsUnsplit() {
		t.Fatal("expected freshly constructed partition to be unsplit")
	}
	if len(p.Intervals()) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(p.Intervals()))
	}
}

func TestLookupFallsBackToLast(t *testing.T) {
	p := New[*stubState](0, 10)
	p.Split(5)
	// two intervals now: [0,5] and [6,10]
	in := p.Lookup(9999)
	if in.End != 10 {
		t.Fatalf("expected rightmost interval as fallback, got end=%d", in.End)
	}
}

func TestSplitMovesTails(t *testing.T) {
	p := New[*stubState](0, 10)
	first := p.First()
	first.AddTail(fakeTail(2))
	first.AddTail(fakeTail(7))

	left, right := p.Split(5)
	if left.Tails.Len() != 1 {
		t.Fatalf("expected 1 tail moved to left interval, got %d", left.Tails.Len())
	}
	if right.Tails.Len() != 1 {
		t.Fatalf("expected 1 tail remaining in right interval, got %d", right.Tails.Len())
	}
	if left.Begin != 0 || left.End != 5 {
		t.Fatalf("unexpected left bounds: [%d,%d]", left.Begin, left.End)
	}
	if right.Begin != 6 || right.End != 10 {
		t.Fatalf("unexpected right bounds: [%d,%d]", right.Begin, right.End)
	}
}

func TestSplitUndoSplitRoundTrip(t *testing.T) {
	p := New[*stubState](0, 10)
	target := &stubState{name: "s1"}
	first := p.First()
	first.Target = target
	first.AddTail(fakeTail(2))
	first.AddTail(fakeTail(7))

	p.Split(5)
	if p.IsUnsplit() {
		t.Fatal("expected partition to be split")
	}

	p.UndoSplit(5)
	if !p.IsUnsplit() {
		t.Fatal("expected partition to return to unsplit after UndoSplit")
	}
	restored := p.First()
	if restored.Tails.Len() != 2 {
		t.Fatalf("expected both tails restored, got %d", restored.Tails.Len())
	}
	if restored.Target != target {
		t.Fatal("expected original target preserved across split/undo round trip")
	}
	if restored.Begin != 0 || restored.End != 10 {
		t.Fatalf("unexpected restored bounds: [%d,%d]", restored.Begin, restored.End)
	}
}

func TestSplitOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for split time outside any interval")
		}
	}()
	p := New[*stubState](0, 10)
	p.Split(11)
}
