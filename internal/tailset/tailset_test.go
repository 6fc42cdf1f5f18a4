package tailset

import (
	"testing"

	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

func fakeTail(t, idx int) *timedcorpus.Tail {
	w := &timedcorpus.Word{
		Symbols: []int{0, 0},
		Times:   []int{t, t},
		Length:  1,
	}
	return &timedcorpus.Tail{Word: w, Index: idx}
}

func TestAddOrdering(t *testing.T) {
	s := New()
	a := fakeTail(5, 0)
	b := fakeTail(1, 0)
	c := fakeTail(3, 0)
	s.Add(a)
	s.Add(b)
	s.Add(c)

	var times []int
	s.Each(func(time int, tail *timedcorpus.Tail) { times = append(times, time) })
	want := []int{1, 3, 5}
	for i, w := range want {
		if times[i] != w {
			t.Fatalf("position %d: got %d want %d", i, times[i], w)
		}
	}
}

func TestRemove(t *testing.T) {
	s := New()
	a := fakeTail(5, 0)
	s.Add(a)
	if !s.Contains(a) {
		t.Fatal("expected set to contain a")
	}
	s.Remove(a)
	if s.Contains(a) {
		t.Fatal("expected set to no longer contain a")
	}
}

func TestRemoveMissingPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic removing untracked tail")
		}
	}()
	s := New()
	s.Remove(fakeTail(1, 0))
}

func TestSplitAt(t *testing.T) {
	s := New()
	s.Add(fakeTail(1, 0))
	s.Add(fakeTail(3, 0))
	s.Add(fakeTail(5, 0))
	s.Add(fakeTail(7, 0))

	left, right := s.SplitAt(4)
	if left.Len() != 2 {
		t.Fatalf("expected 2 in left, got %d", left.Len())
	}
	if right.Len() != 2 {
		t.Fatalf("expected 2 in right, got %d", right.Len())
	}
}

func TestMergeEmptiesSource(t *testing.T) {
	s1 := New()
	s1.Add(fakeTail(1, 0))
	s2 := New()
	s2.Add(fakeTail(2, 0))

	s1.Merge(s2)
	if s1.Len() != 2 {
		t.Fatalf("expected 2 after merge, got %d", s1.Len())
	}
	if s2.Len() != 0 {
		t.Fatalf("expected source emptied after merge, got %d", s2.Len())
	}
}

func TestCloneIndependence(t *testing.T) {
	s := New()
	a := fakeTail(1, 0)
	s.Add(a)

	clone := s.Clone()
	s.Add(fakeTail(2, 0))
	if clone.Len() != 1 {
		t.Fatalf("expected clone unaffected by later mutation, got len %d", clone.Len())
	}
}
