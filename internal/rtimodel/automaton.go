package rtimodel

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/adaptive-rti/rti-go/internal/timedcorpus"
)

// #region automaton
// Automaton is the explicit, "colored" state list of a learning run: the
// states that have been promoted out of the prefix tree and wired into a
// finished (or in-progress) real-time automaton. Its root is always tree
// state index 0 in the sense that it is the state every input word starts
// in, whether or not it has itself been colored yet.
type Automaton struct {
	ctx    *LearningContext
	corpus *timedcorpus.Corpus

	states []*State
	root   *State
}

// NewAutomaton builds the full prefix tree for corpus under a fresh root
// state and returns an Automaton whose colored state list contains only
// that root.
func NewAutomaton(corpus *timedcorpus.Corpus, testType TestType, significance float64) *Automaton {
	ctx := NewContext(corpus, testType, significance)
	root := newState(ctx)
	for _, w := range corpus.Words {
		head := timedcorpus.BuildChain(w)
		if head != nil {
			root.AddTail(head)
		}
	}
	root.CreateStates()

	return &Automaton{
		ctx:    ctx,
		corpus: corpus,
		states: []*State{root},
		root:   root,
	}
}

// Context returns the learning parameters this automaton was built under.
func (a *Automaton) Context() *LearningContext { return a.ctx }

// Root returns the automaton's start state.
func (a *Automaton) Root() *State { return a.root }

// AddState appends s to the colored state list.
func (a *Automaton) AddState(s *State) {
	a.states = append(a.states, s)
}

// DelState removes the last occurrence of s from the colored state list.
func (a *Automaton) DelState(s *State) {
	for i := len(a.states) - 1; i >= 0; i-- {
		if a.states[i] == s {
			a.states = append(a.states[:i], a.states[i+1:]...)
			return
		}
	}
}

// ContainsState reports whether s is currently colored.
func (a *Automaton) ContainsState(s *State) bool {
	for _, st := range a.states {
		if st == s {
			return true
		}
	}
	return false
}

// GetState returns the colored state at number, or nil if out of range.
func (a *Automaton) GetState(number int) *State {
	if number < 0 || number >= len(a.states) {
		return nil
	}
	return a.states[number]
}

// GetNumber returns s's index in the colored state list, or -1 if s is not
// colored.
func (a *Automaton) GetNumber(s *State) int {
	for i, st := range a.states {
		if st == s {
			return i
		}
	}
	return -1
}

// NumStates returns the size of the colored state list.
func (a *Automaton) NumStates() int { return len(a.states) }

// States exposes the colored state list. The caller must not mutate the
// returned slice.
func (a *Automaton) States() []*State { return a.states }

// GetAlphChar returns the original character for symbol id i.
func (a *Automaton) GetAlphChar(i int) byte {
	if i < 0 || i >= len(a.corpus.Alphabet) {
		return 0
	}
	return a.corpus.Alphabet[i]
}

// GetAlphInt returns the symbol id assigned to character c, or -1 if c was
// never seen in the corpus this automaton was built from.
func (a *Automaton) GetAlphInt(c byte) int {
	for i, ch := range a.corpus.Alphabet {
		if ch == c {
			return i
		}
	}
	return -1
}

// #endregion automaton

// #region size-and-count
// recurseTotalNumStates counts st plus every descendant reached through an
// assigned, non-self target, without regard to whether those descendants
// are colored.
func recurseTotalNumStates(st *State) int {
	result := 1
	for symbol := 0; symbol < st.ctx.MaxSymbol; symbol++ {
		for _, in := range st.targets[symbol].Intervals() {
			if in.Target == nil || in.Target == st {
				continue
			}
			result += recurseTotalNumStates(in.Target)
		}
	}
	return result
}

// TotalNumStates counts every state reachable from the colored list,
// including tree states never promoted into it.
func (a *Automaton) TotalNumStates() int {
	result := 0
	for _, st := range a.states {
		result++
		for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
			for _, in := range st.targets[symbol].Intervals() {
				if in.Target == nil || a.ContainsState(in.Target) {
					continue
				}
				result += recurseTotalNumStates(in.Target)
			}
		}
	}
	return result
}

// GetSize counts the number of distinct labeled transitions across every
// colored state: consecutive intervals of the same symbol sharing a target
// count once.
func (a *Automaton) GetSize() int {
	result := 0
	for _, st := range a.states {
		for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
			var prev *State
			first := true
			for _, in := range st.targets[symbol].Intervals() {
				if !first && in.Target == prev {
					continue
				}
				result++
				prev = in.Target
				first = false
			}
		}
	}
	return result
}

// #endregion size-and-count

// #region tree-and-garbage
// recursiveTreeAutomaton colors st and every tree state reachable from it,
// repointing any interval with no target onto garbage.
func (a *Automaton) recursiveTreeAutomaton(st, garbage *State) {
	a.AddState(st)
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		for _, in := range st.targets[symbol].Intervals() {
			if in.Target == nil {
				in.Target = garbage
			}
			if in.IsEmpty() {
				continue
			}
			a.recursiveTreeAutomaton(in.Target, garbage)
		}
	}
}

// TreeAutomaton colors every tree state reachable from the current colored
// list and adds a garbage state that every otherwise-unassigned interval
// points to, including its own self-loop on every symbol.
func (a *Automaton) TreeAutomaton() {
	garbage := newState(a.ctx)
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		garbage.Point(symbol, a.ctx.MinTime, garbage)
	}

	for _, st := range a.states {
		for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
			for _, in := range st.targets[symbol].Intervals() {
				if in.Target == nil {
					in.Target = garbage
					continue
				}
				if a.ContainsState(in.Target) || in.IsEmpty() {
					continue
				}
				a.recursiveTreeAutomaton(in.Target, garbage)
			}
		}
	}
	a.AddState(garbage)
}

// GarbageAutomaton repoints every symbol of the automaton's root onto
// itself, collapsing the automaton into the single-state sink used as a
// trivial baseline model.
func (a *Automaton) GarbageAutomaton() {
	root := a.states[0]
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		root.Point(symbol, a.ctx.MinTime, root)
	}
}

// #endregion tree-and-garbage

// #region serialization
// ToStr renders the automaton as one line per distinct labeled transition:
// source state, symbol character, time interval, target state, tail count,
// and empirical probability within the source state.
func (a *Automaton) ToStr() string {
	var sb strings.Builder
	for _, st := range a.states {
		a.writeStateStr(&sb, st)
	}
	return sb.String()
}

func (a *Automaton) writeStateStr(sb *strings.Builder, st *State) {
	total := 0
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		for _, in := range st.targets[symbol].Intervals() {
			total += in.Tails.Len()
		}
	}

	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		ints := st.targets[symbol].Intervals()
		if len(ints) == 0 {
			continue
		}
		var (
			runBegin, runEnd int
			runTarget        *State
			runSize          int
			first            = true
		)
		flush := func() {
			if runSize == 0 {
				return
			}
			fmt.Fprintf(sb, "%d %c [%d, %d]->%d #%d p=%g\n",
				a.GetNumber(st), a.GetAlphChar(symbol), runBegin, runEnd,
				a.GetNumber(runTarget), runSize, float64(runSize)/float64(total))
		}
		for _, in := range ints {
			if in.Tails.Len() == 0 {
				continue
			}
			if first || in.Target != runTarget {
				flush()
				runBegin = in.Begin
				runTarget = in.Target
				runSize = in.Tails.Len()
				first = false
			} else {
				runSize += in.Tails.Len()
			}
			runEnd = in.End
		}
		flush()
	}
}

// ToStrFull renders every state's raw symbol and time-bin counts followed
// by every interval's boundaries and target, with no grouping or
// probability — a debugging dump, not the canonical serialization.
func (a *Automaton) ToStrFull() string {
	var sb strings.Builder
	for _, st := range a.states {
		num := a.GetNumber(st)
		fmt.Fprintf(&sb, "%d prob: symbol= ", num)
		for _, c := range st.stats.SymbolCounts() {
			fmt.Fprintf(&sb, "%d ", c)
		}
		fmt.Fprint(&sb, " time= ")
		for _, c := range st.stats.TimeCounts() {
			fmt.Fprintf(&sb, "%d ", c)
		}
		fmt.Fprintln(&sb)

		for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
			for _, in := range st.targets[symbol].Intervals() {
				fmt.Fprintf(&sb, "%d %d [%d, %d]->%d\n", num, symbol, in.Begin, in.End, a.GetNumber(in.Target))
			}
		}
	}
	return sb.String()
}

// #endregion serialization

// #region from-file
// FromFile rebuilds an automaton from a transition dump in ToStr's own
// format: one "source symbol [begin, end]->target #count p=probability"
// line per labeled transition. Requires that only a's root is colored (as
// NewAutomaton leaves it; the root's prefix-tree targets are merged into
// the loaded targets by Point) — it is meant to reload a
// previously saved result, not to merge into one already under
// refinement. Lines that fail to parse end the scan early rather than
// erroring, matching a truncated or trailer-commented dump file.
func (a *Automaton) FromFile(r io.Reader) {
	if len(a.states) != 1 {
		panic("rtimodel: FromFile requires an automaton with only its root colored")
	}

	garbage := newState(a.ctx)
	for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
		garbage.Point(symbol, a.ctx.MinTime, garbage)
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var sourceState, beginTime, endTime, targetState, numStrings int
		var probability float64
		var symbolChar rune
		n, err := fmt.Sscanf(line, "%d %c [%d, %d]->%d #%d p=%f",
			&sourceState, &symbolChar, &beginTime, &endTime, &targetState, &numStrings, &probability)
		if n != 7 || err != nil {
			break
		}

		symbol := a.GetAlphInt(byte(symbolChar))
		if symbol < 0 {
			continue
		}

		for a.GetState(sourceState) == nil {
			a.AddState(newState(a.ctx))
		}
		s := a.GetState(sourceState)

		var target *State
		if targetState != -1 {
			for a.GetState(targetState) == nil {
				a.AddState(newState(a.ctx))
			}
			target = a.GetState(targetState)
		}
		if target == nil {
			target = garbage
		}

		if beginTime > a.ctx.MaxTime {
			continue
		}
		if endTime > a.ctx.MaxTime {
			endTime = a.ctx.MaxTime
		}

		in := s.GetInterval(symbol, beginTime)
		if in.Begin != beginTime {
			s.Split(symbol, beginTime-1)
		}
		in = s.GetInterval(symbol, beginTime)
		if in.End != endTime {
			s.Split(symbol, endTime)
		}
		in = s.GetInterval(symbol, beginTime)
		if in.Begin != beginTime || in.End != endTime {
			panic("rtimodel: FromFile produced a misaligned interval")
		}

		s.Point(symbol, beginTime, target)
	}

	for _, st := range a.states {
		for symbol := 0; symbol < a.ctx.MaxSymbol; symbol++ {
			for _, in := range st.targets[symbol].Intervals() {
				if a.GetNumber(in.Target) == -1 && in.Target != garbage {
					st.Point(symbol, in.Begin, garbage)
				}
			}
		}
	}
	a.AddState(garbage)
}

// #endregion from-file
