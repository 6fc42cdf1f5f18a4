package timedcorpus

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// #region corpus
// Corpus is a parsed set of timed words plus the derived statistics the
// learning context needs: the declared alphabet size (the header's upper
// bound, which may exceed the number of symbols observed), the largest
// delay seen anywhere, and the interquartile time boundaries used to bucket
// delays into histogram bars.
type Corpus struct {
	Words     []*Word
	Alphabet  []byte
	MaxSymbol int
	MaxTime   int

	IQR25, IQR50, IQR75 int
}

// NumWords returns the number of words read from the file.
func (c *Corpus) NumWords() int {
	return len(c.Words)
}

// TotalSymbols returns the number of real (non-sentinel) symbols across the
// whole corpus.
func (c *Corpus) TotalSymbols() int {
	total := 0
	for _, w := range c.Words {
		total += w.Length
	}
	return total
}

// #endregion corpus

// #region parse
// Parse reads a corpus in the format:
//
//	num_words alph_size
//	length symbol1 time1 symbol2 time2 ... symbolN timeN
//	...
//
// one line per word, repeated num_words times. Symbol characters are
// assigned ids in first-seen order; alph_size is an upper bound on the
// number of distinct symbols the file may introduce, asserted (via error,
// not panic — this is a boundary, not an engine invariant) rather than
// silently truncated.
func Parse(r io.Reader) (*Corpus, error) {
	br := bufio.NewReader(r)

	var numWords, alphSize int
	if _, err := fmt.Fscan(br, &numWords, &alphSize); err != nil {
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	if numWords < 0 || alphSize < 0 {
		return nil, fmt.Errorf("read corpus header: negative count")
	}

	c := &Corpus{
		Words:    make([]*Word, 0, numWords),
		Alphabet: make([]byte, 0, alphSize),
	}

	timePoints := map[int]struct{}{}
	symbolIndex := map[byte]int{}

	for line := 0; line < numWords; line++ {
		var length int
		if _, err := fmt.Fscan(br, &length); err != nil {
			return nil, fmt.Errorf("read word %d length: %w", line, err)
		}
		if length < 0 {
			return nil, fmt.Errorf("read word %d: negative length", line)
		}

		w := &Word{
			Symbols:     make([]int, length+1),
			CharSymbols: make([]byte, length+1),
			Times:       make([]int, length+1),
			Length:      length,
		}

		timeSum := 0
		for i := 0; i < length; i++ {
			var sym string
			var t int
			if _, err := fmt.Fscan(br, &sym); err != nil {
				return nil, fmt.Errorf("read word %d symbol %d: %w", line, i, err)
			}
			if len(sym) != 1 {
				return nil, fmt.Errorf("read word %d symbol %d: expected single character, got %q", line, i, sym)
			}
			if _, err := fmt.Fscan(br, &t); err != nil {
				return nil, fmt.Errorf("read word %d delay %d: %w", line, i, err)
			}

			symID, ok := symbolIndex[sym[0]]
			if !ok {
				symID = len(symbolIndex)
				if symID >= alphSize {
					return nil, fmt.Errorf("read word %d: more than %d distinct symbols observed", line, alphSize)
				}
				symbolIndex[sym[0]] = symID
			}

			w.Symbols[i] = symID
			w.CharSymbols[i] = sym[0]
			w.Times[i] = t
			timePoints[t] = struct{}{}
			timeSum += t
		}

		w.Symbols[length] = numWords
		w.CharSymbols[length] = 0
		w.Times[length] = timeSum

		c.Words = append(c.Words, w)
	}

	for ch, idx := range symbolIndex {
		for len(c.Alphabet) <= idx {
			c.Alphabet = append(c.Alphabet, 0)
		}
		c.Alphabet[idx] = ch
	}
	c.MaxSymbol = alphSize

	sortedTimes := make([]int, 0, len(timePoints))
	for t := range timePoints {
		sortedTimes = append(sortedTimes, t)
	}
	sort.Ints(sortedTimes)

	n := len(sortedTimes)
	iq25 := n / 4
	iq50 := n / 2
	iq75 := (n * 3) / 4
	for i, t := range sortedTimes {
		if i == iq25 {
			c.IQR25 = t
		}
		if i == iq50 {
			c.IQR50 = t
		}
		if i == iq75 {
			c.IQR75 = t
		}
		if t > c.MaxTime {
			c.MaxTime = t
		}
	}

	return c, nil
}

// #endregion parse
