// Package segment implements the dynamic-programming phrase segmenter: the
// best interval cover of a phonetic buffer, honoring breakpoints, connect
// points, and pinned manual selections.
package segment

import (
	"github.com/username/zhuyin-ime/internal/engine"
)

// MaxIntervalLen is the longest phrase the segmenter will consider,
// matching the user store's 11 phone columns.
const MaxIntervalLen = 11

// intervalLengthBonus rewards a single longer phrase over a concatenation
// of shorter ones summing to the same raw frequency: an interval of length
// L earns intervalLengthBonus*(L-1), so a span covered as one interval
// scores intervalLengthBonus*(k-1) more than the same span split into k
// pieces.
const intervalLengthBonus = 1 << 20

// dispreferPenalty is subtracted from every edge that repeats an interval
// of the Disprefer cover while NumCut > 0. It outweighs the length bonus of
// any interval and any 24-bit dictionary frequency, so the new cover repeats
// as few of the previous intervals as it can; summed over 50 intervals it
// stays below one connectCrossBonus, so connect points still rank first.
const dispreferPenalty = 1 << 32

// connectCrossBonus is granted once per connect[k]=true position an
// interval crosses, so covers crossing more connect points always win. It
// dominates any possible frequency/length difference so connect points
// outrank raw scores.
const connectCrossBonus = 1 << 40

// Candidate is one (phrase, frequency) reading for a phone span, as
// produced by the dictionary or the user store.
type Candidate struct {
	Phrase   string
	Freq     int64
	FromUser bool
}

// Lookup resolves a phone span to its candidate readings; the caller wires
// this to the dictionary and user store (segment does not import either,
// to keep the DP logic independent of storage).
type Lookup func(phones []engine.Phone) []Candidate

// Interval is a chosen half-open span with its resolved phrase.
type Interval struct {
	From, To int
	Phrase   string
	Score    int64
	Pinned   bool
}

// Options bundles the non-buffer segmenter inputs.
type Options struct {
	Break   []bool // length N+1
	Connect []bool // length N+1
	Pinned  []Interval

	// NumCut is the Tab-cycle counter; the preedit controller increments
	// it and re-supplies the previously displayed cover as Disprefer so
	// each Tab press surfaces a different segmentation instead of
	// recomputing the same best cover.
	NumCut    int
	Disprefer []Interval
}

type edge struct {
	to       int
	phrase   string
	rawFreq  int64
	fromUser bool
	pinned   bool
}

type state struct {
	score   int64
	from    int // predecessor position, -1 if unreachable/start
	edgeIdx int
	reach   bool
}

// Segment computes the best interval cover of phones[0:N). It is pure:
// given the same buffer and Options it returns the same result.
func Segment(phones []engine.Phone, opts Options, lookup Lookup) []Interval {
	n := len(phones)
	if n == 0 {
		return nil
	}

	edges := make([][]edge, n+1) // edges[i] = candidate spans starting at i
	for i := 0; i < n; i++ {
		maxJ := i + MaxIntervalLen
		if maxJ > n {
			maxJ = n
		}
		for j := i + 1; j <= maxJ; j++ {
			if crossesBreak(opts.Break, i, j) {
				continue
			}
			if pinned, exact := overlapsPinned(opts.Pinned, i, j); pinned && !exact {
				continue
			}
			if pinned, exact := overlapsPinned(opts.Pinned, i, j); pinned && exact {
				iv := pinnedAt(opts.Pinned, i, j)
				edges[i] = append(edges[i], edge{to: j, phrase: iv.Phrase, rawFreq: intervalLengthBonus, pinned: true})
				continue
			}
			best, ok := bestCandidate(lookup(phones[i:j]))
			if !ok {
				continue
			}
			edges[i] = append(edges[i], edge{to: j, phrase: best.Phrase, rawFreq: best.Freq, fromUser: best.FromUser})
		}
	}

	dp := make([]state, n+1)
	dp[0] = state{reach: true}
	for j := 1; j <= n; j++ {
		dp[j] = state{from: -1}
	}

	for i := 0; i <= n; i++ {
		if !dp[i].reach {
			continue
		}
		for ei, e := range edges[i] {
			length := e.to - i
			edgeScore := e.rawFreq + intervalLengthBonus*int64(length-1)
			edgeScore += connectCrossBonus * int64(countConnects(opts.Connect, i, e.to))
			if opts.NumCut > 0 && matchesAny(opts.Disprefer, i, e.to, e.phrase) {
				edgeScore -= dispreferPenalty
			}
			total := dp[i].score + edgeScore
			cand := state{score: total, from: i, edgeIdx: ei, reach: true}
			if !dp[e.to].reach || better(cand, dp[e.to], i, e, edges) {
				dp[e.to] = cand
			}
		}
	}

	if !dp[n].reach {
		return nil
	}

	var out []Interval
	pos := n
	for pos > 0 {
		from := dp[pos].from
		e := edges[from][dp[pos].edgeIdx]
		out = append(out, Interval{From: from, To: pos, Phrase: e.phrase, Score: dp[pos].score, Pinned: e.pinned})
		pos = from
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// better applies the DP tie-break when two paths reach the same position
// with equal score: prefer the candidate whose newly added interval is
// longer, then higher frequency as a proxy for summed user freq, then the
// lexicographically smaller phrase. Connect-point crossings are folded
// directly into the score via connectCrossBonus, one bonus per crossed
// position, so they already dominate before this comparison runs.
func better(cand, incumbent state, from int, e edge, edges [][]edge) bool {
	if cand.score != incumbent.score {
		return cand.score > incumbent.score
	}
	incFrom := incumbent.from
	incEdge := edges[incFrom][incumbent.edgeIdx]
	candLen := e.to - from
	incLen := incEdge.to - incFrom
	if candLen != incLen {
		return candLen > incLen
	}
	if e.rawFreq != incEdge.rawFreq {
		return e.rawFreq > incEdge.rawFreq
	}
	return e.phrase < incEdge.phrase
}

func crossesBreak(breaks []bool, i, j int) bool {
	for k := i + 1; k < j; k++ {
		if k < len(breaks) && breaks[k] {
			return true
		}
	}
	return false
}

func countConnects(connect []bool, i, j int) int {
	count := 0
	for k := i + 1; k < j; k++ {
		if k < len(connect) && connect[k] {
			count++
		}
	}
	return count
}

// overlapsPinned reports whether [i,j) overlaps any pinned interval, and
// whether that overlap is an exact match; candidates overlapping a pinned
// boundary any other way are discarded.
func overlapsPinned(pinned []Interval, i, j int) (overlaps, exact bool) {
	for _, p := range pinned {
		if j <= p.From || i >= p.To {
			continue
		}
		if i == p.From && j == p.To {
			return true, true
		}
		return true, false
	}
	return false, false
}

// matchesAny reports whether a (from,to,phrase) edge exactly matches one
// of the intervals the caller wants disprefered this round.
func matchesAny(ivs []Interval, from, to int, phrase string) bool {
	for _, iv := range ivs {
		if iv.From == from && iv.To == to && iv.Phrase == phrase {
			return true
		}
	}
	return false
}

func pinnedAt(pinned []Interval, i, j int) Interval {
	for _, p := range pinned {
		if p.From == i && p.To == j {
			return p
		}
	}
	return Interval{}
}

// bestCandidate picks the highest-scoring reading for one span: user
// entries outrank dictionary entries of equal frequency.
func bestCandidate(cands []Candidate) (Candidate, bool) {
	if len(cands) == 0 {
		return Candidate{}, false
	}
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Freq > best.Freq || (c.Freq == best.Freq && c.FromUser && !best.FromUser) {
			best = c
		}
	}
	return best, true
}
