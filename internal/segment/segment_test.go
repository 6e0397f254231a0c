package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/zhuyin-ime/internal/engine"
)

// dictFixture is a small in-memory lookup standing in for the dictionary +
// user store wiring the real controller uses.
type dictFixture map[string][]Candidate

func (f dictFixture) lookup(phones []engine.Phone) []Candidate {
	key := keyFor(phones)
	return f[key]
}

func keyFor(phones []engine.Phone) string {
	s := ""
	for _, p := range phones {
		s += string(rune(p))
	}
	return s
}

func TestSegmentPrefersLongerPhraseOverEqualFreqConcatenation(t *testing.T) {
	a, b := engine.Phone(1), engine.Phone(2)
	fixture := dictFixture{
		keyFor([]engine.Phone{a}):    {{Phrase: "X", Freq: 50}},
		keyFor([]engine.Phone{b}):    {{Phrase: "Y", Freq: 50}},
		keyFor([]engine.Phone{a, b}): {{Phrase: "XY", Freq: 100}},
	}
	cover := Segment([]engine.Phone{a, b}, Options{Break: make([]bool, 3), Connect: make([]bool, 3)}, fixture.lookup)
	require.Len(t, cover, 1)
	assert.Equal(t, "XY", cover[0].Phrase)
}

func TestSegmentHonorsBreak(t *testing.T) {
	a, b := engine.Phone(1), engine.Phone(2)
	fixture := dictFixture{
		keyFor([]engine.Phone{a}):    {{Phrase: "X", Freq: 10}},
		keyFor([]engine.Phone{b}):    {{Phrase: "Y", Freq: 10}},
		keyFor([]engine.Phone{a, b}): {{Phrase: "XY", Freq: 1000}},
	}
	breaks := make([]bool, 3)
	breaks[1] = true // forbid a span crossing position 1
	cover := Segment([]engine.Phone{a, b}, Options{Break: breaks, Connect: make([]bool, 3)}, fixture.lookup)
	require.Len(t, cover, 2)
	assert.Equal(t, "X", cover[0].Phrase)
	assert.Equal(t, "Y", cover[1].Phrase)
}

func TestSegmentRespectsPinnedInterval(t *testing.T) {
	a, b, c := engine.Phone(1), engine.Phone(2), engine.Phone(3)
	fixture := dictFixture{
		keyFor([]engine.Phone{a}):       {{Phrase: "A", Freq: 10}},
		keyFor([]engine.Phone{b}):       {{Phrase: "B", Freq: 10}},
		keyFor([]engine.Phone{c}):       {{Phrase: "C", Freq: 10}},
		keyFor([]engine.Phone{a, b}):    {{Phrase: "AB", Freq: 1000}},
		keyFor([]engine.Phone{b, c}):    {{Phrase: "BC", Freq: 1000}},
		keyFor([]engine.Phone{a, b, c}): {{Phrase: "ABC", Freq: 5000}},
	}
	pinned := []Interval{{From: 1, To: 2, Phrase: "B"}}
	cover := Segment([]engine.Phone{a, b, c}, Options{
		Break: make([]bool, 4), Connect: make([]bool, 4), Pinned: pinned,
	}, fixture.lookup)
	require.Len(t, cover, 3)
	assert.Equal(t, "A", cover[0].Phrase)
	assert.Equal(t, "B", cover[1].Phrase)
	assert.True(t, cover[1].Pinned)
	assert.Equal(t, "C", cover[2].Phrase)
}

func TestSegmentConnectPointRedirectsCover(t *testing.T) {
	a, b, c := engine.Phone(1), engine.Phone(2), engine.Phone(3)
	fixture := dictFixture{
		keyFor([]engine.Phone{a}):    {{Phrase: "X", Freq: 1}},
		keyFor([]engine.Phone{b}):    {{Phrase: "Y", Freq: 1}},
		keyFor([]engine.Phone{c}):    {{Phrase: "Z", Freq: 1}},
		keyFor([]engine.Phone{a, b}): {{Phrase: "XY", Freq: 100}},
		keyFor([]engine.Phone{b, c}): {{Phrase: "YZ", Freq: 10}},
	}
	buf := []engine.Phone{a, b, c}

	cover := Segment(buf, Options{Break: make([]bool, 4), Connect: make([]bool, 4)}, fixture.lookup)
	require.Len(t, cover, 2)
	assert.Equal(t, "XY", cover[0].Phrase, "without a connect hint the higher-freq pair wins")

	connect := make([]bool, 4)
	connect[2] = true // prefer a phrase spanning position 2
	cover = Segment(buf, Options{Break: make([]bool, 4), Connect: connect}, fixture.lookup)
	require.Len(t, cover, 2)
	assert.Equal(t, "X", cover[0].Phrase)
	assert.Equal(t, "YZ", cover[1].Phrase)
}

func TestSegmentMoreConnectCrossingsWin(t *testing.T) {
	a, b, c := engine.Phone(1), engine.Phone(2), engine.Phone(3)
	fixture := dictFixture{
		keyFor([]engine.Phone{a}):       {{Phrase: "X", Freq: 1}},
		keyFor([]engine.Phone{b}):       {{Phrase: "Y", Freq: 1}},
		keyFor([]engine.Phone{c}):       {{Phrase: "Z", Freq: 1}},
		keyFor([]engine.Phone{a, b}):    {{Phrase: "XY", Freq: 5000}},
		keyFor([]engine.Phone{b, c}):    {{Phrase: "YZ", Freq: 5000}},
		keyFor([]engine.Phone{a, b, c}): {{Phrase: "XYZ", Freq: 1}},
	}
	connect := make([]bool, 4)
	connect[1] = true
	connect[2] = true
	cover := Segment([]engine.Phone{a, b, c}, Options{Break: make([]bool, 4), Connect: connect}, fixture.lookup)
	require.Len(t, cover, 1)
	assert.Equal(t, "XYZ", cover[0].Phrase, "crossing two connect points beats crossing one")
}

func TestSegmentTabCycleDisfavorsPreviousCover(t *testing.T) {
	a, b := engine.Phone(1), engine.Phone(2)
	fixture := dictFixture{
		keyFor([]engine.Phone{a}):    {{Phrase: "X", Freq: 10}},
		keyFor([]engine.Phone{b}):    {{Phrase: "Y", Freq: 10}},
		keyFor([]engine.Phone{a, b}): {{Phrase: "XY", Freq: 11}},
	}
	opts := Options{Break: make([]bool, 3), Connect: make([]bool, 3)}
	first := Segment([]engine.Phone{a, b}, opts, fixture.lookup)
	require.Len(t, first, 1)

	opts.NumCut = 1
	opts.Disprefer = first
	second := Segment([]engine.Phone{a, b}, opts, fixture.lookup)
	require.Len(t, second, 2)
	assert.Equal(t, "X", second[0].Phrase)
	assert.Equal(t, "Y", second[1].Phrase)
}
