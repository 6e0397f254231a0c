package preedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/zhuyin-ime/internal/engine"
	"github.com/username/zhuyin-ime/internal/segment"
)

// fakeSource is a PhraseSource stand-in keyed on phone sequences; it lets
// each test supply exactly the candidates the scenario needs without
// standing up a real dictionary/user-store pair.
type fakeSource struct {
	byKey map[string][]segment.Candidate
}

func newFakeSource() *fakeSource {
	return &fakeSource{byKey: map[string][]segment.Candidate{}}
}

func phoneKey(phones []engine.Phone) string {
	s := make([]rune, len(phones))
	for i, p := range phones {
		s[i] = rune(p)
	}
	return string(s)
}

func (f *fakeSource) put(phrase string, freq int64, phones ...engine.Phone) {
	f.byKey[phoneKey(phones)] = append(f.byKey[phoneKey(phones)], segment.Candidate{Phrase: phrase, Freq: freq})
}

func (f *fakeSource) Candidates(phones []engine.Phone) []segment.Candidate {
	return f.byKey[phoneKey(phones)]
}

// fakeLearner records every Upsert call for assertion.
type fakeLearner struct {
	upserts  []upsertCall
	ticks    int
	failNext bool
}

type upsertCall struct {
	phones []engine.Phone
	phrase string
}

func (l *fakeLearner) Upsert(phoneSeq []engine.Phone, phrase string) error {
	if l.failNext {
		l.failNext = false
		return assert.AnError
	}
	l.upserts = append(l.upserts, upsertCall{phones: append([]engine.Phone(nil), phoneSeq...), phrase: phrase})
	return nil
}

func (l *fakeLearner) Tick() { l.ticks++ }

func newTestController(source *fakeSource, learner *fakeLearner) *Controller {
	cfg := engine.NewConfiguredEngine(engine.DefaultConfig())
	sm := engine.NewSM(engine.LayoutDefault, nil)
	return NewController(cfg, sm, source, learner)
}

// commitSyllable feeds a full Default-layout key sequence (ending on its own
// tone/end key) into the controller and returns the last snapshot.
func commitSyllable(t *testing.T, c *Controller, keys string) Snapshot {
	t.Helper()
	var snap Snapshot
	for _, k := range keys {
		snap = c.FeedKey(k)
	}
	require.True(t, snap.Flags.Has(FlagCommit), "keys %q did not commit", keys)
	return snap
}

func TestSingleCharCommitThenEnter(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 10, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	snap := c.Named(engine.KeyEnter)

	assert.True(t, snap.Flags.Has(FlagCommit))
	assert.Equal(t, "好", snap.CommitUTF8)
	assert.Empty(t, learner.upserts, "a length-1 interval must not trigger auto-learn")
}

func TestTwoCharAmbiguousCommitAutoLearns(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	de := engine.ParsePhone("ㄉㄜˋ")
	source.put("好的", 100, hao, de)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "2k4")
	snap := c.Named(engine.KeyEnter)

	require.Equal(t, "好的", snap.CommitUTF8)
	require.Len(t, learner.upserts, 1)
	assert.Equal(t, "好的", learner.upserts[0].phrase)
	assert.Equal(t, []engine.Phone{hao, de}, learner.upserts[0].phones)
}

func TestCtrlNumLearnsPhrasePrecedingCursorForwardDirection(t *testing.T) {
	source := newFakeSource()
	phones := []engine.Phone{
		engine.ParsePhone("ㄏㄠˇ"),
		engine.ParsePhone("ㄉㄜˋ"),
		engine.ParsePhone("ㄐˇ"),
		engine.ParsePhone("ㄑˇ"),
		engine.ParsePhone("ㄒˇ"),
	}
	texts := []string{"A", "B", "C", "D", "E"}
	for i, p := range phones {
		source.put(texts[i], 1, p)
	}
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "2k4")
	commitSyllable(t, c, "r3")
	commitSyllable(t, c, "f3")
	commitSyllable(t, c, "v3")

	// Cursor sits after the 5th char; move left twice to land at cursor 3,
	// matching end-to-end scenario 6.
	c.Named(engine.KeyLeft)
	c.Named(engine.KeyLeft)

	snap := c.CtrlNum(3)

	assert.True(t, snap.Flags.Has(FlagAbsorb))
	require.Len(t, learner.upserts, 1)
	assert.Equal(t, "ABC", learner.upserts[0].phrase)
	assert.Equal(t, phones[:3], learner.upserts[0].phones)
}

func TestCtrlNumRejectsRangeCrossingSymbol(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	c.Named(engine.KeyCapslock) // switch to English mode so the next key is a plain symbol item
	c.FeedKey('!')

	snap := c.CtrlNum(2)
	assert.True(t, snap.Flags.Has(FlagBell))
	assert.Empty(t, learner.upserts)
}

func TestOpenAndChooseCandidateReplacesSpan(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	source.put("豪", 5, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	c.OpenCandidates()
	require.True(t, c.InCandidateMode())

	c.ChooseCandidate(0)
	assert.False(t, c.InCandidateMode())

	snap := c.Named(engine.KeyEnter)
	assert.Contains(t, []string{"好", "豪"}, snap.CommitUTF8)
}

func TestAutoShiftCursorAdvancesPastChosenPhrase(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	de := engine.ParsePhone("ㄉㄜˋ")
	source.put("A", 1, hao)
	source.put("B", 1, de)
	source.put("AB", 10, hao, de)
	learner := &fakeLearner{}
	c := newTestController(source, learner)
	c.cfg.SetAutoShiftCursor(true)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "2k4")
	c.Named(engine.KeyHome)

	c.OpenCandidates()
	require.True(t, c.InCandidateMode())
	require.Equal(t, 2, c.candidate.targetTo-c.candidate.targetFrom)
	c.ChooseCandidate(0)
	assert.Equal(t, 2, c.cursor, "cursor should advance past the chosen span")

	// Rearward choice advances by one position only.
	c.cfg.SetPhraseChoiceRearward(true)
	c.Named(engine.KeyHome)
	c.OpenCandidates()
	c.ChooseCandidate(0)
	assert.Equal(t, 1, c.cursor, "rearward choice advances the cursor by one")
}

func TestCursorStaysPutWithoutAutoShift(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	source.put("豪", 5, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	c.Named(engine.KeyHome)
	c.OpenCandidates()
	c.ChooseCandidate(0)
	assert.Equal(t, 0, c.cursor)
}

func TestTabCyclesBreakThenConnectThenNeither(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	de := engine.ParsePhone("ㄉㄜˋ")
	source.put("A", 1, hao)
	source.put("B", 1, de)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "2k4")
	c.Named(engine.KeyHome)

	snap := c.Named(engine.KeyTab)
	require.True(t, snap.BreakDisplay[0])

	snap = c.Named(engine.KeyTab)
	assert.False(t, snap.BreakDisplay[0])

	snap = c.Named(engine.KeyTab)
	assert.False(t, snap.BreakDisplay[0])

	snap = c.Named(engine.KeyDblTab)
	assert.False(t, snap.BreakDisplay[0])
}

func TestCapslockTogglesChineseEnglishMode(t *testing.T) {
	source := newFakeSource()
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	before := c.cfg.ChineseEnglishMode()
	c.Named(engine.KeyCapslock)
	assert.Equal(t, !before, c.cfg.ChineseEnglishMode())
}

func TestBufferFullRingsBell(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)
	c.cfg.SetMaxPreeditLen(2)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "cl3")

	var snap Snapshot
	for _, k := range "cl3" {
		snap = c.FeedKey(k)
	}
	assert.True(t, snap.Flags.Has(FlagBell))
	assert.False(t, snap.Flags.Has(FlagCommit))
	assert.Equal(t, "好好", snap.PreeditUTF8, "a full preedit must not grow")
}

func TestBackspaceRemovesSMSlotBeforePreeditItem(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	c.FeedKey('c') // half-entered syllable
	snap := c.Named(engine.KeyBackspace)
	assert.Equal(t, "好", snap.PreeditUTF8, "backspace must clear the SM slot first")

	snap = c.Named(engine.KeyBackspace)
	assert.Empty(t, snap.PreeditUTF8, "with the SM idle, backspace removes the preedit item")
}

func TestDeleteRemovesItemAtCursor(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	de := engine.ParsePhone("ㄉㄜˋ")
	source.put("A", 1, hao)
	source.put("B", 1, de)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "2k4")
	c.Named(engine.KeyHome)
	snap := c.Named(engine.KeyDelete)
	assert.Equal(t, "B", snap.PreeditUTF8)

	snap = c.Named(engine.KeyDelete)
	assert.Empty(t, snap.PreeditUTF8)

	snap = c.Named(engine.KeyDelete)
	assert.True(t, snap.Flags.Has(FlagIgnore), "delete past the end is ignored")
}

func TestCandidatePagingAcrossPages(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	for i := 0; i < 25; i++ {
		source.put(string(rune('一'+i)), int64(100-i), hao)
	}
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	c.OpenCandidates()
	require.True(t, c.InCandidateMode())
	require.Equal(t, 3, c.candidate.TotalPages)

	assert.True(t, c.HasNextPage())
	assert.False(t, c.HasPrevPage())
	c.NextPage()
	c.NextPage()
	assert.False(t, c.HasNextPage())
	c.NextPage() // past the last page is a no-op
	assert.Equal(t, 2, c.candidate.CurrentPage)

	c.FirstPage()
	assert.Equal(t, 0, c.candidate.CurrentPage)
	c.LastPage()
	assert.Equal(t, 2, c.candidate.CurrentPage)

	// Choosing on the last page picks an absolute index past page one.
	c.ChooseCandidate(0)
	assert.False(t, c.InCandidateMode())
	snap := c.Named(engine.KeyEnter)
	assert.Equal(t, string(rune('一'+20)), snap.CommitUTF8)
}

func TestLearnPhraseEmitsAuxMessageOnce(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	de := engine.ParsePhone("ㄉㄜˋ")
	source.put("A", 1, hao)
	source.put("B", 1, de)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	commitSyllable(t, c, "2k4")

	snap := c.CtrlNum(2)
	assert.Contains(t, snap.AuxMessage, "AB")

	snap = c.Named(engine.KeyLeft)
	assert.Empty(t, snap.AuxMessage, "aux message is delivered once and cleared")
}

func TestEscClearsBufferWhenConfigured(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)
	c.cfg.SetEscCleanAll(true)

	commitSyllable(t, c, "cl3")
	snap := c.Named(engine.KeyEsc)
	assert.Empty(t, snap.PreeditUTF8)
}

func TestResetIsIdempotent(t *testing.T) {
	source := newFakeSource()
	hao := engine.ParsePhone("ㄏㄠˇ")
	source.put("好", 1, hao)
	learner := &fakeLearner{}
	c := newTestController(source, learner)

	commitSyllable(t, c, "cl3")
	c.Reset()
	first := c.Named(engine.KeyEnter)
	c.Reset()
	c.Reset()
	second := c.Named(engine.KeyEnter)

	assert.Equal(t, first, second)
}
