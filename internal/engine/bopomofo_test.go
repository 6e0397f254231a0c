package engine

import "testing"

// TestStandardLayoutCommitsHaoThird covers end-to-end scenario 1: on the
// Default-family standard layout, a full syllable ending on a tone key
// commits immediately with no NoWord checker attached.
func TestStandardLayoutCommitsHaoThird(t *testing.T) {
	sm := NewSM(LayoutDefault, nil)

	for _, key := range "cl" {
		r := sm.Step(key)
		if r.Outcome != OutcomeAbsorb {
			t.Fatalf("Step(%q) = %v, want Absorb", key, r.Outcome)
		}
	}

	r := sm.Step('3')
	if r.Outcome != OutcomeCommit {
		t.Fatalf("Step('3') = %v, want Commit", r.Outcome)
	}
	if got, want := r.Phone.String(), "ㄏㄠˇ"; got != want {
		t.Errorf("committed phone = %q, want %q", got, want)
	}
	if sm.Entering() {
		t.Errorf("SM should be reset after commit")
	}
}

// TestStandardLayoutNoWordBlocksCommit: a checker that rejects every phone
// turns what would be a commit into OutcomeNoWord and still clears the SM.
func TestStandardLayoutNoWordBlocksCommit(t *testing.T) {
	sm := NewSM(LayoutDefault, rejectAllChecker{})
	sm.Step('c')
	sm.Step('l')
	r := sm.Step('3')
	if r.Outcome != OutcomeNoWord {
		t.Fatalf("Step('3') = %v, want NoWord", r.Outcome)
	}
	if sm.Entering() {
		t.Errorf("SM should reset on NoWord")
	}
}

type rejectAllChecker struct{}

func (rejectAllChecker) HasSingleChar(Phone) bool { return false }

// TestHsuLoneConsonantRewrite covers end-to-end scenario 3: on the Hsu
// layout, a bare initial that would otherwise read as ㄐ is rewritten to ㄓ
// when no medial/rhyme follows, and the trailing tone key commits.
func TestHsuLoneConsonantRewrite(t *testing.T) {
	sm := NewSM(LayoutHsu, nil)

	r := sm.Step('j')
	if r.Outcome != OutcomeAbsorb {
		t.Fatalf("Step('j') = %v, want Absorb", r.Outcome)
	}

	r = sm.Step('f')
	if r.Outcome != OutcomeCommit {
		t.Fatalf("Step('f') = %v, want Commit", r.Outcome)
	}
	if got, want := r.Phone.String(), "ㄓˇ"; got != want {
		t.Errorf("committed phone = %q, want %q", got, want)
	}

	// A trailing space on an already-idle SM is a no-op.
	if r := sm.Step(' '); r.Outcome != OutcomeIgnore {
		t.Errorf("Step(' ') after commit = %v, want Ignore", r.Outcome)
	}
}

// TestDachenTogglesOnRepeatedKey covers end-to-end scenario 4: pressing the
// same overloaded key twice cycles between its two table occurrences rather
// than re-selecting the first.
func TestDachenTogglesOnRepeatedKey(t *testing.T) {
	sm := NewSM(LayoutDachenCP26, nil)

	r1 := sm.Step('q')
	if r1.Outcome != OutcomeAbsorb {
		t.Fatalf("first Step('q') = %v, want Absorb", r1.Outcome)
	}
	if sm.Slot.Initial == 0 || initials[sm.Slot.Initial-1] != 'ㄅ' {
		t.Fatalf("after first 'q', initial = %v, want ㄅ", sm.Slot)
	}

	r2 := sm.Step('q')
	if r2.Outcome != OutcomeAbsorb {
		t.Fatalf("second Step('q') = %v, want Absorb", r2.Outcome)
	}
	if sm.Slot.Initial == 0 || initials[sm.Slot.Initial-1] != 'ㄆ' {
		t.Fatalf("after second 'q', initial = %v, want ㄆ toggled", sm.Slot)
	}
}

// TestDachenToneKeyCommitsOnceEntering: e/r/d/y double as tone keys, so
// with a syllable underway they end it instead of entering their consonant.
func TestDachenToneKeyCommitsOnceEntering(t *testing.T) {
	sm := NewSM(LayoutDachenCP26, nil)
	sm.Step('q') // ㄅ
	r := sm.Step('r')
	if r.Outcome != OutcomeCommit {
		t.Fatalf("Step('r') with syllable underway = %v, want Commit", r.Outcome)
	}
	if got, want := r.Phone.String(), "ㄅˇ"; got != want {
		t.Errorf("committed phone = %q, want %q", got, want)
	}
}

// TestPinyinZhangCommitsZhoAng covers end-to-end scenario 5: the Hanyu
// pinyin buffer accumulates letters, then an end-key tone digit translates
// the syllable into bopomofo keys and commits.
func TestPinyinZhangCommitsZhoAng(t *testing.T) {
	sm := NewSM(LayoutHanyuPinyin, nil)

	for _, key := range "zhang" {
		r := sm.Step(key)
		if r.Outcome != OutcomeAbsorb {
			t.Fatalf("Step(%q) = %v, want Absorb", key, r.Outcome)
		}
	}
	if !sm.Entering() {
		t.Fatalf("SM should still be entering mid-syllable")
	}

	r := sm.Step('1')
	if r.Outcome != OutcomeCommit {
		t.Fatalf("Step('1') = %v, want Commit", r.Outcome)
	}
	if got, want := r.Phone.String(), "ㄓㄤ"; got != want {
		t.Errorf("committed phone = %q, want %q (no tone glyph for first tone)", got, want)
	}
}

// TestPinyinUnknownSyllableIsNoWord covers the translate-failure path: a
// syllable absent from both the whole-syllable map and the initial/final
// tables yields NoWord rather than a bogus commit.
func TestPinyinUnknownSyllableIsNoWord(t *testing.T) {
	sm := NewSM(LayoutHanyuPinyin, nil)

	for _, key := range "xyzzy" {
		sm.Step(key)
	}
	r := sm.Step(' ')
	if r.Outcome != OutcomeNoWord {
		t.Fatalf("Step(' ') on unknown syllable = %v, want NoWord", r.Outcome)
	}
}

// TestRemoveLastPopsHighestSlot checks RemoveLast on a non-pinyin layout:
// the highest-indexed non-zero slot clears first.
func TestRemoveLastPopsHighestSlot(t *testing.T) {
	sm := NewSM(LayoutDefault, nil)
	sm.Step('c') // initial ㄏ
	sm.Step('l') // rhyme ㄠ
	sm.RemoveLast()
	if sm.Slot.Rhyme != 0 {
		t.Errorf("RemoveLast should clear rhyme first, got %+v", sm.Slot)
	}
	if sm.Slot.Initial == 0 {
		t.Errorf("RemoveLast should not touch initial when rhyme was set")
	}
}
