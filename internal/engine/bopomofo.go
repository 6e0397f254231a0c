package engine

// SingleCharChecker reports whether a phone has a single-character reading in
// the dictionary. The bopomofo SM uses it to decide NoWord; it is satisfied
// by *dict.Dictionary without engine importing the dict package.
type SingleCharChecker interface {
	HasSingleChar(phone Phone) bool
}

// SM is the per-layout bopomofo keystroke state machine. Step is a function
// of (state, key) -> (state', outcome) with no side effects beyond the
// receiver's own slots.
type SM struct {
	Layout      Layout
	Slot        PhoneticSyllableSlot
	pinyinBuf   []rune
	checker     SingleCharChecker
	pinyinTable *PinyinTable

	// dachenLastKey/dachenLastRank remember the previous Dachen-CP26
	// keypress so a repeated key cycles to its other table occurrence
	// instead of re-selecting the first one.
	dachenLastKey  rune
	dachenLastRank int
}

// NewSM creates a state machine for the given layout. checker may be nil, in
// which case NoWord detection is skipped and every non-empty syllable
// commits.
func NewSM(layout Layout, checker SingleCharChecker) *SM {
	return &SM{Layout: layout, checker: checker}
}

// Entering reports whether the SM currently holds uncommitted input.
func (m *SM) Entering() bool {
	if m.Layout.Family() == FamilyPinyin {
		return len(m.pinyinBuf) > 0
	}
	return m.Slot.Entering()
}

// Reset clears all SM state.
func (m *SM) Reset() {
	m.Slot.Clear()
	m.pinyinBuf = m.pinyinBuf[:0]
	m.dachenLastKey = 0
	m.dachenLastRank = 0
}

// RemoveLast pops from the pinyin buffer if this is a pinyin-family layout,
// otherwise clears the highest-indexed non-zero slot.
func (m *SM) RemoveLast() {
	if m.Layout.Family() == FamilyPinyin {
		if len(m.pinyinBuf) > 0 {
			m.pinyinBuf = m.pinyinBuf[:len(m.pinyinBuf)-1]
		}
		return
	}
	switch {
	case m.Slot.Tone != 0:
		m.Slot.Tone = 0
	case m.Slot.Rhyme != 0:
		m.Slot.Rhyme = 0
	case m.Slot.Medial != 0:
		m.Slot.Medial = 0
	case m.Slot.Initial != 0:
		m.Slot.Initial = 0
	}
}

// Step feeds one raw ASCII key into the state machine.
func (m *SM) Step(key rune) StepResult {
	if key == '`' {
		return StepResult{Outcome: OutcomeOpenSymbolTable}
	}

	switch m.Layout.Family() {
	case FamilyHsu:
		return m.stepHsu(key)
	case FamilyDachenCP26:
		return m.stepDachen(key)
	case FamilyPinyin:
		return m.stepPinyin(key)
	default:
		return m.stepDefault(key)
	}
}

// commit packs the current slot, checks NoWord, and clears the SM.
func (m *SM) commit() StepResult {
	if !m.Slot.Entering() {
		return StepResult{Outcome: OutcomeIgnore}
	}
	phone := m.Slot.Pack()
	var alt Phone
	if m.Slot.HasAlt() {
		alt = m.Slot.PackAlt()
	}
	if m.checker != nil && !m.checker.HasSingleChar(phone) {
		m.Reset()
		return StepResult{Outcome: OutcomeNoWord}
	}
	m.Reset()
	return StepResult{Outcome: OutcomeCommit, Phone: phone, PhoneAlt: alt}
}

// stepDefault implements the Default family: a key belongs to exactly one
// slot and overwrites it; pressing an explicit end key (space or a tone key)
// commits if at least one slot is non-zero.
func (m *SM) stepDefault(key rune) StepResult {
	if key == ' ' {
		return m.commit()
	}
	idx := keyIndex(m.Layout, key)
	if idx < 0 {
		return StepResult{Outcome: OutcomeKeyError}
	}
	name, value := slotOf(idx)
	switch name {
	case "initial":
		m.Slot.Initial = value
	case "medial":
		m.Slot.Medial = value
	case "rhyme":
		m.Slot.Rhyme = value
	case "tone":
		// Tone keys are the family's other explicit end key; nothing else
		// touches the tone slot.
		m.Slot.Tone = value
		return m.commit()
	}
	return StepResult{Outcome: OutcomeAbsorb}
}
