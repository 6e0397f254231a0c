package engine

// hsuLoneConsonantRewrite is the Hsu single-consonant rewrite table: on an
// end key, a consonant left alone (no medial, no rhyme) is rewritten to the
// paired glyph. The first three pairs swap one initial for another; the rest
// reinterpret the lone initial as a rhyme.
var hsuLoneConsonantRewrite = map[rune]rune{
	'ㄐ': 'ㄓ', 'ㄑ': 'ㄔ', 'ㄒ': 'ㄕ',
	'ㄏ': 'ㄛ', 'ㄍ': 'ㄜ', 'ㄇ': 'ㄢ',
	'ㄋ': 'ㄣ', 'ㄎ': 'ㄤ', 'ㄌ': 'ㄦ',
}

// The ㄐㄑㄒ <-> ㄓㄔㄕ correspondence used by the medial-dependent rewrite:
// ㄐㄑㄒ must be followed by ㄧ or ㄩ, ㄓㄔㄕ must not.
var (
	hsuPalatalToRetroflex = map[rune]rune{'ㄐ': 'ㄓ', 'ㄑ': 'ㄔ', 'ㄒ': 'ㄕ'}
	hsuRetroflexToPalatal = map[rune]rune{'ㄓ': 'ㄐ', 'ㄔ': 'ㄑ', 'ㄕ': 'ㄒ'}
)

// stepHsu implements the Hsu family: overloaded consonant keys, resolved by
// preferring the next unfilled slot, with end-key rewrites.
func (m *SM) stepHsu(key rune) StepResult {
	if key == ' ' {
		return m.commitHsu()
	}

	table := keyStrings[m.Layout]
	occurrences := allOccurrences(table, key)
	if len(occurrences) == 0 {
		return StepResult{Outcome: OutcomeKeyError}
	}

	// Prefer the occurrence that fills the next empty slot in
	// initial -> medial -> rhyme -> tone order; fall back to the first
	// occurrence (overwriting whatever slot it names).
	order := []string{"initial", "medial", "rhyme", "tone"}
	filled := map[string]bool{
		"initial": m.Slot.Initial != 0,
		"medial":  m.Slot.Medial != 0,
		"rhyme":   m.Slot.Rhyme != 0,
		"tone":    m.Slot.Tone != 0,
	}
	chosen := -1
	for _, want := range order {
		for _, idx := range occurrences {
			name, _ := slotOf(idx)
			if name == want && !filled[name] {
				chosen = idx
				break
			}
		}
		if chosen >= 0 {
			break
		}
	}
	if chosen < 0 {
		chosen = occurrences[0]
	}

	name, value := slotOf(chosen)
	switch name {
	case "initial":
		m.Slot.Initial = value
	case "medial":
		m.Slot.Medial = value
	case "rhyme":
		m.Slot.Rhyme = value
	case "tone":
		m.Slot.Tone = value
		return m.commitHsu()
	}
	return StepResult{Outcome: OutcomeAbsorb}
}

// commitHsu applies the Hsu end-key rewrites before packing and committing.
func (m *SM) commitHsu() StepResult {
	if !m.Slot.Entering() {
		return StepResult{Outcome: OutcomeIgnore}
	}

	hasMedialOrRhyme := m.Slot.Medial != 0 || m.Slot.Rhyme != 0
	if m.Slot.Initial != 0 && !hasMedialOrRhyme {
		if g, ok := hsuLoneConsonantRewrite[initials[m.Slot.Initial-1]]; ok {
			rewriteInitial(&m.Slot, g)
		}
	} else if m.Slot.Initial != 0 {
		cur := initials[m.Slot.Initial-1]
		medialIsIOrU := m.Slot.Medial != 0 && (medials[m.Slot.Medial-1] == 'ㄧ' || medials[m.Slot.Medial-1] == 'ㄩ')
		if target, ok := hsuPalatalToRetroflex[cur]; ok && !medialIsIOrU {
			rewriteInitial(&m.Slot, target)
		} else if target, ok := hsuRetroflexToPalatal[cur]; ok && medialIsIOrU {
			rewriteInitial(&m.Slot, target)
		}
	}

	return m.commit()
}

// rewriteInitial replaces the current initial glyph with g, reinterpreting
// it as a rhyme when g is not itself a valid initial (the lone-consonant
// rewrite table mixes both).
func rewriteInitial(slot *PhoneticSyllableSlot, g rune) {
	if idx := runeIndex(initials, g); idx > 0 {
		slot.Initial = idx
		return
	}
	if idx := runeIndex(rhymes, g); idx > 0 {
		slot.Initial = 0
		slot.Rhyme = idx
	}
}

func allOccurrences(s string, k rune) []int {
	var out []int
	for i, r := range s {
		if r == k {
			out = append(out, i)
		}
	}
	return out
}
