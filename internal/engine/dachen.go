package engine

// stepDachen implements the Dachen-CP26 family: most keys map to a single
// slot value, but a handful of keys appear twice in the layout's table and
// repeating the same key toggles between its two occurrences (ㄅ<->ㄆ,
// ㄉ<->ㄊ, ㄓ<->ㄔ, and the rhyme-altering keys u/m/i/o/l/p). e, r, d and y
// double as the layout's tone positions: once a syllable is underway they
// act as commit keys rather than re-entering their consonant reading.
func (m *SM) stepDachen(key rune) StepResult {
	if key == ' ' {
		return m.commit()
	}

	table := keyStrings[LayoutDachenCP26]
	occurrences := allOccurrences(table, key)
	if len(occurrences) == 0 {
		return StepResult{Outcome: OutcomeKeyError}
	}

	if m.Slot.Entering() && m.dachenLastKey != key {
		for _, idx := range occurrences {
			if name, value := slotOf(idx); name == "tone" {
				m.Slot.Tone = value
				m.dachenLastKey = 0
				m.dachenLastRank = 0
				return m.commit()
			}
		}
	}

	rank := 1
	if len(occurrences) > 1 {
		if m.dachenLastKey == key {
			rank = m.dachenLastRank%len(occurrences) + 1
		}
		m.dachenLastKey = key
		m.dachenLastRank = rank
	} else {
		m.dachenLastKey = 0
		m.dachenLastRank = 0
	}

	idx := occurrences[rank-1]
	name, value := slotOf(idx)
	switch name {
	case "initial":
		m.Slot.Initial = value
	case "medial":
		m.Slot.Medial = value
	case "rhyme":
		m.Slot.Rhyme = value
	case "tone":
		m.Slot.Tone = value
		return m.commit()
	}
	return StepResult{Outcome: OutcomeAbsorb}
}
