package engine

import "strings"

// combinedGlyphs lists every bopomofo glyph in slot order: initials, then
// medials, then rhymes, then tones. keyStrings[layout][i] names the physical
// key that produces combinedGlyphs[i] on that layout.
var combinedGlyphs = func() []rune {
	var all []rune
	all = append(all, initials...)
	all = append(all, medials...)
	all = append(all, rhymes...)
	all = append(all, tones...)
	return all
}()

const (
	initialEnd = 21             // len(initials)
	medialEnd  = initialEnd + 3 // len(medials)
	rhymeEnd   = medialEnd + 13 // len(rhymes)
	toneEnd    = rhymeEnd + 4   // len(tones)
)

// keyStrings are the per-layout physical-key tables, one key per position in
// combinedGlyphs.
var keyStrings = map[Layout]string{
	LayoutDefault:     "1qaz2wsxedcrfv5tgbyhnujm8ik,9ol.0p;/-7634",
	LayoutHsu:         "bpmfdtnlgkhjvcjvcrzasexuyhgeiawomnkllsdfj",
	LayoutIBM:         "1234567890-qwertyuiopasdfghjkl;zxcvbn/m,.",
	LayoutGinYieh:     "2wsx3edcrfvtgb6yhnujm8ik,9ol.0p;/-['=1qaz",
	LayoutET:          "bpmfdtnlvkhg7c,./j;'sexuaorwiqzy890-=1234",
	LayoutET26:        "bpmfdtnlvkhgvcgycjqwsexuaorwiqzpmntlhdfjk",
	LayoutDvorak:      "1'a;2,oq.ejpuk5yixfdbghm8ctw9rnv0lsz[7634",
	LayoutDvorakHsu:   "bpmfdtnlgkhjvcjvcrzasexuyhgeiawomnkllsdfj",
	LayoutCarpalx:     "qhoujkyf'weif;dscntgpmxbz,arli./107,4963",
	LayoutDachenCP26:  "qqazwwsxedcrfvttgbyhnujmuikbiolmoplnpyerd",
	LayoutHanyuPinyin: "1qaz2wsxedcrfv5tgbyhnujm8ik,9ol.0p;/-7634",
	LayoutTHLPinyin:   "1qaz2wsxedcrfv5tgbyhnujm8ik,9ol.0p;/-7634",
	LayoutMPS2Pinyin:  "1qaz2wsxedcrfv5tgbyhnujm8ik,9ol.0p;/-7634",
}

// slotOf reports which syllable slot combinedGlyphs[idx] belongs to, and the
// 1-based index within that slot's table.
func slotOf(idx int) (slot string, value int) {
	switch {
	case idx < initialEnd:
		return "initial", idx + 1
	case idx < medialEnd:
		return "medial", idx - initialEnd + 1
	case idx < rhymeEnd:
		return "rhyme", idx - medialEnd + 1
	case idx < toneEnd:
		return "tone", idx - rhymeEnd + 1
	default:
		return "", 0
	}
}

// phoneFromKeys walks the layout's key table for each key of an
// already-assembled key string, in slot order {initial, medial, rhyme,
// tone}; searchRank selects the n-th match among overloaded keys (Hsu-style
// layouts let one physical key mean more than one bopomofo symbol depending
// on position).
func phoneFromKeys(keys string, layout Layout, searchRank int) PhoneticSyllableSlot {
	table := keyStrings[layout]
	var slot PhoneticSyllableSlot
	for _, k := range keys {
		idx := findNth(table, k, searchRank)
		if idx < 0 {
			continue
		}
		name, value := slotOf(idx)
		switch name {
		case "initial":
			slot.Initial = value
		case "medial":
			slot.Medial = value
		case "rhyme":
			slot.Rhyme = value
		case "tone":
			slot.Tone = value
		}
	}
	return slot
}

// findNth returns the index of the n-th (1-based) occurrence of k in s, or
// -1 if there are fewer than n occurrences.
func findNth(s string, k rune, n int) int {
	if n < 1 {
		n = 1
	}
	count := 0
	for i, r := range s {
		if r == k {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

// keyIndex returns the 0-based position of k in layout's key table, or -1.
func keyIndex(layout Layout, k rune) int {
	return strings.IndexRune(keyStrings[layout], k)
}
