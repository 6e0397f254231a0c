package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PinyinTable maps pinyin spellings to standard-layout bopomofo key
// strings: one list for initials, one for finals, plus whole-syllable
// entries for spellings that do not split into initial + final.
type PinyinTable struct {
	initials []pinyinEntry
	finals   []pinyinEntry
	whole    map[string]string
}

type pinyinEntry struct {
	pinyin, keys string
}

// LoadPinyinTable parses the on-disk mapping format: an integer count,
// that many "pinyin bopomofo_keys" lines, repeated once for initials and
// once for finals.
func LoadPinyinTable(r io.Reader) (*PinyinTable, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	readCount := func() (int, error) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			var n int
			if _, err := fmt.Sscanf(line, "%d", &n); err != nil {
				return 0, fmt.Errorf("pinyin table: bad count line %q: %w", line, err)
			}
			return n, nil
		}
		return 0, io.ErrUnexpectedEOF
	}

	readEntries := func(n int) ([]pinyinEntry, error) {
		entries := make([]pinyinEntry, 0, n)
		for len(entries) < n && sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, fmt.Errorf("pinyin table: bad entry line %q", line)
			}
			entries = append(entries, pinyinEntry{pinyin: fields[0], keys: fields[1]})
		}
		if len(entries) != n {
			return nil, io.ErrUnexpectedEOF
		}
		return entries, nil
	}

	nInitials, err := readCount()
	if err != nil {
		return nil, err
	}
	initials, err := readEntries(nInitials)
	if err != nil {
		return nil, err
	}

	nFinals, err := readCount()
	if err != nil {
		return nil, err
	}
	finals, err := readEntries(nFinals)
	if err != nil {
		return nil, err
	}

	return &PinyinTable{initials: initials, finals: finals, whole: hanyuWhole}, nil
}

// Palatal (ㄐㄑㄒ) and retroflex (ㄓㄔㄕ) initial keys on the standard
// layout, used by the spelling-dependent fixups below.
var (
	palatalForRetroflex = map[string]string{"5": "r", "t": "f", "g": "v"}
	palatalInitialKeys  = map[string]bool{"r": true, "f": true, "v": true}
)

// translate turns one accumulated pinyin syllable into a primary and an
// alternative bopomofo key string by matching the longest initial prefix,
// then the remaining final. Two spelling conventions need fixups after the
// table match: a ㄨ-row final after ㄐㄑㄒ actually means the ㄩ row (Hanyu
// writes ju for ㄐㄩ), and an overloaded retroflex initial before ㄧ/ㄩ
// means its palatal counterpart (MPS2 writes j for both ㄓ and ㄐ). The
// pre-fixup reading is kept as the alternative.
func (t *PinyinTable) translate(syllable string) (primary, alt string, ok bool) {
	if t == nil {
		return "", "", false
	}
	if keys, found := t.whole[syllable]; found {
		return keys, keys, true
	}

	var initialKeys, rest string
	bestLen := -1
	for _, e := range t.initials {
		if strings.HasPrefix(syllable, e.pinyin) && len(e.pinyin) > bestLen {
			initialKeys = e.keys
			rest = syllable[len(e.pinyin):]
			bestLen = len(e.pinyin)
		}
	}
	if bestLen < 0 {
		rest = syllable
	}

	finalKeys := ""
	if rest != "" {
		found := false
		for _, e := range t.finals {
			if e.pinyin == rest {
				finalKeys = e.keys
				found = true
				break
			}
		}
		if !found {
			return "", "", false
		}
	}

	plain := initialKeys + finalKeys
	fixed := plain
	if palatalInitialKeys[initialKeys] && strings.HasPrefix(finalKeys, "j") {
		fixed = initialKeys + "m" + finalKeys[1:]
	} else if p, isRetroflex := palatalForRetroflex[initialKeys]; isRetroflex &&
		(strings.HasPrefix(finalKeys, "u") || strings.HasPrefix(finalKeys, "m")) {
		fixed = p + finalKeys
	}
	return fixed, plain, true
}

// tonePinyinToStandard remaps a pinyin tone digit onto the standard
// layout's own tone keys: 1 is the unmarked tone (space), 2 and 5 sit on
// different keys, 3 and 4 already match.
func tonePinyinToStandard(toneKey rune) rune {
	switch toneKey {
	case '1':
		return ' '
	case '2':
		return '6'
	case '5':
		return '7'
	default:
		return toneKey
	}
}

// table resolves the active mapping: an explicitly loaded one wins,
// otherwise the layout's built-in table.
func (m *SM) table() *PinyinTable {
	if m.pinyinTable != nil {
		return m.pinyinTable
	}
	return BuiltinPinyinTable(m.Layout)
}

// stepPinyin implements the pinyin family: accumulate ASCII letters, then
// on an end key translate the buffer into one or two bopomofo key strings
// and feed each through the Default state machine.
func (m *SM) stepPinyin(key rune) StepResult {
	isEndKey := key == ' ' || (key >= '0' && key <= '5')
	if !isEndKey {
		if len(m.pinyinBuf) >= 8 {
			return StepResult{Outcome: OutcomeKeyError}
		}
		m.pinyinBuf = append(m.pinyinBuf, key)
		return StepResult{Outcome: OutcomeAbsorb}
	}

	if len(m.pinyinBuf) == 0 {
		return StepResult{Outcome: OutcomeIgnore}
	}

	syllable := string(m.pinyinBuf)
	primaryKeys, altKeys, ok := m.table().translate(syllable)
	if !ok {
		m.Reset()
		return StepResult{Outcome: OutcomeNoWord}
	}

	toneChar := key
	if key != ' ' {
		toneChar = tonePinyinToStandard(key)
	}

	primary := feedStandard(primaryKeys, toneChar)
	var altPhone Phone
	if altKeys != "" && altKeys != primaryKeys {
		altPhone = feedStandard(altKeys, toneChar).Pack()
	}

	phone := primary.Pack()
	if m.checker != nil && !m.checker.HasSingleChar(phone) {
		m.Reset()
		return StepResult{Outcome: OutcomeNoWord}
	}

	m.Reset()
	return StepResult{Outcome: OutcomeCommit, Phone: phone, PhoneAlt: altPhone}
}

// feedStandard replays a bopomofo key string (as produced by the pinyin
// translator) plus a trailing tone key through a scratch Default-family
// slot, with no NoWord checking (the caller checks the combined result).
func feedStandard(keys string, toneChar rune) PhoneticSyllableSlot {
	scratch := &SM{Layout: LayoutDefault}
	for _, k := range keys {
		scratch.stepDefault(k)
	}
	// The tone is set directly: stepDefault would commit on a tone key and
	// clear the scratch slot before it could be returned.
	if toneChar != ' ' {
		if idx := keyIndex(LayoutDefault, toneChar); idx >= 0 {
			if name, value := slotOf(idx); name == "tone" {
				scratch.Slot.Tone = value
			}
		}
	}
	return scratch.Slot
}

// SetPinyinTable attaches an externally loaded mapping, overriding the
// built-in table for the current layout.
func (m *SM) SetPinyinTable(t *PinyinTable) { m.pinyinTable = t }
