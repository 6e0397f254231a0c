package preedit

import (
	"strings"

	"github.com/username/zhuyin-ime/internal/engine"
)

// FeedKey handles one printable ASCII key, dispatched by the current mode:
// candidate selection first, then the bopomofo SM in Chinese mode, else a
// plain symbol insert.
func (c *Controller) FeedKey(key rune) Snapshot {
	if c.mode == ModeCandidateSelection {
		return c.feedKeyInCandidateMode(key)
	}
	if c.cfg.ChineseEnglishMode() {
		return c.feedToSM(key)
	}
	return c.insertSymbol(key)
}

func (c *Controller) feedKeyInCandidateMode(key rune) Snapshot {
	for idx, k := range c.cfg.SelectionKeys() {
		if k == key {
			c.chooseCandidateIndex(idx)
			return c.snapshot(FlagCommit)
		}
	}
	switch key {
	case 'j':
		c.moveSelectable(-1)
		return c.snapshot(FlagAbsorb)
	case 'k':
		c.moveSelectable(1)
		return c.snapshot(FlagAbsorb)
	}
	return c.snapshot(FlagIgnore)
}

func (c *Controller) moveSelectable(dir int) {
	i := c.candidate.targetFrom + dir
	for i >= 0 && i < len(c.items) && c.items[i].Tag != ItemChinese {
		i += dir
	}
	if i < 0 || i >= len(c.items) {
		return
	}
	c.cursor = i
	c.OpenCandidates()
}

// feedToSM forwards one key to the bopomofo state machine and applies its
// outcome.
func (c *Controller) feedToSM(key rune) Snapshot {
	res := c.sm.Step(key)
	switch res.Outcome {
	case engine.OutcomeIgnore:
		return c.snapshot(FlagIgnore)
	case engine.OutcomeAbsorb:
		return c.snapshot(FlagAbsorb)
	case engine.OutcomeKeyError:
		return c.snapshot(FlagBell)
	case engine.OutcomeNoWord:
		return c.snapshot(FlagAbsorb | FlagBell)
	case engine.OutcomeOpenSymbolTable:
		// Symbol-category tables belong to the host shell, not this
		// engine; surface a bell instead of a symbol menu.
		c.auxMessage = "symbol table unavailable"
		return c.snapshot(FlagBell)
	case engine.OutcomeCommit:
		if len(c.items) >= c.cfg.MaxPreeditLen() {
			return c.snapshot(FlagBell)
		}
		text := c.topSingleCharReading(res.Phone)
		c.insertChinese(res.Phone, res.PhoneAlt, text)
		c.recompute()
		return c.snapshot(FlagCommit)
	}
	return c.snapshot(FlagIgnore)
}

func (c *Controller) topSingleCharReading(phone engine.Phone) string {
	cands := c.source.Candidates([]engine.Phone{phone})
	if len(cands) == 0 {
		return ""
	}
	best := cands[0]
	for _, cd := range cands[1:] {
		if cd.Freq > best.Freq {
			best = cd
		}
	}
	return best.Phrase
}

// insertSymbol inserts a non-Chinese key as a Symbol placeholder item; the
// raw key is stored verbatim. Symbol positions force an implicit break on
// both sides.
func (c *Controller) insertSymbol(key rune) Snapshot {
	if len(c.items) >= c.cfg.MaxPreeditLen() {
		return c.snapshot(FlagBell)
	}
	i := c.cursor
	c.phones = insertPhone(c.phones, i, 0)
	c.altPhone = insertPhone(c.altPhone, i, 0)
	c.items = insertItem(c.items, i, Item{Tag: ItemSymbol, Text: string(key)})
	c.breaks = insertBool(c.breaks, i+1, true)
	c.connects = insertBool(c.connects, i+1, false)
	c.breaks[i] = true
	shiftPinnedAfterInsert(c.pinned, i)
	c.cursor++
	c.recompute()
	return c.snapshot(FlagAbsorb)
}

// Named dispatches one named (non-printable) key.
func (c *Controller) Named(key engine.NamedKey) Snapshot {
	switch key {
	case engine.KeySpace:
		return c.feedSpace()
	case engine.KeyEsc:
		return c.namedEsc()
	case engine.KeyEnter:
		return c.namedEnter()
	case engine.KeyDelete:
		return c.namedDelete()
	case engine.KeyBackspace:
		return c.namedBackspace()
	case engine.KeyTab:
		return c.namedTab()
	case engine.KeyDblTab:
		return c.namedDblTab()
	case engine.KeyHome:
		c.cursor = 0
		return c.snapshot(FlagAbsorb)
	case engine.KeyEnd:
		c.cursor = len(c.items)
		return c.snapshot(FlagAbsorb)
	case engine.KeyLeft:
		return c.namedLeft()
	case engine.KeyRight:
		return c.namedRight()
	case engine.KeyUp:
		if c.mode == ModeCandidateSelection {
			c.moveSelectable(1)
		}
		return c.snapshot(FlagAbsorb)
	case engine.KeyDown:
		if c.mode == ModeCandidateSelection {
			c.moveSelectable(-1)
		}
		return c.snapshot(FlagAbsorb)
	case engine.KeyPageUp:
		if c.mode == ModeCandidateSelection {
			c.prevPage()
		}
		return c.snapshot(FlagAbsorb)
	case engine.KeyPageDown:
		if c.mode == ModeCandidateSelection {
			c.nextPage()
		}
		return c.snapshot(FlagAbsorb)
	case engine.KeyShiftLeft:
		c.extendSelection(-1)
		return c.snapshot(FlagAbsorb)
	case engine.KeyShiftRight:
		c.extendSelection(1)
		return c.snapshot(FlagAbsorb)
	case engine.KeyCapslock:
		c.sm.Reset()
		c.cfg.SetChineseEnglishMode(!c.cfg.Config().ChineseEnglishMode)
		return c.snapshot(FlagAbsorb)
	case engine.KeyShiftSpace:
		c.cfg.SetFullHalfShape(!c.cfg.Config().FullHalfShape)
		return c.snapshot(FlagAbsorb)
	}
	return c.snapshot(FlagIgnore)
}

func (c *Controller) feedSpace() Snapshot {
	if c.mode == ModeCandidateSelection {
		if c.cfg.Config().SpaceAsSelection {
			c.chooseCandidateIndex(0)
			return c.snapshot(FlagCommit)
		}
		c.nextPage()
		return c.snapshot(FlagAbsorb)
	}
	if c.cfg.ChineseEnglishMode() {
		return c.feedToSM(' ')
	}
	return c.insertSymbol(' ')
}

func (c *Controller) namedEsc() Snapshot {
	if c.mode == ModeCandidateSelection {
		c.closeCandidates()
		return c.snapshot(FlagAbsorb)
	}
	if c.sm.Entering() {
		c.sm.Reset()
		return c.snapshot(FlagAbsorb)
	}
	if c.cfg.Config().EscCleanAll {
		c.clearBuffer()
		return c.snapshot(FlagAbsorb)
	}
	return c.snapshot(FlagIgnore)
}

func (c *Controller) clearBuffer() {
	c.phones = nil
	c.altPhone = nil
	c.items = nil
	c.breaks = []bool{false}
	c.connects = []bool{false}
	c.cursor = 0
	c.pinned = nil
	c.selActive = false
	c.recompute()
}

// namedEnter either commits the whole preedit or, if a manual selection
// range is active, learns a phrase of the selected length.
func (c *Controller) namedEnter() Snapshot {
	if c.selActive && c.selExtent != 0 {
		d := c.selExtent
		if d < 0 {
			d = -d
		}
		flags := c.learnPhraseAround(d)
		c.selActive = false
		return c.snapshot(flags)
	}
	if len(c.items) == 0 {
		return c.snapshot(FlagIgnore)
	}

	var commit strings.Builder
	for _, iv := range c.lastCover {
		commit.WriteString(iv.Phrase)
	}
	c.autoLearn()
	text := commit.String()
	c.Reset()
	c.commitText = text
	return c.snapshot(FlagCommit)
}

// autoLearn upserts every segmenter-chosen interval of length >= 2 into
// the user store. Single characters are not learned.
func (c *Controller) autoLearn() {
	if c.learner == nil {
		return
	}
	for _, iv := range c.lastCover {
		if iv.To-iv.From < 2 {
			continue
		}
		c.learner.Upsert(append([]engine.Phone(nil), c.phones[iv.From:iv.To]...), iv.Phrase)
	}
}

func (c *Controller) namedDelete() Snapshot {
	if c.mode == ModeCandidateSelection {
		c.closeCandidates()
		return c.snapshot(FlagAbsorb)
	}
	if c.cursor >= len(c.items) {
		return c.snapshot(FlagIgnore)
	}
	c.removeAt(c.cursor)
	c.recompute()
	return c.snapshot(FlagAbsorb)
}

func (c *Controller) namedBackspace() Snapshot {
	if c.mode == ModeCandidateSelection {
		c.closeCandidates()
		return c.snapshot(FlagAbsorb)
	}
	if c.sm.Entering() {
		c.sm.RemoveLast()
		return c.snapshot(FlagAbsorb)
	}
	if c.cursor == 0 {
		return c.snapshot(FlagIgnore)
	}
	c.removeAt(c.cursor - 1)
	c.cursor--
	c.recompute()
	return c.snapshot(FlagAbsorb)
}

func (c *Controller) namedLeft() Snapshot {
	if c.mode == ModeCandidateSelection {
		c.prevPage()
		return c.snapshot(FlagAbsorb)
	}
	if c.cursor > 0 {
		c.cursor--
	}
	return c.snapshot(FlagAbsorb)
}

func (c *Controller) namedRight() Snapshot {
	if c.mode == ModeCandidateSelection {
		c.nextPage()
		return c.snapshot(FlagAbsorb)
	}
	if c.cursor < len(c.items) {
		c.cursor++
	}
	return c.snapshot(FlagAbsorb)
}

// extendSelection grows the manual-selection range, bounded to 9 positions
// in either direction.
func (c *Controller) extendSelection(dir int) {
	if !c.selActive {
		c.selActive = true
		c.selAnchor = c.cursor
		c.selExtent = 0
	}
	next := c.selExtent + dir
	if next > 9 {
		next = 9
	}
	if next < -9 {
		next = -9
	}
	c.selExtent = next
}

// namedTab: at end-of-buffer Tab cycles to an alternative segmentation;
// elsewhere it cycles the break/connect bit at the cursor.
func (c *Controller) namedTab() Snapshot {
	if c.cursor >= len(c.items) {
		c.numCut++
		c.recompute()
		return c.snapshot(FlagAbsorb)
	}
	k := c.cursor
	if c.breaks[k] {
		c.breaks[k] = false
		c.connects[k] = true
	} else if c.connects[k] {
		c.connects[k] = false
	} else {
		c.breaks[k] = true
	}
	c.recompute()
	return c.snapshot(FlagAbsorb)
}

func (c *Controller) namedDblTab() Snapshot {
	k := c.cursor
	if k < len(c.breaks) {
		c.breaks[k] = false
	}
	if k < len(c.connects) {
		c.connects[k] = false
	}
	c.recompute()
	return c.snapshot(FlagAbsorb)
}

// CtrlNum handles Ctrl+<digit d>, d in [2,9]: add a user phrase of length
// d around the cursor, direction per config.
func (c *Controller) CtrlNum(d int) Snapshot {
	if d < 2 || d > 9 {
		return c.snapshot(FlagIgnore)
	}
	flags := c.learnPhraseAround(d)
	return c.snapshot(flags)
}

func (c *Controller) learnPhraseAround(length int) Flags {
	var from, to int
	if c.cfg.Config().AddPhraseDirection == engine.AddPhraseBackward {
		from, to = c.cursor, c.cursor+length
	} else {
		from, to = c.cursor-length, c.cursor
	}
	if from < 0 || to > len(c.items) || from >= to {
		return FlagBell
	}
	for _, it := range c.items[from:to] {
		if it.Tag != ItemChinese {
			return FlagBell
		}
	}

	var phrase strings.Builder
	for _, it := range c.items[from:to] {
		phrase.WriteString(it.Text)
	}
	if c.learner != nil {
		if err := c.learner.Upsert(append([]engine.Phone(nil), c.phones[from:to]...), phrase.String()); err != nil {
			return FlagBell
		}
	}
	for k := from + 1; k < to; k++ {
		c.breaks[k] = false
	}
	c.auxMessage = "learned phrase: " + phrase.String()
	c.recompute()
	return FlagAbsorb
}

