package preedit

import (
	"strings"

	"github.com/username/zhuyin-ime/internal/engine"
	"github.com/username/zhuyin-ime/internal/segment"
)

// pinnedInterval is a manually selected span, never split by the segmenter
// until the underlying phones change.
type pinnedInterval struct {
	from, to int
	phrase   string
}

// Controller owns the preedit buffer, cursor, breakpoints, selection
// overlay, and candidate state. It holds no locks; it is owned exclusively
// by one host thread.
type Controller struct {
	cfg     *engine.ConfiguredEngine
	sm      *engine.SM
	source  PhraseSource
	learner UserLearner

	phones   []engine.Phone
	altPhone []engine.Phone
	items    []Item
	breaks   []bool
	connects []bool
	cursor   int
	pinned   []pinnedInterval

	selActive bool
	selAnchor int
	selExtent int // signed, |extent| <= 9

	mode      Mode
	candidate CandidatePage

	commitText string
	auxMessage string
	lastCover  []segment.Interval
	numCut     int
}

// NewController wires an SM, a combined dictionary+user-store candidate
// source, and a user learner into a fresh, empty preedit.
func NewController(cfg *engine.ConfiguredEngine, sm *engine.SM, source PhraseSource, learner UserLearner) *Controller {
	return &Controller{
		cfg:      cfg,
		sm:       sm,
		source:   source,
		learner:  learner,
		breaks:   []bool{false},
		connects: []bool{false},
	}
}

// Reset clears all controller state; repeated resets are idempotent.
func (c *Controller) Reset() {
	c.sm.Reset()
	c.phones = nil
	c.altPhone = nil
	c.items = nil
	c.breaks = []bool{false}
	c.connects = []bool{false}
	c.cursor = 0
	c.pinned = nil
	c.selActive = false
	c.mode = ModeEditing
	c.candidate = CandidatePage{}
	c.commitText = ""
	c.auxMessage = ""
	c.lastCover = nil
	c.numCut = 0
}

func (c *Controller) candidateLookup(phones []engine.Phone) []segment.Candidate {
	return c.source.Candidates(phones)
}

// recompute re-runs the segmenter after any operation that touched the
// phone buffer or break/connect arrays. Always a full pass; the buffer is
// capped at MaxPreeditLen phones (50 by default), so there is nothing to win from incremental
// recomputation.
func (c *Controller) recompute() {
	pinned := make([]segment.Interval, len(c.pinned))
	for i, p := range c.pinned {
		pinned[i] = segment.Interval{From: p.from, To: p.to, Phrase: p.phrase, Pinned: true}
	}
	opts := segment.Options{
		Break:     c.breaks,
		Connect:   c.connects,
		Pinned:    pinned,
		NumCut:    c.numCut,
		Disprefer: c.lastCover,
	}
	c.lastCover = segment.Segment(c.phones, opts, c.candidateLookup)
}

// snapshot assembles the output struct returned from every operation.
func (c *Controller) snapshot(flags Flags) Snapshot {
	var preedit strings.Builder
	for _, it := range c.items {
		preedit.WriteString(it.Text)
	}
	var cp *CandidatePage
	if c.mode == ModeCandidateSelection {
		page := c.candidate
		cp = &page
	}
	commit := c.commitText
	c.commitText = ""
	aux := c.auxMessage
	c.auxMessage = ""
	return Snapshot{
		PreeditUTF8:      preedit.String(),
		Cursor:           c.cursor,
		DisplayIntervals: c.lastCover,
		BreakDisplay:     append([]bool(nil), c.breaks...),
		CommitUTF8:       commit,
		BopomofoDisplay:  c.sm.Slot.Pack().String(),
		AuxMessage:       aux,
		CandidatePage:    cp,
		Flags:            flags,
	}
}

// insertChinese inserts one committed phone (and its optional homophone
// alternative) at the cursor as a Chinese preedit item.
func (c *Controller) insertChinese(phone, alt engine.Phone, text string) {
	i := c.cursor
	c.phones = insertPhone(c.phones, i, phone)
	c.altPhone = insertPhone(c.altPhone, i, alt)
	c.items = insertItem(c.items, i, Item{Tag: ItemChinese, Text: text})
	c.breaks = insertBool(c.breaks, i+1, false)
	c.connects = insertBool(c.connects, i+1, false)
	shiftPinnedAfterInsert(c.pinned, i)
	c.cursor++
}

func insertPhone(s []engine.Phone, i int, v engine.Phone) []engine.Phone {
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertItem(s []Item, i int, v Item) []Item {
	s = append(s, Item{})
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func insertBool(s []bool, i int, v bool) []bool {
	s = append(s, false)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func shiftPinnedAfterInsert(pinned []pinnedInterval, at int) {
	for i := range pinned {
		if pinned[i].from >= at {
			pinned[i].from++
			pinned[i].to++
		}
	}
}

// removeAt deletes the preedit item (and phone/break/connect slots) at
// index i, dropping any pinned interval it overlapped.
func (c *Controller) removeAt(i int) {
	if i < 0 || i >= len(c.items) {
		return
	}
	c.phones = append(c.phones[:i], c.phones[i+1:]...)
	c.altPhone = append(c.altPhone[:i], c.altPhone[i+1:]...)
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.breaks = append(c.breaks[:i+1], c.breaks[i+2:]...)
	c.connects = append(c.connects[:i+1], c.connects[i+2:]...)
	c.pinned = dropOverlapping(c.pinned, i, i+1)
	for j := range c.pinned {
		if c.pinned[j].from > i {
			c.pinned[j].from--
			c.pinned[j].to--
		}
	}
}

func dropOverlapping(pinned []pinnedInterval, from, to int) []pinnedInterval {
	out := pinned[:0:0]
	for _, p := range pinned {
		if p.to <= from || p.from >= to {
			out = append(out, p)
		}
	}
	return out
}

// rewriteItemsForPinned rewrites items[from:to) with the chosen phrase's
// graphemes, one item per phone: a multi-character phrase still occupies
// one preedit item per phone.
func (c *Controller) rewriteItemsForPinned(from, to int, phrase string) {
	runes := []rune(phrase)
	if len(runes) != to-from {
		return
	}
	for i, r := range runes {
		c.items[from+i] = Item{Tag: ItemChinese, Text: string(r)}
	}
}
