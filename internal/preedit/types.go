// Package preedit implements the preedit controller: the authoritative
// owner of the preedit buffer, cursor, breakpoints, selection overlay, and
// candidate state, sitting between the host and the bopomofo state machine
// / segmenter / user store.
package preedit

import (
	"github.com/username/zhuyin-ime/internal/engine"
	"github.com/username/zhuyin-ime/internal/segment"
)

// ItemTag classifies one preedit position.
type ItemTag int

const (
	ItemNone ItemTag = iota
	ItemChinese
	ItemSymbol
)

// Item is one preedit position: a tag plus the grapheme displayed there.
type Item struct {
	Tag  ItemTag
	Text string
}

// Flags is the keystroke-result bitset returned to the host. Bell is a
// flag, not an error.
type Flags uint8

const (
	FlagIgnore Flags = 1 << iota
	FlagCommit
	FlagBell
	FlagAbsorb
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Mode distinguishes ordinary editing from candidate selection.
type Mode int

const (
	ModeEditing Mode = iota
	ModeCandidateSelection
)

// CandidatePage is the paging state of an open candidate overlay.
type CandidatePage struct {
	Choices      []string
	PageSize     int
	CurrentPage  int
	TotalPages   int
	OriginCursor int
	targetFrom   int
	targetTo     int
	lengths      []int // phrase lengths available at this position, for re-open cycling
	lengthIdx    int
}

// Snapshot is the output produced after any state-changing operation.
// CommitUTF8 and AuxMessage are delivered once and cleared.
type Snapshot struct {
	PreeditUTF8      string
	Cursor           int
	DisplayIntervals []segment.Interval
	BreakDisplay     []bool
	CommitUTF8       string
	BopomofoDisplay  string
	AuxMessage       string
	CandidatePage    *CandidatePage
	Flags            Flags
}

// PhraseSource resolves a phone span to candidate readings, backing the
// segmenter and the candidate-open path. Dictionary and user-store results
// are merged by the caller that constructs this (see NewController).
type PhraseSource interface {
	Candidates(phones []engine.Phone) []segment.Candidate
}

// UserLearner is the subset of the user store the controller needs for
// auto-learn and manual add-phrase.
type UserLearner interface {
	Upsert(phoneSeq []engine.Phone, phrase string) error
	Tick()
}
