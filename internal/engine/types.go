// Package engine implements the bopomofo keyboard state machine, the
// phonetic codec, and the pinyin front end that feeds it.
package engine

// NamedKey enumerates the non-printable keys the engine understands.
type NamedKey int

const (
	KeyNone NamedKey = iota
	KeySpace
	KeyEsc
	KeyEnter
	KeyDelete
	KeyBackspace
	KeyTab
	KeyDblTab
	KeyShiftLeft
	KeyLeft
	KeyShiftRight
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyCapslock
	KeyShiftSpace
)

// Layout identifies one of the supported bopomofo/pinyin keyboard layouts.
type Layout int

const (
	LayoutDefault Layout = iota
	LayoutHsu
	LayoutIBM
	LayoutGinYieh
	LayoutET
	LayoutET26
	LayoutDvorak
	LayoutDvorakHsu
	LayoutCarpalx
	LayoutDachenCP26
	LayoutHanyuPinyin
	LayoutTHLPinyin
	LayoutMPS2Pinyin
)

// Family groups layouts that share keystroke-processing semantics.
type Family int

const (
	FamilyDefault Family = iota
	FamilyHsu
	FamilyDachenCP26
	FamilyPinyin
)

func (l Layout) Family() Family {
	switch l {
	case LayoutHsu, LayoutDvorakHsu, LayoutET26:
		return FamilyHsu
	case LayoutDachenCP26:
		return FamilyDachenCP26
	case LayoutHanyuPinyin, LayoutTHLPinyin, LayoutMPS2Pinyin:
		return FamilyPinyin
	default:
		return FamilyDefault
	}
}

// Outcome is the result of feeding one key into the bopomofo state machine.
type Outcome int

const (
	OutcomeIgnore Outcome = iota
	OutcomeAbsorb
	OutcomeCommit
	OutcomeKeyError
	OutcomeNoWord
	OutcomeOpenSymbolTable
)

// StepResult is returned by Step; Phone/PhoneAlt are only meaningful when
// Outcome == OutcomeCommit.
type StepResult struct {
	Outcome  Outcome
	Phone    Phone
	PhoneAlt Phone // alternative homophone reading, 0 if none (pinyin only)
}
