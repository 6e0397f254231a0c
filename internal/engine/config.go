package engine

// SelectionKeySets are the candidate-paging key rows a user can choose
// between: digits, the home row, and a couple of split-hand variants.
// Index 0 is the default.
var SelectionKeySets = [][]rune{
	{'1', '2', '3', '4', '5', '6', '7', '8', '9', '0'},
	{'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';'},
	{'a', 's', 'd', 'f', 'j', 'k', 'l', ';'},
	{'a', 's', 'd', 'f', 'g', 'h'},
	{'a', 'o', 'e', 'u', 'h', 't', 'n', 's'},
	{'1', '2', '3', '4', '5', '6', '7', '8'},
	{'1', '2', '3', '4', '5', '6'},
}

// AddPhraseDirection controls whether a manually learned phrase's cursor
// range is read forward or backward from the current cursor position.
type AddPhraseDirection int

const (
	AddPhraseForward AddPhraseDirection = iota
	AddPhraseBackward
)

// EngineConfig bundles every host-tunable behavior as a flat settings
// struct rather than a bag of untyped options.
type EngineConfig struct {
	Layout              Layout
	CandidatesPerPage   int
	MaxPreeditLen       int
	SelectionKeys       []rune
	AddPhraseDirection  AddPhraseDirection
	SpaceAsSelection    bool
	EscCleanAll         bool
	AutoShiftCursor     bool
	EasySymbolInput     bool
	PhraseChoiceRearward bool
	ChineseEnglishMode  bool
	FullHalfShape       bool
}

// DefaultConfig returns the engine's out-of-the-box configuration.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		Layout:               LayoutDefault,
		CandidatesPerPage:    10,
		MaxPreeditLen:        50,
		SelectionKeys:        append([]rune(nil), SelectionKeySets[0]...),
		AddPhraseDirection:   AddPhraseForward,
		SpaceAsSelection:     false,
		EscCleanAll:          false,
		AutoShiftCursor:      false,
		EasySymbolInput:      false,
		PhraseChoiceRearward: false,
		ChineseEnglishMode:   true,
		FullHalfShape:        false,
	}
}

// ConfiguredEngine wraps an EngineConfig with Get/Set accessors.
type ConfiguredEngine struct {
	cfg EngineConfig
}

func NewConfiguredEngine(cfg EngineConfig) *ConfiguredEngine {
	return &ConfiguredEngine{cfg: cfg}
}

func (c *ConfiguredEngine) Config() EngineConfig { return c.cfg }

func (c *ConfiguredEngine) SetLayout(l Layout) { c.cfg.Layout = l }
func (c *ConfiguredEngine) Layout() Layout      { return c.cfg.Layout }

func (c *ConfiguredEngine) SetCandidatesPerPage(n int) {
	if n > 0 {
		c.cfg.CandidatesPerPage = n
	}
}
func (c *ConfiguredEngine) CandidatesPerPage() int { return c.cfg.CandidatesPerPage }

func (c *ConfiguredEngine) SetMaxPreeditLen(n int) {
	if n > 0 {
		c.cfg.MaxPreeditLen = n
	}
}
func (c *ConfiguredEngine) MaxPreeditLen() int { return c.cfg.MaxPreeditLen }

// SetSelectionKeys accepts at most 10 keys; longer sets are truncated
// rather than rejected outright.
func (c *ConfiguredEngine) SetSelectionKeys(keys []rune) {
	if len(keys) == 0 {
		return
	}
	if len(keys) > 10 {
		keys = keys[:10]
	}
	c.cfg.SelectionKeys = append([]rune(nil), keys...)
	c.cfg.CandidatesPerPage = len(c.cfg.SelectionKeys)
}
func (c *ConfiguredEngine) SelectionKeys() []rune { return c.cfg.SelectionKeys }

func (c *ConfiguredEngine) SetAddPhraseDirection(d AddPhraseDirection) { c.cfg.AddPhraseDirection = d }
func (c *ConfiguredEngine) SetSpaceAsSelection(b bool)                 { c.cfg.SpaceAsSelection = b }
func (c *ConfiguredEngine) SetEscCleanAll(b bool)                      { c.cfg.EscCleanAll = b }
func (c *ConfiguredEngine) SetAutoShiftCursor(b bool)                  { c.cfg.AutoShiftCursor = b }
func (c *ConfiguredEngine) SetEasySymbolInput(b bool)                  { c.cfg.EasySymbolInput = b }
func (c *ConfiguredEngine) SetPhraseChoiceRearward(b bool)             { c.cfg.PhraseChoiceRearward = b }
func (c *ConfiguredEngine) SetChineseEnglishMode(b bool)               { c.cfg.ChineseEnglishMode = b }
func (c *ConfiguredEngine) ChineseEnglishMode() bool                   { return c.cfg.ChineseEnglishMode }
func (c *ConfiguredEngine) SetFullHalfShape(b bool)                    { c.cfg.FullHalfShape = b }
func (c *ConfiguredEngine) FullHalfShape() bool                        { return c.cfg.FullHalfShape }
