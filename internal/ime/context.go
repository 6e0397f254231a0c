package ime

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/username/zhuyin-ime/internal/dict"
	"github.com/username/zhuyin-ime/internal/engine"
	"github.com/username/zhuyin-ime/internal/preedit"
	"github.com/username/zhuyin-ime/internal/userdb"
)

// Files expected under systemPath and userPath.
const (
	dictIndexFile = "tree.dat"
	dictBlobFile  = "phrase.dat"
	pinyinMapFile = "pinyin.tab"
	userDBFile    = "user.db"
)

// Context is one engine instance. It owns its SM, preedit controller, and
// user-store handle exclusively; the dictionary handle is ref-counted and
// may be shared with sibling contexts in the same process.
type Context struct {
	logger *log.Logger

	dictionary *dict.Dictionary
	store      *userdb.Store
	source     *combinedSource

	cfg        *engine.ConfiguredEngine
	sm         *engine.SM
	controller *preedit.Controller
}

// New opens a context over the dictionary at systemPath and the user
// store at userPath. logger may be nil, in which case log output is
// discarded.
func New(systemPath, userPath string, logger *log.Logger) (*Context, error) {
	if logger == nil {
		logger = log.New(devNull{}, "", 0)
	}

	d, err := dict.Open(filepath.Join(systemPath, dictIndexFile), filepath.Join(systemPath, dictBlobFile))
	if err != nil {
		return nil, fmt.Errorf("ime: open dictionary: %w", err)
	}

	store, err := userdb.Open(filepath.Join(userPath, userDBFile))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("ime: open user store: %w", err)
	}
	store.SetLogger(logger)

	cfg := engine.NewConfiguredEngine(engine.DefaultConfig())
	sm := engine.NewSM(cfg.Layout(), d)
	if table := loadPinyinMap(filepath.Join(systemPath, pinyinMapFile), logger); table != nil {
		sm.SetPinyinTable(table)
	}
	source := &combinedSource{dictionary: d, store: store}
	controller := preedit.NewController(cfg, sm, source, store)

	return &Context{
		logger:     logger,
		dictionary: d,
		store:      store,
		source:     source,
		cfg:        cfg,
		sm:         sm,
		controller: controller,
	}, nil
}

type devNull struct{}

func (devNull) Write(p []byte) (int, error) { return len(p), nil }

// loadPinyinMap reads an optional external pinyin mapping file. A missing
// file is fine (the built-in tables apply); a malformed one is logged and
// skipped.
func loadPinyinMap(path string, logger *log.Logger) *engine.PinyinTable {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	table, err := engine.LoadPinyinTable(f)
	if err != nil {
		logger.Printf("ime: ignoring pinyin map %s: %v", path, err)
		return nil
	}
	return table
}

// Reset clears preedit/SM state without closing the dictionary or user
// store.
func (c *Context) Reset() { c.controller.Reset() }

// Close releases the user store and this context's reference to the
// shared dictionary handle.
func (c *Context) Close() error {
	err1 := c.store.Close()
	err2 := c.dictionary.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// Config returns the current configuration.
func (c *Context) Config() engine.EngineConfig { return c.cfg.Config() }

// SetLayout changes the active keyboard layout. The SM is reset rather
// than rebuilt so the controller's reference to it stays valid; a pending
// syllable would otherwise straddle two layouts' slot semantics.
func (c *Context) SetLayout(l engine.Layout) {
	c.cfg.SetLayout(l)
	c.sm.Layout = l
	c.sm.Reset()
}

func (c *Context) SetCandidatesPerPage(n int)               { c.cfg.SetCandidatesPerPage(n) }
func (c *Context) SetMaxPreeditLen(n int)                   { c.cfg.SetMaxPreeditLen(n) }
func (c *Context) SetSelectionKeys(keys []rune)             { c.cfg.SetSelectionKeys(keys) }
func (c *Context) SetAddPhraseDirection(d engine.AddPhraseDirection) { c.cfg.SetAddPhraseDirection(d) }
func (c *Context) SetSpaceAsSelection(b bool)               { c.cfg.SetSpaceAsSelection(b) }
func (c *Context) SetEscCleanAll(b bool)                    { c.cfg.SetEscCleanAll(b) }
func (c *Context) SetAutoShiftCursor(b bool)                { c.cfg.SetAutoShiftCursor(b) }
func (c *Context) SetEasySymbolInput(b bool)                { c.cfg.SetEasySymbolInput(b) }
func (c *Context) SetPhraseChoiceRearward(b bool)           { c.cfg.SetPhraseChoiceRearward(b) }
func (c *Context) SetChineseEnglishMode(b bool)             { c.cfg.SetChineseEnglishMode(b) }
func (c *Context) SetFullHalfShape(b bool)                  { c.cfg.SetFullHalfShape(b) }

// Default is the printable-ASCII key handler.
func (c *Context) Default(ch rune) preedit.Snapshot {
	c.store.Tick()
	return c.controller.FeedKey(ch)
}

// Named dispatches one of the named key handlers.
func (c *Context) Named(key engine.NamedKey) preedit.Snapshot {
	c.store.Tick()
	return c.controller.Named(key)
}

// CtrlNum implements the Ctrl+<digit> handler, d in [2,9].
func (c *Context) CtrlNum(d int) preedit.Snapshot {
	c.store.Tick()
	return c.controller.CtrlNum(d)
}

// Numlock handles a keypad digit: it behaves like the corresponding
// printable digit (a selection key in candidate mode, a symbol otherwise).
func (c *Context) Numlock(d int) preedit.Snapshot {
	if d < 0 || d > 9 {
		c.store.Tick()
		return c.controller.Named(engine.KeyNone)
	}
	return c.Default(rune('0' + d))
}

// OpenCandidates implements the candidate-control "open" operation.
func (c *Context) OpenCandidates() { c.controller.OpenCandidates() }

// Candidate control: close, first, last, next, prev, has_next, has_prev,
// choose_by_index.
func (c *Context) CloseCandidates()        { c.controller.CloseCandidates() }
func (c *Context) FirstCandidatePage()     { c.controller.FirstPage() }
func (c *Context) LastCandidatePage()      { c.controller.LastPage() }
func (c *Context) NextCandidatePage()      { c.controller.NextPage() }
func (c *Context) PrevCandidatePage()      { c.controller.PrevPage() }
func (c *Context) HasNextCandidatePage() bool { return c.controller.HasNextPage() }
func (c *Context) HasPrevCandidatePage() bool { return c.controller.HasPrevPage() }
func (c *Context) ChooseCandidate(idx int) { c.controller.ChooseCandidate(idx) }

// EnumerateUserPhrases returns every row in the user store.
func (c *Context) EnumerateUserPhrases() ([]userdb.Record, error) {
	return c.store.EnumerateAll()
}

// AddUserPhrase adds phrase as a user entry under the phone sequence
// parsed from a whitespace-separated bopomofo string ("ㄘㄜˋ ㄕˋ").
func (c *Context) AddUserPhrase(phrase, bopomofoString string) error {
	phones := engine.ParsePhoneSequence(bopomofoString)
	if len(phones) == 0 {
		return fmt.Errorf("ime: unparseable bopomofo string %q", bopomofoString)
	}
	return c.store.Upsert(phones, phrase)
}

// RemoveUserPhrase removes the exact (phoneSeq, phrase) row.
func (c *Context) RemoveUserPhrase(phoneSeq []engine.Phone, phrase string) (bool, error) {
	return c.store.Remove(phoneSeq, phrase)
}

// LookupUserPhrases enumerates stored rows for a phone sequence.
func (c *Context) LookupUserPhrases(phoneSeq []engine.Phone) ([]userdb.Record, error) {
	return c.store.LookupByPhones(phoneSeq)
}

// HasUserPhrase reports whether the exact (phoneSeq, phrase) row exists.
func (c *Context) HasUserPhrase(phoneSeq []engine.Phone, phrase string) bool {
	return c.store.LookupExact(phoneSeq, phrase)
}

