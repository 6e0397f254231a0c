package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"

	"github.com/username/zhuyin-ime/internal/engine"
	"github.com/username/zhuyin-ime/internal/ime"
	"github.com/username/zhuyin-ime/internal/preedit"
)

const (
	serviceName = "com.github.zhuyin.ime"
	objectPath  = "/Engine"
)

// X11 keysym codes for the named keys the engine cares about; printable
// ASCII keysyms equal their character code and need no table.
const (
	keysymBackspace  = 0xff08
	keysymTab        = 0xff09
	keysymReturn     = 0xff0d
	keysymEscape     = 0xff1b
	keysymDelete     = 0xffff
	keysymLeft       = 0xff51
	keysymUp         = 0xff52
	keysymRight      = 0xff53
	keysymDown       = 0xff54
	keysymHome       = 0xff50
	keysymEnd        = 0xff57
	keysymPageUp     = 0xff55
	keysymPageDown   = 0xff56
	keysymCapsLock   = 0xffe5
	keysymKeypad0    = 0xffb0
	keysymKeypad9    = 0xffb9
)

const (
	modShift   = 1 << 0
	modControl = 1 << 1
)

// InputEngine is the D-Bus object that receives key events from the
// frontend.
type InputEngine struct {
	ctx    *ime.Context
	logger *log.Logger
}

// NewInputEngine opens an engine context over the given dictionary and
// user-store directories.
func NewInputEngine(systemPath, userPath string, logger *log.Logger) (*InputEngine, error) {
	ctx, err := ime.New(systemPath, userPath, logger)
	if err != nil {
		return nil, err
	}
	return &InputEngine{ctx: ctx, logger: logger}, nil
}

// ProcessKey handles one key event from the frontend.
// Input: keysym (X11 keycode), modifiers (Shift/Ctrl state).
// Output: handled, commit text, preedit display text.
func (e *InputEngine) ProcessKey(keysym uint32, modifiers uint32) (bool, string, string, *dbus.Error) {
	snap := e.dispatch(keysym, modifiers)

	if e.logger != nil {
		e.logger.Printf("Type: 0x%-8x | Preedit: %-15q | Commit: %-15q | Flags: %v",
			keysym, snap.PreeditUTF8, snap.CommitUTF8, snap.Flags)
	}

	handled := !snap.Flags.Has(preedit.FlagIgnore)
	return handled, snap.CommitUTF8, snap.PreeditUTF8, nil
}

func (e *InputEngine) dispatch(keysym, modifiers uint32) preedit.Snapshot {
	if modifiers&modControl != 0 && keysym >= '0' && keysym <= '9' {
		return e.ctx.CtrlNum(int(keysym - '0'))
	}
	if keysym >= keysymKeypad0 && keysym <= keysymKeypad9 {
		return e.ctx.Numlock(int(keysym - keysymKeypad0))
	}

	switch keysym {
	case keysymBackspace:
		return e.ctx.Named(engine.KeyBackspace)
	case keysymTab:
		return e.ctx.Named(engine.KeyTab)
	case keysymReturn:
		return e.ctx.Named(engine.KeyEnter)
	case keysymEscape:
		return e.ctx.Named(engine.KeyEsc)
	case keysymDelete:
		return e.ctx.Named(engine.KeyDelete)
	case keysymLeft:
		if modifiers&modShift != 0 {
			return e.ctx.Named(engine.KeyShiftLeft)
		}
		return e.ctx.Named(engine.KeyLeft)
	case keysymRight:
		if modifiers&modShift != 0 {
			return e.ctx.Named(engine.KeyShiftRight)
		}
		return e.ctx.Named(engine.KeyRight)
	case keysymUp:
		return e.ctx.Named(engine.KeyUp)
	case keysymDown:
		return e.ctx.Named(engine.KeyDown)
	case keysymHome:
		return e.ctx.Named(engine.KeyHome)
	case keysymEnd:
		return e.ctx.Named(engine.KeyEnd)
	case keysymPageUp:
		return e.ctx.Named(engine.KeyPageUp)
	case keysymPageDown:
		return e.ctx.Named(engine.KeyPageDown)
	case keysymCapsLock:
		return e.ctx.Named(engine.KeyCapslock)
	case ' ':
		if modifiers&modShift != 0 {
			return e.ctx.Named(engine.KeyShiftSpace)
		}
		return e.ctx.Named(engine.KeySpace)
	}

	if keysym >= 0x20 && keysym <= 0x7e {
		return e.ctx.Default(rune(keysym))
	}
	return e.ctx.Named(engine.KeyNone)
}

// Reset clears the current composition state.
func (e *InputEngine) Reset() *dbus.Error {
	e.ctx.Reset()
	fmt.Println(">>> [ZhuyinIME] Engine reset")
	return nil
}

func main() {
	conn, err := dbus.SessionBus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to session bus:", err)
		os.Exit(1)
	}
	defer conn.Close()

	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to request name:", err)
		os.Exit(1)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		fmt.Fprintln(os.Stderr, "Name already taken - another instance may be running")
		os.Exit(1)
	}

	logFile, err := os.OpenFile("zhuyin.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	var logger *log.Logger
	if err == nil {
		logger = log.New(logFile, "", log.LstdFlags)
		fmt.Println(">>> [ZhuyinIME] Logging to zhuyin.log")
	} else {
		fmt.Fprintf(os.Stderr, ">>> [ZhuyinIME] Failed to open log file: %v\n", err)
	}
	defer logFile.Close()

	systemPath := envOr("ZHUYIN_SYSTEM_DATA", "/usr/share/zhuyin-ime")
	userPath := envOr("ZHUYIN_USER_DATA", ".")

	inputEngine, err := NewInputEngine(systemPath, userPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open engine:", err)
		os.Exit(1)
	}

	if err := conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to export object:", err)
		os.Exit(1)
	}

	fmt.Println("================================================")
	fmt.Println("Zhuyin IME backend is running!")
	fmt.Println("================================================")
	fmt.Printf("  Service:     %s\n", serviceName)
	fmt.Printf("  Object Path: %s\n", objectPath)
	fmt.Printf("  System data: %s\n", systemPath)
	fmt.Printf("  User data:   %s\n", userPath)
	fmt.Println("------------------------------------------------")
	fmt.Println("Waiting for key events...")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	if err := inputEngine.ctx.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "Error closing engine:", err)
	}
	fmt.Println("\n>>> [ZhuyinIME] Shutting down...")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
