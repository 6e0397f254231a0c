// Package userdb implements the persistent user-phrase store: learned
// phrases with frequency and lifetime-clock decay, backed by SQLite.
package userdb

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/username/zhuyin-ime/internal/engine"
)

const maxPhoneSeqLen = 11

const schema = `
CREATE TABLE IF NOT EXISTS userphrase_v1 (
	time INTEGER NOT NULL,
	orig_freq INTEGER NOT NULL,
	max_freq INTEGER NOT NULL,
	user_freq INTEGER NOT NULL,
	length INTEGER NOT NULL,
	phrase TEXT NOT NULL,
	phone_0 INTEGER NOT NULL DEFAULT 0,
	phone_1 INTEGER NOT NULL DEFAULT 0,
	phone_2 INTEGER NOT NULL DEFAULT 0,
	phone_3 INTEGER NOT NULL DEFAULT 0,
	phone_4 INTEGER NOT NULL DEFAULT 0,
	phone_5 INTEGER NOT NULL DEFAULT 0,
	phone_6 INTEGER NOT NULL DEFAULT 0,
	phone_7 INTEGER NOT NULL DEFAULT 0,
	phone_8 INTEGER NOT NULL DEFAULT 0,
	phone_9 INTEGER NOT NULL DEFAULT 0,
	phone_10 INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (phone_0, phone_1, phone_2, phone_3, phone_4, phone_5,
		phone_6, phone_7, phone_8, phone_9, phone_10, phrase)
);
CREATE TABLE IF NOT EXISTS config_v1 (
	id INTEGER PRIMARY KEY,
	value INTEGER NOT NULL
);
`

const lifetimeConfigID = 0

// Record is one stored user phrase.
type Record struct {
	PhoneSeq []engine.Phone
	Phrase   string
	OrigFreq int64
	MaxFreq  int64
	UserFreq int64
	Time     int64
}

// Store is the persistent user-phrase store. One Store is owned exclusively
// by one engine context; concurrent opens of the same file are serialized
// by SQLite's own locking.
type Store struct {
	db               *sql.DB
	logger           *log.Logger
	originalLifetime int64
	newLifetime      int64
}

// Open opens (creating if absent) the SQLite-backed store at path, applies
// the schema, runs the legacy migration if a uhash.dat file sits alongside
// it, and records the starting lifetime.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("userdb: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("userdb: migrate schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.loadLifetime(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrateLegacyHash(path, s); err != nil {
		db.Close()
		return nil, fmt.Errorf("userdb: legacy migration: %w", err)
	}

	return s, nil
}

func (s *Store) loadLifetime() error {
	row := s.db.QueryRow(`SELECT value FROM config_v1 WHERE id = ?`, lifetimeConfigID)
	var v int64
	err := row.Scan(&v)
	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.Exec(`INSERT INTO config_v1(id, value) VALUES (?, 0)`, lifetimeConfigID); err != nil {
			return err
		}
		v = 0
	case err != nil:
		return err
	}
	s.originalLifetime = v
	s.newLifetime = v
	return nil
}

// SetLogger attaches a logger for write-failure warnings. A failed write
// is logged and reported but never invalidates in-memory state.
func (s *Store) SetLogger(l *log.Logger) { s.logger = l }

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Tick advances the shadow lifetime counter by one; the engine context
// calls this once per processed keystroke.
func (s *Store) Tick() { s.newLifetime++ }

// Close persists the lifetime delta and closes the underlying database.
// Durability is committed-on-successful-close; a crash may lose recent
// lifetime increments but never corrupts existing rows.
func (s *Store) Close() error {
	if s.newLifetime != s.originalLifetime {
		if _, err := s.db.Exec(`UPDATE config_v1 SET value = ? WHERE id = ?`, s.newLifetime, lifetimeConfigID); err != nil {
			s.db.Close()
			return fmt.Errorf("userdb: persist lifetime: %w", err)
		}
	}
	return s.db.Close()
}

func phoneColumns(seq []engine.Phone) [maxPhoneSeqLen]int64 {
	var cols [maxPhoneSeqLen]int64
	for i, p := range seq {
		if i >= maxPhoneSeqLen {
			break
		}
		cols[i] = int64(p)
	}
	return cols
}

// Upsert increments user_freq via the decay law on an exact hit, else
// inserts a new row seeded from the baseline freq shared by other entries
// with the same phone_seq.
func (s *Store) Upsert(phoneSeq []engine.Phone, phrase string) error {
	cols := phoneColumns(phoneSeq)
	args := make([]any, 0, maxPhoneSeqLen+1)
	for _, c := range cols {
		args = append(args, c)
	}
	args = append(args, phrase)

	row := s.db.QueryRow(`SELECT time, orig_freq, max_freq, user_freq FROM userphrase_v1
		WHERE phone_0=? AND phone_1=? AND phone_2=? AND phone_3=? AND phone_4=? AND phone_5=?
		AND phone_6=? AND phone_7=? AND phone_8=? AND phone_9=? AND phone_10=? AND phrase=?`, args...)

	var oldTime, origFreq, maxFreq, userFreq int64
	err := row.Scan(&oldTime, &origFreq, &maxFreq, &userFreq)
	switch {
	case err == sql.ErrNoRows:
		baseline := s.baselineFreq(cols)
		insertArgs := append([]any{s.newLifetime, baseline, baseline, baseline, len([]rune(phrase))}, args...)
		_, err := s.db.Exec(`INSERT INTO userphrase_v1
			(time, orig_freq, max_freq, user_freq, length,
			 phone_0, phone_1, phone_2, phone_3, phone_4, phone_5,
			 phone_6, phone_7, phone_8, phone_9, phone_10, phrase)
			VALUES (?,?,?,?,?, ?,?,?,?,?,?,?,?,?,?,?, ?)`, insertArgs...)
		if err != nil {
			s.logf("userdb: insert %q failed: %v", phrase, err)
		}
		return err
	case err != nil:
		return err
	}

	delta := s.newLifetime - oldTime
	newUser := DecayedIncrement(userFreq, delta, maxFreq, origFreq)
	newMax := maxFreq
	if newUser > newMax {
		newMax = newUser
	}
	updateArgs := append([]any{s.newLifetime, newUser, newMax}, args...)
	_, err = s.db.Exec(`UPDATE userphrase_v1 SET time=?, user_freq=?, max_freq=?
		WHERE phone_0=? AND phone_1=? AND phone_2=? AND phone_3=? AND phone_4=? AND phone_5=?
		AND phone_6=? AND phone_7=? AND phone_8=? AND phone_9=? AND phone_10=? AND phrase=?`, updateArgs...)
	if err != nil {
		s.logf("userdb: update %q failed: %v", phrase, err)
	}
	return err
}

// baselineFreq finds the max user_freq among rows sharing phoneSeq, or a
// small constant if there are none.
func (s *Store) baselineFreq(cols [maxPhoneSeqLen]int64) int64 {
	const defaultBaseline = 1
	args := make([]any, 0, maxPhoneSeqLen)
	for _, c := range cols {
		args = append(args, c)
	}
	row := s.db.QueryRow(`SELECT MAX(user_freq) FROM userphrase_v1
		WHERE phone_0=? AND phone_1=? AND phone_2=? AND phone_3=? AND phone_4=? AND phone_5=?
		AND phone_6=? AND phone_7=? AND phone_8=? AND phone_9=? AND phone_10=?`, args...)
	var max sql.NullInt64
	if err := row.Scan(&max); err != nil || !max.Valid {
		return defaultBaseline
	}
	return max.Int64
}

// Remove deletes the exact (phoneSeq, phrase) row; reports whether a row
// existed.
func (s *Store) Remove(phoneSeq []engine.Phone, phrase string) (bool, error) {
	cols := phoneColumns(phoneSeq)
	args := make([]any, 0, maxPhoneSeqLen+1)
	for _, c := range cols {
		args = append(args, c)
	}
	args = append(args, phrase)
	res, err := s.db.Exec(`DELETE FROM userphrase_v1
		WHERE phone_0=? AND phone_1=? AND phone_2=? AND phone_3=? AND phone_4=? AND phone_5=?
		AND phone_6=? AND phone_7=? AND phone_8=? AND phone_9=? AND phone_10=? AND phrase=?`, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// LookupExact reports whether the exact row exists.
func (s *Store) LookupExact(phoneSeq []engine.Phone, phrase string) bool {
	cols := phoneColumns(phoneSeq)
	args := make([]any, 0, maxPhoneSeqLen+1)
	for _, c := range cols {
		args = append(args, c)
	}
	args = append(args, phrase)
	row := s.db.QueryRow(`SELECT 1 FROM userphrase_v1
		WHERE phone_0=? AND phone_1=? AND phone_2=? AND phone_3=? AND phone_4=? AND phone_5=?
		AND phone_6=? AND phone_7=? AND phone_8=? AND phone_9=? AND phone_10=? AND phrase=?`, args...)
	var one int
	return row.Scan(&one) == nil
}

// LookupByPhones enumerates matching rows ordered by user_freq descending.
func (s *Store) LookupByPhones(phoneSeq []engine.Phone) ([]Record, error) {
	cols := phoneColumns(phoneSeq)
	args := make([]any, 0, maxPhoneSeqLen)
	for _, c := range cols {
		args = append(args, c)
	}
	rows, err := s.db.Query(`SELECT time, orig_freq, max_freq, user_freq, phrase,
		phone_0, phone_1, phone_2, phone_3, phone_4, phone_5, phone_6, phone_7, phone_8, phone_9, phone_10
		FROM userphrase_v1
		WHERE phone_0=? AND phone_1=? AND phone_2=? AND phone_3=? AND phone_4=? AND phone_5=?
		AND phone_6=? AND phone_7=? AND phone_8=? AND phone_9=? AND phone_10=?
		ORDER BY user_freq DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// EnumerateAll streams every row in the store, used by the host UI.
func (s *Store) EnumerateAll() ([]Record, error) {
	rows, err := s.db.Query(`SELECT time, orig_freq, max_freq, user_freq, phrase,
		phone_0, phone_1, phone_2, phone_3, phone_4, phone_5, phone_6, phone_7, phone_8, phone_9, phone_10
		FROM userphrase_v1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		var phones [maxPhoneSeqLen]int64
		dest := []any{&r.Time, &r.OrigFreq, &r.MaxFreq, &r.UserFreq, &r.Phrase}
		for i := range phones {
			dest = append(dest, &phones[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for _, p := range phones {
			if p == 0 {
				break
			}
			r.PhoneSeq = append(r.PhoneSeq, engine.Phone(p))
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
