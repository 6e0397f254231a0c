package userdb

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/username/zhuyin-ime/internal/engine"
)

const (
	legacyHashName    = "uhash.dat"
	legacyHashOldName = "uhash.old"
	legacyHashSig     = "CBiH"
	legacyRecordSize  = 125
	legacyHeaderSize  = 16
)

// migrateLegacyHash runs the one-shot uhash.dat migration: every valid
// legacy record is upserted into the SQLite store and the file is renamed
// to uhash.old so it never runs twice. storePath is the path to the SQLite
// store file; the legacy file is expected alongside it.
func migrateLegacyHash(storePath string, s *Store) error {
	legacyPath := filepath.Join(filepath.Dir(storePath), legacyHashName)
	data, err := os.ReadFile(legacyPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) < 4 || string(data[:4]) != legacyHashSig {
		return nil
	}
	body := data[4:]
	if len(body) < 4 {
		return nil
	}
	body = body[4:] // skip the 4-byte legacy lifetime; config_v1 is authoritative now

	for off := 0; off+legacyRecordSize <= len(body); off += legacyRecordSize {
		rec := body[off : off+legacyRecordSize]
		if seq, phrase, ok := decodeLegacyRecord(rec); ok {
			if err := s.Upsert(seq, phrase); err != nil {
				return err
			}
		}
	}

	return os.Rename(legacyPath, filepath.Join(filepath.Dir(storePath), legacyHashOldName))
}

// decodeLegacyRecord parses one 125-byte legacy record: a 16-byte header,
// then a length-prefixed phone array, then a length-prefixed phrase.
// Records with a phrase length outside [1,11] graphemes or invalid UTF-8
// are skipped.
func decodeLegacyRecord(rec []byte) ([]engine.Phone, string, bool) {
	if len(rec) < legacyHeaderSize+1 {
		return nil, "", false
	}
	body := rec[legacyHeaderSize:]

	if len(body) < 1 {
		return nil, "", false
	}
	phoneCount := int(body[0])
	body = body[1:]
	if phoneCount < 1 || phoneCount > maxPhoneSeqLen || len(body) < phoneCount*2+1 {
		return nil, "", false
	}

	seq := make([]engine.Phone, phoneCount)
	for i := 0; i < phoneCount; i++ {
		seq[i] = engine.Phone(binary.LittleEndian.Uint16(body[i*2 : i*2+2]))
	}
	body = body[phoneCount*2:]

	phraseLen := int(body[0])
	body = body[1:]
	if phraseLen < 1 || len(body) < phraseLen {
		return nil, "", false
	}
	phrase := body[:phraseLen]
	if !utf8.Valid(phrase) {
		return nil, "", false
	}
	graphemes := utf8.RuneCount(phrase)
	if graphemes < 1 || graphemes > maxPhoneSeqLen {
		return nil, "", false
	}

	return seq, string(phrase), true
}
