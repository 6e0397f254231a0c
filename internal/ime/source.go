// Package ime wires the phonetic codec, bopomofo state machine,
// dictionary, user store, segmenter, and preedit controller into one
// engine context exposing the host API. It is the one place allowed to
// import both dict and userdb, since each of those depends on engine and
// neither may depend on the other.
package ime

import (
	"sort"

	"github.com/username/zhuyin-ime/internal/dict"
	"github.com/username/zhuyin-ime/internal/engine"
	"github.com/username/zhuyin-ime/internal/segment"
	"github.com/username/zhuyin-ime/internal/userdb"
)

// combinedSource merges dictionary and user-store readings into the
// segment.Candidate / preedit.PhraseSource shape the upper layers expect.
type combinedSource struct {
	dictionary *dict.Dictionary
	store      *userdb.Store
}

func (s *combinedSource) Candidates(phones []engine.Phone) []segment.Candidate {
	var out []segment.Candidate
	if s.dictionary != nil {
		for _, e := range s.dictionary.Lookup(phones) {
			out = append(out, segment.Candidate{Phrase: e.Phrase, Freq: int64(e.Freq)})
		}
	}
	if s.store != nil {
		rows, err := s.store.LookupByPhones(phones)
		if err == nil {
			for _, r := range rows {
				out = append(out, segment.Candidate{Phrase: r.Phrase, Freq: r.UserFreq, FromUser: true})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Freq > out[j].Freq })
	return out
}
