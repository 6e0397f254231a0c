// Package dict implements the read-only dictionary index: a memory-mapped
// packed phrase tree plus a companion phrase blob, looked up by
// phonetic-syllable sequence.
package dict

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/exp/mmap"

	"github.com/username/zhuyin-ime/internal/engine"
)

// Entry is one (phrase, frequency) result from a lookup.
type Entry struct {
	Phrase string
	Freq   uint32
}

// Dictionary is a ref-counted, process-shareable handle over one opened
// index+blob pair. Contexts share it by reference; there are no hidden
// globals. All reads go through the two mappings on demand — the files are
// never materialized on the heap.
type Dictionary struct {
	mu      sync.Mutex
	refs    int
	indexRA *mmap.ReaderAt
	blobRA  *mmap.ReaderAt
	tree    *tree
}

// Open mmaps the index tree file and the phrase blob file and validates the
// tree's structural invariants; a corrupt root fails the open.
func Open(indexPath, blobPath string) (*Dictionary, error) {
	indexRA, err := mmap.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("dict: open index: %w", err)
	}
	blobRA, err := mmap.Open(blobPath)
	if err != nil {
		indexRA.Close()
		return nil, fmt.Errorf("dict: open blob: %w", err)
	}

	t, err := newTree(indexRA, indexRA.Len())
	if err != nil {
		indexRA.Close()
		blobRA.Close()
		return nil, err
	}

	return &Dictionary{
		refs:    1,
		indexRA: indexRA,
		blobRA:  blobRA,
		tree:    t,
	}, nil
}

// Retain increments the reference count: the mmap is opened once per
// process and unmapped when the last context releases it.
func (d *Dictionary) Retain() *Dictionary {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs++
	return d
}

// Close decrements the reference count and unmaps on last release.
func (d *Dictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs--
	if d.refs > 0 {
		return nil
	}
	err1 := d.indexRA.Close()
	err2 := d.blobRA.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// phraseAt reads the NUL-terminated UTF-8 phrase at a blob offset through
// the mapping. Phrases are at most a few dozen bytes, so one chunk read
// almost always suffices.
func (d *Dictionary) phraseAt(offset uint32) string {
	pos := int64(offset)
	size := int64(d.blobRA.Len())
	if pos < 0 || pos >= size {
		return ""
	}
	var out []byte
	buf := make([]byte, 64)
	for pos < size {
		n, err := d.blobRA.ReadAt(buf, pos)
		if n == 0 {
			break
		}
		if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
			return string(append(out, buf[:i]...))
		}
		out = append(out, buf[:n]...)
		pos += int64(n)
		if err != nil {
			break
		}
	}
	return string(out)
}

// Lookup walks phones[0:k) through the tree and enumerates the phrases
// reachable at that path, already ordered by descending frequency.
func (d *Dictionary) Lookup(phones []engine.Phone) []Entry {
	begin, end := d.tree.rootChildren()
	for _, p := range phones {
		n, ok := d.tree.findChild(begin, end, uint16(p))
		if !ok {
			return nil
		}
		begin, end = int(n.a), int(n.b)
	}
	leaves := d.tree.leaves(begin, end)
	out := make([]Entry, len(leaves))
	for i, l := range leaves {
		out[i] = Entry{Phrase: d.phraseAt(l.phraseOffset), Freq: l.freq}
	}
	return out
}

// HasSingleChar reports whether a single phone has at least one
// single-character reading, satisfying engine.SingleCharChecker.
func (d *Dictionary) HasSingleChar(phone engine.Phone) bool {
	begin, end := d.tree.rootChildren()
	n, ok := d.tree.findChild(begin, end, uint16(phone))
	if !ok {
		return false
	}
	return len(d.tree.leaves(int(n.a), int(n.b))) > 0
}
