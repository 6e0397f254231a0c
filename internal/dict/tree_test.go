package dict

import (
	"bytes"
	"testing"
)

func record(key uint16, a, b uint32) []byte {
	return []byte{
		byte(key), byte(key >> 8),
		byte(a), byte(a >> 8), byte(a >> 16),
		byte(b), byte(b >> 8), byte(b >> 16),
	}
}

// buildTestTree assembles a tiny index: root -> phone 5 (internal) ->
// two leaves "A" (freq 9) then "B" (freq 3), already sorted descending.
func buildTestTree(t *testing.T) (*tree, string) {
	t.Helper()
	var raw []byte
	raw = append(raw, record(4, 1, 2)...)  // node 0: root, count=4, children [1,2)
	raw = append(raw, record(5, 2, 4)...)  // node 1: internal, phone 5, children [2,4)
	raw = append(raw, record(0, 0, 9)...)  // node 2: leaf, offset 0, freq 9 -> "A"
	raw = append(raw, record(0, 2, 3)...)  // node 3: leaf, offset 2, freq 3 -> "B"
	blob := "A\x00B\x00"
	tr, err := newTree(bytes.NewReader(raw), len(raw))
	if err != nil {
		t.Fatalf("newTree: %v", err)
	}
	return tr, blob
}

func TestFindChildAndLeaves(t *testing.T) {
	tr, _ := buildTestTree(t)
	begin, end := tr.rootChildren()
	n, ok := tr.findChild(begin, end, 5)
	if !ok {
		t.Fatal("expected to find phone 5")
	}
	leaves := tr.leaves(int(n.a), int(n.b))
	if len(leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(leaves))
	}
	if leaves[0].freq != 9 || leaves[1].freq != 3 {
		t.Fatalf("expected descending freq order, got %+v", leaves)
	}
}

func TestFindChildMiss(t *testing.T) {
	tr, _ := buildTestTree(t)
	begin, end := tr.rootChildren()
	if _, ok := tr.findChild(begin, end, 99); ok {
		t.Fatal("expected miss for absent phone")
	}
}

func TestNewTreeRejectsCorrupt(t *testing.T) {
	short := []byte{1, 2, 3}
	if _, err := newTree(bytes.NewReader(short), len(short)); err == nil {
		t.Fatal("expected error for too-short index")
	}
	bad := record(9999, 0, 0)
	if _, err := newTree(bytes.NewReader(bad), len(bad)); err == nil {
		t.Fatal("expected error for root count exceeding file size")
	}
}
