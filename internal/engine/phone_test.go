package engine

import "testing"

func TestPhoneRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		bopomo string
	}{
		{"hau3", "ㄏㄠˇ"},
		{"initial_only", "ㄉ"},
		{"with_medial", "ㄐㄧㄢ"},
		{"rhyme_and_tone", "ㄦˋ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePhone(tt.bopomo)
			if p == 0 {
				t.Fatalf("ParsePhone(%q) = 0, want nonzero", tt.bopomo)
			}
			if got := p.String(); got != tt.bopomo {
				t.Errorf("round-trip: p.String() = %q, want %q", got, tt.bopomo)
			}
		})
	}
}

func TestParsePhoneRejectsUnknownGlyph(t *testing.T) {
	if p := ParsePhone("A"); p != 0 {
		t.Errorf("ParsePhone(%q) = %v, want 0", "A", p)
	}
}

func TestPackUnpackIdentity(t *testing.T) {
	slot := PhoneticSyllableSlot{Initial: 17, Medial: 2, Rhyme: 9, Tone: 3}
	p := slot.Pack()
	got := p.Unpack()
	if got != slot {
		t.Errorf("Unpack(Pack(slot)) = %+v, want %+v", got, slot)
	}
}
