package deck

import "testing"

func TestNewDeckHas52DistinctCards(t *testing.T) {
	d := New()
	seen := make(map[Card]bool, Size)
	for i := 0; i < Size; i++ {
		c := d.Draw()
		if seen[c] {
			t.Fatalf("duplicate card drawn: %v", c)
		}
		seen[c] = true
	}
	if len(seen) != Size {
		t.Fatalf("expected %d distinct cards, got %d", Size, len(seen))
	}
}

func TestDrawReshufflesOnExhaustion(t *testing.T) {
	d := New()
	for i := 0; i < Size; i++ {
		d.Draw()
	}
	if d.Cursor() != Size {
		t.Fatalf("expected cursor at %d before exhaustion draw, got %d", Size, d.Cursor())
	}
	d.Draw()
	if d.Cursor() != 1 {
		t.Fatalf("expected cursor reset to 1 after reshuffle, got %d", d.Cursor())
	}
}

func TestCardWireRoundTrip(t *testing.T) {
	for _, suit := range [...]Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 1; rank <= 13; rank++ {
			c := Card{Rank: rank, Suit: suit}
			got, err := CardFromWire(c.Wire())
			if err != nil {
				t.Fatalf("CardFromWire(%q): %v", c.Wire(), err)
			}
			if got != c {
				t.Fatalf("round trip mismatch: %v -> %q -> %v", c, c.Wire(), got)
			}
		}
	}
}

func TestCardFromWireRejectsMalformed(t *testing.T) {
	cases := []string{"", "A", "XYZ", "1S", "AZ"}
	for _, s := range cases {
		if _, err := CardFromWire(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestHandValueAceDemotion(t *testing.T) {
	var h Hand
	h.Add(Card{Rank: 1, Suit: Clubs})  // ace
	h.Add(Card{Rank: 1, Suit: Hearts}) // ace
	if got := h.Value(); got != 12 {
		t.Fatalf("two aces should value 12, got %d", got)
	}

	h.Add(Card{Rank: 9, Suit: Spades})
	if got := h.Value(); got != 21 {
		t.Fatalf("ace+ace+9 should value 21 (one ace demoted), got %d", got)
	}
}

func TestHandBustedAboveTwentyOne(t *testing.T) {
	var h Hand
	h.Add(Card{Rank: 10, Suit: Clubs})
	h.Add(Card{Rank: 10, Suit: Hearts})
	h.Add(Card{Rank: 5, Suit: Spades})
	if !h.Busted() {
		t.Fatalf("25 should be busted, value=%d", h.Value())
	}
}

func TestHandResetClearsCards(t *testing.T) {
	var h Hand
	h.Add(Card{Rank: 5, Suit: Clubs})
	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("expected empty hand after Reset, got len %d", h.Len())
	}
	if h.Value() != 0 {
		t.Fatalf("expected value 0 after Reset, got %d", h.Value())
	}
}
