package deck

import "math/rand/v2"

// Size is the number of distinct cards in a standard deck.
const Size = 52

// Deck is an ordered sequence of 52 distinct cards with a draw cursor.
// Not safe for concurrent use; callers serialize access (the lobby mutex).
type Deck struct {
	cards  [Size]Card
	cursor int
	fixed  bool
}

// New builds a deck in sorted order (unshuffled). Callers normally call
// Reshuffle immediately afterward.
func New() *Deck {
	d := &Deck{}
	d.reset()
	return d
}

// NewFromCards builds a deck that draws the given cards in order, for
// tests that need a deterministic hand. Reshuffle on such a deck only
// rewinds the cursor rather than randomizing, so a fixed sequence survives
// the unconditional Reshuffle a match performs at deal time.
func NewFromCards(cards []Card) *Deck {
	d := &Deck{}
	d.reset()
	copy(d.cards[:], cards)
	d.fixed = true
	return d
}

func (d *Deck) reset() {
	i := 0
	for _, suit := range [...]Suit{Clubs, Diamonds, Hearts, Spades} {
		for rank := 1; rank <= 13; rank++ {
			d.cards[i] = Card{Rank: rank, Suit: suit}
			i++
		}
	}
	d.cursor = 0
}

// Reshuffle restores all 52 distinct cards and randomizes their order,
// resetting the draw cursor to 0. Called at every match start and again
// whenever Draw exhausts the deck mid-match.
func (d *Deck) Reshuffle() {
	if d.fixed {
		d.cursor = 0
		return
	}
	d.reset()
	rand.Shuffle(Size, func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw returns the next card and advances the cursor. If the cursor has
// reached 52, the deck is reshuffled first so draw never fails — a
// single match may exhaust and reshuffle the shoe without ending play.
func (d *Deck) Draw() Card {
	if d.cursor >= Size {
		d.Reshuffle()
	}
	c := d.cards[d.cursor]
	d.cursor++
	return c
}

// Cursor returns the current draw position, for tests.
func (d *Deck) Cursor() int {
	return d.cursor
}
