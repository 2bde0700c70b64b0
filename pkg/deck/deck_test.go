package deck

import (
	"testing"

	"holdem-server/internal/rng"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a := assert.New(t)

	d := New()
	a.Equal(52, d.CardsLeft())

	seen := make(map[string]bool)
	for _, card := range d.Cards {
		seen[CardToString(card)] = true
	}
	a.Equal(52, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d := New()
	d.SetRandom(rng.NewSeeded(0))
	d.Shuffle()

	a.Equal(52, d.CardsLeft())

	// the same seed produces the same permutation
	d2 := New()
	d2.SetRandom(rng.NewSeeded(0))
	d2.Shuffle()
	a.Equal(CardsToString(d.Cards), CardsToString(d2.Cards))

	// a different seed (almost certainly) does not
	d3 := New()
	d3.SetRandom(rng.NewSeeded(1))
	d3.Shuffle()
	a.NotEqual(CardsToString(d.Cards), CardsToString(d3.Cards))

	// a shuffle is still a full deck
	seen := make(map[string]bool)
	for _, card := range d.Cards {
		seen[CardToString(card)] = true
	}
	a.Equal(52, len(seen))
}

func TestDeck_Draw(t *testing.T) {
	a := assert.New(t)

	d := New()
	first := d.Cards[0]

	card, err := d.Draw()
	a.NoError(err)
	a.True(card.Equal(first))
	a.Equal(51, d.CardsLeft())

	a.True(d.CanDraw(51))
	a.False(d.CanDraw(52))

	for d.CardsLeft() > 0 {
		_, err := d.Draw()
		a.NoError(err)
	}

	card, err = d.Draw()
	a.Nil(card)
	a.Equal(ErrEndOfDeck, err)
}
