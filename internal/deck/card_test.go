package deck

import (
	"encoding/json"
	"testing"
)

func TestCardString(t *testing.T) {
	t.Parallel()

	cases := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "A♠"},
		{NewCard(Hearts, Ten), "10♥"},
		{NewCard(Diamonds, Two), "2♦"},
		{NewCard(Clubs, Queen), "Q♣"},
	}

	for _, tc := range cases {
		if got := tc.card.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestCardJSONShape(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(NewCard(Hearts, Ace))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"suit":"hearts","rank":"A"}` {
		t.Errorf("unexpected JSON: %s", b)
	}
}

func TestSuitIsRed(t *testing.T) {
	t.Parallel()

	if !Hearts.IsRed() || !Diamonds.IsRed() {
		t.Error("hearts and diamonds are red")
	}
	if Spades.IsRed() || Clubs.IsRed() {
		t.Error("spades and clubs are black")
	}
}
