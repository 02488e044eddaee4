// Package game implements the Texas Hold'em round engine: seating,
// betting streets, turn order and pot settlement. A Session is a
// single-owner entity; callers must serialize commands per session
// (see the server registry), the engine itself holds no locks and
// never blocks.
package game

import (
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/pokerhall/holdem/internal/deck"
	"github.com/pokerhall/holdem/internal/hand"
)

// Session owns one deck and an ordered seating of players, and runs
// round lifecycles over them. All operations complete synchronously.
type Session struct {
	id      string
	rules   Rules
	players []*Player
	deck    *deck.Deck

	community   []deck.Card
	pot         int
	currentBet  int
	phase       Phase
	currentTurn int // seat index holding the turn, -1 when none
	dealer      int

	rng    *rand.Rand
	logger *log.Logger
	sink   Sink
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithRNG injects the random source used for shuffling, for
// reproducible rounds in tests.
func WithRNG(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithDeck injects a prepared deck, typically a stacked one in tests.
func WithDeck(d *deck.Deck) Option {
	return func(s *Session) { s.deck = d }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger.WithPrefix("session") }
}

// WithSink sets the event sink the session publishes to.
func WithSink(sink Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// NewSession creates an idle session with the given table rules.
func NewSession(id string, rules Rules, opts ...Option) *Session {
	s := &Session{
		id:          id,
		rules:       rules,
		phase:       Waiting,
		currentTurn: -1,
		logger:      log.New(io.Discard),
		sink:        discardSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.deck == nil {
		s.deck = deck.New(s.rng)
	}

	s.sink.Publish(SessionCreated{SessionID: id})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Rules returns the table rules the session was created with.
func (s *Session) Rules() Rules { return s.rules }

// Phase returns the current game phase.
func (s *Session) Phase() Phase { return s.phase }

// Pot returns the chips collected this round.
func (s *Session) Pot() int { return s.pot }

// CurrentBet returns the street's table-high bet.
func (s *Session) CurrentBet() int { return s.currentBet }

// CurrentTurn returns the seat index whose action is awaited, or -1.
func (s *Session) CurrentTurn() int { return s.currentTurn }

// Dealer returns the dealer seat index.
func (s *Session) Dealer() int { return s.dealer }

// Community returns the board cards revealed so far.
func (s *Session) Community() []deck.Card {
	return append([]deck.Card(nil), s.community...)
}

// Players returns the seating in order.
func (s *Session) Players() []*Player {
	return append([]*Player(nil), s.players...)
}

// Player returns the seated player with the given ID, if any.
func (s *Session) Player(id string) (*Player, bool) {
	if idx := s.seatIndex(id); idx != -1 {
		return s.players[idx], true
	}
	return nil, false
}

// ReadyForNextRound reports whether a new round may start now. The
// engine exposes the query; any delay before calling StartRound again
// belongs to the caller.
func (s *Session) ReadyForNextRound() bool {
	return s.phase == Waiting && len(s.players) >= s.rules.MinPlayers
}

// AddPlayer seats a new player. Joining mid-round is allowed; the seat
// is dealt in from the next StartRound.
func (s *Session) AddPlayer(id, name string, chips int) (*Player, error) {
	if len(s.players) >= s.rules.MaxPlayers {
		return nil, ErrSessionFull
	}
	if s.seatIndex(id) != -1 {
		return nil, ErrPlayerExists
	}

	p := NewPlayer(id, name, chips)
	s.players = append(s.players, p)
	s.logger.Info("player joined", "session", s.id, "player", id, "seat", len(s.players)-1, "chips", chips)
	s.sink.Publish(PlayerJoined{PlayerID: id, Name: name, Seat: len(s.players) - 1, Chips: chips})
	return p, nil
}

// RemovePlayer unseats a player. Mid-round it is treated as a fold
// first, so the round settles or continues cleanly and never waits on
// a missing turn-holder.
func (s *Session) RemovePlayer(id string) bool {
	idx := s.seatIndex(id)
	if idx == -1 {
		return false
	}
	p := s.players[idx]

	if s.phase.IsBettingStreet() && p.Active {
		p.Active = false
		s.sink.Publish(PlayerFolded{PlayerID: id})

		switch {
		case s.activeCount() <= 1:
			// Unseat first so the end-of-round readiness check counts
			// the table the departing player leaves behind.
			s.removeSeat(idx)
			s.settle(false)
			s.logger.Info("player left", "session", s.id, "player", id)
			s.sink.Publish(PlayerLeft{PlayerID: id})
			return true
		case s.streetComplete():
			if err := s.advanceStreet(); err != nil {
				s.logger.Error("failed to advance street", "session", s.id, "error", err)
			}
		case idx == s.currentTurn:
			s.advanceTurn(idx + 1)
		}
	}

	s.removeSeat(s.seatIndex(id))
	s.logger.Info("player left", "session", s.id, "player", id)
	s.sink.Publish(PlayerLeft{PlayerID: id})
	return true
}

// StartRound begins a new round: fresh shuffle, hole cards, blinds,
// and the opening turn.
func (s *Session) StartRound() error {
	if s.phase != Waiting {
		return ErrRoundInProgress
	}
	n := len(s.players)
	if n < s.rules.MinPlayers {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, n, s.rules.MinPlayers)
	}

	s.deck.Reset()
	s.community = s.community[:0]
	s.pot = 0
	s.currentBet = 0
	for _, p := range s.players {
		p.resetForRound()
	}

	// One card per seat per pass, twice, starting left of the dealer.
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < n; i++ {
			seat := (s.dealer + 1 + i) % n
			cards, err := s.deck.Deal(1)
			if err != nil {
				return fmt.Errorf("dealing hole cards: %w", err)
			}
			s.players[seat].HoleCards = append(s.players[seat].HoleCards, cards[0])
		}
	}

	// Blinds are clamped to the available stack: short stacks go all-in.
	sbSeat := (s.dealer + 1) % n
	bbSeat := (s.dealer + 2) % n
	s.pot += s.players[sbSeat].pay(s.rules.SmallBlind)
	s.pot += s.players[bbSeat].pay(s.rules.BigBlind)
	s.currentBet = s.rules.BigBlind

	s.phase = PreFlop
	s.currentTurn = s.nextEligible((s.dealer + 3) % n)

	s.logger.Info("round started",
		"session", s.id,
		"players", n,
		"dealer", s.dealer,
		"pot", s.pot)

	s.sink.Publish(RoundStarted{
		Dealer:         s.dealer,
		SmallBlindSeat: sbSeat,
		BigBlindSeat:   bbSeat,
		CurrentTurn:    s.currentTurn,
		Pot:            s.pot,
		CurrentBet:     s.currentBet,
		Seats:          s.seatStates(),
	})
	for _, p := range s.players {
		s.sink.Publish(CardsDealt{PlayerID: p.ID, Cards: append([]deck.Card(nil), p.HoleCards...)})
	}

	if s.currentTurn == -1 {
		// The blinds put everyone all-in; run the board out.
		return s.advanceStreet()
	}
	s.publishTurn()
	return nil
}

// HandleAction applies a player action. Rejected actions mutate nothing
// and do not consume the turn.
func (s *Session) HandleAction(playerID string, action Action, amount int) error {
	if !s.phase.IsBettingStreet() {
		return ErrNoActiveRound
	}
	idx := s.seatIndex(playerID)
	if idx == -1 {
		return ErrPlayerNotFound
	}
	if idx != s.currentTurn {
		return ErrOutOfTurn
	}
	p := s.players[idx]

	switch action {
	case Fold:
		p.Active = false
		s.sink.Publish(PlayerFolded{PlayerID: playerID})

	case Check:
		if p.CurrentBet != s.currentBet {
			return fmt.Errorf("%w: table bet is %d, player has %d", ErrCannotCheck, s.currentBet, p.CurrentBet)
		}
		s.sink.Publish(PlayerChecked{PlayerID: playerID})

	case Call:
		deficit := s.currentBet - p.CurrentBet
		if deficit <= 0 {
			return ErrNothingToCall
		}
		paid := p.pay(deficit) // clamped: short stacks call all-in
		s.pot += paid
		s.sink.Publish(PlayerCalled{PlayerID: playerID, Amount: paid, Pot: s.pot})

	case Raise:
		minTotal := s.currentBet + s.rules.minRaise()
		if amount < minTotal {
			return fmt.Errorf("%w: total %d, minimum %d", ErrRaiseTooSmall, amount, minTotal)
		}
		delta := amount - p.CurrentBet
		if delta > p.Chips {
			return fmt.Errorf("%w: need %d, have %d", ErrInsufficientChips, delta, p.Chips)
		}
		p.pay(delta)
		s.pot += delta
		s.currentBet = amount
		s.sink.Publish(PlayerRaised{PlayerID: playerID, Amount: delta, CurrentBet: amount, Pot: s.pot})

	default:
		return ErrUnknownAction
	}

	s.logger.Debug("action accepted",
		"session", s.id,
		"player", playerID,
		"action", action,
		"amount", amount,
		"pot", s.pot)

	return s.afterAction()
}

// afterAction evaluates street completion once an action has been
// accepted: settle on fold-to-one, advance the street when every
// active seat has matched the table bet or is fully committed,
// otherwise pass the turn.
func (s *Session) afterAction() error {
	if s.activeCount() <= 1 {
		s.settle(false)
		return nil
	}
	if s.streetComplete() {
		return s.advanceStreet()
	}
	s.advanceTurn(s.currentTurn + 1)
	return nil
}

// advanceStreet moves to the next phase, revealing community cards and
// resetting street bets. When nobody is left with a decision it keeps
// advancing until showdown.
func (s *Session) advanceStreet() error {
	next, reveal := nextStreet(s.phase)
	if next == Showdown {
		s.phase = Showdown
		s.settle(true)
		return nil
	}

	cards, err := s.deck.Deal(reveal)
	if err != nil {
		// Cannot happen with a validated seat limit; a short deck here
		// is a corrupted round.
		return fmt.Errorf("dealing %s: %w", next, err)
	}
	s.community = append(s.community, cards...)
	for _, p := range s.players {
		p.CurrentBet = 0
	}
	s.currentBet = 0
	s.phase = next

	s.sink.Publish(CommunityRevealed{
		Phase:     next.String(),
		New:       cards,
		Community: s.Community(),
	})

	// With fewer than two seats able to act there is no betting to be
	// had; run the board out.
	if s.eligibleActors() < 2 {
		return s.advanceStreet()
	}
	s.currentTurn = s.nextEligible((s.dealer + 1) % len(s.players))
	s.publishTurn()
	return nil
}

// settle pays out the pot and returns the session to the idle state.
// With showdown false exactly one active seat remains and takes the
// pot without revealing cards.
func (s *Session) settle(showdown bool) {
	pot := s.pot
	var winners []Winner

	if showdown && s.activeCount() > 1 {
		winners = s.showdownWinners(pot)
	} else {
		for _, p := range s.players {
			if p.Active {
				p.Chips += pot
				winners = append(winners, Winner{PlayerID: p.ID, Name: p.Name, Amount: pot})
				break
			}
		}
		showdown = false
	}

	s.pot = 0
	s.currentBet = 0
	s.phase = Waiting
	s.currentTurn = -1
	if len(s.players) > 0 {
		s.dealer = (s.dealer + 1) % len(s.players)
	}

	s.logger.Info("round settled", "session", s.id, "pot", pot, "winners", len(winners), "showdown", showdown)
	s.sink.Publish(RoundEnded{Winners: winners, Pot: pot, Showdown: showdown})

	if s.ReadyForNextRound() {
		s.sink.Publish(ReadyForNextRound{Players: len(s.players)})
	}
}

// showdownWinners evaluates every remaining hand, awards the pot to the
// strongest, and splits ties evenly with the remainder handed out one
// chip at a time in seating order.
func (s *Session) showdownWinners(pot int) []Winner {
	var best hand.Strength
	var seats []int

	for i, p := range s.players {
		if !p.Active {
			continue
		}
		cards := make([]deck.Card, 0, len(p.HoleCards)+len(s.community))
		cards = append(cards, p.HoleCards...)
		cards = append(cards, s.community...)

		strength, err := hand.Evaluate(cards)
		if err != nil {
			s.logger.Error("hand evaluation failed", "session", s.id, "player", p.ID, "error", err)
			continue
		}

		cmp := strength.Compare(best)
		switch {
		case len(seats) == 0 || cmp > 0:
			best = strength
			seats = []int{i}
		case cmp == 0:
			seats = append(seats, i)
		}
	}

	share := 0
	remainder := 0
	if len(seats) > 0 {
		share = pot / len(seats)
		remainder = pot % len(seats)
	}

	winners := make([]Winner, 0, len(seats))
	for i, seat := range seats {
		p := s.players[seat]
		amount := share
		if i < remainder {
			amount++
		}
		p.Chips += amount
		winners = append(winners, Winner{
			PlayerID:  p.ID,
			Name:      p.Name,
			Amount:    amount,
			Category:  best.Category.String(),
			HoleCards: append([]deck.Card(nil), p.HoleCards...),
		})
	}
	return winners
}

// advanceTurn moves the turn to the next seat that can act, starting
// the scan at from. If no seat can act the street is run out.
func (s *Session) advanceTurn(from int) {
	s.currentTurn = s.nextEligible(from % len(s.players))
	if s.currentTurn == -1 {
		if err := s.advanceStreet(); err != nil {
			s.logger.Error("failed to run out street", "session", s.id, "error", err)
		}
		return
	}
	s.publishTurn()
}

// nextEligible scans clockwise from the given seat for a player who can
// act, skipping folded and fully committed seats. Returns -1 when no
// seat qualifies.
func (s *Session) nextEligible(from int) int {
	n := len(s.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if s.players[seat].canAct() {
			return seat
		}
	}
	return -1
}

// streetComplete reports whether every active seat has matched the
// table bet or is fully committed.
func (s *Session) streetComplete() bool {
	for _, p := range s.players {
		if !p.Active {
			continue
		}
		if p.CurrentBet != s.currentBet && p.Chips > 0 {
			return false
		}
	}
	return true
}

// eligibleActors counts seats that can still act this street.
func (s *Session) eligibleActors() int {
	count := 0
	for _, p := range s.players {
		if p.canAct() {
			count++
		}
	}
	return count
}

func (s *Session) activeCount() int {
	count := 0
	for _, p := range s.players {
		if p.Active {
			count++
		}
	}
	return count
}

func (s *Session) seatIndex(playerID string) int {
	for i, p := range s.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// removeSeat drops a seat and renormalizes the dealer and turn indexes.
func (s *Session) removeSeat(idx int) {
	if idx < 0 || idx >= len(s.players) {
		return
	}
	s.players = append(s.players[:idx], s.players[idx+1:]...)

	if len(s.players) == 0 {
		s.dealer = 0
		s.currentTurn = -1
		return
	}
	if idx < s.dealer {
		s.dealer--
	}
	s.dealer %= len(s.players)

	if s.currentTurn != -1 {
		if idx < s.currentTurn {
			s.currentTurn--
		} else if idx == s.currentTurn {
			s.currentTurn = s.nextEligible(idx % len(s.players))
		}
	}
}

func (s *Session) publishTurn() {
	if s.currentTurn == -1 {
		return
	}
	s.sink.Publish(TurnChanged{PlayerID: s.players[s.currentTurn].ID, Seat: s.currentTurn})
}

func (s *Session) seatStates() []SeatState {
	seats := make([]SeatState, len(s.players))
	for i, p := range s.players {
		seats[i] = SeatState{
			PlayerID:   p.ID,
			Name:       p.Name,
			Seat:       i,
			Chips:      p.Chips,
			Active:     p.Active,
			CurrentBet: p.CurrentBet,
		}
	}
	return seats
}
