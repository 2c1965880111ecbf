package game

import (
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Entrant is a seated player offered to a new hand.
type Entrant struct {
	Seat   int
	Player PlayerID
	Stack  int
}

// Hand is the betting state machine for one hand at one table.
//
// A Hand is driven by a single dealer and is not safe for concurrent use.
// Every method either applies completely or returns an error and leaves the
// hand untouched.
type Hand struct {
	numSeats int
	button   int
	sb, bb   int
	blinds   Blinds
	seating  *Seating    // Dealt-in seats
	seats    []SeatState // Indexed by seat number; Seat == NoSeat when not dealt in

	street      Street
	acting      int
	pot         int // Swept chips, antes included
	target      int
	bbOption    bool
	actions     int
	uncontested bool
	settlement  Settlement
	awarded     []bool

	chipUnit int
	potOpts  []PotOption
	history  *History[handSnapshot]
	logger   *log.Logger
	bus      EventBus
	clock    quartz.Clock
	pending  []GameEvent // Published once the current operation succeeds
}

// handSnapshot is everything an action may change.
type handSnapshot struct {
	seats       []SeatState
	street      Street
	acting      int
	pot         int
	target      int
	bbOption    bool
	actions     int
	uncontested bool
	settlement  Settlement
	awarded     []bool
}

// NewHand deals a hand to entrants with a positive stack, posts antes and
// blinds, and positions action on the first seat to act preflop.
//
// Seats are numbered 1..numSeats. The button may sit on any seat, occupied
// or not.
func NewHand(numSeats, button int, entrants []Entrant, blinds Blinds, opts ...HandOption) (*Hand, error) {
	cfg := defaultHandConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if numSeats < 2 {
		return nil, fmt.Errorf("table needs at least 2 seats, got %d", numSeats)
	}
	if button < 1 || button > numSeats {
		return nil, fmt.Errorf("button seat %d out of range 1..%d", button, numSeats)
	}
	if blinds.Small < 0 || blinds.Big < 0 || blinds.Ante < 0 {
		return nil, fmt.Errorf("negative blinds %+v", blinds)
	}
	if blinds.Big < blinds.Small {
		return nil, fmt.Errorf("big blind %d below small blind %d", blinds.Big, blinds.Small)
	}
	if cfg.chipUnit <= 0 {
		return nil, fmt.Errorf("chip unit must be positive, got %d", cfg.chipUnit)
	}

	h := &Hand{
		numSeats: numSeats,
		button:   button,
		blinds:   blinds,
		seats:    make([]SeatState, numSeats+1),
		street:   Preflop,
		chipUnit: cfg.chipUnit,
		potOpts:  cfg.potOpts,
		history:  NewHistory[handSnapshot](cfg.historyLimit),
		logger:   cfg.logger,
		bus:      cfg.bus,
		clock:    cfg.clock,
	}

	players := make(map[PlayerID]int, len(entrants))
	seen := make(map[int]bool, len(entrants))
	dealt := make([]int, 0, len(entrants))
	for _, e := range entrants {
		if e.Seat < 1 || e.Seat > numSeats {
			return nil, fmt.Errorf("seat %d out of range 1..%d", e.Seat, numSeats)
		}
		if e.Player == "" {
			return nil, fmt.Errorf("seat %d has no player", e.Seat)
		}
		if seen[e.Seat] {
			return nil, fmt.Errorf("seat %d listed twice", e.Seat)
		}
		seen[e.Seat] = true
		if other, ok := players[e.Player]; ok {
			return nil, fmt.Errorf("player %q seated at %d and %d", e.Player, other, e.Seat)
		}
		players[e.Player] = e.Seat
		if e.Stack <= 0 {
			continue
		}
		h.seats[e.Seat] = SeatState{Seat: e.Seat, Player: e.Player, Stack: e.Stack, InHand: true}
		dealt = append(dealt, e.Seat)
	}
	if len(dealt) < 2 {
		return nil, fmt.Errorf("%w: %d dealt in", ErrNotEnoughPlayers, len(dealt))
	}

	h.seating = NewSeating(numSeats, dealt...)
	h.sb, h.bb = BlindSeats(h.seating, button)
	h.postForcedBets()

	h.bbOption = h.seats[h.bb].CanAct()
	h.acting = FirstActingFrom(h.seating, FirstToActPreflop(h.seating, button), h.needsAction)

	h.logger.Debug("hand started",
		"button", button, "sb", h.sb, "bb", h.bb,
		"blinds", fmt.Sprintf("%d/%d", blinds.Small, blinds.Big), "ante", blinds.Ante,
		"players", len(dealt))

	h.emit(HandStartEvent{
		Button:    button,
		SmallSeat: h.sb,
		BigSeat:   h.bb,
		Blinds:    blinds,
		Acting:    h.acting,
		Pot:       h.TotalPot(),
		timestamp: h.clock.Now(),
	})

	// Every seat but one may be all-in from the forced bets alone.
	if h.acting == NoSeat || h.roundComplete() {
		if err := h.closeStreet(); err != nil {
			return nil, err
		}
	}
	h.flush()

	return h, nil
}

// postForcedBets posts antes and blinds. Antes go straight into the pot.
// Blind posts do not count as acting.
func (h *Hand) postForcedBets() {
	if h.blinds.Ante > 0 && h.blinds.Mode == AnteEach {
		for _, seat := range OccupiedClockwiseFrom(h.seating, h.button) {
			h.postAnte(seat, h.blinds.Ante)
		}
	}

	h.postBlind(h.sb, h.blinds.Small)
	h.postBlind(h.bb, h.blinds.Big)

	if h.blinds.Ante > 0 && h.blinds.Mode == AnteBigBlind {
		h.postAnte(h.bb, h.blinds.Ante)
	}

	for _, s := range h.seats {
		h.target = max(h.target, s.CommittedThisStreet)
	}
}

func (h *Hand) postAnte(seat, amount int) {
	s := &h.seats[seat]
	amount = min(amount, s.Stack)
	s.Stack -= amount
	s.TotalCommitted += amount
	h.pot += amount
}

func (h *Hand) postBlind(seat, amount int) {
	s := &h.seats[seat]
	amount = min(amount, s.Stack)
	s.Stack -= amount
	s.CommittedThisStreet += amount
	s.TotalCommitted += amount
}

// Act applies a dealer-entered action for seat.
//
// For Bet and Raise, amount is the number of chips the seat adds to its
// street commitment. An amount at or beyond the stack is an all-in. A bet
// that does not lift the seat above the current target is taken as a call.
// Amount is ignored for the other actions.
func (h *Hand) Act(seat int, action Action, amount int) error {
	if err := h.validate(seat, action, amount); err != nil {
		return err
	}

	snap := h.snapshot()
	street := h.street
	applied, moved := h.apply(seat, action, amount)
	h.actions++

	h.logger.Debug("action",
		"seat", seat, "action", applied, "amount", moved,
		"street", street, "target", h.target)

	event := PlayerActionEvent{
		Seat:      seat,
		Player:    h.seats[seat].Player,
		Action:    applied,
		Amount:    moved,
		Street:    street,
		Target:    h.target,
		timestamp: h.clock.Now(),
	}

	if err := h.afterAction(seat); err != nil {
		h.restore(snap)
		h.pending = nil
		return err
	}
	h.history.Push(snap)

	event.Next = h.acting
	h.pending = append([]GameEvent{event}, h.pending...)
	h.flush()

	return nil
}

func (h *Hand) emit(event GameEvent) {
	h.pending = append(h.pending, event)
}

func (h *Hand) flush() {
	events := h.pending
	h.pending = nil
	for _, e := range events {
		h.bus.Publish(e)
	}
}

// Fold folds seat.
func (h *Hand) Fold(seat int) error { return h.Act(seat, Fold, 0) }

// Check checks for seat. It is rejected when seat faces a bet.
func (h *Hand) Check(seat int) error { return h.Act(seat, Check, 0) }

// Call matches the current target, or puts seat all-in if short.
func (h *Hand) Call(seat int) error { return h.Act(seat, Call, 0) }

// Bet adds amount chips for seat.
func (h *Hand) Bet(seat, amount int) error { return h.Act(seat, Bet, amount) }

// Raise adds amount chips for seat.
func (h *Hand) Raise(seat, amount int) error { return h.Act(seat, Raise, amount) }

// AllIn commits the whole of seat's stack.
func (h *Hand) AllIn(seat int) error { return h.Act(seat, AllIn, 0) }

func (h *Hand) validate(seat int, action Action, amount int) error {
	if !h.street.IsBetting() {
		return rejectAction(seat, action, "hand is at %s", h.street)
	}
	if h.acting == NoSeat {
		return rejectAction(seat, action, "no seat to act")
	}
	if seat < 1 || seat > h.numSeats || h.seats[seat].Seat == NoSeat {
		return rejectAction(seat, action, "seat is not in this hand")
	}
	s := h.seats[seat]
	if !s.InHand {
		return rejectAction(seat, action, "seat has folded")
	}
	if seat != h.acting {
		return rejectAction(seat, action, "seat %d is to act", h.acting)
	}

	switch action {
	case Fold, Call, AllIn:
	case Check:
		if toCall := h.target - s.CommittedThisStreet; toCall > 0 {
			return rejectAction(seat, action, "facing %d to call", toCall)
		}
	case Bet, Raise:
		if amount <= 0 {
			return rejectAction(seat, action, "amount must be positive, got %d", amount)
		}
	default:
		return rejectAction(seat, action, "unknown action")
	}
	return nil
}

// apply mutates state for a validated action and returns the action as it
// took effect with the chips moved.
func (h *Hand) apply(seat int, action Action, amount int) (Action, int) {
	s := &h.seats[seat]
	toCall := h.target - s.CommittedThisStreet

	switch action {
	case Fold:
		s.InHand = false
		s.HasActed = true
		h.clearOption(seat)
		return Fold, 0

	case Check:
		return Check, h.commit(seat, 0, false)

	case Call:
		if toCall == 0 {
			return Check, h.commit(seat, 0, false)
		}
		moved := h.commit(seat, toCall, false)
		if s.Stack == 0 {
			return AllIn, moved
		}
		return Call, moved

	case Bet, Raise:
		if amount >= s.Stack {
			return AllIn, h.commit(seat, s.Stack, true)
		}
		if s.CommittedThisStreet+amount <= h.target {
			return h.apply(seat, Call, 0)
		}
		return action, h.commit(seat, amount, true)

	case AllIn:
		return AllIn, h.commit(seat, s.Stack, true)
	}
	return action, 0
}

// commit moves chips from seat's stack into its street commitment. It is the
// only place an action changes a stack. A raise that lifts the seat above
// the target reopens action for every other seat still in the hand.
func (h *Hand) commit(seat, amount int, raise bool) int {
	s := &h.seats[seat]
	amount = max(0, min(amount, s.Stack))

	s.Stack -= amount
	s.CommittedThisStreet += amount
	s.TotalCommitted += amount
	s.HasActed = true

	if raise && s.CommittedThisStreet > h.target {
		h.target = s.CommittedThisStreet
		for i := range h.seats {
			if i != seat && h.seats[i].InHand {
				h.seats[i].HasActed = false
			}
		}
	}
	h.clearOption(seat)

	return amount
}

func (h *Hand) clearOption(seat int) {
	if seat == h.bb {
		h.bbOption = false
	}
}

// needsAction reports whether seat still owes a decision this street.
func (h *Hand) needsAction(seat int) bool {
	s := h.seats[seat]
	if !s.CanAct() {
		return false
	}
	if !s.HasActed || s.CommittedThisStreet < h.target {
		return true
	}
	return seat == h.bb && h.bbOption
}

// roundComplete reports whether the current betting round is closed: at
// most one seat remains, or every seat that can act has acted and matched
// the target, with the big blind's option honoured.
func (h *Hand) roundComplete() bool {
	if h.inHandCount() <= 1 {
		return true
	}
	for _, s := range h.seats {
		if s.Seat == NoSeat || !s.CanAct() {
			continue
		}
		if !s.HasActed || s.CommittedThisStreet != h.target {
			return false
		}
	}
	if h.bbOption && h.seats[h.bb].CanAct() {
		return false
	}
	return true
}

func (h *Hand) afterAction(seat int) error {
	if h.inHandCount() == 1 {
		h.finishUncontested()
		return nil
	}
	if h.roundComplete() {
		return h.closeStreet()
	}
	h.acting = NextActingSeat(h.seating, seat, h.needsAction)
	return nil
}

// closeStreet sweeps the street into the pot and opens the next street, or
// goes to showdown when no more betting is possible.
func (h *Hand) closeStreet() error {
	h.sweep()

	from := h.street
	next, _ := from.Next()
	runout := h.actorCount() < 2
	if runout {
		next = Showdown
	}
	h.street = next

	h.logger.Debug("street closed", "from", from, "to", next, "pot", h.pot, "runout", runout)
	h.emit(StreetChangeEvent{
		From:      from,
		To:        next,
		Pot:       h.pot,
		Runout:    runout,
		timestamp: h.clock.Now(),
	})

	if next == Showdown {
		return h.enterShowdown()
	}

	h.acting = FirstActingFrom(h.seating, FirstToActPostflop(h.seating, h.button), h.needsAction)
	return nil
}

func (h *Hand) sweep() {
	for i := range h.seats {
		s := &h.seats[i]
		h.pot += s.CommittedThisStreet
		s.CommittedThisStreet = 0
		s.HasActed = false
	}
	h.target = 0
	h.bbOption = false
}

// enterShowdown partitions the hand's commitments into pots and returns any
// uncalled excess to its owner.
func (h *Hand) enterShowdown() error {
	contributions := make([]Contribution, 0, h.seating.Count())
	for _, s := range h.seats {
		if s.Seat == NoSeat {
			continue
		}
		contributions = append(contributions, Contribution{
			Player:    s.Player,
			Committed: s.TotalCommitted,
			Folded:    !s.InHand,
		})
	}

	settlement, err := BuildPots(contributions, h.potOpts...)
	if err != nil {
		h.logger.Error("pot settlement failed", "err", err)
		return err
	}

	for i := range h.seats {
		s := &h.seats[i]
		if refund := settlement.Refunds[s.Player]; s.Seat != NoSeat && refund > 0 {
			s.Stack += refund
		}
	}

	h.street = Showdown
	h.acting = NoSeat
	h.pot = settlement.Total
	h.settlement = settlement
	h.awarded = make([]bool, len(settlement.Pots))

	h.logger.Debug("showdown", "pots", len(settlement.Pots), "total", settlement.Total, "refunded", settlement.Refunded)
	h.emit(ShowdownEvent{Settlement: settlement.Clone(), timestamp: h.clock.Now()})
	return nil
}

// finishUncontested awards everything committed to the last seat standing.
func (h *Hand) finishUncontested() {
	h.sweep()

	winner := NoSeat
	for _, s := range h.seats {
		if s.Seat != NoSeat && s.InHand {
			winner = s.Seat
			break
		}
	}
	w := &h.seats[winner]

	total := h.pot
	w.Stack += total
	h.pot = 0

	h.street = Showdown
	h.acting = NoSeat
	h.uncontested = true
	h.settlement = Settlement{
		Pots:    []Pot{{ID: potID(0), Amount: total, Eligible: []PlayerID{w.Player}}},
		Refunds: map[PlayerID]int{},
		Total:   total,
	}
	h.awarded = []bool{true}

	h.logger.Debug("hand won uncontested", "seat", winner, "amount", total)
	now := h.clock.Now()
	h.emit(ShowdownEvent{Settlement: h.settlement.Clone(), Uncontested: true, timestamp: now})
	h.emit(PotAwardedEvent{PotID: potID(0), Payouts: []Payout{{Seat: winner, Amount: total}}, timestamp: now})
}

// AwardPot assigns pot index of the settlement to the declared winners and
// credits their stacks. Winners are seat numbers and must all be eligible.
func (h *Hand) AwardPot(index int, winners ...int) error {
	if h.street != Showdown {
		return fmt.Errorf("%w: hand is at %s", ErrNoSuchPot, h.street)
	}
	if index < 0 || index >= len(h.settlement.Pots) {
		return fmt.Errorf("%w: %d", ErrNoSuchPot, index)
	}
	if h.awarded[index] {
		return fmt.Errorf("%w: %s", ErrPotAwarded, h.settlement.Pots[index].ID)
	}
	if len(winners) == 0 {
		return ErrNoWinners
	}

	pot := h.settlement.Pots[index]
	for _, seat := range winners {
		if seat < 1 || seat > h.numSeats || h.seats[seat].Seat == NoSeat || !pot.IsEligible(h.seats[seat].Player) {
			return fmt.Errorf("%w: seat %d for %s", ErrNotEligible, seat, pot.ID)
		}
	}

	payouts, err := SplitPot(pot.Amount, winners, h.button, h.numSeats, h.chipUnit)
	if err != nil {
		return err
	}

	h.history.Push(h.snapshot())
	for _, p := range payouts {
		h.seats[p.Seat].Stack += p.Amount
		h.pot -= p.Amount
	}
	h.awarded[index] = true

	h.logger.Debug("pot awarded", "pot", pot.ID, "amount", pot.Amount, "winners", winners)
	h.bus.Publish(PotAwardedEvent{PotID: pot.ID, Payouts: payouts, timestamp: h.clock.Now()})
	return nil
}

// Undo reverts the most recent action or award.
func (h *Hand) Undo() error {
	snap, ok := h.history.Pop()
	if !ok {
		return ErrNothingToUndo
	}
	h.restore(snap)

	h.logger.Debug("undo", "street", h.street, "acting", h.acting)
	h.bus.Publish(HandUndoneEvent{Street: h.street, Acting: h.acting, timestamp: h.clock.Now()})
	return nil
}

// CanUndo reports whether there is anything to undo.
func (h *Hand) CanUndo() bool {
	return h.history.Len() > 0
}

func (h *Hand) snapshot() handSnapshot {
	return handSnapshot{
		seats:       slices.Clone(h.seats),
		street:      h.street,
		acting:      h.acting,
		pot:         h.pot,
		target:      h.target,
		bbOption:    h.bbOption,
		actions:     h.actions,
		uncontested: h.uncontested,
		settlement:  h.settlement.Clone(),
		awarded:     slices.Clone(h.awarded),
	}
}

func (h *Hand) restore(s handSnapshot) {
	h.seats = s.seats
	h.street = s.street
	h.acting = s.acting
	h.pot = s.pot
	h.target = s.target
	h.bbOption = s.bbOption
	h.actions = s.actions
	h.uncontested = s.uncontested
	h.settlement = s.settlement
	h.awarded = s.awarded
}

func (h *Hand) inHandCount() int {
	n := 0
	for _, s := range h.seats {
		if s.Seat != NoSeat && s.InHand {
			n++
		}
	}
	return n
}

func (h *Hand) actorCount() int {
	n := 0
	for _, s := range h.seats {
		if s.Seat != NoSeat && s.CanAct() {
			n++
		}
	}
	return n
}

// Street returns the current street.
func (h *Hand) Street() Street { return h.street }

// ActingSeat returns the seat to act, or NoSeat.
func (h *Hand) ActingSeat() int { return h.acting }

// Target returns the street commitment every seat must match.
func (h *Hand) Target() int { return h.target }

// Pot returns chips swept into the middle and not yet awarded. At showdown
// refunds have been returned and only pot chips remain.
func (h *Hand) Pot() int { return h.pot }

// TotalPot returns Pot plus chips committed on the current street.
func (h *Hand) TotalPot() int {
	total := h.pot
	for _, s := range h.seats {
		total += s.CommittedThisStreet
	}
	return total
}

// ToCall returns what seat needs to add to match the target.
func (h *Hand) ToCall(seat int) int {
	s, ok := h.Seat(seat)
	if !ok || !s.InHand {
		return 0
	}
	return min(h.target-s.CommittedThisStreet, s.Stack)
}

func (h *Hand) Button() int          { return h.button }
func (h *Hand) SmallBlindSeat() int  { return h.sb }
func (h *Hand) BigBlindSeat() int    { return h.bb }
func (h *Hand) Blinds() Blinds       { return h.blinds }
func (h *Hand) NumSeats() int        { return h.numSeats }
func (h *Hand) ActionCount() int     { return h.actions }
func (h *Hand) ChipUnit() int        { return h.chipUnit }
func (h *Hand) Uncontested() bool    { return h.uncontested }
func (h *Hand) BigBlindOption() bool { return h.bbOption }

// Seat returns the state of a dealt-in seat.
func (h *Hand) Seat(seat int) (SeatState, bool) {
	if seat < 1 || seat > h.numSeats || h.seats[seat].Seat == NoSeat {
		return SeatState{}, false
	}
	return h.seats[seat], true
}

// Seats returns the dealt-in seats in seat order.
func (h *Hand) Seats() []SeatState {
	out := make([]SeatState, 0, h.seating.Count())
	for _, s := range h.seats {
		if s.Seat != NoSeat {
			out = append(out, s)
		}
	}
	return out
}

// Stacks returns the current stack of every dealt-in player.
func (h *Hand) Stacks() map[PlayerID]int {
	out := make(map[PlayerID]int, h.seating.Count())
	for _, s := range h.seats {
		if s.Seat != NoSeat {
			out[s.Player] = s.Stack
		}
	}
	return out
}

// ChipsInPlay returns stacks plus every chip in the middle. It is constant
// for the life of a hand.
func (h *Hand) ChipsInPlay() int {
	total := h.TotalPot()
	for _, s := range h.seats {
		total += s.Stack
	}
	return total
}

// Settlement returns the pots computed at showdown.
func (h *Hand) Settlement() Settlement {
	return h.settlement.Clone()
}

// Awarded reports which settlement pots have been assigned.
func (h *Hand) Awarded() []bool {
	return slices.Clone(h.awarded)
}

// Settled reports whether the hand reached showdown and every pot has been
// assigned.
func (h *Hand) Settled() bool {
	return h.street == Showdown && !slices.Contains(h.awarded, false)
}

// Refunds returns the uncalled excess returned at showdown.
func (h *Hand) Refunds() map[PlayerID]int {
	return maps.Clone(h.settlement.Refunds)
}
