package game

// PlayerID is the opaque identity of a seated player. The engine never
// inspects it beyond equality.
type PlayerID string

// SeatState is the per-hand state of one dealt-in seat.
type SeatState struct {
	Seat                int
	Player              PlayerID
	Stack               int
	InHand              bool
	CommittedThisStreet int
	HasActed            bool
	TotalCommitted      int
}

// CanAct returns true if the seat can still put chips in
func (s SeatState) CanAct() bool {
	return s.InHand && s.Stack > 0
}

// IsAllIn returns true if the seat is in the hand with nothing behind
func (s SeatState) IsAllIn() bool {
	return s.InHand && s.Stack == 0
}
