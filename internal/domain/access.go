package domain

// Decision is the outcome of evaluating a join attempt. The string
// values are part of the wire contract: they appear verbatim in the
// "join status" payload sent before a rejected connection is closed.
type Decision string

const (
	Allowed Decision = "allowed"

	NotFound        Decision = "not found"
	BadUsername     Decision = "bad username"
	ConfirmRequired Decision = "confirm required"
	Banned          Decision = "banned"
	NotInvited      Decision = "not invited"

	// AlreadyJoined is not an access decision: the evaluator allowed
	// the join but the username already occupies the room.
	AlreadyJoined Decision = "already joined"
)
