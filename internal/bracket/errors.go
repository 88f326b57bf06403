package bracket

import "errors"

var (
	// ErrPrecondition marks a request the engine refuses to coerce, such as
	// planning a tournament for fewer than 8 players.
	ErrPrecondition = errors.New("precondition failed")
	// ErrInvariant marks a generated result that failed validation. It is a bug
	// in the pairing code, never a data problem.
	ErrInvariant = errors.New("internal invariant violated")
)
