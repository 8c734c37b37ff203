package core

import "errors"

// Error kinds surfaced by the engine. Callers match them with errors.Is.
var (
	// ErrNetwork wraps transport failures and server-reported failures.
	// No state is mutated when it is returned.
	ErrNetwork = errors.New("network error")

	// ErrDataInconsistency means a new report conflicts with a resolved
	// edge. It ends the current run.
	ErrDataInconsistency = errors.New("data inconsistency")

	// ErrUnreachable means no path exists over resolved edges. Exploring
	// further and retrying may succeed.
	ErrUnreachable = errors.New("unreachable")

	// ErrBoundsExceeded is the reason attached to a run that hit the
	// room-count cap. It is reported as an aborted run, not as an error.
	ErrBoundsExceeded = errors.New("exploration bound exceeded")

	ErrUnknownRoom      = errors.New("unknown room")
	ErrUnknownDirection = errors.New("unknown direction")
)
