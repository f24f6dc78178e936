package health

import "errors"

// ErrCheckTimeout marks a check that was still running at the deadline.
var ErrCheckTimeout = errors.New("health: check timeout")
