package artifact

import "errors"

// Step errors. Result.Err joins exactly one of them with the cause.
var (
	ErrDirectoryUnavailable = errors.New("artifact: output directory unavailable")
	ErrRenderFailure        = errors.New("artifact: render failed")
	ErrSendFailure          = errors.New("artifact: send failed")
	ErrScheduleFailure      = errors.New("artifact: scheduling disposal failed")

	ErrInvalidConfig = errors.New("artifact: invalid configuration")
)
