package disposal

import "errors"

var (
	// ErrInvalidRecord is returned for records that can never be processed.
	// The job is cancelled instead of retried.
	ErrInvalidRecord = errors.New("disposal: invalid record")
	// ErrDeleteFailure is returned when the store fails to remove the file.
	// The queue retries the job.
	ErrDeleteFailure = errors.New("disposal: delete failed")
)
