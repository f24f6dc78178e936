package pdf

import "errors"

var (
	ErrUnknownFormat = errors.New("pdf: unknown print format")
	ErrEmptyDocument = errors.New("pdf: document has no pages")
	ErrRenderFailed  = errors.New("pdf: render failed")
	ErrRenderTimeout = errors.New("pdf: render timed out")
	ErrStoreFailed   = errors.New("pdf: failed to store printable")
	ErrEngineClosed  = errors.New("pdf: engine closed")
)
