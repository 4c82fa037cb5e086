package v1

import "errors"

var (
	ErrAddedCtx    = errors.New("add notification missing in context")
	ErrNZBIDJSON   = errors.New("nzbId is required and must be positive")
	ErrContentType = errors.New("Content-Type must be application/json")
)
