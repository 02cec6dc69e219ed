package envelope

import "errors"

var (
	ErrFailedToEncodeEnvelope = errors.New("failed to encode envelope")
	ErrInvalidEnvelope        = errors.New("invalid envelope")
)
