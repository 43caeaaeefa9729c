package protocol

import "errors"

var (
	// ErrUnknownTag is returned when a message starts with a line that is not a
	// known tag. The stream is still aligned on a line boundary afterwards.
	ErrUnknownTag = errors.New("unknown message tag")

	// ErrMissingPayload is returned when the bulk channel carried no cell for a
	// coordinate outside the world.
	ErrMissingPayload = errors.New("missing cell payload")
)
