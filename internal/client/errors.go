package client

import "errors"

var (
	// ErrClosed is returned for work that can no longer complete because the
	// connection to the server is gone.
	ErrClosed = errors.New("connection closed")

	// ErrCannotShift is returned when the neighbor in the requested direction
	// has not been fetched yet.
	ErrCannotShift = errors.New("neighbor cell not loaded")
)
