package player

import "errors"

var ErrShuttingDown = errors.New("server shutting down")
