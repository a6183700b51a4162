package pipeline

import "github.com/pkg/errors"

// ErrAlreadyRunning is returned by Run when another Run call is active.
var ErrAlreadyRunning = errors.New("pipeline already running")
