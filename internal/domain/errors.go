// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"errors"
	"fmt"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrSessionLimitExceeded = errors.New("session limit exceeded")
var ErrElementNotFound = errors.New("element not found")
var ErrWindowNotFound = errors.New("window not found")
var ErrUnsupportedPlatform = errors.New("native automation not supported on this platform")

// InvalidArgumentError is surfaced to the client as an "invalid argument"
// WebDriver response. Unlike malformed action steps, which degrade to no-ops,
// an invalid argument aborts the command before any native event is emitted.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Reason
}

func InvalidArgument(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}

// TransportError reports a failed or partially accepted native input batch.
// Fatal for the current command and never retried: a partially delivered
// batch can leave modifier keys held down, and replaying it makes that worse.
type TransportError struct {
	Op       string
	Code     uintptr
	Accepted int
	Batch    int
}

func (e *TransportError) Error() string {
	if e.Batch > 0 && e.Accepted != e.Batch {
		return fmt.Sprintf("input transport %s: accepted %d of %d events (os error %d)",
			e.Op, e.Accepted, e.Batch, e.Code)
	}
	return fmt.Sprintf("input transport %s failed (os error %d)", e.Op, e.Code)
}
