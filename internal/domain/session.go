// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capabilities is the negotiated subset of the client's requested
// capabilities. App/AppClass select the target top-level window; ScaleRatio,
// when non-zero, overrides the DPI scale detected for that window.
type Capabilities struct {
	App        string  `json:"app,omitempty"`
	AppClass   string  `json:"appClass,omitempty"`
	ScaleRatio float64 `json:"scaleRatio,omitempty"`
}

// Session binds a driver session to one target application window.
// AppHandle is the native window handle (zero on platforms without native
// automation); ScaleRatio converts the window's logical pixel space to
// physical screen pixels.
type Session struct {
	ID           uuid.UUID
	Capabilities Capabilities
	AppHandle    uintptr
	ScaleRatio   float64
	CreatedAt    time.Time
}

// Rect is an element bounding rectangle in logical pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Element is a located UI element cached for one session. Handle is the
// native reference when the element maps to a real child window; a zero
// Handle means only the bounding rectangle is known and clicks must go
// through coordinate resolution.
type Element struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Handle    uintptr
	Name      string
	ClassName string
	Rect      Rect
}

// CommandRecord is one audited WebDriver command, persisted when the audit
// store is configured.
type CommandRecord struct {
	ID         uuid.UUID
	SessionID  string
	Method     string
	Path       string
	Status     int
	DurationMS int64
	CreatedAt  time.Time
}
