// SPDX-License-Identifier: Apache-2.0

// Package winauto locates native windows and child controls and performs
// handle-based clicks. It is the element-resolution collaborator of the
// action engine; on platforms without native automation every operation
// reports ErrUnsupportedPlatform.
package winauto

import "github.com/dverbeek/windriver/internal/domain"

// WindowInfo describes one native window or child control.
type WindowInfo struct {
	Handle    uintptr
	Title     string
	ClassName string
	Rect      domain.Rect
}

// Automation is the native window capability consumed by the session store,
// the element repository and the action dispatcher.
type Automation interface {
	// FindTopWindow locates a top-level window by title substring and/or
	// exact class name. Empty criteria match any window; no match is
	// domain.ErrWindowNotFound.
	FindTopWindow(title, className string) (WindowInfo, error)

	// Children enumerates the child controls of a window.
	Children(handle uintptr) ([]WindowInfo, error)

	// WindowRect returns the current bounding rectangle of a window.
	WindowRect(handle uintptr) (domain.Rect, error)

	// WindowScale reports the DPI scale ratio of the window's display,
	// falling back to 1.0 when it cannot be determined.
	WindowScale(handle uintptr) float64

	// IsWindow reports whether the handle still refers to a live window.
	IsWindow(handle uintptr) bool

	// Press presses or releases one mouse button at the window's clickable
	// point. Implements the dispatcher's native click path.
	Press(handle uintptr, flags uint32, scale float64) error

	// Click performs repeat full press-and-release cycles at the window's
	// clickable point.
	Click(handle uintptr, button int, repeat int, scale float64) error
}
