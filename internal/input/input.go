// SPDX-License-Identifier: Apache-2.0

// Package input is the action execution engine: it encodes semantic
// keyboard/pointer steps into native input event records, resolves
// element-relative screen coordinates, and dispatches ordered event batches
// to the operating system input queue.
package input

// Event classes. Exactly one arm of NativeInput is populated per record.
const (
	ClassKeyboard = iota
	ClassMouse
)

// Keyboard event flags, mirroring the Win32 KEYEVENTF_* values.
const (
	KeyExtended uint32 = 0x0001
	KeyUp       uint32 = 0x0002
	KeyUnicode  uint32 = 0x0004
	KeyScancode uint32 = 0x0008
)

// Mouse event flags, mirroring the Win32 MOUSEEVENTF_* values.
const (
	MouseMove       uint32 = 0x0001
	MouseLeftDown   uint32 = 0x0002
	MouseLeftUp     uint32 = 0x0004
	MouseRightDown  uint32 = 0x0008
	MouseRightUp    uint32 = 0x0010
	MouseMiddleDown uint32 = 0x0020
	MouseMiddleUp   uint32 = 0x0040
	MouseXDown      uint32 = 0x0080
	MouseXUp        uint32 = 0x0100
	MouseWheel      uint32 = 0x0800
	MouseAbsolute   uint32 = 0x8000
)

// NativeInput is one OS input unit. The keyboard arm carries either a
// virtual-key code, a scan code, or a Unicode code point depending on
// KeyFlags; the mouse arm carries button/wheel flags and signed deltas.
// Records convert to the OS wire layout only inside the platform sender.
type NativeInput struct {
	Class int

	// keyboard arm
	VK       uint16
	Scan     uint16
	KeyFlags uint32

	// mouse arm
	Dx         int32
	Dy         int32
	MouseData  uint32
	MouseFlags uint32
}

// Point is a physical-pixel screen coordinate.
type Point struct {
	X int
	Y int
}

// Sender delivers one ordered batch of native events to the OS as a single
// atomic call and exposes the physical cursor. Implementations must report
// a *domain.TransportError when the OS accepts fewer records than sent.
type Sender interface {
	Send(batch []NativeInput) error
	CursorPos() (Point, error)
	SetCursorPos(p Point) error
}
