// SPDX-License-Identifier: Apache-2.0

//go:build windows

package input

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/dverbeek/windriver/internal/domain"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSendInput    = user32.NewProc("SendInput")
	procGetCursorPos = user32.NewProc("GetCursorPos")
	procSetCursorPos = user32.NewProc("SetCursorPos")
)

const (
	inputTypeMouse    = 0
	inputTypeKeyboard = 1
)

// Win32 INPUT wire layout. The union is declared through its largest arm
// (MOUSEINPUT); keyboard records are written through a cast. Field order
// and implicit alignment must match winuser.h exactly or SendInput rejects
// the batch wholesale.
type mouseRecord struct {
	dx        int32
	dy        int32
	mouseData uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type keyboardRecord struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type rawInput struct {
	typ uint32
	mi  mouseRecord
}

type winPoint struct {
	x int32
	y int32
}

type systemSender struct{}

// NewSystemSender returns the Sender backed by the real OS input queue.
func NewSystemSender() Sender {
	return &systemSender{}
}

// Send submits the whole batch in one SendInput call. The OS reports how
// many records it accepted; anything short of the full batch is a transport
// failure, surfaced with the OS error code and never retried.
func (s *systemSender) Send(batch []NativeInput) error {
	if len(batch) == 0 {
		return nil
	}

	raw := make([]rawInput, len(batch))
	for i, ev := range batch {
		if ev.Class == ClassMouse {
			raw[i].typ = inputTypeMouse
			raw[i].mi = mouseRecord{
				dx:        ev.Dx,
				dy:        ev.Dy,
				mouseData: ev.MouseData,
				flags:     ev.MouseFlags,
			}
			continue
		}
		raw[i].typ = inputTypeKeyboard
		ki := (*keyboardRecord)(unsafe.Pointer(&raw[i].mi))
		ki.vk = ev.VK
		ki.scan = ev.Scan
		ki.flags = ev.KeyFlags
	}

	accepted, _, callErr := procSendInput.Call(
		uintptr(len(raw)),
		uintptr(unsafe.Pointer(&raw[0])),
		unsafe.Sizeof(raw[0]),
	)
	if int(accepted) != len(raw) {
		return &domain.TransportError{
			Op:       "SendInput",
			Code:     errnoCode(callErr),
			Accepted: int(accepted),
			Batch:    len(raw),
		}
	}
	return nil
}

func (s *systemSender) CursorPos() (Point, error) {
	var pt winPoint
	ok, _, callErr := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return Point{}, &domain.TransportError{Op: "GetCursorPos", Code: errnoCode(callErr)}
	}
	return Point{X: int(pt.x), Y: int(pt.y)}, nil
}

func (s *systemSender) SetCursorPos(p Point) error {
	ok, _, callErr := procSetCursorPos.Call(uintptr(p.X), uintptr(p.Y))
	if ok == 0 {
		return &domain.TransportError{Op: "SetCursorPos", Code: errnoCode(callErr)}
	}
	return nil
}

func errnoCode(err error) uintptr {
	if errno, ok := err.(windows.Errno); ok {
		return uintptr(errno)
	}
	return 0
}
