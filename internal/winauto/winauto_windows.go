// SPDX-License-Identifier: Apache-2.0

//go:build windows

package winauto

import (
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/input"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows     = user32.NewProc("EnumWindows")
	procEnumChildren    = user32.NewProc("EnumChildWindows")
	procGetWindowText   = user32.NewProc("GetWindowTextW")
	procGetClassName    = user32.NewProc("GetClassNameW")
	procGetWindowRect   = user32.NewProc("GetWindowRect")
	procIsWindow        = user32.NewProc("IsWindow")
	procIsWindowVisible = user32.NewProc("IsWindowVisible")
	procGetDpiForWindow = user32.NewProc("GetDpiForWindow")
)

type winRect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

type automation struct {
	sender input.Sender
}

// New returns the Win32-backed automation layer. Clicks are synthesized
// through the given input sender so they share the transport's error
// semantics with the action engine.
func New(sender input.Sender) Automation {
	return &automation{sender: sender}
}

func (a *automation) FindTopWindow(title, className string) (WindowInfo, error) {
	var found WindowInfo
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1 // continue
		}
		info := a.describe(hwnd)
		if !matches(info, title, className) {
			return 1
		}
		found = info
		return 0 // stop enumeration
	})
	procEnumWindows.Call(cb, 0)

	if found.Handle == 0 {
		return WindowInfo{}, domain.ErrWindowNotFound
	}
	return found, nil
}

func (a *automation) Children(handle uintptr) ([]WindowInfo, error) {
	if !a.IsWindow(handle) {
		return nil, domain.ErrWindowNotFound
	}
	var children []WindowInfo
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		children = append(children, a.describe(hwnd))
		return 1
	})
	procEnumChildren.Call(handle, cb, 0)
	return children, nil
}

func (a *automation) WindowRect(handle uintptr) (domain.Rect, error) {
	var rc winRect
	ok, _, _ := procGetWindowRect.Call(handle, uintptr(unsafe.Pointer(&rc)))
	if ok == 0 {
		return domain.Rect{}, domain.ErrWindowNotFound
	}
	return domain.Rect{
		X:      int(rc.left),
		Y:      int(rc.top),
		Width:  int(rc.right - rc.left),
		Height: int(rc.bottom - rc.top),
	}, nil
}

func (a *automation) WindowScale(handle uintptr) float64 {
	dpi, _, _ := procGetDpiForWindow.Call(handle)
	if dpi == 0 {
		return 1.0
	}
	return float64(dpi) / 96.0
}

func (a *automation) IsWindow(handle uintptr) bool {
	ok, _, _ := procIsWindow.Call(handle)
	return ok != 0
}

func (a *automation) Press(handle uintptr, flags uint32, scale float64) error {
	point, err := a.clickablePoint(handle, scale)
	if err != nil {
		return err
	}
	if err := a.sender.SetCursorPos(point); err != nil {
		return err
	}
	return a.sender.Send([]input.NativeInput{
		{Class: input.ClassMouse, MouseFlags: flags},
	})
}

func (a *automation) Click(handle uintptr, button int, repeat int, scale float64) error {
	point, err := a.clickablePoint(handle, scale)
	if err != nil {
		return err
	}
	if err := a.sender.SetCursorPos(point); err != nil {
		return err
	}
	if repeat < 1 {
		repeat = 1
	}
	for i := 0; i < repeat; i++ {
		err := a.sender.Send([]input.NativeInput{
			input.ButtonEvent(button, false),
			input.ButtonEvent(button, true),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *automation) clickablePoint(handle uintptr, scale float64) (input.Point, error) {
	rect, err := a.WindowRect(handle)
	if err != nil {
		return input.Point{}, err
	}
	return input.ClickablePoint(rect, input.AlignCenter, 0, 0, scale)
}

func (a *automation) describe(hwnd uintptr) WindowInfo {
	info := WindowInfo{Handle: hwnd}

	var title [256]uint16
	n, _, _ := procGetWindowText.Call(hwnd, uintptr(unsafe.Pointer(&title[0])), uintptr(len(title)))
	info.Title = windows.UTF16ToString(title[:n])

	var class [256]uint16
	n, _, _ = procGetClassName.Call(hwnd, uintptr(unsafe.Pointer(&class[0])), uintptr(len(class)))
	info.ClassName = windows.UTF16ToString(class[:n])

	if rect, err := a.WindowRect(hwnd); err == nil {
		info.Rect = rect
	}
	return info
}

func matches(info WindowInfo, title, className string) bool {
	if title != "" && !strings.Contains(strings.ToLower(info.Title), strings.ToLower(title)) {
		return false
	}
	if className != "" && info.ClassName != className {
		return false
	}
	return true
}
