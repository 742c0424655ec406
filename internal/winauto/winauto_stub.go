// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package winauto

import (
	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/input"
)

type automation struct{}

// New returns the stub automation layer. Sessions can still be created
// against it (unbound, with no window handle) so the server remains
// testable off-Windows.
func New(_ input.Sender) Automation {
	return &automation{}
}

func (a *automation) FindTopWindow(title, className string) (WindowInfo, error) {
	return WindowInfo{}, domain.ErrUnsupportedPlatform
}

func (a *automation) Children(handle uintptr) ([]WindowInfo, error) {
	return nil, domain.ErrUnsupportedPlatform
}

func (a *automation) WindowRect(handle uintptr) (domain.Rect, error) {
	return domain.Rect{}, domain.ErrUnsupportedPlatform
}

func (a *automation) WindowScale(handle uintptr) float64 {
	return 1.0
}

func (a *automation) IsWindow(handle uintptr) bool {
	return false
}

func (a *automation) Press(handle uintptr, flags uint32, scale float64) error {
	return domain.ErrUnsupportedPlatform
}

func (a *automation) Click(handle uintptr, button int, repeat int, scale float64) error {
	return domain.ErrUnsupportedPlatform
}
