// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package input

import "github.com/dverbeek/windriver/internal/domain"

// Stub sender for platforms without native input injection. Every operation
// fails; the server still starts so the HTTP surface can be exercised.

type systemSender struct{}

func NewSystemSender() Sender {
	return &systemSender{}
}

func (s *systemSender) Send(batch []NativeInput) error {
	return domain.ErrUnsupportedPlatform
}

func (s *systemSender) CursorPos() (Point, error) {
	return Point{}, domain.ErrUnsupportedPlatform
}

func (s *systemSender) SetCursorPos(p Point) error {
	return domain.ErrUnsupportedPlatform
}
