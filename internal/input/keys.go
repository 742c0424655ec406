// SPDX-License-Identifier: Apache-2.0

package input

import "strings"

// Win32 virtual-key codes for keys addressable by name.
const (
	vkBack    = 0x08
	vkTab     = 0x09
	vkReturn  = 0x0D
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12 // Alt
	vkEscape  = 0x1B
	vkSpace   = 0x20
	vkEnd     = 0x23
	vkHome    = 0x24
	vkLeft    = 0x25
	vkUp      = 0x26
	vkRight   = 0x27
	vkDown    = 0x28
	vkDelete  = 0x2E
	vkLWin    = 0x5B
	vkF1      = 0x70
)

var namedKeys = map[string]uint16{
	"backspace": vkBack,
	"tab":       vkTab,
	"enter":     vkReturn,
	"return":    vkReturn,
	"shift":     vkShift,
	"ctrl":      vkControl,
	"control":   vkControl,
	"alt":       vkMenu,
	"esc":       vkEscape,
	"escape":    vkEscape,
	"space":     vkSpace,
	"end":       vkEnd,
	"home":      vkHome,
	"left":      vkLeft,
	"up":        vkUp,
	"right":     vkRight,
	"down":      vkDown,
	"delete":    vkDelete,
	"del":       vkDelete,
	"win":       vkLWin,
	"meta":      vkLWin,
}

// vkForChar maps a character to its virtual-key code. The second return is
// false for characters with no direct mapping; those are injected as Unicode
// units instead. Uppercase letters deliberately fall through to Unicode so
// the engine never has to synthesize a Shift press around them.
func vkForChar(r rune) (uint16, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return uint16(r - 'a' + 'A'), true
	case r >= '0' && r <= '9':
		return uint16(r), true
	case r == ' ':
		return vkSpace, true
	case r == '\n', r == '\r':
		return vkReturn, true
	case r == '\t':
		return vkTab, true
	case r == '\b':
		return vkBack, true
	}
	return 0, false
}

// vkForName resolves a key or modifier name ("Ctrl", "F5", "a") to a
// virtual-key code.
func vkForName(name string) (uint16, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if vk, ok := namedKeys[key]; ok {
		return vk, true
	}
	// function keys
	if len(key) >= 2 && key[0] == 'f' {
		n := 0
		for _, c := range key[1:] {
			if c < '0' || c > '9' {
				n = 0
				break
			}
			n = n*10 + int(c-'0')
		}
		if n >= 1 && n <= 24 {
			return uint16(vkF1 + n - 1), true
		}
	}
	runes := []rune(key)
	if len(runes) == 1 {
		return vkForChar(runes[0])
	}
	return 0, false
}
