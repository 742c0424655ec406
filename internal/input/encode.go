// SPDX-License-Identifier: Apache-2.0

package input

import "unicode/utf16"

// KeyEvents encodes text into keyboard records, in character order.
// Characters with a virtual-key mapping are sent as VK units; everything
// else is sent as Unicode units carrying UTF-16 code units in the scan
// field, so a character outside the BMP expands to its surrogate pair.
// up selects release records (KeyUp flag) instead of press records.
func KeyEvents(text string, up bool) []NativeInput {
	events := make([]NativeInput, 0, len(text))
	for _, r := range text {
		if vk, ok := vkForChar(r); ok {
			ev := NativeInput{Class: ClassKeyboard, VK: vk}
			if up {
				ev.KeyFlags |= KeyUp
			}
			events = append(events, ev)
			continue
		}
		for _, unit := range utf16.Encode([]rune{r}) {
			ev := NativeInput{Class: ClassKeyboard, Scan: unit, KeyFlags: KeyUnicode}
			if up {
				ev.KeyFlags |= KeyUp
			}
			events = append(events, ev)
		}
	}
	return events
}

// ScanCodeEvents encodes a raw hardware scan code as an atomic
// press-and-release pair.
func ScanCodeEvents(code uint16) []NativeInput {
	return []NativeInput{
		{Class: ClassKeyboard, Scan: code, KeyFlags: KeyScancode},
		{Class: ClassKeyboard, Scan: code, KeyFlags: KeyScancode | KeyUp},
	}
}

// ChordEvents encodes a modifier+key chord as a single four-record batch:
// modifier down, key down, key up, modifier up. The ordering is load-bearing;
// the target application decodes the chord from exactly this arrangement.
// Unresolvable names yield an empty batch.
func ChordEvents(modifier, key string) []NativeInput {
	mod, ok := vkForName(modifier)
	if !ok {
		return nil
	}
	vk, ok := vkForName(key)
	if !ok {
		return nil
	}
	return []NativeInput{
		{Class: ClassKeyboard, VK: mod},
		{Class: ClassKeyboard, VK: vk},
		{Class: ClassKeyboard, VK: vk, KeyFlags: KeyUp},
		{Class: ClassKeyboard, VK: mod, KeyFlags: KeyUp},
	}
}

// ButtonFlags maps a wire button code to the press or release mouse flag.
// Only the secondary button (2) selects the right button; every other code,
// including out-of-range ones, is the primary button.
func ButtonFlags(button int, up bool) uint32 {
	if button == 2 {
		if up {
			return MouseRightUp
		}
		return MouseRightDown
	}
	if up {
		return MouseLeftUp
	}
	return MouseLeftDown
}

// ButtonEvent builds a single mouse button record.
func ButtonEvent(button int, up bool) NativeInput {
	return NativeInput{Class: ClassMouse, MouseFlags: ButtonFlags(button, up)}
}
