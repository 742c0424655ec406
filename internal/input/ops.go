// SPDX-License-Identifier: Apache-2.0

package input

import (
	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/metrics"
)

// Direct operations outside the action-sequence flow. They take the same
// process-wide dispatch lock as ExecuteActions so a direct send can never
// interleave with a running sequence.

// SendText types text: a press then a release per character, delivered as a
// single batch in character order. A character that encodes to a surrogate
// pair keeps both units together within its press and its release.
func (d *Dispatcher) SendText(text string) error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	batch := make([]NativeInput, 0, 2*len(text))
	for _, r := range text {
		batch = append(batch, KeyEvents(string(r), false)...)
		batch = append(batch, KeyEvents(string(r), true)...)
	}
	return d.sendBatch(batch)
}

// SendChord delivers a modifier+key chord as one atomic four-event batch.
// Unresolvable names degrade to a no-op, matching the malformed-step policy.
func (d *Dispatcher) SendChord(modifier, key string) error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	batch := ChordEvents(modifier, key)
	if len(batch) == 0 {
		d.logger.Debug("chord not resolvable", "modifier", modifier, "key", key)
		return nil
	}
	return d.sendBatch(batch)
}

// SendScanCodes injects raw scan codes, each as an atomic press-and-release
// pair, all in one batch.
func (d *Dispatcher) SendScanCodes(codes []uint16) error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	batch := make([]NativeInput, 0, 2*len(codes))
	for _, code := range codes {
		batch = append(batch, ScanCodeEvents(code)...)
	}
	return d.sendBatch(batch)
}

// Click performs repeat press-and-release cycles on an element. Elements
// with a live native handle delegate to the automation layer; otherwise the
// click lands on the resolved clickable point. An unsupported alignment is
// a client error and emits nothing.
func (d *Dispatcher) Click(el *domain.Element, dc DispatchContext, button, repeat int, align string, offsetX, offsetY int) error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	if repeat < 1 {
		repeat = 1
	}

	if el.Handle != 0 && dc.Native != nil {
		return dc.Native.Click(el.Handle, button, repeat, dc.ScaleRatio)
	}

	point, err := ClickablePoint(el.Rect, align, offsetX, offsetY, dc.ScaleRatio)
	if err != nil {
		return err
	}
	if err := d.sender.SetCursorPos(point); err != nil {
		return err
	}
	for i := 0; i < repeat; i++ {
		err := d.sendBatch([]NativeInput{
			ButtonEvent(button, false),
			ButtonEvent(button, true),
		})
		if err != nil {
			return err
		}
	}
	metrics.IncStep("click")
	return nil
}

// CursorPos reads the physical cursor position.
func (d *Dispatcher) CursorPos() (Point, error) {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	return d.sender.CursorPos()
}

// MoveCursor places the physical cursor. This is the only cursor-movement
// operation; pointermove steps inside action sequences do not move it.
func (d *Dispatcher) MoveCursor(p Point) error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	return d.sender.SetCursorPos(p)
}
