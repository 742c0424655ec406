// SPDX-License-Identifier: Apache-2.0

package input

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dverbeek/windriver/internal/domain"
)

func TestSendTextPressReleasePairs(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	if err := d.SendText("ab"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.batches) != 1 {
		t.Fatalf("expected one batch got %d", len(sender.batches))
	}
	batch := sender.batches[0]
	if len(batch) != 4 {
		t.Fatalf("expected 4 events got %d", len(batch))
	}

	// a-down, a-up, b-down, b-up
	if batch[0].VK != 'A' || batch[0].KeyFlags&KeyUp != 0 {
		t.Fatalf("unexpected first event: %+v", batch[0])
	}
	if batch[1].VK != 'A' || batch[1].KeyFlags&KeyUp == 0 {
		t.Fatalf("unexpected second event: %+v", batch[1])
	}
	if batch[2].VK != 'B' || batch[2].KeyFlags&KeyUp != 0 {
		t.Fatalf("unexpected third event: %+v", batch[2])
	}
}

func TestSendTextKeepsSurrogatePairTogether(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	if err := d.SendText("\U0001F600"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.batches) != 1 {
		t.Fatalf("expected one batch got %d", len(sender.batches))
	}
	batch := sender.batches[0]
	if len(batch) != 4 {
		t.Fatalf("expected 4 events got %d", len(batch))
	}

	// press: high then low surrogate, release: high then low surrogate
	wantScans := []uint16{0xD83D, 0xDE00, 0xD83D, 0xDE00}
	for i, want := range wantScans {
		if batch[i].Scan != want {
			t.Fatalf("event %d: expected scan %#x got %#x", i, want, batch[i].Scan)
		}
	}
	for i := 0; i < 2; i++ {
		if batch[i].KeyFlags&KeyUp != 0 {
			t.Fatalf("event %d: unexpected KeyUp flag on press", i)
		}
	}
	for i := 2; i < 4; i++ {
		if batch[i].KeyFlags&KeyUp == 0 {
			t.Fatalf("event %d: expected KeyUp flag on release", i)
		}
	}
}

func TestSendChordAtomicBatch(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	if err := d.SendChord("ctrl", "c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.batches) != 1 || len(sender.batches[0]) != 4 {
		t.Fatalf("expected one 4-event batch, got %d batches", len(sender.batches))
	}
}

func TestSendChordUnknownIsNoop(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	if err := d.SendChord("hyper", "c"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.batches) != 0 {
		t.Fatal("unknown chord must emit nothing")
	}
}

func TestSendScanCodes(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	if err := d.SendScanCodes([]uint16{0x1C, 0x0E}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.batches) != 1 {
		t.Fatalf("expected one batch got %d", len(sender.batches))
	}
	batch := sender.batches[0]
	if len(batch) != 4 {
		t.Fatalf("expected 4 events got %d", len(batch))
	}
	for _, ev := range batch {
		if ev.KeyFlags&KeyScancode == 0 {
			t.Fatalf("expected Scancode flag on %+v", ev)
		}
	}
}

func TestClickResolvedPoint(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	el := &domain.Element{
		ID:   uuid.New(),
		Rect: domain.Rect{X: 0, Y: 0, Width: 40, Height: 20},
	}

	err := d.Click(el, DispatchContext{ScaleRatio: 1.0}, domain.ButtonLeft, 2, "center", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.moves) != 1 || sender.moves[0].X != 20 || sender.moves[0].Y != 10 {
		t.Fatalf("unexpected cursor moves: %+v", sender.moves)
	}
	// two full press-and-release cycles
	if len(sender.batches) != 2 {
		t.Fatalf("expected 2 click batches got %d", len(sender.batches))
	}
	for _, batch := range sender.batches {
		if batch[0].MouseFlags != MouseLeftDown || batch[1].MouseFlags != MouseLeftUp {
			t.Fatalf("unexpected click batch: %+v", batch)
		}
	}
}

func TestClickUnsupportedAlignmentEmitsNothing(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	el := &domain.Element{ID: uuid.New(), Rect: domain.Rect{Width: 10, Height: 10}}

	err := d.Click(el, DispatchContext{ScaleRatio: 1.0}, domain.ButtonLeft, 1, "Diagonal", 0, 0)
	if err == nil {
		t.Fatal("expected invalid argument error")
	}
	var invalidArg *domain.InvalidArgumentError
	if !errors.As(err, &invalidArg) {
		t.Fatalf("expected InvalidArgumentError got %T", err)
	}
	if len(sender.batches) != 0 || len(sender.moves) != 0 {
		t.Fatal("invalid alignment must not emit native events")
	}
}

func TestClickDelegatesToNativeHandle(t *testing.T) {
	sender := &fakeSender{}
	native := &fakeNative{}
	d := testDispatcher(sender)

	el := &domain.Element{ID: uuid.New(), Handle: 0xF00D}

	err := d.Click(el, DispatchContext{ScaleRatio: 1.0, Native: native}, domain.ButtonLeft, 3, "", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if native.clicks != 3 || native.handle != 0xF00D {
		t.Fatalf("expected 3 native clicks on handle, got %+v", native)
	}
	if len(sender.batches) != 0 {
		t.Fatal("native path must not synthesize its own batch")
	}
}

func TestMoveCursor(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(sender)

	if err := d.MoveCursor(Point{X: 3, Y: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pos, err := d.CursorPos()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.X != 3 || pos.Y != 4 {
		t.Fatalf("expected (3, 4) got (%d, %d)", pos.X, pos.Y)
	}
}
