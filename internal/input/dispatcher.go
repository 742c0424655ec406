// SPDX-License-Identifier: Apache-2.0

package input

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dverbeek/windriver/internal/domain"
	"github.com/dverbeek/windriver/internal/metrics"
)

// stepGap is the fixed pacing interval slept after every dispatched step.
// It approximates human input cadence and gives the target application's
// message loop CPU time between synthetic events.
const stepGap = 10 * time.Millisecond

// dispatchMu serializes every action dispatch process-wide. The OS input
// queue and the physical cursor are global; two interleaved sequences would
// corrupt each other's event streams regardless of which session they
// belong to.
var dispatchMu sync.Mutex

// NativeClicker is the native-reference click path: when an element carries
// a live window handle, point resolution and event synthesis are delegated
// to the automation layer instead of the cached bounding rectangle.
type NativeClicker interface {
	Press(handle uintptr, flags uint32, scale float64) error
	Click(handle uintptr, button int, repeat int, scale float64) error
}

// DispatchContext is the per-call bundle of session state the engine
// borrows. It is never retained across calls.
type DispatchContext struct {
	AppHandle     uintptr
	ScaleRatio    float64
	LookupElement func(elementID string) (*domain.Element, bool)
	Native        NativeClicker
}

// Dispatcher routes filtered action steps to their handlers and paces
// delivery. All side effects flow through the Sender.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
}

func NewDispatcher(sender Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{sender: sender, logger: logger}
}

// FilterSteps strips degenerate zero-duration pauses. Client libraries emit
// a pause marker between every logical action; keeping the zero-length ones
// would stack the fixed inter-step gap needlessly. All other steps pass
// through in their original order. Filtering is idempotent.
func FilterSteps(src domain.ActionSource) domain.ActionSource {
	out := make(domain.ActionSource, 0, len(src))
	for _, step := range src {
		if step.Kind == domain.KindPause && step.DurationMs == 0 {
			continue
		}
		out = append(out, step)
	}
	return out
}

// ExecuteActions dispatches every source of the sequence strictly in
// submission order, one source fully draining before the next begins. The
// call blocks for the sequence's whole wall-clock duration and does not
// support mid-sequence cancellation; it either runs to completion or stops
// at the first transport failure. Events already delivered before a failure
// are not rolled back.
func (d *Dispatcher) ExecuteActions(seq domain.ActionSequence, dc DispatchContext) error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	started := time.Now()
	defer func() {
		metrics.ObserveSequenceDuration(time.Since(started))
	}()

	for _, source := range seq {
		for _, step := range FilterSteps(source) {
			metrics.IncStep(string(step.Kind))
			if err := d.dispatchStep(step, dc); err != nil {
				d.logger.Error("action dispatch halted",
					"kind", step.Kind,
					"error", err,
				)
				return err
			}
			time.Sleep(stepGap)
		}
	}
	return nil
}

// dispatchStep routes one step by its kind. Unknown kinds and steps whose
// required fields were missing are deliberate no-ops; only transport-level
// failures return an error.
func (d *Dispatcher) dispatchStep(step domain.ActionStep, dc DispatchContext) error {
	switch step.Kind {
	case domain.KindKeyDown:
		return d.sendBatch(KeyEvents(step.Value, false))
	case domain.KindKeyUp:
		return d.sendBatch(KeyEvents(step.Value, true))
	case domain.KindPause:
		time.Sleep(time.Duration(step.DurationMs) * time.Millisecond)
		return nil
	case domain.KindPointerDown:
		return d.pointerStep(step, dc, false)
	case domain.KindPointerUp:
		return d.pointerStep(step, dc, true)
	case domain.KindPointerMove:
		// Cursor movement happens only through the dedicated mouse-position
		// command; pointermove steps inside a sequence are intentionally
		// inert.
		return nil
	default:
		return nil
	}
}

func (d *Dispatcher) sendBatch(batch []NativeInput) error {
	if len(batch) == 0 {
		return nil
	}
	metrics.IncBatch()
	return d.sender.Send(batch)
}

// pointerStep presses or releases a mouse button. When the step targets an
// element with a live native handle, the click is delegated to the
// automation layer; an element known only by rectangle gets a resolved
// clickable point first; an untargeted step fires at the current cursor.
func (d *Dispatcher) pointerStep(step domain.ActionStep, dc DispatchContext, up bool) error {
	flags := ButtonFlags(step.Button, up)

	if step.Origin != "" && dc.LookupElement != nil {
		el, ok := dc.LookupElement(step.Origin)
		if !ok {
			// unresolvable origin degrades like any malformed step
			d.logger.Debug("pointer origin not found", "element_id", step.Origin)
			return nil
		}
		if el.Handle != 0 && dc.Native != nil {
			return dc.Native.Press(el.Handle, flags, dc.ScaleRatio)
		}
		point, err := ClickablePoint(el.Rect, AlignCenter, 0, 0, dc.ScaleRatio)
		if err != nil {
			return nil
		}
		if err := d.sender.SetCursorPos(point); err != nil {
			return err
		}
	}

	return d.sendBatch([]NativeInput{ButtonEvent(step.Button, up)})
}
