// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"strconv"
	"strings"
)

// ActionKind identifies one step variant of a client action sequence. Kind
// strings on the wire are matched case-insensitively; anything unrecognized
// parses to KindNoop and dispatches as a no-op rather than an error.
type ActionKind string

const (
	KindKeyDown     ActionKind = "keydown"
	KindKeyUp       ActionKind = "keyup"
	KindPause       ActionKind = "pause"
	KindPointerDown ActionKind = "pointerdown"
	KindPointerUp   ActionKind = "pointerup"
	KindPointerMove ActionKind = "pointermove"
	KindNoop        ActionKind = "noop"
)

// Mouse button codes from the wire protocol. Anything other than
// ButtonRight is treated as the primary button.
const (
	ButtonLeft  = 0
	ButtonRight = 2
)

// ActionStep is the closed, validated form of one wire action entry. Each
// kind uses only its own fields; a step whose required field was missing or
// unparsable is parsed to KindNoop so it occupies its slot in the sequence
// (and its inter-step gap) without emitting events.
type ActionStep struct {
	Kind       ActionKind
	Value      string // keydown/keyup: characters to encode
	DurationMs int    // pause
	Button     int    // pointerdown/pointerup
	Origin     string // optional element id for pointer steps
}

// ActionSource is one ordered run of steps. Sources never interleave: a
// source's steps fully complete before the next source begins.
type ActionSource []ActionStep

type ActionSequence []ActionSource

// elementKey is the W3C element identifier used inside pointer origins.
const elementKey = "element-6066-11e4-a52e-4f735466cecf"

// ParseActionSequence converts the decoded "actions" payload into the closed
// step variants. This is the only place raw wire maps are inspected; every
// malformed entry degrades here, once, to KindNoop.
func ParseActionSequence(raw []map[string]any) ActionSequence {
	seq := make(ActionSequence, 0, len(raw))
	for _, source := range raw {
		steps, _ := source["actions"].([]any)
		parsed := make(ActionSource, 0, len(steps))
		for _, entry := range steps {
			step, ok := entry.(map[string]any)
			if !ok {
				parsed = append(parsed, ActionStep{Kind: KindNoop})
				continue
			}
			parsed = append(parsed, parseStep(step))
		}
		seq = append(seq, parsed)
	}
	return seq
}

func parseStep(step map[string]any) ActionStep {
	kind, _ := step["type"].(string)
	switch ActionKind(strings.ToLower(kind)) {
	case KindKeyDown, KindKeyUp:
		value, ok := step["value"].(string)
		if !ok {
			return ActionStep{Kind: KindNoop}
		}
		out := ActionStep{Kind: KindKeyDown, Value: value}
		if strings.EqualFold(kind, string(KindKeyUp)) {
			out.Kind = KindKeyUp
		}
		return out
	case KindPause:
		ms := asInt(step["duration"])
		if ms < 0 {
			ms = 0
		}
		return ActionStep{Kind: KindPause, DurationMs: ms}
	case KindPointerDown, KindPointerUp:
		out := ActionStep{
			Kind:   KindPointerDown,
			Button: asInt(step["button"]),
			Origin: originElementID(step["origin"]),
		}
		if strings.EqualFold(kind, string(KindPointerUp)) {
			out.Kind = KindPointerUp
		}
		return out
	case KindPointerMove:
		return ActionStep{Kind: KindPointerMove}
	default:
		return ActionStep{Kind: KindNoop}
	}
}

// asInt parses a loosely typed wire number. Unparsable values become 0; the
// protocol treats that as "absent" rather than an error.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// originElementID extracts an element id from a pointer origin. String
// origins ("viewport", "pointer") carry no element and map to "".
func originElementID(v any) string {
	origin, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	if id, ok := origin[elementKey].(string); ok {
		return id
	}
	if id, ok := origin["ELEMENT"].(string); ok {
		return id
	}
	return ""
}
