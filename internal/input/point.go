// SPDX-License-Identifier: Apache-2.0

package input

import (
	"math"
	"strings"

	"github.com/dverbeek/windriver/internal/domain"
)

// Alignment keywords for clickable-point resolution.
const (
	AlignTopLeft     = "topleft"
	AlignTopRight    = "topright"
	AlignBottomLeft  = "bottomleft"
	AlignBottomRight = "bottomright"
	AlignCenter      = "center"
)

// ClickablePoint resolves a physical-pixel point from an element rectangle:
// the alignment anchor inside the rectangle, plus the pixel offsets, both
// axes then scaled from logical to physical pixels and rounded to the
// nearest integer. An unrecognized alignment is a client error and resolves
// no point; an empty alignment defaults to the top-left anchor.
func ClickablePoint(rect domain.Rect, align string, offsetX, offsetY int, scale float64) (Point, error) {
	anchorX, anchorY := rect.X, rect.Y

	switch strings.ToLower(strings.TrimSpace(align)) {
	case AlignTopLeft, "":
	case AlignTopRight:
		anchorX = rect.X + rect.Width
	case AlignBottomLeft:
		anchorY = rect.Y + rect.Height
	case AlignBottomRight:
		anchorX = rect.X + rect.Width
		anchorY = rect.Y + rect.Height
	case AlignCenter:
		anchorX = rect.X + rect.Width/2
		anchorY = rect.Y + rect.Height/2
	default:
		return Point{}, domain.InvalidArgument("unsupported alignment %q", align)
	}

	if scale <= 0 {
		scale = 1.0
	}

	return Point{
		X: roundNearest(float64(anchorX+offsetX) * scale),
		Y: roundNearest(float64(anchorY+offsetY) * scale),
	}, nil
}

// roundNearest rounds to the nearest integer with exact halves rounding
// down, matching how scaled coordinates have always been truncated here;
// clients calibrate against these pixel values.
func roundNearest(v float64) int {
	return int(math.Ceil(v - 0.5))
}
