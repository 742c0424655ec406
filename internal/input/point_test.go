// SPDX-License-Identifier: Apache-2.0

package input

import (
	"errors"
	"testing"

	"github.com/dverbeek/windriver/internal/domain"
)

func TestClickablePointCenterScaled(t *testing.T) {
	rect := domain.Rect{X: 0, Y: 0, Width: 100, Height: 50}

	point, err := ClickablePoint(rect, "Center", 0, 0, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.X != 75 || point.Y != 37 {
		t.Fatalf("expected (75, 37) got (%d, %d)", point.X, point.Y)
	}
}

func TestClickablePointDefaultsToTopLeft(t *testing.T) {
	rect := domain.Rect{X: 10, Y: 20, Width: 100, Height: 50}

	point, err := ClickablePoint(rect, "", 5, 5, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.X != 15 || point.Y != 25 {
		t.Fatalf("expected (15, 25) got (%d, %d)", point.X, point.Y)
	}
}

func TestClickablePointAnchors(t *testing.T) {
	rect := domain.Rect{X: 10, Y: 20, Width: 100, Height: 50}

	cases := []struct {
		align string
		wantX int
		wantY int
	}{
		{"TopLeft", 10, 20},
		{"topright", 110, 20},
		{"BottomLeft", 10, 70},
		{"bottomright", 110, 70},
		{"center", 60, 45},
	}
	for _, tc := range cases {
		point, err := ClickablePoint(rect, tc.align, 0, 0, 1.0)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.align, err)
		}
		if point.X != tc.wantX || point.Y != tc.wantY {
			t.Fatalf("%s: expected (%d, %d) got (%d, %d)",
				tc.align, tc.wantX, tc.wantY, point.X, point.Y)
		}
	}
}

func TestClickablePointUnsupportedAlignment(t *testing.T) {
	rect := domain.Rect{X: 0, Y: 0, Width: 10, Height: 10}

	_, err := ClickablePoint(rect, "Diagonal", 0, 0, 1.0)
	if err == nil {
		t.Fatal("expected error for unsupported alignment")
	}

	var invalidArg *domain.InvalidArgumentError
	if !errors.As(err, &invalidArg) {
		t.Fatalf("expected InvalidArgumentError got %T", err)
	}
}

func TestClickablePointNonPositiveScale(t *testing.T) {
	rect := domain.Rect{X: 10, Y: 10, Width: 10, Height: 10}

	point, err := ClickablePoint(rect, "topleft", 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.X != 10 || point.Y != 10 {
		t.Fatalf("expected unscaled point got (%d, %d)", point.X, point.Y)
	}
}

func TestRoundNearest(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{37.4, 37},
		{37.5, 37}, // exact halves round down
		{37.6, 38},
		{-1.4, -1},
		{0, 0},
	}
	for _, tc := range cases {
		if got := roundNearest(tc.in); got != tc.want {
			t.Fatalf("roundNearest(%v): expected %d got %d", tc.in, tc.want, got)
		}
	}
}
