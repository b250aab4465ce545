// seehuhn.de/go/grading - tone grading for colour pipelines
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package grading

import (
	"testing"

	"github.com/chewxy/math32"
)

// continuousAt checks that f has no jump at the breakpoint b: the values
// just below and just above must agree up to the local slope times the
// step width.
func continuousAt(t *testing.T, name string, f func(float32) float32, b float32) {
	t.Helper()
	const eps = 1e-3
	lo := f(b - eps)
	hi := f(b + eps)
	if math32.Abs(hi-lo) > 0.01 {
		t.Errorf("%s: jump at %g: f(%g)=%g, f(%g)=%g",
			name, b, b-eps, lo, b+eps, hi)
	}
}

func TestMidContinuity(t *testing.T) {
	knobs := []float64{0.01, 0.4, 1.3, 1.99}
	for _, style := range []Style{StyleLog, StyleLin} {
		r := rangeForStyle(style)
		for _, knob := range knobs {
			c := computeMid(knob, r)
			f := func(x float32) float32 {
				return float32(evalMid(&c, scalar(x)))
			}
			for _, b := range c.x {
				continuousAt(t, style.String(), f, b)
			}
		}
	}
}

func TestHighlightShadowContinuity(t *testing.T) {
	r := rangeForStyle(StyleLog)

	// forward: both quadratic segments plus the outer rays
	for _, knob := range []float64{1.3, 1.99} {
		c := computeHighlight(knob, r)
		val := 2 - float32(knob)
		f := func(x float32) float32 {
			return float32(evalHS(val, &c, scalar(x)))
		}
		for _, b := range c.x {
			continuousAt(t, "highlight fwd", f, b)
		}
	}

	// inverse: the regions are bounded by the curve values, not the
	// breakpoints
	for _, knob := range []float64{0.7, 0.01} {
		c := computeHighlight(knob, r)
		val := 2 - float32(knob)
		f := func(x float32) float32 {
			return float32(evalHS(val, &c, scalar(x)))
		}
		for _, b := range c.y {
			continuousAt(t, "highlight inv", f, b)
		}
	}

	for _, knob := range []float64{0.6, 1.4} {
		c := computeShadow(knob, r)
		val := float32(knob)
		f := func(x float32) float32 {
			return float32(evalHS(val, &c, scalar(x)))
		}
		bounds := c.x[:]
		if val > 1 {
			bounds = c.y[:]
		}
		for _, b := range bounds {
			continuousAt(t, "shadow", f, b)
		}
	}
}

func TestWhiteBlackContinuity(t *testing.T) {
	for _, style := range []Style{StyleLog, StyleLin} {
		r := rangeForStyle(style)

		// forward segment against its rays
		c := computeWhite(0.7, r)
		f := func(x float32) float32 {
			return float32(evalWB(false, 0.7, &c, scalar(x)))
		}
		continuousAt(t, "white fwd", f, c.x[0])
		continuousAt(t, "white fwd", f, c.x[1])

		// inverse white: the extrapolation past x1 must join the solved
		// branch without a step
		ci := computeWhite(1.4, r)
		fi := func(x float32) float32 {
			return float32(evalWB(false, 1.4, &ci, scalar(x)))
		}
		continuousAt(t, "white inv", fi, ci.y[0])
		continuousAt(t, "white inv", fi, ci.x[1])

		cb := computeBlack(0.65, r)
		val := float32(2 - 0.65)
		fb := func(x float32) float32 {
			return float32(evalWB(true, val, &cb, scalar(x)))
		}
		continuousAt(t, "black inv", fb, cb.y[0])
		continuousAt(t, "black inv", fb, cb.y[1])
	}
}

// TestBreakpointTies pins down which segment wins when the input sits
// exactly on a breakpoint: the segment above. Both the scalar and the
// packed evaluators must agree on this, otherwise flat images straddling
// a breakpoint value grade inconsistently.
func TestBreakpointTies(t *testing.T) {
	r := rangeForStyle(StyleLog)

	c := computeHighlight(1.4, r)
	got := float32(evalHS(0.6, &c, scalar(c.x[1])))
	if got != c.y[1] {
		t.Errorf("highlight at centre breakpoint: got %g, want %g (upper segment)",
			got, c.y[1])
	}

	w := computeWhite(0.7, r)
	got = float32(evalWB(false, 0.7, &w, scalar(w.x[1])))
	if got != w.y[1] {
		t.Errorf("white at upper breakpoint: got %g, want %g (boundary ray)",
			got, w.y[1])
	}

	m := computeMid(1.3, r)
	sc := float32(evalMid(&m, scalar(m.x[2])))
	pk := evalMid(&m, triple{m.x[2], m.x[2], m.x[2]})
	if sc != pk[0] || sc != pk[1] || sc != pk[2] {
		t.Errorf("midtone tie: scalar %g, packed %v", sc, pk)
	}
}

// TestScalarPackedAgree checks that the packed evaluators are bit-exact
// against the scalar ones, so master and per-channel adjustments cannot
// drift apart.
func TestScalarPackedAgree(t *testing.T) {
	r := rangeForStyle(StyleLog)
	inputs := []float32{-0.5, 0, 0.1, 0.2, 0.35, 0.5, 0.65, 0.8, 1, 1.5, 10}

	m := computeMid(1.6, r)
	h := computeHighlight(0.8, r)
	s := computeShadow(1.2, r)
	w := computeWhite(1.3, r)
	b := computeBlack(0.7, r)

	for _, x := range inputs {
		pk := triple{x, x, x}

		if got, want := evalMid(&m, pk), float32(evalMid(&m, scalar(x))); got[0] != want || got[1] != want || got[2] != want {
			t.Errorf("mid(%g): packed %v, scalar %g", x, got, want)
		}
		if got, want := evalHS(1.2, &h, pk), float32(evalHS(1.2, &h, scalar(x))); got[0] != want {
			t.Errorf("highlight(%g): packed %g, scalar %g", x, got[0], want)
		}
		if got, want := evalHS(1.2, &s, pk), float32(evalHS(1.2, &s, scalar(x))); got[0] != want {
			t.Errorf("shadow(%g): packed %g, scalar %g", x, got[0], want)
		}
		if got, want := evalWB(false, 1.3, &w, pk), float32(evalWB(false, 1.3, &w, scalar(x))); got[0] != want {
			t.Errorf("white(%g): packed %g, scalar %g", x, got[0], want)
		}
		if got, want := evalWB(true, 1.3, &b, pk), float32(evalWB(true, 1.3, &b, scalar(x))); got[0] != want {
			t.Errorf("black(%g): packed %g, scalar %g", x, got[0], want)
		}
	}
}

func TestContrastBlendContinuity(t *testing.T) {
	for _, style := range []Style{StyleLog, StyleLin} {
		tone := NeutralTone()
		tone.Contrast = 1.7
		tbl := computeTable(&tone, style)

		f := func(x float32) float32 {
			out := []float32{x, x, x, 1}
			tbl.scontrast(&tone, out)
			return out[0]
		}
		for _, b := range []float32{tbl.sc[0].x1, tbl.sc[0].x2, tbl.sc[1].x1, tbl.sc[1].x2} {
			continuousAt(t, style.String(), f, b)
		}

		// inside the blend region the remap must still pass through the
		// pivot unchanged
		if got := f(tbl.pivot); math32.Abs(got-tbl.pivot) > 1e-6 {
			t.Errorf("%s: pivot moved: %g -> %g", style, tbl.pivot, got)
		}
	}
}
