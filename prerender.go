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

import "github.com/chewxy/math32"

// This file builds the curve tables the stage evaluators consume. The
// construction picks breakpoints and slopes from the knob values and then
// *derives* the curve values from the continuity conditions of each
// segment family, so every table has strictly increasing breakpoints and
// C1 joins for any admissible knob setting.

// styleRange describes the value range a grading style operates on. For
// StyleLin the stages run on log2-encoded data, so the range is in
// relative exposure stops around 0.18.
type styleRange struct {
	bottom, top float32
	pivot       float32
}

func rangeForStyle(s Style) styleRange {
	if s == StyleLin {
		return styleRange{bottom: -7, top: 6, pivot: 0}
	}
	return styleRange{bottom: 0, top: 1, pivot: 0.4}
}

func computeTable(v *Tone, style Style) toneTable {
	r := rangeForStyle(style)

	var tbl toneTable
	for ch := Red; ch <= Master; ch++ {
		tbl.mid[ch] = computeMid(v.Midtones.channel(ch), r)
		tbl.hs[0][ch] = computeHighlight(v.Highlights.channel(ch), r)
		tbl.hs[1][ch] = computeShadow(v.Shadows.channel(ch), r)
		tbl.wb[0][ch] = computeWhite(v.Whites.channel(ch), r)
		tbl.wb[1][ch] = computeBlack(v.Blacks.channel(ch), r)
	}
	tbl.sc = computeContrastEnds(v.Contrast, r)
	tbl.pivot = r.pivot
	tbl.localBypass = v.isNeutral()
	return tbl
}

// midSlopeShape distributes the midtone adjustment over the six breakpoint
// slopes. The trapezoid sum of the deviations is zero, so the curve meets
// the identity line again at the outer breakpoints and only the middle of
// the range moves.
var midSlopeShape = [6]float32{-1.5, -0.75, 1.5, 1.5, -0.75, -1.5}

func computeMid(knob float64, r styleRange) midCurve {
	adj := clamp32(float32(knob), 0.01, 1.99)
	d := adj - 1
	w := (r.top - r.bottom) / 5

	var c midCurve
	for i := range c.x {
		c.x[i] = r.bottom + w*float32(i)
		c.m[i] = 1 + 0.5*d*midSlopeShape[i]
	}
	// segment end values follow from the slopes (trapezoid rule), which
	// is exactly the C1 condition of the parabolic segments
	c.y[0] = c.x[0]
	for i := 0; i < 5; i++ {
		c.y[i+1] = c.y[i] + w*(c.m[i]+c.m[i+1])*0.5
	}
	return c
}

// hsCentre fills in the shared centre breakpoint of a highlight/shadow
// curve. The centre value is the unique choice for which the two
// quadratic segments join with equal slope.
func hsCentre(c *hsCurve) {
	c.x[1] = 0.5 * (c.x[0] + c.x[2])
	w := 0.5 * (c.x[2] - c.x[0])
	c.y[1] = 0.5*(c.y[0]+c.y[2]) + 0.25*w*(c.m[0]-c.m[1])
}

// computeHighlight builds the highlight curve on the upper half of the
// range: identity at its lower breakpoint, expanding toward the top by
// the knob's distance from neutral. Boosting highlights evaluates this
// curve directly; reducing them solves it for its inverse.
func computeHighlight(knob float64, r styleRange) hsCurve {
	vc := clamp32(float32(knob), 0.01, 1.99)
	s := math32.Abs(vc - 1)

	var c hsCurve
	c.x[0] = r.bottom + 0.5*(r.top-r.bottom)
	c.x[2] = r.top
	c.y[0] = c.x[0]
	c.m[0] = 1
	c.y[2] = c.x[2] + s*0.5*(c.x[2]-c.x[0])
	c.m[1] = 1 + s
	hsCentre(&c)
	return c
}

// computeShadow builds the shadow curve on the lower half of the range:
// identity at its upper breakpoint, compressing toward the bottom.
// Reducing shadows evaluates this curve directly; lifting them solves it
// for its inverse.
func computeShadow(knob float64, r styleRange) hsCurve {
	vc := clamp32(float32(knob), 0.01, 1.99)
	e := math32.Min(vc, 2-vc)

	var c hsCurve
	c.x[0] = r.bottom
	c.x[2] = r.bottom + 0.5*(r.top-r.bottom)
	c.y[2] = c.x[2]
	c.m[1] = 1
	c.m[0] = e
	c.y[0] = c.x[0] - (1-e)*0.5*(c.x[2]-c.x[0])
	hsCentre(&c)
	return c
}

// computeWhite builds the white point curve on the upper half of the
// range. The stored segment always has decreasing slope; white knobs
// above neutral use its analytic inverse, with the gain extending the
// solvable input range.
func computeWhite(knob float64, r styleRange) wbCurve {
	vc := clamp32(float32(knob), 0.01, 1.99)
	e := math32.Min(vc, 2-vc)

	var c wbCurve
	c.x[0] = r.bottom + 0.5*(r.top-r.bottom)
	c.x[1] = r.top
	c.y[0] = c.x[0]
	c.m[0] = 1
	c.m[1] = e
	c.y[1] = c.y[0] + (c.x[1]-c.x[0])*(c.m[0]+c.m[1])*0.5
	c.gain = (c.m[0] + c.m[1]) * 0.5
	return c
}

// computeBlack builds the black point curve on the lower half of the
// range, anchored at its upper breakpoint.
func computeBlack(knob float64, r styleRange) wbCurve {
	vc := clamp32(float32(knob), 0.01, 1.99)
	e := math32.Min(vc, 2-vc)

	var c wbCurve
	c.x[0] = r.bottom
	c.x[1] = r.bottom + 0.5*(r.top-r.bottom)
	c.m[0] = e
	c.m[1] = 1
	c.y[1] = c.x[1]
	c.y[0] = c.y[1] - (c.x[1]-c.x[0])*(c.m[0]+c.m[1])*0.5
	c.gain = (c.m[0] + c.m[1]) * 0.5
	return c
}

// computeContrastEnds builds the two parabolic joins that fade the
// contrast line back to slope 1 outside the central part of the range.
// The join values are placed on the contrast line itself, so the blend is
// C1 against both the line and the outer rays.
func computeContrastEnds(contrast float64, r styleRange) [2]scEnd {
	cr := float32(contrast)
	switch {
	case cr > 1:
		cr = 1 / (1.8125 - 0.8125*math32.Min(cr, 1.99))
	case cr < 1:
		cr = 0.28125 + 0.71875*math32.Max(cr, 0.01)
	default:
		cr = 1
	}

	span := r.top - r.bottom
	pivot := r.pivot

	var top scEnd
	top.x1 = r.bottom + 0.75*span
	top.x2 = r.top + 0.25*span
	top.m0 = cr
	top.m1 = 1
	top.y1 = (top.x1-pivot)*cr + pivot
	top.y2 = top.y1 + (top.x2-top.x1)*(top.m0+top.m1)*0.5

	var bot scEnd
	bot.x1 = r.bottom - 0.25*span
	bot.x2 = r.bottom + 0.25*span
	bot.m0 = 1
	bot.m1 = cr
	bot.y2 = (bot.x2-pivot)*cr + pivot
	bot.y1 = bot.y2 - (bot.x2-bot.x1)*(bot.m0+bot.m1)*0.5

	return [2]scEnd{top, bot}
}
