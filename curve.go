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

// The curve stages read a precomputed table of breakpoints (x), values (y)
// and slopes (m). Within a stage the breakpoints are strictly increasing
// and the segments join with matching value and first derivative; the
// evaluators rely on this and do not re-verify it.

// midCurve is the midtone curve: five contiguous parabolic segments given
// by value and slope at six breakpoints, with linear rays beyond the ends.
type midCurve struct {
	x, y, m [6]float32
}

// hsCurve is the highlight or shadow curve: two quadratic Bezier-like
// segments meeting at a shared centre breakpoint. m holds the slopes at
// the outer breakpoints x[0] and x[2].
type hsCurve struct {
	x, y [3]float32
	m    [2]float32
}

// wbCurve is the white or black point curve: a single parabolic segment
// with linear rays outside, plus a gain that rescales the input around the
// anchored breakpoint before the inverse solve.
type wbCurve struct {
	x, y, m [2]float32
	gain    float32
}

// scEnd is one end of the contrast blend: a parabolic join from the
// contrast line back to slope-1 behaviour between x1 and x2. m0 is the
// slope at x1, m1 the slope at x2.
type scEnd struct {
	x1, x2 float32
	y1, y2 float32
	m0, m1 float32
}

// toneTable is the precomputed, read-only curve table for one parameter
// set. Index 0 of hs and wb is the highlight/white curve, index 1 the
// shadow/black curve; sc[0] is the top end of the contrast blend, sc[1]
// the bottom end.
type toneTable struct {
	mid [4]midCurve
	hs  [2][4]hsCurve
	wb  [2][4]wbCurve
	sc  [2]scEnd

	pivot float32

	// localBypass is set when every knob is neutral, so Apply can skip
	// the whole stage stack.
	localBypass bool
}

// evalMid evaluates the midtone curve. Each segment is a parabola defined
// by the value and slope at its left breakpoint and the slope at its right
// breakpoint; values outside [x0, x5] follow the boundary rays.
func evalMid[T channelValue[T]](c *midCurve, t T) T {
	x := &c.x
	y := &c.y
	m := &c.m

	tL := t.addc(-x[0]).divc(x[1] - x[0])
	tM := t.addc(-x[1]).divc(x[2] - x[1])
	tR := t.addc(-x[2]).divc(x[3] - x[2])
	tR2 := t.addc(-x[3]).divc(x[4] - x[3])
	tR3 := t.addc(-x[4]).divc(x[5] - x[4])

	fL := tL.mulc(x[1] - x[0]).mul(tL.mulc(0.5 * (m[1] - m[0])).addc(m[0])).addc(y[0])
	fM := tM.mulc(x[2] - x[1]).mul(tM.mulc(0.5 * (m[2] - m[1])).addc(m[1])).addc(y[1])
	fR := tR.mulc(x[3] - x[2]).mul(tR.mulc(0.5 * (m[3] - m[2])).addc(m[2])).addc(y[2])
	fR2 := tR2.mulc(x[4] - x[3]).mul(tR2.mulc(0.5 * (m[4] - m[3])).addc(m[3])).addc(y[3])
	fR3 := tR3.mulc(x[5] - x[4]).mul(tR3.mulc(0.5 * (m[5] - m[4])).addc(m[4])).addc(y[4])

	rayLo := t.addc(-x[0]).mulc(m[0]).addc(y[0])
	rayHi := t.addc(-x[5]).mulc(m[5]).addc(y[5])

	res := t.selectLT(x[1], fL, fM)
	res = t.selectLT(x[2], res, fR)
	res = t.selectLT(x[3], res, fR2)
	res = t.selectLT(x[4], res, fR3)
	res = t.selectLT(x[0], rayLo, res)
	res = t.selectLT(x[5], res, rayHi)
	return res
}

// evalHS evaluates the highlight/shadow curve. val is the adjustment after
// the highlight mirror (2 - knob). Below the neutral value the two
// quadratic segments are evaluated directly; above it the same geometry is
// remapped along the y axis by solving each parabola analytically with the
// quadratic formula.
func evalHS[T channelValue[T]](val float32, c *hsCurve, t T) T {
	x0, x1, x2 := c.x[0], c.x[1], c.x[2]
	y0, y1, y2 := c.y[0], c.y[1], c.y[2]
	m0, m2 := c.m[0], c.m[1]

	if val < 1 {
		tL := t.addc(-x0).divc(x1 - x0)
		tR := t.addc(-x1).divc(x2 - x1)

		ttL := tL.mul(tL)
		fL := ttL.csub(1).mulc(y0).
			add(ttL.mulc(y1)).
			add(tL.csub(1).mulc(m0).mul(tL).mulc(x1 - x0))

		oneMinusTR := tR.csub(1)
		fR := oneMinusTR.mul(oneMinusTR).mulc(y1).
			add(tR.csub(2).mulc(y2).mul(tR)).
			add(tR.addc(-1).mulc(m2).mul(tR).mulc(x2 - x1))

		res := t.selectLT(x1, fL, fR)
		res = t.selectLT(x0, t.addc(-x0).mulc(m0).addc(y0), res)
		res = t.selectLT(x2, res, t.addc(-x2).mulc(m2).addc(y2))
		return res
	}
	if val > 1 {
		bL := m0 * (x1 - x0)
		aL := y1 - y0 - m0*(x1-x0)
		cL := t.csub(y0)
		discrimL := cL.mulc(-4 * aL).addc(bL * bL).sqrt()
		outL := cL.mulc(-2).div(discrimL.addc(bL)).mulc(x1 - x0).addc(x0)

		bR := 2*y2 - 2*y1 - m2*(x2-x1)
		aR := y1 - y2 + m2*(x2-x1)
		cR := t.csub(y1)
		discrimR := cR.mulc(-4 * aR).addc(bR * bR).sqrt()
		outR := cR.mulc(-2).div(discrimR.addc(bR)).mulc(x2 - x1).addc(x1)

		res := t.selectLT(y1, outL, outR)
		res = t.selectLT(y0, t.addc(-y0).divc(m0).addc(x0), res)
		res = t.selectLT(y2, res, t.addc(-y2).divc(m2).addc(x2))
		return res
	}
	return t
}

// evalWB evaluates the white/black curve. mtest is the adjustment after
// the black mirror (2 - knob). The gain rescales the input around the
// anchored breakpoint before the inverse solve, which extends the usable
// range for high-dynamic-range content.
func evalWB[T channelValue[T]](isBlack bool, mtest float32, c *wbCurve, t T) T {
	x0, x1 := c.x[0], c.x[1]
	y0, y1 := c.y[0], c.y[1]
	m0, m1 := c.m[0], c.m[1]
	gain := c.gain

	if mtest < 1 {
		// slope decreasing toward the region edge
		tl := t.addc(-x0).divc(x1 - x0)
		res := tl.mulc(x1 - x0).mul(tl.mulc(0.5 * (m1 - m0)).addc(m0)).addc(y0)
		res = t.selectLT(x0, t.addc(-x0).mulc(m0).addc(y0), res)
		res = t.selectLT(x1, res, t.addc(-x1).mulc(m1).addc(y1))
		return res
	}
	if mtest == 1 {
		return t
	}

	// slope increasing: solve the parabola for its inverse
	var tg T
	if !isBlack {
		tg = t.addc(-x0).mulc(gain).addc(x0)
	} else {
		tg = t.addc(-x1).mulc(gain).addc(x1)
	}

	a := 0.5 * (m1 - m0) * (x1 - x0)
	b := m0 * (x1 - x0)

	cc := tg.csub(y0)
	discrim := cc.mulc(-4 * a).addc(b * b).sqrt()
	res := cc.mulc(-2).div(discrim.addc(b)).mulc(x1 - x0).addc(x0)
	res = tg.selectLT(y0, tg.addc(-y0).divc(m0).addc(x0), res)

	if !isBlack {
		res = res.addc(-x0).divc(gain).addc(x0)

		// Beyond x1 the parabola inverse degenerates, so switch to a
		// quadratic extrapolation that matches the inverse curve's value
		// at x1 and its slope at a point 99% into the segment.
		newY1 := (x1-x0)/gain + x0
		xd := x0 + (x1-x0)*0.99
		md := m0 + (xd-x0)*(m1-m0)/(x1-x0)
		md = 1 / md
		aimM := (1/m1 - md) / (x1 - xd)
		bb := 1/m1 - aimM*x1
		cq := newY1 - bb*x1 - 0.5*aimM*x1*x1
		tu := tg.addc(-x0).divc(gain).addc(x0)

		ext := tu.mulc(0.5 * aimM).addc(bb).mul(tu).addc(cq)
		res = tu.selectLT(x1, res, ext)
		return res
	}

	res = tg.selectLT(y1, res, tg.addc(-y1).divc(m1).addc(x1))
	res = res.addc(-x1).divc(gain).addc(x1)
	return res
}

// mids applies the midtone stage for one channel. The stage is skipped
// when the clamped knob is neutral.
func (tbl *toneTable) mids(v *Tone, ch Channel, out []float32) {
	adj := clamp32(float32(v.Midtones.channel(ch)), 0.01, 1.99)
	if adj == 1 {
		return
	}
	c := &tbl.mid[ch]
	if ch != Master {
		out[ch] = float32(evalMid(c, scalar(out[ch])))
	} else {
		res := evalMid(c, triple{out[0], out[1], out[2]})
		out[0], out[1], out[2] = res[0], res[1], res[2]
	}
}

// highlightShadow applies the highlight (isShadow false) or shadow stage
// for one channel. The highlight knob is mirrored so both stages share one
// curve family.
func (tbl *toneTable) highlightShadow(v *Tone, ch Channel, isShadow bool, out []float32) {
	var val float32
	idx := 0
	if isShadow {
		val = float32(v.Shadows.channel(ch))
		idx = 1
	} else {
		val = 2 - float32(v.Highlights.channel(ch))
	}
	if val == 1 {
		return
	}
	c := &tbl.hs[idx][ch]
	if ch != Master {
		out[ch] = float32(evalHS(val, c, scalar(out[ch])))
	} else {
		res := evalHS(val, c, triple{out[0], out[1], out[2]})
		out[0], out[1], out[2] = res[0], res[1], res[2]
	}
}

// whiteBlack applies the white (isBlack false) or black point stage for
// one channel. The black knob is mirrored the same way the highlight knob
// is.
func (tbl *toneTable) whiteBlack(v *Tone, ch Channel, isBlack bool, out []float32) {
	var val float32
	idx := 0
	if isBlack {
		val = 2 - float32(v.Blacks.channel(ch))
		idx = 1
	} else {
		val = float32(v.Whites.channel(ch))
	}
	if val == 1 {
		return
	}
	c := &tbl.wb[idx][ch]
	if ch != Master {
		out[ch] = float32(evalWB(isBlack, val, c, scalar(out[ch])))
	} else {
		res := evalWB(isBlack, val, c, triple{out[0], out[1], out[2]})
		out[0], out[1], out[2] = res[0], res[1], res[2]
	}
}

// scontrast applies the saturation-preserving contrast stage once per
// pixel, on all three colour components together. The raw knob is
// remapped so large values approach an asymptote instead of reversing the
// curve, then used as a gain about the pivot; two parabolic joins fade
// the effect out near the ends of the range.
func (tbl *toneTable) scontrast(v *Tone, out []float32) {
	contrast := float32(v.Contrast)
	if contrast == 1 {
		return
	}
	if contrast > 1 {
		contrast = 1 / (1.8125 - 0.8125*math32.Min(contrast, 1.99))
	} else {
		contrast = 0.28125 + 0.71875*math32.Max(contrast, 0.01)
	}

	t := triple{out[0], out[1], out[2]}
	res := t.addc(-tbl.pivot).mulc(contrast).addc(tbl.pivot)

	// top end
	top := &tbl.sc[0]
	tR := t.addc(-top.x1).divc(top.x2 - top.x1)
	blend := tR.mulc(top.x2 - top.x1).mul(tR.mulc(0.5 * (top.m1 - top.m0)).addc(top.m0)).addc(top.y1)
	res = t.selectLT(top.x1, res, blend)
	res = t.selectLT(top.x2, res, t.addc(-top.x2).mulc(top.m1).addc(top.y2))

	// bottom end
	bot := &tbl.sc[1]
	tR = t.addc(-bot.x1).divc(bot.x2 - bot.x1)
	blend = tR.mulc(bot.x2 - bot.x1).mul(tR.mulc(0.5 * (bot.m1 - bot.m0)).addc(bot.m0)).addc(bot.y1)
	res = t.selectLT(bot.x2, blend, res)
	res = t.selectLT(bot.x1, t.addc(-bot.x1).mulc(bot.m0).addc(bot.y1), res)

	out[0], out[1], out[2] = res[0], res[1], res[2]
}

func clampMaxRGB(out []float32) {
	out[0] = math32.Min(out[0], maxPixelValue)
	out[1] = math32.Min(out[1], maxPixelValue)
	out[2] = math32.Min(out[2], maxPixelValue)
}
