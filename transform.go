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

import "errors"

// variant is the stage-stack configuration of a processor, fixed at
// construction so the per-pixel loop carries no polymorphism.
type variant int

const (
	variantForward variant = iota
	variantLinearForward
	variantInverse
	variantLinearInverse
)

// Processor applies the tone grading transform to pixel buffers.
//
// A Processor is built for one style and direction, both immutable for
// its lifetime. Apply calls on disjoint buffers are independent; see the
// package documentation for the concurrency rules around dynamic
// parameter edits.
type Processor struct {
	prop *ToneProperty
	dir  Direction

	variant variant

	// vector selects the 4-wide log/lin fast path; captured at
	// construction so one Apply call never mixes the two paths.
	vector bool
}

var errNilProperty = errors.New("grading: nil tone property")

// NewProcessor builds a processor for the given parameter handle and
// transform direction. The grading style is the one the property was
// built for; [StyleLin] processors wrap the stage stack in the log
// encoding, the other styles run the stages directly.
//
// Inverse-direction processors can be constructed, but their Apply
// always fails with [ErrNotImplemented]: no closed-form inverse of the
// curve stack exists, and silently approximating one would corrupt
// images.
func NewProcessor(prop *ToneProperty, dir Direction) (*Processor, error) {
	if prop == nil {
		return nil, errNilProperty
	}

	linear := prop.style == StyleLin
	var vv variant
	switch dir {
	case Forward:
		if linear {
			vv = variantLinearForward
		} else {
			vv = variantForward
		}
	case Inverse:
		if linear {
			vv = variantLinearInverse
		} else {
			vv = variantInverse
		}
	default:
		return nil, ErrUnsupportedDirection
	}

	return &Processor{
		prop:    prop,
		dir:     dir,
		variant: vv,
		vector:  vectorEnabled,
	}, nil
}

// Style returns the processor's grading style.
func (p *Processor) Style() Style { return p.prop.style }

// Direction returns the processor's transform direction.
func (p *Processor) Direction() Direction { return p.dir }

// Apply grades pixels pixels from src into dst. Both buffers hold 4
// float32 values (R, G, B, A) per pixel; dst and src may be the same
// buffer for in-place operation. Alpha is passed through unmodified.
//
// When the property's knobs are all neutral the input is copied through
// unchanged. Colour channels are capped at 65504 (the largest finite
// 16-bit float) on output; there is no lower clamp.
//
// Apply neither allocates nor retains the buffers. Pixels have no
// cross-pixel dependency, so callers may partition one buffer across
// several goroutines and Apply each part separately.
func (p *Processor) Apply(dst, src []float32, pixels int) error {
	if p.variant == variantInverse || p.variant == variantLinearInverse {
		return ErrNotImplemented
	}
	if pixels < 0 || len(src) < 4*pixels || len(dst) < 4*pixels {
		return errShortBuffer
	}
	if pixels == 0 {
		return nil
	}

	if p.prop.table.localBypass {
		if &dst[0] != &src[0] {
			copy(dst[:4*pixels], src[:4*pixels])
		}
		return nil
	}

	v := &p.prop.value
	tbl := &p.prop.table
	if p.variant == variantLinearForward {
		p.applyLinear(v, tbl, dst, src, pixels)
	} else {
		applyDirect(v, tbl, dst, src, pixels)
	}
	return nil
}

// runStages applies the curve stages to one pixel in the fixed order the
// stages were designed for; they do not commute.
func runStages(v *Tone, tbl *toneTable, out []float32) {
	tbl.mids(v, Red, out)
	tbl.mids(v, Green, out)
	tbl.mids(v, Blue, out)
	tbl.mids(v, Master, out)

	tbl.highlightShadow(v, Red, false, out)
	tbl.highlightShadow(v, Green, false, out)
	tbl.highlightShadow(v, Blue, false, out)
	tbl.highlightShadow(v, Master, false, out)

	tbl.whiteBlack(v, Red, false, out)
	tbl.whiteBlack(v, Green, false, out)
	tbl.whiteBlack(v, Blue, false, out)
	tbl.whiteBlack(v, Master, false, out)

	tbl.highlightShadow(v, Red, true, out)
	tbl.highlightShadow(v, Green, true, out)
	tbl.highlightShadow(v, Blue, true, out)
	tbl.highlightShadow(v, Master, true, out)

	tbl.whiteBlack(v, Red, true, out)
	tbl.whiteBlack(v, Green, true, out)
	tbl.whiteBlack(v, Blue, true, out)
	tbl.whiteBlack(v, Master, true, out)

	tbl.scontrast(v, out)
}

func applyDirect(v *Tone, tbl *toneTable, dst, src []float32, pixels int) {
	for i := 0; i < pixels; i++ {
		out := dst[4*i : 4*i+4]
		// src and dst may alias; copying first makes in-place work
		copy(out, src[4*i:4*i+4])

		runStages(v, tbl, out)
		clampMaxRGB(out)
	}
}

func (p *Processor) applyLinear(v *Tone, tbl *toneTable, dst, src []float32, pixels int) {
	for i := 0; i < pixels; i++ {
		out := dst[4*i : 4*i+4]
		in := src[4*i : 4*i+4]

		alpha := in[3]
		if p.vector {
			enc := linToLogVec(vec4{in[0], in[1], in[2], in[3]})
			out[0], out[1], out[2] = enc[0], enc[1], enc[2]
		} else {
			out[0] = linToLog(in[0])
			out[1] = linToLog(in[1])
			out[2] = linToLog(in[2])
		}
		out[3] = alpha

		runStages(v, tbl, out)

		if p.vector {
			dec := logToLinVec(vec4{out[0], out[1], out[2], out[3]})
			out[0], out[1], out[2] = dec[0], dec[1], dec[2]
		} else {
			out[0] = logToLin(out[0])
			out[1] = logToLin(out[1])
			out[2] = logToLin(out[2])
		}
		clampMaxRGB(out)
	}
}
