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
	"math"
	"os"

	"github.com/chewxy/math32"
	"golang.org/x/sys/cpu"
)

// The 4-wide fast path computes the log/lin domain switch for all four
// lanes of a pixel at once, evaluating both branches and selecting per
// lane the way a SIMD compare/select would. It uses polynomial log2/exp2
// approximations instead of the scalar transcendentals; the branch
// decisions are identical to the scalar path and the values agree to
// well under the encoding's round-trip tolerance. The two paths are
// alternative implementations of the same function: a processor picks
// one at construction and never mixes them within a call.

type vec4 [4]float32

var vectorEnabled bool

func init() {
	if os.Getenv("GRADING_NO_VECTOR") != "" {
		return
	}
	vectorEnabled = cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
}

// VectorEnabled reports whether newly built processors use the 4-wide
// log/lin fast path. Set GRADING_NO_VECTOR to force the scalar path.
func VectorEnabled() bool { return vectorEnabled }

func linToLogVec(v vec4) vec4 {
	var res vec4
	for i, x := range v {
		ramp := x*logGain + logOffset
		lg := log2Lane((x + logShift) * logSlope)
		if x < logXBreak {
			res[i] = ramp
		} else {
			res[i] = lg
		}
	}
	return res
}

func logToLinVec(v vec4) vec4 {
	var res vec4
	for i, x := range v {
		ramp := (x - logOffset) / logGain
		ex := exp2Lane(x)*(0.18+logShift) - logShift
		if x < logYBreak {
			res[i] = ramp
		} else {
			res[i] = ex
		}
	}
	return res
}

// log2Lane approximates log2(x) for positive finite x. The mantissa is
// reduced to [sqrt(0.5), sqrt(2)) and evaluated with the Cephes-derived
// minimax series for log(1+m); relative error is around 1e-7. Non-positive
// inputs return an arbitrary finite value; callers select those lanes
// away.
func log2Lane(x float32) float32 {
	bits := math.Float32bits(x)
	e := int32(bits>>23) - 126
	m := math.Float32frombits(bits&0x007fffff | 0x3f000000) // [0.5, 1)
	if m < 0.70710678 {
		e--
		m += m
	}
	m -= 1

	z := m * m
	p := float32(7.0376836292e-2)
	p = p*m - 1.1514610310e-1
	p = p*m + 1.1676998740e-1
	p = p*m - 1.2420140846e-1
	p = p*m + 1.4249322787e-1
	p = p*m - 1.6668057665e-1
	p = p*m + 2.0000714765e-1
	p = p*m - 2.4999993993e-1
	p = p*m + 3.3333331174e-1

	ln := m + (p*m*z - 0.5*z)
	return ln*1.4426950408889634 + float32(e)
}

// exp2Lane approximates 2**x with a degree-7 Taylor series of 2**f on the
// fractional part; relative error is around 1e-6. The integer part is
// clamped so extreme stage outputs saturate instead of producing invalid
// exponents; the final clamp caps them at 65504 anyway.
func exp2Lane(x float32) float32 {
	n := math32.Floor(x)
	if n > 127 {
		n = 127
	} else if n < -126 {
		n = -126
	}
	f := x - n

	q := float32(1.5252734e-5)
	q = q*f + 1.5403530e-4
	q = q*f + 1.3333558e-3
	q = q*f + 9.6181291e-3
	q = q*f + 5.5504109e-2
	q = q*f + 2.4022651e-1
	q = q*f + 6.9314718e-1
	q = q*f + 1

	return q * math.Float32frombits(uint32(int32(n)+127)<<23)
}
