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

var loglinSamples = []float32{
	-1, -0.01, 0, 1e-5, 0.001, 0.0041318374739483946, 0.01,
	0.1, 0.18, 0.5, 1, 2, 18, 100, 4096, 65504,
}

func TestLinLogRoundTrip(t *testing.T) {
	for _, x := range loglinSamples {
		y := linToLog(x)
		back := logToLin(y)
		tol := 1e-4*math32.Abs(x) + 1e-6
		if math32.Abs(back-x) > tol {
			t.Errorf("round trip %g -> %g -> %g", x, y, back)
		}
	}
}

// TestLinLogMonotone checks the encoding is strictly increasing across
// the ramp/log break, so the switch cannot reorder pixel values.
func TestLinLogMonotone(t *testing.T) {
	prev := linToLog(loglinSamples[0])
	for _, x := range loglinSamples[1:] {
		y := linToLog(x)
		if y <= prev {
			t.Errorf("linToLog(%g) = %g, not above previous %g", x, y, prev)
		}
		prev = y
	}
}

// TestVecMatchesScalar checks the 4-wide approximations against the
// scalar transcendentals. The two paths are not bit-identical, but they
// must agree to well below the encoding's round-trip tolerance.
func TestVecMatchesScalar(t *testing.T) {
	for _, x := range loglinSamples {
		v := linToLogVec(vec4{x, x, x, x})
		s := linToLog(x)
		tol := 2e-5*math32.Abs(s) + 2e-5
		if math32.Abs(v[0]-s) > tol {
			t.Errorf("linToLogVec(%g) = %g, scalar %g", x, v[0], s)
		}
		for i := 1; i < 4; i++ {
			if v[i] != v[0] {
				t.Errorf("linToLogVec(%g): lanes differ: %v", x, v)
			}
		}

		w := logToLinVec(vec4{s, s, s, s})
		sb := logToLin(s)
		tol = 2e-5*math32.Abs(sb) + 1e-6
		if math32.Abs(w[0]-sb) > tol {
			t.Errorf("logToLinVec(%g) = %g, scalar %g", s, w[0], sb)
		}
	}
}

// TestVecBranchAgreement checks that the vector path takes the ramp
// branch for exactly the same inputs as the scalar path, including the
// break value itself.
func TestVecBranchAgreement(t *testing.T) {
	inputs := []float32{
		logXBreak, math32.Nextafter(logXBreak, 0), math32.Nextafter(logXBreak, 1),
	}
	for _, x := range inputs {
		ramp := x*logGain + logOffset
		scalarIsRamp := linToLog(x) == ramp
		vecIsRamp := linToLogVec(vec4{x})[0] == ramp
		if scalarIsRamp != vecIsRamp {
			t.Errorf("branch mismatch at %g: scalar ramp %v, vector ramp %v",
				x, scalarIsRamp, vecIsRamp)
		}
	}
}

// TestLinearApplyRoundTrip runs the full linear-style pipeline with
// neutral knobs and the bypass defeated, so the only processing left is
// the encode/decode pair. Both the scalar and the 4-wide path must come
// back to the input within the encoding tolerance, and must leave alpha
// bit-exact.
func TestLinearApplyRoundTrip(t *testing.T) {
	for _, vector := range []bool{false, true} {
		prop := NewToneProperty(NeutralTone(), StyleLin, false)
		prop.table.localBypass = false
		p, err := NewProcessor(prop, Forward)
		if err != nil {
			t.Fatal(err)
		}
		p.vector = vector

		src := []float32{
			0, 0.001, 0.01, 0.25,
			0.18, 1, 10, 0.5,
			100, 1000, 60000, 1,
		}
		dst := make([]float32, len(src))
		if err := p.Apply(dst, src, len(src)/4); err != nil {
			t.Fatal(err)
		}
		for i, x := range src {
			if i%4 == 3 {
				if dst[i] != x {
					t.Errorf("vector=%v: alpha %d changed: %g -> %g",
						vector, i/4, x, dst[i])
				}
				continue
			}
			tol := 1e-4*math32.Abs(x) + 1e-6
			if vector {
				tol = 1e-4*math32.Abs(x) + 1e-4
			}
			if math32.Abs(dst[i]-x) > tol {
				t.Errorf("vector=%v: component %d: %g -> %g", vector, i, x, dst[i])
			}
		}
	}
}

// TestVectorPathsAgree checks that a graded image produced by the scalar
// path and by the 4-wide path cannot be told apart visually: the two
// must match to the approximation tolerance everywhere.
func TestVectorPathsAgree(t *testing.T) {
	prop := NewToneProperty(gradedTone(), StyleLin, false)

	scalarP, err := NewProcessor(prop, Forward)
	if err != nil {
		t.Fatal(err)
	}
	scalarP.vector = false
	vecP, err := NewProcessor(prop, Forward)
	if err != nil {
		t.Fatal(err)
	}
	vecP.vector = true

	src := testPixels()
	a := make([]float32, len(src))
	b := make([]float32, len(src))
	if err := scalarP.Apply(a, src, len(src)/4); err != nil {
		t.Fatal(err)
	}
	if err := vecP.Apply(b, src, len(src)/4); err != nil {
		t.Fatal(err)
	}
	for i := range a {
		tol := 1e-3*math32.Abs(a[i]) + 1e-4
		if math32.Abs(a[i]-b[i]) > tol {
			t.Errorf("component %d: scalar %g, vector %g", i, a[i], b[i])
		}
	}
}
