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

// The curve stages operate either on a single channel or, for the master
// channel, on all three colour components at once with the same formula.
// channelValue abstracts over the two cases so each closed-form curve is
// written exactly once.
type channelValue[T any] interface {
	add(T) T
	mul(T) T
	div(T) T
	addc(float32) T
	mulc(float32) T
	divc(float32) T

	// csub computes c - v, component-wise.
	csub(c float32) T

	sqrt() T

	// selectLT picks below where v < limit and above otherwise, per
	// component. Ties go to above, so at a breakpoint the higher region
	// wins.
	selectLT(limit float32, below, above T) T
}

type scalar float32

func (v scalar) add(o scalar) scalar   { return v + o }
func (v scalar) mul(o scalar) scalar   { return v * o }
func (v scalar) div(o scalar) scalar   { return v / o }
func (v scalar) addc(c float32) scalar { return v + scalar(c) }
func (v scalar) mulc(c float32) scalar { return v * scalar(c) }
func (v scalar) divc(c float32) scalar { return v / scalar(c) }
func (v scalar) csub(c float32) scalar { return scalar(c) - v }
func (v scalar) sqrt() scalar          { return scalar(math32.Sqrt(float32(v))) }

func (v scalar) selectLT(limit float32, below, above scalar) scalar {
	if float32(v) < limit {
		return below
	}
	return above
}

// triple is the master-channel view of a pixel's red, green and blue
// components.
type triple [3]float32

func (v triple) add(o triple) triple {
	return triple{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v triple) mul(o triple) triple {
	return triple{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

func (v triple) div(o triple) triple {
	return triple{v[0] / o[0], v[1] / o[1], v[2] / o[2]}
}

func (v triple) addc(c float32) triple {
	return triple{v[0] + c, v[1] + c, v[2] + c}
}

func (v triple) mulc(c float32) triple {
	return triple{v[0] * c, v[1] * c, v[2] * c}
}

func (v triple) divc(c float32) triple {
	return triple{v[0] / c, v[1] / c, v[2] / c}
}

func (v triple) csub(c float32) triple {
	return triple{c - v[0], c - v[1], c - v[2]}
}

func (v triple) sqrt() triple {
	return triple{math32.Sqrt(v[0]), math32.Sqrt(v[1]), math32.Sqrt(v[2])}
}

func (v triple) selectLT(limit float32, below, above triple) triple {
	var res triple
	for i := range v {
		if v[i] < limit {
			res[i] = below[i]
		} else {
			res[i] = above[i]
		}
	}
	return res
}

func clamp32(x, lo, hi float32) float32 {
	return math32.Min(math32.Max(x, lo), hi)
}
