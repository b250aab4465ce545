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

// For StyleLin the stage stack runs on a log encoding of the pixel: a
// linear ramp below a small threshold, and log2 relative to 0.18
// elsewhere. The constants are fixed properties of the reference
// encoding, not user configurable; the ramp meets the log segment at the
// break with matching value.
const (
	logXBreak = 0.0041318374739483946
	logShift  = -0.000157849851665374
	logSlope  = 1 / (0.18 + logShift)
	logGain   = 363.034608563
	logOffset = -7.0
	logYBreak = -5.5
)

func linToLog(x float32) float32 {
	if x < logXBreak {
		return x*logGain + logOffset
	}
	return math32.Log2((x + logShift) * logSlope)
}

func logToLin(x float32) float32 {
	if x < logYBreak {
		return (x - logOffset) / logGain
	}
	return math32.Exp2(x)*(0.18+logShift) - logShift
}
