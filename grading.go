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

// Package grading evaluates a parametric per-pixel tone grading transform
// of the kind used in film and video colour pipelines.
//
// A [Tone] holds the user-facing grading knobs: midtone lift, highlight and
// shadow rolloff, white and black point, and a saturation-preserving
// contrast. Each knob carries four values, one per colour channel plus a
// "master" value that moves the whole pixel together.
//
// # Applying a Grade
//
// Wrap the knobs in a [ToneProperty], then build a [Processor] for a grading
// style and transform direction:
//
//	prop := grading.NewToneProperty(tone, grading.StyleLog, false)
//	p, err := grading.NewProcessor(prop, grading.Forward)
//	if err != nil {
//	    // handle error
//	}
//	err = p.Apply(pixels, pixels, n) // in-place is fine
//
// Pixel buffers are flat sequences of 4 float32 values per pixel (R, G, B,
// A); alpha is passed through unmodified.
//
// # Dynamic Parameters
//
// A ToneProperty created with dynamic=true may be edited after the pipeline
// is built. When several processors should follow one logical parameter
// set, unify them onto a shared handle:
//
//	var shared *grading.ToneProperty
//	shared = p1.UnifyDynamicProperty(grading.PropertyTone, shared)
//	shared = p2.UnifyDynamicProperty(grading.PropertyTone, shared)
//	shared.SetTone(newTone) // both processors see the edit
//
// A Processor is not safe for concurrent use while its parameters are being
// edited or unified; Apply calls on disjoint buffers are otherwise
// independent.
package grading

import (
	"errors"
	"fmt"
)

// Style selects the grading style a transform operates in.
type Style int

const (
	// StyleLog grades logarithmic (log-encoded) data directly.
	StyleLog Style = iota

	// StyleLin grades linear-light (scene-referred) data. The curve stack
	// runs on a log encoding of the pixel: values are encoded before the
	// stages and decoded after.
	StyleLin

	// StyleVideo grades video (display-referred) data directly.
	StyleVideo
)

func (s Style) String() string {
	switch s {
	case StyleLog:
		return "log"
	case StyleLin:
		return "linear"
	case StyleVideo:
		return "video"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// Direction specifies the direction of a tone grading transform.
type Direction int

const (
	// Forward applies the grading curves.
	Forward Direction = iota

	// Inverse undoes the grading curves. The inverse tone transform is not
	// implemented; see [Processor.Apply].
	Inverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Inverse:
		return "inverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Channel identifies one of the per-channel slots of a grading adjustment.
type Channel int

const (
	Red   Channel = 0
	Green Channel = 1
	Blue  Channel = 2

	// Master is the combined channel. Adjusting it moves red, green and
	// blue together rather than skewing the colour balance.
	Master Channel = 3
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Master:
		return "master"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// RGBM holds one value per channel for a single grading adjustment.
// The neutral value for every slot is 1.
type RGBM struct {
	R, G, B, M float64
}

func (v RGBM) channel(c Channel) float64 {
	switch c {
	case Red:
		return v.R
	case Green:
		return v.G
	case Blue:
		return v.B
	default:
		return v.M
	}
}

func (v RGBM) isNeutral() bool {
	return v.R == 1 && v.G == 1 && v.B == 1 && v.M == 1
}

// Tone is a complete set of tone grading knobs.
//
// Midtone values are used clamped to [0.01, 1.99]. A knob at its neutral
// value 1 makes the corresponding curve stage the identity, and the stage
// is skipped for that channel.
type Tone struct {
	Midtones   RGBM
	Highlights RGBM
	Shadows    RGBM
	Whites     RGBM
	Blacks     RGBM

	// Contrast scales values about a style-dependent pivot. Values above 1
	// are compressed toward an asymptote internally to avoid tone
	// reversals.
	Contrast float64
}

// NeutralTone returns the grading knobs that leave every pixel unchanged.
func NeutralTone() Tone {
	one := RGBM{1, 1, 1, 1}
	return Tone{
		Midtones:   one,
		Highlights: one,
		Shadows:    one,
		Whites:     one,
		Blacks:     one,
		Contrast:   1,
	}
}

func (t *Tone) isNeutral() bool {
	return t.Midtones.isNeutral() &&
		t.Highlights.isNeutral() &&
		t.Shadows.isNeutral() &&
		t.Whites.isNeutral() &&
		t.Blacks.isNeutral() &&
		t.Contrast == 1
}

// PropertyType identifies a kind of dynamic property a processor may
// expose to the surrounding pipeline.
type PropertyType int

const (
	PropertyExposure PropertyType = iota
	PropertyContrast
	PropertyGamma
	PropertyGradingPrimary
	PropertyGradingRGBCurve

	// PropertyTone is the only property type managed by this package.
	PropertyTone
)

// Errors reported by this package. Every error reflects a configuration
// mistake by the caller, not a runtime condition; none are retryable.
var (
	// ErrUnsupportedProperty is returned when a dynamic property of a type
	// other than [PropertyTone] is requested.
	ErrUnsupportedProperty = errors.New("grading: dynamic property type not supported")

	// ErrNotDynamic is returned when the tone property exists but was not
	// created as dynamic.
	ErrNotDynamic = errors.New("grading: tone property is not dynamic")

	// ErrUnsupportedDirection is returned by [NewProcessor] for an unknown
	// transform direction.
	ErrUnsupportedDirection = errors.New("grading: unsupported transform direction")

	// ErrNotImplemented is returned by [Processor.Apply] for
	// inverse-direction processors.
	ErrNotImplemented = errors.New("grading: inverse tone transform not implemented")

	errShortBuffer = errors.New("grading: pixel buffer too short")
)

// maxPixelValue is the largest value the transform will output for a colour
// channel. It is the largest finite value representable as a 16-bit float;
// capping here keeps extreme grades from overflowing to infinity further
// down a viewing pipeline. There is no lower clamp.
const maxPixelValue = 65504.0
