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

// ToneProperty holds a set of grading knobs together with the curve
// tables derived from them. A property is either static (fixed at
// construction) or dynamic (editable after the pipeline is built, and
// shareable between several processors).
//
// A ToneProperty is read-only during [Processor.Apply]; edits and
// unification must not race with Apply calls.
type ToneProperty struct {
	dynamic bool
	style   Style
	value   Tone
	table   toneTable
}

// NewToneProperty builds a property for the given knobs and grading
// style. The curve tables are computed here and recomputed on every
// [ToneProperty.SetTone].
func NewToneProperty(tone Tone, style Style, dynamic bool) *ToneProperty {
	p := &ToneProperty{dynamic: dynamic, style: style, value: tone}
	p.table = computeTable(&p.value, style)
	return p
}

// Tone returns the current knob values.
func (p *ToneProperty) Tone() Tone { return p.value }

// Style returns the grading style the property was built for.
func (p *ToneProperty) Style() Style { return p.style }

// IsDynamic reports whether the knobs may be edited after construction.
func (p *ToneProperty) IsDynamic() bool { return p.dynamic }

// SetTone replaces the knob values and recomputes the curve tables.
// It returns [ErrNotDynamic] for a static property.
func (p *ToneProperty) SetTone(tone Tone) error {
	if !p.dynamic {
		return ErrNotDynamic
	}
	p.value = tone
	p.table = computeTable(&p.value, p.style)
	return nil
}

func (p *ToneProperty) editableCopy() *ToneProperty {
	c := *p
	c.dynamic = true
	return &c
}

// HasDynamicProperty reports whether the processor exposes a dynamic
// property of the given type. Only [PropertyTone] is managed here, and
// only when the underlying property was created as dynamic.
func (p *Processor) HasDynamicProperty(t PropertyType) bool {
	return t == PropertyTone && p.prop.IsDynamic()
}

// GetDynamicProperty returns the processor's editable parameter handle.
// It returns [ErrUnsupportedProperty] for property types other than
// [PropertyTone], and [ErrNotDynamic] when the tone property exists but
// is static.
func (p *Processor) GetDynamicProperty(t PropertyType) (*ToneProperty, error) {
	if t != PropertyTone {
		return nil, ErrUnsupportedProperty
	}
	if !p.prop.IsDynamic() {
		return nil, ErrNotDynamic
	}
	return p.prop, nil
}

// UnifyDynamicProperty makes this processor follow a parameter handle
// shared with other processors. If shared is nil, the call populates it
// with a fresh editable copy of this processor's parameters; otherwise
// the existing handle is adopted unchanged. Either way the processor's
// own handle is replaced and the (possibly new) shared handle is
// returned:
//
//	var shared *grading.ToneProperty
//	shared = p1.UnifyDynamicProperty(grading.PropertyTone, shared)
//	shared = p2.UnifyDynamicProperty(grading.PropertyTone, shared)
//
// After both calls, edits through either processor's handle are seen by
// both. Property types other than [PropertyTone] are ignored.
//
// This is the only operation that mutates a processor; it must not race
// with Apply.
func (p *Processor) UnifyDynamicProperty(t PropertyType, shared *ToneProperty) *ToneProperty {
	if t != PropertyTone {
		return shared
	}
	if shared == nil {
		// first occurrence, decouple
		shared = p.prop.editableCopy()
	}
	p.prop = shared
	return shared
}
