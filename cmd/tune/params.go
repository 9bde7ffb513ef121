// Command tune runs gonum's Nelder-Mead optimizer over a content pack
// element's dispersion and heat-conductivity fields to hit a target
// settle time, a pure authoring aid outside the engine core.
package main

import "github.com/kferrin/cellforge/content"

// paramSpec describes one tunable numeric field on the target element,
// bounded to the field's wire-format range.
type paramSpec struct {
	name string
	min  float64
	max  float64
}

// paramVector holds the fixed two-parameter search space: dispersion and
// heat conductivity. Both are uint8 element fields in [0,255].
type paramVector struct {
	specs []paramSpec
}

func newParamVector() *paramVector {
	return &paramVector{
		specs: []paramSpec{
			{name: "dispersion", min: 0, max: 255},
			{name: "heat_conductivity", min: 0, max: 255},
		},
	}
}

func (pv *paramVector) dim() int { return len(pv.specs) }

func (pv *paramVector) defaultVector(elem content.Element) []float64 {
	return []float64{float64(elem.Dispersion), float64(elem.HeatConductivity)}
}

// clamp bounds raw values to each parameter's declared range.
func (pv *paramVector) clamp(raw []float64) []float64 {
	out := make([]float64, len(raw))
	for i, spec := range pv.specs {
		v := raw[i]
		if v < spec.min {
			v = spec.min
		}
		if v > spec.max {
			v = spec.max
		}
		out[i] = v
	}
	return out
}

// apply writes clamped raw values back into elem's tunable fields.
func (pv *paramVector) apply(elem *content.Element, raw []float64) {
	clamped := pv.clamp(raw)
	elem.Dispersion = uint8(clamped[0])
	elem.HeatConductivity = uint8(clamped[1])
}
