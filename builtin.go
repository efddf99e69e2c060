package glblocks

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/math/ms1"
)

// DefaultLibrary returns the built-in block catalog. The returned library is shared
// and immutable.
func DefaultLibrary() *Library {
	return defaultLibrary()
}

var defaultLibrary = sync.OnceValue(func() *Library {
	var kinds []BlockKind
	kinds = append(kinds, shapeKinds()...)
	kinds = append(kinds, polygonKinds()...)
	kinds = append(kinds, patternKinds()...)
	kinds = append(kinds, colorKinds()...)
	kinds = append(kinds, transformKinds()...)
	kinds = append(kinds, blendKinds()...)
	kinds = append(kinds, effectKinds()...)
	return MustLibrary(kinds...)
})

// Port constructors used by the built-in catalog.

func uvInput() PortSpec {
	return PortSpec{ID: "uv", Label: "UV", Type: TypeVec2, Default: FreeVar(FreeVarUV)}
}

func floatIn(id, label string, def float32) PortSpec {
	return PortSpec{ID: id, Label: label, Type: TypeFloat, Default: Float(def)}
}

func vec2In(id, label string, x, y float32) PortSpec {
	return PortSpec{ID: id, Label: label, Type: TypeVec2, Default: Vec2(ms2.Vec{X: x, Y: y})}
}

func vec3In(id, label string, x, y, z float32) PortSpec {
	return PortSpec{ID: id, Label: label, Type: TypeVec3, Default: Vec3(ms3.Vec{X: x, Y: y, Z: z})}
}

func out(id, label string, t ValueType) []PortSpec {
	return []PortSpec{{ID: id, Label: label, Type: t}}
}

// GLSL builtin mirrors for CPU evaluation.

func smoothstep(e0, e1, x float32) float32 {
	if e0 == e1 {
		// Undefined in GLSL, most drivers behave as a step.
		if x < e0 {
			return 0
		}
		return 1
	}
	return ms1.SmoothStep(e0, e1, x)
}

func clamp(v, lo, hi float32) float32 { return ms1.Clamp(v, lo, hi) }

func mix(x, y, a float32) float32 { return ms1.Interp(x, y, a) }

func fract(x float32) float32 { return x - math32.Floor(x) }

// mod follows GLSL semantics, the result has the sign of y.
func mod(x, y float32) float32 { return x - y*math32.Floor(x/y) }

func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

// componentwise applies fn to all four components of a and b.
func componentwise(a, b Vec4, fn func(a, b float32) float32) (r Vec4) {
	for i := range r {
		r[i] = fn(a[i], b[i])
	}
	return r
}
