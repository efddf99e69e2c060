package glblocks

import (
	"strconv"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// Template placeholders substituted during code generation.
const (
	// PlaceholderID is replaced with the sanitized instance id.
	PlaceholderID = "{{id}}"
	// PlaceholderType is replaced with the GLSL type of the kind's first output port.
	PlaceholderType = "{{T}}"
)

// ValueType is the GLSL type of a port.
type ValueType uint8

const (
	TypeFloat ValueType = iota + 1
	TypeVec2
	TypeVec3
	TypeVec4
)

// TypeOfWidth returns the port type with the given number of components.
func TypeOfWidth(n int) (ValueType, bool) {
	if n < 1 || n > 4 {
		return 0, false
	}
	return ValueType(n), true
}

// Width returns the number of float components of t.
func (t ValueType) Width() int {
	if t < TypeFloat || t > TypeVec4 {
		return 0
	}
	return int(t)
}

// String returns the GLSL type name.
func (t ValueType) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeVec2:
		return "vec2"
	case TypeVec3:
		return "vec3"
	case TypeVec4:
		return "vec4"
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// Category groups block kinds in the library.
type Category uint8

const (
	CategoryShape Category = iota + 1
	CategoryPattern
	CategoryColor
	CategoryTransform
	CategoryBlend
	CategoryEffect
	categoryEnd
)

var categoryNames = [...]string{
	CategoryShape:     "shape",
	CategoryPattern:   "pattern",
	CategoryColor:     "color",
	CategoryTransform: "transform",
	CategoryBlend:     "blend",
	CategoryEffect:    "effect",
}

func (c Category) String() string {
	if c.valid() {
		return categoryNames[c]
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

func (c Category) valid() bool { return c >= CategoryShape && c < categoryEnd }

// ParseCategory returns the category named s.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryShape; c < categoryEnd; c++ {
		if categoryNames[c] == s {
			return c, true
		}
	}
	return 0, false
}

// PortSpec declares a typed input or output slot of a [BlockKind].
// Default is only meaningful for inputs.
type PortSpec struct {
	ID      string
	Label   string
	Type    ValueType
	Default Value
}

// BlockKind is a reusable, parameterized unit of shader logic.
// BlockKinds are immutable once registered in a [Library].
type BlockKind struct {
	// ID is unique within a library.
	ID string
	// Name is the display name. Generated identifiers derive from it, see [FunctionName].
	Name     string
	Category Category
	// Template is the GLSL function definition with [PlaceholderID] and optionally
	// [PlaceholderType] markers. Function parameters follow Inputs order.
	Template    string
	Inputs      []PortSpec
	Outputs     []PortSpec
	Description string
	// Eval is the CPU reference implementation of Template. It receives one argument
	// per input, in Inputs order, and returns the first output. May be nil.
	Eval EvalFunc
}

// OutputType returns the type of the first output port.
func (k *BlockKind) OutputType() ValueType {
	if len(k.Outputs) == 0 {
		return 0
	}
	return k.Outputs[0].Type
}

// Input returns the input port with the given id.
func (k *BlockKind) Input(id string) (PortSpec, bool) {
	for _, p := range k.Inputs {
		if p.ID == id {
			return p, true
		}
	}
	return PortSpec{}, false
}

// Output returns the output port with the given id.
func (k *BlockKind) Output(id string) (PortSpec, bool) {
	for _, p := range k.Outputs {
		if p.ID == id {
			return p, true
		}
	}
	return PortSpec{}, false
}

// FunctionName returns the generated function name for an instance of k.
func (k *BlockKind) FunctionName(instanceID string) string {
	return FunctionName(k.Name, instanceID)
}

// ResultName returns the generated result variable name for an instance of k.
func (k *BlockKind) ResultName(instanceID string) string {
	return ResultName(k.Name, instanceID)
}

// Vec4 is the CPU representation of any GLSL value up to 4 components.
// Unused trailing components are zero.
type Vec4 [4]float32

// V2 returns a Vec4 holding v in its first two components.
func V2(v ms2.Vec) Vec4 { return Vec4{v.X, v.Y} }

// V3 returns a Vec4 holding v in its first three components.
func V3(v ms3.Vec) Vec4 { return Vec4{v.X, v.Y, v.Z} }

// F returns a Vec4 holding f in its first component.
func F(f float32) Vec4 { return Vec4{f} }

// XY returns the first two components.
func (v Vec4) XY() ms2.Vec { return ms2.Vec{X: v[0], Y: v[1]} }

// XYZ returns the first three components.
func (v Vec4) XYZ() ms3.Vec { return ms3.Vec{X: v[0], Y: v[1], Z: v[2]} }

// Env carries the built-in uniforms to CPU evaluation.
type Env struct {
	Time       float32
	Resolution ms2.Vec
}

// EvalFunc evaluates a block kind on the CPU for a single fragment.
type EvalFunc func(env *Env, args []Vec4) Vec4
