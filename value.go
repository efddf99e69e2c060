package glblocks

import (
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// ValueKind discriminates the variants of a [Value].
type ValueKind uint8

const (
	// ValueUnset means the port falls back to its declared default.
	ValueUnset ValueKind = iota
	// ValueScalar is a numeric float literal.
	ValueScalar
	// ValueVector is a 2, 3 or 4 component numeric literal.
	ValueVector
	// ValueFreeVar is an identifier emitted verbatim, such as uv or a uniform name.
	ValueFreeVar
	// ValueConnection references the output port of another instance in the same graph.
	ValueConnection
)

func (k ValueKind) String() string {
	switch k {
	case ValueUnset:
		return "unset"
	case ValueScalar:
		return "scalar"
	case ValueVector:
		return "vector"
	case ValueFreeVar:
		return "freevar"
	case ValueConnection:
		return "connection"
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// FreeVarUV is the built-in normalized fragment coordinate variable.
const FreeVarUV = "uv"

// Value is the content of an input port or a port default. The zero Value is unset.
type Value struct {
	kind ValueKind
	n    uint8 // number of valid components in v.
	v    [4]float32
	// name holds the free variable name or the source instance id of a connection.
	name string
	// port is the source output port id of a connection.
	port string
}

// Float returns a scalar literal value.
func Float(f float32) Value {
	return Value{kind: ValueScalar, n: 1, v: [4]float32{f}}
}

// Vec2 returns a 2 component literal value.
func Vec2(v ms2.Vec) Value {
	return Value{kind: ValueVector, n: 2, v: [4]float32{v.X, v.Y}}
}

// Vec3 returns a 3 component literal value.
func Vec3(v ms3.Vec) Value {
	return Value{kind: ValueVector, n: 3, v: [4]float32{v.X, v.Y, v.Z}}
}

// Vector returns a literal from 1 to 4 components. A single component yields a scalar.
// It panics for any other component count.
func Vector(comps ...float32) Value {
	switch len(comps) {
	case 1:
		return Float(comps[0])
	case 2, 3, 4:
		val := Value{kind: ValueVector, n: uint8(len(comps))}
		copy(val.v[:], comps)
		return val
	}
	panic("glblocks: vector literal must have 1 to 4 components, got " + strconv.Itoa(len(comps)))
}

// FreeVar returns a free variable reference emitted verbatim in generated code.
func FreeVar(name string) Value {
	return Value{kind: ValueFreeVar, name: name}
}

// Connect returns a reference to the output port portID of instance instanceID.
func Connect(instanceID, portID string) Value {
	return Value{kind: ValueConnection, name: instanceID, port: portID}
}

// ParseValue interprets the textual port value form used by graph documents:
// "<instance>:<port>" is a connection, any other non-empty string is a free variable.
// The empty string yields an unset value.
func ParseValue(s string) Value {
	if s == "" {
		return Value{}
	}
	if id, port, ok := strings.Cut(s, ":"); ok {
		return Connect(id, port)
	}
	return FreeVar(s)
}

// Kind returns the variant of v.
func (v Value) Kind() ValueKind { return v.kind }

// IsSet reports whether v holds anything other than the unset variant.
func (v Value) IsSet() bool { return v.kind != ValueUnset }

// IsLiteral reports whether v is a scalar or vector literal.
func (v Value) IsLiteral() bool { return v.kind == ValueScalar || v.kind == ValueVector }

// Len returns the number of literal components, 0 for non-literals.
func (v Value) Len() int { return int(v.n) }

// Components returns the literal components of v. The result is empty for non-literals.
func (v Value) Components() []float32 {
	c := v.v
	return c[:v.n]
}

// Scalar returns the first literal component.
func (v Value) Scalar() float32 { return v.v[0] }

// Name returns the free variable name, or the source instance id of a connection.
func (v Value) Name() string { return v.name }

// Connection returns the source instance and output port of a connection value.
func (v Value) Connection() (instanceID, portID string, ok bool) {
	if v.kind != ValueConnection {
		return "", "", false
	}
	return v.name, v.port, true
}

// Type returns the literal's value type. ok is false for non-literals.
func (v Value) Type() (t ValueType, ok bool) {
	if !v.IsLiteral() {
		return 0, false
	}
	return TypeOfWidth(int(v.n))
}

// String returns the document form of v. Literals are formatted with full precision.
func (v Value) String() string {
	switch v.kind {
	case ValueUnset:
		return ""
	case ValueFreeVar:
		return v.name
	case ValueConnection:
		return v.name + ":" + v.port
	case ValueScalar:
		return strconv.FormatFloat(float64(v.v[0]), 'g', -1, 32)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range v.Components() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(c), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
