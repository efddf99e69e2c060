package glbuild

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/graph"
)

// ErrNothingToGenerate is returned when there are no instances to build a program from.
var ErrNothingToGenerate = errors.New("nothing to generate")

// UnknownKindError is returned when an instance's kind is not in the catalog.
type UnknownKindError struct {
	InstanceID string
	KindID     string
}

func (e *UnknownKindError) Error() string {
	return "unknown block kind: " + e.KindID
}

// DanglingError is returned when a connection references an instance that is not in
// the graph, or an output port its kind does not declare. TargetPort is empty
// in the former case.
type DanglingError struct {
	InstanceID string
	Port       string
	Target     string
	TargetPort string
}

func (e *DanglingError) Error() string {
	if e.TargetPort == "" {
		return "block " + e.InstanceID + " input " + e.Port + " references non-existent block " + e.Target
	}
	return "block " + e.InstanceID + " input " + e.Port + " references non-existent output " + e.TargetPort + " on block " + e.Target
}

// DuplicateIDError is returned when two instances share an id.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return "duplicate block id: " + e.ID
}

// IdentifierCollisionError is returned when two distinct instance ids sanitize to
// the same GLSL identifier, as "a-b" and "a_b" do.
type IdentifierCollisionError struct {
	InstanceID string
	OtherID    string
	Identifier string
}

func (e *IdentifierCollisionError) Error() string {
	return "blocks " + e.OtherID + " and " + e.InstanceID + " both generate identifier " + e.Identifier
}

// NonFiniteError is returned when a literal input holds an infinity or NaN.
type NonFiniteError struct {
	InstanceID string
	Port       string
	Value      glblocks.Value
}

func (e *NonFiniteError) Error() string {
	return "block " + e.InstanceID + " input " + e.Port + " has non-finite literal " + e.Value.String()
}

// MissingInputError is returned when an input has neither a value nor a default.
type MissingInputError struct {
	InstanceID string
	Port       string
}

func (e *MissingInputError) Error() string {
	return "block " + e.InstanceID + " input " + e.Port + " has no value and no default"
}

// ArgKind discriminates how a call argument is produced.
type ArgKind uint8

const (
	// ArgLiteral is a numeric literal, see [Arg.Value].
	ArgLiteral ArgKind = iota + 1
	// ArgFreeVar is an identifier emitted verbatim, see [Arg.Value].
	ArgFreeVar
	// ArgResult is the result of a prior step, see [Arg.Step].
	ArgResult
)

// Arg is a resolved call argument of a [Step].
type Arg struct {
	Kind ArgKind
	// Value holds the literal or free variable. For ArgResult it is the original connection.
	Value glblocks.Value
	// Step is the index of the producing step for ArgResult.
	Step int
	// Type is the declared type of the consuming port.
	Type glblocks.ValueType
}

// Step is one instance scheduled for emission.
type Step struct {
	Instance graph.Instance
	Kind     glblocks.BlockKind
	// Function and Result are the derived GLSL identifiers of the instance.
	Function string
	Result   string
	// Args has one entry per kind input, in declaration order.
	Args []Arg
}

// Program is a fully resolved, topologically ordered set of steps. A Program is
// only ever built from a graph free of structural problems.
type Program struct {
	Steps []Step
	// Output is the index of the step whose result feeds the output color.
	Output int
}

// OutputType returns the type of the result written to the output color.
func (prog *Program) OutputType() glblocks.ValueType {
	return prog.Steps[prog.Output].Kind.OutputType()
}

// Resolve schedules instances and resolves every call argument. output names the
// instance feeding the output color, when empty the last scheduled instance is used.
// The first structural problem found aborts resolution.
func Resolve(instances []graph.Instance, catalog glblocks.Catalog, output string) (*Program, error) {
	if len(instances) == 0 {
		return nil, ErrNothingToGenerate
	}
	seen := make(map[string]struct{}, len(instances))
	idents := make(map[string]string, 2*len(instances)) // GLSL identifier to owning instance id.
	for i := range instances {
		inst := &instances[i]
		if _, dup := seen[inst.ID]; dup {
			return nil, &DuplicateIDError{ID: inst.ID}
		}
		seen[inst.ID] = struct{}{}
		kind, ok := catalog.Kind(inst.KindID)
		if !ok {
			return nil, &UnknownKindError{InstanceID: inst.ID, KindID: inst.KindID}
		}
		for _, ident := range [2]string{kind.FunctionName(inst.ID), kind.ResultName(inst.ID)} {
			if other, taken := idents[ident]; taken {
				return nil, &IdentifierCollisionError{InstanceID: inst.ID, OtherID: other, Identifier: ident}
			}
			idents[ident] = inst.ID
		}
	}
	sorted, err := graph.Sort(instances, catalog)
	if err != nil {
		return nil, err // Cycle errors pass through untouched.
	}

	prog := &Program{
		Steps:  make([]Step, len(sorted)),
		Output: len(sorted) - 1,
	}
	stepIdx := make(map[string]int, len(sorted))
	for i := range sorted {
		inst := sorted[i]
		kind, _ := catalog.Kind(inst.KindID)
		prog.Steps[i] = Step{
			Instance: inst,
			Kind:     kind,
			Function: kind.FunctionName(inst.ID),
			Result:   kind.ResultName(inst.ID),
		}
		stepIdx[inst.ID] = i
	}
	for i := range prog.Steps {
		step := &prog.Steps[i]
		step.Args = make([]Arg, len(step.Kind.Inputs))
		for j, port := range step.Kind.Inputs {
			step.Args[j], err = resolveArg(prog.Steps, stepIdx, step, port)
			if err != nil {
				return nil, err
			}
		}
	}
	if output != "" {
		idx, ok := stepIdx[output]
		if !ok {
			return nil, fmt.Errorf("output block %s not in graph", output)
		}
		prog.Output = idx
	}
	return prog, nil
}

func resolveArg(steps []Step, stepIdx map[string]int, step *Step, port glblocks.PortSpec) (Arg, error) {
	v := step.Instance.Input(port.ID)
	if !v.IsSet() {
		v = port.Default
	}
	arg := Arg{Value: v, Type: port.Type}
	switch v.Kind() {
	case glblocks.ValueUnset:
		return Arg{}, &MissingInputError{InstanceID: step.Instance.ID, Port: port.ID}
	case glblocks.ValueScalar, glblocks.ValueVector:
		for _, c := range v.Components() {
			if math.IsInf(float64(c), 0) || math.IsNaN(float64(c)) {
				return Arg{}, &NonFiniteError{InstanceID: step.Instance.ID, Port: port.ID, Value: v}
			}
		}
		arg.Kind = ArgLiteral
	case glblocks.ValueFreeVar:
		arg.Kind = ArgFreeVar
	case glblocks.ValueConnection:
		src, srcPort, _ := v.Connection()
		idx, ok := stepIdx[src]
		if !ok {
			return Arg{}, &DanglingError{InstanceID: step.Instance.ID, Port: port.ID, Target: src}
		}
		if _, ok := steps[idx].Kind.Output(srcPort); !ok {
			return Arg{}, &DanglingError{InstanceID: step.Instance.ID, Port: port.ID, Target: src, TargetPort: srcPort}
		}
		arg.Kind = ArgResult
		arg.Step = idx
	}
	return arg, nil
}
