// Package gleval evaluates block graphs on the CPU using each kind's reference
// implementation and compiles generated programs on the GPU to check them.
package gleval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/glbuild"
	"github.com/soypat/glblocks/graph"
)

// Fragment computes output colors of a block graph at normalized fragment coordinates.
type Fragment interface {
	// Evaluate computes the RGBA color at each uv position and stores it in dst.
	// env holds the values of iTime and iResolution. uv and dst must be of same length.
	Evaluate(uv []ms2.Vec, env glblocks.Env, dst []glblocks.Vec4) error
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and color buffer length mismatch")
)

var _ Fragment = (*CPUProgram)(nil)

// CPUProgram evaluates a resolved block graph with each kind's [glblocks.EvalFunc].
// It is safe for concurrent use once configured.
type CPUProgram struct {
	prog *glbuild.Program
	// consts holds, per step, the arguments known before evaluation. Result arguments are filled per fragment.
	consts [][]glblocks.Vec4
	// vars flags arguments bound to uv, iTime or iResolution.
	vars [][]freeVar
}

type freeVar uint8

const (
	varNone freeVar = iota
	varUV
	varTime
	varResolution
)

// NewCPUProgram resolves instances the same way program generation does and returns
// an evaluator of the result. Free variables other than uv, iTime and iResolution
// must be present in uniforms and hold literals.
func NewCPUProgram(instances []graph.Instance, catalog glblocks.Catalog, uniforms map[string]glblocks.Value) (*CPUProgram, error) {
	return NewCPUProgramOutput(instances, catalog, uniforms, "")
}

// NewCPUProgramOutput is like [NewCPUProgram] but evaluates the result of the
// instance with id output instead of the last scheduled instance.
func NewCPUProgramOutput(instances []graph.Instance, catalog glblocks.Catalog, uniforms map[string]glblocks.Value, output string) (*CPUProgram, error) {
	prog, err := glbuild.Resolve(instances, catalog, output)
	if err != nil {
		return nil, err
	}
	cp := &CPUProgram{
		prog:   prog,
		consts: make([][]glblocks.Vec4, len(prog.Steps)),
		vars:   make([][]freeVar, len(prog.Steps)),
	}
	for i := range prog.Steps {
		step := &prog.Steps[i]
		if step.Kind.Eval == nil {
			return nil, fmt.Errorf("block kind %s has no CPU evaluator", step.Kind.ID)
		}
		consts := make([]glblocks.Vec4, len(step.Args))
		vars := make([]freeVar, len(step.Args))
		for j := range step.Args {
			arg := &step.Args[j]
			switch arg.Kind {
			case glbuild.ArgLiteral:
				consts[j] = literal(arg.Value)
			case glbuild.ArgFreeVar:
				name := arg.Value.Name()
				switch name {
				case glblocks.FreeVarUV:
					vars[j] = varUV
				case "iTime":
					vars[j] = varTime
				case "iResolution":
					vars[j] = varResolution
				default:
					u, ok := uniforms[name]
					if !ok || !u.IsLiteral() {
						return nil, fmt.Errorf("block %s input %s: no value for uniform %s", step.Instance.ID, step.Kind.Inputs[j].ID, name)
					}
					consts[j] = literal(u)
				}
			}
		}
		cp.consts[i] = consts
		cp.vars[i] = vars
	}
	glblocks.Logger().Debug("cpu program ready", "steps", len(prog.Steps), "uniforms", len(uniforms))
	return cp, nil
}

// Program returns the resolved program being evaluated.
func (cp *CPUProgram) Program() *glbuild.Program { return cp.prog }

// Evaluate implements [Fragment].
func (cp *CPUProgram) Evaluate(uv []ms2.Vec, env glblocks.Env, dst []glblocks.Vec4) error {
	if len(uv) != len(dst) {
		return errMismatchBufferLength
	} else if len(uv) == 0 {
		return errEmptyBuffers
	}
	steps := cp.prog.Steps
	results := make([]glblocks.Vec4, len(steps))
	var argbuf [8]glblocks.Vec4
	outType := cp.prog.OutputType()
	for p, pos := range uv {
		for i := range steps {
			step := &steps[i]
			args := argbuf[:0]
			for j := range step.Args {
				var a glblocks.Vec4
				switch {
				case step.Args[j].Kind == glbuild.ArgResult:
					a = results[step.Args[j].Step]
				case cp.vars[i][j] == varUV:
					a = glblocks.V2(pos)
				case cp.vars[i][j] == varTime:
					a = glblocks.F(env.Time)
				case cp.vars[i][j] == varResolution:
					a = glblocks.V2(env.Resolution)
				default:
					a = cp.consts[i][j]
				}
				args = append(args, a)
			}
			results[i] = step.Kind.Eval(&env, args)
		}
		dst[p] = ToColor(outType, results[cp.prog.Output])
	}
	return nil
}

// ToColor converts a value of type t to RGBA the same way generated programs do.
func ToColor(t glblocks.ValueType, v glblocks.Vec4) glblocks.Vec4 {
	switch t {
	case glblocks.TypeVec4:
		return v
	case glblocks.TypeVec3:
		return glblocks.Vec4{v[0], v[1], v[2], 1}
	case glblocks.TypeVec2:
		return glblocks.Vec4{v[0], v[1], 0, 1}
	}
	return glblocks.Vec4{v[0], v[0], v[0], 1}
}

func literal(v glblocks.Value) (out glblocks.Vec4) {
	copy(out[:], v.Components())
	return out
}
