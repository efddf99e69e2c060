// Package glbuild generates GLSL fragment programs from block graphs.
package glbuild

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/graph"
	"golang.org/x/exp/constraints"
)

// Profile selects the GLSL dialect of the generated program.
type Profile uint8

const (
	// ProfileWebGL writes the output color to gl_FragColor. It is the default.
	ProfileWebGL Profile = iota
	// ProfileCore330 targets desktop OpenGL 3.3 core and writes to an out variable.
	ProfileCore330
)

// ParseProfile returns the profile named s: "webgl" or "core330".
func ParseProfile(s string) (Profile, error) {
	switch s {
	case "", "webgl":
		return ProfileWebGL, nil
	case "core330":
		return ProfileCore330, nil
	}
	return 0, errors.New("unknown profile " + strconv.Quote(s))
}

func (p Profile) String() string {
	switch p {
	case ProfileWebGL:
		return "webgl"
	case ProfileCore330:
		return "core330"
	}
	return "Profile(" + strconv.Itoa(int(p)) + ")"
}

// Sink returns the name of the variable the output color is written to.
func (p Profile) Sink() string {
	if p == ProfileCore330 {
		return "fragColor"
	}
	return "gl_FragColor"
}

func (p Profile) appendPreamble(b []byte) []byte {
	if p == ProfileCore330 {
		b = append(b, "#version 330 core\n"...)
	}
	b = append(b, "precision mediump float;\n"...)
	b = append(b, "uniform vec2 iResolution;\n"...)
	b = append(b, "uniform float iTime;\n"...)
	if p == ProfileCore330 {
		b = append(b, "out vec4 fragColor;\n"...)
	}
	return b
}

// Config configures a [Programmer].
type Config struct {
	Profile Profile
	// Output is the id of the instance whose result is written to the output color.
	// When empty the last instance in topological order is used.
	Output string
}

// Programmer generates fragment programs from block instances. It holds no state
// between calls and is safe for concurrent use.
type Programmer struct {
	catalog glblocks.Catalog
	cfg     Config
}

// NewProgrammer returns a Programmer that resolves kinds from catalog.
func NewProgrammer(catalog glblocks.Catalog, cfg Config) *Programmer {
	return &Programmer{catalog: catalog, cfg: cfg}
}

// NewDefaultProgrammer returns a WebGL Programmer over [glblocks.DefaultLibrary].
func NewDefaultProgrammer() *Programmer {
	return NewProgrammer(glblocks.DefaultLibrary(), Config{})
}

// Config returns the programmer's configuration.
func (p *Programmer) Config() Config { return p.cfg }

// Generate returns the fragment program source for instances. On error no source is returned.
func (p *Programmer) Generate(instances []graph.Instance) (string, error) {
	b, err := p.AppendFragment(nil, instances)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteFragment writes the fragment program for instances to w. Nothing is
// written if the graph fails to resolve.
func (p *Programmer) WriteFragment(w io.Writer, instances []graph.Instance) (int, error) {
	b, err := p.AppendFragment(nil, instances)
	if err != nil {
		return 0, err
	}
	return w.Write(b)
}

// AppendFragment appends the fragment program for instances to dst. On error dst is returned unmodified.
func (p *Programmer) AppendFragment(dst []byte, instances []graph.Instance) ([]byte, error) {
	prog, err := Resolve(instances, p.catalog, p.cfg.Output)
	if err != nil {
		return dst, err
	}
	start := len(dst)
	dst = AppendProgram(dst, p.cfg.Profile, prog)
	glblocks.Logger().Debug("generated fragment program",
		"profile", p.cfg.Profile.String(),
		"instances", len(prog.Steps),
		"output", prog.Steps[prog.Output].Instance.ID,
		"bytes", len(dst)-start,
	)
	return dst, nil
}

// AppendProgram appends the complete source of a resolved program.
func AppendProgram(b []byte, profile Profile, prog *Program) []byte {
	b = profile.appendPreamble(b)
	for i := range prog.Steps {
		b = append(b, '\n')
		b = AppendFunction(b, &prog.Steps[i])
	}
	b = append(b, "\nvoid main() {\n"...)
	b = append(b, "    vec2 uv = gl_FragCoord.xy / iResolution.xy;\n"...)
	for i := range prog.Steps {
		b = append(b, "    "...)
		b = AppendCall(b, prog, i)
	}
	out := &prog.Steps[prog.Output]
	b = append(b, "    "...)
	b = append(b, profile.Sink()...)
	b = append(b, " = "...)
	b = AppendColorConversion(b, out.Kind.OutputType(), out.Result)
	b = append(b, ";\n}\n"...)
	return b
}

// AppendFunction appends the monomorphized template of step: every id placeholder is
// replaced with the sanitized instance id and every type placeholder with the type
// of the kind's first output.
func AppendFunction(b []byte, step *Step) []byte {
	id := glblocks.SanitizeID(step.Instance.ID)
	typename := step.Kind.OutputType().String()
	tmpl := step.Kind.Template
	for len(tmpl) > 0 {
		i := strings.Index(tmpl, "{{")
		if i < 0 {
			break
		}
		b = append(b, tmpl[:i]...)
		tmpl = tmpl[i:]
		switch {
		case strings.HasPrefix(tmpl, glblocks.PlaceholderID):
			b = append(b, id...)
			tmpl = tmpl[len(glblocks.PlaceholderID):]
		case strings.HasPrefix(tmpl, glblocks.PlaceholderType):
			b = append(b, typename...)
			tmpl = tmpl[len(glblocks.PlaceholderType):]
		default:
			b = append(b, "{{"...)
			tmpl = tmpl[2:]
		}
	}
	b = append(b, tmpl...)
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return b
}

// AppendCall appends the statement assigning the call of step i to its result variable.
//
//	vec3 solid_color_a_result = solidcolor_a(vec3(1.00, 0.00, 0.00));
func AppendCall(b []byte, prog *Program, i int) []byte {
	step := &prog.Steps[i]
	b = append(b, step.Kind.OutputType().String()...)
	b = append(b, ' ')
	b = append(b, step.Result...)
	b = append(b, " = "...)
	b = append(b, step.Function...)
	b = append(b, '(')
	for j := range step.Args {
		if j > 0 {
			b = append(b, ", "...)
		}
		b = AppendArg(b, prog, &step.Args[j])
	}
	b = append(b, ");\n"...)
	return b
}

// AppendArg appends the expression of a resolved argument.
func AppendArg(b []byte, prog *Program, arg *Arg) []byte {
	switch arg.Kind {
	case ArgResult:
		return append(b, prog.Steps[arg.Step].Result...)
	case ArgFreeVar:
		return append(b, arg.Value.Name()...)
	}
	return AppendLiteral(b, arg.Value)
}

// AppendLiteral appends a numeric literal value: a float for scalars and a vector
// constructor for vectors. Non-literal values append nothing.
//
//	2.5       -> 2.50
//	[1, 0, 0] -> vec3(1.00, 0.00, 0.00)
func AppendLiteral(b []byte, v glblocks.Value) []byte {
	switch v.Kind() {
	case glblocks.ValueScalar:
		return AppendFloat(b, v.Scalar())
	case glblocks.ValueVector:
		return AppendVecLiteral(b, v.Components()...)
	}
	return b
}

// AppendVecLiteral appends a vecN constructor of the components.
// A single component is appended as a bare float.
func AppendVecLiteral[F constraints.Float](b []byte, comps ...F) []byte {
	if len(comps) == 1 {
		return AppendFloat(b, comps[0])
	}
	b = append(b, "vec"...)
	b = strconv.AppendInt(b, int64(len(comps)), 10)
	b = append(b, '(')
	for i, c := range comps {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = AppendFloat(b, c)
	}
	b = append(b, ')')
	return b
}

// decimalDigits is the fixed precision of float literals.
const decimalDigits = 2

// AppendFloat appends v with fixed 2-decimal precision so the literal always carries
// a decimal point. Negative zero is written as 0.00.
func AppendFloat[F constraints.Float](b []byte, v F) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', decimalDigits, bitSize(v))
	if bytes.Equal(b[start:], []byte("-0.00")) {
		b = append(b[:start], "0.00"...)
	}
	return b
}

func bitSize[F constraints.Float](v F) int {
	if _, ok := any(v).(float32); ok {
		return 32
	}
	return 64
}

// AppendColorConversion appends the expression converting a value of type t held by
// the variable name into a vec4 color.
//
//	vec4  -> name
//	vec3  -> vec4(name, 1.0)
//	vec2  -> vec4(name, 0.0, 1.0)
//	float -> vec4(vec3(name), 1.0)
func AppendColorConversion(b []byte, t glblocks.ValueType, name string) []byte {
	switch t {
	case glblocks.TypeVec4:
		b = append(b, name...)
	case glblocks.TypeVec3:
		b = append(b, "vec4("...)
		b = append(b, name...)
		b = append(b, ", 1.0)"...)
	case glblocks.TypeVec2:
		b = append(b, "vec4("...)
		b = append(b, name...)
		b = append(b, ", 0.0, 1.0)"...)
	default:
		b = append(b, "vec4(vec3("...)
		b = append(b, name...)
		b = append(b, "), 1.0)"...)
	}
	return b
}

// FormatStep returns the function definition and call statement of a single
// instance, useful for inspecting generated code in errors and logs.
func FormatStep(prog *Program, i int) string {
	b := AppendFunction(nil, &prog.Steps[i])
	b = AppendCall(b, prog, i)
	return string(b)
}
