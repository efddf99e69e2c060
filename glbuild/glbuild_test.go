package glbuild_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/glbuild"
	"github.com/soypat/glblocks/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inst(id, kind string, inputs map[string]glblocks.Value) graph.Instance {
	if inputs == nil {
		inputs = map[string]glblocks.Value{}
	}
	return graph.Instance{ID: id, KindID: kind, Inputs: inputs}
}

func TestDefaultSubstitution(t *testing.T) {
	lib, err := glblocks.NewLibrary(glblocks.BlockKind{
		ID:       "tint",
		Name:     "Tint",
		Category: glblocks.CategoryColor,
		Template: "vec3 tint_{{id}}(vec2 uv, float gain, vec3 tint) {\n    return tint * gain;\n}\n",
		Inputs: []glblocks.PortSpec{
			{ID: "uv", Type: glblocks.TypeVec2, Default: glblocks.FreeVar(glblocks.FreeVarUV)},
			{ID: "gain", Type: glblocks.TypeFloat, Default: glblocks.Float(2.5)},
			{ID: "tint", Type: glblocks.TypeVec3, Default: glblocks.Vector(1, 0, 0)},
		},
		Outputs: []glblocks.PortSpec{{ID: "color", Type: glblocks.TypeVec3}},
	})
	require.NoError(t, err)
	p := glbuild.NewProgrammer(lib, glbuild.Config{})
	src, err := p.Generate([]graph.Instance{inst("p", "tint", nil)})
	require.NoError(t, err)
	assert.Contains(t, src, "vec3 tint_p_result = tint_p(uv, 2.50, vec3(1.00, 0.00, 0.00));\n")
}

func TestSuppliedArguments(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	src, err := p.Generate([]graph.Instance{
		inst("c", "circle", map[string]glblocks.Value{
			"center": glblocks.Vec2(ms2.Vec{X: 0.25, Y: 0.75}),
			"radius": glblocks.FreeVar("uRadius"),
		}),
		inst("col", "colorize", map[string]glblocks.Value{
			"mask": glblocks.Connect("c", "shape"),
		}),
	})
	require.NoError(t, err)
	assert.Contains(t, src, "float circle_c_result = circle_c(uv, vec2(0.25, 0.75), uRadius, 0.01);\n")
	assert.Contains(t, src, "vec3 colorize_col_result = colorize_col(circle_c_result, vec3(1.00, 1.00, 1.00));\n")
}

func TestOutputConversion(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{kind: "circle", want: "gl_FragColor = vec4(vec3(circle_x_result), 1.0);"},
		{kind: "solid", want: "gl_FragColor = vec4(solid_color_x_result, 1.0);"},
		{kind: "translate", want: "gl_FragColor = vec4(translate_x_result, 0.0, 1.0);"},
		{kind: "alpha", want: "gl_FragColor = with_alpha_x_result;"},
	}
	p := glbuild.NewDefaultProgrammer()
	for _, test := range tests {
		t.Run(test.kind, func(t *testing.T) {
			src, err := p.Generate([]graph.Instance{inst("x", test.kind, nil)})
			require.NoError(t, err)
			assert.Contains(t, src, "    "+test.want+"\n}\n")
		})
	}
}

func TestDeterministic(t *testing.T) {
	graphInstances := []graph.Instance{
		inst("n", "noise", nil),
		inst("g", "gradient", map[string]glblocks.Value{"angle": glblocks.FreeVar("iTime")}),
		inst("m", "mix", map[string]glblocks.Value{
			"a": glblocks.Connect("g", "color"),
			"t": glblocks.Connect("n", "pattern"),
		}),
	}
	p := glbuild.NewDefaultProgrammer()
	first, err := p.Generate(graphInstances)
	require.NoError(t, err)
	for range 5 {
		again, err := p.Generate(graphInstances)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
	var buf bytes.Buffer
	n, err := p.WriteFragment(&buf, graphInstances)
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Equal(t, first, buf.String())
}

func TestProgramLayout(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	src, err := p.Generate([]graph.Instance{
		inst("m", "multiply", map[string]glblocks.Value{"a": glblocks.Connect("s", "color")}),
		inst("s", "solid", nil),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(src, "precision mediump float;\nuniform vec2 iResolution;\nuniform float iTime;\n"), src)
	assert.Contains(t, src, "void main() {\n    vec2 uv = gl_FragCoord.xy / iResolution.xy;\n")
	defS := strings.Index(src, "vec3 solidcolor_s(")
	defM := strings.Index(src, "vec3 multiply_m(")
	callS := strings.Index(src, "solid_color_s_result = ")
	callM := strings.Index(src, "multiply_m_result = ")
	require.True(t, defS >= 0 && defM >= 0 && callS >= 0 && callM >= 0, src)
	assert.Less(t, defS, defM, "dependency function must be defined first")
	assert.Less(t, callS, callM, "dependency must be called first")
	assert.NotContains(t, src, "{{")
}

func TestGenericMonomorphized(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	src, err := p.Generate([]graph.Instance{
		inst("a-1", "mix", nil),
		inst("a-2", "mix", map[string]glblocks.Value{"a": glblocks.Connect("a-1", "result")}),
	})
	require.NoError(t, err)
	assert.Contains(t, src, "vec3 mix_a_1(vec3 a, vec3 b, float t) {")
	assert.Contains(t, src, "vec3 mix_a_2(vec3 a, vec3 b, float t) {")
	assert.Contains(t, src, "vec3 mix_a_2_result = mix_a_2(mix_a_1_result, vec3(1.00, 1.00, 1.00), 0.50);")
	assert.NotContains(t, src, glblocks.PlaceholderType)
	assert.NotContains(t, src, "a-1")
}

func TestCore330Profile(t *testing.T) {
	p := glbuild.NewProgrammer(glblocks.DefaultLibrary(), glbuild.Config{Profile: glbuild.ProfileCore330})
	src, err := p.Generate([]graph.Instance{inst("s", "solid", nil)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src, "#version 330 core\n"))
	assert.Contains(t, src, "out vec4 fragColor;\n")
	assert.Contains(t, src, "    fragColor = vec4(solid_color_s_result, 1.0);\n")
	assert.NotContains(t, src, "gl_FragColor")
}

func TestConfigOutput(t *testing.T) {
	instances := []graph.Instance{
		inst("c", "circle", nil),
		inst("s", "solid", nil),
	}
	p := glbuild.NewProgrammer(glblocks.DefaultLibrary(), glbuild.Config{Output: "c"})
	src, err := p.Generate(instances)
	require.NoError(t, err)
	assert.Contains(t, src, "gl_FragColor = vec4(vec3(circle_c_result), 1.0);")

	p = glbuild.NewProgrammer(glblocks.DefaultLibrary(), glbuild.Config{Output: "missing"})
	_, err = p.Generate(instances)
	assert.Error(t, err)
}

func TestGenerateErrors(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()

	src, err := p.Generate(nil)
	require.ErrorIs(t, err, glbuild.ErrNothingToGenerate)
	assert.EqualError(t, err, "nothing to generate")
	assert.Empty(t, src)

	src, err = p.Generate([]graph.Instance{inst("a", "circle", nil), inst("b", "nope", nil)})
	var unknown *glbuild.UnknownKindError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "b", unknown.InstanceID)
	assert.EqualError(t, err, "unknown block kind: nope")
	assert.Empty(t, src)

	src, err = p.Generate([]graph.Instance{
		inst("A", "invert", map[string]glblocks.Value{"color": glblocks.Connect("C", "color")}),
		inst("B", "invert", map[string]glblocks.Value{"color": glblocks.Connect("A", "color")}),
		inst("C", "invert", map[string]glblocks.Value{"color": glblocks.Connect("B", "color")}),
	})
	var cycle *graph.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Empty(t, src)

	src, err = p.Generate([]graph.Instance{
		inst("A", "colorize", map[string]glblocks.Value{"mask": glblocks.ParseValue("B:shape")}),
	})
	var dangling *glbuild.DanglingError
	require.ErrorAs(t, err, &dangling)
	assert.Contains(t, err.Error(), "A")
	assert.Contains(t, err.Error(), "B")
	assert.Empty(t, src)

	_, err = p.Generate([]graph.Instance{
		inst("B", "circle", nil),
		inst("A", "colorize", map[string]glblocks.Value{"mask": glblocks.Connect("B", "nothere")}),
	})
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "nothere", dangling.TargetPort)

	_, err = p.Generate([]graph.Instance{inst("A", "circle", nil), inst("A", "solid", nil)})
	var dup *glbuild.DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "A", dup.ID)
}

func TestIdentifierCollision(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	src, err := p.Generate([]graph.Instance{inst("a-b", "circle", nil), inst("a_b", "circle", nil)})
	var collision *glbuild.IdentifierCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "a-b", collision.OtherID)
	assert.Equal(t, "a_b", collision.InstanceID)
	assert.Equal(t, "circle_a_b", collision.Identifier)
	assert.EqualError(t, err, "blocks a-b and a_b both generate identifier circle_a_b")
	assert.Empty(t, src)

	// Distinct kinds give distinct prefixes so sanitized ids may coincide.
	_, err = p.Generate([]graph.Instance{
		inst("a-b", "circle", nil),
		inst("a_b", "colorize", map[string]glblocks.Value{"mask": glblocks.Connect("a-b", "shape")}),
	})
	require.NoError(t, err)
}

func TestNonFiniteLiteral(t *testing.T) {
	p := glbuild.NewDefaultProgrammer()
	for _, v := range []glblocks.Value{
		glblocks.Float(float32(math.Inf(1))),
		glblocks.Float(float32(math.Inf(-1))),
		glblocks.Float(float32(math.NaN())),
	} {
		src, err := p.Generate([]graph.Instance{inst("c", "circle", map[string]glblocks.Value{"radius": v})})
		var nonFinite *glbuild.NonFiniteError
		require.ErrorAs(t, err, &nonFinite, v.String())
		assert.Equal(t, "c", nonFinite.InstanceID)
		assert.Equal(t, "radius", nonFinite.Port)
		assert.Empty(t, src)
	}
	src, err := p.Generate([]graph.Instance{inst("c", "circle", map[string]glblocks.Value{
		"center": glblocks.Vector(0.5, float32(math.NaN())),
	})})
	var nonFinite *glbuild.NonFiniteError
	require.ErrorAs(t, err, &nonFinite)
	assert.Equal(t, "center", nonFinite.Port)
	assert.NotContains(t, src, "NaN")
}

func TestMissingInputNoDefault(t *testing.T) {
	lib := glblocks.MustLibrary(glblocks.BlockKind{
		ID:       "bare",
		Name:     "Bare",
		Category: glblocks.CategoryEffect,
		Template: "float bare_{{id}}(float x) { return x; }\n",
		Inputs:   []glblocks.PortSpec{{ID: "x", Type: glblocks.TypeFloat}},
		Outputs:  []glblocks.PortSpec{{ID: "value", Type: glblocks.TypeFloat}},
	})
	p := glbuild.NewProgrammer(lib, glbuild.Config{})
	_, err := p.Generate([]graph.Instance{inst("b", "bare", nil)})
	var missing *glbuild.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "x", missing.Port)

	src, err := p.Generate([]graph.Instance{inst("b", "bare", map[string]glblocks.Value{"x": glblocks.Float(-0.25)})})
	require.NoError(t, err)
	assert.Contains(t, src, "bare_b(-0.25)")
}

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		v    float32
		want string
	}{
		{2.5, "2.50"},
		{0, "0.00"},
		{3, "3.00"},
		{-1.25, "-1.25"},
		{-0.001, "0.00"},
		{0.126, "0.13"},
		{1e6, "1000000.00"},
	}
	for _, test := range tests {
		got := string(glbuild.AppendFloat(nil, test.v))
		assert.Equal(t, test.want, got, "AppendFloat(%v)", test.v)
	}
	assert.Equal(t, "0.33", string(glbuild.AppendFloat(nil, 1.0/3.0)))
	assert.Equal(t, "vec3(1.00, 0.00, 0.00)", string(glbuild.AppendVecLiteral[float32](nil, 1, 0, 0)))
	assert.Equal(t, "vec4(0.10, 0.20, 0.30, 1.00)", string(glbuild.AppendVecLiteral(nil, 0.1, 0.2, 0.3, 1.0)))
	assert.Equal(t, "4.00", string(glbuild.AppendVecLiteral[float32](nil, 4)))
}

func TestParseProfile(t *testing.T) {
	for _, name := range []string{"webgl", "core330"} {
		prof, err := glbuild.ParseProfile(name)
		require.NoError(t, err)
		assert.Equal(t, name, prof.String())
	}
	_, err := glbuild.ParseProfile("metal")
	assert.Error(t, err)
}

func TestFormatStep(t *testing.T) {
	prog, err := glbuild.Resolve([]graph.Instance{inst("k", "checker", nil)}, glblocks.DefaultLibrary(), "")
	require.NoError(t, err)
	got := glbuild.FormatStep(prog, 0)
	assert.True(t, strings.HasPrefix(got, "float checker_k("), got)
	assert.True(t, strings.HasSuffix(got, "float checker_k_result = checker_k(uv, 8.00);\n"), got)
}
