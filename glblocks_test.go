package glblocks_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/glblocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaming(t *testing.T) {
	assert.Equal(t, "radialgradient_a_1", glblocks.FunctionName("Radial Gradient", "a-1"))
	assert.Equal(t, "radial_gradient_a_1_result", glblocks.ResultName("Radial Gradient", "a-1"))
	assert.Equal(t, "circle_c", glblocks.FunctionName("Circle", "c"))
	assert.Equal(t, "value_noise_n_2_result", glblocks.ResultName("Value  Noise", "n-2"))
	assert.Equal(t, "my_block_x", glblocks.SanitizeID("my-block-x"))
}

func TestDefaultLibrary(t *testing.T) {
	lib := glblocks.DefaultLibrary()
	require.Same(t, lib, glblocks.DefaultLibrary())
	kinds := lib.Kinds()
	require.NotEmpty(t, kinds)
	for _, k := range kinds {
		assert.Contains(t, k.Template, glblocks.PlaceholderID, k.ID)
		assert.NotNil(t, k.Eval, k.ID)
		got, ok := lib.Kind(k.ID)
		require.True(t, ok)
		assert.Equal(t, k.Name, got.Name)
	}
	_, ok := lib.Kind("nope")
	assert.False(t, ok)

	// Kinds returns a copy.
	kinds[0].ID = "mutated"
	_, ok = lib.Kind("mutated")
	assert.False(t, ok)
}

func TestListCategories(t *testing.T) {
	lib := glblocks.DefaultLibrary()
	cats := lib.ListCategories()
	assert.Equal(t, []glblocks.Category{
		glblocks.CategoryShape,
		glblocks.CategoryPattern,
		glblocks.CategoryColor,
		glblocks.CategoryTransform,
		glblocks.CategoryBlend,
		glblocks.CategoryEffect,
	}, cats)
	total := 0
	for _, c := range cats {
		for _, k := range lib.ListByCategory(c) {
			assert.Equal(t, c, k.Category)
			total++
		}
	}
	assert.Equal(t, len(lib.Kinds()), total)

	c, ok := glblocks.ParseCategory("blend")
	assert.True(t, ok)
	assert.Equal(t, glblocks.CategoryBlend, c)
	_, ok = glblocks.ParseCategory("sound")
	assert.False(t, ok)
}

func TestSuggest(t *testing.T) {
	lib := glblocks.DefaultLibrary()
	assert.Equal(t, "circle", lib.Suggest("circ", 1)[0])
	assert.Contains(t, lib.Suggest("CHECK", 3), "checker")
	assert.Empty(t, lib.Suggest("zzzzzz", 3))
	assert.LessOrEqual(t, len(lib.Suggest("e", 2)), 2)
}

func TestNewLibraryErrors(t *testing.T) {
	valid := glblocks.BlockKind{
		ID:       "dot",
		Name:     "Dot",
		Category: glblocks.CategoryShape,
		Template: "float dot_{{id}}(vec2 uv) { return 1.0; }\n",
		Inputs:   []glblocks.PortSpec{{ID: "uv", Type: glblocks.TypeVec2, Default: glblocks.FreeVar(glblocks.FreeVarUV)}},
		Outputs:  []glblocks.PortSpec{{ID: "shape", Type: glblocks.TypeFloat}},
	}
	lib, err := glblocks.NewLibrary(valid)
	require.NoError(t, err)
	assert.Len(t, lib.Kinds(), 1)

	misnamed := valid
	misnamed.ID = "misnamed"
	misnamed.Template = "float blob_{{id}}(vec2 uv) { return 1.0; }\n"
	badDefault := valid
	badDefault.ID = "baddefault"
	badDefault.Inputs = []glblocks.PortSpec{{ID: "r", Type: glblocks.TypeFloat, Default: glblocks.Vector(1, 2)}}
	_, err = glblocks.NewLibrary(valid, misnamed, badDefault, valid)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "template does not declare function dot_{{id}}(")
	assert.Contains(t, msg, `input "r" default has 2 components, want 1`)
	assert.Contains(t, msg, `duplicate block kind id "dot"`)

	assert.Panics(t, func() { glblocks.MustLibrary(misnamed) })
}

func TestValue(t *testing.T) {
	v := glblocks.Vector(1, 0.5, 0)
	assert.Equal(t, glblocks.ValueVector, v.Kind())
	assert.Equal(t, []float32{1, 0.5, 0}, v.Components())
	typ, ok := v.Type()
	assert.True(t, ok)
	assert.Equal(t, glblocks.TypeVec3, typ)
	assert.Equal(t, "[1,0.5,0]", v.String())

	f := glblocks.Vector(2)
	assert.Equal(t, glblocks.ValueScalar, f.Kind())
	assert.Equal(t, float32(2), f.Scalar())

	c := glblocks.ParseValue("circle-1:shape")
	id, port, ok := c.Connection()
	assert.True(t, ok)
	assert.Equal(t, "circle-1", id)
	assert.Equal(t, "shape", port)
	assert.Equal(t, "circle-1:shape", c.String())

	fv := glblocks.ParseValue("iTime")
	assert.Equal(t, glblocks.ValueFreeVar, fv.Kind())
	assert.False(t, fv.IsLiteral())
	_, ok = fv.Type()
	assert.False(t, ok)

	assert.False(t, glblocks.ParseValue("").IsSet())
	assert.Equal(t, glblocks.Vec2(ms2.Vec{X: 1, Y: 2}), glblocks.Vector(1, 2))
	assert.Panics(t, func() { glblocks.Vector() })
}

func TestKindEval(t *testing.T) {
	lib := glblocks.DefaultLibrary()
	env := &glblocks.Env{Time: 0, Resolution: ms2.Vec{X: 1, Y: 1}}

	solid, _ := lib.Kind("solid")
	assert.Equal(t, glblocks.Vec4{0.2, 0.4, 0.6, 0}, solid.Eval(env, []glblocks.Vec4{{0.2, 0.4, 0.6}}))

	inv, _ := lib.Kind("invert")
	got := inv.Eval(env, []glblocks.Vec4{{1, 0.25, 0}})
	assert.InDeltaSlice(t, []float32{0, 0.75, 1}, got[:3], 1e-6)

	circle, _ := lib.Kind("circle")
	inside := circle.Eval(env, []glblocks.Vec4{{0.5, 0.5}, {0.5, 0.5}, {0.25}, {0.01}})
	outside := circle.Eval(env, []glblocks.Vec4{{0, 0}, {0.5, 0.5}, {0.25}, {0.01}})
	assert.Equal(t, float32(1), inside[0])
	assert.Equal(t, float32(0), outside[0])
}

func TestLogger(t *testing.T) {
	var sb strings.Builder
	glblocks.SetLogger(slog.New(slog.NewTextHandler(&sb, nil)))
	glblocks.Logger().Info("hello")
	assert.Contains(t, sb.String(), "msg=hello")
	glblocks.SetLogger(nil)
	glblocks.Logger().Info("silent")
	assert.NotContains(t, sb.String(), "silent")
}

func TestPolygonMasks(t *testing.T) {
	lib := glblocks.DefaultLibrary()
	env := &glblocks.Env{Resolution: ms2.Vec{X: 1, Y: 1}}
	for _, id := range []string{"hexagon", "octagon", "triangle"} {
		k, ok := lib.Kind(id)
		require.True(t, ok, id)
		args := func(x, y float32) []glblocks.Vec4 {
			return []glblocks.Vec4{{x, y}, {0.5, 0.5}, {0.3}, {0.01}}
		}
		assert.Equal(t, float32(1), k.Eval(env, args(0.5, 0.5))[0], id)
		assert.Equal(t, float32(0), k.Eval(env, args(0.02, 0.98))[0], id)
		// Mirror symmetric about the vertical axis through center.
		assert.InDelta(t, k.Eval(env, args(0.4, 0.45))[0], k.Eval(env, args(0.6, 0.45))[0], 1e-6, id)
	}
}
