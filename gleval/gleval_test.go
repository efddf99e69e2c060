package gleval_test

import (
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/glbuild"
	"github.com/soypat/glblocks/gleval"
	"github.com/soypat/glblocks/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestSolidColor(t *testing.T) {
	instances := []graph.Instance{{
		ID:     "s",
		KindID: "solid",
		Inputs: map[string]glblocks.Value{"color": glblocks.Vec3(ms3.Vec{X: 0.2, Y: 0.4, Z: 0.6})},
	}}
	prog, err := gleval.NewCPUProgram(instances, glblocks.DefaultLibrary(), nil)
	require.NoError(t, err)
	uv := []ms2.Vec{{}, {X: 0.5, Y: 0.5}, {X: 1, Y: 1}}
	dst := make([]glblocks.Vec4, len(uv))
	require.NoError(t, prog.Evaluate(uv, glblocks.Env{}, dst))
	for _, c := range dst {
		assert.InDeltaSlice(t, []float32{0.2, 0.4, 0.6, 1}, c[:], tol)
	}
}

func TestCircleMask(t *testing.T) {
	instances := []graph.Instance{
		{ID: "c", KindID: "circle", Inputs: map[string]glblocks.Value{"softness": glblocks.Float(0)}},
		{ID: "k", KindID: "colorize", Inputs: map[string]glblocks.Value{
			"mask":  glblocks.Connect("c", "shape"),
			"color": glblocks.Vector(0, 1, 0),
		}},
	}
	prog, err := gleval.NewCPUProgram(instances, glblocks.DefaultLibrary(), nil)
	require.NoError(t, err)
	uv := []ms2.Vec{{X: 0.5, Y: 0.5}, {X: 0.01, Y: 0.01}}
	dst := make([]glblocks.Vec4, len(uv))
	require.NoError(t, prog.Evaluate(uv, glblocks.Env{}, dst))
	assert.InDeltaSlice(t, []float32{0, 1, 0, 1}, dst[0][:], tol, "center is inside circle")
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, dst[1][:], tol, "corner is outside circle")
}

func TestUniformsAndTime(t *testing.T) {
	instances := []graph.Instance{
		{ID: "p", KindID: "pulse", Inputs: map[string]glblocks.Value{"speed": glblocks.FreeVar("uSpeed")}},
	}
	lib := glblocks.DefaultLibrary()
	_, err := gleval.NewCPUProgram(instances, lib, nil)
	require.Error(t, err, "missing uniform must fail")

	prog, err := gleval.NewCPUProgram(instances, lib, map[string]glblocks.Value{"uSpeed": glblocks.Float(0)})
	require.NoError(t, err)
	dst := make([]glblocks.Vec4, 1)
	require.NoError(t, prog.Evaluate([]ms2.Vec{{}}, glblocks.Env{Time: 123}, dst))
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 0.5, 1}, dst[0][:], tol, "zero speed pulse is constant 0.5")
}

func TestEvaluateErrors(t *testing.T) {
	lib := glblocks.DefaultLibrary()
	_, err := gleval.NewCPUProgram(nil, lib, nil)
	require.ErrorIs(t, err, glbuild.ErrNothingToGenerate)

	_, err = gleval.NewCPUProgram([]graph.Instance{{ID: "a", KindID: "bogus"}}, lib, nil)
	var unknown *glbuild.UnknownKindError
	require.ErrorAs(t, err, &unknown)

	prog, err := gleval.NewCPUProgram([]graph.Instance{{ID: "a", KindID: "solid"}}, lib, nil)
	require.NoError(t, err)
	assert.Error(t, prog.Evaluate(make([]ms2.Vec, 2), glblocks.Env{}, make([]glblocks.Vec4, 1)))
	assert.Error(t, prog.Evaluate(nil, glblocks.Env{}, nil))
}

func TestToColor(t *testing.T) {
	v := glblocks.Vec4{0.1, 0.2, 0.3, 0.4}
	assert.Equal(t, glblocks.Vec4{0.1, 0.1, 0.1, 1}, gleval.ToColor(glblocks.TypeFloat, v))
	assert.Equal(t, glblocks.Vec4{0.1, 0.2, 0, 1}, gleval.ToColor(glblocks.TypeVec2, v))
	assert.Equal(t, glblocks.Vec4{0.1, 0.2, 0.3, 1}, gleval.ToColor(glblocks.TypeVec3, v))
	assert.Equal(t, v, gleval.ToColor(glblocks.TypeVec4, v))
}
