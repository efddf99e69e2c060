package graph_test

import (
	"math"
	"testing"

	"github.com/soypat/glblocks"
	"github.com/soypat/glblocks/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{
  "blocks": [
    {"id": "r", "type": "rotate", "inputs": {"angle": {"expr": "pi / 4"}}},
    {"id": "c", "type": "checker", "inputs": {"uv": "r:uv", "scale": 6}},
    {"id": "k", "type": "colorize", "inputs": {"mask": "c:pattern", "color": {"expr": "[cos(pi), 0.5, 1]"}}},
    {"id": "p", "type": "pulse", "inputs": {"speed": "uSpeed", "unused": null}}
  ],
  "uniforms": {"uSpeed": {"expr": "tau"}},
  "output": "k"
}`

func TestLoadDocument(t *testing.T) {
	d, err := graph.LoadDocument([]byte(doc))
	require.NoError(t, err)
	require.Len(t, d.Instances, 4)
	assert.Equal(t, "k", d.Output)

	r := d.Instances[0]
	assert.InDelta(t, math.Pi/4, r.Input("angle").Scalar(), 1e-6)
	c := d.Instances[1]
	src, port, ok := c.Input("uv").Connection()
	assert.True(t, ok)
	assert.Equal(t, "r", src)
	assert.Equal(t, "uv", port)
	assert.Equal(t, float32(6), c.Input("scale").Scalar())
	k := d.Instances[2]
	assert.InDeltaSlice(t, []float32{-1, 0.5, 1}, k.Input("color").Components(), 1e-6)
	p := d.Instances[3]
	assert.Equal(t, glblocks.ValueFreeVar, p.Input("speed").Kind())
	_, present := p.Inputs["unused"]
	assert.False(t, present, "null inputs are left unset")

	assert.InDelta(t, 2*math.Pi, d.Uniforms["uSpeed"].Scalar(), 1e-5)
	assert.Empty(t, graph.Validate(d.Instances, lib))
}

func TestLoadDocumentErrors(t *testing.T) {
	for name, src := range map[string]string{
		"invalid json":     `{"blocks": [`,
		"missing blocks":   `{"output": "x"}`,
		"missing id":       `{"blocks": [{"type": "solid"}]}`,
		"bad vector":       `{"blocks": [{"id": "a", "type": "solid", "inputs": {"color": [1, 2, 3, 4, 5]}}]}`,
		"vector component": `{"blocks": [{"id": "a", "type": "solid", "inputs": {"color": [1, "x", 3]}}]}`,
		"bad expr":         `{"blocks": [{"id": "a", "type": "circle", "inputs": {"radius": {"expr": "1 +"}}}]}`,
		"expr string":      `{"blocks": [{"id": "a", "type": "circle", "inputs": {"radius": {"expr": "'big'"}}}]}`,
		"object no expr":   `{"blocks": [{"id": "a", "type": "circle", "inputs": {"radius": {"value": 1}}}]}`,
		"uniform freevar":  `{"blocks": [], "uniforms": {"uSpeed": "iTime"}}`,
		"float32 overflow": `{"blocks": [{"id": "a", "type": "circle", "inputs": {"radius": 1e39}}]}`,
	} {
		_, err := graph.LoadDocument([]byte(src))
		assert.Error(t, err, name)
	}
}

func TestLoadDocumentNonFinite(t *testing.T) {
	for _, expr := range []string{"1/0", "-1/0", "sqrt(-1)", "[0.5, 1/0]"} {
		src := `{"blocks": [{"id": "c", "type": "circle", "inputs": {"radius": {"expr": "` + expr + `"}}}]}`
		_, err := graph.LoadDocument([]byte(src))
		require.Error(t, err, expr)
		assert.Contains(t, err.Error(), "not finite", expr)
	}
}

func TestMarshalDocumentRoundTrip(t *testing.T) {
	d, err := graph.LoadDocument([]byte(doc))
	require.NoError(t, err)
	data, err := graph.MarshalDocument(d)
	require.NoError(t, err)
	again, err := graph.LoadDocument(data)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}
