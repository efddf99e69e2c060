package glblocks

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

func shapeKinds() []BlockKind {
	return []BlockKind{
		{
			ID:          "circle",
			Name:        "Circle",
			Category:    CategoryShape,
			Description: "Filled circle mask with soft edge.",
			Template: `float circle_{{id}}(vec2 uv, vec2 center, float radius, float softness) {
    float d = length(uv - center);
    return 1.0 - smoothstep(radius - softness, radius + softness, d);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("center", "Center", 0.5, 0.5),
				floatIn("radius", "Radius", 0.25),
				floatIn("softness", "Softness", 0.01),
			},
			Outputs: out("shape", "Shape", TypeFloat),
			Eval:    evalCircle,
		},
		{
			ID:          "rectangle",
			Name:        "Rectangle",
			Category:    CategoryShape,
			Description: "Axis aligned rectangle mask with soft edge.",
			Template: `float rectangle_{{id}}(vec2 uv, vec2 center, vec2 size, float softness) {
    vec2 d = abs(uv - center) - size * 0.5;
    float dist = length(max(d, 0.0)) + min(max(d.x, d.y), 0.0);
    return 1.0 - smoothstep(-softness, softness, dist);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("center", "Center", 0.5, 0.5),
				vec2In("size", "Size", 0.5, 0.3),
				floatIn("softness", "Softness", 0.01),
			},
			Outputs: out("shape", "Shape", TypeFloat),
			Eval:    evalRectangle,
		},
		{
			ID:          "ring",
			Name:        "Ring",
			Category:    CategoryShape,
			Description: "Annulus mask centered on center.",
			Template: `float ring_{{id}}(vec2 uv, vec2 center, float radius, float thickness, float softness) {
    float d = abs(length(uv - center) - radius) - thickness * 0.5;
    return 1.0 - smoothstep(-softness, softness, d);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("center", "Center", 0.5, 0.5),
				floatIn("radius", "Radius", 0.3),
				floatIn("thickness", "Thickness", 0.05),
				floatIn("softness", "Softness", 0.01),
			},
			Outputs: out("shape", "Shape", TypeFloat),
			Eval:    evalRing,
		},
	}
}

func evalCircle(_ *Env, args []Vec4) Vec4 {
	uv, center, radius, soft := args[0].XY(), args[1].XY(), args[2][0], args[3][0]
	d := ms2.Norm(ms2.Sub(uv, center))
	return F(1 - smoothstep(radius-soft, radius+soft, d))
}

func evalRectangle(_ *Env, args []Vec4) Vec4 {
	uv, center, size, soft := args[0].XY(), args[1].XY(), args[2].XY(), args[3][0]
	d := ms2.Sub(ms2.AbsElem(ms2.Sub(uv, center)), ms2.Scale(0.5, size))
	outside := ms2.Norm(ms2.MaxElem(d, ms2.Vec{}))
	inside := math32.Min(math32.Max(d.X, d.Y), 0)
	return F(1 - smoothstep(-soft, soft, outside+inside))
}

func evalRing(_ *Env, args []Vec4) Vec4 {
	uv, center, radius, thick, soft := args[0].XY(), args[1].XY(), args[2][0], args[3][0], args[4][0]
	d := math32.Abs(ms2.Norm(ms2.Sub(uv, center))-radius) - thick*0.5
	return F(1 - smoothstep(-soft, soft, d))
}
