package glblocks

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

func transformKinds() []BlockKind {
	return []BlockKind{
		{
			ID:          "rotate",
			Name:        "Rotate",
			Category:    CategoryTransform,
			Description: "Rotates coordinates counterclockwise by angle radians around center.",
			Template: `vec2 rotate_{{id}}(vec2 uv, float angle, vec2 center) {
    float s = sin(angle);
    float c = cos(angle);
    vec2 p = uv - center;
    return vec2(c * p.x - s * p.y, s * p.x + c * p.y) + center;
}
`,
			Inputs: []PortSpec{
				uvInput(),
				floatIn("angle", "Angle", 0),
				vec2In("center", "Center", 0.5, 0.5),
			},
			Outputs: out("uv", "UV", TypeVec2),
			Eval:    evalRotate,
		},
		{
			ID:          "scale",
			Name:        "Scale",
			Category:    CategoryTransform,
			Description: "Scales coordinates around center. Larger scale enlarges content.",
			Template: `vec2 scale_{{id}}(vec2 uv, vec2 scale, vec2 center) {
    return (uv - center) / scale + center;
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("scale", "Scale", 1, 1),
				vec2In("center", "Center", 0.5, 0.5),
			},
			Outputs: out("uv", "UV", TypeVec2),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				uv, s, c := args[0].XY(), args[1].XY(), args[2].XY()
				return V2(ms2.Add(ms2.DivElem(ms2.Sub(uv, c), s), c))
			},
		},
		{
			ID:          "translate",
			Name:        "Translate",
			Category:    CategoryTransform,
			Description: "Moves content by offset.",
			Template: `vec2 translate_{{id}}(vec2 uv, vec2 offset) {
    return uv - offset;
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("offset", "Offset", 0, 0),
			},
			Outputs: out("uv", "UV", TypeVec2),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				return V2(ms2.Sub(args[0].XY(), args[1].XY()))
			},
		},
		{
			ID:          "tile",
			Name:        "Tile",
			Category:    CategoryTransform,
			Description: "Repeats the unit square count times along each axis.",
			Template: `vec2 tile_{{id}}(vec2 uv, vec2 count) {
    return fract(uv * count);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("count", "Count", 4, 4),
			},
			Outputs: out("uv", "UV", TypeVec2),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				p := ms2.MulElem(args[0].XY(), args[1].XY())
				return Vec4{fract(p.X), fract(p.Y)}
			},
		},
	}
}

func evalRotate(_ *Env, args []Vec4) Vec4 {
	uv, angle, center := args[0].XY(), args[1][0], args[2].XY()
	s, c := math32.Sincos(angle)
	p := ms2.Sub(uv, center)
	r := ms2.Vec{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
	return V2(ms2.Add(r, center))
}
