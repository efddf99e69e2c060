package glblocks

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

func effectKinds() []BlockKind {
	return []BlockKind{
		{
			ID:          "invert",
			Name:        "Invert",
			Category:    CategoryEffect,
			Description: "One minus color.",
			Template: `vec3 invert_{{id}}(vec3 color) {
    return 1.0 - color;
}
`,
			Inputs:  []PortSpec{vec3In("color", "Color", 1, 1, 1)},
			Outputs: out("color", "Color", TypeVec3),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				c := args[0]
				return Vec4{1 - c[0], 1 - c[1], 1 - c[2]}
			},
		},
		{
			ID:          "vignette",
			Name:        "Vignette",
			Category:    CategoryEffect,
			Description: "Darkens color towards the canvas corners.",
			Template: `vec3 vignette_{{id}}(vec2 uv, vec3 color, float strength) {
    float d = length(uv - 0.5) * 1.41421356;
    return color * (1.0 - strength * d * d);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec3In("color", "Color", 1, 1, 1),
				floatIn("strength", "Strength", 0.5),
			},
			Outputs: out("color", "Color", TypeVec3),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				uv, color, strength := args[0].XY(), args[1].XYZ(), args[2][0]
				d := ms2.Norm(ms2.AddScalar(-0.5, uv)) * math32.Sqrt2
				return V3(ms3.Scale(1-strength*d*d, color))
			},
		},
		{
			ID:          "pulse",
			Name:        "Pulse",
			Category:    CategoryEffect,
			Description: "Oscillates between 0 and 1 over time.",
			Template: `float pulse_{{id}}(float speed) {
    return 0.5 + 0.5 * sin(iTime * speed);
}
`,
			Inputs:  []PortSpec{floatIn("speed", "Speed", 1)},
			Outputs: out("value", "Value", TypeFloat),
			Eval: func(env *Env, args []Vec4) Vec4 {
				return F(0.5 + 0.5*math32.Sin(env.Time*args[0][0]))
			},
		},
		{
			ID:          "threshold",
			Name:        "Threshold",
			Category:    CategoryEffect,
			Description: "0 below edge, 1 at or above.",
			Template: `float threshold_{{id}}(float value, float edge) {
    return step(edge, value);
}
`,
			Inputs: []PortSpec{
				floatIn("value", "Value", 0.5),
				floatIn("edge", "Edge", 0.5),
			},
			Outputs: out("value", "Value", TypeFloat),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				return F(step(args[1][0], args[0][0]))
			},
		},
	}
}
