package glblocks

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

func colorKinds() []BlockKind {
	return []BlockKind{
		{
			ID:          "solid",
			Name:        "Solid Color",
			Category:    CategoryColor,
			Description: "Constant RGB color.",
			Template: `vec3 solidcolor_{{id}}(vec3 color) {
    return color;
}
`,
			Inputs:  []PortSpec{vec3In("color", "Color", 1, 0, 0)},
			Outputs: out("color", "Color", TypeVec3),
			Eval:    func(_ *Env, args []Vec4) Vec4 { return V3(args[0].XYZ()) },
		},
		{
			ID:          "gradient",
			Name:        "Linear Gradient",
			Category:    CategoryColor,
			Description: "Two color gradient across the canvas along angle.",
			Template: `vec3 lineargradient_{{id}}(vec2 uv, vec3 colorA, vec3 colorB, float angle) {
    vec2 dir = vec2(cos(angle), sin(angle));
    float t = clamp(dot(uv - 0.5, dir) + 0.5, 0.0, 1.0);
    return mix(colorA, colorB, t);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec3In("colorA", "Color A", 0, 0, 0),
				vec3In("colorB", "Color B", 1, 1, 1),
				floatIn("angle", "Angle", 0),
			},
			Outputs: out("color", "Color", TypeVec3),
			Eval:    evalLinearGradient,
		},
		{
			ID:          "colorize",
			Name:        "Colorize",
			Category:    CategoryColor,
			Description: "Tints a scalar mask with a color.",
			Template: `vec3 colorize_{{id}}(float mask, vec3 color) {
    return color * mask;
}
`,
			Inputs: []PortSpec{
				floatIn("mask", "Mask", 1),
				vec3In("color", "Color", 1, 1, 1),
			},
			Outputs: out("color", "Color", TypeVec3),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				return V3(ms3.Scale(args[0][0], args[1].XYZ()))
			},
		},
		{
			ID:          "hsv",
			Name:        "HSV Color",
			Category:    CategoryColor,
			Description: "Color from hue, saturation and value, all in 0..1.",
			Template: `vec3 hsvcolor_{{id}}(float hue, float saturation, float value) {
    vec3 k = mod(vec3(5.0, 3.0, 1.0) + hue * 6.0, 6.0);
    return value - value * saturation * clamp(min(k, 4.0 - k), 0.0, 1.0);
}
`,
			Inputs: []PortSpec{
				floatIn("hue", "Hue", 0),
				floatIn("saturation", "Saturation", 1),
				floatIn("value", "Value", 1),
			},
			Outputs: out("color", "Color", TypeVec3),
			Eval:    evalHSV,
		},
		{
			ID:          "alpha",
			Name:        "With Alpha",
			Category:    CategoryColor,
			Description: "Adds an alpha channel to an RGB color.",
			Template: `vec4 withalpha_{{id}}(vec3 color, float alpha) {
    return vec4(color, alpha);
}
`,
			Inputs: []PortSpec{
				vec3In("color", "Color", 1, 1, 1),
				floatIn("alpha", "Alpha", 1),
			},
			Outputs: out("rgba", "RGBA", TypeVec4),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				c := args[0]
				return Vec4{c[0], c[1], c[2], args[1][0]}
			},
		},
	}
}

func evalLinearGradient(_ *Env, args []Vec4) Vec4 {
	uv, a, b, angle := args[0].XY(), args[1].XYZ(), args[2].XYZ(), args[3][0]
	s, c := math32.Sincos(angle)
	t := clamp(ms2.Dot(ms2.AddScalar(-0.5, uv), ms2.Vec{X: c, Y: s})+0.5, 0, 1)
	return V3(ms3.InterpElem(a, b, ms3.Vec{X: t, Y: t, Z: t}))
}

func evalHSV(_ *Env, args []Vec4) Vec4 {
	h, s, v := args[0][0], args[1][0], args[2][0]
	var rgb Vec4
	for i, n := range [3]float32{5, 3, 1} {
		k := mod(n+h*6, 6)
		rgb[i] = v - v*s*clamp(math32.Min(k, 4-k), 0, 1)
	}
	return rgb
}
