package glblocks

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

func patternKinds() []BlockKind {
	return []BlockKind{
		{
			ID:          "stripes",
			Name:        "Stripes",
			Category:    CategoryPattern,
			Description: "Sinusoidal stripes along a direction.",
			Template: `float stripes_{{id}}(vec2 uv, float frequency, float angle) {
    vec2 dir = vec2(cos(angle), sin(angle));
    return 0.5 + 0.5 * sin(dot(uv, dir) * frequency * 6.2831853);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				floatIn("frequency", "Frequency", 10),
				floatIn("angle", "Angle", 0),
			},
			Outputs: out("pattern", "Pattern", TypeFloat),
			Eval:    evalStripes,
		},
		{
			ID:          "checker",
			Name:        "Checker",
			Category:    CategoryPattern,
			Description: "Checkerboard of 0 and 1 cells.",
			Template: `float checker_{{id}}(vec2 uv, float scale) {
    vec2 c = floor(uv * scale);
    return mod(c.x + c.y, 2.0);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				floatIn("scale", "Scale", 8),
			},
			Outputs: out("pattern", "Pattern", TypeFloat),
			Eval:    evalChecker,
		},
		{
			ID:          "noise",
			Name:        "Value Noise",
			Category:    CategoryPattern,
			Description: "Smoothly interpolated hash noise.",
			Template: `float valuenoise_{{id}}(vec2 uv, float scale) {
    vec2 p = uv * scale;
    vec2 i = floor(p);
    vec2 f = fract(p);
    vec2 u = f * f * (3.0 - 2.0 * f);
    float a = fract(sin(dot(i, vec2(12.9898, 78.233))) * 43758.5453);
    float b = fract(sin(dot(i + vec2(1.0, 0.0), vec2(12.9898, 78.233))) * 43758.5453);
    float c = fract(sin(dot(i + vec2(0.0, 1.0), vec2(12.9898, 78.233))) * 43758.5453);
    float d = fract(sin(dot(i + vec2(1.0, 1.0), vec2(12.9898, 78.233))) * 43758.5453);
    return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				floatIn("scale", "Scale", 10),
			},
			Outputs: out("pattern", "Pattern", TypeFloat),
			Eval:    evalNoise,
		},
		{
			ID:          "radial",
			Name:        "Radial Gradient",
			Category:    CategoryPattern,
			Description: "1 at center fading linearly to 0 at radius.",
			Template: `float radialgradient_{{id}}(vec2 uv, vec2 center, float radius) {
    return 1.0 - clamp(length(uv - center) / radius, 0.0, 1.0);
}
`,
			Inputs: []PortSpec{
				uvInput(),
				vec2In("center", "Center", 0.5, 0.5),
				floatIn("radius", "Radius", 0.5),
			},
			Outputs: out("pattern", "Pattern", TypeFloat),
			Eval:    evalRadial,
		},
	}
}

func evalStripes(_ *Env, args []Vec4) Vec4 {
	uv, freq, angle := args[0].XY(), args[1][0], args[2][0]
	s, c := math32.Sincos(angle)
	t := ms2.Dot(uv, ms2.Vec{X: c, Y: s})
	return F(0.5 + 0.5*math32.Sin(t*freq*2*math32.Pi))
}

func evalChecker(_ *Env, args []Vec4) Vec4 {
	uv, scale := args[0].XY(), args[1][0]
	cx := math32.Floor(uv.X * scale)
	cy := math32.Floor(uv.Y * scale)
	return F(mod(cx+cy, 2))
}

func hash21(p ms2.Vec) float32 {
	return fract(math32.Sin(ms2.Dot(p, ms2.Vec{X: 12.9898, Y: 78.233})) * 43758.5453)
}

func evalNoise(_ *Env, args []Vec4) Vec4 {
	uv, scale := args[0].XY(), args[1][0]
	p := ms2.Scale(scale, uv)
	i := ms2.Vec{X: math32.Floor(p.X), Y: math32.Floor(p.Y)}
	f := ms2.Sub(p, i)
	ux := f.X * f.X * (3 - 2*f.X)
	uy := f.Y * f.Y * (3 - 2*f.Y)
	a := hash21(i)
	b := hash21(ms2.Add(i, ms2.Vec{X: 1}))
	c := hash21(ms2.Add(i, ms2.Vec{Y: 1}))
	d := hash21(ms2.Add(i, ms2.Vec{X: 1, Y: 1}))
	return F(mix(mix(a, b, ux), mix(c, d, ux), uy))
}

func evalRadial(_ *Env, args []Vec4) Vec4 {
	uv, center, radius := args[0].XY(), args[1].XY(), args[2][0]
	return F(1 - clamp(ms2.Norm(ms2.Sub(uv, center))/radius, 0, 1))
}
