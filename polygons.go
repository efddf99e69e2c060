package glblocks

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

const (
	tribisect = 0.8660254037844386467637231707529361834714026269051903140279034897
	sqrt3     = 1.7320508075688772935274463415058723669428052538103806280558069794
)

// polygonKinds are regular polygon masks built on exact signed distance functions.
// Radius is the apothem for the hexagon and octagon and the height for the triangle.
func polygonKinds() []BlockKind {
	polyInputs := func(radius float32) []PortSpec {
		return []PortSpec{
			uvInput(),
			vec2In("center", "Center", 0.5, 0.5),
			floatIn("radius", "Radius", radius),
			floatIn("softness", "Softness", 0.01),
		}
	}
	return []BlockKind{
		{
			ID:          "hexagon",
			Name:        "Hexagon",
			Category:    CategoryShape,
			Description: "Regular hexagon mask with flat top and bottom edges.",
			Template: `float hexagon_{{id}}(vec2 uv, vec2 center, float radius, float softness) {
    const vec3 k = vec3(-0.8660254038, 0.5, 0.577350269);
    vec2 p = abs(uv - center);
    p -= 2.0*min(dot(k.xy, p), 0.0)*k.xy;
    p -= vec2(clamp(p.x, -k.z*radius, k.z*radius), radius);
    float d = length(p)*sign(p.y);
    return 1.0 - smoothstep(-softness, softness, d);
}
`,
			Inputs:  polyInputs(0.25),
			Outputs: out("shape", "Shape", TypeFloat),
			Eval:    evalHexagon,
		},
		{
			ID:          "octagon",
			Name:        "Octagon",
			Category:    CategoryShape,
			Description: "Regular octagon mask.",
			Template: `float octagon_{{id}}(vec2 uv, vec2 center, float radius, float softness) {
    const vec3 k = vec3(-0.9238795325, 0.3826834323, 0.4142135623);
    vec2 p = abs(uv - center);
    p -= 2.0*min(dot(vec2(k.x, k.y), p), 0.0)*vec2(k.x, k.y);
    p -= 2.0*min(dot(vec2(-k.x, k.y), p), 0.0)*vec2(-k.x, k.y);
    p -= vec2(clamp(p.x, -k.z*radius, k.z*radius), radius);
    float d = length(p)*sign(p.y);
    return 1.0 - smoothstep(-softness, softness, d);
}
`,
			Inputs:  polyInputs(0.25),
			Outputs: out("shape", "Shape", TypeFloat),
			Eval:    evalOctagon,
		},
		{
			ID:          "triangle",
			Name:        "Triangle",
			Category:    CategoryShape,
			Description: "Equilateral triangle mask pointing up, radius is its height.",
			Template: `float triangle_{{id}}(vec2 uv, vec2 center, float radius, float softness) {
    const float k = 1.7320508076;
    float h = radius / k;
    vec2 p = uv - center;
    p.x = abs(p.x) - h;
    p.y = p.y + h/k;
    if (p.x + k*p.y > 0.0) p = vec2(p.x - k*p.y, -k*p.x - p.y)/2.0;
    p.x -= clamp(p.x, -2.0*h, 0.0);
    float d = -length(p)*sign(p.y);
    return 1.0 - smoothstep(-softness, softness, d);
}
`,
			Inputs:  polyInputs(0.4),
			Outputs: out("shape", "Shape", TypeFloat),
			Eval:    evalTriangle,
		},
	}
}

func evalHexagon(_ *Env, args []Vec4) Vec4 {
	uv, center, r, soft := args[0].XY(), args[1].XY(), args[2][0], args[3][0]
	k := ms2.Vec{X: -tribisect, Y: 0.5}
	const kz = 0.577350269
	p := ms2.AbsElem(ms2.Sub(uv, center))
	p = ms2.Sub(p, ms2.Scale(2*math32.Min(ms2.Dot(k, p), 0), k))
	p = ms2.Sub(p, ms2.Vec{X: clamp(p.X, -kz*r, kz*r), Y: r})
	d := sign(p.Y) * ms2.Norm(p)
	return F(1 - smoothstep(-soft, soft, d))
}

func evalOctagon(_ *Env, args []Vec4) Vec4 {
	const kx, ky, kz = -0.9238795325, 0.3826834323, 0.4142135623
	uv, center, r, soft := args[0].XY(), args[1].XY(), args[2][0], args[3][0]
	v1 := ms2.Vec{X: kx, Y: ky}
	v2 := ms2.Vec{X: -kx, Y: ky}
	p := ms2.AbsElem(ms2.Sub(uv, center))
	p = ms2.Sub(p, ms2.Scale(2*math32.Min(ms2.Dot(v1, p), 0), v1))
	p = ms2.Sub(p, ms2.Scale(2*math32.Min(ms2.Dot(v2, p), 0), v2))
	p = ms2.Sub(p, ms2.Vec{X: clamp(p.X, -kz*r, kz*r), Y: r})
	d := sign(p.Y) * ms2.Norm(p)
	return F(1 - smoothstep(-soft, soft, d))
}

func evalTriangle(_ *Env, args []Vec4) Vec4 {
	const k = sqrt3
	uv, center, height, soft := args[0].XY(), args[1].XY(), args[2][0], args[3][0]
	h := height / k
	p := ms2.Sub(uv, center)
	p.X = math32.Abs(p.X) - h
	p.Y += h / k
	if p.X+k*p.Y > 0 {
		p = ms2.Scale(0.5, ms2.Vec{X: p.X - k*p.Y, Y: -k*p.X - p.Y})
	}
	p.X -= clamp(p.X, -2*h, 0)
	d := -ms2.Norm(p) * sign(p.Y)
	return F(1 - smoothstep(-soft, soft, d))
}

// sign matches GLSL sign, zero for zero.
func sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
