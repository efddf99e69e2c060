package glblocks

// Blend templates are written over {{T}}, one monomorphized copy is emitted per instance.
func blendKinds() []BlockKind {
	return []BlockKind{
		{
			ID:          "mix",
			Name:        "Mix",
			Category:    CategoryBlend,
			Description: "Linear interpolation between a and b.",
			Template: `{{T}} mix_{{id}}({{T}} a, {{T}} b, float t) {
    return mix(a, b, t);
}
`,
			Inputs: []PortSpec{
				vec3In("a", "A", 0, 0, 0),
				vec3In("b", "B", 1, 1, 1),
				floatIn("t", "Factor", 0.5),
			},
			Outputs: out("result", "Result", TypeVec3),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				t := args[2][0]
				return componentwise(args[0], args[1], func(a, b float32) float32 { return mix(a, b, t) })
			},
		},
		{
			ID:          "multiply",
			Name:        "Multiply",
			Category:    CategoryBlend,
			Description: "Component-wise product.",
			Template: `{{T}} multiply_{{id}}({{T}} a, {{T}} b) {
    return a * b;
}
`,
			Inputs: []PortSpec{
				vec3In("a", "A", 1, 1, 1),
				vec3In("b", "B", 1, 1, 1),
			},
			Outputs: out("result", "Result", TypeVec3),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				return componentwise(args[0], args[1], func(a, b float32) float32 { return a * b })
			},
		},
		{
			ID:          "screen",
			Name:        "Screen",
			Category:    CategoryBlend,
			Description: "Screen blend, the inverse of multiplying inverses.",
			Template: `{{T}} screen_{{id}}({{T}} a, {{T}} b) {
    return 1.0 - (1.0 - a) * (1.0 - b);
}
`,
			Inputs: []PortSpec{
				vec3In("a", "A", 0, 0, 0),
				vec3In("b", "B", 0, 0, 0),
			},
			Outputs: out("result", "Result", TypeVec3),
			Eval: func(_ *Env, args []Vec4) Vec4 {
				return componentwise(args[0], args[1], func(a, b float32) float32 { return 1 - (1-a)*(1-b) })
			},
		},
	}
}
