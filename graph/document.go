package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/soypat/glblocks"
	"github.com/tidwall/gjson"
)

// Document is a serialized graph:
//
//	{
//	  "blocks": [
//	    {"id": "c", "type": "circle", "inputs": {"radius": 0.3, "center": [0.5, 0.5]}},
//	    {"id": "col", "type": "colorize", "inputs": {"mask": "c:shape", "color": {"expr": "[1, 0.5, 0]"}}}
//	  ],
//	  "uniforms": {"uSpeed": 2},
//	  "output": "col"
//	}
//
// Input values are numbers, arrays of 2 to 4 numbers, strings ("<id>:<port>" connects,
// anything else is a free variable) or {"expr": "..."} objects evaluated at load time.
type Document struct {
	Instances []Instance
	// Uniforms holds values for free variables when evaluating on the CPU.
	Uniforms map[string]glblocks.Value
	// Output optionally names the instance whose result is written to the output color.
	Output string
}

// exprEnv holds the constants and functions available to {"expr": ...} values
// in addition to the expression language builtins.
var exprEnv = map[string]any{
	"pi":   math.Pi,
	"tau":  2 * math.Pi,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"sqrt": math.Sqrt,
	"pow":  math.Pow,
	"rad":  func(deg float64) float64 { return deg * math.Pi / 180 },
}

// LoadDocument parses a JSON graph document.
func LoadDocument(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("graph document is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	blocks := root.Get("blocks")
	if !blocks.IsArray() {
		return nil, errors.New(`graph document missing "blocks" array`)
	}
	doc := &Document{Output: root.Get("output").String()}
	var err error
	blocks.ForEach(func(key, block gjson.Result) bool {
		inst := Instance{
			ID:     block.Get("id").String(),
			KindID: block.Get("type").String(),
			Inputs: make(map[string]glblocks.Value),
		}
		if inst.ID == "" {
			err = fmt.Errorf("block %d: missing id", key.Int())
			return false
		}
		block.Get("inputs").ForEach(func(port, raw gjson.Result) bool {
			var v glblocks.Value
			v, err = parseJSONValue(raw)
			if err != nil {
				err = fmt.Errorf("block %s input %s: %w", inst.ID, port.String(), err)
				return false
			}
			if v.IsSet() {
				inst.Inputs[port.String()] = v
			}
			return true
		})
		if err != nil {
			return false
		}
		doc.Instances = append(doc.Instances, inst)
		return true
	})
	if err != nil {
		return nil, err
	}
	if uniforms := root.Get("uniforms"); uniforms.Exists() {
		doc.Uniforms = make(map[string]glblocks.Value)
		uniforms.ForEach(func(name, raw gjson.Result) bool {
			var v glblocks.Value
			v, err = parseJSONValue(raw)
			if err == nil && !v.IsLiteral() {
				err = errors.New("must be numeric")
			}
			if err != nil {
				err = fmt.Errorf("uniform %s: %w", name.String(), err)
				return false
			}
			doc.Uniforms[name.String()] = v
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func parseJSONValue(raw gjson.Result) (glblocks.Value, error) {
	switch {
	case raw.Type == gjson.Null:
		return glblocks.Value{}, nil
	case raw.Type == gjson.Number:
		f := float32(raw.Float())
		if isNonFinite(f) {
			return glblocks.Value{}, fmt.Errorf("number %s overflows float32", raw.Raw)
		}
		return glblocks.Float(f), nil
	case raw.Type == gjson.String:
		return glblocks.ParseValue(raw.String()), nil
	case raw.IsArray():
		elems := raw.Array()
		comps := make([]float32, len(elems))
		for i, e := range elems {
			if e.Type != gjson.Number {
				return glblocks.Value{}, fmt.Errorf("vector component %d is not a number", i)
			}
			comps[i] = float32(e.Float())
		}
		return vectorValue(comps)
	case raw.IsObject():
		src := raw.Get("expr")
		if src.Type != gjson.String {
			return glblocks.Value{}, errors.New(`object value requires "expr" string`)
		}
		return evalExpr(src.String())
	}
	return glblocks.Value{}, fmt.Errorf("unsupported value %s", raw.Raw)
}

func vectorValue(comps []float32) (glblocks.Value, error) {
	if len(comps) < 1 || len(comps) > 4 {
		return glblocks.Value{}, fmt.Errorf("vector must have 1 to 4 components, got %d", len(comps))
	}
	for i, c := range comps {
		if isNonFinite(c) {
			return glblocks.Value{}, fmt.Errorf("vector component %d is not finite", i)
		}
	}
	return glblocks.Vector(comps...), nil
}

// isNonFinite reports whether f is an infinity or NaN, neither has a GLSL literal form.
func isNonFinite(f float32) bool {
	return math.IsInf(float64(f), 0) || math.IsNaN(float64(f))
}

// evalExpr evaluates a literal expression such as "pi/4" or "[cos(pi), 0.5]".
func evalExpr(src string) (glblocks.Value, error) {
	out, err := expr.Eval(src, exprEnv)
	if err != nil {
		return glblocks.Value{}, fmt.Errorf("expr %q: %w", src, err)
	}
	switch v := out.(type) {
	case []any:
		comps := make([]float32, len(v))
		for i := range v {
			f, ok := toFloat(v[i])
			if !ok {
				return glblocks.Value{}, fmt.Errorf("expr %q: component %d is %T, not a number", src, i, v[i])
			}
			comps[i] = f
		}
		val, err := vectorValue(comps)
		if err != nil {
			return glblocks.Value{}, fmt.Errorf("expr %q: %w", src, err)
		}
		return val, nil
	default:
		f, ok := toFloat(v)
		if !ok {
			return glblocks.Value{}, fmt.Errorf("expr %q: result %T is not a number", src, out)
		}
		if isNonFinite(f) {
			return glblocks.Value{}, fmt.Errorf("expr %q: result %v is not finite", src, f)
		}
		return glblocks.Float(f), nil
	}
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case float32:
		return n, true
	case int:
		return float32(n), true
	case int64:
		return float32(n), true
	}
	return 0, false
}

type jsonBlock struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	Inputs map[string]any `json:"inputs,omitempty"`
}

type jsonDocument struct {
	Blocks   []jsonBlock    `json:"blocks"`
	Uniforms map[string]any `json:"uniforms,omitempty"`
	Output   string         `json:"output,omitempty"`
}

// MarshalDocument encodes doc in the format read by [LoadDocument].
func MarshalDocument(doc *Document) ([]byte, error) {
	out := jsonDocument{
		Blocks: make([]jsonBlock, len(doc.Instances)),
		Output: doc.Output,
	}
	for i, inst := range doc.Instances {
		blk := jsonBlock{ID: inst.ID, Type: inst.KindID}
		for _, port := range sortedKeys(inst.Inputs) {
			v := inst.Inputs[port]
			if !v.IsSet() {
				continue
			}
			if blk.Inputs == nil {
				blk.Inputs = make(map[string]any)
			}
			blk.Inputs[port] = jsonValue(v)
		}
		out.Blocks[i] = blk
	}
	if len(doc.Uniforms) > 0 {
		out.Uniforms = make(map[string]any, len(doc.Uniforms))
		names := make([]string, 0, len(doc.Uniforms))
		for name := range doc.Uniforms {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out.Uniforms[name] = jsonValue(doc.Uniforms[name])
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

func jsonValue(v glblocks.Value) any {
	switch v.Kind() {
	case glblocks.ValueScalar:
		return v.Scalar()
	case glblocks.ValueVector:
		return v.Components()
	}
	return v.String()
}
