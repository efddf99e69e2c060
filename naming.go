package glblocks

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FunctionName derives the GLSL function name of an instance: the kind name lower-cased
// with all whitespace removed, an underscore and the sanitized instance id.
//
//	FunctionName("Radial Gradient", "a-1") == "radialgradient_a_1"
func FunctionName(kindName, instanceID string) string {
	return functionPrefix(kindName) + "_" + SanitizeID(instanceID)
}

// ResultName derives the GLSL variable name holding an instance's result: the kind name
// lower-cased with words joined by underscores, the sanitized instance id and a _result suffix.
//
//	ResultName("Radial Gradient", "a-1") == "radial_gradient_a_1_result"
func ResultName(kindName, instanceID string) string {
	words := strings.Fields(lower(kindName))
	return strings.Join(words, "_") + "_" + SanitizeID(instanceID) + "_result"
}

// SanitizeID replaces hyphens with underscores since GLSL identifiers forbid them.
func SanitizeID(instanceID string) string {
	return strings.ReplaceAll(instanceID, "-", "_")
}

func functionPrefix(kindName string) string {
	return strings.Join(strings.Fields(lower(kindName)), "")
}

// lower creates a Caser per call, Casers are not safe for concurrent use.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
