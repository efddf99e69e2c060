package graph

import (
	"errors"
	"sort"

	"github.com/soypat/glblocks"
)

// ProblemCode classifies a structural problem found by [ValidateProblems].
type ProblemCode uint8

const (
	ProblemCycle ProblemCode = iota + 1
	ProblemUnknownKind
	ProblemMissingBlock
	ProblemMissingOutput
	ProblemDuplicateID
	ProblemUnknownInput
	ProblemIdentifierCollision
)

func (c ProblemCode) String() string {
	switch c {
	case ProblemCycle:
		return "cycle"
	case ProblemUnknownKind:
		return "unknown-kind"
	case ProblemMissingBlock:
		return "missing-block"
	case ProblemMissingOutput:
		return "missing-output"
	case ProblemDuplicateID:
		return "duplicate-id"
	case ProblemUnknownInput:
		return "unknown-input"
	case ProblemIdentifierCollision:
		return "identifier-collision"
	}
	return "unknown"
}

// Problem is a structural graph problem. Fields not relevant to Code are empty.
type Problem struct {
	Code ProblemCode
	// Instance is the offending instance id. For cycles it is the instance where the cycle closed.
	Instance string
	// Port is the input port holding the offending value.
	Port string
	// Target and TargetPort identify the referenced instance and output port.
	Target     string
	TargetPort string
	// Kind is the unresolved kind id for ProblemUnknownKind.
	Kind string
	// Identifier is the GLSL identifier claimed by both Target and Instance for ProblemIdentifierCollision.
	Identifier string
}

// String returns the human readable message for p.
func (p Problem) String() string {
	switch p.Code {
	case ProblemCycle:
		return (&CycleError{InstanceID: p.Instance}).Error()
	case ProblemUnknownKind:
		return "invalid block type: " + p.Kind
	case ProblemMissingBlock:
		return "block " + p.Instance + " input " + p.Port + " references non-existent block " + p.Target
	case ProblemMissingOutput:
		return "block " + p.Instance + " input " + p.Port + " references non-existent output " + p.TargetPort + " on block " + p.Target
	case ProblemDuplicateID:
		return "duplicate block id: " + p.Instance
	case ProblemUnknownInput:
		return "block " + p.Instance + " sets unknown input " + p.Port
	case ProblemIdentifierCollision:
		return "blocks " + p.Target + " and " + p.Instance + " both generate identifier " + p.Identifier
	}
	return "unknown problem in block " + p.Instance
}

// Validate checks the structural integrity of instances and returns one message per
// problem found, an empty result means the graph is valid. It never stops at the first problem.
func Validate(instances []Instance, catalog glblocks.Catalog) []string {
	problems := ValidateProblems(instances, catalog)
	msgs := make([]string, len(problems))
	for i := range problems {
		msgs[i] = problems[i].String()
	}
	return msgs
}

// ValidateProblems is like [Validate] but returns structured problems.
// Port type compatibility between connected ports is not checked.
func ValidateProblems(instances []Instance, catalog glblocks.Catalog) []Problem {
	var problems []Problem
	_, err := sortIndices(instances, catalog)
	var cycle *CycleError
	if errors.As(err, &cycle) {
		problems = append(problems, Problem{Code: ProblemCycle, Instance: cycle.InstanceID})
	}

	index := make(map[string]int, len(instances))
	for i := range instances {
		inst := &instances[i]
		if _, dup := index[inst.ID]; dup {
			problems = append(problems, Problem{Code: ProblemDuplicateID, Instance: inst.ID})
		} else {
			index[inst.ID] = i
		}
	}

	idents := make(map[string]string, 2*len(instances))
	for i := range instances {
		inst := &instances[i]
		kind, ok := catalog.Kind(inst.KindID)
		if !ok {
			problems = append(problems, Problem{Code: ProblemUnknownKind, Instance: inst.ID, Kind: inst.KindID})
			continue
		}
		for _, ident := range [2]string{kind.FunctionName(inst.ID), kind.ResultName(inst.ID)} {
			other, taken := idents[ident]
			switch {
			case !taken:
				idents[ident] = inst.ID
			case other != inst.ID: // Equal ids are reported as duplicates.
				problems = append(problems, Problem{Code: ProblemIdentifierCollision, Instance: inst.ID, Target: other, Identifier: ident})
			}
		}
		for _, port := range kind.Inputs {
			src, srcPort, ok := inst.Input(port.ID).Connection()
			if !ok {
				continue
			}
			srcIdx, exists := index[src]
			if !exists {
				problems = append(problems, Problem{Code: ProblemMissingBlock, Instance: inst.ID, Port: port.ID, Target: src})
				continue
			}
			srcKind, ok := catalog.Kind(instances[srcIdx].KindID)
			if !ok {
				continue // Reported as unknown kind of the source instance.
			}
			if _, ok := srcKind.Output(srcPort); !ok {
				problems = append(problems, Problem{Code: ProblemMissingOutput, Instance: inst.ID, Port: port.ID, Target: src, TargetPort: srcPort})
			}
		}
		for _, port := range sortedKeys(inst.Inputs) {
			if _, declared := kind.Input(port); !declared {
				problems = append(problems, Problem{Code: ProblemUnknownInput, Instance: inst.ID, Port: port})
			}
		}
	}
	return problems
}

func sortedKeys(m map[string]glblocks.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
