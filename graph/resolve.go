package graph

import (
	"slices"

	"github.com/soypat/glblocks"
)

// CycleError is returned when the dependency graph is not acyclic.
// InstanceID is the instance at which the cycle closed.
type CycleError struct {
	InstanceID string
}

func (e *CycleError) Error() string {
	return "cycle detected at block " + e.InstanceID
}

// visit states of the depth-first search.
const (
	unvisited uint8 = iota
	visiting
	visited
)

// Sort returns instances permuted so every instance appears after all instances it
// depends on through connections. Instances free of constraints keep their relative
// input order so the result is deterministic. A cycle aborts the whole sort.
//
// Only the declared input ports of instances with a resolvable kind are scanned for
// dependencies. Connections to ids absent from instances are ignored here, see [Validate].
func Sort(instances []Instance, catalog glblocks.Catalog) ([]Instance, error) {
	order, err := sortIndices(instances, catalog)
	if err != nil {
		return nil, err
	}
	sorted := make([]Instance, len(order))
	for i, idx := range order {
		sorted[i] = instances[idx]
	}
	return sorted, nil
}

// sortIndices is the index based core of [Sort]. Instances are tracked by position
// so duplicated ids are never dropped; dependencies resolve to the first instance with an id.
func sortIndices(instances []Instance, catalog glblocks.Catalog) ([]int, error) {
	index := indexByID(instances)
	deps := make([][]int, len(instances))
	for i := range instances {
		deps[i] = dependencies(&instances[i], index, catalog)
	}

	type frame struct {
		node int
		next int // next dependency of node to visit.
	}
	state := make([]uint8, len(instances))
	order := make([]int, 0, len(instances))
	var stack []frame
	for root := range instances {
		if state[root] != unvisited {
			continue
		}
		state[root] = visiting
		stack = append(stack[:0], frame{node: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(deps[top.node]) {
				state[top.node] = visited
				order = append(order, top.node)
				stack = stack[:len(stack)-1]
				continue
			}
			dep := deps[top.node][top.next]
			top.next++
			switch state[dep] {
			case visited:
			case visiting:
				return nil, &CycleError{InstanceID: instances[dep].ID}
			default:
				state[dep] = visiting
				stack = append(stack, frame{node: dep})
			}
		}
	}
	return order, nil
}

// dependencies returns the indices of instances inst is connected to, in port declaration
// order without repetition.
func dependencies(inst *Instance, index map[string]int, catalog glblocks.Catalog) []int {
	kind, ok := catalog.Kind(inst.KindID)
	if !ok {
		return nil
	}
	var deps []int
	for _, port := range kind.Inputs {
		src, _, ok := inst.Input(port.ID).Connection()
		if !ok {
			continue
		}
		idx, exists := index[src]
		if !exists {
			continue
		}
		if !slices.Contains(deps, idx) {
			deps = append(deps, idx)
		}
	}
	return deps
}

func indexByID(instances []Instance) map[string]int {
	index := make(map[string]int, len(instances))
	for i := range instances {
		if _, dup := index[instances[i].ID]; !dup {
			index[instances[i].ID] = i
		}
	}
	return index
}
