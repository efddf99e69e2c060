// Package graph holds the mutable block graph model, the dependency resolver that
// schedules instances for code generation and the structural validator.
package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/soypat/glblocks"
)

// Instance is one placed, configured occurrence of a block kind.
type Instance struct {
	// ID is unique within a graph. Uniqueness is the graph owner's responsibility.
	ID     string
	KindID string
	// Inputs maps input port ids to values. Missing or unset entries use the port default.
	Inputs map[string]glblocks.Value
}

// Input returns the value set on port, unset if none.
func (inst *Instance) Input(port string) glblocks.Value {
	return inst.Inputs[port]
}

// Clone returns a deep copy of inst.
func (inst Instance) Clone() Instance {
	inst.Inputs = maps.Clone(inst.Inputs)
	return inst
}

var (
	errNotFound  = errors.New("block not found")
	errDuplicate = errors.New("block id already in graph")
)

// Graph is a mutable, concurrency-safe collection of instances in insertion order.
// Compile a [Graph.Snapshot] to keep editing while generating.
type Graph struct {
	mu     sync.RWMutex
	insts  []Instance
	nextID int
}

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// Add appends a new instance of kindID with no inputs set and returns its fresh id.
func (g *Graph) Add(kindID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var id string
	for {
		g.nextID++
		id = "block-" + strconv.Itoa(g.nextID)
		if g.indexOf(id) < 0 {
			break
		}
	}
	g.insts = append(g.insts, Instance{ID: id, KindID: kindID, Inputs: make(map[string]glblocks.Value)})
	return id
}

// Insert appends a copy of inst. It fails if the id is empty or already present.
func (g *Graph) Insert(inst Instance) error {
	if inst.ID == "" {
		return errors.New("empty block id")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.indexOf(inst.ID) >= 0 {
		return fmt.Errorf("%w: %s", errDuplicate, inst.ID)
	}
	inst = inst.Clone()
	if inst.Inputs == nil {
		inst.Inputs = make(map[string]glblocks.Value)
	}
	g.insts = append(g.insts, inst)
	return nil
}

// Remove deletes the instance with id and unsets every input of other instances
// connected to it. It reports whether the instance existed.
func (g *Graph) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}
	g.insts = slices.Delete(g.insts, idx, idx+1)
	for i := range g.insts {
		maps.DeleteFunc(g.insts[i].Inputs, func(_ string, v glblocks.Value) bool {
			src, _, ok := v.Connection()
			return ok && src == id
		})
	}
	return true
}

// Set assigns v to input port of instance id. Setting an unset Value clears the port.
func (g *Graph) Set(id, port string, v glblocks.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", errNotFound, id)
	}
	if !v.IsSet() {
		delete(g.insts[idx].Inputs, port)
		return nil
	}
	g.insts[idx].Inputs[port] = v
	return nil
}

// Connect wires output srcPort of instance src into input dstPort of instance dst.
// Both instances must exist. Port ids and cycles are checked by validation, not here.
func (g *Graph) Connect(dst, dstPort, src, srcPort string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.indexOf(src) < 0 {
		return fmt.Errorf("%w: %s", errNotFound, src)
	}
	idx := g.indexOf(dst)
	if idx < 0 {
		return fmt.Errorf("%w: %s", errNotFound, dst)
	}
	g.insts[idx].Inputs[dstPort] = glblocks.Connect(src, srcPort)
	return nil
}

// Disconnect clears input dstPort of dst if it holds a connection.
func (g *Graph) Disconnect(dst, dstPort string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	idx := g.indexOf(dst)
	if idx < 0 {
		return fmt.Errorf("%w: %s", errNotFound, dst)
	}
	if g.insts[idx].Inputs[dstPort].Kind() == glblocks.ValueConnection {
		delete(g.insts[idx].Inputs, dstPort)
	}
	return nil
}

// Instance returns a copy of the instance with id.
func (g *Graph) Instance(id string) (Instance, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	idx := g.indexOf(id)
	if idx < 0 {
		return Instance{}, false
	}
	return g.insts[idx].Clone(), true
}

// Len returns the number of instances.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.insts)
}

// Snapshot returns a deep copy of all instances in insertion order.
func (g *Graph) Snapshot() []Instance {
	g.mu.RLock()
	defer g.mu.RUnlock()
	snap := make([]Instance, len(g.insts))
	for i := range g.insts {
		snap[i] = g.insts[i].Clone()
	}
	return snap
}

func (g *Graph) indexOf(id string) int {
	return slices.IndexFunc(g.insts, func(inst Instance) bool { return inst.ID == id })
}
