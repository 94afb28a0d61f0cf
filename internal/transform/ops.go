package transform

import (
	"fmt"
	"sort"

	"github.com/bclonan/sight/internal/grid"
)

// Op is a transform with its parameters bound.
type Op interface {
	Name() string
	Apply(g *grid.Grid) error
}

type ResonanceOp struct {
	Frequency int
}

func (o ResonanceOp) Name() string             { return "resonance" }
func (o ResonanceOp) Apply(g *grid.Grid) error { return Resonance(g, o.Frequency) }

type SpiralOp struct {
	Row, Col, Power int
}

func (o SpiralOp) Name() string             { return "spiral" }
func (o SpiralOp) Apply(g *grid.Grid) error { return Spiral(g, o.Row, o.Col, o.Power) }

type DiffuseOp struct{}

func (DiffuseOp) Name() string             { return "diffuse" }
func (DiffuseOp) Apply(g *grid.Grid) error { return Diffuse(g) }

// Registry builds ops by name from numeric parameters.
type Registry struct {
	ops map[string]func(map[string]int) Op
}

func NewRegistry() *Registry {
	r := &Registry{ops: make(map[string]func(map[string]int) Op)}

	r.ops["resonance"] = func(p map[string]int) Op {
		f, ok := p["frequency"]
		if !ok {
			f = 1
		}
		return ResonanceOp{Frequency: f}
	}
	r.ops["spiral"] = func(p map[string]int) Op {
		power, ok := p["power"]
		if !ok {
			power = 5
		}
		return SpiralOp{Row: p["row"], Col: p["col"], Power: power}
	}
	r.ops["diffuse"] = func(map[string]int) Op { return DiffuseOp{} }

	return r
}

// Get returns the op registered under name with params applied.
// Missing params fall back to defaults (frequency 1, power 5).
func (r *Registry) Get(name string, params map[string]int) (Op, error) {
	fn, ok := r.ops[name]
	if !ok {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs ops in order, stopping at the first failure. Ops before the
// failing one stay applied.
func Apply(g *grid.Grid, ops ...Op) error {
	for i, op := range ops {
		if err := op.Apply(g); err != nil {
			return fmt.Errorf("op %d (%s): %w", i+1, op.Name(), err)
		}
	}
	return nil
}
