package schema

import (
	"fmt"
	"slices"

	"github.com/gnames/gnanimal/pkg/dag"
)

// Catalog is a set of modules connected by upstream dependencies.
type Catalog struct {
	order []string
	graph *dag.Graph[*Module]
}

// NewCatalog validates modules and builds their dependency graph.
// Unknown upstream modules and dependency cycles are errors.
func NewCatalog(mods ...*Module) (*Catalog, error) {
	res := &Catalog{graph: dag.New[*Module]()}
	for _, m := range mods {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if res.graph.Has(m.Name) {
			return nil, fmt.Errorf("module %s is declared twice", m.Name)
		}
		res.graph.AddNode(m.Name, m)
		res.order = append(res.order, m.Name)
	}

	for _, m := range mods {
		for _, up := range m.Upstream {
			if err := res.graph.AddEdge(up, m.Name); err != nil {
				return nil, fmt.Errorf("module %s: %w", m.Name, err)
			}
		}
	}

	if hasCycle, path := res.graph.HasCycle(); hasCycle {
		return nil, fmt.Errorf("%w: %v", dag.ErrCycle, path)
	}
	return res, nil
}

// Module returns a module by name.
func (c *Catalog) Module(name string) (*Module, bool) {
	return c.graph.Node(name)
}

// Names returns module names in declaration order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.order)
}

// Upstream returns sorted names of all modules the given module depends
// on, directly or transitively.
func (c *Catalog) Upstream(name string) []string {
	return c.graph.Upstream(name)
}

// ActivationOrder returns the module and all its upstream modules,
// dependencies first. Without a name it returns the order of all modules.
func (c *Catalog) ActivationOrder(name string) ([]string, error) {
	if name == "" {
		return c.graph.TopologicalSort(c.order...)
	}
	if !c.graph.Has(name) {
		return nil, fmt.Errorf("unknown module '%s'", name)
	}
	ids := append(c.graph.Upstream(name), name)
	return c.graph.Subgraph(ids).TopologicalSort(c.order...)
}

// Levels groups modules so that each level depends only on previous ones.
func (c *Catalog) Levels() ([][]string, error) {
	return c.graph.Levels()
}

// Requires returns linking names required by the module and its upstream
// modules, in order of first appearance.
func (c *Catalog) Requires(name string) ([]string, error) {
	order, err := c.ActivationOrder(name)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, v := range order {
		m, _ := c.graph.Node(v)
		for _, r := range m.Requires {
			if !slices.Contains(res, r) {
				res = append(res, r)
			}
		}
	}
	return res, nil
}
