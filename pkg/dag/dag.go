// Package dag provides a directed acyclic graph of dependencies with cycle
// detection and deterministic topological sorting. It orders modules for
// activation and tables for creation.
package dag

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrCycle is returned when the graph contains a cycle.
var ErrCycle = errors.New("cycle detected")

// Graph is a directed graph where an edge from parent to child means that
// the child depends on the parent.
type Graph[T any] struct {
	nodes   map[string]T
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		nodes:   make(map[string]T),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph, or updates data of an existing node.
func (g *Graph[T]) AddNode(id string, data T) {
	if _, ok := g.nodes[id]; !ok {
		g.edges[id] = []string{}
		g.parents[id] = []string{}
	}
	g.nodes[id] = data
}

// AddEdge adds a directed edge from parent to child (child depends on
// parent).
func (g *Graph[T]) AddEdge(parentID, childID string) error {
	if _, ok := g.nodes[parentID]; !ok {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, ok := g.nodes[childID]; !ok {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("%w: self-loop at %s", ErrCycle, parentID)
	}

	if !slices.Contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !slices.Contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// Node returns data of a node.
func (g *Graph[T]) Node(id string) (T, bool) {
	res, ok := g.nodes[id]
	return res, ok
}

// Has returns true if the node exists.
func (g *Graph[T]) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Parents returns direct dependencies of a node.
func (g *Graph[T]) Parents(id string) []string {
	return g.parents[id]
}

// Children returns direct dependents of a node.
func (g *Graph[T]) Children(id string) []string {
	return g.edges[id]
}

// Len returns the number of nodes.
func (g *Graph[T]) Len() int {
	return len(g.nodes)
}

// IDs returns sorted ids of all nodes.
func (g *Graph[T]) IDs() []string {
	res := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		res = append(res, id)
	}
	sort.Strings(res)
	return res
}

// HasCycle returns true if the graph contains a cycle, along with the
// cycle path.
func (g *Graph[T]) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.IDs() {
		if !visited[id] && dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// TopologicalSort returns node ids with dependencies before dependents.
// Independent nodes keep the order of the given ids, or alphabetical
// order if no ids are given.
func (g *Graph[T]) TopologicalSort(order ...string) ([]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cyclePath, " -> "))
	}

	ids := order
	if len(ids) == 0 {
		ids = g.IDs()
	}

	visited := make(map[string]bool)
	res := make([]string, 0, len(g.nodes))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		for _, parentID := range g.parents[id] {
			visit(parentID)
		}
		res = append(res, id)
	}

	for _, id := range ids {
		if _, ok := g.nodes[id]; ok {
			visit(id)
		}
	}
	for _, id := range g.IDs() {
		visit(id)
	}
	return res, nil
}

// Levels returns node ids grouped by depth. Level 0 contains nodes
// without dependencies, nodes of level N depend only on lower levels.
func (g *Graph[T]) Levels() ([][]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cyclePath, " -> "))
	}

	assigned := make(map[string]int)
	var getLevel func(id string) int
	getLevel = func(id string) int {
		if level, ok := assigned[id]; ok {
			return level
		}
		var level int
		for _, parentID := range g.parents[id] {
			level = max(level, getLevel(parentID)+1)
		}
		assigned[id] = level
		return level
	}

	var maxLevel int
	for id := range g.nodes {
		maxLevel = max(maxLevel, getLevel(id))
	}

	res := make([][]string, maxLevel+1)
	if len(g.nodes) == 0 {
		return nil, nil
	}
	for id, level := range assigned {
		res[level] = append(res[level], id)
	}
	for i := range res {
		sort.Strings(res[i])
	}
	return res, nil
}

// Upstream returns sorted ids of all transitive dependencies of a node.
func (g *Graph[T]) Upstream(id string) []string {
	upstream := make(map[string]bool)

	var mark func(nodeID string)
	mark = func(nodeID string) {
		for _, parentID := range g.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				mark(parentID)
			}
		}
	}
	mark(id)

	res := make([]string, 0, len(upstream))
	for nodeID := range upstream {
		res = append(res, nodeID)
	}
	sort.Strings(res)
	return res
}

// Subgraph returns a new graph containing only the given nodes and the
// edges between them.
func (g *Graph[T]) Subgraph(ids []string) *Graph[T] {
	res := New[T]()
	set := make(map[string]bool)

	for _, id := range ids {
		if data, ok := g.nodes[id]; ok {
			set[id] = true
			res.AddNode(id, data)
		}
	}

	for id := range set {
		for _, childID := range g.edges[id] {
			if set[childID] {
				_ = res.AddEdge(id, childID)
			}
		}
	}
	return res
}
