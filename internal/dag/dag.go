// SPDX-License-Identifier: MPL-2.0

// Package dag orders named nodes so that every node comes after the nodes it
// depends on. The task pipeline uses it to turn DependsOn declarations into
// an execution order.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the sentinel wrapped by CycleError.
var ErrCycle = errors.New("dependency cycle")

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle lists the nodes left unordered, in insertion order. It contains
		// every node on a cycle and the nodes that depend on one.
		Cycle []string
	}

	// Graph is a directed graph for topological sorting. An edge from A to B
	// means A must complete before B starts.
	Graph struct {
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order for deterministic output.
		nodes []string
		index map[string]int
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among: %s", strings.Join(e.Cycle, ", "))
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error { return ErrCycle }

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		index:     make(map[string]int),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if _, ok := g.index[name]; ok {
		return
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, name)
}

// Has reports whether name was added.
func (g *Graph) Has(name string) bool {
	_, ok := g.index[name]
	return ok
}

// AddEdge adds a directed edge from -> to, meaning "from" must run before "to".
// Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// TopologicalSort returns an order in which every node follows its
// predecessors. Among nodes that are ready at the same time, the one added
// first wins, so a graph without edges sorts to insertion order.
// Returns CycleError if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make([]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[g.index[neighbor]]++
		}
	}

	done := make([]bool, len(g.nodes))
	result := make([]string, 0, len(g.nodes))
	for len(result) < len(g.nodes) {
		next := -1
		for i := range g.nodes {
			if !done[i] && inDegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		done[next] = true
		result = append(result, g.nodes[next])
		for _, neighbor := range g.adjacency[g.nodes[next]] {
			inDegree[g.index[neighbor]]--
		}
	}

	if len(result) != len(g.nodes) {
		var cycleNodes []string
		for i, node := range g.nodes {
			if !done[i] {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
