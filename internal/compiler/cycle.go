package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/soqlgen/internal/schema"
)

// Warning is a non-fatal finding about a schema graph.
type Warning struct {
	Path    []string `json:"path,omitempty"` // cycle path: ["Account", "Account"]
	Message string   `json:"message"`
	Level   string   `json:"level"` // "warning" or "info"
}

// AnalyzeCycles reports relationship cycles in the graph.
//
// Cycles are warnings, not errors: self-lookups such as Account.ParentId
// are normal. They matter because path search and nesting must be bounded
// on such graphs, which the max hop count guarantees.
//
// The algorithm:
//  1. Build object -> child objects from the relationship edges
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1, or a self-loop, as a cycle
//
// Objects and edges are visited in registration order, so the output is
// deterministic.
func AnalyzeCycles(g *schema.Graph) []Warning {
	graph := buildRelationshipGraph(g)

	var warnings []Warning
	for _, scc := range tarjanSCC(graph, graph.nodes) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph))
		}
	}
	return warnings
}

// relationshipGraph maps object name -> child object names.
type relationshipGraph struct {
	nodes []string
	edges map[string][]string
	names map[[2]string]string // (parent, child) -> first relationship name
}

func buildRelationshipGraph(g *schema.Graph) relationshipGraph {
	rg := relationshipGraph{
		edges: make(map[string][]string),
		names: make(map[[2]string]string),
	}
	for _, obj := range g.Objects() {
		rg.nodes = append(rg.nodes, obj.Name)
		rg.edges[obj.Name] = []string{}
	}
	for _, e := range g.Edges() {
		key := [2]string{e.Parent, e.Child}
		if _, dup := rg.names[key]; dup {
			continue
		}
		rg.names[key] = e.Name
		rg.edges[e.Parent] = append(rg.edges[e.Parent], e.Child)
	}
	return rg
}

func hasSelfLoop(node string, graph relationshipGraph) bool {
	for _, neighbor := range graph.edges[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Single-node SCCs without self-loops are NOT cycles.
func tarjanSCC(graph relationshipGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph.edges[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// cycleSCCToWarning converts an SCC to a Warning. The path starts at the
// earliest-registered member of the SCC.
func cycleSCCToWarning(scc []string, graph relationshipGraph) Warning {
	if len(scc) == 1 {
		obj := scc[0]
		return Warning{
			Path:    []string{obj, obj},
			Message: fmt.Sprintf("Self-referencing relationship: %s → %s (%s)", obj, obj, graph.names[[2]string{obj, obj}]),
			Level:   "warning",
		}
	}

	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}
	var start string
	for _, node := range graph.nodes {
		if members[node] {
			start = node
			break
		}
	}

	path := reconstructCyclePath(start, members, graph)
	return Warning{
		Path:    path,
		Message: fmt.Sprintf("Relationship cycle: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// reconstructCyclePath follows edges inside the SCC from start until it
// returns to start.
func reconstructCyclePath(start string, members map[string]bool, graph relationshipGraph) []string {
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph.edges[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
