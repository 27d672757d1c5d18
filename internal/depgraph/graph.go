package depgraph

import (
	"sort"
	"strconv"
	"strings"
)

const (
	white uint8 = iota
	gray
	black
)

// Graph is a directed graph over tool names. Nodes are indices into an
// arena; adjacency lists hold indices, not names.
type Graph struct {
	names []string
	index map[string]int
	adj   [][]int
}

// NewGraph builds a graph from the edges whose confidence is at least floor.
// Parallel edges between the same pair of tools collapse into one.
func NewGraph(deps []Dependency, floor float64) *Graph {
	g := &Graph{index: make(map[string]int)}

	var kept []Dependency
	for _, d := range deps {
		if d.Confidence >= floor {
			kept = append(kept, d)
		}
	}
	var names []string
	seen := make(map[string]bool)
	for _, d := range kept {
		for _, n := range []string{d.FromTool, d.ToTool} {
			if k := strings.ToLower(n); !seen[k] {
				seen[k] = true
				names = append(names, n)
			}
		}
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })
	for _, n := range names {
		g.addNode(n)
	}

	for _, d := range kept {
		g.addEdge(g.index[strings.ToLower(d.FromTool)], g.index[strings.ToLower(d.ToTool)])
	}
	for _, list := range g.adj {
		sort.Ints(list)
	}
	return g
}

func (g *Graph) addNode(name string) int {
	i := len(g.names)
	g.names = append(g.names, name)
	g.index[strings.ToLower(name)] = i
	g.adj = append(g.adj, nil)
	return i
}

func (g *Graph) addEdge(from, to int) {
	for _, v := range g.adj[from] {
		if v == to {
			return
		}
	}
	g.adj[from] = append(g.adj[from], to)
}

// Len is the number of nodes.
func (g *Graph) Len() int { return len(g.names) }

// HasEdge reports whether an edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool {
	i, ok := g.index[strings.ToLower(from)]
	if !ok {
		return false
	}
	j, ok := g.index[strings.ToLower(to)]
	if !ok {
		return false
	}
	for _, v := range g.adj[i] {
		if v == j {
			return true
		}
	}
	return false
}

// FindCycles runs a depth-first search with white/gray/black colouring.
// Every back edge closes the cycle held on the recursion stack. Cycles are
// returned as tool-name paths (without repeating the first node) rotated to
// start at their smallest node, deduplicated, in discovery order.
func (g *Graph) FindCycles() [][]string {
	n := len(g.names)
	color := make([]uint8, n)
	pos := make([]int, n)
	stack := make([]int, 0, n)
	seen := make(map[string]bool)
	var cycles [][]string

	var visit func(u int)
	visit = func(u int) {
		color[u] = gray
		pos[u] = len(stack)
		stack = append(stack, u)
		for _, v := range g.adj[u] {
			switch color[v] {
			case white:
				visit(v)
			case gray:
				cycle := canonicalRotation(stack[pos[v]:])
				key := cycleKey(cycle)
				if !seen[key] {
					seen[key] = true
					path := make([]string, len(cycle))
					for i, idx := range cycle {
						path[i] = g.names[idx]
					}
					cycles = append(cycles, path)
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = black
	}

	for u := 0; u < n; u++ {
		if color[u] == white {
			visit(u)
		}
	}
	return cycles
}

// HasCycle reports whether any directed cycle exists.
func (g *Graph) HasCycle() bool {
	return len(g.FindCycles()) > 0
}

func canonicalRotation(cycle []int) []int {
	start := 0
	for i, v := range cycle {
		if v < cycle[start] {
			start = i
		}
	}
	out := make([]int, 0, len(cycle))
	out = append(out, cycle[start:]...)
	out = append(out, cycle[:start]...)
	return out
}

func cycleKey(cycle []int) string {
	var b strings.Builder
	for _, v := range cycle {
		b.WriteString(strconv.Itoa(v))
		b.WriteByte(',')
	}
	return b.String()
}
