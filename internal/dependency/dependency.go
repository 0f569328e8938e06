// Package dependency models the output of systemctl list-dependencies as a
// directed graph: an edge A -> B means A pulls in B.
package dependency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// Tree is the dependency graph rooted at one unit.
type Tree struct {
	Root  string
	g     graph.Graph[string, string]
	order map[string]int // first appearance, for stable listing
}

// NewTree creates a tree holding only root.
func NewTree(root string) *Tree {
	t := &Tree{
		Root:  root,
		g:     graph.New(graph.StringHash, graph.Directed()),
		order: make(map[string]int),
	}
	t.addUnit(root)
	return t
}

func (t *Tree) addUnit(name string) {
	if err := t.g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return
	}
	if _, ok := t.order[name]; !ok {
		t.order[name] = len(t.order)
	}
}

// AddDependency records that parent pulls in child.
func (t *Tree) AddDependency(parent, child string) error {
	if parent == "" || child == "" {
		return fmt.Errorf("parent and child must be non-empty")
	}
	if parent == child {
		return fmt.Errorf("self-dependency is not allowed: %s", parent)
	}
	t.addUnit(parent)
	t.addUnit(child)
	if err := t.g.AddEdge(parent, child); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return fmt.Errorf("adding %s -> %s: %w", parent, child, err)
	}
	return nil
}

// Len returns the number of distinct units in the tree, root included.
func (t *Tree) Len() int {
	n, _ := t.g.Order()
	return n
}

func (t *Tree) sorted(m map[string]graph.Edge[string]) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return t.order[out[i]] < t.order[out[j]] })
	return out
}

// Children returns the units name pulls in directly, in listing order.
func (t *Tree) Children(name string) ([]string, error) {
	adj, err := t.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	edges, ok := adj[name]
	if !ok {
		return nil, fmt.Errorf("unknown unit: %s", name)
	}
	return t.sorted(edges), nil
}

// Parents returns the units that pull in name directly, in listing order.
func (t *Tree) Parents(name string) ([]string, error) {
	pred, err := t.g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	edges, ok := pred[name]
	if !ok {
		return nil, fmt.Errorf("unknown unit: %s", name)
	}
	return t.sorted(edges), nil
}

// Depths returns the shortest distance of every unit from the root.
func (t *Tree) Depths() (map[string]int, error) {
	adj, err := t.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	depths := map[string]int{t.Root: 0}
	err = graph.BFS(t.g, t.Root, func(name string) bool {
		for child := range adj[name] {
			if _, seen := depths[child]; !seen {
				depths[child] = depths[name] + 1
			}
		}
		return false
	})
	return depths, err
}

// Walk visits units depth first in listing order. A unit reached again
// through another parent is visited again but not expanded twice along the
// same path.
func (t *Tree) Walk(visit func(name string, depth int)) error {
	adj, err := t.g.AdjacencyMap()
	if err != nil {
		return err
	}
	onPath := make(map[string]bool)
	var walk func(name string, depth int)
	walk = func(name string, depth int) {
		visit(name, depth)
		if onPath[name] {
			return
		}
		onPath[name] = true
		for _, child := range t.sorted(adj[name]) {
			walk(child, depth+1)
		}
		onPath[name] = false
	}
	walk(t.Root, 0)
	return nil
}

// Render draws the tree with two spaces of indent per level.
func (t *Tree) Render() string {
	var b strings.Builder
	_ = t.Walk(func(name string, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(name)
		b.WriteByte('\n')
	})
	return b.String()
}
