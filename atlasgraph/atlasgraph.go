// Package atlasgraph groups hash sets (typically the hashed tile names of
// map cells) into a forest where every node's parent holds a strict superset
// of its hashes. Cells whose texture usage is covered by a bigger cell can then
// share that cell's atlas.
package atlasgraph

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

var ErrUnknownID = errors.New("pzmap: unknown node id")

const noParent = -1

// Node is a snapshot of one graph node. Parent links are arena indices, so a
// Node stays valid while the graph grows.
type Node struct {
	ID     uint32
	Hashes []uint32 // sorted, without duplicates

	parent int
}

// NewNode returns a detached node with hashes sorted and deduplicated.
func NewNode(id uint32, hashes []uint32) Node {
	sorted := slices.Clone(hashes)
	slices.Sort(sorted)
	return Node{ID: id, Hashes: slices.Compact(sorted), parent: noParent}
}

func (n Node) IsRoot() bool { return n.parent == noParent }

// Contains reports whether other's hashes are a subset of n's hashes. An empty
// node contains nothing, not even another empty node.
func (n Node) Contains(other Node) bool {
	return containsSorted(n.Hashes, other.Hashes)
}

func containsSorted(super, sub []uint32) bool {
	if len(super) == 0 || len(sub) > len(super) {
		return false
	}
	i := 0
	for _, h := range sub {
		for i < len(super) && super[i] < h {
			i++
		}
		if i == len(super) || super[i] != h {
			return false
		}
		i++
	}
	return true
}

type graphConfig struct {
	Logger *slog.Logger
}

type Option func(*graphConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *graphConfig) { c.Logger = logger }
}

// Graph stores nodes in an append-only arena. It is filled with AddNode and
// linked once with Build; it is not safe for concurrent mutation.
type Graph struct {
	logger *slog.Logger
	nodes  []Node
	byID   map[uint32]int
}

func New(opts ...Option) *Graph {
	config := graphConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}
	return &Graph{
		logger: config.Logger,
		byID:   make(map[uint32]int),
	}
}

func (g *Graph) Len() int { return len(g.nodes) }

// AddNode adds a node, or replaces the hashes of an existing node with the same id.
// Parent links are only computed by Build.
func (g *Graph) AddNode(id uint32, hashes []uint32) {
	node := NewNode(id, hashes)
	if idx, exists := g.byID[id]; exists {
		g.nodes[idx] = node
		return
	}
	g.byID[id] = len(g.nodes)
	g.nodes = append(g.nodes, node)
}

// Build links every node to the smallest superset found among the nodes that
// share its smallest hash, visiting candidates by ascending set size and then
// insertion order. It is a heuristic: a smaller superset that does not hold the
// node's smallest hash cannot exist, but among candidates of equal size the
// first one wins.
func (g *Graph) Build() {
	g.logger.Debug("atlasgraph: sort", "nodes", len(g.nodes))
	order := make([]int, len(g.nodes))
	for i := range g.nodes {
		order[i] = i
		g.nodes[i].parent = noParent
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(len(g.nodes[a].Hashes), len(g.nodes[b].Hashes))
	})

	g.logger.Debug("atlasgraph: index")
	buckets := make(map[uint32][]int)
	for _, idx := range order {
		for _, h := range g.nodes[idx].Hashes {
			buckets[h] = append(buckets[h], idx)
		}
	}

	g.logger.Debug("atlasgraph: link")
	linked := 0
	for _, idx := range order {
		node := &g.nodes[idx]
		if len(node.Hashes) == 0 {
			continue
		}
		for _, candidate := range buckets[node.Hashes[0]] {
			parent := &g.nodes[candidate]
			if len(parent.Hashes) <= len(node.Hashes) {
				continue
			}
			if containsSorted(parent.Hashes, node.Hashes) {
				node.parent = candidate
				linked++
				break
			}
		}
	}

	g.logger.Debug("atlasgraph: done", "nodes", len(g.nodes), "roots", len(g.nodes)-linked)
}

// Node returns the node with the given id.
func (g *Graph) Node(id uint32) (Node, bool) {
	idx, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// Parent returns the parent of n, or false for roots.
func (g *Graph) Parent(n Node) (Node, bool) {
	if n.parent == noParent || n.parent >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[n.parent], true
}

// Root follows parent links from n up to its root. The walk is bounded by the
// number of nodes, so a corrupted link cannot loop forever.
func (g *Graph) Root(n Node) Node {
	for range len(g.nodes) {
		parent, ok := g.Parent(n)
		if !ok {
			break
		}
		n = parent
	}
	return n
}

// RootByID returns the root of the tree holding the node with the given id.
func (g *Graph) RootByID(id uint32) (Node, error) {
	node, ok := g.Node(id)
	if !ok {
		return Node{}, fmt.Errorf("%w: %d", ErrUnknownID, id)
	}
	return g.Root(node), nil
}

// Nodes iterates over all nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, node := range g.nodes {
			if !yield(node) {
				return
			}
		}
	}
}

// Roots iterates over nodes without a parent in insertion order.
func (g *Graph) Roots() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, node := range g.nodes {
			if node.IsRoot() && !yield(node) {
				return
			}
		}
	}
}

// RootsCount returns the number of trees in the forest.
func (g *Graph) RootsCount() int {
	count := 0
	for range g.Roots() {
		count++
	}
	return count
}
