// Package netlist groups pairwise pin connections into electrical nets using a
// disjoint-set (union-find) structure.
package netlist

import "fmt"

// PinKey identifies one pin of one placed component.
type PinKey struct {
	Ref string // Reference designator (e.g. "R1")
	Pin string // Pin name within the component symbol
}

// String renders the key as "R1.2".
func (k PinKey) String() string {
	return fmt.Sprintf("%s.%s", k.Ref, k.Pin)
}

// UnionFind tracks pin equivalence classes. Keys are added lazily: the first
// Find or Union on an unseen key creates a singleton class for it.
type UnionFind struct {
	parent map[PinKey]PinKey // Maps pin key to parent pin key
	rank   map[PinKey]int    // Rank for union-by-rank optimization
	order  []PinKey          // Keys in first-seen order
}

// New creates an empty union-find.
func New() *UnionFind {
	return &UnionFind{
		parent: make(map[PinKey]PinKey),
		rank:   make(map[PinKey]int),
	}
}

// Len returns the number of distinct keys seen so far.
func (uf *UnionFind) Len() int {
	return len(uf.order)
}

// Find returns the representative of the class containing key.
// Uses path compression for O(α(n)) amortized time complexity.
func (uf *UnionFind) Find(key PinKey) PinKey {
	if _, ok := uf.parent[key]; !ok {
		uf.parent[key] = key
		uf.rank[key] = 0
		uf.order = append(uf.order, key)
		return key
	}

	root := key
	for uf.parent[root] != root {
		root = uf.parent[root]
	}

	// Path compression: make all nodes on the path point directly to root
	current := key
	for current != root {
		next := uf.parent[current]
		uf.parent[current] = root
		current = next
	}

	return root
}

// Union merges the classes containing a and b.
func (uf *UnionFind) Union(a, b PinKey) {
	rootA := uf.Find(a)
	rootB := uf.Find(b)

	if rootA == rootB {
		return
	}

	// Union by rank
	switch {
	case uf.rank[rootA] < uf.rank[rootB]:
		uf.parent[rootA] = rootB
	case uf.rank[rootA] > uf.rank[rootB]:
		uf.parent[rootB] = rootA
	default:
		uf.parent[rootB] = rootA
		uf.rank[rootA]++
	}
}

// Connected reports whether a and b are in the same class. Unseen keys are
// registered as singletons.
func (uf *UnionFind) Connected(a, b PinKey) bool {
	return uf.Find(a) == uf.Find(b)
}

// Keys returns every key seen so far in first-seen order.
func (uf *UnionFind) Keys() []PinKey {
	keys := make([]PinKey, len(uf.order))
	copy(keys, uf.order)
	return keys
}

// Classes returns all equivalence classes. Classes are ordered by the
// first-seen member of each class and members keep first-seen order, so the
// output is stable for a given sequence of operations.
func (uf *UnionFind) Classes() [][]PinKey {
	index := make(map[PinKey]int)
	var classes [][]PinKey

	for _, key := range uf.order {
		root := uf.Find(key)
		i, ok := index[root]
		if !ok {
			i = len(classes)
			index[root] = i
			classes = append(classes, nil)
		}
		classes[i] = append(classes[i], key)
	}

	return classes
}

// Members returns the keys sharing a class with key, in first-seen order.
func (uf *UnionFind) Members(key PinKey) []PinKey {
	root := uf.Find(key)
	var members []PinKey
	for _, k := range uf.order {
		if uf.Find(k) == root {
			members = append(members, k)
		}
	}
	return members
}
