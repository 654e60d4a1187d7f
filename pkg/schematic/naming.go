package schematic

import (
	"sort"
	"strconv"
	"strings"
)

// NetName derives a net's base name from the number of distinct components
// per reference designator prefix: {"R": 2, "Q": 1} gives "net_Q1_R2".
func NetName(counts map[string]int) string {
	prefixes := make([]string, 0, len(counts))
	for p := range counts {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)

	parts := make([]string, len(prefixes))
	for i, p := range prefixes {
		parts[i] = p + strconv.Itoa(counts[p])
	}
	return "net_" + strings.Join(parts, "_")
}

// NameSet hands out unique net names.
type NameSet struct {
	used map[string]struct{}
}

// NewNameSet creates an empty set.
func NewNameSet() *NameSet {
	return &NameSet{used: make(map[string]struct{})}
}

// Assign returns base if unused, otherwise base_1, base_2, ... whichever is
// free first, and marks the result as taken.
func (n *NameSet) Assign(base string) string {
	name := base
	for i := 1; n.Taken(name); i++ {
		name = base + "_" + strconv.Itoa(i)
	}
	n.used[name] = struct{}{}
	return name
}

// Taken reports whether name has been assigned.
func (n *NameSet) Taken(name string) bool {
	_, ok := n.used[name]
	return ok
}
