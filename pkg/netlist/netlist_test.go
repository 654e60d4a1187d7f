package netlist

import (
	"math/rand"
	"sort"
	"strings"
	"testing"
)

func key(ref, pin string) PinKey { return PinKey{Ref: ref, Pin: pin} }

func TestFindCreatesSingleton(t *testing.T) {
	uf := New()

	k := key("R1", "1")
	if root := uf.Find(k); root != k {
		t.Errorf("unseen key should be its own root, got %v", root)
	}
	if uf.Len() != 1 {
		t.Errorf("expected 1 key, got %d", uf.Len())
	}

	// Second lookup must not register it again
	uf.Find(k)
	if uf.Len() != 1 {
		t.Errorf("expected 1 key after repeated Find, got %d", uf.Len())
	}
}

func TestUnion(t *testing.T) {
	uf := New()
	a, b, c := key("Q1", "C"), key("R1", "1"), key("R2", "2")

	uf.Union(a, b)

	if !uf.Connected(a, b) {
		t.Errorf("Q1.C and R1.1 should be connected after Union")
	}
	if uf.Connected(a, c) {
		t.Errorf("R2.2 should still be separate")
	}

	// Transitive: a-b, b-c => a-c
	uf.Union(b, c)
	if !uf.Connected(a, c) {
		t.Errorf("all pins should share a root after transitive union")
	}
}

func TestRedundantConnectionKeepsSingleNet(t *testing.T) {
	uf := New()
	a, b, c := key("A", "pin1"), key("B", "pin2"), key("C", "pin3")

	uf.Union(a, b)
	uf.Union(b, c)
	uf.Union(a, c)

	classes := uf.Classes()
	if len(classes) != 1 {
		t.Fatalf("expected 1 class, got %d: %v", len(classes), classes)
	}
	if len(classes[0]) != 3 {
		t.Errorf("expected 3 members, got %d", len(classes[0]))
	}
}

func TestClassesOrder(t *testing.T) {
	uf := New()
	uf.Union(key("R1", "1"), key("Q1", "C"))
	uf.Union(key("R2", "1"), key("Q2", "C"))
	uf.Union(key("Q2", "C"), key("Q3", "B"))

	classes := uf.Classes()
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}

	if classes[0][0] != key("R1", "1") || classes[0][1] != key("Q1", "C") {
		t.Errorf("first class out of order: %v", classes[0])
	}
	want := []PinKey{key("R2", "1"), key("Q2", "C"), key("Q3", "B")}
	for i, k := range want {
		if classes[1][i] != k {
			t.Errorf("second class[%d] = %v, want %v", i, classes[1][i], k)
		}
	}
}

func TestPartitionIndependentOfOrder(t *testing.T) {
	pairs := [][2]PinKey{
		{key("Q1", "C"), key("R1", "1")},
		{key("Q1", "E"), key("Q2", "C")},
		{key("Q2", "E"), key("Q3", "B")},
		{key("Q3", "C"), key("R2", "1")},
		{key("R2", "2"), key("Q3", "E")},
		{key("R1", "1"), key("Q4", "B")},
		{key("Q5", "E"), key("R2", "2")},
	}

	want := canonical(partition(pairs))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		shuffled := make([][2]PinKey, len(pairs))
		copy(shuffled, pairs)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		// Also flip direction of some declarations
		for j := range shuffled {
			if rng.Intn(2) == 0 {
				shuffled[j][0], shuffled[j][1] = shuffled[j][1], shuffled[j][0]
			}
		}

		if got := canonical(partition(shuffled)); got != want {
			t.Fatalf("permutation %d changed partition:\n got  %s\n want %s", i, got, want)
		}
	}
}

func TestMembers(t *testing.T) {
	uf := New()
	uf.Union(key("A", "1"), key("B", "1"))
	uf.Find(key("C", "1"))

	members := uf.Members(key("B", "1"))
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %v", members)
	}
	if members[0] != key("A", "1") {
		t.Errorf("expected first-seen order, got %v", members)
	}
}

func partition(pairs [][2]PinKey) [][]PinKey {
	uf := New()
	for _, p := range pairs {
		uf.Union(p[0], p[1])
	}
	return uf.Classes()
}

// canonical renders a partition independent of class and member order.
func canonical(classes [][]PinKey) string {
	var rendered []string
	for _, class := range classes {
		var names []string
		for _, k := range class {
			names = append(names, k.String())
		}
		sort.Strings(names)
		rendered = append(rendered, strings.Join(names, ","))
	}
	sort.Strings(rendered)
	return strings.Join(rendered, " | ")
}
