package spatial

import "testing"

func TestRebuildAndQueryRadius(t *testing.T) {
	g := NewGrid(320, 320, 32, 16)
	ids := []uint32{1, 2, 3}
	xs := []float64{10, 10, 300}
	ys := []float64{10, 12, 300}
	g.Rebuild(ids, xs, ys)

	var found []uint32
	g.ForEachInRadius(10, 10, 40, func(id uint32) { found = append(found, id) })

	if len(found) != 2 {
		t.Fatalf("expected 2 candidates near (10,10), got %v", found)
	}
}

func TestRebuildDeterministicOrder(t *testing.T) {
	g := NewGrid(64, 64, 32, 8)
	ids := []uint32{5, 1, 3}
	xs := []float64{5, 6, 7}
	ys := []float64{5, 6, 7}
	g.Rebuild(ids, xs, ys)

	var order []uint32
	g.ForEachInRadius(0, 0, 64, func(id uint32) { order = append(order, id) })

	if len(order) != 3 || order[0] != 5 || order[1] != 1 || order[2] != 3 {
		t.Fatalf("expected insertion order [5 1 3], got %v", order)
	}
}

func TestQueryRadiusIsSuperset(t *testing.T) {
	g := NewGrid(200, 200, 25, 32)
	ids := []uint32{0, 1, 2, 3}
	xs := []float64{0, 50, 100, 199}
	ys := []float64{0, 50, 100, 199}
	g.Rebuild(ids, xs, ys)

	results := g.QueryRadius(55, 55, 20)
	seen := map[uint32]bool{}
	for _, id := range results {
		seen[id] = true
	}
	if !seen[1] {
		t.Fatal("entity within radius must appear in results")
	}
}
