package wire

import "testing"

func TestNDIndexVisitsEveryTupleOnceFastestAxis0(t *testing.T) {
	sizes := []int{2, 3}
	idx := NewNDIndex(sizes)

	seen := map[[2]int]bool{}
	count := 0
	for {
		p := idx.Pos()
		key := [2]int{p[0], p[1]}
		if seen[key] {
			t.Fatalf("tuple %v visited twice", key)
		}
		seen[key] = true
		count++
		if !idx.Advance() {
			break
		}
	}
	if count != 6 {
		t.Fatalf("visited %d tuples, want 6", count)
	}
	if len(seen) != 6 {
		t.Fatalf("saw %d distinct tuples, want 6", len(seen))
	}

	// Axis 0 must be fastest-varying: the very first advance increments
	// axis 0, not axis 1.
	idx2 := NewNDIndex(sizes)
	idx2.Advance()
	p := idx2.Pos()
	if p[0] != 1 || p[1] != 0 {
		t.Fatalf("second tuple = %v, want [1 0]", p)
	}
}

func TestNDIndexRemainingSteps(t *testing.T) {
	idx := NewNDIndex([]int{2, 2})
	if idx.RemainingSteps() != 3 {
		t.Fatalf("RemainingSteps() = %d, want 3", idx.RemainingSteps())
	}
	idx.Advance()
	if idx.RemainingSteps() != 2 {
		t.Fatalf("RemainingSteps() after 1 advance = %d, want 2", idx.RemainingSteps())
	}
	for idx.Advance() {
	}
	if idx.RemainingSteps() != -1 {
		t.Fatalf("RemainingSteps() exhausted = %d, want -1", idx.RemainingSteps())
	}
	if !idx.Done() {
		t.Fatal("expected Done() after exhausting all tuples")
	}
}

func TestNDIndexEmptySizesYieldsOneTuple(t *testing.T) {
	idx := NewNDIndex(nil)
	if idx.Total() != 1 {
		t.Fatalf("Total() = %d, want 1", idx.Total())
	}
	if idx.Advance() {
		t.Fatal("expected no further tuple after the single zero-length one")
	}
}
