package database

import (
	"fmt"
	"testing"
)

func makeEntries(n int) []VectorEntry {
	entries := make([]VectorEntry, n)
	for i := range entries {
		entries[i] = VectorEntry{ID: fmt.Sprintf("doc.pdf:chunk_%d", i)}
	}
	return entries
}

func TestSplitBatches(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		size      int
		wantSizes []int
	}{
		{"empty", 0, 100, nil},
		{"single partial batch", 42, 100, []int{42}},
		{"exact multiple", 200, 100, []int{100, 100}},
		{"trailing partial batch", 250, 100, []int{100, 100, 50}},
		{"size one", 3, 1, []int{1, 1, 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			batches := splitBatches(makeEntries(tc.total), tc.size)
			if len(batches) != len(tc.wantSizes) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tc.wantSizes))
			}
			seen := 0
			for i, batch := range batches {
				if len(batch) != tc.wantSizes[i] {
					t.Errorf("batch %d has %d entries, want %d", i, len(batch), tc.wantSizes[i])
				}
				for _, entry := range batch {
					want := fmt.Sprintf("doc.pdf:chunk_%d", seen)
					if entry.ID != want {
						t.Errorf("entry out of order: got %s, want %s", entry.ID, want)
					}
					seen++
				}
			}
			if seen != tc.total {
				t.Errorf("batches cover %d entries, want %d", seen, tc.total)
			}
		})
	}
}

func TestSplitBatchesInvalidSize(t *testing.T) {
	if got := splitBatches(makeEntries(5), 0); got != nil {
		t.Errorf("expected nil for size 0, got %v", got)
	}
}
