package cset

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	s := New[string]()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if len(s.shards) != DefaultShardCount {
		t.Errorf("shard count = %d, want %d", len(s.shards), DefaultShardCount)
	}
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{2, 2},
		{8, 8},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			s := NewWithShards[string](tt.input)
			if s.ShardCount() != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, s.ShardCount(), tt.expected)
			}
		})
	}
}

func TestAddRemoveContains(t *testing.T) {
	s := New[string]()

	if !s.Add("a") {
		t.Error("Add(a) on empty set should return true")
	}
	if s.Add("a") {
		t.Error("Add(a) twice should return false")
	}
	if !s.Contains("a") {
		t.Error("Contains(a) should return true")
	}
	if s.Contains("b") {
		t.Error("Contains(b) should return false")
	}
	if !s.Remove("a") {
		t.Error("Remove(a) should return true")
	}
	if s.Remove("a") {
		t.Error("Remove(a) twice should return false")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestAddAll(t *testing.T) {
	s := New[int]()
	if n := s.AddAll(1, 2, 3, 2, 1); n != 3 {
		t.Errorf("AddAll() = %d, want 3", n)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestClear(t *testing.T) {
	s := New[int]()
	s.AddAll(1, 2, 3)
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() after Clear() = %d, want 0", s.Len())
	}
}

func TestStructMembers(t *testing.T) {
	type point struct{ X, Y int }

	s := New[point]()
	s.Add(point{1, 2})
	s.Add(point{1, 2})
	s.Add(point{3, 4})

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Contains(point{3, 4}) {
		t.Error("Contains({3 4}) should return true")
	}
}

func TestStats(t *testing.T) {
	s := NewWithShards[int](4)
	for i := 0; i < 100; i++ {
		s.Add(i)
	}

	stats := s.Stats()
	if len(stats) != 4 {
		t.Errorf("Stats() length = %d, want 4", len(stats))
	}

	total := 0
	for _, st := range stats {
		total += st.Count
	}
	if total != 100 {
		t.Errorf("total count from stats = %d, want 100", total)
	}
}

func TestToSlice(t *testing.T) {
	s := New[string]()
	s.AddAll("x", "y", "z")

	got := s.ToSlice()
	if len(got) != 3 || cap(got) != 3 {
		t.Fatalf("ToSlice() len/cap = %d/%d, want 3/3", len(got), cap(got))
	}
	sort.Strings(got)
	for i, want := range []string{"x", "y", "z"} {
		if got[i] != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want)
		}
	}
}

func TestToSlice_Empty(t *testing.T) {
	got := New[int]().ToSlice()
	if got == nil || len(got) != 0 {
		t.Errorf("ToSlice() on empty set = %#v, want empty non-nil slice", got)
	}
}

func TestCopyInto(t *testing.T) {
	s := New[string]()
	s.AddAll("a", "b")

	dst := []string{"?", "?", "?", "?", "?"}
	got := s.CopyInto(dst)
	if len(got) != 2 {
		t.Fatalf("CopyInto() len = %d, want 2", len(got))
	}
	if &got[0] != &dst[0] {
		t.Error("CopyInto() should reuse an oversized destination")
	}
	if dst[2] != "" {
		t.Errorf("dst[2] = %q, want end marker", dst[2])
	}
	if dst[3] != "?" || dst[4] != "?" {
		t.Errorf("slots past the end marker changed: %q", dst)
	}

	small := []string{"?"}
	got = s.CopyInto(small)
	if len(got) != 2 {
		t.Fatalf("CopyInto(small) len = %d, want 2", len(got))
	}
	if small[0] != "?" {
		t.Errorf("undersized destination modified: %q", small)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New[int]()
	var wg sync.WaitGroup
	numGoroutines := 50
	numOps := 500

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				s.Add(base*numOps + j)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != numGoroutines*numOps {
		t.Errorf("Len() = %d, want %d", s.Len(), numGoroutines*numOps)
	}
}
