package store

import (
	"testing"

	"supportbot/internal/port"
)

func TestMemoryStoreQueryOrdering(t *testing.T) {
	s := NewMemoryStore(2)
	defer s.Close()

	err := s.Upsert([]port.Item{
		{ID: "near", Vector: []float32{1, 0}, Content: "near"},
		{ID: "far", Vector: []float32{0, 1}, Content: "far"},
		{ID: "mid", Vector: []float32{1, 1}, Content: "mid"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	hits, err := s.Query([]float32{1, 0}, 3)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if hits[i].ID != id {
			t.Errorf("hits[%d].ID = %s, want %s", i, hits[i].ID, id)
		}
	}
}

func TestMemoryStoreTruncatesToK(t *testing.T) {
	s := NewMemoryStore(2)

	err := s.Upsert([]port.Item{
		{ID: "a", Vector: []float32{1, 0}},
		{ID: "b", Vector: []float32{0, 1}},
		{ID: "c", Vector: []float32{1, 1}},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	hits, err := s.Query([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("Query() returned %d hits, want 2", len(hits))
	}
}

func TestMemoryStoreClearAndCount(t *testing.T) {
	s := NewMemoryStore(2)

	if err := s.Upsert([]port.Item{{ID: "a", Vector: []float32{1, 0}}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	count, _ := s.Count()
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	count, _ = s.Count()
	if count != 0 {
		t.Errorf("Count() after Clear = %d, want 0", count)
	}
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	s := NewMemoryStore(3)

	if err := s.Upsert([]port.Item{{ID: "a", Vector: []float32{1, 0}}}); err == nil {
		t.Error("Upsert() with wrong dimension should fail")
	}
	if _, err := s.Query([]float32{1, 0}, 1); err == nil {
		t.Error("Query() with wrong dimension should fail")
	}
}
