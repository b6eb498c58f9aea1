package bookstore

import (
	"testing"

	"github.com/Mantas-M/NFTBookRental/model"
)

func TestNextID_Monotonic(t *testing.T) {
	s := New()

	id1 := s.NextID()
	s.Put(&model.Book{ID: id1})
	s.Delete(id1)

	id2 := s.NextID()
	if id2 <= id1 {
		t.Fatalf("id reused: %d after %d", id2, id1)
	}
}

func TestIDs_Ascending(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		id := s.NextID()
		s.Put(&model.Book{ID: id})
	}
	s.Delete(3)

	ids := s.IDs()
	want := []int64{1, 2, 4, 5}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}
