package bookstore

import (
	"sort"

	"github.com/Mantas-M/NFTBookRental/model"
)

// Store holds the book records and the id counter. Ids are sequential
// and never reused after deletion. The store has no lock of its own;
// the services serialize every operation through the shared engine
// lock.
type Store struct {
	books  map[int64]*model.Book
	lastID int64
}

func New() *Store {
	return &Store{books: make(map[int64]*model.Book)}
}

// NextID allocates the next sequential id. The counter only moves
// forward, so deleted ids stay retired.
func (s *Store) NextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *Store) Get(id int64) (*model.Book, bool) {
	b, ok := s.books[id]
	return b, ok
}

func (s *Store) Put(b *model.Book) { s.books[b.ID] = b }

func (s *Store) Delete(id int64) { delete(s.books, id) }

// IDs returns every existing id in ascending order. This is the O(n)
// scan the listing queries are built on; fine at this catalog size.
func (s *Store) IDs() []int64 {
	out := make([]int64, 0, len(s.books))
	for id := range s.books {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
