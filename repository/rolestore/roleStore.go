package rolestore

import (
	"sort"

	"github.com/Mantas-M/NFTBookRental/model"
)

// Escrow records the fee held for the live request/role on a book and
// who funded it. Releases must target the funder, never the caller.
type Escrow struct {
	Funder model.AccountID
	Amount float64
}

// Store holds rental roles and escrowed fees per book id. Like the
// book store it carries no lock; callers serialize through the engine
// lock.
type Store struct {
	roles  map[int64]model.RentalRole
	escrow map[int64]Escrow
}

func New() *Store {
	return &Store{
		roles:  make(map[int64]model.RentalRole),
		escrow: make(map[int64]Escrow),
	}
}

// Role returns the stored role, or the zero role when none is set.
func (s *Store) Role(id int64) model.RentalRole { return s.roles[id] }

func (s *Store) SetRole(id int64, r model.RentalRole) {
	if r.User == model.NoAccount && r.Expires == 0 {
		delete(s.roles, id)
		return
	}
	s.roles[id] = r
}

func (s *Store) ClearRole(id int64) { delete(s.roles, id) }

func (s *Store) Escrow(id int64) Escrow { return s.escrow[id] }

func (s *Store) SetEscrow(id int64, e Escrow) { s.escrow[id] = e }

func (s *Store) ClearEscrow(id int64) { delete(s.escrow, id) }

// RoleIDs returns every id with a stored role record, ascending,
// including records whose expiry has already passed.
func (s *Store) RoleIDs() []int64 {
	out := make([]int64, 0, len(s.roles))
	for id := range s.roles {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
