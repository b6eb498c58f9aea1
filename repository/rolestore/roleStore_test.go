package rolestore

import (
	"testing"

	"github.com/Mantas-M/NFTBookRental/model"
)

func TestSetRole_ZeroDeletes(t *testing.T) {
	s := New()

	s.SetRole(7, model.RentalRole{User: 2, Expires: 100})
	if got := s.Role(7); got.User != 2 || got.Expires != 100 {
		t.Fatalf("got %+v", got)
	}

	s.SetRole(7, model.RentalRole{})
	if len(s.RoleIDs()) != 0 {
		t.Fatal("zero role must delete the record")
	}
}

func TestRoleIDs_Sorted(t *testing.T) {
	s := New()
	s.SetRole(5, model.RentalRole{User: 1, Expires: 1})
	s.SetRole(2, model.RentalRole{User: 1, Expires: 1})
	s.SetRole(9, model.RentalRole{User: 1, Expires: 1})

	ids := s.RoleIDs()
	want := []int64{2, 5, 9}
	if len(ids) != len(want) {
		t.Fatalf("got %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestEscrow(t *testing.T) {
	s := New()

	if s.Escrow(1).Amount != 0 {
		t.Fatal("unset escrow must be zero")
	}
	s.SetEscrow(1, Escrow{Funder: 3, Amount: 0.01})
	if e := s.Escrow(1); e.Funder != 3 || e.Amount != 0.01 {
		t.Fatalf("got %+v", e)
	}
	s.ClearEscrow(1)
	if s.Escrow(1).Amount != 0 {
		t.Fatal("escrow not cleared")
	}
}
