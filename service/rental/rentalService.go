// Package rental owns the per-book rental role and the
// request/confirm/reject/return transitions, including the escrowed
// fee. Every operation runs as one serialized step under the engine
// lock: guards first, then the fund transfer, then the state change.
// If the transfer fails nothing has been mutated yet, so the whole
// operation aborts cleanly.
package rental

import (
	"context"
	"sync"
	"time"

	"github.com/Mantas-M/NFTBookRental/event"
	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/registry"
	"github.com/Mantas-M/NFTBookRental/repository/bookstore"
	"github.com/Mantas-M/NFTBookRental/repository/rolestore"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

// Protocol constants.
const (
	// RentalFee is the fixed fee, in native units, escrowed with every
	// rental request. Payment must match exactly.
	RentalFee = 0.01

	// MinLeaseLead is how far past the confirmation time an expiry must
	// lie. Strictly greater than, not equal.
	MinLeaseLead = 24 * time.Hour
)

// Bank moves native units between accounts and the escrow held here.
// Implemented by the wallet service; any error aborts the operation.
type Bank interface {
	Debit(ctx context.Context, from model.AccountID, amount float64) error
	Credit(ctx context.Context, to model.AccountID, amount float64) error
}

type Service interface {
	// Request escrows the exact rental fee and records the caller as
	// the pending requester. A later request before the owner resolves
	// the first overwrites it; the earlier fee stays with the escrow.
	Request(ctx context.Context, caller model.AccountID, id int64, payment float64) error

	// ConfirmRent grants the pending requester usage rights until
	// expires (unix seconds). The fee stays escrowed until return.
	ConfirmRent(ctx context.Context, caller model.AccountID, id int64, expires int64) error

	// RejectRequest refunds the pending requester and clears the
	// request. A failed refund aborts with no state change.
	RejectRequest(ctx context.Context, caller model.AccountID, id int64) error

	// ConfirmReturn refunds the recorded user and clears the role. The
	// guard checks the raw user field, so an expired role can still be
	// returned and refunded explicitly.
	ConfirmReturn(ctx context.Context, caller model.AccountID, id int64) error

	// SetUser is the low-level role assignment, guarded only by
	// approved-or-owner on the asset. It bypasses the request workflow
	// and touches no escrow.
	SetUser(ctx context.Context, caller model.AccountID, id int64, user model.AccountID, expires int64) error

	// UserOf reports the effective renter: none once expired, even
	// though the stored record is untouched.
	UserOf(ctx context.Context, id int64) (model.AccountID, error)
	UserExpires(ctx context.Context, id int64) (int64, error)

	// RentedBooks lists ids whose stored role names the caller,
	// expired or not. Deliberately not filtered like AvailableBooks.
	RentedBooks(ctx context.Context, caller model.AccountID) []int64

	// EscrowOf reports the fee currently held for a book.
	EscrowOf(ctx context.Context, id int64) float64
}

type service struct {
	mu    *sync.RWMutex
	books *bookstore.Store
	roles *rolestore.Store
	reg   *registry.Registry
	bank  Bank
	pub   event.Publisher
	now   func() time.Time
}

func New(mu *sync.RWMutex, books *bookstore.Store, roles *rolestore.Store, reg *registry.Registry, bank Bank, pub event.Publisher) Service {
	return &service{mu: mu, books: books, roles: roles, reg: reg, bank: bank, pub: pub, now: time.Now}
}

// guard is one precondition check. Guards run in order; the first
// failure aborts the operation with its coded error.
type guard func() error

func runGuards(gs ...guard) error {
	for _, g := range gs {
		if err := g(); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) exists(id int64) guard {
	return func() error {
		if _, ok := s.books.Get(id); !ok {
			return apperr.New(apperr.NotFound, "book not found")
		}
		return nil
	}
}

func (s *service) notRented(id int64) guard {
	return func() error {
		if s.roles.Role(id).ActiveAt(s.now()) {
			return apperr.New(apperr.Conflict, "book is rented")
		}
		return nil
	}
}

func (s *service) isOwner(caller model.AccountID, id int64) guard {
	return func() error {
		b, _ := s.books.Get(id)
		if b == nil || b.Owner != caller {
			return apperr.New(apperr.Unauthorized, "only the owner may do this")
		}
		return nil
	}
}

func (s *service) hasPendingRequest(id int64) guard {
	return func() error {
		b, _ := s.books.Get(id)
		if b == nil || b.RequestedBy == model.NoAccount {
			return apperr.New(apperr.Validation, "no pending request")
		}
		return nil
	}
}

func (s *service) Request(ctx context.Context, caller model.AccountID, id int64, payment float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := runGuards(
		s.exists(id),
		s.notRented(id),
		func() error {
			b, _ := s.books.Get(id)
			if b.Owner == caller {
				return apperr.New(apperr.Unauthorized, "cannot request own book")
			}
			return nil
		},
		func() error {
			if payment != RentalFee {
				return apperr.New(apperr.Validation, "payment must equal the rental fee")
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	if err := s.bank.Debit(ctx, caller, payment); err != nil {
		return err
	}

	b, _ := s.books.Get(id)
	b.RequestedBy = caller
	s.roles.SetEscrow(id, rolestore.Escrow{Funder: caller, Amount: payment})
	s.pub.Publish(ctx, event.BookRequested{BookID: id, Requester: caller})
	return nil
}

func (s *service) ConfirmRent(ctx context.Context, caller model.AccountID, id int64, expires int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := runGuards(
		s.exists(id),
		s.isOwner(caller, id),
		s.notRented(id),
		s.hasPendingRequest(id),
		func() error {
			if expires <= s.now().Add(MinLeaseLead).Unix() {
				return apperr.New(apperr.Validation, "expiry must be more than one day out")
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	b, _ := s.books.Get(id)
	user := b.RequestedBy
	b.RequestedBy = model.NoAccount
	s.setRole(ctx, id, user, expires)
	s.pub.Publish(ctx, event.BookRented{BookID: id, User: user, Expires: expires})
	return nil
}

func (s *service) RejectRequest(ctx context.Context, caller model.AccountID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := runGuards(
		s.exists(id),
		s.isOwner(caller, id),
		s.notRented(id),
		s.hasPendingRequest(id),
	)
	if err != nil {
		return err
	}

	b, _ := s.books.Get(id)
	esc := s.roles.Escrow(id)
	if esc.Amount > 0 {
		if err := s.bank.Credit(ctx, esc.Funder, esc.Amount); err != nil {
			return err
		}
	}

	b.RequestedBy = model.NoAccount
	s.roles.ClearEscrow(id)
	s.setRole(ctx, id, model.NoAccount, 0)
	return nil
}

func (s *service) ConfirmReturn(ctx context.Context, caller model.AccountID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := runGuards(
		s.exists(id),
		s.isOwner(caller, id),
		func() error {
			// Raw user check, independent of expiry: an expired role
			// can still be explicitly returned and refunded.
			if s.roles.Role(id).User == model.NoAccount {
				return apperr.New(apperr.Validation, "not rented")
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	user := s.roles.Role(id).User
	esc := s.roles.Escrow(id)
	if esc.Amount > 0 {
		if err := s.bank.Credit(ctx, esc.Funder, esc.Amount); err != nil {
			return err
		}
	}

	s.roles.ClearEscrow(id)
	s.setRole(ctx, id, model.NoAccount, 0)
	s.pub.Publish(ctx, event.BookReturned{BookID: id, User: user})
	return nil
}

func (s *service) SetUser(ctx context.Context, caller model.AccountID, id int64, user model.AccountID, expires int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.reg.Exists(id) {
		return apperr.New(apperr.NotFound, "book not found")
	}
	allowed, err := s.reg.IsApprovedOrOwner(caller, id)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.New(apperr.Unauthorized, "caller is not approved nor owner")
	}
	s.setRole(ctx, id, user, expires)
	return nil
}

// setRole writes the role record and emits the update notification,
// clears included. Callers hold the engine lock.
func (s *service) setRole(ctx context.Context, id int64, user model.AccountID, expires int64) {
	s.roles.SetRole(id, model.RentalRole{User: user, Expires: expires})
	s.pub.Publish(ctx, event.UpdateUser{BookID: id, User: user, Expires: expires})
}

func (s *service) UserOf(ctx context.Context, id int64) (model.AccountID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.books.Get(id); !ok {
		return model.NoAccount, apperr.New(apperr.NotFound, "book not found")
	}
	role := s.roles.Role(id)
	if !role.ActiveAt(s.now()) {
		return model.NoAccount, nil
	}
	return role.User, nil
}

func (s *service) UserExpires(ctx context.Context, id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.books.Get(id); !ok {
		return 0, apperr.New(apperr.NotFound, "book not found")
	}
	return s.roles.Role(id).Expires, nil
}

func (s *service) RentedBooks(ctx context.Context, caller model.AccountID) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []int64{}
	for _, id := range s.roles.RoleIDs() {
		if s.roles.Role(id).User == caller {
			out = append(out, id)
		}
	}
	return out
}

func (s *service) EscrowOf(ctx context.Context, id int64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roles.Escrow(id).Amount
}
