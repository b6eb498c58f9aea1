// Package catalog owns the book records and their lifecycle: creation,
// deletion, ownership transfer, and the listing queries. Rental state
// lives next door in service/rental; the two share the role store and
// the engine lock.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mantas-M/NFTBookRental/event"
	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/registry"
	"github.com/Mantas-M/NFTBookRental/repository/bookstore"
	"github.com/Mantas-M/NFTBookRental/repository/rolestore"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

type CreateBookInput struct {
	CoverImage  string
	Author      string
	Title       string
	Year        int64
	Language    string
	Description string
}

type Service interface {
	// Create validates the metadata, mints the asset and stores the
	// book under the next sequential id.
	Create(ctx context.Context, caller model.AccountID, in CreateBookInput) (int64, error)

	// Delete burns the asset. Refused while the book is rented.
	Delete(ctx context.Context, caller model.AccountID, id int64) error

	// Transfer hands ownership to another account and clears any
	// rental role on the book, expired or not.
	Transfer(ctx context.Context, caller model.AccountID, id int64, to model.AccountID) error

	// Approve lets another account act on the asset (transfer, setUser).
	Approve(ctx context.Context, caller, operator model.AccountID, id int64) error

	Detail(ctx context.Context, id int64) (*model.Book, error)
	OwnedBooks(ctx context.Context, caller model.AccountID) []int64
	AvailableBooks(ctx context.Context) []int64
	SupportsInterface(iface uint32) bool
}

type service struct {
	mu    *sync.RWMutex
	books *bookstore.Store
	roles *rolestore.Store
	reg   *registry.Registry
	pub   event.Publisher
	now   func() time.Time
}

func New(mu *sync.RWMutex, books *bookstore.Store, roles *rolestore.Store, reg *registry.Registry, pub event.Publisher) Service {
	return &service{mu: mu, books: books, roles: roles, reg: reg, pub: pub, now: time.Now}
}

func (s *service) Create(ctx context.Context, caller model.AccountID, in CreateBookInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateMetadata(in); err != nil {
		return 0, err
	}
	if caller == model.NoAccount {
		return 0, apperr.New(apperr.Unauthorized, "unknown caller")
	}

	id := s.books.NextID()
	if err := s.reg.Mint(id, caller); err != nil {
		return 0, err
	}
	s.books.Put(&model.Book{
		ID:          id,
		CoverImage:  in.CoverImage,
		Author:      in.Author,
		Title:       in.Title,
		Year:        in.Year,
		Language:    in.Language,
		Description: in.Description,
		Owner:       caller,
		RequestedBy: model.NoAccount,
	})
	s.pub.Publish(ctx, event.BookCreated{BookID: id, Owner: caller})
	return id, nil
}

func validateMetadata(in CreateBookInput) error {
	fields := map[string]string{
		"cover_image": in.CoverImage,
		"author":      in.Author,
		"title":       in.Title,
		"language":    in.Language,
		"description": in.Description,
	}
	for name, v := range fields {
		if v == "" {
			return apperr.New(apperr.Validation, fmt.Sprintf("%s must not be empty", name))
		}
	}
	if in.Year <= 0 {
		return apperr.New(apperr.Validation, "year must be positive")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, caller model.AccountID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books.Get(id)
	if !ok {
		return apperr.New(apperr.NotFound, "book not found")
	}
	if b.Owner != caller {
		return apperr.New(apperr.Unauthorized, "only the owner can delete")
	}
	if s.roles.Role(id).ActiveAt(s.now()) {
		return apperr.New(apperr.Conflict, "book is rented")
	}

	if err := s.reg.Burn(id); err != nil {
		return err
	}
	// Burning clears the role record like an ownership change does,
	// even when only a stale expired role remains.
	s.roles.ClearRole(id)
	s.roles.ClearEscrow(id)
	s.books.Delete(id)
	s.pub.Publish(ctx, event.UpdateUser{BookID: id, User: model.NoAccount, Expires: 0})
	s.pub.Publish(ctx, event.BookDeleted{BookID: id, Owner: caller})
	return nil
}

func (s *service) Transfer(ctx context.Context, caller model.AccountID, id int64, to model.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books.Get(id)
	if !ok {
		return apperr.New(apperr.NotFound, "book not found")
	}
	allowed, err := s.reg.IsApprovedOrOwner(caller, id)
	if err != nil {
		return err
	}
	if !allowed {
		return apperr.New(apperr.Unauthorized, "caller may not transfer this book")
	}
	from := b.Owner
	if err := s.reg.Transfer(id, from, to); err != nil {
		return err
	}
	b.Owner = to

	// The rental role is cleared on every ownership change, idempotent
	// when no role was set. The clear notification goes out either way.
	s.roles.ClearRole(id)
	s.roles.ClearEscrow(id)
	s.pub.Publish(ctx, event.UpdateUser{BookID: id, User: model.NoAccount, Expires: 0})
	s.pub.Publish(ctx, event.OwnershipTransferred{BookID: id, From: from, To: to})
	return nil
}

func (s *service) Approve(ctx context.Context, caller, operator model.AccountID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Approve(caller, operator, id)
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books.Get(id)
	if !ok {
		return nil, apperr.New(apperr.NotFound, "book not found")
	}
	out := *b
	return &out, nil
}

// OwnedBooks returns every existing id owned by the caller, ascending.
func (s *service) OwnedBooks(ctx context.Context, caller model.AccountID) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []int64{}
	for _, id := range s.books.IDs() {
		if b, _ := s.books.Get(id); b.Owner == caller {
			out = append(out, id)
		}
	}
	return out
}

// AvailableBooks returns every id whose rental role is not currently
// active. Expired roles count as available without being cleared.
func (s *service) AvailableBooks(ctx context.Context) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := []int64{}
	for _, id := range s.books.IDs() {
		if !s.roles.Role(id).ActiveAt(now) {
			out = append(out, id)
		}
	}
	return out
}

func (s *service) SupportsInterface(iface uint32) bool {
	return s.reg.SupportsInterface(iface)
}
