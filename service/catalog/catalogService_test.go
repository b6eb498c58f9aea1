package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mantas-M/NFTBookRental/event"
	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/registry"
	"github.com/Mantas-M/NFTBookRental/repository/bookstore"
	"github.com/Mantas-M/NFTBookRental/repository/rolestore"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

const (
	alice = model.AccountID(1)
	bob   = model.AccountID(2)
)

type capturePub struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *capturePub) Publish(ctx context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePub) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind()
	}
	return out
}

type fixture struct {
	svc   *service
	books *bookstore.Store
	roles *rolestore.Store
	reg   *registry.Registry
	pub   *capturePub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	var mu sync.RWMutex
	f := &fixture{
		books: bookstore.New(),
		roles: rolestore.New(),
		reg:   registry.New(),
		pub:   &capturePub{},
	}
	f.svc = New(&mu, f.books, f.roles, f.reg, f.pub).(*service)
	return f
}

func validInput() CreateBookInput {
	return CreateBookInput{
		CoverImage:  "cover.png",
		Author:      "Ursula K. Le Guin",
		Title:       "The Dispossessed",
		Year:        1974,
		Language:    "en",
		Description: "An ambiguous utopia.",
	}
}

func ctxb() context.Context { return context.Background() }

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]func(*CreateBookInput){
		"cover":       func(in *CreateBookInput) { in.CoverImage = "" },
		"author":      func(in *CreateBookInput) { in.Author = "" },
		"title":       func(in *CreateBookInput) { in.Title = "" },
		"language":    func(in *CreateBookInput) { in.Language = "" },
		"description": func(in *CreateBookInput) { in.Description = "" },
		"year zero":   func(in *CreateBookInput) { in.Year = 0 },
		"year neg":    func(in *CreateBookInput) { in.Year = -1 },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := f.svc.Create(ctxb(), alice, in)
		require.Equal(t, apperr.Validation, apperr.CodeOf(err), name)
	}
}

func TestCreate_SequentialIDs(t *testing.T) {
	f := newFixture(t)

	id1, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)
	id2, err := f.svc.Create(ctxb(), bob, validInput())
	require.NoError(t, err)
	require.Equal(t, id1+1, id2)

	require.True(t, f.reg.Exists(id1))
	require.Equal(t, []string{"BookCreated", "BookCreated"}, f.pub.kinds())
}

// Deleted ids are retired for good; the counter never reuses them.
func TestCreate_NeverReusesIDs(t *testing.T) {
	f := newFixture(t)

	id1, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctxb(), alice, id1))

	id2, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)
	require.Greater(t, id2, id1)
}

func TestDelete_Guards(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)

	err = f.svc.Delete(ctxb(), alice, id+100)
	require.Equal(t, apperr.NotFound, apperr.CodeOf(err))

	err = f.svc.Delete(ctxb(), bob, id)
	require.Equal(t, apperr.Unauthorized, apperr.CodeOf(err))

	f.roles.SetRole(id, model.RentalRole{User: bob, Expires: time.Now().Add(48 * time.Hour).Unix()})
	err = f.svc.Delete(ctxb(), alice, id)
	require.Equal(t, apperr.Conflict, apperr.CodeOf(err))
	require.EqualError(t, err, "book is rented")
}

func TestDelete_RemovesFromListings(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctxb(), alice, id))
	require.Empty(t, f.svc.OwnedBooks(ctxb(), alice))
	require.Empty(t, f.svc.AvailableBooks(ctxb()))
	require.False(t, f.reg.Exists(id))

	_, err = f.svc.Detail(ctxb(), id)
	require.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

// A stale expired role does not block deletion and is cleared with the
// book.
func TestDelete_WithExpiredRole(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)
	f.roles.SetRole(id, model.RentalRole{User: bob, Expires: time.Now().Add(-time.Hour).Unix()})

	require.NoError(t, f.svc.Delete(ctxb(), alice, id))
	require.Equal(t, model.RentalRole{}, f.roles.Role(id))
	require.Contains(t, f.pub.kinds(), "UpdateUser")
	require.Contains(t, f.pub.kinds(), "BookDeleted")
}

func TestListings(t *testing.T) {
	f := newFixture(t)

	id1, _ := f.svc.Create(ctxb(), alice, validInput())
	id2, _ := f.svc.Create(ctxb(), bob, validInput())
	id3, _ := f.svc.Create(ctxb(), alice, validInput())

	require.Equal(t, []int64{id1, id3}, f.svc.OwnedBooks(ctxb(), alice))
	require.Equal(t, []int64{id2}, f.svc.OwnedBooks(ctxb(), bob))
	require.Equal(t, []int64{id1, id2, id3}, f.svc.AvailableBooks(ctxb()))

	// active role hides the book; an expired one does not
	f.roles.SetRole(id1, model.RentalRole{User: bob, Expires: time.Now().Add(48 * time.Hour).Unix()})
	f.roles.SetRole(id2, model.RentalRole{User: alice, Expires: time.Now().Add(-time.Hour).Unix()})
	require.Equal(t, []int64{id2, id3}, f.svc.AvailableBooks(ctxb()))
}

func TestTransfer_ClearsRole(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)
	f.roles.SetRole(id, model.RentalRole{User: bob, Expires: time.Now().Add(48 * time.Hour).Unix()})

	require.NoError(t, f.svc.Transfer(ctxb(), alice, id, bob))

	b, err := f.svc.Detail(ctxb(), id)
	require.NoError(t, err)
	require.Equal(t, bob, b.Owner)
	require.Equal(t, model.RentalRole{}, f.roles.Role(id))
	require.Contains(t, f.pub.kinds(), "UpdateUser")
	require.Contains(t, f.pub.kinds(), "OwnershipTransferred")
}

// The role-clear on transfer is idempotent: the notification goes out
// even when no role was set.
func TestTransfer_NoRoleStillNotifies(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)

	before := len(f.pub.kinds())
	require.NoError(t, f.svc.Transfer(ctxb(), alice, id, bob))
	require.Equal(t, "UpdateUser", f.pub.events[before].Kind())
}

func TestTransfer_Guards(t *testing.T) {
	f := newFixture(t)
	id, err := f.svc.Create(ctxb(), alice, validInput())
	require.NoError(t, err)

	err = f.svc.Transfer(ctxb(), bob, id, bob)
	require.Equal(t, apperr.Unauthorized, apperr.CodeOf(err))

	// an approved operator may transfer
	require.NoError(t, f.svc.Approve(ctxb(), alice, bob, id))
	require.NoError(t, f.svc.Transfer(ctxb(), bob, id, bob))
}

func TestSupportsInterface(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.svc.SupportsInterface(registry.InterfaceRentalRole))
	require.True(t, f.svc.SupportsInterface(registry.InterfaceERC721))
	require.False(t, f.svc.SupportsInterface(0xdeadbeef))
}
