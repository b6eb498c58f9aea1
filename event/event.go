// Package event defines the notifications emitted by the catalog and
// rental services and the publisher they go through.
package event

import (
	"context"
	"log/slog"

	"github.com/Mantas-M/NFTBookRental/model"
)

type Event interface {
	Kind() string
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type BookCreated struct {
	BookID int64           `json:"book_id"`
	Owner  model.AccountID `json:"owner"`
}

type BookDeleted struct {
	BookID int64           `json:"book_id"`
	Owner  model.AccountID `json:"owner"`
}

type BookRequested struct {
	BookID    int64           `json:"book_id"`
	Requester model.AccountID `json:"requester"`
}

type BookRented struct {
	BookID  int64           `json:"book_id"`
	User    model.AccountID `json:"user"`
	Expires int64           `json:"expires"`
}

type BookReturned struct {
	BookID int64           `json:"book_id"`
	User   model.AccountID `json:"user"`
}

// UpdateUser is emitted on every role assignment, including clears.
type UpdateUser struct {
	BookID  int64           `json:"book_id"`
	User    model.AccountID `json:"user"`
	Expires int64           `json:"expires"`
}

type OwnershipTransferred struct {
	BookID int64           `json:"book_id"`
	From   model.AccountID `json:"from"`
	To     model.AccountID `json:"to"`
}

func (BookCreated) Kind() string          { return "BookCreated" }
func (BookDeleted) Kind() string          { return "BookDeleted" }
func (BookRequested) Kind() string        { return "BookRequested" }
func (BookRented) Kind() string           { return "BookRented" }
func (BookReturned) Kind() string         { return "BookReturned" }
func (UpdateUser) Kind() string           { return "UpdateUser" }
func (OwnershipTransferred) Kind() string { return "OwnershipTransferred" }

// SlogPublisher writes every event as a structured log record.
type SlogPublisher struct {
	Log *slog.Logger
}

func (p *SlogPublisher) Publish(ctx context.Context, e Event) {
	p.Log.InfoContext(ctx, "event", "kind", e.Kind(), "payload", e)
}
