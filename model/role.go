// model/role.go
package model

import "time"

// RentalRole is the delegated temporary-use record for one book.
// A zero value means no role is set.
type RentalRole struct {
	User    AccountID `json:"user"`
	Expires int64     `json:"expires"` // unix seconds
}

// ActiveAt reports whether the role grants usage rights at t.
// Expiry is lazy: a stale record with Expires in the past is simply
// inactive, nothing sweeps it.
func (r RentalRole) ActiveAt(t time.Time) bool {
	return r.User != NoAccount && r.Expires >= t.Unix()
}
