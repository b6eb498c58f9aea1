// model/book.go
package model

// AccountID identifies a wallet-backed account. 0 means "no account"
// and is the sentinel used for cleared owner/renter/request fields.
type AccountID int64

const NoAccount AccountID = 0

type Book struct {
	ID          int64     `json:"id"`
	CoverImage  string    `json:"cover_image"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Year        int64     `json:"year"`
	Language    string    `json:"language"`
	Description string    `json:"description"`
	Owner       AccountID `json:"owner"`
	RequestedBy AccountID `json:"requested_by,omitempty"`
}
