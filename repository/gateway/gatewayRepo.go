// Package gatewayrepo talks to the hosted payment gateway used for
// wallet top-ups: invoice creation plus webhook callback verification.
package gatewayrepo

import (
	"crypto/subtle"
	"errors"
)

type CreateInvoiceReq struct {
	ExternalID  string
	Amount      float64
	PayerEmail  string
	Description string
	ExpirySec   int
}

type CreateInvoiceResp struct {
	InvoiceID  string
	InvoiceURL string
	ExpiresAt  string
}

type Repo interface {
	CreateInvoice(req CreateInvoiceReq) (*CreateInvoiceResp, error)
	VerifyCallbackToken(header string) error
}

var ErrBadCallbackToken = errors.New("gateway: callback token mismatch")

func verifyToken(want, got string) error {
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return ErrBadCallbackToken
	}
	return nil
}
