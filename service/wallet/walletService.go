package walletsvc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gatewayrepo "github.com/Mantas-M/NFTBookRental/repository/gateway"
	wrepo "github.com/Mantas-M/NFTBookRental/repository/wallet"

	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

type LedgerRow = wrepo.LedgerRow

type TopupCreated struct {
	InvoiceID, PaymentLink, ExpiresAt string
}

// Service covers top-ups and the ledger, and doubles as the rental
// engine's escrow bank: Debit takes a request payment off a balance,
// Credit pays refunds back.
type Service interface {
	CreateTopup(ctx context.Context, userID model.AccountID, amount float64, payerEmail string) (*TopupCreated, error)
	Ledger(ctx context.Context, userID model.AccountID) ([]LedgerRow, error)

	Debit(ctx context.Context, from model.AccountID, amount float64) error
	Credit(ctx context.Context, to model.AccountID, amount float64) error
}

type service struct {
	db *sql.DB
	r  wrepo.Repo
	g  gatewayrepo.Repo
}

func New(db *sql.DB, r wrepo.Repo, g gatewayrepo.Repo) Service {
	return &service{db: db, r: r, g: g}
}

func (s *service) CreateTopup(ctx context.Context, userID model.AccountID, amount float64, payerEmail string) (*TopupCreated, error) {
	if amount <= 0 {
		return nil, apperr.New(apperr.Validation, "amount must be positive")
	}
	iv, err := s.g.CreateInvoice(gatewayrepo.CreateInvoiceReq{
		ExternalID:  fmt.Sprintf("topup:%d:%d", userID, time.Now().UnixNano()),
		Amount:      amount,
		PayerEmail:  payerEmail,
		Description: "Wallet top-up",
		ExpirySec:   3600,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = s.r.InsertTopup(ctx, tx, userID, amount, iv.InvoiceID, iv.InvoiceURL, iv.ExpiresAt); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &TopupCreated{InvoiceID: iv.InvoiceID, PaymentLink: iv.InvoiceURL, ExpiresAt: iv.ExpiresAt}, nil
}

func (s *service) Ledger(ctx context.Context, userID model.AccountID) ([]LedgerRow, error) {
	return s.r.ListLedger(ctx, userID)
}

// Debit charges a rental payment. Insufficient balance aborts before
// anything is written.
func (s *service) Debit(ctx context.Context, from model.AccountID, amount float64) (err error) {
	if amount <= 0 {
		return apperr.New(apperr.Validation, "amount must be positive")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur, err := s.r.GetBalanceForUpdate(ctx, tx, from)
	if err != nil {
		return err
	}
	if cur < amount {
		return apperr.New(apperr.Validation, "insufficient balance")
	}
	newBal := cur - amount
	if err = s.r.UpdateBalance(ctx, tx, from, newBal); err != nil {
		return err
	}
	if err = s.r.InsertLedger(ctx, tx, from, model.LedgerCharge, -amount, newBal); err != nil {
		return err
	}
	return tx.Commit()
}

// Credit pays a refund out of escrow.
func (s *service) Credit(ctx context.Context, to model.AccountID, amount float64) (err error) {
	if amount <= 0 {
		return apperr.New(apperr.Validation, "amount must be positive")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur, err := s.r.GetBalanceForUpdate(ctx, tx, to)
	if err != nil {
		return err
	}
	newBal := cur + amount
	if err = s.r.UpdateBalance(ctx, tx, to, newBal); err != nil {
		return err
	}
	if err = s.r.InsertLedger(ctx, tx, to, model.LedgerRefund, amount, newBal); err != nil {
		return err
	}
	return tx.Commit()
}
