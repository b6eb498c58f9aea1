package walletrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mantas-M/NFTBookRental/model"
)

type LedgerRow struct {
	ID           int64     `json:"id"`
	EntryType    string    `json:"entry_type"`
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repo interface {
	InsertTopup(ctx context.Context, tx *sql.Tx, userID model.AccountID, amount float64, invID, link, expires string) (int64, error)
	FindTopupByInvoiceID(ctx context.Context, invoiceID string) (topupID int64, userID model.AccountID, amount float64, status string, err error)
	MarkTopupPaid(ctx context.Context, tx *sql.Tx, topupID int64) error

	GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID model.AccountID) (float64, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, userID model.AccountID, newBalance float64) error
	InsertLedger(ctx context.Context, tx *sql.Tx, userID model.AccountID, entryType model.LedgerType, amount, balanceAfter float64) error

	ListLedger(ctx context.Context, userID model.AccountID) ([]LedgerRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) InsertTopup(ctx context.Context, tx *sql.Tx, userID model.AccountID, amount float64, invID, link, expires string) (int64, error) {
	const q = `
INSERT INTO wallet_topups (user_id, amount, status, invoice_id, payment_link, expires_at)
VALUES ($1,$2,'PENDING',$3,$4,$5)
RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID, amount, invID, link, expires).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) FindTopupByInvoiceID(ctx context.Context, invoiceID string) (int64, model.AccountID, float64, string, error) {
	const q = `
SELECT id, user_id, amount, status
FROM wallet_topups
WHERE invoice_id=$1`
	var id int64
	var uid model.AccountID
	var amt float64
	var status string
	err := r.db.QueryRowContext(ctx, q, invoiceID).Scan(&id, &uid, &amt, &status)
	return id, uid, amt, status, err
}

func (r *repo) MarkTopupPaid(ctx context.Context, tx *sql.Tx, topupID int64) error {
	const q = `
UPDATE wallet_topups
SET status='PAID', paid_at=NOW()
WHERE id=$1 AND status='PENDING'`
	res, err := tx.ExecContext(ctx, q, topupID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.New("topup not pending or not found")
	}
	return nil
}

func (r *repo) GetBalanceForUpdate(ctx context.Context, tx *sql.Tx, userID model.AccountID) (float64, error) {
	const q = `
SELECT balance
FROM users
WHERE id=$1
FOR UPDATE`
	var bal float64
	err := tx.QueryRowContext(ctx, q, userID).Scan(&bal)
	return bal, err
}

func (r *repo) UpdateBalance(ctx context.Context, tx *sql.Tx, userID model.AccountID, newBalance float64) error {
	const q = `UPDATE users SET balance=$2 WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, userID, newBalance)
	return err
}

func (r *repo) InsertLedger(ctx context.Context, tx *sql.Tx, userID model.AccountID, entryType model.LedgerType, amount, balanceAfter float64) error {
	const q = `
INSERT INTO wallet_ledger (user_id, entry_type, amount, balance_after)
VALUES ($1,$2,$3,$4)`
	_, err := tx.ExecContext(ctx, q, userID, entryType, amount, balanceAfter)
	return err
}

func (r *repo) ListLedger(ctx context.Context, userID model.AccountID) ([]LedgerRow, error) {
	const q = `
SELECT id, entry_type, amount, balance_after, created_at
FROM wallet_ledger
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerRow
	for rows.Next() {
		var l LedgerRow
		if err := rows.Scan(&l.ID, &l.EntryType, &l.Amount, &l.BalanceAfter, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
