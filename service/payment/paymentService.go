package paymentsvc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	gatewayrepo "github.com/Mantas-M/NFTBookRental/repository/gateway"
	wrepo "github.com/Mantas-M/NFTBookRental/repository/wallet"

	"github.com/Mantas-M/NFTBookRental/model"
)

// Service handles gateway webhooks: a paid top-up invoice credits the
// user's wallet balance. Repeated callbacks for the same invoice are
// no-ops.
type Service interface {
	HandleGateway(ctx context.Context, tokenHeader string, raw []byte) error
}

type service struct {
	db *sql.DB
	g  gatewayrepo.Repo
	w  wrepo.Repo
}

func New(db *sql.DB, g gatewayrepo.Repo, w wrepo.Repo) Service {
	return &service{db: db, g: g, w: w}
}

type invoiceEvent struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id"`
}

func (s *service) HandleGateway(ctx context.Context, tokenHeader string, raw []byte) error {
	if err := s.g.VerifyCallbackToken(tokenHeader); err != nil {
		return err
	}

	var ev invoiceEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return fmt.Errorf("bad webhook json: %w", err)
	}
	if ev.ID == "" || ev.Status == "" {
		return errors.New("missing invoice fields")
	}
	if ev.Status != "PAID" {
		// EXPIRED and the rest carry no wallet effect.
		return nil
	}
	return s.onPaid(ctx, ev)
}

func (s *service) onPaid(ctx context.Context, ev invoiceEvent) (err error) {
	topupID, userID, amount, status, err := s.w.FindTopupByInvoiceID(ctx, ev.ID)
	if err != nil {
		return fmt.Errorf("invoice not mapped to a topup: %w", err)
	}
	if status == string(model.TopupPaid) {
		return nil
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

	if err = s.w.MarkTopupPaid(ctx, tx, topupID); err != nil {
		return err
	}
	cur, err := s.w.GetBalanceForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}
	newBal := cur + amount
	if err = s.w.UpdateBalance(ctx, tx, userID, newBal); err != nil {
		return err
	}
	if err = s.w.InsertLedger(ctx, tx, userID, model.LedgerTopup, amount, newBal); err != nil {
		return err
	}
	return tx.Commit()
}
