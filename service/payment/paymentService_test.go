package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mantas-M/NFTBookRental/model"
	gatewayrepo "github.com/Mantas-M/NFTBookRental/repository/gateway"
	wrepo "github.com/Mantas-M/NFTBookRental/repository/wallet"
)

type mockGateway struct {
	verifyErr error
}

func (m *mockGateway) CreateInvoice(gatewayrepo.CreateInvoiceReq) (*gatewayrepo.CreateInvoiceResp, error) {
	return nil, errors.New("not used")
}

func (m *mockGateway) VerifyCallbackToken(string) error { return m.verifyErr }

type mockWalletRepo struct {
	wrepo.Repo
	findFn func(ctx context.Context, invoiceID string) (int64, model.AccountID, float64, string, error)
}

func (m *mockWalletRepo) FindTopupByInvoiceID(ctx context.Context, invoiceID string) (int64, model.AccountID, float64, string, error) {
	return m.findFn(ctx, invoiceID)
}

func TestHandleGateway_BadToken(t *testing.T) {
	svc := New(nil, &mockGateway{verifyErr: gatewayrepo.ErrBadCallbackToken}, &mockWalletRepo{})

	err := svc.HandleGateway(context.Background(), "wrong", []byte(`{}`))
	require.ErrorIs(t, err, gatewayrepo.ErrBadCallbackToken)
}

func TestHandleGateway_BadPayload(t *testing.T) {
	svc := New(nil, &mockGateway{}, &mockWalletRepo{})

	require.Error(t, svc.HandleGateway(context.Background(), "tok", []byte(`not json`)))
	require.Error(t, svc.HandleGateway(context.Background(), "tok", []byte(`{"id":""}`)))
}

func TestHandleGateway_IgnoresNonPaid(t *testing.T) {
	svc := New(nil, &mockGateway{}, &mockWalletRepo{})

	err := svc.HandleGateway(context.Background(), "tok", []byte(`{"id":"inv-1","status":"EXPIRED"}`))
	require.NoError(t, err)
}

func TestHandleGateway_AlreadyPaidIsNoop(t *testing.T) {
	w := &mockWalletRepo{
		findFn: func(ctx context.Context, invoiceID string) (int64, model.AccountID, float64, string, error) {
			require.Equal(t, "inv-1", invoiceID)
			return 5, 1, 25, string(model.TopupPaid), nil
		},
	}
	svc := New(nil, &mockGateway{}, w)

	err := svc.HandleGateway(context.Background(), "tok", []byte(`{"id":"inv-1","status":"PAID"}`))
	require.NoError(t, err)
}

func TestHandleGateway_UnknownInvoice(t *testing.T) {
	w := &mockWalletRepo{
		findFn: func(ctx context.Context, invoiceID string) (int64, model.AccountID, float64, string, error) {
			return 0, 0, 0, "", sql.ErrNoRows
		},
	}
	svc := New(nil, &mockGateway{}, w)

	err := svc.HandleGateway(context.Background(), "tok", []byte(`{"id":"inv-x","status":"PAID"}`))
	require.ErrorIs(t, err, sql.ErrNoRows)
}
