package walletsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mantas-M/NFTBookRental/model"
	gatewayrepo "github.com/Mantas-M/NFTBookRental/repository/gateway"
	wrepo "github.com/Mantas-M/NFTBookRental/repository/wallet"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

type mockGateway struct {
	createFn func(req gatewayrepo.CreateInvoiceReq) (*gatewayrepo.CreateInvoiceResp, error)
}

func (m *mockGateway) CreateInvoice(req gatewayrepo.CreateInvoiceReq) (*gatewayrepo.CreateInvoiceResp, error) {
	return m.createFn(req)
}

func (m *mockGateway) VerifyCallbackToken(string) error { return nil }

type mockWalletRepo struct{ wrepo.Repo }

func TestCreateTopup_InvalidAmount(t *testing.T) {
	svc := New(nil, &mockWalletRepo{}, &mockGateway{})

	_, err := svc.CreateTopup(context.Background(), 1, 0, "a@b.c")
	require.Equal(t, apperr.Validation, apperr.CodeOf(err))

	_, err = svc.CreateTopup(context.Background(), 1, -5, "a@b.c")
	require.Equal(t, apperr.Validation, apperr.CodeOf(err))
}

func TestCreateTopup_GatewayFailure(t *testing.T) {
	g := &mockGateway{
		createFn: func(req gatewayrepo.CreateInvoiceReq) (*gatewayrepo.CreateInvoiceResp, error) {
			require.Equal(t, 25.0, req.Amount)
			require.Equal(t, "a@b.c", req.PayerEmail)
			return nil, errors.New("gateway down")
		},
	}
	svc := New(nil, &mockWalletRepo{}, g)

	_, err := svc.CreateTopup(context.Background(), 1, 25, "a@b.c")
	require.EqualError(t, err, "gateway down")
}

func TestDebitCredit_InvalidAmount(t *testing.T) {
	svc := New(nil, &mockWalletRepo{}, &mockGateway{})

	err := svc.Debit(context.Background(), model.AccountID(1), 0)
	require.Equal(t, apperr.Validation, apperr.CodeOf(err))

	err = svc.Credit(context.Background(), model.AccountID(1), -1)
	require.Equal(t, apperr.Validation, apperr.CodeOf(err))
}
