package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/registry"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

const (
	alice = model.AccountID(1)
	bob   = model.AccountID(2)
	carol = model.AccountID(3)
)

func TestMintBurn(t *testing.T) {
	r := registry.New()

	require.False(t, r.Exists(1))
	require.NoError(t, r.Mint(1, alice))
	require.True(t, r.Exists(1))

	err := r.Mint(1, bob)
	require.Equal(t, apperr.Conflict, apperr.CodeOf(err))

	err = r.Mint(2, model.NoAccount)
	require.Equal(t, apperr.Validation, apperr.CodeOf(err))

	require.NoError(t, r.Burn(1))
	require.False(t, r.Exists(1))
	err = r.Burn(1)
	require.Equal(t, apperr.NotFound, apperr.CodeOf(err))
}

func TestTransfer(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Mint(1, alice))

	err := r.Transfer(1, bob, carol)
	require.Equal(t, apperr.Unauthorized, apperr.CodeOf(err))

	err = r.Transfer(1, alice, model.NoAccount)
	require.Equal(t, apperr.Validation, apperr.CodeOf(err))

	require.NoError(t, r.Transfer(1, alice, bob))
	owner, err := r.OwnerOf(1)
	require.NoError(t, err)
	require.Equal(t, bob, owner)
}

func TestApprovals(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Mint(1, alice))

	ok, err := r.IsApprovedOrOwner(alice, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = r.IsApprovedOrOwner(bob, 1)
	require.NoError(t, err)
	require.False(t, ok)

	// only the owner (or their operator) can approve
	err = r.Approve(bob, bob, 1)
	require.Equal(t, apperr.Unauthorized, apperr.CodeOf(err))

	require.NoError(t, r.Approve(alice, bob, 1))
	ok, _ = r.IsApprovedOrOwner(bob, 1)
	require.True(t, ok)

	// transfer drops the per-asset approval
	require.NoError(t, r.Transfer(1, alice, carol))
	ok, _ = r.IsApprovedOrOwner(bob, 1)
	require.False(t, ok)
}

func TestOperators(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Mint(1, alice))

	r.SetApprovalForAll(alice, bob, true)
	ok, _ := r.IsApprovedOrOwner(bob, 1)
	require.True(t, ok)

	// operators can hand out per-asset approvals
	require.NoError(t, r.Approve(bob, carol, 1))

	r.SetApprovalForAll(alice, bob, false)
	ok, _ = r.IsApprovedOrOwner(bob, 1)
	require.False(t, ok)
}

func TestSupportsInterface(t *testing.T) {
	r := registry.New()
	require.True(t, r.SupportsInterface(registry.InterfaceERC165))
	require.True(t, r.SupportsInterface(registry.InterfaceERC721))
	require.True(t, r.SupportsInterface(registry.InterfaceRentalRole))
	require.False(t, r.SupportsInterface(0xffffffff))
}
