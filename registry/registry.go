// Package registry tracks asset identity: which ids exist, who owns
// them, and who is approved to act on them. It is the ERC-721-shaped
// collaborator underneath the book catalog; the catalog allocates ids,
// the registry records them.
package registry

import (
	"fmt"

	"github.com/Mantas-M/NFTBookRental/model"
	"github.com/Mantas-M/NFTBookRental/util/apperr"
)

// Interface ids advertised through SupportsInterface. The rental-role
// id is the ERC-4907 delegated-use standard.
const (
	InterfaceERC165     uint32 = 0x01ffc9a7
	InterfaceERC721     uint32 = 0x80ac58cd
	InterfaceRentalRole uint32 = 0xad092b5c
)

// Registry state is plain maps. Callers serialize access through the
// engine lock; the registry itself holds no lock.
type Registry struct {
	owners    map[int64]model.AccountID
	approved  map[int64]model.AccountID
	operators map[model.AccountID]map[model.AccountID]bool
}

func New() *Registry {
	return &Registry{
		owners:    make(map[int64]model.AccountID),
		approved:  make(map[int64]model.AccountID),
		operators: make(map[model.AccountID]map[model.AccountID]bool),
	}
}

func (r *Registry) Exists(id int64) bool {
	_, ok := r.owners[id]
	return ok
}

func (r *Registry) OwnerOf(id int64) (model.AccountID, error) {
	owner, ok := r.owners[id]
	if !ok {
		return model.NoAccount, apperr.New(apperr.NotFound, fmt.Sprintf("asset %d does not exist", id))
	}
	return owner, nil
}

func (r *Registry) Mint(id int64, owner model.AccountID) error {
	if owner == model.NoAccount {
		return apperr.New(apperr.Validation, "cannot mint to the zero account")
	}
	if r.Exists(id) {
		return apperr.New(apperr.Conflict, fmt.Sprintf("asset %d already minted", id))
	}
	r.owners[id] = owner
	return nil
}

func (r *Registry) Burn(id int64) error {
	if !r.Exists(id) {
		return apperr.New(apperr.NotFound, fmt.Sprintf("asset %d does not exist", id))
	}
	delete(r.owners, id)
	delete(r.approved, id)
	return nil
}

// Transfer moves ownership and drops the per-asset approval, as an
// ERC-721 transfer does.
func (r *Registry) Transfer(id int64, from, to model.AccountID) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != from {
		return apperr.New(apperr.Unauthorized, "transfer from wrong owner")
	}
	if to == model.NoAccount {
		return apperr.New(apperr.Validation, "cannot transfer to the zero account")
	}
	r.owners[id] = to
	delete(r.approved, id)
	return nil
}

func (r *Registry) Approve(caller, operator model.AccountID, id int64) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if caller != owner && !r.operators[owner][caller] {
		return apperr.New(apperr.Unauthorized, "caller is not owner nor approved operator")
	}
	r.approved[id] = operator
	return nil
}

func (r *Registry) SetApprovalForAll(owner, operator model.AccountID, approved bool) {
	if approved {
		if r.operators[owner] == nil {
			r.operators[owner] = make(map[model.AccountID]bool)
		}
		r.operators[owner][operator] = true
		return
	}
	delete(r.operators[owner], operator)
}

func (r *Registry) IsApprovedOrOwner(actor model.AccountID, id int64) (bool, error) {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return false, err
	}
	return actor == owner || r.approved[id] == actor || r.operators[owner][actor], nil
}

func (r *Registry) SupportsInterface(iface uint32) bool {
	switch iface {
	case InterfaceERC165, InterfaceERC721, InterfaceRentalRole:
		return true
	}
	return false
}
