// Package registry manages the chart of accounts and the cost category
// mappings that everything else consumes.
package registry

import (
	"strings"

	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// AccountService owns the hierarchical chart of accounts.
type AccountService struct {
	db *sqlite.DB
}

// NewAccountService creates an account service.
func NewAccountService(db *sqlite.DB) *AccountService {
	return &AccountService{db: db}
}

// AccountParams carries the fields for account creation.
type AccountParams struct {
	Code          string
	Name          string
	Type          domain.AccountType
	NormalBalance domain.NormalBalance
	ParentID      *int64
}

// Create validates and stores a new account.
func (s *AccountService) Create(p AccountParams) (domain.Account, error) {
	a := domain.Account{
		Code:          strings.TrimSpace(p.Code),
		Name:          strings.TrimSpace(p.Name),
		Type:          p.Type,
		NormalBalance: p.NormalBalance,
		ParentID:      p.ParentID,
		IsActive:      true,
	}
	if err := s.validate(a, 0); err != nil {
		return domain.Account{}, err
	}

	id, err := s.db.InsertAccount(a)
	if err != nil {
		return domain.Account{}, err
	}
	a.ID = id
	return a, nil
}

// AccountPatch carries partial updates; nil fields are left unchanged.
type AccountPatch struct {
	Code          *string
	Name          *string
	Type          *domain.AccountType
	NormalBalance *domain.NormalBalance
	ParentID      *int64
	ClearParent   bool
	IsActive      *bool
}

// Update applies a partial update after revalidating the merged account.
func (s *AccountService) Update(id int64, patch AccountPatch) (domain.Account, error) {
	a, err := s.db.GetAccount(id)
	if err != nil {
		return domain.Account{}, err
	}

	if patch.Code != nil {
		a.Code = strings.TrimSpace(*patch.Code)
	}
	if patch.Name != nil {
		a.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.NormalBalance != nil {
		a.NormalBalance = *patch.NormalBalance
	}
	if patch.ClearParent {
		a.ParentID = nil
	} else if patch.ParentID != nil {
		a.ParentID = patch.ParentID
	}
	if patch.IsActive != nil {
		a.IsActive = *patch.IsActive
	}

	if err := s.validate(a, id); err != nil {
		return domain.Account{}, err
	}
	if err := s.db.UpdateAccount(a); err != nil {
		return domain.Account{}, err
	}
	return a, nil
}

// Delete removes an account; children are detached, and the delete is
// refused while journal lines reference the account.
func (s *AccountService) Delete(id int64) error {
	return s.db.DeleteAccount(id)
}

// Get returns one account.
func (s *AccountService) Get(id int64) (domain.Account, error) {
	return s.db.GetAccount(id)
}

// List returns accounts filtered by a code/name substring.
func (s *AccountService) List(q string) ([]domain.Account, error) {
	return s.db.ListAccounts(q)
}

// Ancestors resolves the parent chain from the account upward. The walk is
// bounded by a visited set plus a depth cap, so a corrupted chain can never
// loop.
func (s *AccountService) Ancestors(id int64) ([]domain.Account, error) {
	a, err := s.db.GetAccount(id)
	if err != nil {
		return nil, err
	}

	var chain []domain.Account
	visited := map[int64]bool{a.ID: true}
	for a.ParentID != nil && len(chain) < domain.MaxAccountDepth {
		parent, err := s.db.GetAccount(*a.ParentID)
		if err != nil {
			return nil, err
		}
		if visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		chain = append(chain, parent)
		a = parent
	}
	return chain, nil
}

func (s *AccountService) validate(a domain.Account, selfID int64) error {
	if a.Code == "" {
		return domain.Validationf("account code must not be empty")
	}
	if a.Name == "" {
		return domain.Validationf("account name must not be empty")
	}
	if !a.Type.Valid() {
		return domain.Validationf("unknown account type %q", a.Type)
	}
	if !a.NormalBalance.Valid() {
		return domain.Validationf("unknown normal balance %q", a.NormalBalance)
	}
	if a.ParentID != nil {
		if selfID != 0 && *a.ParentID == selfID {
			return domain.Validationf("account may not be its own parent")
		}
		if _, err := s.db.GetAccount(*a.ParentID); err != nil {
			return domain.Validationf("parent account %d does not exist", *a.ParentID)
		}
	}
	return nil
}
