package registry

import (
	"strings"

	"github.com/pdamkota/asetledger/internal/domain"
	"github.com/pdamkota/asetledger/internal/infra/sqlite"
)

// CategoryService owns the cost category → account mapping.
type CategoryService struct {
	db *sqlite.DB
}

// NewCategoryService creates a category service.
func NewCategoryService(db *sqlite.DB) *CategoryService {
	return &CategoryService{db: db}
}

// CategoryParams carries the fields for category creation.
type CategoryParams struct {
	Code            string
	Name            string
	Type            domain.CategoryType
	DebitAccountID  *int64
	CreditAccountID *int64
}

// Create validates and stores a new cost category.
func (s *CategoryService) Create(p CategoryParams) (domain.CostCategory, error) {
	c := domain.CostCategory{
		Code:            strings.TrimSpace(p.Code),
		Name:            strings.TrimSpace(p.Name),
		Type:            p.Type,
		DebitAccountID:  p.DebitAccountID,
		CreditAccountID: p.CreditAccountID,
	}
	if err := s.validate(c); err != nil {
		return domain.CostCategory{}, err
	}

	id, err := s.db.InsertCostCategory(c)
	if err != nil {
		return domain.CostCategory{}, err
	}
	c.ID = id
	return c, nil
}

// CategoryPatch carries partial updates; nil fields are left unchanged.
type CategoryPatch struct {
	Code            *string
	Name            *string
	Type            *domain.CategoryType
	DebitAccountID  *int64
	CreditAccountID *int64
}

// Update applies a partial update after revalidating the merged category.
func (s *CategoryService) Update(id int64, patch CategoryPatch) (domain.CostCategory, error) {
	c, err := s.db.GetCostCategory(id)
	if err != nil {
		return domain.CostCategory{}, err
	}

	if patch.Code != nil {
		c.Code = strings.TrimSpace(*patch.Code)
	}
	if patch.Name != nil {
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		c.Type = *patch.Type
	}
	if patch.DebitAccountID != nil {
		c.DebitAccountID = patch.DebitAccountID
	}
	if patch.CreditAccountID != nil {
		c.CreditAccountID = patch.CreditAccountID
	}

	if err := s.validate(c); err != nil {
		return domain.CostCategory{}, err
	}
	if err := s.db.UpdateCostCategory(c); err != nil {
		return domain.CostCategory{}, err
	}
	return c, nil
}

// Delete removes a category; the store refuses while journal lines
// reference it.
func (s *CategoryService) Delete(id int64) error {
	return s.db.DeleteCostCategory(id)
}

// Get returns one cost category.
func (s *CategoryService) Get(id int64) (domain.CostCategory, error) {
	return s.db.GetCostCategory(id)
}

// List returns all cost categories.
func (s *CategoryService) List() ([]domain.CostCategory, error) {
	return s.db.ListCostCategories()
}

func (s *CategoryService) validate(c domain.CostCategory) error {
	if c.Code == "" {
		return domain.Validationf("category code must not be empty")
	}
	if c.Name == "" {
		return domain.Validationf("category name must not be empty")
	}
	if !c.Type.Valid() {
		return domain.Validationf("unknown category type %q", c.Type)
	}
	for _, ref := range []*int64{c.DebitAccountID, c.CreditAccountID} {
		if ref == nil {
			continue
		}
		if _, err := s.db.GetAccount(*ref); err != nil {
			return domain.Validationf("mapped account %d does not exist", *ref)
		}
	}
	return nil
}
