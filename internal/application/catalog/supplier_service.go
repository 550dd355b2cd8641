package catalog

import (
	"context"

	"github.com/dropship/backend/internal/domain/catalog"
	"github.com/dropship/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier management use cases
type SupplierService struct {
	suppliers catalog.SupplierRepository
	products  catalog.ProductRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(suppliers catalog.SupplierRepository, products catalog.ProductRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers, products: products}
}

// Create registers a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := catalog.NewSupplier(req.Name, req.Email, req.ShippingTimeMin, req.ShippingTimeMax)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.CompanyName, req.Email, req.Phone, req.Address, req.Website); err != nil {
		return nil, err
	}

	minimumOrder := req.MinimumOrder
	if minimumOrder < 1 {
		minimumOrder = 1
	}
	if err := supplier.SetShippingTerms(req.ShippingTimeMin, req.ShippingTimeMax, req.ShippingCost, minimumOrder); err != nil {
		return nil, err
	}

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update updates a supplier's contact details and shipping terms
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := supplier.Update(req.Name, req.CompanyName, req.Email, req.Phone, req.Address, req.Website); err != nil {
		return nil, err
	}

	minimumOrder := req.MinimumOrder
	if minimumOrder < 1 {
		minimumOrder = supplier.MinimumOrder
	}
	if err := supplier.SetShippingTerms(req.ShippingTimeMin, req.ShippingTimeMax, req.ShippingCost, minimumOrder); err != nil {
		return nil, err
	}

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// SetAPICredentials stores the supplier integration endpoint and key.
// The key is accepted here but never returned by any read operation.
func (s *SupplierService) SetAPICredentials(ctx context.Context, id uuid.UUID, endpoint, key string) error {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	supplier.SetAPICredentials(endpoint, key)
	return s.suppliers.Save(ctx, supplier)
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves suppliers matching the search term
func (s *SupplierService) List(ctx context.Context, search string, page, pageSize int) ([]SupplierResponse, int64, error) {
	filter := shared.DefaultFilter()
	filter.Search = search
	if page > 0 && pageSize > 0 {
		filter.Page = page
		filter.PageSize = pageSize
	}

	suppliers, err := s.suppliers.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.suppliers.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses, total, nil
}

// Deactivate blocks a supplier from new products and orders
func (s *SupplierService) Deactivate(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	supplier.Deactivate()
	return s.suppliers.Save(ctx, supplier)
}

// Activate re-enables a supplier
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) error {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	supplier.Activate()
	return s.suppliers.Save(ctx, supplier)
}

// Delete removes a supplier that has no products
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	products, err := s.products.FindBySupplier(ctx, id, shared.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return shared.NewDomainError("SUPPLIER_IN_USE", "Cannot delete a supplier that still has products")
	}
	return s.suppliers.Delete(ctx, id)
}
