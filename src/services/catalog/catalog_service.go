package catalog

import (
	"context"
	"go-checkout-flow/src/infrastructure/log"
)

type catalogService struct {
	logger            log.Logger
	productRepository ProductRepository
}

type CatalogService interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	GetAllProducts(ctx context.Context) ([]Product, error)
	GetLowStockProducts(ctx context.Context, threshold int) ([]Product, error)
	UpdateProductQuantity(ctx context.Context, productID string, quantity int) error
	AddProduct(ctx context.Context, product Product) error
}

func NewCatalogService(logger log.Logger, productRepo ProductRepository) CatalogService {
	return &catalogService{
		logger:            logger,
		productRepository: productRepo,
	}
}

// GetProduct retrieves a product with its current price and stock level
func (s *catalogService) GetProduct(ctx context.Context, productID string) (*Product, error) {
	return s.productRepository.GetProductByID(ctx, productID)
}

// GetAllProducts retrieves the whole catalog
func (s *catalogService) GetAllProducts(ctx context.Context) ([]Product, error) {
	return s.productRepository.GetAllProducts(ctx)
}

// GetLowStockProducts returns products with stock below the threshold
func (s *catalogService) GetLowStockProducts(ctx context.Context, threshold int) ([]Product, error) {
	return s.productRepository.GetLowStockProducts(ctx, threshold)
}

// UpdateProductQuantity updates the available quantity of a product
func (s *catalogService) UpdateProductQuantity(ctx context.Context, productID string, quantity int) error {
	return s.productRepository.UpdateProductQuantity(ctx, productID, quantity)
}

// AddProduct adds a new product to the catalog
func (s *catalogService) AddProduct(ctx context.Context, product Product) error {
	return s.productRepository.AddProduct(ctx, product)
}
