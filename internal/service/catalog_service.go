package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ICatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	SaveProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	LowStockProducts(ctx context.Context) ([]model.Product, error)
	GetStock(ctx context.Context, productID string) (int, error)
}

// CatalogService 商品 CRUD, productRepo 為 cache-aside 包裝後的 repo
type CatalogService struct {
	productRepo db.IProductRepository
	logger      zerolog.Logger
}

func NewCatalogService(productRepo db.IProductRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (c *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := c.productRepo.GetAllProducts(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "ListProducts", err)
	}
	return products, nil
}

func (c *CatalogService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := c.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, translateProductErr("GetProduct", productID, err)
	}
	return product, nil
}

// SaveProduct upsert, id 為空時產生新 id
func (c *CatalogService) SaveProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	const op = "SaveProduct"
	if err := validateProduct(product); err != nil {
		return nil, newError(KindValidation, op, err)
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if err := c.productRepo.SaveProduct(ctx, product); err != nil {
		return nil, newError(KindPersistence, op, err)
	}
	c.logger.Info().Str("product_id", product.ID).Int("stock", product.Stock).Msg("product saved")
	return product, nil
}

// DeleteProduct 不存在時視為成功, 歷史訂單保留快照
func (c *CatalogService) DeleteProduct(ctx context.Context, productID string) error {
	if err := c.productRepo.HardDeleteProduct(ctx, productID); err != nil {
		return newError(KindPersistence, "DeleteProduct", err)
	}
	c.logger.Info().Str("product_id", productID).Msg("product deleted")
	return nil
}

func (c *CatalogService) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	products, err := c.productRepo.GetLowStockProducts(ctx)
	if err != nil {
		return nil, newError(KindPersistence, "LowStockProducts", err)
	}
	return products, nil
}

func (c *CatalogService) GetStock(ctx context.Context, productID string) (int, error) {
	stock, err := c.productRepo.GetProductStock(ctx, productID)
	if err != nil {
		return 0, translateProductErr("GetStock", productID, err)
	}
	return stock, nil
}

func validateProduct(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case !p.Category.IsValid():
		return fmt.Errorf("%w: category %q", ErrInvalidProduct, p.Category)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	case p.Cost.IsNegative():
		return fmt.Errorf("%w: negative cost", ErrInvalidProduct)
	case p.Stock < 0:
		return fmt.Errorf("%w: negative stock", ErrInvalidProduct)
	case p.MinStock < 0:
		return fmt.Errorf("%w: negative min stock", ErrInvalidProduct)
	}
	return nil
}

func translateProductErr(op, productID string, err error) error {
	if errors.Is(err, db.ErrProductNotFound) {
		return newError(KindNotFound, op, fmt.Errorf("%w: %s", ErrProductNotExist, productID))
	}
	return newError(KindPersistence, op, err)
}

var _ ICatalogService = (*CatalogService)(nil)
