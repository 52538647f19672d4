package db

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// newTestUnifiedDB 每次回傳全新的記憶體資料庫
func newTestUnifiedDB(t *testing.T) *UnifiedDBImpl {
	t.Helper()
	conn, err := GetSqliteConn(":memory:")
	require.NoError(t, err)
	unified := NewUnifiedDB(conn)
	require.NoError(t, unified.InitMigrate())
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})
	return unified
}

func newTestProduct(id string, stock, minStock int) *model.Product {
	return &model.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.RequireFromString("25.00"),
		Cost:     decimal.RequireFromString("8.00"),
		Category: model.CategoryBeverages,
		Stock:    stock,
		MinStock: minStock,
	}
}

type ProductRepoTestSuite struct {
	suite.Suite
	db          *gorm.DB
	productRepo *ProductDBRepo
}

// SetupTest 在每個測試前執行
func (suite *ProductRepoTestSuite) SetupTest() {
	unified := newTestUnifiedDB(suite.T())
	suite.db = unified.GetDB()
	suite.productRepo = NewProductDBRepo(NewDbDao(suite.db))
}

func (suite *ProductRepoTestSuite) TestCreateAndGetProduct() {
	ctx := context.Background()
	product := newTestProduct("p1", 10, 2)

	err := suite.productRepo.CreateProduct(ctx, product)
	require.NoError(suite.T(), err)
	require.False(suite.T(), product.CreatedAt.IsZero())

	got, err := suite.productRepo.GetProductByID(ctx, "p1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Product p1", got.Name)
	require.True(suite.T(), got.Price.Equal(decimal.RequireFromString("25")))
	require.Equal(suite.T(), 10, got.Stock)

	_, err = suite.productRepo.GetProductByID(ctx, "missing")
	require.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func (suite *ProductRepoTestSuite) TestSaveProduct_Upsert() {
	ctx := context.Background()
	product := newTestProduct("p1", 10, 2)
	require.NoError(suite.T(), suite.productRepo.SaveProduct(ctx, product))

	product.Name = "Renamed"
	product.Stock = 4
	require.NoError(suite.T(), suite.productRepo.SaveProduct(ctx, product))

	got, err := suite.productRepo.GetProductByID(ctx, "p1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), "Renamed", got.Name)
	require.Equal(suite.T(), 4, got.Stock)

	count, err := suite.productRepo.CountProducts(ctx)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(1), count)
}

func (suite *ProductRepoTestSuite) TestDeductProductStock() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.productRepo.CreateProduct(ctx, newTestProduct("p1", 5, 0)))

	testCases := []struct {
		name      string
		productID string
		quantity  int
		wantStock int
		wantErr   error
	}{
		{name: "deduct part", productID: "p1", quantity: 3, wantStock: 2},
		{name: "not enough", productID: "p1", quantity: 3, wantStock: 2, wantErr: ErrProductStockNotEnough},
		{name: "deduct to zero", productID: "p1", quantity: 2, wantStock: 0},
		{name: "zero stock", productID: "p1", quantity: 1, wantStock: 0, wantErr: ErrProductStockNotEnough},
		{name: "not found", productID: "missing", quantity: 1, wantErr: ErrProductNotFound},
		{name: "invalid quantity", productID: "p1", quantity: 0, wantErr: ErrInvalidStockQuantity},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			stock, err := suite.productRepo.DeductProductStock(ctx, tc.productID, tc.quantity)
			if tc.wantErr != nil {
				require.ErrorIs(suite.T(), err, tc.wantErr)
			} else {
				require.NoError(suite.T(), err)
				require.Equal(suite.T(), tc.wantStock, stock)
			}
		})
	}

	stock, err := suite.productRepo.GetProductStock(ctx, "p1")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stock)
}

func (suite *ProductRepoTestSuite) TestAddProductStock() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.productRepo.CreateProduct(ctx, newTestProduct("p1", 10, 0)))

	stock, err := suite.productRepo.AddProductStock(ctx, "p1", 3)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 13, stock)

	_, err = suite.productRepo.AddProductStock(ctx, "missing", 3)
	require.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func (suite *ProductRepoTestSuite) TestLowStockAndDelete() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.productRepo.CreateProduct(ctx, newTestProduct("p1", 10, 2)))
	require.NoError(suite.T(), suite.productRepo.CreateProduct(ctx, newTestProduct("p2", 1, 2)))
	require.NoError(suite.T(), suite.productRepo.CreateProduct(ctx, newTestProduct("p3", 2, 2)))

	low, err := suite.productRepo.GetLowStockProducts(ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), low, 1)
	require.Equal(suite.T(), "p2", low[0].ID)

	products, err := suite.productRepo.GetProductsByIDs(ctx, []string{"p1", "p3", "missing"})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), products, 2)

	require.NoError(suite.T(), suite.productRepo.HardDeleteProduct(ctx, "p2"))
	require.NoError(suite.T(), suite.productRepo.HardDeleteProduct(ctx, "p2"))

	all, err := suite.productRepo.GetAllProducts(ctx)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 2)
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}
