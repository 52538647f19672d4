package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error
	// ExecTx 在單一交易內執行 fn, fn 回傳錯誤即整筆回滾
	// fn 內所有讀寫都要透過傳入的 UnifiedDB
	ExecTx(ctx context.Context, fn func(UnifiedDB) error) error

	// Product 相關操作
	IProductRepository

	// Order 相關操作
	IOrderRepository

	// Staff 相關操作
	IStaffRepository

	// StoreConfig 相關操作
	IStoreConfigRepository
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	SaveProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetLowStockProducts(ctx context.Context) ([]model.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	HardDeleteProduct(ctx context.Context, productID string) error
	GetProductStock(ctx context.Context, productID string) (int, error)
	AddProductStock(ctx context.Context, productID string, quantity int) (int, error)
	DeductProductStock(ctx context.Context, productID string, quantity int) (int, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrdersByTimeRange(ctx context.Context, fromMs, toMs int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to model.OrderStatus) (bool, error)
}

// IStaffRepository Staff 相關操作介面
type IStaffRepository interface {
	CreateStaff(ctx context.Context, staff *model.Staff) error
	SaveStaff(ctx context.Context, staff *model.Staff) error
	GetStaffByID(ctx context.Context, id string) (*model.Staff, error)
	GetAllStaff(ctx context.Context) ([]model.Staff, error)
	GetFirstClockedInStaff(ctx context.Context) (*model.Staff, error)
	UpdateClockState(ctx context.Context, id string, isClockedIn bool, lastClockIn *time.Time) error
	CountStaff(ctx context.Context) (int64, error)
}

// IStoreConfigRepository StoreConfig 相關操作介面
type IStoreConfigRepository interface {
	GetStoreConfig(ctx context.Context) (*model.StoreConfig, error)
	GetOrCreateStoreConfig(ctx context.Context, defaults model.StoreConfig) (*model.StoreConfig, error)
	SaveStoreConfig(ctx context.Context, cfg *model.StoreConfig) error
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*ProductDBRepo
	*OrderRepo
	*StaffRepo
	*StoreConfigRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:              db,
		dbDao:           dbDao,
		ProductDBRepo:   NewProductDBRepo(dbDao),
		OrderRepo:       NewOrderRepo(dbDao),
		StaffRepo:       NewStaffRepo(dbDao),
		StoreConfigRepo: NewStoreConfigRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

// ExecTx 執行一個交易
// 巢狀呼叫時 gorm 以 savepoint 處理
func (u *UnifiedDBImpl) ExecTx(ctx context.Context, fn func(UnifiedDB) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnifiedDB(tx))
	})
}

var (
	_ UnifiedDB              = (*UnifiedDBImpl)(nil)
	_ IProductRepository     = (*UnifiedDBImpl)(nil)
	_ IOrderRepository       = (*UnifiedDBImpl)(nil)
	_ IStaffRepository       = (*UnifiedDBImpl)(nil)
	_ IStoreConfigRepository = (*UnifiedDBImpl)(nil)
)
