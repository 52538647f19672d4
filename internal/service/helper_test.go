package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_repo"
	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// testEnv 記憶體 sqlite + miniredis, 不需要外部服務
type testEnv struct {
	store    *db.UnifiedDBImpl
	mr       *miniredis.Miniredis
	products *redis_decorator.CacheAsideProductRepo
	carts    *redis_repo.CartRepo
	logger   zerolog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.GetSqliteConn(":memory:")
	require.NoError(t, err)
	store := db.NewUnifiedDB(conn)
	require.NoError(t, store.InitMigrate())
	t.Cleanup(func() {
		sqlDB, _ := conn.DB()
		sqlDB.Close()
	})

	mr := miniredis.RunT(t)
	client, err := redis_repo.NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	return &testEnv{
		store:    store,
		mr:       mr,
		products: redis_decorator.NewCacheAsideProductRepo(store, redis_repo.NewProductRedisRepo(client, time.Minute), logger),
		carts:    redis_repo.NewCartRepo(client),
		logger:   logger,
	}
}

func (e *testEnv) addProduct(t *testing.T, id, name, price, cost string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Cost:     decimal.RequireFromString(cost),
		Category: model.CategoryBeverages,
		Stock:    stock,
	}
	require.NoError(t, e.store.CreateProduct(context.Background(), p))
	return p
}

func (e *testEnv) stockOf(t *testing.T, id string) int {
	t.Helper()
	stock, err := e.store.GetProductStock(context.Background(), id)
	require.NoError(t, err)
	return stock
}

func (e *testEnv) orderCount(t *testing.T) int {
	t.Helper()
	orders, err := e.store.GetAllOrders(context.Background())
	require.NoError(t, err)
	return len(orders)
}

func itemOf(p *model.Product, quantity int) model.OrderItem {
	return model.NewOrderItem(p, quantity)
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

var errInjected = errors.New("disk I/O error")

// faultyStore 在交易內第 N 次扣庫存或寫訂單時注入錯誤
type faultyStore struct {
	db.UnifiedDB
	failDeductAt int
	failCreate   bool
	deductCalls  *int
}

func newFaultyStore(store db.UnifiedDB, failDeductAt int, failCreate bool) *faultyStore {
	calls := 0
	return &faultyStore{UnifiedDB: store, failDeductAt: failDeductAt, failCreate: failCreate, deductCalls: &calls}
}

func (f *faultyStore) ExecTx(ctx context.Context, fn func(db.UnifiedDB) error) error {
	return f.UnifiedDB.ExecTx(ctx, func(tx db.UnifiedDB) error {
		return fn(&faultyStore{UnifiedDB: tx, failDeductAt: f.failDeductAt, failCreate: f.failCreate, deductCalls: f.deductCalls})
	})
}

func (f *faultyStore) CreateOrder(ctx context.Context, order *model.Order) error {
	if f.failCreate {
		return errInjected
	}
	return f.UnifiedDB.CreateOrder(ctx, order)
}

func (f *faultyStore) DeductProductStock(ctx context.Context, productID string, quantity int) (int, error) {
	*f.deductCalls++
	if *f.deductCalls == f.failDeductAt {
		return 0, errInjected
	}
	return f.UnifiedDB.DeductProductStock(ctx, productID, quantity)
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), err.Error())
}
