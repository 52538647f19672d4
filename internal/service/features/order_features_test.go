package features

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/producer"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/cafe_erp/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/cafe_erp/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/cucumber/godog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type orderTestContext struct {
	store    *db.UnifiedDBImpl
	mr       *miniredis.Miniredis
	client   *redis.Client
	orders   *service.OrderService
	carts    *service.CartService
	configs  *service.StoreConfigService
	staff    *service.StaffService
	order    *model.Order
	err      error
	closeDBs func()
}

func (c *orderTestContext) reset(ctx context.Context) error {
	conn, err := db.GetSqliteConn(":memory:")
	if err != nil {
		return err
	}
	store := db.NewUnifiedDB(conn)
	if err := store.InitMigrate(); err != nil {
		return err
	}
	mr, err := miniredis.Run()
	if err != nil {
		return err
	}
	client, err := redis_repo.NewRedisClient(ctx, mr.Addr())
	if err != nil {
		return err
	}

	logger := zerolog.Nop()
	products := redis_decorator.NewCacheAsideProductRepo(store, redis_repo.NewProductRedisRepo(client, time.Minute), logger)

	c.store = store
	c.mr = mr
	c.client = client
	c.configs = service.NewStoreConfigService(store, logger)
	c.staff = service.NewStaffService(store, logger)
	c.orders = service.NewOrderService(store, producer.NopOrderEventProducer{}, logger, service.WithStockCache(products))
	c.carts = service.NewCartService(redis_repo.NewCartRepo(client), products, c.orders, c.configs, logger)
	c.order = nil
	c.err = nil
	c.closeDBs = func() {
		client.Close()
		mr.Close()
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return nil
}

func (c *orderTestContext) theStoreTaxRateIs(ctx context.Context, rate string) error {
	taxRate, err := decimal.NewFromString(rate)
	if err != nil {
		return err
	}
	cfg, err := c.configs.GetConfig(ctx)
	if err != nil {
		return err
	}
	cfg.TaxRate = taxRate
	_, err = c.configs.SaveConfig(ctx, cfg)
	return err
}

func (c *orderTestContext) productWithStock(ctx context.Context, id, name, price, cost string, stock int) error {
	p := &model.Product{ID: id, Name: name, Category: model.CategoryFood, Stock: stock}
	var err error
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return err
	}
	if p.Cost, err = decimal.NewFromString(cost); err != nil {
		return err
	}
	return c.store.CreateProduct(ctx, p)
}

func (c *orderTestContext) staffWithRole(ctx context.Context, id, name, role string) error {
	r, err := model.ParseStaffRole(role)
	if err != nil {
		return err
	}
	return c.store.CreateStaff(ctx, &model.Staff{ID: id, Name: name, Role: r})
}

func (c *orderTestContext) staffIsClockedIn(ctx context.Context, id string) error {
	s, err := c.staff.ToggleClock(ctx, id)
	if err != nil {
		return err
	}
	if !s.IsClockedIn {
		return fmt.Errorf("staff %s expected clocked in", id)
	}
	return nil
}

func (c *orderTestContext) terminalAddsToCart(ctx context.Context, terminal string, qty int, productID string) error {
	_, err := c.carts.AddItem(ctx, terminal, productID, qty)
	return err
}

func (c *orderTestContext) terminalChecksOut(ctx context.Context, terminal, method string) error {
	c.order, c.err = c.carts.Checkout(ctx, terminal, model.PaymentMethod(method))
	return nil
}

// itemFor 不存在的商品也組成一行, 讓服務層自己拒絕
func (c *orderTestContext) itemFor(ctx context.Context, productID string, qty int) (model.OrderItem, error) {
	p, err := c.store.GetProductByID(ctx, productID)
	if errors.Is(err, db.ErrProductNotFound) {
		return model.OrderItem{ProductID: productID, Name: productID, Price: decimal.NewFromInt(1), Quantity: qty}, nil
	}
	if err != nil {
		return model.OrderItem{}, err
	}
	return model.NewOrderItem(p, qty), nil
}

func (c *orderTestContext) completeOrder(ctx context.Context, method string, lines ...model.OrderItem) error {
	c.order, c.err = c.orders.CompleteOrder(ctx, lines, model.PaymentMethod(method))
	return nil
}

func (c *orderTestContext) iCompleteAnOrderWith(ctx context.Context, qty int, productID, method string) error {
	item, err := c.itemFor(ctx, productID, qty)
	if err != nil {
		return err
	}
	return c.completeOrder(ctx, method, item)
}

func (c *orderTestContext) iCompleteAnOrderWithTwo(ctx context.Context, qtyA int, productA string, qtyB int, productB, method string) error {
	a, err := c.itemFor(ctx, productA, qtyA)
	if err != nil {
		return err
	}
	b, err := c.itemFor(ctx, productB, qtyB)
	if err != nil {
		return err
	}
	return c.completeOrder(ctx, method, a, b)
}

func (c *orderTestContext) iCancelTheOrder(ctx context.Context) error {
	if c.order == nil {
		return errors.New("no order to cancel")
	}
	c.order, c.err = c.orders.CancelOrder(ctx, c.order.ID)
	return c.err
}

func (c *orderTestContext) orderAmountIs(field string) func(string) error {
	return func(want string) error {
		if c.err != nil {
			return fmt.Errorf("expected order but got error: %v", c.err)
		}
		expected, err := decimal.NewFromString(want)
		if err != nil {
			return err
		}
		var got decimal.Decimal
		switch field {
		case "subtotal":
			got = c.order.Subtotal
		case "tax":
			got = c.order.Tax
		case "total":
			got = c.order.Total
		case "profit":
			got = c.order.Profit
		}
		if !got.Equal(expected) {
			return fmt.Errorf("expected %s %s, got %s", field, want, got)
		}
		return nil
	}
}

func (c *orderTestContext) productHasStock(ctx context.Context, id string, want int) error {
	got, err := c.store.GetProductStock(ctx, id)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected stock of %s to be %d, got %d", id, want, got)
	}
	return nil
}

func (c *orderTestContext) theCartIsEmpty(ctx context.Context, terminal string) error {
	summary, err := c.carts.GetCart(ctx, terminal)
	if err != nil {
		return err
	}
	if !summary.IsEmpty() {
		return fmt.Errorf("expected empty cart, got %d lines", len(summary.Items))
	}
	return nil
}

func (c *orderTestContext) theOrderFailsWithKind(kind string) error {
	if c.err == nil {
		return errors.New("expected order to fail but it succeeded")
	}
	if got := service.KindOf(c.err); string(got) != kind {
		return fmt.Errorf("expected error kind %s, got %s (%v)", kind, got, c.err)
	}
	return nil
}

func (c *orderTestContext) noOrdersAreRecorded(ctx context.Context) error {
	orders, err := c.orders.ListOrders(ctx, service.OrderFilter{})
	if err != nil {
		return err
	}
	if len(orders) != 0 {
		return fmt.Errorf("expected no orders, got %d", len(orders))
	}
	return nil
}

func (c *orderTestContext) theOrderStatusIs(status string) error {
	if c.order == nil {
		return errors.New("no order")
	}
	if string(c.order.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, c.order.Status)
	}
	return nil
}

func (c *orderTestContext) theOrderStaffIs(staff string) error {
	if c.err != nil {
		return fmt.Errorf("expected order but got error: %v", c.err)
	}
	if c.order.StaffID != staff {
		return fmt.Errorf("expected staff %q, got %q", staff, c.order.StaffID)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &orderTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, tc.reset(ctx)
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.closeDBs != nil {
			tc.closeDBs()
		}
		return ctx, nil
	})

	// Given
	ctx.Step(`^the store tax rate is "([^"]*)"$`, tc.theStoreTaxRateIs)
	ctx.Step(`^product "([^"]*)" named "([^"]*)" priced "([^"]*)" costing "([^"]*)" with stock (\d+)$`, tc.productWithStock)
	ctx.Step(`^staff "([^"]*)" named "([^"]*)" with role "([^"]*)"$`, tc.staffWithRole)
	ctx.Step(`^staff "([^"]*)" is clocked in$`, tc.staffIsClockedIn)

	// When
	ctx.Step(`^terminal "([^"]*)" adds (\d+) of product "([^"]*)" to the cart$`, tc.terminalAddsToCart)
	ctx.Step(`^terminal "([^"]*)" checks out paying by "([^"]*)"$`, tc.terminalChecksOut)
	ctx.Step(`^I complete an order with (\d+) of "([^"]*)" paying by "([^"]*)"$`, tc.iCompleteAnOrderWith)
	ctx.Step(`^I complete an order with (\d+) of "([^"]*)" and (\d+) of "([^"]*)" paying by "([^"]*)"$`, tc.iCompleteAnOrderWithTwo)
	ctx.Step(`^I cancel the order$`, tc.iCancelTheOrder)

	// Then
	ctx.Step(`^the order subtotal is "([^"]*)"$`, tc.orderAmountIs("subtotal"))
	ctx.Step(`^the order tax is "([^"]*)"$`, tc.orderAmountIs("tax"))
	ctx.Step(`^the order total is "([^"]*)"$`, tc.orderAmountIs("total"))
	ctx.Step(`^the order profit is "([^"]*)"$`, tc.orderAmountIs("profit"))
	ctx.Step(`^product "([^"]*)" has stock (\d+)$`, tc.productHasStock)
	ctx.Step(`^the cart of terminal "([^"]*)" is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the order fails with kind "([^"]*)"$`, tc.theOrderFailsWithKind)
	ctx.Step(`^no orders are recorded$`, tc.noOrdersAreRecorded)
	ctx.Step(`^the order status is "([^"]*)"$`, tc.theOrderStatusIs)
	ctx.Step(`^the order staff is "([^"]*)"$`, tc.theOrderStaffIs)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"order.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
