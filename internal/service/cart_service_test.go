package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/RoyceAzure/lab/cafe_erp/internal/domain/model"
	mock_service "github.com/RoyceAzure/lab/cafe_erp/internal/service/mock"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	env         *testEnv
	cartService *CartService
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	ctrl := gomock.NewController(suite.T())
	publisher := mock_service.NewMockOrderEventPublisher(ctrl)
	publisher.EXPECT().PublishOrderEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	orderService := NewOrderService(suite.env.store, publisher, suite.env.logger, WithStockCache(suite.env.products))
	configs := NewStoreConfigService(suite.env.store, suite.env.logger)
	suite.cartService = NewCartService(suite.env.carts, suite.env.products, orderService, configs, suite.env.logger)

	suite.env.addProduct(suite.T(), "A", "Cutting Chai", "25.00", "8.00", 10)
	suite.env.addProduct(suite.T(), "B", "Bun Maska", "45.00", "15.00", 2)
}

func (suite *CartServiceTestSuite) TestAddItem_AccumulatesAndSummarises() {
	ctx := context.Background()
	terminal := constants.DefaultTerminalID

	_, err := suite.cartService.AddItem(ctx, terminal, "A", 1)
	require.NoError(suite.T(), err)
	summary, err := suite.cartService.AddItem(ctx, terminal, "A", 1)
	require.NoError(suite.T(), err)

	require.Len(suite.T(), summary.Items, 1)
	require.Equal(suite.T(), 2, summary.Items[0].Quantity)
	require.Equal(suite.T(), "0.05", summary.TaxRate)
	require.True(suite.T(), summary.Subtotal.Equal(decimal.RequireFromString("50")))
	require.True(suite.T(), summary.Tax.Equal(decimal.RequireFromString("2.5")))
	require.True(suite.T(), summary.Total.Equal(decimal.RequireFromString("52.5")))
	// 購物車本身的小計與試算結果一致
	require.True(suite.T(), summary.Cart.ItemsSubtotal().Equal(summary.Subtotal))
}

func (suite *CartServiceTestSuite) TestAddItem_Rejections() {
	ctx := context.Background()
	terminal := constants.DefaultTerminalID

	_, err := suite.cartService.AddItem(ctx, terminal, "B", 3)
	requireKind(suite.T(), err, KindStockConflict)

	_, err = suite.cartService.AddItem(ctx, terminal, "B", 2)
	require.NoError(suite.T(), err)
	_, err = suite.cartService.AddItem(ctx, terminal, "B", 1)
	requireKind(suite.T(), err, KindStockConflict)

	_, err = suite.cartService.AddItem(ctx, terminal, "ghost", 1)
	requireKind(suite.T(), err, KindNotFound)
	require.ErrorIs(suite.T(), err, ErrProductNotExist)

	_, err = suite.cartService.AddItem(ctx, terminal, "A", 0)
	requireKind(suite.T(), err, KindValidation)

	_, err = suite.cartService.AddItem(ctx, "bad:terminal", "A", 1)
	requireKind(suite.T(), err, KindValidation)
	require.ErrorIs(suite.T(), err, ErrInvalidTerminal)

	summary, err := suite.cartService.GetCart(ctx, terminal)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), summary.Items, 1)
	require.Equal(suite.T(), 2, summary.QuantityOf("B"))
}

func (suite *CartServiceTestSuite) TestUpdateQuantity() {
	ctx := context.Background()
	terminal := constants.DefaultTerminalID

	_, err := suite.cartService.AddItem(ctx, terminal, "A", 2)
	require.NoError(suite.T(), err)

	summary, err := suite.cartService.UpdateQuantity(ctx, terminal, "A", 3)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 5, summary.QuantityOf("A"))

	_, err = suite.cartService.UpdateQuantity(ctx, terminal, "A", 6)
	requireKind(suite.T(), err, KindStockConflict)

	summary, err = suite.cartService.UpdateQuantity(ctx, terminal, "A", -5)
	require.NoError(suite.T(), err)
	require.True(suite.T(), summary.IsEmpty())

	_, err = suite.cartService.UpdateQuantity(ctx, terminal, "A", -1)
	requireKind(suite.T(), err, KindNotFound)
	require.ErrorIs(suite.T(), err, ErrCartItemNotExist)
}

func (suite *CartServiceTestSuite) TestRemoveItemAndClear() {
	ctx := context.Background()
	terminal := constants.DefaultTerminalID

	_, err := suite.cartService.AddItem(ctx, terminal, "A", 1)
	require.NoError(suite.T(), err)
	_, err = suite.cartService.AddItem(ctx, terminal, "B", 1)
	require.NoError(suite.T(), err)

	summary, err := suite.cartService.RemoveItem(ctx, terminal, "A")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), summary.Items, 1)
	require.Equal(suite.T(), "B", summary.Items[0].ProductID)

	_, err = suite.cartService.RemoveItem(ctx, terminal, "A")
	requireKind(suite.T(), err, KindNotFound)

	require.NoError(suite.T(), suite.cartService.Clear(ctx, terminal))
	summary, err = suite.cartService.GetCart(ctx, terminal)
	require.NoError(suite.T(), err)
	require.True(suite.T(), summary.IsEmpty())
}

func (suite *CartServiceTestSuite) TestTerminalsAreIsolated() {
	ctx := context.Background()

	_, err := suite.cartService.AddItem(ctx, "counter-1", "A", 1)
	require.NoError(suite.T(), err)
	_, err = suite.cartService.AddItem(ctx, "counter-2", "A", 4)
	require.NoError(suite.T(), err)

	one, err := suite.cartService.GetCart(ctx, "counter-1")
	require.NoError(suite.T(), err)
	two, err := suite.cartService.GetCart(ctx, "counter-2")
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 1, one.QuantityOf("A"))
	require.Equal(suite.T(), 4, two.QuantityOf("A"))
}

func (suite *CartServiceTestSuite) TestCheckout_ClearsCartOnSuccess() {
	ctx := context.Background()
	terminal := constants.DefaultTerminalID

	_, err := suite.cartService.AddItem(ctx, terminal, "A", 2)
	require.NoError(suite.T(), err)

	order, err := suite.cartService.Checkout(ctx, terminal, model.PaymentUPI)
	require.NoError(suite.T(), err)
	require.True(suite.T(), order.Total.Equal(decimal.RequireFromString("52.5")))
	require.Equal(suite.T(), model.PaymentUPI, order.PaymentMethod)
	require.Equal(suite.T(), 8, suite.env.stockOf(suite.T(), "A"))

	summary, err := suite.cartService.GetCart(ctx, terminal)
	require.NoError(suite.T(), err)
	require.True(suite.T(), summary.IsEmpty())
}

func (suite *CartServiceTestSuite) TestCheckout_KeepsCartOnFailure() {
	ctx := context.Background()
	terminal := constants.DefaultTerminalID

	_, err := suite.cartService.Checkout(ctx, terminal, model.PaymentCash)
	requireKind(suite.T(), err, KindValidation)
	require.ErrorIs(suite.T(), err, ErrEmptyCart)

	_, err = suite.cartService.AddItem(ctx, terminal, "B", 2)
	require.NoError(suite.T(), err)

	// 另一台櫃台先賣掉庫存
	_, err = suite.env.store.DeductProductStock(ctx, "B", 1)
	require.NoError(suite.T(), err)

	_, err = suite.cartService.Checkout(ctx, terminal, model.PaymentCash)
	requireKind(suite.T(), err, KindStockConflict)

	summary, err := suite.cartService.GetCart(ctx, terminal)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 2, summary.QuantityOf("B"))
	require.Equal(suite.T(), 0, suite.env.orderCount(suite.T()))

	_, err = suite.cartService.Checkout(ctx, terminal, "cheque")
	requireKind(suite.T(), err, KindValidation)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
