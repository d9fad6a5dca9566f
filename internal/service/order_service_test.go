package service

import (
	"errors"
	"testing"

	"github.com/shopmart-api/internal/constants"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newOrderServiceTest(t *testing.T) (*gorm.DB, *CartService, *OrderService) {
	t.Helper()
	db := setupServiceTestDB(t)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartSvc := NewCartService(cartRepo, productRepo)
	orderSvc := NewOrderService(orderRepo, cartRepo, productRepo, nil)
	return db, cartSvc, orderSvc
}

func testShippingAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Address:    "1 Main Street",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
}

func TestCreateOrderEmptyCart(t *testing.T) {
	_, _, orderSvc := newOrderServiceTest(t)

	if _, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("no cart want ErrCartEmpty got %v", err)
	}
}

func TestCreateOrderClearedCartIsEmptyToo(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 10)

	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := cartSvc.ClearCart(1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("cleared cart want ErrCartEmpty got %v", err)
	}
}

func TestCreateOrderSnapshotsItemsAndEmptiesCart(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	p := createTestProduct(t, db, "P", 10, 10)
	q := createTestProduct(t, db, "Q", 5, 10)

	if _, err := cartSvc.AddItem(1, p.ID, 2); err != nil {
		t.Fatalf("add P failed: %v", err)
	}
	if _, err := cartSvc.AddItem(1, q.ID, 3); err != nil {
		t.Fatalf("add Q failed: %v", err)
	}

	order, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.OrderNo == "" {
		t.Fatalf("order number should be generated")
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("status want pending got %s", order.Status)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("order total want 35 got %s", order.TotalPrice.String())
	}
	if len(order.Items) != 2 {
		t.Fatalf("order items want 2 got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.Name == "" {
			t.Fatalf("order item should snapshot product name")
		}
		lineTotal := item.UnitPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if !item.TotalPrice.Decimal.Equal(lineTotal) {
			t.Fatalf("line total want %s got %s", lineTotal, item.TotalPrice.String())
		}
	}

	cart, err := cartSvc.GetOrCreateCart(1)
	if err != nil {
		t.Fatalf("reload cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("checkout should empty the cart, got %d items", len(cart.Items))
	}
	cartTotalEquals(t, cart, 0)
}

func TestCreateOrderKeepsSnapshotForDeletedProduct(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 10)

	if _, err := cartSvc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	// 下单前商品被删除：行金额沿用快照价，名称与图片留空
	if err := db.Delete(&models.Product{}, product.ID).Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}

	order, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if !order.TotalPrice.Decimal.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("order total want 20 got %s", order.TotalPrice.String())
	}
	if order.Items[0].Name != "" {
		t.Fatalf("deleted product snapshot name should be empty, got %s", order.Items[0].Name)
	}
	if !order.Items[0].UnitPrice.Decimal.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unit price want 10 got %s", order.Items[0].UnitPrice.String())
	}
}

func TestGetOrderByIDOwnership(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 10)

	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := orderSvc.GetOrderByID(order.ID, 1, constants.RoleUser)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if got.ID != order.ID {
		t.Fatalf("order id want %d got %d", order.ID, got.ID)
	}

	if _, err := orderSvc.GetOrderByID(order.ID, 2, constants.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-owner want ErrForbidden got %v", err)
	}

	if _, err := orderSvc.GetOrderByID(order.ID, 2, constants.RoleAdmin); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}

	if _, err := orderSvc.GetOrderByID(9999, 1, constants.RoleUser); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}

func TestListOrdersByUserScopesToOwner(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 100)

	for _, userID := range []uint{1, 1, 2} {
		if _, err := cartSvc.AddItem(userID, product.ID, 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if _, err := orderSvc.CreateOrder(CreateOrderInput{UserID: userID, ShippingAddress: testShippingAddress()}); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	orders, total, err := orderSvc.ListOrdersByUser(repository.OrderListFilter{UserID: 1, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("want 2 orders got total=%d len=%d", total, len(orders))
	}
	for _, order := range orders {
		if order.UserID != 1 {
			t.Fatalf("order %d should belong to user 1, got %d", order.ID, order.UserID)
		}
	}

	if _, _, err := orderSvc.ListOrdersByUser(repository.OrderListFilter{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing user want ErrValidation got %v", err)
	}
}

func TestUpdateOrderStatusDelivered(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 10)

	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	updated, err := orderSvc.UpdateOrderStatus(order.ID, "Delivered")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusDelivered {
		t.Fatalf("status want delivered got %s", updated.Status)
	}
	if !updated.IsDelivered || updated.DeliveredAt == nil {
		t.Fatalf("delivered flags should be set, got is_delivered=%v delivered_at=%v", updated.IsDelivered, updated.DeliveredAt)
	}
}

func TestUpdateOrderStatusKeepsDeliveredFlags(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 10)

	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if _, err := orderSvc.UpdateOrderStatus(order.ID, "delivered"); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	// 之后的状态变更不回退送达标记
	updated, err := orderSvc.UpdateOrderStatus(order.ID, "shipped")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.OrderStatusShipped {
		t.Fatalf("status want shipped got %s", updated.Status)
	}
	if !updated.IsDelivered || updated.DeliveredAt == nil {
		t.Fatalf("delivered flags should survive, got is_delivered=%v delivered_at=%v", updated.IsDelivered, updated.DeliveredAt)
	}

	updated, err = orderSvc.UpdateOrderStatus(order.ID, "cancelled")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if !updated.IsDelivered || updated.DeliveredAt == nil {
		t.Fatalf("delivered flags should survive cancel, got is_delivered=%v delivered_at=%v", updated.IsDelivered, updated.DeliveredAt)
	}
}

func TestUpdateOrderStatusValidation(t *testing.T) {
	db, cartSvc, orderSvc := newOrderServiceTest(t)
	product := createTestProduct(t, db, "P", 10, 10)

	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	order, err := orderSvc.CreateOrder(CreateOrderInput{UserID: 1, ShippingAddress: testShippingAddress()})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if _, err := orderSvc.UpdateOrderStatus(order.ID, "refunded"); !errors.Is(err, ErrInvalidOrderStatus) {
		t.Fatalf("unknown status want ErrInvalidOrderStatus got %v", err)
	}
	if _, err := orderSvc.UpdateOrderStatus(9999, "shipped"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}
