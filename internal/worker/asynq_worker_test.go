package worker

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/provider"
	"github.com/shopmart-api/internal/queue"
	"github.com/shopmart-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*gorm.DB, *Consumer) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	container := &provider.Container{
		OrderRepo:   repository.NewOrderRepository(db),
		ProductRepo: repository.NewProductRepository(db),
	}
	return db, NewConsumer(container)
}

func createWorkerTestOrder(t *testing.T, db *gorm.DB) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:    "SM20260901000001",
		UserID:     1,
		Status:     "pending",
		TotalPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(35)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestHandleOrderPlaced(t *testing.T) {
	db, consumer := setupConsumerTest(t)
	order := createWorkerTestOrder(t, db)
	if err := db.Create(&models.Product{Name: "Low", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(10)), Stock: 1}).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	task, err := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{OrderID: order.ID, UserID: order.UserID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderPlaced(context.Background(), task); err != nil {
		t.Fatalf("handle order placed failed: %v", err)
	}
}

func TestHandleOrderPlacedMissingOrderIsNoop(t *testing.T) {
	_, consumer := setupConsumerTest(t)

	task, err := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{OrderID: 9999})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderPlaced(context.Background(), task); err != nil {
		t.Fatalf("missing order should not fail: %v", err)
	}

	zero, err := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderPlaced(context.Background(), zero); err != nil {
		t.Fatalf("zero order id should not fail: %v", err)
	}
}

func TestHandleOrderPlacedBadPayload(t *testing.T) {
	_, consumer := setupConsumerTest(t)

	task := asynq.NewTask(queue.TaskOrderPlaced, []byte("{not json"))
	if err := consumer.handleOrderPlaced(context.Background(), task); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}

func TestHandleOrderStatusNotify(t *testing.T) {
	db, consumer := setupConsumerTest(t)
	order := createWorkerTestOrder(t, db)

	task, err := queue.NewOrderStatusNotifyTask(queue.OrderStatusNotifyPayload{OrderID: order.ID, Status: "shipped"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderStatusNotify(context.Background(), task); err != nil {
		t.Fatalf("handle status notify failed: %v", err)
	}
}

func TestRegisterNilSafe(t *testing.T) {
	_, consumer := setupConsumerTest(t)
	consumer.Register(nil)

	var nilConsumer *Consumer
	nilConsumer.Register(asynq.NewServeMux())
}
