package worker

import (
	"context"
	"encoding/json"

	"github.com/shopmart-api/internal/constants"
	"github.com/shopmart-api/internal/logger"
	"github.com/shopmart-api/internal/provider"
	"github.com/shopmart-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
}

// handleOrderPlaced 下单后巡检：记录订单概要并列出低库存商品。
func (c *Consumer) handleOrderPlaced(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_placed_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	logger.Infow("worker_order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"item_count", len(order.Items),
		"total_price", order.TotalPrice.String(),
	)

	threshold := constants.LowStockThresholdDefault
	if c.Config != nil && c.Config.Catalog.LowStockThreshold > 0 {
		threshold = c.Config.Catalog.LowStockThreshold
	}
	lowStock, err := c.ProductRepo.ListBelowStock(threshold)
	if err != nil {
		logger.Warnw("worker_low_stock_scan_failed", "order_id", order.ID, "error", err)
		return err
	}
	for _, product := range lowStock {
		logger.Warnw("worker_low_stock_product",
			"product_id", product.ID,
			"name", product.Name,
			"stock", product.Stock,
			"threshold", threshold,
		)
	}
	return nil
}

// handleOrderStatusNotify 订单状态变更通知（记录审计日志）。
func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}

	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_status_notify_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}

	logger.Infow("worker_order_status_notify",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"status", payload.Status,
		"is_delivered", order.IsDelivered,
	)
	return nil
}
