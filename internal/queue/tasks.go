package queue

import (
	"encoding/json"

	"github.com/shopmart-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 下单后处理任务（低库存巡检）
	TaskOrderPlaced = constants.TaskOrderPlaced
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// OrderPlacedPayload 下单任务载荷
type OrderPlacedPayload struct {
	OrderID uint `json:"order_id"`
	UserID  uint `json:"user_id"`
}

// OrderStatusNotifyPayload 状态变更通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// NewOrderPlacedTask 创建下单任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// NewOrderStatusNotifyTask 创建状态变更通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}
