package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/shopmart-api/internal/constants"
	"github.com/shopmart-api/internal/logger"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/queue"
	"github.com/shopmart-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		queueClient: queueClient,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	UserID          uint
	ShippingAddress models.ShippingAddress
}

var orderStatuses = map[string]bool{
	constants.OrderStatusPending:    true,
	constants.OrderStatusProcessing: true,
	constants.OrderStatusShipped:    true,
	constants.OrderStatusDelivered:  true,
	constants.OrderStatusCancelled:  true,
}

// CreateOrder 购物车结算下单
//
// 订单写入与购物车清空在同一事务内提交，两者要么同时生效要么同时
// 回滚。订单项名称与图片取自下单时刻的商品目录，单价沿用购物车
// 快照价，合计直接复制购物车合计。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrValidation
	}

	var created *models.Order
	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		txCartRepo := s.cartRepo.WithTx(tx)
		txOrderRepo := s.orderRepo.WithTx(tx)
		txProductRepo := s.productRepo.WithTx(tx)

		cart, err := txCartRepo.GetByUser(input.UserID)
		if err != nil {
			return err
		}
		if cart == nil || len(cart.Items) == 0 {
			return ErrCartEmpty
		}

		productIDs := make([]uint, 0, len(cart.Items))
		for _, item := range cart.Items {
			productIDs = append(productIDs, item.ProductID)
		}
		products, err := txProductRepo.ListByIDs(productIDs)
		if err != nil {
			return err
		}
		productIndex := make(map[uint]models.Product, len(products))
		for _, p := range products {
			productIndex[p.ID] = p
		}

		now := time.Now()
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			// 名称与图片在提交时刻重读目录；商品已被删除时保留空快照，
			// 行金额不受影响。
			var name, image string
			if p, ok := productIndex[line.ProductID]; ok {
				name = p.Name
				image = p.ImageURL
			}
			lineTotal := line.Price.Decimal.Mul(decimal.NewFromInt(int64(line.Quantity)))
			items = append(items, models.OrderItem{
				ProductID:  line.ProductID,
				Name:       name,
				ImageURL:   image,
				UnitPrice:  line.Price,
				Quantity:   line.Quantity,
				TotalPrice: models.NewMoneyFromDecimal(lineTotal),
				CreatedAt:  now,
			})
		}

		order := &models.Order{
			OrderNo:         generateOrderNo(),
			UserID:          input.UserID,
			Status:          constants.OrderStatusPending,
			ShippingAddress: input.ShippingAddress,
			TotalPrice:      cart.TotalPrice,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := txOrderRepo.Create(order, items); err != nil {
			return err
		}

		if err := txCartRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		if err := txCartRepo.UpdateTotal(cart.ID, models.NewMoneyFromDecimal(decimal.Zero)); err != nil {
			return err
		}

		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueOrderPlaced(queue.OrderPlacedPayload{OrderID: created.ID, UserID: created.UserID}); err != nil {
		logger.Warnw("order_placed_enqueue_failed", "order_id", created.ID, "error", err)
	}

	logger.Infow("order_created",
		"order_id", created.ID,
		"order_no", created.OrderNo,
		"user_id", created.UserID,
		"total_price", created.TotalPrice.String(),
	)
	return created, nil
}

// ListOrdersByUser 用户订单列表（新订单在前）
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrValidation
	}
	return s.orderRepo.ListByUser(filter)
}

// GetOrderByID 订单详情（仅本人或管理员可见）
func (s *OrderService) GetOrderByID(orderID, requesterID uint, requesterRole string) (*models.Order, error) {
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != requesterID && requesterRole != constants.RoleAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// UpdateOrderStatus 更新订单状态（管理员）
//
// 状态间不做迁移顺序校验；delivered 额外置位 is_delivered 与送达
// 时间，其他状态不回改这两个字段。
func (s *OrderService) UpdateOrderStatus(orderID uint, status string) (*models.Order, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !orderStatuses[normalized] {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	if normalized == constants.OrderStatusDelivered {
		updates["is_delivered"] = true
		updates["delivered_at"] = now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, normalized, updates); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{OrderID: order.ID, Status: normalized}); err != nil {
		logger.Warnw("order_status_notify_enqueue_failed", "order_id", order.ID, "error", err)
	}

	logger.Infow("order_status_updated",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", normalized,
	)
	return s.orderRepo.GetByID(order.ID)
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	randPart := randNumeric(6)
	return fmt.Sprintf("SM%s%s", now, randPart)
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
