package public

import (
	"strconv"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	ShippingAddress ShippingAddressRequest `json:"shipping_address" binding:"required"`
}

// ShippingAddressRequest 收货地址请求
type ShippingAddressRequest struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// CreateOrder 购物车结算下单
func (h *Handler) CreateOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		UserID: uid,
		ShippingAddress: models.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Created(c, order)
}

// ListOrders 获取当前用户订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// GetOrder 获取订单详情（仅本人或管理员）
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}

	order, err := h.OrderService.GetOrderByID(uint(orderID), uid, getUserRole(c))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
