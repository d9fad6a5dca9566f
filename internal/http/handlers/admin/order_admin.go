package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/repository"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	status := strings.TrimSpace(c.Query("status"))
	orderNo := strings.TrimSpace(c.Query("order_no"))
	userIDStr := strings.TrimSpace(c.Query("user_id"))

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_from", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_to", err)
		return
	}
	var userID uint
	if userIDStr != "" {
		if parsed, err := strconv.ParseUint(userIDStr, 10, 64); err == nil {
			userID = uint(parsed)
		}
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      userID,
		Status:      status,
		OrderNo:     orderNo,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch orders", err)
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

// UpdateOrderStatus 更新订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(uint(orderID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrInvalidOrderStatus):
			respondError(c, response.CodeBadRequest, "invalid order status", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update order status", err)
		}
		return
	}

	response.Success(c, order)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
