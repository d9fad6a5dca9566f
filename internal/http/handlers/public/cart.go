package public

import (
	"strconv"

	"github.com/shopmart-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 添加购物车项请求。quantity 缺省为 1。
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartItemRequest 更新购物车项数量请求
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	cart, err := h.CartService.GetOrCreateCart(uid)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// AddCartItem 添加商品到购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.CartService.AddItem(uid, req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// UpdateCartItem 更新购物车项数量（数量 <= 0 等价于删除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	cart, err := h.CartService.UpdateItemQuantity(uid, uint(productID), req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	cart, err := h.CartService.RemoveItem(uid, uint(productID))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	if err := h.CartService.ClearCart(uid); err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
