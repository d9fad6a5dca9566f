package admin

import (
	"errors"
	"strconv"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Price       models.Money `json:"price" binding:"required"`
	Stock       int          `json:"stock"`
	ImageURL    string       `json:"image_url"`
}

func (r ProductRequest) toServiceInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
	}
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	product, err := h.ProductService.Create(req.toServiceInput())
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			respondError(c, response.CodeBadRequest, "invalid product data", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create product", err)
		return
	}

	requestLog(c).Infow("product_created", "product_id", product.ID, "name", product.Name)
	response.Created(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	product, err := h.ProductService.Update(uint(productID), req.toServiceInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrValidation):
			respondError(c, response.CodeBadRequest, "invalid product data", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update product", err)
		}
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品（物理删除，历史订单保留快照）
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	if err := h.ProductService.Delete(uint(productID)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to delete product", err)
		return
	}

	requestLog(c).Infow("product_deleted", "product_id", productID)
	response.Success(c, gin.H{"deleted": true})
}
