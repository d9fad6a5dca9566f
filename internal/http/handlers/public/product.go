package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/repository"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 获取商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Search:   search,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch products", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || productID == 0 {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	product, err := h.ProductService.GetByID(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch product", err)
		return
	}

	response.Success(c, product)
}
