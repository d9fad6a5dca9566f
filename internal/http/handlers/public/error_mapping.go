package public

import (
	"errors"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, msg: "not enough stock available"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "item not found in cart"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrValidation, code: response.CodeBadRequest, msg: "invalid request"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "not authorized to access this resource"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "failed to update cart")
}

func respondOrderError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "failed to process order")
}
