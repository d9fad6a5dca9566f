package service

import "errors"

// 服务层业务错误，由 HTTP 层统一映射为状态码与提示文案。
var (
	ErrValidation         = errors.New("invalid request")
	ErrProductNotFound    = errors.New("product not found")
	ErrInsufficientStock  = errors.New("not enough stock available")
	ErrCartNotFound       = errors.New("cart not found")
	ErrCartItemNotFound   = errors.New("item not found in cart")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrForbidden          = errors.New("not authorized to access this resource")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("account disabled")
	ErrInvalidPassword    = errors.New("incorrect password")
	ErrWeakPassword       = errors.New("password does not meet the policy")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
