package public

import (
	"errors"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func authUserView(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"role":          user.Role,
		"status":        user.Status,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	}
}

// UserRegister 用户注册
func (h *Handler) UserRegister(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, response.CodeBadRequest, "invalid request", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeBadRequest, "email already registered", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "failed to register", err)
		}
		return
	}

	response.Created(c, gin.H{
		"user":       authUserView(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondError(c, response.CodeBadRequest, "invalid request", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeUnauthorized, "account is disabled", nil)
		default:
			respondError(c, response.CodeInternal, "failed to login", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       authUserView(user),
		"token":      token,
		"expires_at": expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// GetProfile 获取当前用户资料
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch profile", err)
		return
	}

	response.Success(c, authUserView(user))
}

// ChangePassword 登录态修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	if err := h.UserAuthService.ChangePassword(uid, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "old password is incorrect", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "failed to change password", err)
		}
		return
	}

	response.Success(c, gin.H{"updated": true})
}
