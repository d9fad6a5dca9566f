package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopmart-api/internal/http/response"
	"github.com/shopmart-api/internal/repository"
	"github.com/shopmart-api/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserStatusRequest 更新用户状态请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminListUsers 管理端用户列表
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	users, total, err := h.UserAdminService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch users", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, users, pagination)
}

// AdminGetUser 管理端用户详情（含订单）
func (h *Handler) AdminGetUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}

	detail, err := h.UserAdminService.GetUserDetail(uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch user", err)
		return
	}

	response.Success(c, detail)
}

// AdminUpdateUserStatus 管理端更新用户状态（禁用后已签 Token 即刻失效）
func (h *Handler) AdminUpdateUserStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request", err)
		return
	}

	if err := h.UserAdminService.UpdateUserStatus(uint(userID), req.Status); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrValidation):
			respondError(c, response.CodeBadRequest, "invalid user status", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update user status", err)
		}
		return
	}

	requestLog(c).Infow("user_status_updated",
		"operator_id", adminID,
		"user_id", userID,
		"status", req.Status,
	)
	response.Success(c, gin.H{"updated": true})
}
