package service

import (
	"context"
	"strings"

	"github.com/shopmart-api/internal/cache"
	"github.com/shopmart-api/internal/constants"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"
)

// UserDetail 管理端用户详情（附带订单）
type UserDetail struct {
	User   *models.User   `json:"user"`
	Orders []models.Order `json:"orders"`
}

// UserAdminService 管理端用户服务
type UserAdminService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

// NewUserAdminService 创建管理端用户服务
func NewUserAdminService(userRepo repository.UserRepository, orderRepo repository.OrderRepository) *UserAdminService {
	return &UserAdminService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

// ListUsers 用户列表
func (s *UserAdminService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetUserDetail 用户详情（含该用户全部订单）
func (s *UserAdminService) GetUserDetail(userID uint) (*UserDetail, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	orders, _, err := s.orderRepo.ListByUser(repository.OrderListFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: user, Orders: orders}, nil
}

// UpdateUserStatus 更新用户状态（禁用会同步失效已签发 Token）
func (s *UserAdminService) UpdateUserStatus(userID uint, status string) error {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized != constants.UserStatusActive && normalized != constants.UserStatusDisabled {
		return ErrValidation
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.UpdateStatus(userID, normalized); err != nil {
		return err
	}
	updated, err := s.userRepo.GetByID(userID)
	if err == nil && updated != nil {
		_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(updated))
	}
	return nil
}
