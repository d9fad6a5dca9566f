package repository

import (
	"errors"

	"github.com/shopmart-api/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetByID(cartID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	GetItem(cartID, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID, productID uint) error
	ClearItems(cartID uint) error
	UpdateTotal(cartID uint, total models.Money) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByUser 获取用户购物车（含购物车项与关联商品）
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetByID 根据 ID 获取购物车（含购物车项）
func (r *GormCartRepository) GetByID(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.id ASC")
		}).
		First(&cart, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// GetItem 获取购物车项
func (r *GormCartRepository) GetItem(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(cartID, productID uint) error {
	return r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车项（保留购物车记录）
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// UpdateTotal 更新购物车合计金额
func (r *GormCartRepository) UpdateTotal(cartID uint, total models.Money) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Update("total_price", total).Error
}
