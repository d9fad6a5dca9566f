package service

import (
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService 购物车服务
//
// 每个用户一条购物车记录，首次读取时惰性创建。全部写路径在单个
// gorm 事务内完成读-改-写并重算合计，同一购物车的并发写由存储层
// 串行化，后写覆盖先写。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart 获取用户购物车，不存在则创建空车
func (s *CartService) GetOrCreateCart(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, ErrValidation
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return cart, nil
}

// AddItem 添加商品到购物车
//
// 库存校验只比较本次增量与当前库存，不做跨购物车的累计预占。
// 已存在的行累加数量，否则以当前商品价格快照新建一行。
func (s *CartService) AddItem(userID, productID uint, quantity int) (*models.Cart, error) {
	if userID == 0 || productID == 0 || quantity < 1 {
		return nil, ErrValidation
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if product.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	err = s.cartRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.cartRepo.WithTx(tx)
		cart, err := txRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{UserID: userID}
			if err := txRepo.Create(cart); err != nil {
				return err
			}
		}

		existing, err := txRepo.GetItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := txRepo.UpdateItemQuantity(existing.ID, existing.Quantity+quantity); err != nil {
				return err
			}
		} else {
			item := &models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				Price:     product.Price,
			}
			if err := txRepo.CreateItem(item); err != nil {
				return err
			}
		}
		return recalcCartTotal(txRepo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUser(userID)
}

// UpdateItemQuantity 更新购物车项数量
//
// 数量 <= 0 等价于删除该行；新数量不做库存复核。
func (s *CartService) UpdateItemQuantity(userID, productID uint, quantity int) (*models.Cart, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrValidation
	}

	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.cartRepo.WithTx(tx)
		cart, err := txRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		item, err := txRepo.GetItem(cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}
		if quantity <= 0 {
			if err := txRepo.DeleteItem(cart.ID, productID); err != nil {
				return err
			}
		} else {
			if err := txRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
				return err
			}
		}
		return recalcCartTotal(txRepo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUser(userID)
}

// RemoveItem 删除购物车项（不存在视为成功）
func (s *CartService) RemoveItem(userID, productID uint) (*models.Cart, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrValidation
	}

	err := s.cartRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.cartRepo.WithTx(tx)
		cart, err := txRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		if err := txRepo.DeleteItem(cart.ID, productID); err != nil {
			return err
		}
		return recalcCartTotal(txRepo, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUser(userID)
}

// ClearCart 清空购物车（保留购物车记录）
func (s *CartService) ClearCart(userID uint) error {
	if userID == 0 {
		return ErrValidation
	}
	return s.cartRepo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.cartRepo.WithTx(tx)
		cart, err := txRepo.GetByUser(userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		if err := txRepo.ClearItems(cart.ID); err != nil {
			return err
		}
		return txRepo.UpdateTotal(cart.ID, models.NewMoneyFromDecimal(decimal.Zero))
	})
}

// recalcCartTotal 以快照价重算合计并落库：total = Σ(price × quantity)
func recalcCartTotal(repo repository.CartRepository, cartID uint) error {
	cart, err := repoCartByID(repo, cartID)
	if err != nil {
		return err
	}
	total := decimal.Zero
	for _, item := range cart.Items {
		line := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return repo.UpdateTotal(cartID, models.NewMoneyFromDecimal(total))
}

func repoCartByID(repo repository.CartRepository, cartID uint) (*models.Cart, error) {
	cart, err := repo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}
