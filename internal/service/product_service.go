package service

import (
	"strings"

	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductInput 商品创建/更新输入
type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       models.Money
	Stock       int
	ImageURL    string
}

// ProductService 商品服务
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List 商品列表
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// GetByID 商品详情
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrProductNotFound
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Category = strings.TrimSpace(input.Category)
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品（物理删除）
func (s *ProductService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrValidation
	}
	if input.Price.Decimal.Cmp(decimal.Zero) <= 0 {
		return ErrValidation
	}
	if input.Stock < 0 {
		return ErrValidation
	}
	return nil
}
