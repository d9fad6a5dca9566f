package service

import (
	"errors"
	"testing"

	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newProductServiceTest(t *testing.T) (*gorm.DB, *ProductService) {
	t.Helper()
	db := setupServiceTestDB(t)
	return db, NewProductService(repository.NewProductRepository(db))
}

func validProductInput() ProductInput {
	return ProductInput{
		Name:     "Wireless Earphones",
		Category: "electronics",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
		Stock:    10,
	}
}

func TestProductCreateValidation(t *testing.T) {
	_, svc := newProductServiceTest(t)

	input := validProductInput()
	input.Name = "  "
	if _, err := svc.Create(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name want ErrValidation got %v", err)
	}

	input = validProductInput()
	input.Price = models.NewMoneyFromDecimal(decimal.Zero)
	if _, err := svc.Create(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero price want ErrValidation got %v", err)
	}

	input = validProductInput()
	input.Stock = -1
	if _, err := svc.Create(input); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative stock want ErrValidation got %v", err)
	}
}

func TestProductCreateAndGet(t *testing.T) {
	_, svc := newProductServiceTest(t)

	created, err := svc.Create(validProductInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("created product should have an id")
	}

	got, err := svc.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Wireless Earphones" {
		t.Fatalf("name mismatch: %s", got.Name)
	}

	if _, err := svc.GetByID(9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
}

func TestProductUpdate(t *testing.T) {
	_, svc := newProductServiceTest(t)

	created, err := svc.Create(validProductInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	input := validProductInput()
	input.Name = "Updated Earphones"
	input.Stock = 3
	updated, err := svc.Update(created.ID, input)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Updated Earphones" || updated.Stock != 3 {
		t.Fatalf("update not applied: %+v", updated)
	}

	if _, err := svc.Update(9999, input); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("missing product want ErrProductNotFound got %v", err)
	}
}

func TestProductDeleteIsPhysical(t *testing.T) {
	db, svc := newProductServiceTest(t)

	created, err := svc.Create(validProductInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", created.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("product row should be gone, count=%d", count)
	}

	if err := svc.Delete(created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("repeat delete want ErrProductNotFound got %v", err)
	}
}

func TestProductListFilters(t *testing.T) {
	db, svc := newProductServiceTest(t)
	createTestProduct(t, db, "Blue Keyboard", 50, 5)
	createTestProduct(t, db, "Red Mouse", 20, 5)
	headset := createTestProduct(t, db, "Gaming Headset", 80, 5)
	if err := db.Model(headset).Update("category", "audio").Error; err != nil {
		t.Fatalf("set category failed: %v", err)
	}

	products, total, err := svc.List(repository.ProductListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(products) != 3 {
		t.Fatalf("want 3 products got total=%d len=%d", total, len(products))
	}

	products, total, err = svc.List(repository.ProductListFilter{Page: 1, PageSize: 20, Category: "audio"})
	if err != nil {
		t.Fatalf("category filter failed: %v", err)
	}
	if total != 1 || products[0].Name != "Gaming Headset" {
		t.Fatalf("category filter mismatch: total=%d", total)
	}

	products, total, err = svc.List(repository.ProductListFilter{Page: 1, PageSize: 20, Search: "Keyboard"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || products[0].Name != "Blue Keyboard" {
		t.Fatalf("search mismatch: total=%d", total)
	}

	products, total, err = svc.List(repository.ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("pagination failed: %v", err)
	}
	if total != 3 || len(products) != 1 {
		t.Fatalf("pagination mismatch: total=%d len=%d", total, len(products))
	}
}
