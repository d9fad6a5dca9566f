package main

import (
	"fmt"

	"github.com/shopmart-api/internal/config"
	"github.com/shopmart-api/internal/logger"
	"github.com/shopmart-api/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加商品
	products := []models.Product{
		{
			Name:        "Wireless Bluetooth Earphones",
			Description: "High quality sound, long battery life, comfortable to wear",
			Category:    "electronics",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Stock:       120,
			ImageURL:    "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
		},
		{
			Name:        "Smart Watch",
			Description: "Health monitoring, fitness tracking, message notifications",
			Category:    "electronics",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			Stock:       60,
			ImageURL:    "https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
		},
		{
			Name:        "Portable Power Bank",
			Description: "High capacity, fast charging, multi-device compatible",
			Category:    "accessories",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			Stock:       200,
			ImageURL:    "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800",
		},
		{
			Name:        "Multi-function Backpack",
			Description: "Large capacity, waterproof and anti-theft, USB charging port",
			Category:    "lifestyle",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(79.99)),
			Stock:       45,
			ImageURL:    "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
		},
		{
			Name:        "Mechanical Keyboard",
			Description: "Hot-swappable switches, RGB backlight, aluminum frame",
			Category:    "electronics",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(129.00)),
			Stock:       30,
			ImageURL:    "https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?w=800",
		},
		{
			Name:        "Stainless Steel Bottle",
			Description: "Keeps drinks cold for 24 hours, leak-proof lid",
			Category:    "lifestyle",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			Stock:       300,
			ImageURL:    "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=800",
		},
		{
			Name:        "USB-C Hub",
			Description: "7-in-1 hub with HDMI, SD card reader and 100W passthrough",
			Category:    "accessories",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(39.90)),
			Stock:       8,
			ImageURL:    "https://images.unsplash.com/photo-1625842268584-8f3296236761?w=800",
		},
		{
			// 低库存商品：用于库存预警演示
			Name:        "Noise Cancelling Headset",
			Description: "Over-ear headset with active noise cancellation",
			Category:    "electronics",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(249.00)),
			Stock:       2,
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800",
		},
	}

	created := 0
	for _, prod := range products {
		var existing models.Product
		if err := models.DB.Where("name = ?", prod.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Name)
				created++
			}
		} else {
			existing.Description = prod.Description
			existing.Category = prod.Category
			existing.Price = prod.Price
			existing.Stock = prod.Stock
			existing.ImageURL = prod.ImageURL
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Name, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Name)
			}
		}
	}

	fmt.Println("\nSeed data ready.")
	fmt.Printf("- %d products created, %d refreshed\n", created, len(products)-created)
}
