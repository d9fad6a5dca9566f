package models

import (
	"time"
)

// Product 商品表
//
// 商品删除为物理删除：历史订单保留商品快照，不依赖商品行存在。
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                 // 主键
	Name        string    `gorm:"not null;index" json:"name"`                           // 商品名称
	Description string    `gorm:"type:text" json:"description"`                         // 商品描述
	Category    string    `gorm:"type:varchar(100);index" json:"category"`              // 分类
	Price       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`   // 价格
	Stock       int       `gorm:"not null;default:0" json:"stock"`                      // 库存数量
	ImageURL    string    `gorm:"type:varchar(500)" json:"image_url"`                   // 商品图片
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt   time.Time `json:"updated_at"`                                           // 更新时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
