package models

import (
	"time"

	"gorm.io/gorm"
)

// ShippingAddress 收货地址（内嵌于订单）
type ShippingAddress struct {
	Address    string `gorm:"type:varchar(200)" json:"address"`     // 街道地址
	City       string `gorm:"type:varchar(100)" json:"city"`        // 城市
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code"`  // 邮编
	Country    string `gorm:"type:varchar(100)" json:"country"`     // 国家
}

// Order 订单表
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo         string          `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号
	UserID          uint            `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Status          string          `gorm:"index;not null" json:"status"`                              // 订单状态
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"` // 收货地址
	TotalPrice      Money           `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 实付金额
	IsDelivered     bool            `gorm:"not null;default:false" json:"is_delivered"`                // 是否已送达
	DeliveredAt     *time.Time      `gorm:"index" json:"delivered_at"`                                 // 送达时间
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time       `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
