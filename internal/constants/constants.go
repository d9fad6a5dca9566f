package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 用户角色常量
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 商品库存状态常量
const (
	ProductStockStatusInStock    = "in_stock"
	ProductStockStatusLowStock   = "low_stock"
	ProductStockStatusOutOfStock = "out_of_stock"
)

// 库存告警阈值常量
const (
	LowStockThresholdDefault = 5
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderPlaced       = "order:placed"
	TaskOrderStatusNotify = "order:status_notify"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sm"
)
