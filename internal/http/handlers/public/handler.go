package public

import "github.com/shopmart-api/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器用于商品浏览、用户认证、购物车与订单等用户侧 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
