package router

import (
	"fmt"
	"strings"

	"github.com/shopmart-api/internal/cache"
	"github.com/shopmart-api/internal/config"
	adminhandlers "github.com/shopmart-api/internal/http/handlers/admin"
	publichandlers "github.com/shopmart-api/internal/http/handlers/public"
	"github.com/shopmart-api/internal/logger"
	"github.com/shopmart-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "sm"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口：商品目录浏览无需登录
		apiV1.GET("/products", publicHandler.GetProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)

		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 需鉴权接口：JWT 校验 + 角色策略校验
		authorized := apiV1.Group("")
		authorized.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RBACMiddleware(c.AuthzService))
		{
			authorized.GET("/auth/me", publicHandler.GetProfile)
			authorized.PUT("/auth/password", publicHandler.ChangePassword)

			authorized.GET("/cart", publicHandler.GetCart)
			authorized.POST("/cart/add", publicHandler.AddCartItem)
			authorized.PUT("/cart/update/:product_id", publicHandler.UpdateCartItem)
			authorized.DELETE("/cart/remove/:product_id", publicHandler.RemoveCartItem)
			authorized.DELETE("/cart/clear", publicHandler.ClearCart)

			authorized.POST("/orders", publicHandler.CreateOrder)
			authorized.GET("/orders", publicHandler.ListOrders)
			authorized.GET("/orders/:id", publicHandler.GetOrder)

			// 管理端接口（仅 role:admin 策略放行）
			authorized.POST("/products", adminHandler.CreateProduct)
			authorized.PUT("/products/:id", adminHandler.UpdateProduct)
			authorized.DELETE("/products/:id", adminHandler.DeleteProduct)
			authorized.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)

			admin := authorized.Group("/admin")
			{
				admin.GET("/orders", adminHandler.AdminListOrders)
				admin.GET("/users", adminHandler.AdminListUsers)
				admin.GET("/users/:id", adminHandler.AdminGetUser)
				admin.PUT("/users/:id/status", adminHandler.AdminUpdateUserStatus)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
