package provider

import (
	"github.com/shopmart-api/internal/authz"
	"github.com/shopmart-api/internal/cache"
	"github.com/shopmart-api/internal/config"
	"github.com/shopmart-api/internal/logger"
	"github.com/shopmart-api/internal/models"
	"github.com/shopmart-api/internal/queue"
	"github.com/shopmart-api/internal/repository"
	"github.com/shopmart-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	UserAdminService *service.UserAdminService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo, c.OrderRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.ProductRepo, c.QueueClient)
}
