package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies; bulk updates are the largest
// legitimate payload and stay well under this.
const maxBodyBytes = 1 << 20 // 1 MiB

// Handlers groups the handlers the router wires up
type Handlers struct {
	System          *handler.SystemHandler
	Product         *handler.ProductHandler
	Category        *handler.CategoryHandler
	Stock           *handler.StockHandler
	Coupon          *handler.CouponHandler
	Order           *handler.OrderHandler
	PaymentCallback *handler.PaymentCallbackHandler
}

// New builds the gin engine with middleware and all routes registered.
//
// Route layout:
//
//	/health, /ready                 probes, unauthenticated
//	/api/v1/...                     storefront: browse, quote, checkout
//	/api/v1/callbacks/payment       payment gateway notifications
//	/api/v1/admin/...               back office, JWT + admin role
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.BodyLimit(maxBodyBytes),
	)

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORS(corsCfg))

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")

	// Storefront surface: product browsing, coupon validation, quoting
	// and order placement need no authentication.
	storefront := api.Group("")
	{
		storefront.GET("/products", h.Product.List)
		storefront.GET("/products/:id", h.Product.Get)
		storefront.GET("/categories", h.Category.List)
		h.Coupon.RegisterValidateRoute(storefront)
		h.Order.RegisterStorefrontRoutes(storefront)
		h.PaymentCallback.RegisterRoutes(storefront)
	}

	// Back office: full catalog, inventory, coupon and order control.
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(jwtService), middleware.RequireAdmin())
	{
		h.Product.RegisterRoutes(admin)
		h.Category.RegisterRoutes(admin)
		h.Stock.RegisterRoutes(admin)
		h.Coupon.RegisterRoutes(admin)
		h.Order.RegisterAdminRoutes(admin)
	}

	return engine
}
