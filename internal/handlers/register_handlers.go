package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vuthy55/roomledger/cmd/docs"
	portssvc "github.com/vuthy55/roomledger/internal/core/ports/services"
	"github.com/vuthy55/roomledger/internal/middleware"
	"github.com/vuthy55/roomledger/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	registerAuthRoutes(r, cfg, services.User)

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// registerAuthRoutes sets up the public authentication routes. Login is
// rate-limited per IP.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, userService portssvc.UserSvcFacade) {
	h := NewAuthHandler(userService, cfg)

	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.Login)
		auth.POST("/register", h.Register)
	}
}

// setupAPIV1Routes configures the authenticated /api/v1 group.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, services.Ledger, services.Rates)
	registerRoomRoutes(v1, services.Room, services.Presence, services.Reconciliation)
}

func registerAccountRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, rates portssvc.RatePolicyProvider) {
	h := newAccountHandler(ledgerService, rates)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/me", h.getMyAccount)
		accounts.GET("/me/ledger", h.listMyLedger)
		accounts.POST("/me/topup", h.topUp)
	}
}

func registerRoomRoutes(rg *gin.RouterGroup, roomService portssvc.RoomSvcFacade, presenceService portssvc.PresenceSvcFacade, reconciler portssvc.ReconciliationSvcFacade) {
	h := newRoomHandler(roomService, presenceService, reconciler)

	rooms := rg.Group("/rooms")
	{
		rooms.POST("", h.createRoom)
		rooms.GET("/:roomID", h.getRoom)
		rooms.PUT("/:roomID", h.updateRoom)
		rooms.DELETE("/:roomID", h.closeRoom)
		rooms.POST("/:roomID/activity", h.markActivity)
		rooms.POST("/:roomID/join", h.joinRoom)
		rooms.POST("/:roomID/leave", h.leaveRoom)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
