package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jjatencia/cashflow/internal/config"
	"github.com/jjatencia/cashflow/internal/handler"
	"github.com/jjatencia/cashflow/internal/infra"
	"github.com/jjatencia/cashflow/internal/middleware"
	"github.com/jjatencia/cashflow/internal/repository"
	"github.com/jjatencia/cashflow/internal/service"
	"github.com/jjatencia/cashflow/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← KVStore ← DB
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, sales *infra.SalesAPIClient, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	kv := repository.NewKVStore(db)
	recordRepo := repository.NewDailyRecordRepository(kv)
	movementRepo := repository.NewMovementRepository(kv)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(recordRepo, movementRepo, salesProvider(sales), dispatcher)
	movimientoSvc := service.NewMovimientoService(movementRepo)
	historialSvc := service.NewHistorialService(recordRepo, movementRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	movimientosH := handler.NewMovimientosHandler(movimientoSvc)
	historialH := handler.NewHistorialHandler(historialSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, sales))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/signup", authH.Signup)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: barbero, encargado, administrador — declared per-endpoint
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("barbero", "encargado", "administrador"), cajaH.Abrir)
			caja.POST("/cerrar", middleware.RequireRole("barbero", "encargado", "administrador"), cajaH.Cerrar)
			caja.GET("/estado", middleware.RequireRole("barbero", "encargado", "administrador"), cajaH.Estado)
			caja.GET("/totales-sugeridos", middleware.RequireRole("barbero", "encargado", "administrador"), cajaH.TotalesSugeridos)
			// Amending or deleting a closed day is a supervision task
			caja.PATCH("/corregir", middleware.RequireRole("encargado", "administrador"), cajaH.Corregir)
			caja.DELETE("", middleware.RequireRole("administrador"), cajaH.Eliminar)
		}

		movs := v1.Group("/movimientos")
		{
			movs.POST("", middleware.RequireRole("barbero", "encargado", "administrador"), movimientosH.Agregar)
			movs.GET("", middleware.RequireRole("barbero", "encargado", "administrador"), movimientosH.Listar)
			movs.PUT("/:id", middleware.RequireRole("barbero", "encargado", "administrador"), movimientosH.Editar)
			movs.DELETE("/:id", middleware.RequireRole("encargado", "administrador"), movimientosH.Eliminar)
		}

		hist := v1.Group("/historial", middleware.RequireRole("encargado", "administrador"))
		{
			hist.GET("", historialH.Historial)
			hist.GET("/export", historialH.Exportar)
		}

		v1.GET("/usuarios", middleware.RequireRole("administrador"), usuariosH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

// salesProvider adapts a possibly-nil client into the service-layer interface.
// A nil *SalesAPIClient stored in a non-nil interface would dodge the service's
// nil check, so the conversion happens here.
func salesProvider(c *infra.SalesAPIClient) service.SalesTotalsProvider {
	if c == nil {
		return nil
	}
	return c
}
