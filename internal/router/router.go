package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tablebook/internal/auth"
	"tablebook/internal/menu"
	"tablebook/internal/metrics"
	"tablebook/internal/middleware"
	"tablebook/internal/order"
	"tablebook/internal/session"
)

// Deps is everything the HTTP surface needs. Auth and Tokens may be nil, in
// which case the staff routes are not mounted.
type Deps struct {
	Log         logrus.FieldLogger
	Metrics     *metrics.Metrics
	CORSOrigins []string

	Menu     *menu.Service
	Orders   *order.Service
	Sessions *session.Service
	Auth     *auth.Service
	Tokens   *auth.TokenIssuer
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Log), d.Metrics.Middleware())

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", order.IdempotencyHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "ok",
			"menu_items": d.Menu.Current().Len(),
		})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// ───────────────────────── GUEST ROUTES ─────────────────────────
	menuHandler := menu.NewHandler(d.Menu)
	orderHandler := order.NewHandler(d.Orders)
	sessionHandler := session.NewHandler(d.Sessions)

	r.GET("/menu", menuHandler.Get)
	r.POST("/orders", orderHandler.PlaceOrder)

	sessions := r.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Create)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.DELETE("/:id", sessionHandler.Close)
		sessions.PUT("/:id/items", sessionHandler.SetItem)
		sessions.POST("/:id/order", sessionHandler.PlaceOrder)
	}

	// ───────────────────────── STAFF ROUTES ─────────────────────────
	if d.Auth == nil || d.Tokens == nil {
		return r
	}

	authHandler := auth.NewHandler(d.Auth)
	r.POST("/auth/login", authHandler.Login)

	admin := r.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(d.Tokens, d.Log),
		middleware.RequireRole(auth.RoleAdmin, auth.RoleStaff),
	)
	{
		admin.GET("/orders", order.NewAdminHandler(d.Orders).List)
	}

	reload := r.Group("/admin/menu")
	reload.Use(
		middleware.AuthMiddleware(d.Tokens, d.Log),
		middleware.RequireRole(auth.RoleAdmin),
	)
	{
		reload.POST("/reload", menu.NewAdminHandler(d.Menu).Reload)
	}

	return r
}

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}
