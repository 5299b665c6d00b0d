// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/HansOheneba/airban-api/docs"
	"github.com/HansOheneba/airban-api/internal/cache"
	"github.com/HansOheneba/airban-api/internal/config"
	"github.com/HansOheneba/airban-api/internal/http/handlers"
	"github.com/HansOheneba/airban-api/internal/http/middleware"
	"github.com/HansOheneba/airban-api/internal/notify"
	"github.com/HansOheneba/airban-api/internal/services"
)

const (
	// defaultBodyLimit caps JSON request bodies.
	defaultBodyLimit = 1 << 20
	// imageBodyLimit fits an 8 MiB image as base64 JSON or multipart.
	imageBodyLimit = handlers.MaxImageBytes*4/3 + 64<<10
)

// Deps are the collaborators the API needs. Cache and Images may be nil;
// Notifier defaults to notify.Discard.
type Deps struct {
	DB       *gorm.DB
	Notifier notify.Notifier
	Cache    cache.Cache
	Images   handlers.ImageUploader
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Metrics, then gzip (never for /metrics)
//  6. Idempotency validator on order submission (before the rate limiter so
//     replays bypass it)
//  7. Rate limiter (per client IP)
//  8. CORS and Security headers
//
// Body size limits are applied per route group.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}

	// Dependency injection: services ← db/cache/notifier
	catalog := &services.CatalogService{
		DB:             deps.DB,
		Cache:          deps.Cache,
		CacheTTL:       cfg.Cache.CatalogTTL,
		AcquireTimeout: cfg.DB.AcquireTimeout,
	}
	orders := &services.OrderService{
		DB:             deps.DB,
		Notifier:       deps.Notifier,
		AcquireTimeout: cfg.DB.AcquireTimeout,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	h := handlers.New(handlers.Services{
		Catalog:    catalog,
		Orders:     orders,
		Property:   services.NewPropertyEnquiryService(deps.DB, deps.Notifier, cfg.DB.AcquireTimeout),
		Contact:    services.NewContactEnquiryService(deps.DB, deps.Notifier, cfg.DB.AcquireTimeout),
		Newsletter: &services.NewsletterService{DB: deps.DB, Notifier: deps.Notifier, AcquireTimeout: cfg.DB.AcquireTimeout},
		Images:     deps.Images,
	})

	apiBase := cfg.APIBasePath

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-API-Key"},
	}))
	r.Use(middleware.Recovery())

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	r.Use(onlyRoute(http.MethodPost, joinPath(apiBase, "/orders"), middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, key string, _ time.Time) (bool, error) {
			return orders.HasReplay(ctx, key)
		},
	)))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{middleware.HeaderRequestID, middleware.HeaderIdempotencyReplayed, "Retry-After", "Content-Length"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	base := groupWithPrefix(r, apiBase)
	base.POST("/images", middleware.BodyLimit(imageBodyLimit), h.UploadImage)

	api := base.Group("", middleware.BodyLimit(defaultBodyLimit))
	{
		// Catalog
		api.GET("/doors", h.ListDoors)
		api.GET("/doors/:id", h.GetDoor)
		api.POST("/doors", h.CreateDoor)
		api.PATCH("/doors/:id", h.UpdateDoor)
		api.DELETE("/doors/:id", h.DeleteDoor)

		// Orders
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders/complete/:id", h.CompleteOrder)
		api.DELETE("/orders/:id", h.DeleteOrder)

		// Enquiries
		mountEnquiries(api.Group("/property"), h.Property)
		mountEnquiries(api.Group("/contact"), h.Contact)

		// Newsletter
		api.POST("/subscribe", h.Subscribe)
	}
}

// enquiryRoutes is the handler set shared by both enquiry variants.
type enquiryRoutes interface {
	Create(*gin.Context)
	List(*gin.Context)
	Get(*gin.Context)
	Resolve(*gin.Context)
	Unresolve(*gin.Context)
	Delete(*gin.Context)
}

func mountEnquiries(g *gin.RouterGroup, h enquiryRoutes) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/resolve", h.Resolve)
	g.POST("/:id/unresolve", h.Unresolve)
	g.DELETE("/:id", h.Delete)
}

// onlyRoute runs mw for requests matching method and the registered route
// path; other requests skip it.
func onlyRoute(method, fullPath string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == method && c.FullPath() == fullPath {
			mw(c)
			return
		}
		c.Next()
	}
}

// joinPath appends route to a normalized base path.
func joinPath(base, route string) string {
	if base == "" || base == "/" {
		return route
	}
	return base + route
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
