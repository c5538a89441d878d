package handlers

import (
	"strings"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lllkojlhuk/sushikub/config"
	"github.com/lllkojlhuk/sushikub/filestore"
	"github.com/lllkojlhuk/sushikub/frontpad"
)

// Package-level collaborators, set once by Initialize.
var (
	cfg        *config.Config
	fileStore  filestore.Backend
	imageCache *filestore.ImageCache
	fpClient   *frontpad.Client
)

// GetFileStore returns the active storage backend.
func GetFileStore() filestore.Backend {
	return fileStore
}

// GetImageCache returns the derived-image cache.
func GetImageCache() *filestore.ImageCache {
	return imageCache
}

// staticAssetPath matches image and asset requests exempt from rate limiting.
func staticAssetPath(path string) bool {
	if strings.HasPrefix(path, "/static/") {
		return true
	}
	switch strings.ToLower(strings.TrimPrefix(pathExt(path), ".")) {
	case "webp", "jpg", "jpeg", "png", "gif", "ico", "css", "js", "svg":
		return true
	}
	return false
}

func pathExt(p string) string {
	if idx := strings.LastIndexByte(p, '.'); idx >= 0 && !strings.ContainsRune(p[idx:], '/') {
		return p[idx:]
	}
	return ""
}

// Initialize configures all HTTP routes and middleware.
func Initialize(app *fiber.App, configuration *config.Config, backend filestore.Backend, client *frontpad.Client) {
	log.Info("Initializing application routes and middleware")

	cfg = configuration
	fileStore = backend
	imageCache = filestore.NewImageCache(backend)
	fpClient = client

	// ========================================
	// Middleware Configuration
	// ========================================
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		ContentSecurityPolicy:     "",
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))

	allowOrigins := "*"
	if cfg.IsProduction() && len(cfg.AllowedOrigins) > 0 {
		allowOrigins = strings.Join(cfg.AllowedOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// ========================================
	// Health Check
	// ========================================
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"message":   "Server is working!",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"env":       cfg.Env,
		})
	})

	// ========================================
	// Metrics
	// ========================================
	app.Get("/metrics", MetricsHandler())

	// ========================================
	// Static Images (resize middleware in front of the file server)
	// ========================================
	app.Use(ImageResizeMiddleware())
	app.Static("/", cfg.StaticDir, fiber.Static{
		MaxAge: 3600,
	})

	// ========================================
	// Rate Limits
	// ========================================
	publicAPILimiter := limiter.New(limiter.Config{
		Max:        5000,
		Expiration: 15 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			path := c.Path()
			return staticAssetPath(path) ||
				strings.HasPrefix(path, "/api/auth/") ||
				path == "/test"
		},
	})
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
	})
	adminLimiter := limiter.New(limiter.Config{
		Max:        1000,
		Expiration: 15 * time.Minute,
	})

	// ========================================
	// API Routes
	// ========================================
	api := app.Group("/api", publicAPILimiter)

	auth := api.Group("/auth", authLimiter)
	auth.Post("/login", HandleLogin)
	auth.Get("/check", AuthMiddleware(), HandleAuthCheck)

	admin := AdminMiddleware()

	types := api.Group("/type")
	types.Get("/", HandleGetTypes)
	types.Get("/:id", HandleGetType)
	types.Post("/", adminLimiter, admin, HandleCreateType)
	types.Put("/:id", adminLimiter, admin, HandleUpdateType)
	types.Delete("/:id", adminLimiter, admin, HandleDeleteType)

	categories := api.Group("/category")
	categories.Get("/", HandleGetCategories)
	categories.Get("/:id", HandleGetCategory)
	categories.Post("/", adminLimiter, admin, HandleCreateCategory)
	categories.Put("/:id", adminLimiter, admin, HandleUpdateCategory)
	categories.Delete("/:id", adminLimiter, admin, HandleDeleteCategory)

	products := api.Group("/product")
	products.Get("/", HandleGetProducts)
	products.Get("/:id", HandleGetProduct)
	products.Post("/", adminLimiter, admin, HandleCreateProduct)
	products.Put("/:id", adminLimiter, admin, HandleUpdateProduct)
	products.Delete("/:id", adminLimiter, admin, HandleDeleteProduct)

	banners := api.Group("/banner")
	banners.Get("/", HandleGetBanners)
	banners.Get("/:id", HandleGetBanner)
	banners.Post("/", adminLimiter, admin, HandleCreateBanner)
	banners.Put("/:id", adminLimiter, admin, HandleUpdateBanner)
	banners.Delete("/:id", adminLimiter, admin, HandleDeleteBanner)

	settings := api.Group("/settings")
	settings.Get("/", HandleGetSettings)
	settings.Get("/object", HandleGetSettingsObject)
	settings.Get("/key/:key", HandleGetSettingByKey)
	settings.Post("/", adminLimiter, admin, HandleCreateSetting)
	settings.Put("/:id", adminLimiter, admin, HandleUpdateSetting)
	settings.Delete("/:id", adminLimiter, admin, HandleDeleteSetting)

	orders := api.Group("/frontpad")
	orders.Post("/send-order", HandleSendOrder)
	orders.Get("/products", HandleGetFrontpadProducts)
	orders.Get("/stops", HandleGetFrontpadStops)
}
