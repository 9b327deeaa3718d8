package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"memora/config"
	"memora/handlers/api"
	"memora/middleware"
	"memora/service"
	"memora/storage"
	"memora/utils"
	wshub "memora/ws"
)

func main() {
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		return
	}
	utils.Log.SetLevel(utils.ParseLogLevel(cfg.Log.Level))

	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
		return
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		utils.Log.Error("Failed to open store: %v", err)
		return
	}
	defer store.Close()

	hub := wshub.NewHub()
	go hub.Run()

	cache := utils.NewMemoryCache()
	authService := service.NewAuthService(store)
	notesService := service.NewNotesService(store)

	app := fiber.New(fiber.Config{
		ErrorHandler: api.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
	}))
	app.Use(middleware.LocaleMiddleware())
	app.Use(middleware.RateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window()))

	authHandler := api.NewAuthHandler(cfg, authService)
	folderHandler := api.NewFolderHandler(notesService, cache, hub)
	noteHandler := api.NewNoteHandler(notesService, hub)
	searchHandler := api.NewSearchHandler(notesService)

	// Public routes
	app.Post("/api/auth/signup", authHandler.Signup)
	app.Post("/api/auth/login", authHandler.Login)

	// Protected routes
	protected := app.Group("/api", api.AuthMiddleware(cfg))
	{
		protected.Get("/auth/me", authHandler.Me)

		protected.Get("/folders", folderHandler.List)
		protected.Post("/folders", folderHandler.Create)
		protected.Put("/folders/:id", folderHandler.Rename)
		protected.Delete("/folders/:id", folderHandler.Delete)
		protected.Get("/folders/:id/notes", folderHandler.Notes)

		protected.Get("/notes", noteHandler.List)
		protected.Get("/notes/recent", noteHandler.Recent)
		protected.Post("/notes", noteHandler.Create)
		protected.Put("/notes/:id", noteHandler.Update)
		protected.Patch("/notes/:id", noteHandler.Move)
		protected.Delete("/notes/:id", noteHandler.Delete)

		protected.Post("/search", searchHandler.HandleSearch)
	}

	// Change feed: same bearer credential, passed as a query parameter
	app.Use("/ws", api.AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		if userID == "" {
			conn.Close()
			return
		}
		hub.HandleConnection(userID, conn)
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// 404 for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundError("error_not_found", nil)
	})

	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
