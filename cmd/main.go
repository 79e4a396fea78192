package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"groupmod/backend/internal/api/handler"
	"groupmod/backend/internal/config"
	"groupmod/backend/internal/eventhub"
	"groupmod/backend/internal/models"
	"groupmod/backend/internal/moderation"
	"groupmod/backend/internal/storage"
	"groupmod/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL. TranslateError turns driver unique-violations into
	// gorm.ErrDuplicatedKey, which the storage layer relies on.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomModerator{},
		&models.RoomMessage{},
		&models.RoomAttachment{},
		&models.RoomActivity{},
		&models.AuditEntry{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting GroupMod Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set!")
	}

	// 1. Dependencies
	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// 2. Moderation core and event hub
	mod := moderation.NewService(s)
	hub := eventhub.NewManager(s)
	go hub.Run()

	// 3. Optional operator notifications
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifier, err := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		hub.RegisterCh <- notifier
		notifier.Run()
	}

	// 4. Gin routing; every route requires an operator token
	r := gin.Default()
	h := handler.NewHandler(mod, s, hub, []byte(cfg.JWTSecret))

	authed := r.Group("/", h.RequireOperator)
	authed.POST("/rooms", h.CreateRoom)
	authed.GET("/rooms", h.ListRooms)
	authed.DELETE("/rooms/:token", h.DeleteRoom)
	authed.GET("/rooms/:token/moderators", h.RoomModerators)
	authed.POST("/rooms/:token/pins", h.PinMessage)
	authed.DELETE("/rooms/:token/pins/:id", h.UnpinMessage)
	authed.POST("/roles", h.AddRoles)
	authed.DELETE("/roles", h.RemoveRoles)
	authed.GET("/global-moderators", h.GlobalModerators)
	authed.POST("/users/:sessionID/ban", h.BanUser)
	authed.DELETE("/users/:sessionID/ban", h.UnbanUser)
	authed.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           cfg.ListenAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
