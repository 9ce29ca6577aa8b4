package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/marmushop/booking-api/internal/config"
	dbpkg "github.com/marmushop/booking-api/internal/db"
	"github.com/marmushop/booking-api/internal/media"
	"github.com/marmushop/booking-api/internal/middleware"
	"github.com/marmushop/booking-api/internal/notify"
	"github.com/marmushop/booking-api/internal/otp"
	"github.com/marmushop/booking-api/internal/routes"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	mailer := notify.NewSMTPMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.MailFrom,
	)
	dispatcher := notify.NewDispatcher(mailer)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:         db,
		Config:     cfg,
		OTPStore:   otp.NewStore(rdb),
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Gallery:    media.NewGallery(cfg),
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
