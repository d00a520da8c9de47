package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventcrew/eventcrew-api/internal/config"
	"github.com/eventcrew/eventcrew-api/internal/db"
	"github.com/eventcrew/eventcrew-api/internal/handlers"
	"github.com/eventcrew/eventcrew-api/internal/middleware"
	"github.com/eventcrew/eventcrew-api/internal/models"
	"github.com/eventcrew/eventcrew-api/internal/observability"
	"github.com/eventcrew/eventcrew-api/internal/payments"
	"github.com/eventcrew/eventcrew-api/internal/realtime"
	"github.com/eventcrew/eventcrew-api/internal/services/cardcom"
	"github.com/eventcrew/eventcrew-api/internal/services/jobrequest"
	"github.com/eventcrew/eventcrew-api/internal/services/rating"
	"github.com/eventcrew/eventcrew-api/internal/sms"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.JobRequest{},
		&models.Rating{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}

	hub := realtime.NewHub(logger)
	go hub.Run()

	notifier := realtime.NewNotifier(hub, rdb, logger)
	go notifier.Listen(context.Background())

	engine := jobrequest.NewService(gdb, notifier)
	ratings := rating.NewService(gdb)
	gateway := cardcom.NewService()
	sessions := payments.NewSessionStore(rdb)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
		SMS:       &sms.LogSender{Logger: logger},
		Logger:    logger,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:             gdb,
		JWTSecret:      cfg.JWTSecret,
		Expires:        cfg.JWTExpiresMin,
		GoogleClientID: cfg.GoogleClientID,
		GoogleSecret:   cfg.GoogleSecret,
		GoogleRedirect: cfg.GoogleRedirect,
		FrontendURL:    cfg.FrontendURL,
	}
	userH := handlers.NewUserHandler(gdb, ratings)
	jobReqH := handlers.NewJobRequestHandler(engine)
	paymentH := &handlers.PaymentHandler{
		Engine:      engine,
		Gateway:     gateway,
		Sessions:    sessions,
		PlatformFee: cfg.PlatformFee,
		BaseURL:     cfg.BaseURL,
		FrontendURL: cfg.FrontendURL,
		Logger:      logger,
	}
	ratingH := handlers.NewRatingHandler(ratings)
	notifH := handlers.NewNotificationHandler(hub, cfg.JWTSecret, logger)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.FrontendURL,
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Length",
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/send-code", authH.SendCode)
	api.Post("/auth/phone-login", authH.PhoneLogin)
	api.Post("/auth/password-login", authH.PasswordLogin)
	api.Post("/auth/password-reset/request", authH.RequestPasswordReset)
	api.Post("/auth/password-reset/confirm", authH.ResetPassword)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// gateway-originated; authenticated against the gateway itself
	api.Post("/payments/callback", paymentH.HandleCallback)

	// protected (JWT bearer)
	protected := api.Group("/", middleware.JWTBearer(cfg.JWTSecret))

	protected.Post("/sessions/verify", authH.VerifySession)
	protected.Get("/workers", userH.ListWorkers)
	protected.Patch("/users/me", userH.UpdateMe)

	protected.Post("/job-requests", jobReqH.Create)
	protected.Get("/job-requests", jobReqH.List)
	protected.Get("/job-requests/:id", jobReqH.Get)
	protected.Post("/job-requests/:id/status", jobReqH.UpdateStatus)

	protected.Post("/payments/:job_request_id/create", paymentH.CreatePayment)

	protected.Get("/ratings", ratingH.List)
	protected.Post("/ratings", ratingH.Submit)

	// websocket (token via query param)
	app.Get("/ws/notifications", websocket.New(notifH.WebSocketHandler))

	logger.Info("listening", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
