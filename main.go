package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"boutique/internal/checkout"
	"boutique/internal/config"
	"boutique/internal/database"
	"boutique/internal/handlers"
	"boutique/internal/middleware"
	"boutique/internal/notify"
	"boutique/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Println("⚠️ product index warning:", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Println("⚠️ order index warning:", err)
	}
	if err := database.EnsureProfileIndexes(db); err != nil {
		log.Println("⚠️ profile index warning:", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Println("⚠️ user index warning:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var notifier checkout.Notifier = notify.LogMailer{Log: logger}
	if cfg.AmqpURL != "" {
		conn, ch, err := notify.Connect(cfg.AmqpURL, cfg.EmailQueue)
		if err != nil {
			log.Fatal("AMQP connect failed: ", err)
		}
		defer conn.Close()
		defer ch.Close()
		notifier = notify.NewMailer(ch, cfg.EmailQueue, cfg.DefaultFromEmail)
		log.Println("mail queue connected:", cfg.EmailQueue)
	} else {
		log.Println("AMQP_URL not set, order confirmations will only be logged")
	}

	orders := storage.NewOrderStore(db)
	products := storage.NewProductStore(db)
	profiles := storage.NewProfileStore(db)
	users := storage.NewUserStore(db)

	engine := checkout.NewEngine(orders, products, profiles, notifier, logger)

	r := gin.Default()

	r.POST("/checkout/wh", handlers.StripeWebhook(engine, cfg.StripeWebhookSecret))
	r.POST("/checkout", middleware.OptionalUserAuth(cfg.JWTSecret),
		handlers.CreateOrder(orders, products, profiles, cfg.FreeDeliveryMin, cfg.DeliveryPercentage))
	r.GET("/checkout/orders/:orderNumber", handlers.GetOrder(orders))

	r.GET("/products", handlers.GetProducts(products))
	r.GET("/products/:id", handlers.GetProduct(products))
	r.GET("/categories", handlers.GetCategories(products))

	r.POST("/auth/register", handlers.Register(users, profiles, cfg.JWTSecret, cfg.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(users, cfg.JWTSecret, cfg.AccessTokenTTL))

	profile := r.Group("/profile")
	profile.Use(middleware.UserAuth(cfg.JWTSecret))
	{
		profile.GET("", handlers.GetProfile(profiles))
		profile.PUT("", handlers.UpdateProfile(profiles))
		profile.GET("/orders", handlers.GetProfileOrders(orders, profiles))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
