package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"restaurant_manager/config"
	"restaurant_manager/database"
	"restaurant_manager/handler"
	"restaurant_manager/helper"
	"restaurant_manager/middleware"
	"restaurant_manager/router"
	"restaurant_manager/utils"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	if level, err := logrus.ParseLevel(settings.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if settings.JwtSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	db, err := database.ConnectDB(settings)
	if err != nil {
		logrus.WithError(err).Fatal("database unavailable")
	}
	defer database.Close(db)
	database.SeedData(db, settings.AdminEmail, settings.AdminPassword)

	var rdb *redis.Client
	if settings.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
		defer rdb.Close()
	}

	loc := utils.LoadLocation(settings.AppTimezone)
	sessions := helper.NewSessions(settings.JwtSecret, settings.CustomerJwtSecret)
	discounts := helper.NewDiscountEvaluator(db)
	notifier := helper.NewNotifier(db, rdb)
	mailer := utils.NewMailer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUsername, settings.SMTPPassword, settings.SMTPFrom)
	orders := helper.NewOrderService(db, discounts, notifier, mailer, loc)

	subscriptions, err := helper.StartSubscriptionScheduler(db, loc)
	if err != nil {
		logrus.WithError(err).Fatal("failed to start subscription scheduler")
	}
	defer subscriptions.Shutdown()
	pruner, err := helper.StartNotificationPruner(db)
	if err != nil {
		logrus.WithError(err).Fatal("failed to start notification pruner")
	}
	defer pruner.Stop()

	h := handler.New(db, sessions, orders, discounts, notifier)
	h.SecureCookies = settings.SecureCookies
	guard := middleware.NewGuard(sessions)

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: utils.HandleError,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	router.SetupRoutes(app, h, guard)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(":" + settings.AppPort)
	})
	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")
		return app.Shutdown()
	})
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("server stopped")
	}
}
