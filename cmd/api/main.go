package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/routes"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/store"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/migrate"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		logg.Error(context.Background(), "invalid server config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, "bagzo-api", logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	conn := dbClient.DB()
	users, err := store.NewUsers(store.NewUserRepository(conn), cfg.JWT, cfg.Password, logg)
	exitOn(ctx, logg, "users service", err)
	products, err := store.NewProducts(store.NewProductRepository(conn), logg)
	exitOn(ctx, logg, "products service", err)
	orders, err := store.NewOrders(store.NewOrderRepository(conn), logg)
	exitOn(ctx, logg, "orders service", err)
	cart, err := store.NewCart(store.NewCartRepository(conn), logg)
	exitOn(ctx, logg, "cart service", err)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		Users:      users,
		Products:   products,
		Orders:     orders,
		Cart:       cart,
		DB:         dbClient,
		Redis:      redisClient,
		Registerer: reg,
		Gatherer:   reg,
	})

	ctx = logg.WithFields(ctx, map[string]any{
		"env":       cfg.App.Env,
		"db_driver": cfg.DB.Driver,
	})
	if err := api.Serve(ctx, api.NewServer(cfg, handler), nil, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func exitOn(ctx context.Context, logg *logger.Logger, what string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to build "+what, err)
	os.Exit(1)
}
