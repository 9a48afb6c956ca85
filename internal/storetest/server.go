// Package storetest runs the store server in-process over in-memory sqlite
// for tests that need a real peer.
package storetest

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/api/routes"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/store"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/migrate"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	AdminEmail    = "root@bagzo.in"
	AdminPassword = "rootpass"
)

// Server is a running store with direct access to its services.
type Server struct {
	*httptest.Server
	Config   *config.Config
	DB       *db.Client
	Users    *store.Users
	Products *store.Products
	Orders   *store.Orders
	Cart     *store.Cart
	Registry *prometheus.Registry
	Admin    types.Identity
}

// Option adjusts the server config before it starts.
type Option func(*config.Config)

// WithoutRoleEnforcement turns admin route checks off.
func WithoutRoleEnforcement() Option {
	return func(cfg *config.Config) { cfg.FeatureFlags.EnforceRoles = false }
}

// Config is the baseline test configuration: fast argon2 parameters and no
// rate limiting.
func Config() *config.Config {
	return &config.Config{
		App:          config.AppConfig{Env: "test", Port: "0"},
		DB:           config.DBConfig{Driver: config.DBDriverSQLite},
		JWT:          config.JWTConfig{Secret: "storetest-secret", Issuer: "bagzo-test", ExpirationMinutes: 60},
		Password:     config.PasswordConfig{ArgonMemoryKB: 64, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
		Checkout:     config.DefaultCheckout(),
		FeatureFlags: config.FeatureFlagsConfig{EnforceRoles: true},
		CORS:         config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// sqlTrace receives gorm's own query log.
var sqlTrace gormlogger.Writer = log.New(os.Stderr, "", log.LstdFlags)

// New starts a server with a migrated schema and one seeded admin account.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()
	cfg := Config()
	for _, opt := range opts {
		opt(cfg)
	}

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.New(sqlTrace, gormlogger.Config{LogLevel: gormlogger.Silent, IgnoreRecordNotFoundError: true}),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := migrate.Run(context.Background(), sqlDB, config.DBDriverSQLite, "up"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	client := db.NewFromGorm(conn, config.DBDriverSQLite)

	users, err := store.NewUsers(store.NewUserRepository(conn), cfg.JWT, cfg.Password, nil)
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	products, err := store.NewProducts(store.NewProductRepository(conn), nil)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	orders, err := store.NewOrders(store.NewOrderRepository(conn), nil)
	if err != nil {
		t.Fatalf("orders: %v", err)
	}
	cart, err := store.NewCart(store.NewCartRepository(conn), nil)
	if err != nil {
		t.Fatalf("cart: %v", err)
	}

	admin, err := users.EnsureAdmin(context.Background(), types.NewIdentity{Name: "Root", Email: AdminEmail, Password: AdminPassword})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	reg := prometheus.NewRegistry()
	handler := routes.NewRouter(cfg, nil, routes.Deps{
		Users:      users,
		Products:   products,
		Orders:     orders,
		Cart:       cart,
		DB:         client,
		Registerer: reg,
		Gatherer:   reg,
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		_ = sqlDB.Close()
	})

	return &Server{
		Server:   srv,
		Config:   cfg,
		DB:       client,
		Users:    users,
		Products: products,
		Orders:   orders,
		Cart:     cart,
		Registry: reg,
		Admin:    admin,
	}
}
