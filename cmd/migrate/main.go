package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/internal/store"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/config"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/db"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/logger"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/migrate"
	"github.com/shahidaboobacker1-abuu/Bagzo-project/pkg/types"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate|seed-admin")
	dir := flag.String("dir", migrate.DefaultDir, "migrations directory (for create and validate)")

	name := flag.String("name", "", "migration name (for create) or admin display name (for seed-admin)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	email := flag.String("email", "", "admin email for -cmd=seed-admin")
	password := flag.String("password", os.Getenv("BAGZO_ADMIN_PASSWORD"), "admin password for -cmd=seed-admin")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":       cfg.App.Env,
		"cmd":       *cmd,
		"db_driver": cfg.DB.Driver,
	})

	// Commands that do NOT require DB
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail("failed to create migration: %v", err)
		}
		fmt.Println("created migration:", path)
		return

	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail("migration validation failed: %v", err)
		}
		fmt.Println("migration validation passed")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up", "down":
		if err := migrate.Run(ctx, sqlDB, cfg.DB.Driver, *cmd); err != nil {
			fail("%v", err)
		}

	case "status":
		statuses, err := migrate.Status(ctx, sqlDB, cfg.DB.Driver)
		if err != nil {
			fail("%v", err)
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSTATE\tSOURCE")
		for _, st := range statuses {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", st.Source.Version, st.State, st.Source.Path)
		}
		_ = tw.Flush()

	case "version":
		if *version == "" {
			current, err := migrate.CurrentVersion(ctx, sqlDB, cfg.DB.Driver)
			if err != nil {
				fail("%v", err)
			}
			fmt.Println(current)
			return
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, cfg.DB.Driver, *version); err != nil {
			fail("goose version migrate failed: %v", err)
		}

	case "seed-admin":
		if *email == "" || *password == "" {
			fail("seed-admin needs -email and -password (or BAGZO_ADMIN_PASSWORD)")
		}
		users, err := store.NewUsers(store.NewUserRepository(dbClient.DB()), cfg.JWT, cfg.Password, logg)
		requireResource(ctx, logg, "users service", err)
		displayName := *name
		if displayName == "" {
			displayName = "Administrator"
		}
		admin, err := users.EnsureAdmin(ctx, types.NewIdentity{Name: displayName, Email: *email, Password: *password})
		if err != nil {
			fail("seed admin failed: %v", err)
		}
		fmt.Printf("admin ready: %s (%s)\n", admin.Email, admin.ID)

	default:
		fail("unknown -cmd value: %s", *cmd)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
