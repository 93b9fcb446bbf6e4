// Command migrate manages the SQL session schema and prunes idle session state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/nexora-storefront/pkg/config"
	"github.com/angelmondragon/nexora-storefront/pkg/db"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
	"github.com/angelmondragon/nexora-storefront/pkg/migrate"
	"github.com/angelmondragon/nexora-storefront/pkg/storage"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "command: up|down|status|version|create|validate|prune")
	dir := flag.String("dir", migrate.EmbeddedDir, "goose migrations directory (empty uses the embedded set)")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	idle := flag.Duration("idle", 30*24*time.Hour, "prune sessions untouched for this long (for prune)")
	flag.Parse()

	// create and validate only touch files.
	switch *cmd {
	case "create":
		target := *dir
		if target == migrate.EmbeddedDir {
			target = migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, *name)
		exitOn(err, "create migration")
		fmt.Println("created migration:", path)
		return
	case "validate":
		exitOn(migrate.ValidateDir(*dir), "validate migrations")
		fmt.Println("migration validation passed")
		return
	}

	cfg, err := config.Load()
	exitOn(err, "load config")
	exitOn(cfg.DB.EnsureDSN(), "database config")

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "cmd": *cmd, "driver": cfg.DB.Driver})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	exitOn(err, "open database")
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	exitOn(err, "sql handle")

	switch *cmd {
	case "up", "down", "status":
		exitOn(migrate.Run(ctx, sqlDB, dbClient.Dialect(), *dir, *cmd), "goose "+*cmd)
	case "version":
		if *version == "" {
			exitOn(fmt.Errorf("missing -version"), "goose version")
		}
		exitOn(migrate.MigrateToVersion(ctx, sqlDB, dbClient.Dialect(), *dir, *version), "goose version")
	case "prune":
		cutoff := time.Now().Add(-*idle)
		removed, err := storage.NewSQLBackend(dbClient.DB()).Prune(ctx, cutoff)
		exitOn(err, "prune sessions")
		logg.Info(logg.WithFields(ctx, map[string]any{"removed_rows": removed, "cutoff": cutoff.UTC()}), "idle sessions pruned")
	default:
		exitOn(fmt.Errorf("unknown -cmd value %q", *cmd), "dispatch")
	}
}

func exitOn(err error, step string) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", step, err)
	os.Exit(1)
}
