// Command admin runs one-off maintenance tasks against the storefront
// database:
//
//	admin promote -username alice [-role admin]
//	admin reindex
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
)

const reindexBatch = 200

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin promote -username NAME [-role admin|user]")
	fmt.Fprintln(os.Stderr, "       admin reindex")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "admin")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	defer db.Close(gdb)
	if err := db.Migrate(ctx, gdb); err != nil {
		log.Fatalf("Ошибка миграции БД: %v", err)
	}
	store := repo.New(gdb)

	switch os.Args[1] {
	case "promote":
		fs := flag.NewFlagSet("promote", flag.ExitOnError)
		username := fs.String("username", "", "user to change")
		role := fs.String("role", models.RoleAdmin, "new role (admin or user)")
		_ = fs.Parse(os.Args[2:])
		err = promote(ctx, store, *username, *role)
	case "reindex":
		if cfg.ESURL == "" {
			log.Fatal("ES_URL is not set")
		}
		client, cerr := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if cerr != nil {
			log.Fatalf("elasticsearch: %v", cerr)
		}
		err = reindex(ctx, store, &search.Elastic{ES: client, IndexName: cfg.ESIndex})
	default:
		usage()
	}
	if err != nil {
		logger.Error("admin_command_failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func promote(ctx context.Context, store *repo.GormRepo, username, role string) error {
	if username == "" {
		return errors.New("-username is required")
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return fmt.Errorf("unknown role %q", role)
	}
	if err := store.SetRole(ctx, username, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %q does not exist", username)
		}
		return err
	}
	logging.FromContext(ctx).Info("role_changed", "username", username, "role", role)
	return nil
}

// reindex pushes every product into the search engine.
func reindex(ctx context.Context, store *repo.GormRepo, engine search.Engine) error {
	l := logging.FromContext(ctx)
	indexed := 0
	for offset := 0; ; offset += reindexBatch {
		total, items, err := store.GetProducts(ctx, offset, reindexBatch)
		if err != nil {
			return err
		}
		for _, p := range items {
			if err := engine.Index(ctx, search.DocumentFrom(p)); err != nil {
				return fmt.Errorf("index product %d: %w", p.ID, err)
			}
			indexed++
		}
		if len(items) < reindexBatch || int64(offset+len(items)) >= total {
			break
		}
	}
	l.Info("reindex_complete", "products", indexed)
	return nil
}
