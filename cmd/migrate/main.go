package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/invixio/invixio/internal/config"
)

// Applies the SQL files under migrations/ in lexical order. Each file runs in
// its own transaction and is recorded in schema_migrations so reruns are
// no-ops.
func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("failed to read migrations directory: %v", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if *dryRun {
		for _, name := range files {
			content, err := os.ReadFile(filepath.Join(*dir, name))
			if err != nil {
				log.Fatalf("failed to read %s: %v", name, err)
			}
			fmt.Printf("-- %s\n%s\n", name, content)
		}
		return
	}

	db, err := sqlx.Open("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	applied := map[string]bool{}
	var names []string
	if err := db.Select(&names, `SELECT name FROM schema_migrations`); err != nil {
		log.Fatalf("failed to read applied migrations: %v", err)
	}
	for _, name := range names {
		applied[name] = true
	}

	for _, name := range files {
		if applied[name] {
			continue
		}

		content, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Fatalf("failed to read %s: %v", name, err)
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Fatalf("failed to begin transaction: %v", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			log.Fatalf("migration %s failed: %v", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			tx.Rollback()
			log.Fatalf("failed to record migration %s: %v", name, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit migration %s: %v", name, err)
		}

		log.Printf("applied %s", name)
	}
}
