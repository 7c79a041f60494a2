package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"mediavault/config"
	"mediavault/internal/domain/comment"
	"mediavault/internal/domain/file"
	"mediavault/pkg/database"
)

const usage = `
mediavault - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Run schema migrations
  status      Show database connection status
  seed-dev    Seed with development/test data
  reset       Drop all tables and re-run migrations (DANGEROUS)
  truncate    Truncate all tables (DANGEROUS)

Flags:
  -owner string    Owner id for seeded records (default "dev-user")
  -email string    Email granted access to seeded records (default "dev@mediavault.local")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev
  go run cmd/migrate/main.go reset
`

func main() {
	owner := flag.String("owner", "dev-user", "Owner id for seeded records")
	email := flag.String("email", "dev@mediavault.local", "Email granted access to seeded records")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	database.Connect(cfg)
	defer database.Close()

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	case "seed-dev":
		runSeedDevelopment(*owner, *email)
	case "reset":
		runReset()
	case "truncate":
		runTruncate()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func models() []interface{} {
	return []interface{}{&file.File{}, &comment.Comment{}}
}

func runMigrationsUp() {
	log.Println("Running migrations...")

	if err := database.Migrate(models()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus() {
	log.Println("Checking database status...")

	if err := database.HealthCheck(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, table := range []string{"files", "comments"} {
		exists, err := database.TableExists(table)
		if err != nil {
			log.Printf("Error checking table %s: %v", table, err)
			continue
		}
		if exists {
			count, _ := database.GetTableCount(table)
			log.Printf("Table %-10s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-10s does not exist", table)
		}
	}
}

func runSeedDevelopment(owner, email string) {
	log.Println("Seeding database (development mode)...")

	cfg := database.DefaultSeedConfig()
	cfg.OwnerID = owner
	cfg.Email = email

	result, err := database.SeedDevelopment(cfg)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed Summary:")
	log.Printf("   - Files: %d", len(result.Files))
	log.Printf("   - Comments: %d", len(result.Comments))
	log.Println("Development seeding completed")
}

func runReset() {
	log.Println("WARNING: This will DROP all tables and re-run migrations")

	if err := database.DropTables(models()...); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	if err := database.Migrate(models()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Database reset completed")
}

func runTruncate() {
	log.Println("WARNING: This will TRUNCATE all tables")

	if err := database.TruncateTables("comments", "files"); err != nil {
		log.Fatalf("Truncate failed: %v", err)
	}

	log.Println("All tables truncated")
}
