package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ignite/phishsim/internal/repository/sqlstore"
)

// Usage: migrate [--list] [postgres|sqlite]
// The DSN comes from DATABASE_URL; the driver defaults to postgres.
func main() {
	dsn := os.Getenv("DATABASE_URL")

	driver := sqlstore.DriverPostgres
	listOnly := false
	for _, a := range os.Args[1:] {
		if a == "--list" {
			listOnly = true
		} else {
			driver = a
		}
	}

	if listOnly {
		files, err := sqlstore.MigrationFiles(driver)
		if err != nil {
			log.Fatal(err)
		}
		for _, f := range files {
			fmt.Println(" ", f)
		}
		fmt.Printf("Total: %d files\n", len(files))
		return
	}

	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	db, err := sqlstore.Open(ctx, driver, dsn, 1)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	n, err := sqlstore.Migrate(ctx, db)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("Applied %d migration files", n)
}
