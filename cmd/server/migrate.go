// CLAUDE:SUMMARY CLI subcommand that creates or verifies the SQLite schema without starting the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hazyhaar/taskchat/pkg/task"
)

func cmdMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "taskchat.db", "SQLite database path")
	fs.Parse(args)

	store, err := task.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tables, err := store.Tables(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema OK: %s\n", *dbPath)
	for _, name := range tables {
		fmt.Printf("  %s\n", name)
	}
}
