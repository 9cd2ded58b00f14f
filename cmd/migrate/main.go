// migrate applies or rolls back the embedded SQL migrations: go run ./cmd/migrate -direction up.
package main

import (
	"flag"
	"fmt"
	"os"

	"movie-booking-admin/backend/internal/config"
	"movie-booking-admin/backend/internal/db/migrate"
)

func main() {
	flagDirection := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	direction, err := migrate.ParseDirection(*flagDirection)
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.DatabaseURL, direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Printf("migrations applied (%s)\n", direction)
}
