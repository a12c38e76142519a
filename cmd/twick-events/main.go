package main

import (
	"github.com/joho/godotenv"

	"github.com/stadiumwatch/twick-events/internal/cli"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// A missing .env file is fine; env vars may come from anywhere.
	_ = godotenv.Load()

	cli.Version = version
	cli.Execute()
}
