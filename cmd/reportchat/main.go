package main

import (
	"github.com/joho/godotenv"

	"github.com/reportchat/reportchat/internal/cli"
)

// version, commit, date are injected by the linker via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()
	cli.Execute(version, commit, date)
}
