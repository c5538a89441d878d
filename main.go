package main

import (
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/lllkojlhuk/sushikub/cmd"
	"github.com/lllkojlhuk/sushikub/config"
)

var Version = "develop"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	switch cfg.LogLevel {
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "error":
		log.SetLevel(log.LevelError)
	default:
		log.SetLevel(log.LevelInfo)
	}

	if err := cmd.NewRootCmd(cfg, Version).Execute(); err != nil {
		os.Exit(1)
	}
}
