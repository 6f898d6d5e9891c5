// @title Agent Code Academy API
// @version 1.0
// @description Backend for the Agent Code Academy course site: curriculum delivery, access gating, payments, and progress tracking.

// @license.name MIT

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"academy_backend/internal/app"
	"academy_backend/internal/config"
	"academy_backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
