package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"

	"fleetnavigator/internal/config"
	"fleetnavigator/internal/database"
	"fleetnavigator/internal/handler"
	"fleetnavigator/internal/logging"
	"fleetnavigator/internal/services"
	"fleetnavigator/internal/utils"
)

var (
	version   string
	buildTime string
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := utils.LoadEnv(); err != nil {
		fmt.Println("Error loading .env:", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	if version != "" {
		cfg.Backend.Version = version
	}
	if buildTime == "" {
		buildTime = time.Now().UTC().Format(time.RFC3339)
	}
	if cfg.Backend.BuildTime == "" {
		cfg.Backend.BuildTime = buildTime
	}

	logData, err := logging.New().FromPath(cfg.Log.File).Level(cfg.Log.Level).JSON(cfg.Log.Format == "json").Make()
	if err != nil {
		fmt.Println("Error opening log:", err)
		os.Exit(1)
	}
	log := logData.Logger

	db, err := database.Init(database.Config{
		Path:     cfg.Backend.DatabasePath,
		LogLevel: logger.Warn,
		Logger:   log,
		Models:   database.BackendModels,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	svc := services.NewBackendServices(db, log)

	gin.SetMode(cfg.Backend.Mode)
	r := gin.New()
	r.Use(gin.Recovery())

	h := handler.NewHandler(svc.Settings, cfg.Backend.Version, cfg.Backend.BuildTime, log)
	h.RegisterRoutes(r)

	addr := cfg.GetServerAddress()
	log.Info().Str("addr", addr).Str("version", cfg.Backend.Version).Msg("settings backend starting")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
