package main

import (
	"log"

	"github.com/campusbooks/marketplace-backend/internal/config"
	"github.com/campusbooks/marketplace-backend/internal/db"
	"github.com/campusbooks/marketplace-backend/internal/logger"
	"github.com/campusbooks/marketplace-backend/internal/model"
	"github.com/campusbooks/marketplace-backend/internal/server"
	"github.com/joho/godotenv"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zl.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Listing{},
		&model.Offer{},
		&model.Order{},
		&model.Review{},
		&model.UserRevenue{},
	); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	srv, err := server.New(conn, zl, gitSHA, buildTime)
	if err != nil {
		log.Fatalf("server init error: %v", err)
	}

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
