package main

import (
	"log"

	"groupplan/internal/config"
	"groupplan/internal/database"
	"groupplan/internal/logger"
	"groupplan/internal/server"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Development())
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		zlog.Sugar().Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		zlog.Sugar().Fatalf("schema migration failed: %v", err)
	}
	zlog.Info("connected to database")

	s := server.Init(cfg, db, zlog)
	s.Run()
}
