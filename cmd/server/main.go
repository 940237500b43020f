package main

import (
	"go-bakery-pos/internal/auth"
	"go-bakery-pos/internal/config"
	"go-bakery-pos/internal/database"
	"go-bakery-pos/internal/handlers"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	auth.Init(cfg.JWTSecret)

	if err := database.Connect(cfg.DBDSN); err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}

	r := handlers.SetupRouter(cfg.CORSOrigin)

	logrus.Infof("server starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logrus.WithError(err).Fatal("server failed to start")
	}
}
