package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/cruse1977/netbox-acls/internal/config"
	"github.com/cruse1977/netbox-acls/internal/database"
	"github.com/cruse1977/netbox-acls/internal/logger"
	"github.com/cruse1977/netbox-acls/internal/server"
	"github.com/cruse1977/netbox-acls/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}

	logDir := cfg.LogDir
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		logDir = filepath.Join("data", "logs")
		_ = os.MkdirAll(logDir, 0o755)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "netbox-acls.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	defer rotator.Close()

	logger.Init(cfg.Debug, io.MultiWriter(os.Stdout, rotator))
	log := logger.Component("main")
	log.Infof("starting %s %s", version.Name, version.Full())

	db, err := database.Connect(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.WithError(err).Fatal("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Error("server error")
		return
	}
	log.Info("server stopped")
}
