package main

import (
	"context"
	"time"

	"github.com/jayeshjain4/StatusGo/config"
	"github.com/jayeshjain4/StatusGo/controllers"
	"github.com/jayeshjain4/StatusGo/models"
	"github.com/jayeshjain4/StatusGo/routes"
	"github.com/jayeshjain4/StatusGo/storage"
	"github.com/jayeshjain4/StatusGo/store"
	"github.com/jayeshjain4/StatusGo/utils"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database: %v", err)
	}

	rc, err := utils.NewRedis(cfg.Redis)
	if err != nil {
		// Logout still works through the in-memory blacklist
		utils.Sugar.Warnf("redis disabled: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	uploader, err := storage.New(ctx, cfg.Upload)
	cancel()
	if err != nil {
		utils.Sugar.Fatalf("upload sink: %v", err)
	}

	if err := controllers.RegisterValidators(); err != nil {
		utils.Sugar.Fatalf("validators: %v", err)
	}

	deps := routes.NewDeps(cfg, store.New(db), uploader, utils.NewTokenBlacklist(rc))
	r := routes.SetupRouter(cfg, deps)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.App.Port)
	err = utils.GraceServer(":"+cfg.App.Port, r, func() {
		if rc != nil {
			_ = rc.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
