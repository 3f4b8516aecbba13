package main

import (
	"github.com/pattarawin/webboard/cache"
	"github.com/pattarawin/webboard/config"
	"github.com/pattarawin/webboard/models"
	"github.com/pattarawin/webboard/routes"
	"github.com/pattarawin/webboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Thread{},
		&models.Comment{},
		&models.ThreadLike{},
		&models.Report{},
	)

	rdb := cache.NewClient(cfg, utils.Sugar)
	c := cache.New(rdb, utils.Sugar)

	r := routes.SetupRouter(db, c)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
