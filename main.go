package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/palette/art-club-go/config"
	routes "github.com/palette/art-club-go/routes"
	utils "github.com/palette/art-club-go/utils"
)

func main() {
	defer utils.Log.Sync()

	cfg := config.Load()
	if err := cfg.ConnectMongo(); err != nil {
		utils.Log.Fatal("could not connect to mongo", zap.Error(err))
	}
	defer cfg.Disconnect()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match"},
		ExposeHeaders:    []string{"ETag", "Last-Modified"},
		AllowCredentials: true,
	}))

	routes.SetupRoutes(r, cfg)

	utils.Log.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.Log.Fatal("server exited", zap.Error(err))
	}
}
