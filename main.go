package main

import (
	"log"

	"skilloria/config"
	"skilloria/database"
	"skilloria/server"
	"skilloria/services"
	"skilloria/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	config.LoadConfig()
	if err := utils.InitLogger(config.AppConfig.LogMode); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer utils.SyncLogger()

	if err := database.ConnectDb(); err != nil {
		utils.Log.Fatalw("database connection failed", "error", err)
	}

	var storage fiber.Storage
	if config.AppConfig.RedisURL != "" {
		redisStorage, err := utils.NewRedisStorage(config.AppConfig.RedisURL, "skilloria:")
		if err != nil {
			utils.Log.Fatalw("redis connection failed", "error", err)
		}
		defer redisStorage.Close()
		storage = redisStorage
	}

	utils.Mail = utils.NewMailer(config.AppConfig)
	scheduler, err := services.StartScheduler(database.Database.Db, utils.Mail, config.AppConfig.EmailRetrySpec)
	if err != nil {
		utils.Log.Fatalw("scheduler start failed", "error", err)
	}
	defer scheduler.Stop()

	app := server.New(config.AppConfig, storage)

	utils.Log.Infow("server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		utils.Log.Fatalw("server stopped", "error", err)
	}
}
