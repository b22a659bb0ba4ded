package main

import (
	"flag"
	"log"
	"os"

	"skilloria/config"
	"skilloria/database"
	"skilloria/services"
	"skilloria/utils"
)

func main() {
	path := flag.String("file", "catalog.yaml", "catalog YAML file")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	if err := utils.InitLogger(config.AppConfig.LogMode); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer utils.SyncLogger()
	if err := database.ConnectDb(); err != nil {
		utils.Log.Fatalw("database connection failed", "error", err)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		utils.Log.Fatalw("read catalog", "file", *path, "error", err)
	}
	catalog, err := services.ParseCatalog(data)
	if err != nil {
		utils.Log.Fatalw("invalid catalog", "file", *path, "error", err)
	}

	courses, lessons, err := services.SeedCatalog(database.Database.Db, catalog)
	if err != nil {
		utils.Log.Fatalw("seed failed", "error", err)
	}
	utils.Log.Infow("catalog seeded", "courses", courses, "lessons", lessons)
}
