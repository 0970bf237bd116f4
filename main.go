package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yeremiapane/waiter-terminal/simulator"
	"github.com/yeremiapane/waiter-terminal/utils"
)

// Development entry point: serves the backend simulator so a terminal (or
// curl) can exercise the full endpoint contract locally. The production
// backend is a separate deployment.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := simulator.OpenDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open database: %v", err)
	}
	if err := simulator.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed data: %v", err)
	}

	server := simulator.NewServer(db)
	r := server.Router()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("POS simulator listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
