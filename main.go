package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"fairbet/controllers/bet"
	"fairbet/database"
	"fairbet/games"
	"fairbet/jobs"
	"fairbet/repository"
	"fairbet/routes"
	"fairbet/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	db := database.Connect()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store := repository.NewGorm(db)
	settlement := services.NewSettlement(store, games.DefaultRegistry(), logger)
	verifier := services.NewVerifier(store)
	betHandler := bet.NewHandler(settlement, verifier, store)

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	app := fiber.New()
	routes.Setup(app, betHandler)
	jobs.StartSessionCleanupScheduler()

	addr := fmt.Sprintf("%s:%s", host, port)
	log.Println("Server running at", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panicf("Failed to start server: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited cleanly")
}
