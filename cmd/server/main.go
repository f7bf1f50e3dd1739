package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/inkletapp/inklet/internal/config"
	"github.com/inkletapp/inklet/internal/db"
	routes "github.com/inkletapp/inklet/internal/http"
	"github.com/inkletapp/inklet/internal/models"
	"github.com/inkletapp/inklet/internal/ws"
)

func main() {
	// A missing .env file is fine in production, where env vars are set
	// directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	database, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Println("Running database migrations...")
	if err := database.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Favorite{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations complete.")

	hub := ws.NewHub()
	go hub.Run()

	router := gin.New()
	routes.SetupRoutes(router, database, hub, cfg)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
