package main

import (
	"context"
	"log"

	"social-network-service/cmd/api/app"
	"social-network-service/cmd/api/server"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env; variables already set in the environment win
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	application, err := app.New()
	if err != nil {
		log.Fatalf("failed to start application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}
