package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/oxylize/api/internal/server"
	"github.com/oxylize/api/internal/server/config"
)

func main() {
	// Optional; real deployments configure through the environment.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
