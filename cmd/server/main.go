package main

import (
	"log"
	"os"

	"github.com/chaos-io/rembatch/config"
	"github.com/chaos-io/rembatch/rembg"
	"github.com/chaos-io/rembatch/server"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	remover, err := rembg.FromConfig(cfg.Remover)
	if err != nil {
		log.Fatalf("Failed to build remover: %v", err)
	}

	srv := server.New(remover)

	log.Println("Starting rembatch API server on", cfg.Server.Address)
	if err := srv.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
