package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/mockapi"
	"github.com/dmitrijs2005/jobboard/internal/mockapi/config"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	logger, err := logging.New(cfg.LogBackend, os.Stderr, cfg.Debug)
	if err != nil {
		log.Fatalf("%v", err)
	}

	store := mockapi.NewStore()
	if err := mockapi.Seed(store); err != nil {
		log.Fatalf("%v", err)
	}

	srv := mockapi.NewServer(cfg, store, logger)
	if err := srv.Run(ctx, cfg.Addr); err != nil {
		log.Printf("%v", err)
	}

}
