package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/eskrenkovic/tictactoe-sessions/internal/config"
	"github.com/eskrenkovic/tictactoe-sessions/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 {
		rootPath := os.Args[1]
		if rootPath == "" {
			log.Fatal("root directory path is empty")
		}

		if err := godotenv.Load(path.Join(rootPath, "config.env")); err != nil {
			log.Fatal(err)
		}
	}

	config, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = config.Logger.Sync()
	}()

	srv, err := server.NewHTTPServer(config)
	if err != nil {
		config.Logger.Fatal("failed to build server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	select {
	case err := <-errs:
		if err != nil {
			config.Logger.Error("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		config.Logger.Info("shutting down")
	}

	if err := srv.Stop(); err != nil {
		config.Logger.Error("failed to stop server", zap.Error(err))
	}
}
