package main

import (
	"context"
	"os"

	"github.com/yigit/classqa/internal/pkg/logger"
	"github.com/yigit/classqa/internal/server"
)

// @title Classroom Q&A API
// @version 1.0
// @description Lectures, questions, answers and tags for a classroom, with anonymous student posting.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token as "Bearer <token>"

func main() {
	ctx := context.Background()

	// CONFIG_PATH overrides configs/config.yaml
	srv, err := server.NewServer(ctx, os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
