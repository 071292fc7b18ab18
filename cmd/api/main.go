package main

import (
	"context"
	"os"

	"github.com/yigit/studentcrm/internal/bootstrap"
	"github.com/yigit/studentcrm/internal/config"
	"github.com/yigit/studentcrm/internal/pkg/logger" // Still needed for initial error logging
	"github.com/yigit/studentcrm/internal/server"
)

// @title Student CRM API
// @version 1.0
// @description Dashboard API joining student, course, finance and engagement records
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath)

	srv, err := server.NewServer(context.Background(), configPath)
	if err != nil {
		// Error details are logged within the bootstrap functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until SIGINT/SIGTERM
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
