package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ubadesk/internal/buildinfo"
	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/dmitrijs2005/ubadesk/internal/server"
	"github.com/dmitrijs2005/ubadesk/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped with error", "error", err)
	}

}
