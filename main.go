package main

import (
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"

	"github.com/chazu/pizzamaker/internal/config"
	"github.com/chazu/pizzamaker/internal/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pizzamaker: %v\n", err)
		os.Exit(2)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		fmt.Fprintf(os.Stderr, "pizzamaker: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	app, err := NewApp(cfg, logger.Log)
	if err != nil {
		logger.Fatal("creating app", zap.Error(err))
	}

	err = wails.Run(&options.App{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		logger.Fatal("wails", zap.Error(err))
	}
}
