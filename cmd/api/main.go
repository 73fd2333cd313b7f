package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jataidesja-hub/gerenciamento/internal/config"
	"github.com/jataidesja-hub/gerenciamento/internal/database"
	appHttp "github.com/jataidesja-hub/gerenciamento/internal/http"
	importHandler "github.com/jataidesja-hub/gerenciamento/internal/http/importcsv"
	saleHandler "github.com/jataidesja-hub/gerenciamento/internal/http/sale"
	"github.com/jataidesja-hub/gerenciamento/internal/importer"
	"github.com/jataidesja-hub/gerenciamento/internal/sale"
	saleStore "github.com/jataidesja-hub/gerenciamento/internal/sale/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, cleanup, err := newRepository(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var (
		saleService   = sale.NewService(repo)
		importService = importer.NewService()
	)

	var (
		saleH   = saleHandler.NewHandler(saleService)
		importH = importHandler.NewHandler(importService, saleService)
	)

	router := appHttp.New(saleH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "store", cfg.Store.Driver)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func newRepository(cfg *config.Config) (sale.Repository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		return saleStore.NewPostgres(db), func() { db.Close() }, nil
	case config.DriverWorkbook:
		wb, err := saleStore.OpenWorkbook(cfg.Store.Workbook)
		if err != nil {
			return nil, nil, err
		}

		return wb, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
