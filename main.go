package main

import (
	"context"
	"fmt"
	"os"

	"vendor-collector/config"
	"vendor-collector/search/serpapi"
	"vendor-collector/services"
	"vendor-collector/storage"
	"vendor-collector/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Vendor Collection System starting ===")
	logger.Info("Config — categories: %d | page cap: %d | page size: %d | spacing: %dms",
		len(cfg.Categories), cfg.PageCap, cfg.PageSize, cfg.RequestSpacingMs)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	excelWriter, err := storage.NewExcelWriter(cfg.OutputPath)
	if err != nil {
		logger.Error("Failed to prepare report writer: %v", err)
		os.Exit(1)
	}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()
	}

	client := serpapi.New(cfg, logger)
	aggregator := services.NewAggregator(client, cfg.Categories, logger)

	report := aggregator.Collect(context.Background())

	if len(report.Vendors) == 0 {
		logger.Error("No vendors were collected. Check your API key and quota.")
		os.Exit(1)
	}

	if err := excelWriter.Write(report); err != nil {
		logger.Error("Report write failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Report saved to %s (%d vendors)", excelWriter.Path(), len(report.Vendors))

	if pgWriter != nil {
		if err := pgWriter.Write(report.Vendors); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Vendors stored in PostgreSQL (table: vendors)")
		}
	}

	aggregator.PrintSummary(report)

	fmt.Printf("  Done. Report → %s | Categories → %d\n\n",
		excelWriter.Path(), len(cfg.Categories))
}
