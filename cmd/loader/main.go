package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"SaleCast/internal/di"
	"SaleCast/internal/domain/models"
	"SaleCast/internal/usecase"
	"SaleCast/pkg/config"
)

// loader bulk-imports a sales CSV into the configured backend.
func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	csvPath := flag.String("csv", "", "sales CSV file to import (columns: date, sales[, product_id])")
	product := flag.String("product", "", "product id to assign to rows without one")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: loader -csv <file> [-config <file>] [-product <id>]")
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	sales, err := usecase.ParseSalesCSV(f)
	if err != nil {
		log.Fatalf("parse csv: %v", err)
	}
	if len(sales) == 0 {
		log.Fatal("csv contains no sales rows")
	}

	proc, closeAll, err := di.InitializeLoader(cfg)
	if err != nil {
		log.Fatalf("loader initialization failed: %v", err)
	}
	defer closeAll()

	batch := make([]*models.Sale, 0, len(sales))
	for i := range sales {
		if sales[i].ProductID == "" {
			sales[i].ProductID = *product
		}
		batch = append(batch, &sales[i])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := proc.ProcessBatch(ctx, batch); err != nil {
		log.Fatalf("import failed: %v", err)
	}

	log.Printf("imported %d rows to backend=%s", len(batch), cfg.Backend.Type)
}
