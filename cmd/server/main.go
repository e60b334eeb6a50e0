package main

import (
	"log"

	"parquetry/adapters/excelfile"
	"parquetry/adapters/parquetfile"
	"parquetry/app"
	"parquetry/internal/config"
	"parquetry/internal/history"
	"parquetry/ui"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	var store history.Store
	if cfg.History.DatabaseURL != "" {
		pg, err := history.NewPostgresStore(cfg.History.DatabaseURL, cfg.History.MaxEntries)
		if err != nil {
			log.Fatal("Failed to connect history database:", err)
		}
		defer pg.Close()
		store = pg
		log.Println("[Server] Using Postgres history store")
	} else {
		store = history.NewFileStore(cfg.History.File, cfg.History.MaxEntries)
		log.Printf("[Server] Using file history store at %s", cfg.History.File)
	}

	converter := app.NewConverter(excelfile.NewReader(), parquetfile.NewWriter())
	srv := ui.NewServer(cfg, converter, excelfile.NewReader(), store)

	log.Printf("Starting Parquetry server on http://localhost:%s", cfg.Server.Port)
	log.Fatal(srv.Start())
}
