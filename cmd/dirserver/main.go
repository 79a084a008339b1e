package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/authgate/internal/dirserver"
	"github.com/dmitrijs2005/authgate/internal/logging"
)

func main() {

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	cfg, err := dirserver.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Printf("db init error: %v", err)
		return
	}
	defer db.Close()

	if err := dirserver.RunMigrations(ctx, db); err != nil {
		log.Printf("migration error: %v", err)
		return
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	srv := dirserver.NewServer(cfg.EndpointAddr, logger, dirserver.NewPostgresRepository(db), cfg.AdminSecret)
	if err := srv.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
