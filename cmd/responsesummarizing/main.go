package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/eforms/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/eforms/internal/config"
	"github.com/vncsmyrnk/eforms/internal/core/services"
	"github.com/vncsmyrnk/eforms/internal/logger"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	defer log.Sync()

	db := cfg.Database
	flag.StringVar(&db.Host, "db-host", db.Host, "Database host")
	flag.StringVar(&db.Port, "db-port", db.Port, "Database port")
	flag.StringVar(&db.User, "db-user", db.User, "Database user")
	flag.StringVar(&db.Password, "db-pass", db.Password, "Database password")
	flag.StringVar(&db.Name, "db-name", db.Name, "Database name")
	timeout := flag.Duration("timeout", 5*time.Minute, "Maximum job duration")
	flag.Parse()

	conn, err := sql.Open("postgres", db.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		log.Fatal("failed to reach database", zap.Error(err))
	}

	summaryService := services.NewSummaryService(postgres.NewFormRepository(conn), postgres.NewFormResultRepository(conn))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Info("starting response summarization job")
	start := time.Now()

	if err := summaryService.SummarizeAllForms(ctx); err != nil {
		log.Error("error summarizing responses", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}

	log.Info("response summarization completed", zap.Duration("took", time.Since(start)))
}
