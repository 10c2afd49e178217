package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/seaguard-dev/shift-coordinator/backend/internal/config"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/repository"
	"github.com/seaguard-dev/shift-coordinator/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var month string

	flag.IntVar(&op, "op", 0, "operation (1: insert random volunteers, 2: insert availability submissions, 3: publish a random schedule)")
	flag.IntVar(&n, "n", 5, "number of records to insert")
	flag.StringVar(&month, "month", time.Now().Format("2006-01"), "month in YYYY-MM format")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect, so ping explicitly
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("unable to reach the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation specified")
	case 1:
		if n <= 0 {
			slog.Error("please provide a valid volunteer count")
			return
		}
		cnt := seed.SeedVolunteers(repo, n, cfg.Seed.User.Password, cfg.Email.UserDomain)
		slog.Info("volunteers inserted", slog.Int("count", cnt))
	case 2:
		cnt := seed.SeedSubmissions(repo, month)
		slog.Info("submissions inserted", slog.Int("count", cnt), slog.String("month", month))
	case 3:
		if err := seed.SeedSchedule(repo, month, cfg.InitialAdmin.Email); err != nil {
			slog.Error("unable to publish a random schedule", slog.String("error", err.Error()))
			return
		}
		slog.Info("schedule published", slog.String("month", month))
	default:
		slog.Error("unknown operation")
	}
}
