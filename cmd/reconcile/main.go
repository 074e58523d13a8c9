package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/dojoworks/MAS-BookingService/internal/config"
	bookingRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/booking"
	membershipRepo "github.com/dojoworks/MAS-BookingService/internal/infra/storage/membership"
	"github.com/dojoworks/MAS-BookingService/internal/service/maintenance"
	"github.com/dojoworks/MAS-BookingService/pkg/logger"
	"github.com/dojoworks/MAS-BookingService/pkg/simpletxmanager"
)

// Одноразовый прогон очистки данных: бронирования удалённых пользователей,
// дубликаты активных абонементов, пустые membership_cycle.
// Запускается по cron или вручную
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting reconcile run...")

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	svc := maintenance.NewService(
		bookingRepo.NewRepository(db),
		membershipRepo.NewRepository(db),
		simpletxmanager.NewTransactionManager(db),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := svc.Reconcile(ctx)
	if err != nil {
		log.Fatal("Reconcile failed: %v", err)
	}

	log.Info("Reconcile completed: orphaned_bookings_deleted=%d, memberships_superseded=%d, cycles_backfilled=%d",
		report.OrphanedBookingsDeleted, report.MembershipsSuperseded, report.CyclesBackfilled)
}
