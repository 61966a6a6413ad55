package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/payroll-reconciler/internal/config"
	"github.com/cmlabs-hris/payroll-reconciler/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/payroll-reconciler/internal/handler/http"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-reconciler/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-reconciler/internal/repository/postgresql"
	"github.com/cmlabs-hris/payroll-reconciler/internal/repository/sqlite"
	payrollService "github.com/cmlabs-hris/payroll-reconciler/internal/service/payroll"
	"github.com/cmlabs-hris/payroll-reconciler/migrations"
)

type repositories struct {
	attendance payroll.AttendanceRepository
	payments   payroll.PaymentRepository
	employees  payroll.EmployeeRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	salarySvc := payrollService.NewSalaryService(
		repos.attendance,
		repos.payments,
		repos.employees,
		payrollService.WithBatchConcurrency(cfg.Payroll.BatchConcurrency),
		payrollService.WithEmployeeTimeout(cfg.Payroll.EmployeeTimeout),
		payrollService.WithDefaultDailyHours(cfg.Payroll.DefaultDailyHours),
	)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	salaryHandler := appHTTP.NewSalaryHandler(salarySvc)
	router := appHTTP.NewRouter(cfg, JWTService, salaryHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", server.Addr, "storage", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx, migrations.Payroll); err != nil {
				db.Close()
				return nil, err
			}
		}
		return &repositories{
			attendance: postgresql.NewAttendanceRepository(db),
			payments:   postgresql.NewPaymentRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			close:      db.Close,
		}, nil

	case config.StorageDriverSQLite:
		db, err := sqlite.InitDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &repositories{
			attendance: sqlite.NewAttendanceRepo(db),
			payments:   sqlite.NewPaymentRepo(db),
			employees:  sqlite.NewEmployeeRepo(db),
			close:      func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
