package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chenguojun06-star/fz66666-sub006/cmd"
	httpadapter "github.com/chenguojun06-star/fz66666-sub006/internal/adapters/in/http"
	"github.com/chenguojun06-star/fz66666-sub006/internal/adapters/out/postgres"
	"github.com/chenguojun06-star/fz66666-sub006/internal/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configs, err := cmd.LoadConfig()
	if err != nil {
		return err
	}

	if err := logger.Init(configs.LogLevel, configs.LogFormat); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	db, err := postgres.Open(postgres.ConnectionConfig{
		Host:     configs.DBHost,
		Port:     configs.DBPort,
		User:     configs.DBUser,
		Password: configs.DBPassword,
		DBName:   configs.DBName,
		SSLMode:  configs.DBSslMode,
	}.DSN())
	if err != nil {
		return err
	}
	if configs.DBAutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	app, err := cmd.NewCompositionRoot(configs, db, log)
	if err != nil {
		return err
	}
	defer app.Close()

	doc, err := httpadapter.LoadOpenAPI()
	if err != nil {
		return err
	}
	e, err := httpadapter.NewRouter(httpadapter.NewServer(app.CreateHTTPHandlers(), log), doc, log)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		log.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
