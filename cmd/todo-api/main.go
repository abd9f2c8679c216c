package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	pgRepo "github.com/Vaidehi-Hirani/ToDo/internal/adapters/db/postgres"
	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/handler"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/google"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/jwt"
	"github.com/Vaidehi-Hirani/ToDo/internal/app/auth/password"
	authsvc "github.com/Vaidehi-Hirani/ToDo/internal/app/auth/service"
	todosvc "github.com/Vaidehi-Hirani/ToDo/internal/app/todo/service"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/config"
	lg "github.com/Vaidehi-Hirani/ToDo/internal/infra/log"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/metrics"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/migrate"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/server"
	"github.com/Vaidehi-Hirani/ToDo/internal/infra/validation"
)

func main() {
	root := &cobra.Command{
		Use:           "todo-api",
		Short:         "ToDo REST API server",
		Args:          cobra.NoArgs,
		RunE:          serve,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCommand())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the process logger. Failures are
// fatal since nothing can run without either.
func bootstrap() (*config.Config, *zap.Logger) {
	bootLog := lg.Must(os.Getenv("LOG_LEVEL"), os.Getenv("ENVIRONMENT") == config.EnvDevelopment)

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("failed to load config", zap.Error(err))
	}
	_ = bootLog.Sync()

	return cfg, lg.Must(cfg.LogLevel, cfg.IsDevelopment())
}

func openDB(cfg *config.Config, zapLog *zap.Logger) (*gorm.DB, *sql.DB) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	return db, sqlDB
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, zapLog := bootstrap()
	defer func() { _ = zapLog.Sync() }()

	db, sqlDB := openDB(cfg, zapLog)
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	jwtUtil, err := jwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}
	if cfg.GoogleClientID == "" {
		zapLog.Warn("GOOGLE_CLIENT_ID is not set, google sign-in will reject every assertion")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	validate := validation.New()
	authService := authsvc.New(
		pgRepo.NewPostgresUserRepo(db),
		jwtUtil,
		password.NewArgon2(password.DefaultParams, cfg.PasswordPepper),
		google.NewIDTokenVerifier(cfg.GoogleClientID),
		validate,
		authsvc.WithLogger(zapLog),
		authsvc.WithRecorder(m),
	)
	todoService := todosvc.New(pgRepo.NewPostgresProjectRepo(db), pgRepo.NewPostgresTaskRepo(db), validate)

	router := handler.NewRouter(handler.RouterDeps{
		Handler:  handler.New(authService, todoService, zapLog, cfg.IsDevelopment()),
		Auth:     authService,
		Config:   cfg,
		Logger:   zapLog,
		Metrics:  m,
		Gatherer: reg,
	})

	g, ctx := errgroup.WithContext(cmd.Context())

	g.Go(func() error {
		return server.StartHTTPServer(ctx, cfg.HTTPAddress, router, zapLog)
	})

	<-ctx.Done()
	zapLog.Info("shutdown signal received")
	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
		return err
	}
	return nil
}
