// Package server initializes and runs the userdir server: it selects the
// storage backend, wires the identity-provider client and the reconciler,
// and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/userdir/internal/logging"
	"github.com/dmitrijs2005/userdir/internal/server/config"
	"github.com/dmitrijs2005/userdir/internal/server/httpapi"
	"github.com/dmitrijs2005/userdir/internal/server/idp"
	"github.com/dmitrijs2005/userdir/internal/server/migrations"
	"github.com/dmitrijs2005/userdir/internal/server/repositories/users"
	"github.com/dmitrijs2005/userdir/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	reconciler *idp.Reconciler
	server     *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repo, err := newRepository(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	provider, err := newAccountProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("identity provider init error: %w", err)
	}

	reconciler := idp.NewReconciler(provider, logger)

	us := services.NewUserService(repo, provider, reconciler, logger)
	fs := services.NewFileService(cfg, logger)

	handler := httpapi.NewHandler(us, fs, logger)
	srv := httpapi.NewServer(cfg.Addr, handler, logger)

	return &App{config: cfg, logger: logger, reconciler: reconciler, server: srv}, nil
}

func newRepository(ctx context.Context, cfg *config.Config) (users.Repository, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return users.NewMemoryRepository(), nil

	case config.DriverPostgres:
		db, err := sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		goose.SetBaseFS(migrations.Migrations)
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
		return users.NewPostgresRepository(db), nil

	case config.DriverDynamo:
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.AWSBaseEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.AWSBaseEndpoint)
			}
		})
		return users.NewDynamoRepository(client, cfg.TableName), nil
	}

	return nil, fmt.Errorf("unknown storage driver: %q", cfg.StorageDriver)
}

func newAccountProvider(ctx context.Context, cfg *config.Config) (idp.AccountProvider, error) {
	// No user pool configured means local development: accounts live in
	// process memory.
	if cfg.UserPoolID == "" {
		return idp.NewLocalProvider(), nil
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
		if cfg.AWSBaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSBaseEndpoint)
		}
	})
	return idp.NewCognitoProvider(client, cfg.UserPoolID), nil
}

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, "")))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.StorageDriver)

	app.initSignalHandler(cancelFunc)

	go app.reconciler.Run(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
	app.reconciler.Wait()
}
