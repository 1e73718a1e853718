package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"

	"github.com/spiritsdata/nabca-extract/internal/domain/export"
	"github.com/spiritsdata/nabca-extract/internal/domain/ocr"
	"github.com/spiritsdata/nabca-extract/internal/domain/pipeline"
	"github.com/spiritsdata/nabca-extract/internal/domain/records"
	"github.com/spiritsdata/nabca-extract/pkg/config"
	"github.com/spiritsdata/nabca-extract/pkg/db"
	"github.com/spiritsdata/nabca-extract/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *db.DB

	Store    storage.Storage
	Source   ocr.TokenSource
	Writer   *export.Writer
	Repo     *records.Repository
	Pipeline *pipeline.Pipeline
}

// InitDependencies initializes all application dependencies. With skipDB set
// the database layer is left out and results only go to files.
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger, skipDB bool) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if !skipDB {
		if err := deps.initDatabase(ctx); err != nil {
			return nil, fmt.Errorf("failed to init database: %w", err)
		}
	}
	if err := deps.initStorage(ctx); err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}
	if err := deps.initOCR(ctx); err != nil {
		return nil, fmt.Errorf("failed to init ocr: %w", err)
	}
	if err := deps.initPipeline(); err != nil {
		return nil, fmt.Errorf("failed to init pipeline: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase(ctx context.Context) error {
	database, err := db.New(ctx, db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Repo = records.NewRepository(d.DB.Pool, d.Logger)
	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initStorage(ctx context.Context) error {
	store, err := storage.New(ctx,
		storage.Type(d.Config.Extract.StorageType),
		storage.LocalConfig{BasePath: d.Config.Extract.LocalPath},
		storage.S3Config{
			Region:          d.Config.AWS.Region,
			Bucket:          d.Config.AWS.Bucket,
			AccessKeyID:     d.Config.AWS.AccessKeyID,
			SecretAccessKey: d.Config.AWS.SecretAccessKey,
		})
	if err != nil {
		return err
	}
	d.Store = store
	d.Logger.Info("storage initialized", slog.String("type", d.Config.Extract.StorageType))
	return nil
}

// initOCR builds the Textract source wrapped in the blob cache. Fresh OCR
// needs the documents in S3; with local storage only cache hits can serve.
func (d *Dependencies) initOCR(ctx context.Context) error {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(d.Config.AWS.Region),
	}
	if d.Config.AWS.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				d.Config.AWS.AccessKeyID, d.Config.AWS.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client := ocr.NewClient(textract.NewFromConfig(awsCfg), d.Config.AWS.Bucket, d.Logger)
	d.Source = ocr.NewCachedSource(client, d.Store, d.Logger)
	return nil
}

func (d *Dependencies) initPipeline() error {
	writer, err := export.NewWriter(d.Config.Extract.OutputDir, d.Logger)
	if err != nil {
		return err
	}
	d.Writer = writer

	opts := pipeline.Options{
		Store:      d.Store,
		Source:     d.Source,
		Writer:     d.Writer,
		ReportsDir: d.Config.Extract.ReportsDir,
		Log:        d.Logger,
	}
	if d.Repo != nil {
		opts.Repo = d.Repo
	}
	d.Pipeline = pipeline.New(opts)
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
