package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/dynamo"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/platform/s3store"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/notify"
)

// application holds the initialized dependency graph: configuration,
// the relational pool, the AWS clients, and the services the handlers
// sit on top of.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	profileService service.ProfileService
	taskService    service.TaskService
}

// newApplication wires the full dependency graph from configuration.
// The relational store and AWS clients are constructed here once and
// shared; services own no connections of their own.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg)
	s3Client := s3.NewFromConfig(awsCfg)
	sesClient := ses.NewFromConfig(awsCfg)
	sqsClient := sqs.NewFromConfig(awsCfg)

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	userMirror := dynamo.NewUserMirror(dynamoClient, cfg.Dynamo.UsersTable, logger)
	taskMirror := dynamo.NewTaskMirror(dynamoClient, cfg.Dynamo.TasksTable, logger)

	attachments := s3store.NewAttachmentStore(
		s3Client, s3.NewPresignClient(s3Client), cfg.Storage.Bucket, logger)

	dispatcher := notify.NewDispatcher(sesClient, sqsClient, cfg.Notifications, logger)

	profileService, err := service.NewProfileService(userStore, userMirror, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create profile service: %w", err)
	}

	taskService, err := service.NewTaskService(taskStore, taskMirror, attachments, dispatcher, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return &application{
		config:         cfg,
		logger:         logger,
		db:             db,
		profileService: profileService,
		taskService:    taskService,
	}, nil
}

// loadAWSConfig builds the shared AWS client configuration. A non-empty
// endpoint points every client at a local stack instead of the real
// service endpoints.
func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.Endpoint != "" {
		opts = append(opts, awsconfig.WithBaseEndpoint(cfg.AWS.Endpoint))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return awsCfg, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
