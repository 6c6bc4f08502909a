package main

import (
	"card-swipe/internal/models"
	"card-swipe/internal/repository"
	"card-swipe/internal/service"
	"card-swipe/internal/utils"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "card-feed"
)

const defaultSessionCacheSize = 1024

type EnvVars struct {
	userTableName     string
	mediaBucketName   string
	questFunctionName string
	sessionCacheSize  int
}

func getEnvironmentVariables() (envVars *EnvVars, err error) {
	userTableName := os.Getenv("USER_TABLE_NAME")
	if userTableName == "" {
		return nil, errors.New("USER_TABLE_NAME is not set")
	}

	mediaBucketName := os.Getenv("MEDIA_BUCKET_NAME")
	if mediaBucketName == "" {
		return nil, errors.New("MEDIA_BUCKET_NAME is not set")
	}

	// optional, quests are evaluated in-process when empty
	questFunctionName := os.Getenv("QUEST_FUNCTION_NAME")

	sessionCacheSize := defaultSessionCacheSize
	if raw := os.Getenv("SESSION_CACHE_SIZE"); raw != "" {
		sessionCacheSize, err = strconv.Atoi(raw)
		if err != nil || sessionCacheSize <= 0 {
			return nil, fmt.Errorf("SESSION_CACHE_SIZE must be a positive integer, got %q", raw)
		}
	}

	return &EnvVars{
		userTableName:     userTableName,
		mediaBucketName:   mediaBucketName,
		questFunctionName: questFunctionName,
		sessionCacheSize:  sessionCacheSize,
	}, nil
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  TIMESTAMP,
			logrus.FieldKeyLevel: SEVERITY,
			logrus.FieldKeyMsg:   MESSAGE,
		},
	})
	logger := logrus.WithField(COMPONENT, SERVICENAME)

	envVars, err := getEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Error("Failed to get environment variables")
		panic(err)
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.WithError(err).Error("Failed to load AWS config")
		panic(err)
	}

	dynamodbClient := dynamodb.NewFromConfig(cfg)
	userRepo := repository.NewUserRepository(logger, dynamodbClient, envVars.userTableName)
	mediaStore := utils.NewS3MediaStore(s3.NewFromConfig(cfg), envVars.mediaBucketName)

	questEngine := service.NewQuestEngine(logger, userRepo, models.DefaultQuestTracks())
	var questTrigger utils.QuestTrigger = questEngine
	if envVars.questFunctionName != "" {
		questTrigger = utils.NewLambdaQuestTrigger(awslambda.NewFromConfig(cfg), envVars.questFunctionName)
	}

	sessions, err := NewSessionStore(service.NewSwiper(logger, userRepo, questTrigger), envVars.sessionCacheSize)
	if err != nil {
		logger.WithError(err).Error("Failed to create session cache")
		panic(err)
	}

	handler, err := NewHandler(
		logger,
		service.NewAccountService(logger, userRepo, mediaStore, questTrigger),
		service.NewBoostService(logger, userRepo),
		questEngine,
		sessions,
	)
	if err != nil {
		logger.WithError(err).Error("Failed to create handler")
		panic(err)
	}

	lambda.Start(handler.EventHandler)
}
