package main

import (
	"card-swipe/internal/models"
	"card-swipe/internal/repository"
	"card-swipe/internal/service"
	"context"
	"errors"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sirupsen/logrus"
)

const (
	SEVERITY    = "severity"
	MESSAGE     = "message"
	TIMESTAMP   = "timestamp"
	COMPONENT   = "component"
	SERVICENAME = "card-quest"
)

type EnvVars struct {
	userTableName string
}

func getEnvVars() (*EnvVars, error) {
	userTableName := os.Getenv("USER_TABLE_NAME")
	if userTableName == "" {
		return nil, errors.New("USER_TABLE_NAME is not set")
	}

	return &EnvVars{
		userTableName: userTableName,
	}, nil
}

var handler *Handler

func setup() {
	logrus.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  TIMESTAMP,
			logrus.FieldKeyLevel: SEVERITY,
			logrus.FieldKeyMsg:   MESSAGE,
		},
	})
	logger := logrus.WithField(COMPONENT, SERVICENAME)

	envVars, err := getEnvVars()
	if err != nil {
		logger.WithError(err).Error("Failed to get environment variables")
		panic(err)
	}

	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.WithError(err).Error("Failed to load AWS config")
		panic(err)
	}

	userRepo := repository.NewUserRepository(logger, dynamodb.NewFromConfig(cfg), envVars.userTableName)
	questEngine := service.NewQuestEngine(logger, userRepo, models.DefaultQuestTracks())

	handler, err = NewHandler(logger, questEngine)
	if err != nil {
		logger.WithError(err).Error("Failed to create handler")
		panic(err)
	}
}

// HandleRequest handles direct (async) Lambda invokes with a JSON payload
func HandleRequest(ctx context.Context, request map[string]string) (map[string]interface{}, error) {
	return handler.HandleQuestEvaluation(ctx, request)
}

func main() {
	setup()
	lambda.Start(HandleRequest)
}
