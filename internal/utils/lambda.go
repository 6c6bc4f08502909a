package utils

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaQuestTrigger hands quest evaluation to the card-quest function
// without waiting for it.
type LambdaQuestTrigger struct {
	client       LambdaAPI
	functionName string
}

func NewLambdaQuestTrigger(client LambdaAPI, functionName string) QuestTrigger {
	return &LambdaQuestTrigger{
		client:       client,
		functionName: functionName,
	}
}

func (t *LambdaQuestTrigger) TriggerQuestEvaluation(ctx context.Context, username string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal quest payload: %w", err)
	}

	_, err = t.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(t.functionName),
		InvocationType: types.InvocationTypeEvent,
		Payload:        payload,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke %s: %w", t.functionName, err)
	}
	return nil
}
