package utils

import (
	"context"

	"card-swipe/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDbAPI defines the DynamoDB operations needed by our application
type DynamoDbAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// UserRepository is the card store adapter. Every user is one document keyed by
// username; cards are addressed by their position in the owner's card list.
//
// Positional writes take the CardLocation produced by a fresh scan and report
// false when the position no longer holds that card. AppendCard likewise
// reports false when the owner's list no longer has the length the caller read.
type UserRepository interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetCards(ctx context.Context, owner string) ([]models.Card, bool, error)
	AppendCard(ctx context.Context, owner string, card models.Card, length int) (bool, error)
	SetCardCounter(ctx context.Context, loc models.CardLocation, counter models.Counter, value int) (bool, error)
	SetCardBoosted(ctx context.Context, loc models.CardLocation, boosted bool) (bool, error)
	SaveBoostPurchase(ctx context.Context, loc models.CardLocation, coins int) (bool, error)
	SaveQuestAward(ctx context.Context, username, questID string, coins int) (bool, error)
}

// MediaStore holds the blobs referenced by Card.Media
type MediaStore interface {
	PutMedia(ctx context.Context, key, contentType string, body []byte) error
}

// QuestTrigger asks for a user's quests to be re-evaluated
type QuestTrigger interface {
	TriggerQuestEvaluation(ctx context.Context, username string) error
}
