package repository

import (
	"card-swipe/internal/models"
	"card-swipe/internal/utils"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

type userRepository struct {
	logger    *logrus.Entry
	dynamodb  utils.DynamoDbAPI
	tableName string
}

func NewUserRepository(logger *logrus.Entry, dynamodb utils.DynamoDbAPI, tableName string) utils.UserRepository {
	return &userRepository{
		logger:    logger,
		dynamodb:  dynamodb,
		tableName: tableName,
	}
}

func (r *userRepository) key(username string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"username": &types.AttributeValueMemberS{Value: username},
	}
}

func (r *userRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	result, err := r.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(username),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get user from DynamoDB")
		return nil, utils.NewStoreError("get user", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(result.Item, &user); err != nil {
		r.logger.WithError(err).Error("Failed to unmarshal user")
		return nil, utils.NewStoreError("get user", fmt.Errorf("failed to unmarshal user: %w", err))
	}
	normalizeUser(&user, username)

	return &user, nil
}

// CreateUser writes a new user document. It returns false if the username is
// already taken.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (bool, error) {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal user")
		return false, utils.NewStoreError("create user", fmt.Errorf("failed to marshal user: %w", err))
	}

	_, err = r.dynamodb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(username)"),
	})
	if isConditionFailed(err) {
		return false, nil
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to save user to DynamoDB")
		return false, utils.NewStoreError("create user", err)
	}

	r.logger.WithField("username", user.Username).Info("Successfully created user")
	return true, nil
}

// ListUsers scans the whole table in scan order.
func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	var startKey map[string]types.AttributeValue

	for {
		result, err := r.dynamodb.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			r.logger.WithError(err).Error("Failed to scan users from DynamoDB")
			return nil, utils.NewStoreError("list users", err)
		}

		var page []models.User
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			r.logger.WithError(err).Error("Failed to unmarshal users")
			return nil, utils.NewStoreError("list users", fmt.Errorf("failed to unmarshal users: %w", err))
		}
		for i := range page {
			normalizeUser(&page[i], page[i].Username)
		}
		users = append(users, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	r.logger.WithField("count", len(users)).Debug("Scanned users")
	return users, nil
}

// GetCards reads only the owner's card list. found is false when the owner
// does not exist.
func (r *userRepository) GetCards(ctx context.Context, owner string) ([]models.Card, bool, error) {
	result, err := r.dynamodb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.tableName),
		Key:                  r.key(owner),
		ProjectionExpression: aws.String("cards"),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get cards from DynamoDB")
		return nil, false, utils.NewStoreError("get cards", err)
	}

	if result.Item == nil {
		return nil, false, nil
	}

	var projection struct {
		Cards []models.Card `dynamodbav:"cards"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &projection); err != nil {
		r.logger.WithError(err).Error("Failed to unmarshal cards")
		return nil, false, utils.NewStoreError("get cards", fmt.Errorf("failed to unmarshal cards: %w", err))
	}

	return projection.Cards, true, nil
}

// AppendCard adds card to the end of the owner's list, provided the list still
// has the length the caller read. A missing owner is also reported as false.
func (r *userRepository) AppendCard(ctx context.Context, owner string, card models.Card, length int) (bool, error) {
	cards, err := attributevalue.Marshal([]models.Card{card})
	if err != nil {
		return false, utils.NewStoreError("append card", fmt.Errorf("failed to marshal card: %w", err))
	}

	condition := "attribute_exists(username) AND size(cards) = :length"
	if length == 0 {
		condition = "attribute_exists(username) AND (attribute_not_exists(cards) OR size(cards) = :length)"
	}

	_, err = r.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 r.key(owner),
		UpdateExpression:    aws.String("SET cards = list_append(if_not_exists(cards, :empty), :card)"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty":  &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":card":   cards,
			":length": number(length),
		},
	})
	if isConditionFailed(err) {
		r.logger.WithFields(logrus.Fields{
			"owner":  owner,
			"length": length,
		}).Warn("Card list changed before append")
		return false, nil
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to append card in DynamoDB")
		return false, utils.NewStoreError("append card", err)
	}

	r.logger.WithFields(logrus.Fields{
		"owner": owner,
		"id":    card.ID,
	}).Info("Successfully appended card")
	return true, nil
}

// SetCardCounter replaces one counter value at a resolved position. The value
// is written as given, not incremented server-side.
func (r *userRepository) SetCardCounter(ctx context.Context, loc models.CardLocation, counter models.Counter, value int) (bool, error) {
	if !counter.Valid() {
		return false, fmt.Errorf("unknown counter %q", counter)
	}

	names, values, guard := cardGuard(loc)
	names["#counter"] = string(counter)
	values[":value"] = number(value)

	return r.updateCard(ctx, loc, "set counter", &dynamodb.UpdateItemInput{
		UpdateExpression:          aws.String(fmt.Sprintf("SET cards[%d].#counter = :value", loc.Index)),
		ConditionExpression:       aws.String(guard),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
}

func (r *userRepository) SetCardBoosted(ctx context.Context, loc models.CardLocation, boosted bool) (bool, error) {
	names, values, guard := cardGuard(loc)
	values[":boosted"] = &types.AttributeValueMemberBOOL{Value: boosted}

	return r.updateCard(ctx, loc, "set boosted", &dynamodb.UpdateItemInput{
		UpdateExpression:          aws.String(fmt.Sprintf("SET cards[%d].boosted = :boosted", loc.Index)),
		ConditionExpression:       aws.String(guard),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
}

// SaveBoostPurchase persists the new balance and the boosted flag in one write.
func (r *userRepository) SaveBoostPurchase(ctx context.Context, loc models.CardLocation, coins int) (bool, error) {
	names, values, guard := cardGuard(loc)
	values[":coins"] = number(coins)
	values[":boosted"] = &types.AttributeValueMemberBOOL{Value: true}

	return r.updateCard(ctx, loc, "save boost", &dynamodb.UpdateItemInput{
		UpdateExpression:          aws.String(fmt.Sprintf("SET coins = :coins, cards[%d].boosted = :boosted", loc.Index)),
		ConditionExpression:       aws.String(guard),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
}

// SaveQuestAward sets the quest flag and the new balance. It returns false
// without writing if the flag is already set.
func (r *userRepository) SaveQuestAward(ctx context.Context, username, questID string, coins int) (bool, error) {
	_, err := r.dynamodb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              r.key(username),
		UpdateExpression: aws.String("SET coins = :coins, quests.#quest = :awarded"),
		ConditionExpression: aws.String(
			"attribute_exists(username) AND (attribute_not_exists(quests.#quest) OR quests.#quest = :pending)"),
		ExpressionAttributeNames: map[string]string{
			"#quest": questID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":coins":   number(coins),
			":awarded": &types.AttributeValueMemberBOOL{Value: true},
			":pending": &types.AttributeValueMemberBOOL{Value: false},
		},
	})
	if isConditionFailed(err) {
		r.logger.WithFields(logrus.Fields{
			"username": username,
			"quest":    questID,
		}).Warn("Quest already awarded, skipping")
		return false, nil
	}
	if err != nil {
		r.logger.WithError(err).Error("Failed to save quest award to DynamoDB")
		return false, utils.NewStoreError("save quest award", err)
	}

	r.logger.WithFields(logrus.Fields{
		"username": username,
		"quest":    questID,
		"coins":    coins,
	}).Info("Successfully saved quest award")
	return true, nil
}

func (r *userRepository) updateCard(ctx context.Context, loc models.CardLocation, op string, input *dynamodb.UpdateItemInput) (bool, error) {
	input.TableName = aws.String(r.tableName)
	input.Key = r.key(loc.Ref.Owner)
	if len(input.ExpressionAttributeNames) == 0 {
		input.ExpressionAttributeNames = nil
	}

	_, err := r.dynamodb.UpdateItem(ctx, input)
	if isConditionFailed(err) {
		r.logger.WithFields(logrus.Fields{
			"owner": loc.Ref.Owner,
			"index": loc.Index,
			"op":    op,
		}).Warn("Card moved or vanished before write")
		return false, nil
	}
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to %s in DynamoDB", op)
		return false, utils.NewStoreError(op, err)
	}
	return true, nil
}

// cardGuard builds the condition that the position still holds the card the
// caller resolved.
func cardGuard(loc models.CardLocation) (map[string]string, map[string]types.AttributeValue, string) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	if loc.Ref.ID != "" {
		values[":id"] = &types.AttributeValueMemberS{Value: loc.Ref.ID}
		return names, values, fmt.Sprintf("cards[%d].id = :id", loc.Index)
	}
	values[":created"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(loc.Ref.Created, 10)}
	return names, values, fmt.Sprintf("cards[%d].created = :created", loc.Index)
}

func number(v int) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.Itoa(v)}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return err != nil && errors.As(err, &ccf)
}

func normalizeUser(user *models.User, username string) {
	if user.Username == "" {
		user.Username = username
	}
	if user.Cards == nil {
		user.Cards = []models.Card{}
	}
	if user.Quests == nil {
		user.Quests = map[string]bool{}
	}
}
