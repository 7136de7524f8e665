package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"amoria_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// userAttributes is every top-level attribute of a Users item, used to
// turn an exclude list into a scan projection.
var userAttributes = []string{
	"userId", "token", "name", "nameLower", "bio", "birthdate", "gender",
	"sexuality", "pictures", "location", "search", "myLikes", "whoLikesMe",
	"myDislikes", "myRelationships", "createdAt",
}

// DynamoStore is the DynamoDB-backed Store. Multi-item mutations run
// as TransactWriteItems with condition expressions, so the fences
// documented on the Store interface hold under concurrent requests.
type DynamoStore struct {
	Dynamo *DynamoService
}

func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func matchKey(pairKey string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
}

// isConditionFailure reports whether err is a rejected conditional
// write, standalone or inside a transaction.
func isConditionFailure(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return true
	}
	var txErr *types.TransactionCanceledException
	if errors.As(err, &txErr) {
		for _, reason := range txErr.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return true
			}
		}
	}
	return false
}

func (s *DynamoStore) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	item, err := s.Dynamo.GetItem(ctx, models.UsersTable, userKey(userID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return unmarshalUser(item)
}

func (s *DynamoStore) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UsersTable, models.TokenIndex,
		"#token = :token",
		map[string]types.AttributeValue{":token": &types.AttributeValueMemberS{Value: token}},
		map[string]string{"#token": "token"}, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("token %s: %w", token, ErrNotFound)
	}
	return unmarshalUser(items[0])
}

func (s *DynamoStore) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UsersTable, models.NameLowerIndex,
		"nameLower = :nameLower",
		map[string]types.AttributeValue{":nameLower": &types.AttributeValueMemberS{Value: strings.ToLower(name)}},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("name %q: %w", name, ErrNotFound)
	}
	return unmarshalUser(items[0])
}

func (s *DynamoStore) ListUsers(ctx context.Context, excludeAttrs []string) ([]models.User, error) {
	skip := make(map[string]struct{}, len(excludeAttrs))
	for _, attr := range excludeAttrs {
		skip[attr] = struct{}{}
	}
	projection := make([]string, 0, len(userAttributes))
	for _, attr := range userAttributes {
		if _, excluded := skip[attr]; !excluded {
			projection = append(projection, attr)
		}
	}

	var users []models.User
	if err := s.Dynamo.ScanWithProjection(ctx, models.UsersTable, projection, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *DynamoStore) PutUser(ctx context.Context, user models.User) error {
	return s.Dynamo.PutItem(ctx, models.UsersTable, user)
}

func (s *DynamoStore) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) (*models.User, error) {
	assignments := make([]string, 0, len(updates))
	values := make(map[string]types.AttributeValue, len(updates))
	names := make(map[string]string, len(updates))
	for field, value := range updates {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal update for %q: %w", field, err)
		}
		names["#"+field] = field
		values[":"+field] = av
		assignments = append(assignments, "#"+field+" = :"+field)
	}
	updateExpression := "SET " + strings.Join(assignments, ", ")

	item, err := s.Dynamo.UpdateItem(ctx, models.UsersTable, updateExpression,
		"attribute_exists(userId)", userKey(userID), values, names)
	if err != nil {
		if isConditionFailure(err) {
			return nil, fmt.Errorf("user %s not modified: %w", userID, ErrStorageFailure)
		}
		return nil, err
	}
	return unmarshalUser(item)
}

func (s *DynamoStore) DeleteUser(ctx context.Context, userID string) error {
	return s.Dynamo.DeleteItem(ctx, models.UsersTable, userKey(userID))
}

func (s *DynamoStore) AddLike(ctx context.Context, actorID, targetID string) error {
	items := []types.TransactWriteItem{
		{
			// The pair must not already be matched.
			ConditionCheck: &types.ConditionCheck{
				TableName:           aws.String(models.MatchesTable),
				Key:                 matchKey(models.PairKeyFor(actorID, targetID)),
				ConditionExpression: aws.String("attribute_not_exists(pairKey)"),
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(actorID),
				UpdateExpression:    aws.String("ADD myLikes :target"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":target": &types.AttributeValueMemberSS{Value: []string{targetID}},
				},
			},
		},
		{
			// A reciprocal like that landed first must become a match,
			// not be overwritten by this edge.
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(targetID),
				UpdateExpression:    aws.String("ADD whoLikesMe :actor"),
				ConditionExpression: aws.String("attribute_exists(userId) AND (attribute_not_exists(myLikes) OR NOT contains(myLikes, :actorId))"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":actor":   &types.AttributeValueMemberSS{Value: []string{actorID}},
					":actorId": &types.AttributeValueMemberS{Value: actorID},
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("like %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
		}
		return err
	}
	return nil
}

func (s *DynamoStore) AddDislike(ctx context.Context, actorID, targetID string) error {
	items := []types.TransactWriteItem{
		{
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(actorID),
				UpdateExpression:    aws.String("ADD myDislikes :target DELETE myLikes :target"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":target": &types.AttributeValueMemberSS{Value: []string{targetID}},
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(targetID),
				UpdateExpression:    aws.String("DELETE whoLikesMe :actor"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":actor": &types.AttributeValueMemberSS{Value: []string{actorID}},
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("dislike %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
		}
		return err
	}
	return nil
}

func (s *DynamoStore) FindMatchByID(ctx context.Context, matchID string) (*models.Match, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.MatchesTable, models.MatchIDIndex,
		"matchId = :matchId",
		map[string]types.AttributeValue{":matchId": &types.AttributeValueMemberS{Value: matchID}},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	return unmarshalMatch(items[0])
}

func (s *DynamoStore) FindMatchByPair(ctx context.Context, userA, userB string) (*models.Match, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, matchKey(models.PairKeyFor(userA, userB)))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("pair %s: %w", models.PairKeyFor(userA, userB), ErrNotFound)
		}
		return nil, err
	}
	return unmarshalMatch(item)
}

func (s *DynamoStore) FindMatchesInvolving(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchesTable,
		"initiator = :userId OR initiatedOn = :userId",
		map[string]types.AttributeValue{":userId": &types.AttributeValueMemberS{Value: userID}},
		nil, &matches)
	if err != nil {
		return nil, fmt.Errorf("failed to find matches for %s: %w", userID, err)
	}
	return matches, nil
}

func (s *DynamoStore) CreateMatch(ctx context.Context, match models.Match) error {
	item, err := attributevalue.MarshalMap(match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	initiatorSet := &types.AttributeValueMemberSS{Value: []string{match.Initiator}}
	otherSet := &types.AttributeValueMemberSS{Value: []string{match.InitiatedOn}}

	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           aws.String(models.MatchesTable),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(pairKey)"),
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(match.Initiator),
				UpdateExpression:    aws.String("DELETE myLikes :other, whoLikesMe :other"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":other": otherSet,
				},
			},
		},
		{
			// The closing like must still be pending; if it was consumed
			// or withdrawn in the meantime, the whole transaction drops.
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(match.InitiatedOn),
				UpdateExpression:    aws.String("DELETE myLikes :initiator, whoLikesMe :initiator"),
				ConditionExpression: aws.String("attribute_exists(userId) AND contains(myLikes, :initiatorId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":initiator":   initiatorSet,
					":initiatorId": &types.AttributeValueMemberS{Value: match.Initiator},
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("match for %s not created: %w", match.PairKey, ErrStorageFailure)
		}
		return err
	}
	return nil
}

func (s *DynamoStore) DeleteMatch(ctx context.Context, match models.Match) error {
	initiatorSet := &types.AttributeValueMemberSS{Value: []string{match.Initiator}}
	otherSet := &types.AttributeValueMemberSS{Value: []string{match.InitiatedOn}}

	items := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName:           aws.String(models.MatchesTable),
				Key:                 matchKey(match.PairKey),
				ConditionExpression: aws.String("matchId = :matchId"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":matchId": &types.AttributeValueMemberS{Value: match.MatchID},
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(match.Initiator),
				UpdateExpression:    aws.String("DELETE myLikes :other, whoLikesMe :other"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":other": otherSet,
				},
			},
		},
		{
			Update: &types.Update{
				TableName:           aws.String(models.UsersTable),
				Key:                 userKey(match.InitiatedOn),
				UpdateExpression:    aws.String("DELETE myLikes :initiator, whoLikesMe :initiator"),
				ConditionExpression: aws.String("attribute_exists(userId)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":initiator": initiatorSet,
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if isConditionFailure(err) {
			return fmt.Errorf("match %s not deleted: %w", match.MatchID, ErrStorageFailure)
		}
		return err
	}
	return nil
}

func (s *DynamoStore) AppendMessage(ctx context.Context, match models.Match, message models.Message) (*models.Match, error) {
	messageAV, err := attributevalue.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	item, err := s.Dynamo.UpdateItem(ctx, models.MatchesTable,
		"SET messages = list_append(if_not_exists(messages, :empty), :message)",
		"matchId = :matchId",
		matchKey(match.PairKey),
		map[string]types.AttributeValue{
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":message": &types.AttributeValueMemberL{Value: []types.AttributeValue{messageAV}},
			":matchId": &types.AttributeValueMemberS{Value: match.MatchID},
		}, nil)
	if err != nil {
		if isConditionFailure(err) {
			return nil, fmt.Errorf("match %s gone, message not appended: %w", match.MatchID, ErrStorageFailure)
		}
		return nil, err
	}
	return unmarshalMatch(item)
}

func unmarshalUser(item map[string]types.AttributeValue) (*models.User, error) {
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func unmarshalMatch(item map[string]types.AttributeValue) (*models.Match, error) {
	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}
