package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dmitrijs2005/userdir/internal/common"
	"github.com/dmitrijs2005/userdir/internal/server/models"
)

// usernameIndex is the secondary index on the users table keyed by username.
const usernameIndex = "username-index"

// DynamoAPI is the subset of the DynamoDB client used by the repository.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type DynamoRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoRepository(client DynamoAPI, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) Create(ctx context.Context, user *models.User) error {
	item := map[string]types.AttributeValue{
		"userId":    &types.AttributeValueMemberS{Value: user.UserID},
		"username":  &types.AttributeValueMemberS{Value: user.Username},
		"role":      &types.AttributeValueMemberS{Value: user.Role.String()},
		"createdAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(user.CreatedAt, 10)},
		"updatedAt": &types.AttributeValueMemberN{Value: strconv.FormatInt(user.UpdatedAt, 10)},
	}

	// Conditional on the primary key only. Uniqueness of the username is
	// checked by the caller beforehand; see the package comment on the race.
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(userId)"),
	})
	if err != nil {
		return fmt.Errorf("dynamodb put error: %w", err)
	}
	return nil
}

func (r *DynamoRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get error: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, common.ErrorNotFound
	}
	return itemToUser(out.Item)
}

func (r *DynamoRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		IndexName:              aws.String(usernameIndex),
		KeyConditionExpression: aws.String("username = :username"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":username": &types.AttributeValueMemberS{Value: username},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb query error: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, common.ErrorNotFound
	}
	return itemToUser(out.Items[0])
}

func (r *DynamoRepository) List(ctx context.Context, limit int32, cursor string) ([]*models.User, string, error) {
	in := &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(limit),
	}
	if cursor != "" {
		in.ExclusiveStartKey = map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: cursor},
		}
	}

	out, err := r.client.Scan(ctx, in)
	if err != nil {
		return nil, "", fmt.Errorf("dynamodb scan error: %w", err)
	}

	result := make([]*models.User, 0, len(out.Items))
	for _, item := range out.Items {
		u, err := itemToUser(item)
		if err != nil {
			return nil, "", err
		}
		result = append(result, u)
	}

	next := ""
	if key, ok := out.LastEvaluatedKey["userId"]; ok {
		if s, ok := key.(*types.AttributeValueMemberS); ok {
			next = s.Value
		}
	}
	return result, next, nil
}

func (r *DynamoRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		ConditionExpression: aws.String("attribute_exists(userId)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("dynamodb delete error: %w", err)
	}
	return nil
}

func itemToUser(item map[string]types.AttributeValue) (*models.User, error) {
	u := &models.User{}

	s, ok := item["userId"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("dynamodb item error: userId attribute missing")
	}
	u.UserID = s.Value

	if s, ok := item["username"].(*types.AttributeValueMemberS); ok {
		u.Username = s.Value
	}

	if s, ok := item["role"].(*types.AttributeValueMemberS); ok {
		role, err := models.ParseRole(s.Value)
		if err != nil {
			return nil, fmt.Errorf("dynamodb item error: %w", err)
		}
		u.Role = role
	}

	var err error
	if n, ok := item["createdAt"].(*types.AttributeValueMemberN); ok {
		if u.CreatedAt, err = strconv.ParseInt(n.Value, 10, 64); err != nil {
			return nil, fmt.Errorf("dynamodb item error: bad createdAt: %w", err)
		}
	}
	if n, ok := item["updatedAt"].(*types.AttributeValueMemberN); ok {
		if u.UpdatedAt, err = strconv.ParseInt(n.Value, 10, 64); err != nil {
			return nil, fmt.Errorf("dynamodb item error: bad updatedAt: %w", err)
		}
	}
	return u, nil
}
