package dynamo

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// userItem is the denormalized profile document keyed by userId.
type userItem struct {
	UserID    string `dynamodbav:"userId"`
	Email     string `dynamodbav:"email"`
	Name      string `dynamodbav:"name"`
	CreatedAt string `dynamodbav:"createdAt"`
	UpdatedAt string `dynamodbav:"updatedAt"`
}

// UserMirror implements store.UserMirror on a DynamoDB table.
type UserMirror struct {
	client API
	table  string
	logger *slog.Logger
}

// NewUserMirror creates a DynamoDB-backed store.UserMirror for the given table.
// If logger is nil, a default logger will be used.
func NewUserMirror(client API, table string, logger *slog.Logger) *UserMirror {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserMirror{
		client: client,
		table:  table,
		logger: logger.With(slog.String("component", "user_mirror")),
	}
}

// Ensure UserMirror implements store.UserMirror interface
var _ store.UserMirror = (*UserMirror)(nil)

// Put implements store.UserMirror.Put
func (m *UserMirror) Put(ctx context.Context, profile *domain.UserProfile) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	item, err := attributevalue.MarshalMap(userItem{
		UserID:    profile.UserID,
		Email:     profile.Email,
		Name:      profile.Name,
		CreatedAt: timestamp(profile.CreatedAt),
		UpdatedAt: timestamp(profile.UpdatedAt),
	})
	if err != nil {
		return err
	}

	_, err = m.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(m.table),
		Item:      item,
	})
	if err != nil {
		log.Error("failed to put profile item",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID))
		return err
	}

	return nil
}

// Get implements store.UserMirror.Get
// Returns store.ErrUserNotFound on a miss so callers can fall back to
// the relational store.
func (m *UserMirror) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	out, err := m.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(m.table),
		Key:       userKey(userID),
	})
	if err != nil {
		log.Error("failed to get profile item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, err
	}

	if len(out.Item) == 0 {
		return nil, store.ErrUserNotFound
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}

	return item.toDomain(), nil
}

// Patch implements store.UserMirror.Patch
// Both name and the profile's attributes are written in one update
// expression; name is a reserved word in the update grammar and has to
// be aliased.
func (m *UserMirror) Patch(ctx context.Context, userID, email, name string, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	_, err := m.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(m.table),
		Key:              userKey(userID),
		UpdateExpression: aws.String("SET #name = :name, email = :email, updatedAt = :updatedAt"),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":      &types.AttributeValueMemberS{Value: name},
			":email":     &types.AttributeValueMemberS{Value: email},
			":updatedAt": &types.AttributeValueMemberS{Value: timestamp(updatedAt)},
		},
	})
	if err != nil {
		log.Error("failed to patch profile item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return err
	}

	return nil
}

// Delete implements store.UserMirror.Delete
// Deleting a missing item is not an error.
func (m *UserMirror) Delete(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	_, err := m.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(m.table),
		Key:       userKey(userID),
	})
	if err != nil {
		log.Error("failed to delete profile item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return err
	}

	return nil
}

// userKey builds the primary key for a profile item.
func userKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

// toDomain converts the document item back into a domain profile.
// Timestamps that fail to parse are left as zero values; the mirror is a
// best-effort replica and readers tolerate staleness.
func (i userItem) toDomain() *domain.UserProfile {
	createdAt, _ := time.Parse(time.RFC3339, i.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, i.UpdatedAt)

	return &domain.UserProfile{
		UserID:    i.UserID,
		Email:     i.Email,
		Name:      i.Name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}
