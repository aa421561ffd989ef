package dynamo

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func TestUserMirrorPut(t *testing.T) {
	ctx := context.Background()

	client := &fakeDynamo{}
	mirror := NewUserMirror(client, "UserProfiles", nil)

	profile := &domain.UserProfile{
		UserID:    "user-1",
		Email:     "jane@example.com",
		Name:      "Jane",
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, mirror.Put(ctx, profile))

	require.Len(t, client.puts, 1)
	assert.Equal(t, "UserProfiles", aws.ToString(client.puts[0].TableName))

	email, ok := client.puts[0].Item["email"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", email.Value)
}

func TestUserMirrorGet(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips an item", func(t *testing.T) {
		client := &fakeDynamo{getOutput: &dynamodb.GetItemOutput{
			Item: map[string]types.AttributeValue{
				"userId":    &types.AttributeValueMemberS{Value: "user-1"},
				"email":     &types.AttributeValueMemberS{Value: "jane@example.com"},
				"name":      &types.AttributeValueMemberS{Value: "Jane"},
				"createdAt": &types.AttributeValueMemberS{Value: "2024-03-01T10:00:00Z"},
				"updatedAt": &types.AttributeValueMemberS{Value: "2024-03-01T10:00:00Z"},
			},
		}}
		mirror := NewUserMirror(client, "UserProfiles", nil)

		profile, err := mirror.Get(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "user-1", profile.UserID)
		assert.Equal(t, "Jane", profile.Name)
		assert.Equal(t, 2024, profile.CreatedAt.Year())
	})

	t.Run("miss maps to ErrUserNotFound", func(t *testing.T) {
		mirror := NewUserMirror(&fakeDynamo{}, "UserProfiles", nil)

		_, err := mirror.Get(ctx, "user-9")

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserMirrorPatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 2, 11, 0, 0, 0, time.UTC)

	client := &fakeDynamo{}
	mirror := NewUserMirror(client, "UserProfiles", nil)

	require.NoError(t, mirror.Patch(ctx, "user-1", "new@example.com", "New Name", now))

	require.Len(t, client.updates, 1)
	update := client.updates[0]

	// "name" is reserved in the update grammar and must be aliased.
	assert.Equal(t, "SET #name = :name, email = :email, updatedAt = :updatedAt",
		aws.ToString(update.UpdateExpression))
	assert.Equal(t, map[string]string{"#name": "name"}, update.ExpressionAttributeNames)

	name, ok := update.ExpressionAttributeValues[":name"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "New Name", name.Value)

	updatedAt, ok := update.ExpressionAttributeValues[":updatedAt"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "2024-03-02T11:00:00Z", updatedAt.Value)
}

func TestUserMirrorDelete(t *testing.T) {
	ctx := context.Background()

	client := &fakeDynamo{}
	mirror := NewUserMirror(client, "UserProfiles", nil)

	require.NoError(t, mirror.Delete(ctx, "user-1"))

	require.Len(t, client.deletes, 1)
	key, ok := client.deletes[0].Key["userId"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "user-1", key.Value)
}
