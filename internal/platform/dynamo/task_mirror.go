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

// taskItem is the denormalized task document keyed by taskId. The
// attachment fields are nullable, matching the relational columns.
type taskItem struct {
	TaskID      string  `dynamodbav:"taskId"`
	UserID      string  `dynamodbav:"userId"`
	UserEmail   string  `dynamodbav:"userEmail"`
	Title       string  `dynamodbav:"title"`
	Description string  `dynamodbav:"description"`
	Status      string  `dynamodbav:"status"`
	FileURL     *string `dynamodbav:"fileUrl"`
	FileName    *string `dynamodbav:"fileName"`
	S3Key       *string `dynamodbav:"s3Key"`
	CreatedAt   string  `dynamodbav:"createdAt"`
	UpdatedAt   string  `dynamodbav:"updatedAt"`
}

// TaskMirror implements store.TaskMirror on a DynamoDB table.
type TaskMirror struct {
	client API
	table  string
	logger *slog.Logger
}

// NewTaskMirror creates a DynamoDB-backed store.TaskMirror for the given table.
// If logger is nil, a default logger will be used.
func NewTaskMirror(client API, table string, logger *slog.Logger) *TaskMirror {
	if client == nil {
		panic("client cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskMirror{
		client: client,
		table:  table,
		logger: logger.With(slog.String("component", "task_mirror")),
	}
}

// Ensure TaskMirror implements store.TaskMirror interface
var _ store.TaskMirror = (*TaskMirror)(nil)

// Put implements store.TaskMirror.Put
func (m *TaskMirror) Put(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	doc := taskItem{
		TaskID:      task.ID,
		UserID:      task.OwnerID,
		UserEmail:   task.OwnerEmail,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   timestamp(task.CreatedAt),
		UpdatedAt:   timestamp(task.UpdatedAt),
	}
	if task.Attachment != nil {
		doc.FileURL = aws.String(task.Attachment.URL)
		doc.FileName = aws.String(task.Attachment.FileName)
		doc.S3Key = aws.String(task.Attachment.StorageKey)
	}

	item, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return err
	}

	_, err = m.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(m.table),
		Item:      item,
	})
	if err != nil {
		log.Error("failed to put task item",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return err
	}

	return nil
}

// Get implements store.TaskMirror.Get
// Returns store.ErrTaskNotFound on a miss so callers can fall back to
// the relational store.
func (m *TaskMirror) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	out, err := m.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(m.table),
		Key:       taskKey(taskID),
	})
	if err != nil {
		log.Error("failed to get task item",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return nil, err
	}

	if len(out.Item) == 0 {
		return nil, store.ErrTaskNotFound
	}

	var item taskItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}

	return item.toDomain(), nil
}

// Patch implements store.TaskMirror.Patch
// The update expression carries exactly the changed fields plus
// updatedAt. "status" is a reserved word in the update grammar, so it is
// written through an aliased attribute name.
func (m *TaskMirror) Patch(
	ctx context.Context,
	taskID string,
	changes domain.ChangeSet,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if changes.Empty() {
		return nil
	}

	expr := "SET updatedAt = :updatedAt"
	values := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberS{Value: timestamp(updatedAt)},
	}
	var names map[string]string

	for _, ch := range changes.Changes {
		switch ch.Field {
		case domain.FieldTitle:
			expr += ", title = :title"
			values[":title"] = &types.AttributeValueMemberS{Value: ch.New}
		case domain.FieldDescription:
			expr += ", description = :description"
			values[":description"] = &types.AttributeValueMemberS{Value: ch.New}
		case domain.FieldStatus:
			expr += ", #status = :status"
			values[":status"] = &types.AttributeValueMemberS{Value: ch.New}
			if names == nil {
				names = map[string]string{}
			}
			names["#status"] = "status"
		}
	}

	_, err := m.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(m.table),
		Key:                       taskKey(taskID),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		log.Error("failed to patch task item",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return err
	}

	return nil
}

// Delete implements store.TaskMirror.Delete
// Deleting a missing item is not an error.
func (m *TaskMirror) Delete(ctx context.Context, taskID string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	_, err := m.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(m.table),
		Key:       taskKey(taskID),
	})
	if err != nil {
		log.Error("failed to delete task item",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return err
	}

	return nil
}

// taskKey builds the primary key for a task item.
func taskKey(taskID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"taskId": &types.AttributeValueMemberS{Value: taskID},
	}
}

// toDomain converts the document item back into a domain task.
func (i taskItem) toDomain() *domain.Task {
	createdAt, _ := time.Parse(time.RFC3339, i.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, i.UpdatedAt)

	task := &domain.Task{
		ID:          i.TaskID,
		OwnerID:     i.UserID,
		OwnerEmail:  i.UserEmail,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if i.S3Key != nil {
		task.Attachment = &domain.Attachment{
			URL:        aws.ToString(i.FileURL),
			FileName:   aws.ToString(i.FileName),
			StorageKey: aws.ToString(i.S3Key),
		}
	}

	return task
}
