// Package dynamo implements the document-store mirror interfaces on
// DynamoDB. The mirror is the secondary, denormalized side of the
// dual-store repository: written best-effort after the relational commit
// and consulted first on reads.
package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// API is the subset of the DynamoDB client used by the mirrors.
// Narrowing the client to an interface keeps the mirrors testable
// without AWS credentials.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// timestamp formats a time the way the document items store it.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
