package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yaplog-backend/application/ports"
	"yaplog-backend/domain/journal"
	pkgerrors "yaplog-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// unprocessedPartition is the sparse GSI1 partition holding every memory
// that has not been processed yet. ApplyDigest removes the index
// attributes, which drops the item out of the partition.
const unprocessedPartition = "MEMORY#UNPROCESSED"

// MemoryRepository implements ports.MemoryRepository using DynamoDB
type MemoryRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewMemoryRepository creates a new MemoryRepository
func NewMemoryRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) ports.MemoryRepository {
	return &MemoryRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

// memoryItem represents the DynamoDB item structure for a memory
type memoryItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK,omitempty"`
	GSI1SK     string `dynamodbav:"GSI1SK,omitempty"`
	EntityType string `dynamodbav:"EntityType"`
	MemoryID   string `dynamodbav:"MemoryID"`
	OwnerID    string `dynamodbav:"OwnerID"`
	Content    string `dynamodbav:"Content"`
	Day        string `dynamodbav:"Day"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	Processed  bool   `dynamodbav:"Processed"`

	Essence                 string   `dynamodbav:"Essence,omitempty"`
	StructuredUnderstanding []string `dynamodbav:"StructuredUnderstanding,omitempty"`
	Summary                 string   `dynamodbav:"Summary,omitempty"`
	ProcessedAt             string   `dynamodbav:"ProcessedAt,omitempty"`
}

func memoryPK(ownerID string) string {
	return fmt.Sprintf("USER#%s", ownerID)
}

// memorySK sorts an owner's memories chronologically; the ID suffix keeps
// keys unique for same-instant writes.
func memorySK(createdAt time.Time, memoryID string) string {
	return fmt.Sprintf("MEMORY#%s#%s", createdAt.UTC().Format(time.RFC3339Nano), memoryID)
}

// Insert persists a new memory entry
func (r *MemoryRepository) Insert(ctx context.Context, memory *journal.Memory) error {
	item := memoryItem{
		PK:         memoryPK(memory.OwnerID()),
		SK:         memorySK(memory.CreatedAt(), memory.ID()),
		GSI1PK:     unprocessedPartition,
		GSI1SK:     memory.CreatedAt().UTC().Format(time.RFC3339Nano),
		EntityType: "MEMORY",
		MemoryID:   memory.ID(),
		OwnerID:    memory.OwnerID(),
		Content:    memory.Content(),
		Day:        memory.Day(),
		CreatedAt:  memory.CreatedAt().UTC().Format(time.RFC3339Nano),
		Processed:  false,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal memory", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		r.logger.Error("Failed to save memory to DynamoDB",
			zap.String("memoryID", memory.ID()),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("insert memory", err)
	}

	return nil
}

// FindByOwner retrieves all memories for an owner, newest first
func (r *MemoryRepository) FindByOwner(ctx context.Context, ownerID string) ([]*journal.Memory, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(memoryPK(ownerID))).
		And(expression.Key("SK").BeginsWith("MEMORY#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build query", err)
	}

	var memories []*journal.Memory
	var lastKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false), // newest first
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query memories", err)
		}

		for _, raw := range out.Items {
			memory, err := r.unmarshalMemory(raw)
			if err != nil {
				r.logger.Warn("Skipping unreadable memory item", zap.Error(err))
				continue
			}
			memories = append(memories, memory)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	return memories, nil
}

// FindUnprocessed retrieves up to limit memories without a digest
func (r *MemoryRepository) FindUnprocessed(ctx context.Context, limit int) ([]*journal.Memory, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(unprocessedPartition))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query unprocessed memories", err)
	}

	memories := make([]*journal.Memory, 0, len(out.Items))
	for _, raw := range out.Items {
		memory, err := r.unmarshalMemory(raw)
		if err != nil {
			r.logger.Warn("Skipping unreadable memory item", zap.Error(err))
			continue
		}
		memories = append(memories, memory)
	}

	return memories, nil
}

// ApplyDigest attaches derived fields and flips the processed flag. The
// update is conditional on the item still being unprocessed, so the
// transition commits at most once even across concurrent batch runs;
// removing the GSI1 attributes drops the item out of the unprocessed
// partition.
func (r *MemoryRepository) ApplyDigest(ctx context.Context, memory *journal.Memory, digest *journal.Digest) error {
	update := expression.
		Set(expression.Name("Processed"), expression.Value(true)).
		Set(expression.Name("Essence"), expression.Value(digest.Essence())).
		Set(expression.Name("StructuredUnderstanding"), expression.Value(digest.StructuredUnderstanding())).
		Set(expression.Name("Summary"), expression.Value(digest.Summary())).
		Set(expression.Name("ProcessedAt"), expression.Value(digest.ProcessedAt().Format(time.RFC3339Nano))).
		Remove(expression.Name("GSI1PK")).
		Remove(expression.Name("GSI1SK"))

	cond := expression.Equal(expression.Name("Processed"), expression.Value(false))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return pkgerrors.NewDatabaseError("build update", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: memoryPK(memory.OwnerID())},
			"SK": &types.AttributeValueMemberS{Value: memorySK(memory.CreatedAt(), memory.ID())},
		},
		UpdateExpression:                    expr.Update(),
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			// The condition also fails when the item is missing entirely.
			// With ALL_OLD the exception carries the existing item, so an
			// empty payload means the memory was never stored.
			if len(ccf.Item) == 0 {
				return pkgerrors.NewNotFoundError("memory")
			}
			return pkgerrors.NewConflictError("memory is already processed")
		}
		return pkgerrors.NewDatabaseError("apply digest", err)
	}

	return nil
}

func (r *MemoryRepository) unmarshalMemory(raw map[string]types.AttributeValue) (*journal.Memory, error) {
	var item memoryItem
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("unmarshal memory item: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse CreatedAt %q: %w", item.CreatedAt, err)
	}

	var digest *journal.Digest
	if item.Processed {
		processedAt, err := time.Parse(time.RFC3339Nano, item.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("parse ProcessedAt %q: %w", item.ProcessedAt, err)
		}
		digest = journal.ReconstructDigest(item.Essence, item.StructuredUnderstanding, item.Summary, processedAt)
	}

	return journal.ReconstructMemory(item.MemoryID, item.OwnerID, item.Content, item.Day, createdAt, digest)
}
