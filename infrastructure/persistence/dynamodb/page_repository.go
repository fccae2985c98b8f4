package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"wikiracer/application/ports"
	"wikiracer/domain/core/entities"
	"wikiracer/domain/core/valueobjects"
	pkgerrors "wikiracer/pkg/errors"
	"wikiracer/pkg/utils"
)

// PageRepository implements the PageRecordStore interface using DynamoDB.
// The single-table layout keeps a page's metadata and its descendance edges
// under one partition:
//
//	PK=PAGE#<title> SK=METADATA       the record itself
//	PK=PAGE#<title> SK=CHILD#<child>  one item per descendance edge
type PageRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewPageRepository creates a new PageRepository
func NewPageRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.PageRecordStore {
	return &PageRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// pageItem represents the DynamoDB item structure for a page record
type pageItem struct {
	PK         string   `dynamodbav:"PK"`
	SK         string   `dynamodbav:"SK"`
	EntityType string   `dynamodbav:"EntityType"`
	PageID     string   `dynamodbav:"PageID"`
	Title      string   `dynamodbav:"Title"`
	Links      []string `dynamodbav:"Links"`
	Backlinks  []string `dynamodbav:"Backlinks,omitempty"`
	FetchedAt  string   `dynamodbav:"FetchedAt"`
}

// childItem represents a descendance edge item
type childItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Parent     string `dynamodbav:"Parent"`
	Child      string `dynamodbav:"Child"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func pageKey(title string) string {
	return fmt.Sprintf("PAGE#%s", title)
}

// Lookup retrieves the record for an exact title match. A cache miss
// returns (nil, nil). The read is strongly consistent so a record committed
// by a concurrent search is always observed.
func (r *PageRepository) Lookup(ctx context.Context, title string) (*entities.PageRecord, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pageKey(title)},
		},
		ConsistentRead: aws.Bool(true),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to query page record", err)
	}

	var metadata *pageItem
	children := make([]string, 0)
	for _, raw := range result.Items {
		entityType := ""
		if attr, ok := raw["EntityType"].(*types.AttributeValueMemberS); ok {
			entityType = attr.Value
		}
		switch entityType {
		case "PAGE":
			var item pageItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, pkgerrors.NewDatabaseError("failed to unmarshal page record", err)
			}
			metadata = &item
		case "CHILD":
			var item childItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal child edge, skipping",
					zap.String("title", title),
					zap.Error(err),
				)
				continue
			}
			children = append(children, item.Child)
		}
	}

	if metadata == nil {
		return nil, nil
	}

	return r.reconstruct(metadata, children)
}

// Insert persists a new record with a conditional write. The first write for
// a title wins; a concurrent duplicate fill is silently absorbed so retried
// and racing searches stay idempotent.
func (r *PageRepository) Insert(ctx context.Context, record *entities.PageRecord) error {
	item := pageItem{
		PK:         pageKey(record.Title().String()),
		SK:         "METADATA",
		EntityType: "PAGE",
		PageID:     record.ID().String(),
		Title:      record.Title().String(),
		Links:      record.Links(),
		Backlinks:  record.Backlinks(),
		FetchedAt:  record.FetchedAt().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to marshal page record", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			r.logger.Debug("Page record already present, insert absorbed",
				zap.String("title", record.Title().String()),
			)
			return nil
		}
		return pkgerrors.NewDatabaseError("failed to save page record", err)
	}

	r.logger.Debug("Page record saved",
		zap.String("title", record.Title().String()),
		zap.Int("links", len(record.Links())),
		zap.Int("backlinks", len(record.Backlinks())),
	)

	return nil
}

// AddChild records a descendance edge from parent to child. Re-adding an
// existing edge is a no-op.
func (r *PageRepository) AddChild(ctx context.Context, parentTitle, childTitle string) error {
	item := childItem{
		PK:         pageKey(parentTitle),
		SK:         fmt.Sprintf("CHILD#%s", childTitle),
		EntityType: "CHILD",
		Parent:     parentTitle,
		Child:      childTitle,
		CreatedAt:  utils.NowRFC3339(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to marshal child edge", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil
		}
		return pkgerrors.NewDatabaseError("failed to save child edge", err)
	}

	return nil
}

// DeleteExpired removes page records fetched before the cutoff, along with
// their descendance edges, and returns how many records were purged.
func (r *PageRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("PAGE")).
		And(expression.Name("FetchedAt").LessThan(expression.Value(cutoff.Format(time.RFC3339))))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return 0, pkgerrors.NewDatabaseError("failed to build expiry filter", err)
	}

	purged := 0
	var startKey map[string]types.AttributeValue
	for {
		input := &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		}

		result, err := r.client.Scan(ctx, input)
		if err != nil {
			return purged, pkgerrors.NewDatabaseError("failed to scan for expired records", err)
		}

		for _, raw := range result.Items {
			var item pageItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("Failed to unmarshal expired record, skipping", zap.Error(err))
				continue
			}
			if err := r.deletePartition(ctx, item.Title); err != nil {
				return purged, err
			}
			purged++
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	r.logger.Info("Expired page records deleted",
		zap.Int("purged", purged),
		zap.Time("cutoff", cutoff),
	)

	return purged, nil
}

// deletePartition removes a page's metadata item and every edge item sharing
// its partition key
func (r *PageRepository) deletePartition(ctx context.Context, title string) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pageKey(title)},
		},
		ProjectionExpression: aws.String("PK, SK"),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return pkgerrors.NewDatabaseError("failed to query page partition", err)
	}

	for _, raw := range result.Items {
		deleteInput := &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key: map[string]types.AttributeValue{
				"PK": raw["PK"],
				"SK": raw["SK"],
			},
		}
		if _, err := r.client.DeleteItem(ctx, deleteInput); err != nil {
			return pkgerrors.NewDatabaseError("failed to delete page item", err)
		}
	}

	return nil
}

// reconstruct rebuilds the domain entity from stored items
func (r *PageRepository) reconstruct(item *pageItem, children []string) (*entities.PageRecord, error) {
	id, err := valueobjects.NewPageIDFromString(item.PageID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored page record has an invalid id", err)
	}

	title, err := valueobjects.NewPageTitle(item.Title)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored page record has an invalid title", err)
	}

	fetchedAt, err := utils.ParseRFC3339(item.FetchedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("stored page record has an invalid timestamp", err)
	}

	record, err := entities.ReconstructPageRecord(id, title, item.Links, item.Backlinks, children, fetchedAt)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to reconstruct page record", err)
	}

	return record, nil
}
