package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"wikiracer/application/ports"
)

var errLockHeld = errors.New("title lock already held")

// TitleLocker serializes concurrent fills for the same title using DynamoDB
// conditional writes. A stale lock past its expiry can be stolen, so a
// crashed holder never wedges a title for longer than the lock TTL.
type TitleLocker struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// lockRecord represents a lock item in DynamoDB
type lockRecord struct {
	PK         string `dynamodbav:"PK"` // LOCK#<title>
	SK         string `dynamodbav:"SK"` // LOCK
	LockID     string `dynamodbav:"LockID"`
	Owner      string `dynamodbav:"Owner"`
	AcquiredAt string `dynamodbav:"AcquiredAt"`
	ExpiresAt  string `dynamodbav:"ExpiresAt"`
	TTL        int64  `dynamodbav:"TTL"` // Unix timestamp for DynamoDB TTL
}

// NewTitleLocker creates a new DynamoDB-backed title locker
func NewTitleLocker(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.TitleLocker {
	return &TitleLocker{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Acquire takes the per-title lock, retrying with backoff until the timeout
// elapses
func (tl *TitleLocker) Acquire(ctx context.Context, title, owner string, ttl, timeout time.Duration) (ports.TitleLock, error) {
	deadline := time.Now().Add(timeout)
	retryInterval := 100 * time.Millisecond

	for {
		lock, err := tl.tryAcquire(ctx, title, owner, ttl)
		if err == nil {
			return lock, nil
		}
		if !errors.Is(err, errLockHeld) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timeout acquiring lock for title: %s", title)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
			if retryInterval < time.Second {
				retryInterval = time.Duration(float64(retryInterval) * 1.5)
			}
		}
	}
}

// tryAcquire makes a single conditional-write attempt
func (tl *TitleLocker) tryAcquire(ctx context.Context, title, owner string, ttl time.Duration) (*titleLock, error) {
	lockID := fmt.Sprintf("%s_%d", owner, time.Now().UnixNano())
	now := time.Now()
	expiresAt := now.Add(ttl)

	record := lockRecord{
		PK:         fmt.Sprintf("LOCK#%s", title),
		SK:         "LOCK",
		LockID:     lockID,
		Owner:      owner,
		AcquiredAt: now.Format(time.RFC3339),
		ExpiresAt:  expiresAt.Format(time.RFC3339),
		TTL:        expiresAt.Unix(),
	}

	item := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: record.PK},
		"SK":         &types.AttributeValueMemberS{Value: record.SK},
		"LockID":     &types.AttributeValueMemberS{Value: record.LockID},
		"Owner":      &types.AttributeValueMemberS{Value: record.Owner},
		"AcquiredAt": &types.AttributeValueMemberS{Value: record.AcquiredAt},
		"ExpiresAt":  &types.AttributeValueMemberS{Value: record.ExpiresAt},
		"TTL":        &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", record.TTL)},
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(tl.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK) OR ExpiresAt < :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	}

	if _, err := tl.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			tl.logger.Debug("Title lock contended",
				zap.String("title", title),
				zap.String("owner", owner),
			)
			return nil, errLockHeld
		}
		return nil, fmt.Errorf("failed to acquire title lock: %w", err)
	}

	tl.logger.Debug("Title lock acquired",
		zap.String("title", title),
		zap.String("lockID", lockID),
		zap.String("owner", owner),
		zap.Duration("ttl", ttl),
	)

	return &titleLock{
		locker: tl,
		title:  title,
		lockID: lockID,
		owner:  owner,
	}, nil
}

// release deletes the lock item if this holder still owns it
func (tl *TitleLocker) release(ctx context.Context, title, lockID, owner string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(tl.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("LOCK#%s", title)},
			"SK": &types.AttributeValueMemberS{Value: "LOCK"},
		},
		ConditionExpression: aws.String("LockID = :lockId AND #owner = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#owner": "Owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":lockId": &types.AttributeValueMemberS{Value: lockID},
			":owner":  &types.AttributeValueMemberS{Value: owner},
		},
	}

	if _, err := tl.client.DeleteItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			tl.logger.Warn("Title lock already released or stolen",
				zap.String("title", title),
				zap.String("lockID", lockID),
			)
			return nil
		}
		return fmt.Errorf("failed to release title lock: %w", err)
	}

	tl.logger.Debug("Title lock released",
		zap.String("title", title),
		zap.String("lockID", lockID),
	)

	return nil
}

// titleLock is an acquired per-title lock
type titleLock struct {
	locker *TitleLocker
	title  string
	lockID string
	owner  string
}

// Release releases the lock
func (l *titleLock) Release(ctx context.Context) error {
	return l.locker.release(ctx, l.title, l.lockID, l.owner)
}
