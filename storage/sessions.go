package storage

import (
	"context"
	"errors"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SessionStorage guards the single active tiebreaker slot. PutActive is a
// compare-and-set: it fails with ErrSessionActive while any session holds the
// slot, so two admins racing to activate cannot both win.
type SessionStorage interface {
	PutActive(ctx context.Context, session *TiebreakerSession) error
	GetActive(ctx context.Context) (*TiebreakerSession, error)
	DeleteActive(ctx context.Context, sessionID string) error
}

type DynamoSessionStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoSessionStorage) PutActive(ctx context.Context, session *TiebreakerSession) error {
	session.Slot = ActiveSlotKey
	item, err := attributevalue.MarshalMap(session)
	if err != nil {
		logging.Log.Errorf("SESSION: failed to marshal session: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("SESSION: active slot already taken, rejected session %s", session.SessionID)
			return ErrSessionActive
		}
		logging.Log.Errorf("SESSION: failed to put active session: %v", err)
		return err
	}
	return nil
}

func (s *DynamoSessionStorage) GetActive(ctx context.Context) (*TiebreakerSession, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": ActiveSlotKey})
	if err != nil {
		logging.Log.Errorf("SESSION: failed to marshal slot key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("SESSION: GetItem for active slot failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var session TiebreakerSession
	if err := attributevalue.UnmarshalMap(out.Item, &session); err != nil {
		logging.Log.Errorf("SESSION: failed to unmarshal session: %v", err)
		return nil, err
	}
	return &session, nil
}

// DeleteActive clears the slot only while the given session still holds it,
// so a stale handle cannot cancel a newer session.
func (s *DynamoSessionStorage) DeleteActive(ctx context.Context, sessionID string) error {
	_, err := s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: ActiveSlotKey},
		},
		ConditionExpression: aws.String("SessionID = :sid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":sid": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		var cce *types.ConditionalCheckFailedException
		if errors.As(err, &cce) {
			logging.Log.Warnf("SESSION: delete rejected, session %s does not hold the slot", sessionID)
			return ErrSessionNotFound
		}
		logging.Log.Errorf("SESSION: failed to delete active session: %v", err)
		return err
	}
	return nil
}
