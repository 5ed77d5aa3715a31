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

type ResolutionStorage interface {
	// Commit archives the resolution, writes the winner's bonus entry and
	// clears the active session slot in one atomic step. Either all three
	// happen or none do, so a failed resolve leaves the session retryable.
	Commit(ctx context.Context, record *ResolutionRecord, bonus *ScoreEntry) error
	GetAll(ctx context.Context) ([]*ResolutionRecord, error)
}

type DynamoResolutionStorage struct {
	Client            *dynamodb.Client
	TableName         string
	ScoresTableName   string
	SessionsTableName string
}

func (s *DynamoResolutionStorage) Commit(ctx context.Context, record *ResolutionRecord, bonus *ScoreEntry) error {
	recordItem, err := attributevalue.MarshalMap(record)
	if err != nil {
		logging.Log.Errorf("RESOLUTION: failed to marshal record: %v", err)
		return err
	}
	bonusItem, err := attributevalue.MarshalMap(bonus)
	if err != nil {
		logging.Log.Errorf("RESOLUTION: failed to marshal bonus entry: %v", err)
		return err
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.TableName,
					Item:                recordItem,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName: &s.ScoresTableName,
					Item:      bonusItem,
				},
			},
			{
				Delete: &types.Delete{
					TableName: &s.SessionsTableName,
					Key: map[string]types.AttributeValue{
						"PK": &types.AttributeValueMemberS{Value: ActiveSlotKey},
					},
					ConditionExpression: aws.String("SessionID = :sid"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":sid": &types.AttributeValueMemberS{Value: record.SessionID},
					},
				},
			},
		},
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			logging.Log.Warnf("RESOLUTION: transaction canceled for session %s: %v", record.SessionID, err)
			return ErrSessionNotFound
		}
		logging.Log.Errorf("RESOLUTION: failed to commit resolution for session %s: %v", record.SessionID, err)
		return err
	}

	logging.Log.Infof("RESOLUTION: archived session %s, winner %d, bonus %.2f",
		record.SessionID, record.WinnerID, record.BonusApplied)
	return nil
}

func (s *DynamoResolutionStorage) GetAll(ctx context.Context) ([]*ResolutionRecord, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("RESOLUTION: scan failed: %v", err)
		return nil, err
	}

	var records []*ResolutionRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		logging.Log.Errorf("RESOLUTION: failed to unmarshal record list: %v", err)
		return nil, err
	}
	return records, nil
}
