package storage

import (
	"context"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type ScoreStorage interface {
	// Upsert writes the entry under its composite key and reports whether the
	// key was seen for the first time. A repeated submission overwrites the
	// value; CreatedAt of the first write is preserved.
	Upsert(ctx context.Context, entry *ScoreEntry) (inserted bool, err error)
	GetAll(ctx context.Context) ([]*ScoreEntry, error)
	GetByJudge(ctx context.Context, judgeID int) ([]*ScoreEntry, error)
	DeleteAll(ctx context.Context) error
}

type DynamoScoreStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoScoreStorage) Upsert(ctx context.Context, entry *ScoreEntry) (bool, error) {
	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: entry.PK},
			"SK": &types.AttributeValueMemberS{Value: entry.SK},
		},
		UpdateExpression: aws.String(
			"SET Kind = :kind, JudgeID = :judge, CompetitorID = :comp, CategoryID = :cat, " +
				"#val = :val, SessionID = :session, UpdatedAt = :now, CreatedAt = if_not_exists(CreatedAt, :now)"),
		ExpressionAttributeNames: map[string]string{
			"#val": "Value",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":kind":    &types.AttributeValueMemberS{Value: entry.Kind},
			":judge":   intAttr(entry.JudgeID),
			":comp":    intAttr(entry.CompetitorID),
			":cat":     intAttr(entry.CategoryID),
			":val":     floatAttr(entry.Value),
			":session": &types.AttributeValueMemberS{Value: entry.SessionID},
			":now":     timeAttr(entry.UpdatedAt),
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		logging.Log.Errorf("SCORE: upsert failed for %s/%s: %v", entry.PK, entry.SK, err)
		return false, err
	}

	inserted := len(out.Attributes) == 0
	if !inserted {
		var previous ScoreEntry
		if err := attributevalue.UnmarshalMap(out.Attributes, &previous); err == nil {
			entry.CreatedAt = previous.CreatedAt
		}
	}
	return inserted, nil
}

func (s *DynamoScoreStorage) GetAll(ctx context.Context) ([]*ScoreEntry, error) {
	var entries []*ScoreEntry
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("SCORE: scan failed: %v", err)
			return nil, err
		}

		var page []*ScoreEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("SCORE: failed to unmarshal score list: %v", err)
			return nil, err
		}
		entries = append(entries, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
	return entries, nil
}

func (s *DynamoScoreStorage) GetByJudge(ctx context.Context, judgeID int) ([]*ScoreEntry, error) {
	var entries []*ScoreEntry
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              &s.TableName,
			KeyConditionExpression: aws.String("PK = :judge"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":judge": &types.AttributeValueMemberS{Value: judgePK(judgeID)},
			},
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("SCORE: failed to query scores for judge %d: %v", judgeID, err)
			return nil, err
		}

		var page []*ScoreEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("SCORE: failed to unmarshal scores for judge %d: %v", judgeID, err)
			return nil, err
		}
		entries = append(entries, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
	return entries, nil
}

func (s *DynamoScoreStorage) DeleteAll(ctx context.Context) error {
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		scanOutput, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:            &s.TableName,
			ExclusiveStartKey:    lastEvaluatedKey,
			ProjectionExpression: aws.String("PK, SK"),
		})
		if err != nil {
			logging.Log.Errorf("SCORE: scan for delete failed: %v", err)
			return err
		}

		var writeRequests []types.WriteRequest
		for _, item := range scanOutput.Items {
			writeRequests = append(writeRequests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{
						"PK": item["PK"],
						"SK": item["SK"],
					},
				},
			})
		}

		for i := 0; i < len(writeRequests); i += 25 {
			end := i + 25
			if end > len(writeRequests) {
				end = len(writeRequests)
			}
			_, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					s.TableName: writeRequests[i:end],
				},
			})
			if err != nil {
				logging.Log.Errorf("SCORE: batch delete failed: %v", err)
				return err
			}
			logging.Log.Infof("SCORE: deleted batch of %d items", end-i)
		}

		if scanOutput.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = scanOutput.LastEvaluatedKey
	}

	return nil
}
