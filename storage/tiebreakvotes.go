package storage

import (
	"context"
	"fmt"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type TiebreakerVoteStorage interface {
	// Upsert mirrors the score ledger contract: one row per
	// (session, judge, competitor), last write wins.
	Upsert(ctx context.Context, vote *TiebreakerVote) (inserted bool, err error)
	GetBySession(ctx context.Context, sessionID string) ([]*TiebreakerVote, error)
}

type DynamoTiebreakerVoteStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoTiebreakerVoteStorage) Upsert(ctx context.Context, vote *TiebreakerVote) (bool, error) {
	out, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &s.TableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: vote.SessionID},
			"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("judge#%d#comp#%d", vote.JudgeID, vote.CompetitorID)},
		},
		UpdateExpression: aws.String(
			"SET JudgeID = :judge, CompetitorID = :comp, Rating = :rating, " +
				"UpdatedAt = :now, CreatedAt = if_not_exists(CreatedAt, :now)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":judge":  intAttr(vote.JudgeID),
			":comp":   intAttr(vote.CompetitorID),
			":rating": floatAttr(vote.Rating),
			":now":    timeAttr(vote.UpdatedAt),
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		logging.Log.Errorf("TIEBREAK: vote upsert failed for session %s: %v", vote.SessionID, err)
		return false, err
	}

	inserted := len(out.Attributes) == 0
	if !inserted {
		var previous TiebreakerVote
		if err := attributevalue.UnmarshalMap(out.Attributes, &previous); err == nil {
			vote.CreatedAt = previous.CreatedAt
		}
	}
	return inserted, nil
}

func (s *DynamoTiebreakerVoteStorage) GetBySession(ctx context.Context, sessionID string) ([]*TiebreakerVote, error) {
	var votes []*TiebreakerVote
	var lastEvaluatedKey map[string]types.AttributeValue

	for {
		out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:              &s.TableName,
			KeyConditionExpression: aws.String("PK = :session"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":session": &types.AttributeValueMemberS{Value: sessionID},
			},
			ExclusiveStartKey: lastEvaluatedKey,
		})
		if err != nil {
			logging.Log.Errorf("TIEBREAK: failed to query votes for session %s: %v", sessionID, err)
			return nil, err
		}

		var page []*TiebreakerVote
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("TIEBREAK: failed to unmarshal votes for session %s: %v", sessionID, err)
			return nil, err
		}
		votes = append(votes, page...)

		if out.LastEvaluatedKey == nil {
			break
		}
		lastEvaluatedKey = out.LastEvaluatedKey
	}
	return votes, nil
}
