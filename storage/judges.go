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

type JudgeStorage interface {
	Get(ctx context.Context, id int) (*Judge, error)
	GetByToken(ctx context.Context, token string) (*Judge, error)
	GetAll(ctx context.Context) ([]*Judge, error)
	Create(ctx context.Context, judge *Judge) error
	Update(ctx context.Context, judge *Judge) error
}

type DynamoJudgeStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoJudgeStorage) Get(ctx context.Context, id int) (*Judge, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("JUDGE: failed to marshal key for ID %d: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("JUDGE: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		logging.Log.Warnf("JUDGE: no judge found with ID %d", id)
		return nil, nil
	}

	var judge Judge
	if err := attributevalue.UnmarshalMap(out.Item, &judge); err != nil {
		logging.Log.Errorf("JUDGE: failed to unmarshal judge: %v", err)
		return nil, err
	}
	return &judge, nil
}

// GetByToken resolves the caller identity behind the x-judge-token header.
// The judge roster is small, so a filtered scan is fine here.
func (s *DynamoJudgeStorage) GetByToken(ctx context.Context, token string) (*Judge, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        &s.TableName,
		FilterExpression: aws.String("#tok = :token"),
		ExpressionAttributeNames: map[string]string{
			"#tok": "Token",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		logging.Log.Errorf("JUDGE: token scan failed: %v", err)
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, ErrNotFound
	}

	var judge Judge
	if err := attributevalue.UnmarshalMap(out.Items[0], &judge); err != nil {
		logging.Log.Errorf("JUDGE: failed to unmarshal judge: %v", err)
		return nil, err
	}
	return &judge, nil
}

func (s *DynamoJudgeStorage) GetAll(ctx context.Context) ([]*Judge, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("JUDGE: scan failed: %v", err)
		return nil, err
	}

	var judges []*Judge
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &judges); err != nil {
		logging.Log.Errorf("JUDGE: failed to unmarshal judge list: %v", err)
		return nil, err
	}
	return judges, nil
}

func (s *DynamoJudgeStorage) Create(ctx context.Context, judge *Judge) error {
	item, err := attributevalue.MarshalMap(judge)
	if err != nil {
		logging.Log.Errorf("JUDGE: failed to marshal judge: %v", err)
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
			logging.Log.Warnf("JUDGE: item with ID %d already exists", judge.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("JUDGE: failed to create judge: %v", err)
		return err
	}
	return nil
}

func (s *DynamoJudgeStorage) Update(ctx context.Context, judge *Judge) error {
	item, err := attributevalue.MarshalMap(judge)
	if err != nil {
		logging.Log.Errorf("JUDGE: failed to marshal updated judge: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("JUDGE: failed to update judge: %v", err)
		return err
	}
	return nil
}
