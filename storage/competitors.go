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

type CompetitorStorage interface {
	Get(ctx context.Context, id int) (*Competitor, error)
	GetAll(ctx context.Context) ([]*Competitor, error)
	Create(ctx context.Context, competitor *Competitor) error
	Update(ctx context.Context, competitor *Competitor) error
	Delete(ctx context.Context, id int) error
}

type DynamoCompetitorStorage struct {
	Client    *dynamodb.Client
	TableName string
}

func (s *DynamoCompetitorStorage) Get(ctx context.Context, id int) (*Competitor, error) {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("COMPETITOR: failed to marshal key for ID %d: %v", id, err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("COMPETITOR: GetItem for ID %d failed: %v", id, err)
		return nil, err
	}
	if out.Item == nil {
		logging.Log.Warnf("COMPETITOR: no competitor found with ID %d", id)
		return nil, nil
	}

	var competitor Competitor
	if err := attributevalue.UnmarshalMap(out.Item, &competitor); err != nil {
		logging.Log.Errorf("COMPETITOR: failed to unmarshal competitor: %v", err)
		return nil, err
	}
	return &competitor, nil
}

func (s *DynamoCompetitorStorage) GetAll(ctx context.Context) ([]*Competitor, error) {
	out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &s.TableName,
	})
	if err != nil {
		logging.Log.Errorf("COMPETITOR: scan failed: %v", err)
		return nil, err
	}

	var competitors []*Competitor
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &competitors); err != nil {
		logging.Log.Errorf("COMPETITOR: failed to unmarshal competitor list: %v", err)
		return nil, err
	}
	return competitors, nil
}

func (s *DynamoCompetitorStorage) Create(ctx context.Context, competitor *Competitor) error {
	item, err := attributevalue.MarshalMap(competitor)
	if err != nil {
		logging.Log.Errorf("COMPETITOR: failed to marshal competitor: %v", err)
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
			logging.Log.Warnf("COMPETITOR: item with ID %d already exists", competitor.ID)
			return ErrItemWithIDAlreadyExists
		}
		logging.Log.Errorf("COMPETITOR: failed to create competitor: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCompetitorStorage) Update(ctx context.Context, competitor *Competitor) error {
	item, err := attributevalue.MarshalMap(competitor)
	if err != nil {
		logging.Log.Errorf("COMPETITOR: failed to marshal updated competitor: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("COMPETITOR: failed to update competitor: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCompetitorStorage) Delete(ctx context.Context, id int) error {
	key, err := attributevalue.MarshalMap(map[string]int{"PK": id})
	if err != nil {
		logging.Log.Errorf("COMPETITOR: failed to marshal delete key for ID %d: %v", id, err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("COMPETITOR: failed to delete competitor with ID %d: %v", id, err)
		return err
	}
	logging.Log.Infof("COMPETITOR: deleted competitor with ID %d", id)
	return nil
}
