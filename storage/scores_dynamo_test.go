package storage

import (
	"context"
	"testing"
	"time"

	"github.com/KernyMC/Reinado2025-sub000/logging"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These run against a local DynamoDB (localstack on :4566) with the tables
// from config.yaml created.

func newTestDynamoClient(t *testing.T) *dynamodb.Client {
	t.Helper()
	logging.Log = logrus.New()

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: "http://localhost:4566", HostnameImmutable: true}, nil
			}),
		),
	)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

func cleanupTable(t *testing.T, client *dynamodb.Client, tableName string) {
	t.Helper()

	out, err := client.Scan(context.TODO(), &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		t.Fatalf("cleanup failed to scan %s: %v", tableName, err)
	}

	for _, item := range out.Items {
		key := map[string]types.AttributeValue{
			"PK": item["PK"],
			"SK": item["SK"],
		}
		_, err := client.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
			TableName: aws.String(tableName),
			Key:       key,
		})
		if err != nil {
			t.Fatalf("cleanup failed to delete item: %v", err)
		}
	}
}

func TestDynamoScoreStorage(t *testing.T) {
	client := newTestDynamoClient(t)
	t.Cleanup(func() {
		cleanupTable(t, client, "ScoringScores")
	})

	s := &DynamoScoreStorage{Client: client, TableName: "ScoringScores"}
	ctx := context.Background()

	first := NewJudgeScore(1, 2, 3, 8.5, time.Now().UTC())
	inserted, err := s.Upsert(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)

	// resubmission replaces the value and keeps the original CreatedAt
	second := NewJudgeScore(1, 2, 3, 9.0, time.Now().UTC().Add(time.Second))
	inserted, err = s.Upsert(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))

	other := NewJudgeScore(2, 2, 3, 7.0, time.Now().UTC())
	_, err = s.Upsert(ctx, other)
	require.NoError(t, err)

	byJudge, err := s.GetByJudge(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byJudge, 1)
	assert.InDelta(t, 9.0, byJudge[0].Value, 1e-9)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteAll(ctx))
	all, err = s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDynamoTiebreakerVoteStorage(t *testing.T) {
	client := newTestDynamoClient(t)
	t.Cleanup(func() {
		cleanupTable(t, client, "ScoringTiebreakerVotes")
	})

	s := &DynamoTiebreakerVoteStorage{Client: client, TableName: "ScoringTiebreakerVotes"}
	ctx := context.Background()

	for judgeID := 1; judgeID <= 3; judgeID++ {
		for competitorID := 1; competitorID <= 2; competitorID++ {
			vote := NewTiebreakerVote("sess-1", judgeID, competitorID, 8, time.Now().UTC())
			_, err := s.Upsert(ctx, vote)
			require.NoError(t, err)
		}
	}
	_, err := s.Upsert(ctx, NewTiebreakerVote("sess-other", 1, 1, 5, time.Now().UTC()))
	require.NoError(t, err)

	votes, err := s.GetBySession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, votes, 6)

	// revote replaces, it never duplicates
	revote := NewTiebreakerVote("sess-1", 1, 1, 9, time.Now().UTC())
	inserted, err := s.Upsert(ctx, revote)
	require.NoError(t, err)
	assert.False(t, inserted)

	votes, err = s.GetBySession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, votes, 6)
}
