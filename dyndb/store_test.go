// dyndb/store_test.go
package dyndb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testItem struct {
	Owner string `dynamodbav:"owner"`
	ID    string `dynamodbav:"id"`
	Name  string `dynamodbav:"name"`
}

func testStore(client DynamoDBClient) Store[testItem] {
	return New[testItem](client, TableConfig{
		TableName: "test-table",
		HashKey:   "owner",
		SortKey:   "id",
	})
}

func TestGet_Found(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
		return *in.TableName == "test-table" &&
			*in.ConsistentRead &&
			in.Key["owner"].(*types.AttributeValueMemberS).Value == "u1" &&
			in.Key["id"].(*types.AttributeValueMemberS).Value == "t1"
	})).Return(&dynamodb.GetItemOutput{
		Item: map[string]types.AttributeValue{
			"owner": &types.AttributeValueMemberS{Value: "u1"},
			"id":    &types.AttributeValueMemberS{Value: "t1"},
			"name":  &types.AttributeValueMemberS{Value: "milk"},
		},
	}, nil)

	item, err := store.Get(context.Background(), "u1", "t1")

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, testItem{Owner: "u1", ID: "t1", Name: "milk"}, *item)
	mockClient.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	// Item ausente: GetItem responde sem atributo Item
	mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(&dynamodb.GetItemOutput{}, nil)

	item, err := store.Get(context.Background(), "u1", "missing")

	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, item)
}

func TestGet_UpstreamError(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	mockClient.On("GetItem", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled"))

	_, err := store.Get(context.Background(), "u1", "t1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPut_Success(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return *in.TableName == "test-table" && in.ConditionExpression == nil
	})).Return(&dynamodb.PutItemOutput{}, nil)

	err := store.Put(context.Background(), testItem{Owner: "u1", ID: "t1", Name: "milk"})

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestPutNew_Conflict(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
		return in.ConditionExpression != nil
	})).Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")})

	err := store.PutNew(context.Background(), testItem{Owner: "u1", ID: "t1"})

	require.ErrorIs(t, err, ErrConflict)
	mockClient.AssertExpectations(t)
}

func TestPutNew_Success(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	var captured *dynamodb.PutItemInput
	mockClient.On("PutItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*dynamodb.PutItemInput)
		}).
		Return(&dynamodb.PutItemOutput{}, nil)

	err := store.PutNew(context.Background(), testItem{Owner: "u1", ID: "t1", Name: "milk"})

	require.NoError(t, err)
	require.NotNil(t, captured)
	// A condição referencia as duas chaves da tabela
	require.NotNil(t, captured.ConditionExpression)
	assert.Contains(t, captured.ExpressionAttributeNames, "#0")
	assert.Contains(t, captured.ExpressionAttributeNames, "#1")
}

func TestUpdateFields_NotFound(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	mockClient.On("UpdateItem", mock.Anything, mock.Anything).
		Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("missing")})

	err := store.UpdateFields(context.Background(), "u1", "t1", map[string]any{"name": "bread"})

	require.ErrorIs(t, err, ErrNotFound)
	mockClient.AssertExpectations(t)
}

func TestUpdateFields_SetsOnlyGivenAttributes(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	var captured *dynamodb.UpdateItemInput
	mockClient.On("UpdateItem", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*dynamodb.UpdateItemInput)
		}).
		Return(&dynamodb.UpdateItemOutput{}, nil)

	err := store.UpdateFields(context.Background(), "u1", "t1", map[string]any{"name": "bread"})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "test-table", *captured.TableName)
	assert.Equal(t, &types.AttributeValueMemberS{Value: "u1"}, captured.Key["owner"])
	assert.Equal(t, &types.AttributeValueMemberS{Value: "t1"}, captured.Key["id"])
	require.NotNil(t, captured.UpdateExpression)
	require.NotNil(t, captured.ConditionExpression)
	assert.Contains(t, captured.ExpressionAttributeValues, ":0")
	assert.Len(t, captured.ExpressionAttributeValues, 1)
}

func TestUpdateFields_EmptyMapIsNoop(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	err := store.UpdateFields(context.Background(), "u1", "t1", nil)

	require.NoError(t, err)
	mockClient.AssertNotCalled(t, "UpdateItem")
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	// DeleteItem não falha quando o alvo não existe
	mockClient.On("DeleteItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
		return *in.TableName == "test-table"
	})).Return(&dynamodb.DeleteItemOutput{}, nil).Twice()

	require.NoError(t, store.Delete(context.Background(), "u1", "t1"))
	require.NoError(t, store.Delete(context.Background(), "u1", "t1"))
	mockClient.AssertExpectations(t)
}

func TestDelete_UpstreamError(t *testing.T) {
	t.Parallel()

	mockClient := &MockDynamoClient{}
	store := testStore(mockClient)

	mockClient.On("DeleteItem", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled"))

	err := store.Delete(context.Background(), "u1", "t1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
