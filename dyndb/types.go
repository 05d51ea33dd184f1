// dyndb/types.go
package dyndb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrNotFound – erro padrão quando o item endereçado não existe
var ErrNotFound = errors.New("dyndb: item not found")

// ErrConflict – erro padrão quando a chave já existe em uma escrita condicional
var ErrConflict = errors.New("dyndb: item already exists")

// ErrBadToken – erro padrão quando o token de paginação não pode ser decodificado
var ErrBadToken = errors.New("dyndb: invalid pagination token")

// DynamoDBClient interface para abstrair o cliente DynamoDB
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store — interface principal (genérica)
type Store[T any] interface {
	// Get retorna o item endereçado pela chave primária, com leitura
	// consistente; retorna ErrNotFound se a chave não existir
	Get(ctx context.Context, hashKey, sortKey any) (*T, error)

	// Put grava o item sem condição (upsert)
	Put(ctx context.Context, item T) error

	// PutNew grava o item apenas se a chave ainda não existir;
	// retorna ErrConflict caso contrário
	PutNew(ctx context.Context, item T) error

	// UpdateFields sobrescreve exatamente os atributos informados no item
	// endereçado; retorna ErrNotFound se a chave não existir
	UpdateFields(ctx context.Context, hashKey, sortKey any, fields map[string]any) error

	// Delete remove o item se presente; ausência não é erro
	Delete(ctx context.Context, hashKey, sortKey any) error

	// Query retorna o builder fluente de consultas
	Query() *QueryBuilder[T]
}

// TableConfig — configuração da tabela
type TableConfig struct {
	TableName string `env:"DYNAMODB_TABLE_NAME"`
	HashKey   string `env:"DYNAMODB_HASH_KEY"`
	SortKey   string `env:"DYNAMODB_SORT_KEY"` // opcional
}

// QueryBuilder — o builder fluente
type QueryBuilder[T any] struct {
	store       *dynamoStore[T]
	keyCond     *expression.KeyConditionBuilder
	filterCond  *expression.ConditionBuilder
	indexName   *string
	limit       *int32
	lastKey     map[string]types.AttributeValue
	scanForward *bool
	tokenErr    error
}
