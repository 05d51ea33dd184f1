// dyndb/query.go
package dyndb

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Query inicia uma Query
func (s *dynamoStore[T]) Query() *QueryBuilder[T] {
	return &QueryBuilder[T]{
		store:       s,
		scanForward: aws.Bool(true),
	}
}

// === MÉTODOS FLUENTES ===

func (qb *QueryBuilder[T]) Index(name string) *QueryBuilder[T] {
	qb.indexName = aws.String(name)
	return qb
}

func (qb *QueryBuilder[T]) KeyEqual(key string, value any) *QueryBuilder[T] {
	cond := expression.KeyEqual(expression.Key(key), expression.Value(value))
	if qb.keyCond == nil {
		qb.keyCond = &cond
	} else {
		tmp := qb.keyCond.And(cond)
		qb.keyCond = &tmp
	}
	return qb
}

func (qb *QueryBuilder[T]) FilterContains(field string, value string) *QueryBuilder[T] {
	cond := expression.Contains(expression.Name(field), value)
	if qb.filterCond == nil {
		qb.filterCond = &cond
	} else {
		tmp := qb.filterCond.And(cond)
		qb.filterCond = &tmp
	}
	return qb
}

func (qb *QueryBuilder[T]) Limit(n int32) *QueryBuilder[T] {
	qb.limit = &n
	return qb
}

// Forward define a direção da consulta sobre a sort key
// (false = descendente, mais recente primeiro)
func (qb *QueryBuilder[T]) Forward(forward bool) *QueryBuilder[T] {
	qb.scanForward = aws.Bool(forward)
	return qb
}

// StartToken retoma a consulta a partir de um token opaco retornado
// por uma execução anterior. Token inválido faz Exec falhar com ErrBadToken.
func (qb *QueryBuilder[T]) StartToken(token string) *QueryBuilder[T] {
	if token == "" {
		return qb
	}
	lastKey, err := decodeToken(token)
	if err != nil {
		qb.tokenErr = ErrBadToken
		return qb
	}
	qb.lastKey = lastKey
	return qb
}

// Exec executa a consulta
func (qb *QueryBuilder[T]) Exec(ctx context.Context) ([]T, string, error) {
	if qb.tokenErr != nil {
		return nil, "", qb.tokenErr
	}

	builder := expression.NewBuilder()
	if qb.keyCond != nil {
		builder = builder.WithKeyCondition(*qb.keyCond)
	}
	if qb.filterCond != nil {
		builder = builder.WithFilter(*qb.filterCond)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, "", err
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(qb.store.cfg.TableName),
		IndexName:                 qb.indexName,
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     qb.limit,
		ScanIndexForward:          qb.scanForward,
		ExclusiveStartKey:         qb.lastKey,
	}

	out, err := qb.store.client.Query(ctx, input)
	if err != nil {
		return nil, "", err
	}
	return unmarshalResults[T](out.Items, out.LastEvaluatedKey)
}

func unmarshalResults[T any](
	items []map[string]types.AttributeValue,
	lastKey map[string]types.AttributeValue,
) ([]T, string, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		var t T
		if err := attributevalue.UnmarshalMap(item, &t); err != nil {
			return nil, "", err
		}
		result = append(result, t)
	}
	return result, encodeToken(lastKey), nil
}

// === TOKEN OPACO DE PAGINAÇÃO ===
//
// O LastEvaluatedKey nativo é serializado como base64(JSON) e só é
// interpretado dentro deste pacote. Camadas acima repassam a string
// sem inspecioná-la.

type tokenKey struct {
	S    *string `json:"s,omitempty"`
	N    *string `json:"n,omitempty"`
	Bool *bool   `json:"b,omitempty"`
}

func encodeToken(lastKey map[string]types.AttributeValue) string {
	if len(lastKey) == 0 {
		return ""
	}
	plain := make(map[string]tokenKey, len(lastKey))
	for name, av := range lastKey {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			plain[name] = tokenKey{S: aws.String(v.Value)}
		case *types.AttributeValueMemberN:
			plain[name] = tokenKey{N: aws.String(v.Value)}
		case *types.AttributeValueMemberBOOL:
			plain[name] = tokenKey{Bool: aws.Bool(v.Value)}
		}
	}
	b, err := json.Marshal(plain)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeToken(token string) (map[string]types.AttributeValue, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}
	var plain map[string]tokenKey
	if err := json.Unmarshal(b, &plain); err != nil {
		return nil, err
	}
	key := make(map[string]types.AttributeValue, len(plain))
	for name, tk := range plain {
		switch {
		case tk.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *tk.S}
		case tk.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *tk.N}
		case tk.Bool != nil:
			key[name] = &types.AttributeValueMemberBOOL{Value: *tk.Bool}
		}
	}
	return key, nil
}
