// Package dyndb fornece uma abstração genérica e fortemente tipada sobre o
// AWS DynamoDB Go SDK (v2).
//
// Visão Geral:
// O pacote `dyndb` oferece a interface `Store[T]`, que simplifica as operações
// sobre uma tabela com chave composta (hash + range), eliminando a necessidade
// de lidar diretamente com os tipos de baixo nível do SDK (AttributeValue, etc.).
//
// Funcionalidades Principais:
// - Escrita Tipada: `Put` (upsert), `PutNew` (condicional à ausência da chave)
//   e `UpdateFields` (SET parcial condicional à existência da chave).
// - Builder Fluente: `Query().KeyEqual(...).FilterContains(...).Exec(...)`.
// - Paginação Opaca: o `LastEvaluatedKey` nativo é convertido em um token
//   Base64 que só é interpretado dentro deste pacote.
// - Mocks Integrados: `MockDynamoClient` para testes unitários fáceis.
//
// Exemplo de Uso:
//
//	type Task struct {
//		Owner string `dynamodbav:"owner"`
//		ID    string `dynamodbav:"id"`
//	}
//
//	cfg := dyndb.TableConfig{TableName: "Tasks", HashKey: "owner", SortKey: "id"}
//	store := dyndb.New[Task](dynamodb.NewFromConfig(awsCfg), cfg)
//
//	// Inserção condicional
//	err := store.PutNew(ctx, Task{Owner: "u1", ID: "t1"})
//
//	// Consulta paginada, mais recentes primeiro
//	items, next, err := store.Query().
//		KeyEqual("owner", "u1").
//		Forward(false).
//		Limit(20).
//		Exec(ctx)
package dyndb
