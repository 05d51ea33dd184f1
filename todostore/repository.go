// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package todostore

import (
	"context"

	"github.com/raywall/todo-quick-service/dyndb"
	"github.com/raywall/todo-quick-service/models"
)

const (
	attrUserID        = "userId"
	attrTodoID        = "todoId"
	attrName          = "name"
	attrDueDate       = "dueDate"
	attrDone          = "done"
	attrAttachmentURL = "attachmentUrl"
)

// Update é o contrato de sobrescrita do Patch: os três campos são
// gravados incondicionalmente no item endereçado (não há patch parcial
// nesta camada — o chamador fornece o objeto completo).
type Update struct {
	Name    string
	DueDate string
	Done    bool
}

// Page é o resultado de uma consulta paginada. NextToken vazio indica
// que a partição foi esgotada.
type Page struct {
	Items     []models.TodoItem
	NextToken string
}

// Repository define o contrato da camada de dados de todos.
//
// Todas as operações recebem o userId como primeiro argumento e toda
// condição de chave o inclui — este é o único limite de autorização do
// serviço; não existe operação que enderece um todoId sozinho.
type Repository interface {
	Get(ctx context.Context, userID, todoID string) (models.TodoItem, error)
	ListAll(ctx context.Context, userID string) ([]models.TodoItem, error)
	Insert(ctx context.Context, item models.TodoItem) error
	Patch(ctx context.Context, userID, todoID string, upd Update) error
	Remove(ctx context.Context, userID, todoID string) (string, error)
	SetAttachmentURL(ctx context.Context, userID, todoID, url string) error
	PageQuery(ctx context.Context, userID, token string, limit int32) (Page, error)
	Search(ctx context.Context, userID, substring string) ([]models.TodoItem, error)
}

// TodoRepository implementa Repository sobre uma tabela DynamoDB com
// chave composta userId (hash) + todoId (range), uma LSI por createdAt
// para a ordenação da paginação e uma GSI para a busca por nome.
type TodoRepository struct {
	store dyndb.Store[models.TodoItem]

	// createdAtIndex ordena a partição do usuário por createdAt; é a
	// origem da ordem "mais recente primeiro" do PageQuery. createdAt
	// não é único por item: empates têm ordem relativa indefinida.
	createdAtIndex string

	// searchIndex é a GSI consultada pelo Search (hash userId). A busca
	// equivale a um scan filtrado da partição — sem ranking.
	searchIndex string
}

// Options nomeia os índices secundários provisionados junto à tabela.
type Options struct {
	CreatedAtIndex string
	SearchIndex    string
}

func NewTodoRepository(store dyndb.Store[models.TodoItem], opts Options) *TodoRepository {
	return &TodoRepository{
		store:          store,
		createdAtIndex: opts.CreatedAtIndex,
		searchIndex:    opts.SearchIndex,
	}
}

// TableConfig retorna o esquema de chaves esperado pela tabela de todos.
func TableConfig(tableName string) dyndb.TableConfig {
	return dyndb.TableConfig{
		TableName: tableName,
		HashKey:   attrUserID,
		SortKey:   attrTodoID,
	}
}

// Get — item endereçado pela chave composta; dyndb.ErrNotFound se ausente
func (r *TodoRepository) Get(ctx context.Context, userID, todoID string) (models.TodoItem, error) {
	item, err := r.store.Get(ctx, userID, todoID)
	if err != nil {
		return models.TodoItem{}, err
	}
	return *item, nil
}

// ListAll — todos os itens da partição do usuário, ordem indefinida.
// Consulta única, sem retomada interna: partições acima do limite de
// 1MB de uma Query são truncadas.
func (r *TodoRepository) ListAll(ctx context.Context, userID string) ([]models.TodoItem, error) {
	items, _, err := r.store.Query().
		KeyEqual(attrUserID, userID).
		Exec(ctx)
	return items, err
}

// Insert — escrita condicional: colisão de chave retorna dyndb.ErrConflict
func (r *TodoRepository) Insert(ctx context.Context, item models.TodoItem) error {
	return r.store.PutNew(ctx, item)
}

// Patch — sobrescreve exatamente name, dueDate e done;
// dyndb.ErrNotFound se o item não existir
func (r *TodoRepository) Patch(ctx context.Context, userID, todoID string, upd Update) error {
	return r.store.UpdateFields(ctx, userID, todoID, map[string]any{
		attrName:    upd.Name,
		attrDueDate: upd.DueDate,
		attrDone:    upd.Done,
	})
}

// Remove — idempotente; ausência do alvo não é erro e o identificador é
// retornado de qualquer forma
func (r *TodoRepository) Remove(ctx context.Context, userID, todoID string) (string, error) {
	if err := r.store.Delete(ctx, userID, todoID); err != nil {
		return "", err
	}
	return todoID, nil
}

// SetAttachmentURL — SET de um único atributo, independente do Patch
func (r *TodoRepository) SetAttachmentURL(ctx context.Context, userID, todoID, url string) error {
	return r.store.UpdateFields(ctx, userID, todoID, map[string]any{
		attrAttachmentURL: url,
	})
}

// PageQuery — até limit itens, createdAt descendente, retomando do token
// opaco quando informado. limit deve ser positivo (violação de contrato
// do chamador; validada antes de qualquer chamada ao store).
func (r *TodoRepository) PageQuery(ctx context.Context, userID, token string, limit int32) (Page, error) {
	items, next, err := r.store.Query().
		Index(r.createdAtIndex).
		KeyEqual(attrUserID, userID).
		Forward(false).
		Limit(limit).
		StartToken(token).
		Exec(ctx)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, NextToken: next}, nil
}

// Search — itens cujo name contém a substring (case-sensitive, sem
// âncora). Mesma limitação do ListAll: consulta única, resultado
// truncado em partições acima de 1MB.
func (r *TodoRepository) Search(ctx context.Context, userID, substring string) ([]models.TodoItem, error) {
	items, _, err := r.store.Query().
		Index(r.searchIndex).
		KeyEqual(attrUserID, userID).
		FilterContains(attrName, substring).
		Exec(ctx)
	return items, err
}
