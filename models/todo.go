// models/todo.go
package models

// TodoItem é a única entidade persistente do serviço.
//
// A chave da tabela é composta: userId (hash) + todoId (range). Toda
// operação de leitura ou escrita inclui o userId na condição de chave —
// é esse o limite de autorização do serviço.
type TodoItem struct {
	UserID        string  `json:"userId" dynamodbav:"userId"`
	TodoID        string  `json:"todoId" dynamodbav:"todoId"`
	Name          string  `json:"name" dynamodbav:"name"`
	CreatedAt     string  `json:"createdAt" dynamodbav:"createdAt"`
	DueDate       string  `json:"dueDate,omitempty" dynamodbav:"dueDate,omitempty"`
	Done          bool    `json:"done" dynamodbav:"done"`
	AttachmentURL *string `json:"attachmentUrl" dynamodbav:"attachmentUrl"`
}

// CreateTodoRequest é o corpo aceito pela criação de itens.
type CreateTodoRequest struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"dueDate,omitempty"`
}

// UpdateTodoRequest é o corpo aceito pela atualização. Os três campos são
// obrigatórios no contrato da camada de dados (sobrescrita completa).
type UpdateTodoRequest struct {
	Name    string `json:"name" validate:"required"`
	DueDate string `json:"dueDate"`
	Done    bool   `json:"done"`
}

// SearchTodoRequest é o corpo aceito pela busca por substring.
type SearchTodoRequest struct {
	SearchValue string `json:"searchValue"`
}
