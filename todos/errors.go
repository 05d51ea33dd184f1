// todos/errors.go
package todos

import (
	"errors"
	"fmt"

	"github.com/raywall/todo-quick-service/dyndb"
)

// ErrNotFound — o alvo de uma mutação não existe na partição do usuário
var ErrNotFound = errors.New("todos: item not found")

// ErrConflict — colisão de identidade na criação (teórica: a geração de
// todoId por UUID a evita na prática, mas a escrita nunca sobrescreve
// silenciosamente)
var ErrConflict = errors.New("todos: item already exists")

// ValidationError representa entrada obrigatória ausente ou inválida
// (nome vazio, limit não positivo, cursor indecifrável).
type ValidationError struct {
	Message string
}

func (v *ValidationError) Error() string {
	return v.Message
}

// UpstreamError encapsula falhas de infraestrutura do store ou do object
// storage, preservando a causa original.
type UpstreamError struct {
	Op  string
	Err error
}

func (u *UpstreamError) Error() string {
	return fmt.Sprintf("todos: %s failed: %v", u.Op, u.Err)
}

func (u *UpstreamError) Unwrap() error {
	return u.Err
}

// storageErr traduz os erros sentinela da camada de dados para a
// taxonomia do serviço; qualquer outra falha vira UpstreamError.
// Nenhuma recuperação acontece aqui — os handlers são o único ponto
// autorizado a capturar.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dyndb.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, dyndb.ErrConflict):
		return ErrConflict
	case errors.Is(err, dyndb.ErrBadToken):
		return &ValidationError{Message: "invalid nextKey parameter"}
	default:
		return &UpstreamError{Op: op, Err: err}
	}
}
