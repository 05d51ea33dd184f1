// transport/respond.go
package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/raywall/todo-quick-service/models"
	"github.com/raywall/todo-quick-service/todos"
)

type itemResponse struct {
	Item models.TodoItem `json:"item"`
}

type itemsResponse struct {
	Items []models.TodoItem `json:"items"`
}

type pagedResponse struct {
	Items []models.TodoItem `json:"items"`
	// NextKey é o cursor opaco da próxima página; null quando a
	// partição foi esgotada
	NextKey *string `json:"nextKey"`
}

type deleteResponse struct {
	TodoID string `json:"todoId"`
}

type uploadResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// mapError traduz a taxonomia de erros do serviço para status de
// transporte. Os handlers são o único ponto do serviço autorizado a
// capturar falhas — nada abaixo deles se recupera de erro.
func mapError(err error) (int, string) {
	var validation *todos.ValidationError
	var upstream *todos.UpstreamError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, todos.ErrNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, todos.ErrConflict):
		return http.StatusConflict, "item already exists"
	case errors.As(err, &upstream):
		return http.StatusBadGateway, "upstream dependency failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := mapError(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	} else {
		log.Ctx(r.Context()).Warn().Err(err).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// nextKeyField converte o token interno em campo de resposta
// (null quando vazio)
func nextKeyField(token string) *string {
	if token == "" {
		return nil
	}
	return &token
}
