// transport/http.go
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/raywall/todo-quick-service/auth"
	"github.com/raywall/todo-quick-service/models"
	"github.com/raywall/todo-quick-service/todos"
	"github.com/raywall/todo-quick-service/todostore"
)

// TodoService é a fatia do serviço consumida pelos handlers; a interface
// permite substituição por fakes nos testes.
type TodoService interface {
	Create(ctx context.Context, userID string, req models.CreateTodoRequest) (models.TodoItem, error)
	List(ctx context.Context, userID string) ([]models.TodoItem, error)
	ListPaged(ctx context.Context, userID, nextToken string, limit int32) (todostore.Page, error)
	Update(ctx context.Context, userID, todoID string, req models.UpdateTodoRequest) (models.TodoItem, error)
	Delete(ctx context.Context, userID, todoID string) (string, error)
	RequestAttachmentUpload(ctx context.Context, userID, todoID string) (string, error)
	Search(ctx context.Context, userID, query string) ([]models.TodoItem, error)
}

// Handler agrupa os request handlers HTTP do serviço. Cada handler
// extrai o userId autenticado, valida a própria entrada, invoca
// exatamente uma operação do serviço e mapeia o resultado para o
// transporte — os handlers nunca tocam o store diretamente.
type Handler struct {
	svc TodoService
}

func NewHandler(svc TodoService) *Handler {
	return &Handler{svc: svc}
}

// NewRouter monta o roteador com os middlewares de observabilidade e
// identidade na frente de todos os handlers.
func NewRouter(h *Handler, deps Middleware) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/todos", h.CreateTodo).Methods(http.MethodPost)
	r.HandleFunc("/todos", h.GetTodos).Methods(http.MethodGet)
	r.HandleFunc("/todos/search", h.SearchTodos).Methods(http.MethodPost)
	r.HandleFunc("/todos/{todoId}", h.UpdateTodo).Methods(http.MethodPatch)
	r.HandleFunc("/todos/{todoId}", h.DeleteTodo).Methods(http.MethodDelete)
	r.HandleFunc("/todos/{todoId}/attachment", h.GenerateUploadURL).Methods(http.MethodPost)

	r.Use(deps.Observability, deps.Identity)
	return r
}

// CreateTodo — POST /todos
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req models.CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &todos.ValidationError{Message: "invalid request body"})
		return
	}

	item, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemResponse{Item: item})
}

// GetTodos — GET /todos
//
// Regra de despacho: a presença do parâmetro `limit` seleciona a
// listagem paginada; a ausência, a listagem completa. O `nextKey` é um
// token opaco repassado sem interpretação.
func (h *Handler) GetTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	limitParam := r.URL.Query().Get("limit")
	if limitParam == "" {
		items, err := h.svc.List(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if items == nil {
			items = []models.TodoItem{}
		}
		writeJSON(w, http.StatusOK, itemsResponse{Items: items})
		return
	}

	limit, err := strconv.ParseInt(limitParam, 10, 32)
	if err != nil || limit <= 0 {
		writeError(w, r, &todos.ValidationError{Message: "limit must be a positive integer"})
		return
	}

	page, err := h.svc.ListPaged(r.Context(), userID, r.URL.Query().Get("nextKey"), int32(limit))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if page.Items == nil {
		page.Items = []models.TodoItem{}
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Items:   page.Items,
		NextKey: nextKeyField(page.NextToken),
	})
}

// UpdateTodo — PATCH /todos/{todoId}
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}
	todoID := mux.Vars(r)["todoId"]

	var req models.UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &todos.ValidationError{Message: "invalid request body"})
		return
	}

	item, err := h.svc.Update(r.Context(), userID, todoID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Item: item})
}

// DeleteTodo — DELETE /todos/{todoId}
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	id, err := h.svc.Delete(r.Context(), userID, mux.Vars(r)["todoId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{TodoID: id})
}

// GenerateUploadURL — POST /todos/{todoId}/attachment
func (h *Handler) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	url, err := h.svc.RequestAttachmentUpload(r.Context(), userID, mux.Vars(r)["todoId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{UploadURL: url})
}

// SearchTodos — POST /todos/search
func (h *Handler) SearchTodos(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	var req models.SearchTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &todos.ValidationError{Message: "invalid request body"})
		return
	}

	items, err := h.svc.Search(r.Context(), userID, req.SearchValue)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.TodoItem{}
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}
