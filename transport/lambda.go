// transport/lambda.go
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/raywall/todo-quick-service/auth"
	"github.com/raywall/todo-quick-service/models"
	"github.com/raywall/todo-quick-service/todos"
)

// LambdaHandler adapta eventos do API Gateway para o serviço de todos,
// espelhando o comportamento dos handlers HTTP.
type LambdaHandler struct {
	svc  TodoService
	base zerolog.Logger
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(svc TodoService, base zerolog.Logger) *LambdaHandler {
	return &LambdaHandler{svc: svc, base: base}
}

// Handle processa a requisição Lambda
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	corrID := req.Headers[HeaderCorrelationID]
	if corrID == "" {
		corrID = uuid.NewString()
	}

	logger := h.base.With().Str("correlation_id", corrID).Logger()
	ctx = logger.WithContext(ctx)

	response := h.route(ctx, req)

	logger.Info().
		Str("method", req.HTTPMethod).
		Str("path", req.Path).
		Int("status", response.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("lambda request completed")

	if response.Headers == nil {
		response.Headers = make(map[string]string)
	}
	response.Headers[HeaderCorrelationID] = corrID

	return response, nil
}

func (h *LambdaHandler) route(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	userID, err := h.userID(req)
	if err != nil {
		return jsonResp(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	}
	ctx = auth.WithUserID(ctx, userID)

	todoID := req.PathParameters["todoId"]

	switch req.HTTPMethod + " " + req.Resource {
	case "POST /todos":
		return h.create(ctx, userID, req.Body)
	case "GET /todos":
		return h.list(ctx, userID, req.QueryStringParameters)
	case "POST /todos/search":
		return h.search(ctx, userID, req.Body)
	case "PATCH /todos/{todoId}":
		return h.update(ctx, userID, todoID, req.Body)
	case "DELETE /todos/{todoId}":
		return h.remove(ctx, userID, todoID)
	case "POST /todos/{todoId}/attachment":
		return h.attachment(ctx, userID, todoID)
	default:
		return jsonResp(http.StatusNotFound, errorResponse{Error: "route not found"})
	}
}

// userID resolve a identidade verificada: primeiro o principal definido
// pelo authorizer do gateway, senão o token do header.
func (h *LambdaHandler) userID(req events.APIGatewayProxyRequest) (string, error) {
	if principal, ok := req.RequestContext.Authorizer["principalId"].(string); ok && principal != "" {
		return principal, nil
	}
	header := req.Headers["Authorization"]
	if header == "" {
		header = req.Headers["authorization"]
	}
	return auth.Subject(header)
}

func (h *LambdaHandler) create(ctx context.Context, userID, body string) events.APIGatewayProxyResponse {
	var req models.CreateTodoRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(ctx, &todos.ValidationError{Message: "invalid request body"})
	}

	item, err := h.svc.Create(ctx, userID, req)
	if err != nil {
		return errResp(ctx, err)
	}
	return jsonResp(http.StatusCreated, itemResponse{Item: item})
}

func (h *LambdaHandler) list(ctx context.Context, userID string, query map[string]string) events.APIGatewayProxyResponse {
	limitParam := query["limit"]
	if limitParam == "" {
		items, err := h.svc.List(ctx, userID)
		if err != nil {
			return errResp(ctx, err)
		}
		if items == nil {
			items = []models.TodoItem{}
		}
		return jsonResp(http.StatusOK, itemsResponse{Items: items})
	}

	limit, err := strconv.ParseInt(limitParam, 10, 32)
	if err != nil || limit <= 0 {
		return errResp(ctx, &todos.ValidationError{Message: "limit must be a positive integer"})
	}

	page, err := h.svc.ListPaged(ctx, userID, query["nextKey"], int32(limit))
	if err != nil {
		return errResp(ctx, err)
	}
	if page.Items == nil {
		page.Items = []models.TodoItem{}
	}
	return jsonResp(http.StatusOK, pagedResponse{
		Items:   page.Items,
		NextKey: nextKeyField(page.NextToken),
	})
}

func (h *LambdaHandler) update(ctx context.Context, userID, todoID, body string) events.APIGatewayProxyResponse {
	var req models.UpdateTodoRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(ctx, &todos.ValidationError{Message: "invalid request body"})
	}

	item, err := h.svc.Update(ctx, userID, todoID, req)
	if err != nil {
		return errResp(ctx, err)
	}
	return jsonResp(http.StatusOK, itemResponse{Item: item})
}

func (h *LambdaHandler) remove(ctx context.Context, userID, todoID string) events.APIGatewayProxyResponse {
	id, err := h.svc.Delete(ctx, userID, todoID)
	if err != nil {
		return errResp(ctx, err)
	}
	return jsonResp(http.StatusOK, deleteResponse{TodoID: id})
}

func (h *LambdaHandler) attachment(ctx context.Context, userID, todoID string) events.APIGatewayProxyResponse {
	url, err := h.svc.RequestAttachmentUpload(ctx, userID, todoID)
	if err != nil {
		return errResp(ctx, err)
	}
	return jsonResp(http.StatusCreated, uploadResponse{UploadURL: url})
}

func (h *LambdaHandler) search(ctx context.Context, userID, body string) events.APIGatewayProxyResponse {
	var req models.SearchTodoRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(ctx, &todos.ValidationError{Message: "invalid request body"})
	}

	items, err := h.svc.Search(ctx, userID, req.SearchValue)
	if err != nil {
		return errResp(ctx, err)
	}
	if items == nil {
		items = []models.TodoItem{}
	}
	return jsonResp(http.StatusOK, itemsResponse{Items: items})
}

func jsonResp(status int, body any) events.APIGatewayProxyResponse {
	b, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(b),
	}
}

func errResp(ctx context.Context, err error) events.APIGatewayProxyResponse {
	status, msg := mapError(err)
	logger := zerolog.Ctx(ctx)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("lambda request failed")
	} else {
		logger.Warn().Err(err).Msg("lambda request rejected")
	}
	return jsonResp(status, errorResponse{Error: msg})
}
