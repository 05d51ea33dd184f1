// todos/service.go
package todos

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/raywall/todo-quick-service/attachments"
	"github.com/raywall/todo-quick-service/models"
	"github.com/raywall/todo-quick-service/todostore"
)

// AttachmentIssuer é o colaborador que emite URLs de upload pré-assinadas.
type AttachmentIssuer interface {
	Issue(ctx context.Context, todoID string) (attachments.Attachment, error)
}

// Service concentra as regras de negócio de todos: geração de identidade,
// valores padrão, escopo por usuário e orquestração de store + anexos.
//
// Toda operação é implicitamente escopada pelo userId autenticado; o
// serviço nunca formata respostas de transporte e nunca captura erros.
type Service struct {
	repo     todostore.Repository
	issuer   AttachmentIssuer
	validate *validator.Validate
}

func NewService(repo todostore.Repository, issuer AttachmentIssuer) *Service {
	return &Service{
		repo:     repo,
		issuer:   issuer,
		validate: validator.New(),
	}
}

// Create gera o todoId, carimba createdAt e aplica os defaults
// (done=false, attachmentUrl=null) antes de delegar ao store.
func (s *Service) Create(ctx context.Context, userID string, req models.CreateTodoRequest) (models.TodoItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.TodoItem{}, &ValidationError{Message: "name must not be empty"}
	}

	item := models.TodoItem{
		UserID:        userID,
		TodoID:        uuid.NewString(),
		Name:          req.Name,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
		DueDate:       req.DueDate,
		Done:          false,
		AttachmentURL: nil,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return models.TodoItem{}, storageErr("insert", err)
	}

	log.Ctx(ctx).Info().
		Str("user_id", userID).
		Str("todo_id", item.TodoID).
		Msg("todo created")

	return item, nil
}

// List retorna todos os itens do usuário, sem garantia de ordem.
func (s *Service) List(ctx context.Context, userID string) ([]models.TodoItem, error) {
	items, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, storageErr("list", err)
	}
	return items, nil
}

// ListPaged retorna até limit itens, mais recentes primeiro, retomando
// do cursor opaco. A ausência de limit deve levar o chamador a List —
// nunca a esta operação.
func (s *Service) ListPaged(ctx context.Context, userID, nextToken string, limit int32) (todostore.Page, error) {
	if limit <= 0 {
		return todostore.Page{}, &ValidationError{Message: "limit must be a positive integer"}
	}

	page, err := s.repo.PageQuery(ctx, userID, nextToken, limit)
	if err != nil {
		return todostore.Page{}, storageErr("page query", err)
	}
	return page, nil
}

// Update sobrescreve name, dueDate e done no item endereçado e retorna
// a representação gravada, relida do store. userId e todoId nunca mudam.
func (s *Service) Update(ctx context.Context, userID, todoID string, req models.UpdateTodoRequest) (models.TodoItem, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.TodoItem{}, &ValidationError{Message: "name must not be empty"}
	}

	err := s.repo.Patch(ctx, userID, todoID, todostore.Update{
		Name:    req.Name,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
	if err != nil {
		return models.TodoItem{}, storageErr("patch", err)
	}

	// Releitura consistente: a resposta carrega createdAt e attachmentUrl
	// armazenados, não apenas os campos do request
	item, err := s.repo.Get(ctx, userID, todoID)
	if err != nil {
		return models.TodoItem{}, storageErr("get", err)
	}

	log.Ctx(ctx).Info().
		Str("user_id", userID).
		Str("todo_id", todoID).
		Msg("todo updated")

	return item, nil
}

// Delete remove o item do usuário; idempotente — sempre devolve o id.
func (s *Service) Delete(ctx context.Context, userID, todoID string) (string, error) {
	id, err := s.repo.Remove(ctx, userID, todoID)
	if err != nil {
		return "", storageErr("remove", err)
	}

	log.Ctx(ctx).Info().
		Str("user_id", userID).
		Str("todo_id", todoID).
		Msg("todo deleted")

	return id, nil
}

// RequestAttachmentUpload emite a URL de upload e persiste a URL pública
// de leitura no item, nessa ordem.
//
// As duas escritas (emissão + persistência) não são transacionais: se a
// persistência falhar, o cliente segue com uma URL de upload válida cujo
// alvo o registro ainda não referencia. Operação documentada como
// best-effort, sem compensação.
func (s *Service) RequestAttachmentUpload(ctx context.Context, userID, todoID string) (string, error) {
	att, err := s.issuer.Issue(ctx, todoID)
	if err != nil {
		return "", &UpstreamError{Op: "issue upload url", Err: err}
	}

	if err := s.repo.SetAttachmentURL(ctx, userID, todoID, att.PublicURL); err != nil {
		return "", storageErr("set attachment url", err)
	}

	log.Ctx(ctx).Info().
		Str("user_id", userID).
		Str("todo_id", todoID).
		Msg("attachment upload url issued")

	return att.UploadURL, nil
}

// Search retorna os itens cujo nome contém a substring. Busca vazia ou
// ausente devolve uma sequência vazia sem tocar o store.
func (s *Service) Search(ctx context.Context, userID, query string) ([]models.TodoItem, error) {
	if query == "" {
		return []models.TodoItem{}, nil
	}

	items, err := s.repo.Search(ctx, userID, query)
	if err != nil {
		return nil, storageErr("search", err)
	}
	return items, nil
}
