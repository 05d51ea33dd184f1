// todos/service_test.go
package todos

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/todo-quick-service/attachments"
	"github.com/raywall/todo-quick-service/dyndb"
	"github.com/raywall/todo-quick-service/models"
	"github.com/raywall/todo-quick-service/todostore"
)

// fakeRepo é um Repository em memória com a mesma semântica de chaves
// da tabela real: partição por userId, sort por todoId.
type fakeRepo struct {
	items map[string]map[string]models.TodoItem // userId -> todoId -> item
	calls int
	fail  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]map[string]models.TodoItem)}
}

func (f *fakeRepo) partition(userID string) map[string]models.TodoItem {
	if f.items[userID] == nil {
		f.items[userID] = make(map[string]models.TodoItem)
	}
	return f.items[userID]
}

func (f *fakeRepo) Get(_ context.Context, userID, todoID string) (models.TodoItem, error) {
	f.calls++
	if f.fail != nil {
		return models.TodoItem{}, f.fail
	}
	item, ok := f.partition(userID)[todoID]
	if !ok {
		return models.TodoItem{}, dyndb.ErrNotFound
	}
	return item, nil
}

func (f *fakeRepo) ListAll(_ context.Context, userID string) ([]models.TodoItem, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	var out []models.TodoItem
	for _, item := range f.partition(userID) {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) Insert(_ context.Context, item models.TodoItem) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	p := f.partition(item.UserID)
	if _, exists := p[item.TodoID]; exists {
		return dyndb.ErrConflict
	}
	p[item.TodoID] = item
	return nil
}

func (f *fakeRepo) Patch(_ context.Context, userID, todoID string, upd todostore.Update) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	p := f.partition(userID)
	item, ok := p[todoID]
	if !ok {
		return dyndb.ErrNotFound
	}
	item.Name, item.DueDate, item.Done = upd.Name, upd.DueDate, upd.Done
	p[todoID] = item
	return nil
}

func (f *fakeRepo) Remove(_ context.Context, userID, todoID string) (string, error) {
	f.calls++
	if f.fail != nil {
		return "", f.fail
	}
	delete(f.partition(userID), todoID)
	return todoID, nil
}

func (f *fakeRepo) SetAttachmentURL(_ context.Context, userID, todoID, url string) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	p := f.partition(userID)
	item, ok := p[todoID]
	if !ok {
		return dyndb.ErrNotFound
	}
	item.AttachmentURL = &url
	p[todoID] = item
	return nil
}

func (f *fakeRepo) PageQuery(_ context.Context, userID, token string, limit int32) (todostore.Page, error) {
	f.calls++
	if f.fail != nil {
		return todostore.Page{}, f.fail
	}

	// createdAt descendente, como a LSI real
	var all []models.TodoItem
	for _, item := range f.partition(userID) {
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })

	offset := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return todostore.Page{}, dyndb.ErrBadToken
		}
		offset = n
	}

	end := offset + int(limit)
	if end > len(all) {
		end = len(all)
	}
	page := todostore.Page{Items: all[offset:end]}
	if end < len(all) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakeRepo) Search(_ context.Context, userID, substring string) ([]models.TodoItem, error) {
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	var out []models.TodoItem
	for _, item := range f.partition(userID) {
		if strings.Contains(item.Name, substring) {
			out = append(out, item)
		}
	}
	return out, nil
}

type fakeIssuer struct {
	err    error
	issued []string
}

func (f *fakeIssuer) Issue(_ context.Context, todoID string) (attachments.Attachment, error) {
	if f.err != nil {
		return attachments.Attachment{}, f.err
	}
	f.issued = append(f.issued, todoID)
	return attachments.Attachment{
		UploadURL: fmt.Sprintf("https://bucket.s3.amazonaws.com/%s.jpg?signed", todoID),
		PublicURL: fmt.Sprintf("https://bucket.s3.amazonaws.com/%s.jpg", todoID),
	}, nil
}

func TestCreate_AppliesDefaults(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	item, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{
		Name:    "buy milk",
		DueDate: "2024-01-10",
	})

	require.NoError(t, err)
	assert.Equal(t, "u1", item.UserID)
	assert.NotEmpty(t, item.TodoID)
	assert.NotEmpty(t, item.CreatedAt)
	assert.False(t, item.Done)
	assert.Nil(t, item.AttachmentURL)
	assert.Equal(t, "buy milk", item.Name)
	assert.Equal(t, "2024-01-10", item.DueDate)
}

func TestCreate_GeneratesUniqueIDs(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		item, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "task"})
		require.NoError(t, err)
		assert.False(t, seen[item.TodoID], "todoId repetido: %s", item.TodoID)
		seen[item.TodoID] = true
	}
}

func TestCreate_EmptyNameRejected(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	_, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: ""})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	// Nenhuma chamada ao store acontece antes da validação
	assert.Zero(t, repo.calls)
}

func TestUpdate_NeverChangesIdentity(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	created, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "buy milk", DueDate: "2024-01-10"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "u1", created.TodoID, models.UpdateTodoRequest{
		Name:    "buy milk",
		DueDate: "2024-01-10",
		Done:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.UserID)
	assert.Equal(t, created.TodoID, updated.TodoID)

	items, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Done)
	assert.Equal(t, created.CreatedAt, items[0].CreatedAt)
}

func TestUpdate_ReturnsStoredRepresentation(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	created, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "task"})
	require.NoError(t, err)

	_, err = svc.RequestAttachmentUpload(context.Background(), "u1", created.TodoID)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "u1", created.TodoID, models.UpdateTodoRequest{
		Name: "task",
		Done: true,
	})
	require.NoError(t, err)

	// A resposta vem da releitura do item: createdAt e attachmentUrl
	// armazenados estão presentes, não zerados
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.NotNil(t, updated.AttachmentURL)
	assert.Equal(t, fmt.Sprintf("https://bucket.s3.amazonaws.com/%s.jpg", created.TodoID), *updated.AttachmentURL)
	assert.True(t, updated.Done)
}

func TestUpdate_MissingTarget(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	_, err := svc.Update(context.Background(), "u1", "ghost", models.UpdateTodoRequest{Name: "x"})

	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	created, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "task"})
	require.NoError(t, err)

	id, err := svc.Delete(context.Background(), "u1", created.TodoID)
	require.NoError(t, err)
	assert.Equal(t, created.TodoID, id)

	// Segunda remoção do mesmo id não é erro
	id, err = svc.Delete(context.Background(), "u1", created.TodoID)
	require.NoError(t, err)
	assert.Equal(t, created.TodoID, id)

	items, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListPaged_RejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	for _, limit := range []int32{0, -1} {
		_, err := svc.ListPaged(context.Background(), "u1", "", limit)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
	}
	// Rejeição acontece antes de qualquer chamada ao store
	assert.Zero(t, repo.calls)
}

func TestListPaged_WalksFullSetWithoutDuplicates(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	created := make(map[string]bool)
	for i := 0; i < 5; i++ {
		item, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: fmt.Sprintf("task %d", i)})
		require.NoError(t, err)
		created[item.TodoID] = true
	}

	seen := make(map[string]bool)
	token := ""
	pages := 0
	for {
		page, err := svc.ListPaged(context.Background(), "u1", token, 2)
		require.NoError(t, err)
		pages++

		for _, item := range page.Items {
			assert.False(t, seen[item.TodoID], "item duplicado entre páginas")
			seen[item.TodoID] = true
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, created, seen)
}

func TestSearch_EmptyQueryShortCircuits(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	_, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "buy milk"})
	require.NoError(t, err)
	repo.calls = 0

	items, err := svc.Search(context.Background(), "u1", "")

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, repo.calls, "busca vazia não deve tocar o store")
}

func TestSearch_CaseSensitiveSubstring(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	_, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "buy Milk"})
	require.NoError(t, err)

	items, err := svc.Search(context.Background(), "u1", "Milk")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = svc.Search(context.Background(), "u1", "milk")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRequestAttachmentUpload_PersistsPublicURL(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	issuer := &fakeIssuer{}
	svc := NewService(repo, issuer)

	created, err := svc.Create(context.Background(), "u1", models.CreateTodoRequest{Name: "task"})
	require.NoError(t, err)

	uploadURL, err := svc.RequestAttachmentUpload(context.Background(), "u1", created.TodoID)

	require.NoError(t, err)
	assert.Contains(t, uploadURL, "?signed")
	assert.Equal(t, []string{created.TodoID}, issuer.issued)

	items, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].AttachmentURL)
	// A URL persistida é a pública (estável), não a pré-assinada
	assert.Equal(t, fmt.Sprintf("https://bucket.s3.amazonaws.com/%s.jpg", created.TodoID), *items[0].AttachmentURL)
}

func TestRequestAttachmentUpload_IssuerFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{err: errors.New("s3 unavailable")})

	_, err := svc.RequestAttachmentUpload(context.Background(), "u1", "t1")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	// Nada é persistido quando a emissão falha
	assert.Zero(t, repo.calls)
}

func TestCrossTenantIsolation(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, &fakeIssuer{})

	itemB, err := svc.Create(context.Background(), "userB", models.CreateTodoRequest{Name: "secret task"})
	require.NoError(t, err)

	// A usa o todoId de B: nenhuma operação enxerga ou afeta a partição de B
	_, err = svc.Update(context.Background(), "userA", itemB.TodoID, models.UpdateTodoRequest{Name: "hijack"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(context.Background(), "userA", itemB.TodoID)
	require.NoError(t, err)

	items, err := svc.Search(context.Background(), "userA", "secret")
	require.NoError(t, err)
	assert.Empty(t, items)

	itemsB, err := svc.List(context.Background(), "userB")
	require.NoError(t, err)
	require.Len(t, itemsB, 1)
	assert.Equal(t, "secret task", itemsB[0].Name)
	assert.False(t, itemsB[0].Done)
}

func TestUpstreamErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.fail = errors.New("throttled")
	svc := NewService(repo, &fakeIssuer{})

	_, err := svc.List(context.Background(), "u1")

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.ErrorContains(t, upstream.Err, "throttled")
}
