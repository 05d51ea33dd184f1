// auth/identity.go
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoIdentity — a requisição não carrega uma identidade utilizável
var ErrNoIdentity = errors.New("auth: no verified identity in request")

type contextKey struct{}

// WithUserID grava o userId autenticado no contexto da requisição.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID lê o userId autenticado do contexto.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Subject extrai a claim `sub` do payload de um bearer token.
//
// A verificação de assinatura é responsabilidade do colaborador upstream
// (authorizer do gateway); este serviço confia no resultado
// incondicionalmente e nunca revalida — aqui só há decodificação.
func Subject(authorizationHeader string) (string, error) {
	token := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, "Bearer"))
	if token == "" {
		return "", ErrNoIdentity
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrNoIdentity
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrNoIdentity
	}

	var claims struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Sub == "" {
		return "", ErrNoIdentity
	}
	return claims.Sub, nil
}
