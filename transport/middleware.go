// transport/middleware.go
package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/raywall/todo-quick-service/auth"
	"github.com/raywall/todo-quick-service/metrics"
)

const HeaderCorrelationID = "x-correlation-id"

// Middleware agrupa as camadas transversais aplicadas na frente dos
// handlers: observabilidade (log + métricas) e identidade.
type Middleware struct {
	Observability mux.MiddlewareFunc
	Identity      mux.MiddlewareFunc
}

func NewMiddleware(base zerolog.Logger, provider metrics.Provider) Middleware {
	return Middleware{
		Observability: observability(base, provider),
		Identity:      identity(),
	}
}

// statusRecorder captura o status gravado pelo handler para o log final.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func observability(base zerolog.Logger, provider metrics.Provider) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = uuid.NewString()
			}

			// Logger contextual propagado para todas as camadas
			logger := base.With().Str("correlation_id", corrID).Logger()
			ctx := logger.WithContext(r.Context())

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			rec.Header().Set(HeaderCorrelationID, corrID)

			next.ServeHTTP(rec, r.WithContext(ctx))

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Int64("latency_ms", duration.Milliseconds()).
				Msg("request completed")

			tags := []string{
				"method:" + r.Method,
				"status:" + strconv.Itoa(rec.status),
			}
			_ = provider.Count("todo_api.request", 1, tags)
			_ = provider.Histogram("todo_api.latency_ms", float64(duration.Milliseconds()), tags)
		})
	}
}

// identity extrai o userId do token da requisição e o grava no contexto.
// A verificação de assinatura é do authorizer upstream; aqui o resultado
// é aceito incondicionalmente.
func identity() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.Subject(r.Header.Get("Authorization"))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
