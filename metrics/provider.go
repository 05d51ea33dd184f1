// metrics/provider.go
package metrics

// Provider define o contrato para envio de métricas de requisição.
// Isso permite trocar Datadog por outro backend sem alterar o transporte.
type Provider interface {
	Count(name string, value int64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Noop descarta todas as métricas; usado quando METRICS_ADDR não é
// configurado e nos testes.
type Noop struct{}

func (Noop) Count(string, int64, []string) error       { return nil }
func (Noop) Histogram(string, float64, []string) error { return nil }
