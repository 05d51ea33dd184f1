// metrics/datadog.go
package metrics

import (
	"github.com/DataDog/datadog-go/v5/statsd"
)

// DatadogProvider envia métricas para um agente statsd/DogStatsD.
type DatadogProvider struct {
	client statsd.ClientInterface
}

// NewDatadogProvider conecta ao agente no endereço informado
// (ex: "127.0.0.1:8125").
func NewDatadogProvider(addr string) (*DatadogProvider, error) {
	client, err := statsd.New(addr)
	if err != nil {
		return nil, err
	}
	return &DatadogProvider{client: client}, nil
}

func (d *DatadogProvider) Count(name string, value int64, tags []string) error {
	return d.client.Count(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

var _ Provider = (*DatadogProvider)(nil)
