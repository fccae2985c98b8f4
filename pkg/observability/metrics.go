package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the search pipeline
const (
	MetricCacheHit       = "CacheHit"
	MetricCacheMiss      = "CacheMiss"
	MetricProviderCall   = "ProviderCall"
	MetricProviderFault  = "ProviderFault"
	MetricSearchDuration = "SearchDuration"
	MetricRecordsPurged  = "RecordsPurged"
)

// Metrics publishes operational metrics to CloudWatch. All publishing is
// best-effort: a metrics failure never fails the operation being measured.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
	enabled   bool
}

// NewMetrics creates a metrics instance
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		enabled:   client != nil,
	}
}

// Count increments a counter metric by the given value
func (m *Metrics) Count(ctx context.Context, name string, value float64) {
	m.put(ctx, name, value, types.StandardUnitCount)
}

// Duration records an elapsed-time metric in milliseconds
func (m *Metrics) Duration(ctx context.Context, name string, elapsed time.Duration) {
	m.put(ctx, name, float64(elapsed.Milliseconds()), types.StandardUnitMilliseconds)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit types.StandardUnit) {
	if m == nil || !m.enabled {
		return
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
			},
		},
	}

	// Fire-and-forget; callers never block on metric delivery errors
	_, _ = m.client.PutMetricData(ctx, input)
}
