package intake

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ziadkadry99/city-intake/internal/session"
)

const meterName = "github.com/ziadkadry99/city-intake/internal/intake"

// metrics are no-ops until a MeterProvider is installed globally.
type metrics struct {
	turns         metric.Int64Counter
	submitted     metric.Int64Counter
	relayFailures metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	meter := otel.Meter(meterName)

	turns, err := meter.Int64Counter("intake.turns.total",
		metric.WithDescription("Conversation turns handled, by resulting status"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, err
	}
	submitted, err := meter.Int64Counter("intake.reports.submitted.total",
		metric.WithDescription("Completed reports, by department"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}
	relayFailures, err := meter.Int64Counter("intake.relay.failures.total",
		metric.WithDescription("Reports the notification relay did not accept"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}
	return &metrics{turns: turns, submitted: submitted, relayFailures: relayFailures}, nil
}

func (m *metrics) turn(ctx context.Context, status session.Status) {
	m.turns.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
}

func (m *metrics) report(ctx context.Context, department string) {
	m.submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("department", department)))
}

func (m *metrics) relayFailure(ctx context.Context) {
	m.relayFailures.Add(ctx, 1)
}
