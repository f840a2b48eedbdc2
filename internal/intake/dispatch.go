package intake

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/city-intake/internal/notify"
	"github.com/ziadkadry99/city-intake/internal/reports"
)

const (
	defaultSinkTimeout  = 5 * time.Second
	defaultRelayTimeout = 10 * time.Second
	maxInFlight         = 64
)

// dispatcher hands completed reports to the sink and the relay after the
// turn has been saved. Neither outcome reaches the user.
type dispatcher struct {
	sink         ReportSink
	relay        notify.Relay
	sinkTimeout  time.Duration
	relayTimeout time.Duration
	logger       *zap.Logger
	metrics      *metrics
	group        errgroup.Group
}

func newDispatcher(sink ReportSink, relay notify.Relay, sinkTimeout, relayTimeout time.Duration, logger *zap.Logger, m *metrics) *dispatcher {
	if sinkTimeout <= 0 {
		sinkTimeout = defaultSinkTimeout
	}
	if relayTimeout <= 0 {
		relayTimeout = defaultRelayTimeout
	}
	d := &dispatcher{
		sink:         sink,
		relay:        relay,
		sinkTimeout:  sinkTimeout,
		relayTimeout: relayTimeout,
		logger:       logger,
		metrics:      m,
	}
	d.group.SetLimit(maxInFlight)
	return d
}

// submit starts the sink save and the relay delivery. It returns without
// waiting for either, unless maxInFlight deliveries are already running.
func (d *dispatcher) submit(ctx context.Context, r reports.Report) {
	ctx = context.WithoutCancel(ctx)
	d.metrics.report(ctx, r.Department)

	log := d.logger.With(zap.String("session_id", r.SessionID), zap.String("department", r.Department))

	if d.sink != nil {
		d.group.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, d.sinkTimeout)
			defer cancel()
			id, err := d.sink.Save(ctx, r)
			if err != nil {
				log.Error("saving report failed", zap.Error(err))
				return nil
			}
			log.Info("report saved", zap.String("report_id", id))
			return nil
		})
	}

	if d.relay != nil {
		d.group.Go(func() error {
			ctx, cancel := context.WithTimeout(ctx, d.relayTimeout)
			defer cancel()
			err := d.relay.Deliver(ctx, r)
			switch {
			case err == nil:
				log.Info("report relayed")
			case errors.Is(err, notify.ErrNotConfigured):
				log.Warn("relay not configured, report not forwarded")
			default:
				d.metrics.relayFailure(ctx)
				log.Warn("relaying report failed", zap.Error(err))
			}
			return nil
		})
	}
}

func (d *dispatcher) wait() {
	_ = d.group.Wait()
}
