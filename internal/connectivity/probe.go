package connectivity

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

// Provider reports whether the network is currently reachable. The engine
// reads it once per tick and never writes it.
type Provider interface {
	Online() bool
}

// Static is a fixed Provider, useful for tests and for forcing offline mode.
type Static bool

// Online implements Provider.
func (s Static) Online() bool { return bool(s) }

// Probe checks a well-known endpoint in the background and keeps an
// online/offline flag up to date. Probing slows down with exponential
// backoff while the endpoint stays unreachable.
type Probe struct {
	client   *resty.Client
	url      string
	interval time.Duration
	logger   *zap.Logger
	online   atomic.Bool
}

// NewProbe creates a Probe against the given URL. The probe starts in the
// online state so the engine can sync before the first check completes.
func NewProbe(url string, interval time.Duration, timeout time.Duration, logger *zap.Logger) *Probe {
	client := resty.New().SetTimeout(timeout)
	p := &Probe{
		client:   client,
		url:      url,
		interval: interval,
		logger:   logger.Named("connectivity"),
	}
	p.online.Store(true)
	return p
}

// Online implements Provider.
func (p *Probe) Online() bool {
	return p.online.Load()
}

// Run probes until the context is cancelled.
func (p *Probe) Run(ctx context.Context) {
	retry := &backoff.Backoff{
		Min:    p.interval,
		Max:    2 * time.Minute,
		Factor: 2,
		Jitter: true,
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		wasOnline := p.online.Load()
		nowOnline := p.check(ctx)
		p.online.Store(nowOnline)

		if nowOnline != wasOnline {
			if nowOnline {
				p.logger.Info("Network connectivity restored")
			} else {
				p.logger.Warn("Network unreachable, suspending trade resolution")
			}
		}

		if nowOnline {
			retry.Reset()
			timer.Reset(p.interval)
		} else {
			timer.Reset(retry.Duration())
		}
	}
}

func (p *Probe) check(ctx context.Context) bool {
	resp, err := p.client.R().SetContext(ctx).Head(p.url)
	if err != nil {
		p.logger.Debug("Connectivity probe failed", zap.Error(err))
		return false
	}
	return resp.StatusCode() < 500
}
