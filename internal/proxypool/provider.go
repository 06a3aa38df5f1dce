package proxypool

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/a3s-lab/a3s-search/internal/types"
)

// Provider fetches a fresh descriptor set from some upstream source.
type Provider interface {
	Fetch(ctx context.Context) ([]types.ProxyDescriptor, error)
}

// ScheduledRefresher periodically calls a Provider and pushes its result
// into a Pool, using the same cron scheduling idiom the traffic generator
// uses for its run schedules.
type ScheduledRefresher struct {
	pool     *Pool
	provider Provider
	cron     *cron.Cron
}

// NewScheduledRefresher wires provider into pool on the given cron spec
// (standard five-field cron syntax, e.g. "*/5 * * * *").
func NewScheduledRefresher(pool *Pool, provider Provider, spec string) (*ScheduledRefresher, error) {
	r := &ScheduledRefresher{pool: pool, provider: provider, cron: cron.New()}
	_, err := r.cron.AddFunc(spec, r.refreshOnce)
	if err != nil {
		return nil, fmt.Errorf("proxypool: invalid refresh schedule %q: %w", spec, err)
	}
	return r, nil
}

// Start begins the cron scheduler and performs one immediate refresh so the
// pool is populated before the first scheduled tick fires.
func (r *ScheduledRefresher) Start(ctx context.Context) {
	r.refreshOnce()
	r.cron.Start()
	go func() {
		<-ctx.Done()
		r.cron.Stop()
	}()
}

func (r *ScheduledRefresher) refreshOnce() {
	ctx := context.Background()
	descriptors, err := r.provider.Fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("proxypool: provider refresh failed, keeping existing descriptor set")
		return
	}
	r.pool.SetProxies(descriptors)
	log.Debug().Int("count", len(descriptors)).Msg("proxypool: refreshed descriptor set")
}

// WebSocketProvider fetches a descriptor set by dialing a websocket endpoint
// that streams a single JSON array of descriptors and then closes. It is
// used for operators who rotate their proxy fleet faster than a cron
// interval can usefully poll.
type WebSocketProvider struct {
	URL string
}

type wireDescriptor struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Fetch dials p.URL, reads one JSON message, and decodes it into descriptors.
func (p *WebSocketProvider) Fetch(ctx context.Context) ([]types.ProxyDescriptor, error) {
	conn, _, err := websocket.Dial(ctx, p.URL, nil)
	if err != nil {
		return nil, &types.ProviderError{Reason: "dial", Cause: fmt.Errorf("dialing %s: %w", p.URL, err)}
	}
	defer conn.CloseNow() //nolint:errcheck

	var wire []wireDescriptor
	if err := wsjson.Read(ctx, conn, &wire); err != nil {
		return nil, &types.ProviderError{Reason: "read", Cause: fmt.Errorf("reading descriptor set: %w", err)}
	}
	_ = conn.Close(websocket.StatusNormalClosure, "done")

	descriptors := make([]types.ProxyDescriptor, 0, len(wire))
	for _, w := range wire {
		d := types.ProxyDescriptor{
			Host:     w.Host,
			Port:     w.Port,
			Protocol: types.ProxyProtocol(w.Protocol),
		}
		if w.Username != "" {
			d.Credentials = &types.ProxyCredentials{Username: w.Username, Password: w.Password}
		}
		if err := d.Validate(); err != nil {
			return nil, &types.ProviderError{Reason: "invalid descriptor", Cause: fmt.Errorf("descriptor %s: %w", w.Host, err)}
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
