package aws

import (
	"context"
	"strings"
	"sync"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"

	"iamkit/internal/cache"
)

// Pool hands out SDK clients per (service, profile, region), rebuilding them after ttl.
type Pool struct {
	store    *cache.Store
	ttl      time.Duration
	settings Settings
	load     func(context.Context, Settings) (sdkaws.Config, error)
	mu       sync.Mutex
}

func NewPool(store *cache.Store, settings Settings, ttl time.Duration) *Pool {
	if store == nil {
		store = cache.NewStore()
	}
	return &Pool{store: store, ttl: ttl, settings: settings, load: LoadConfig}
}

func (p *Pool) Settings() Settings {
	return p.settings
}

type pooled[T any] struct {
	client T
	region string
}

// Client returns the pooled client for service in region (empty for the configured
// default), building it with build on a miss. The resolved region is returned alongside.
func Client[T any](ctx context.Context, p *Pool, service, region string, build func(sdkaws.Config) T) (T, string, error) {
	var zero T
	settings := p.settings
	settings.Region = ResolveRegion(region, p.settings.Region)
	key := p.key(service, settings)

	p.mu.Lock()
	defer p.mu.Unlock()
	if value, ok := p.store.Get(key); ok {
		if entry, ok := value.(pooled[T]); ok {
			return entry.client, entry.region, nil
		}
	}
	cfg, err := p.load(ctx, settings)
	if err != nil {
		return zero, "", err
	}
	entry := pooled[T]{client: build(cfg), region: strings.TrimSpace(cfg.Region)}
	p.store.Set(key, entry, p.ttl)
	return entry.client, entry.region, nil
}

func (p *Pool) key(service string, settings Settings) string {
	region := settings.Region
	if region == "" {
		region = "default"
	}
	parts := []string{service, ResolveProfile(settings.Profile), region}
	if settings.EndpointURL != "" {
		parts = append(parts, settings.EndpointURL)
	}
	return strings.Join(parts, "|")
}
