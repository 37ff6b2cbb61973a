package token

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"icbridge/internal/account/models"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icbridge_token_cache_hits_total",
		Help: "Credential cache hits",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "icbridge_token_cache_misses_total",
		Help: "Credential cache misses",
	})
)

// expirySkew is subtracted from the token lifetime so a credential is never
// handed out moments before the provider stops accepting it.
const expirySkew = 30 * time.Second

// CachingBroker wraps a Broker with an expiry-aware cache. Observable
// behavior is unchanged: callers still get a valid credential pair or an
// AuthError. Concurrent requests for the same client collapse into a single
// upstream authentication.
type CachingBroker struct {
	broker      Broker
	cache       Cache
	fallbackTTL time.Duration
	group       singleflight.Group
	logger      *slog.Logger
}

// NewCachingBroker decorates broker with cache. fallbackTTL bounds entries
// whose tokens carry no readable expiry; zero means such credentials are
// not cached at all.
func NewCachingBroker(broker Broker, cache Cache, fallbackTTL time.Duration, logger *slog.Logger) *CachingBroker {
	return &CachingBroker{
		broker:      broker,
		cache:       cache,
		fallbackTTL: fallbackTTL,
		logger:      logger,
	}
}

func (b *CachingBroker) Authenticate(ctx context.Context, creds models.Credentials) (*Credential, error) {
	if cred, ok, err := b.cache.Get(ctx, creds.ClientID); err == nil && ok {
		cacheHits.Inc()
		return cred, nil
	} else if err != nil {
		// Cache trouble must not block authentication.
		b.logger.WarnContext(ctx, "credential cache read failed", "error", err.Error())
	}
	cacheMisses.Inc()

	v, err, _ := b.group.Do(creds.ClientID, func() (any, error) {
		cred, err := b.broker.Authenticate(ctx, creds)
		if err != nil {
			return nil, err
		}
		if ttl := b.cacheTTL(cred); ttl > 0 {
			if err := b.cache.Set(ctx, creds.ClientID, cred, ttl); err != nil {
				b.logger.WarnContext(ctx, "credential cache write failed", "error", err.Error())
			}
		}
		return cred, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credential), nil
}

func (b *CachingBroker) cacheTTL(cred *Credential) time.Duration {
	exp := cred.Expiry()
	if exp.IsZero() {
		return b.fallbackTTL
	}
	ttl := time.Until(exp) - expirySkew
	if ttl <= 0 {
		return 0
	}
	if b.fallbackTTL > 0 && ttl > b.fallbackTTL {
		return b.fallbackTTL
	}
	return ttl
}
