package metrics

import (
	"context"
	"errors"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

func lookupResult(err error) string {
	switch {
	case err == nil:
		return resultHit
	case errors.Is(err, domain.ErrNotFound):
		return resultMiss
	default:
		return resultError
	}
}

type tokenCache struct {
	domain.TokenCache
	m *Metrics
}

// InstrumentTokenCache counts lookups on c.
func InstrumentTokenCache(c domain.TokenCache, m *Metrics) domain.TokenCache {
	return &tokenCache{TokenCache: c, m: m}
}

func (c *tokenCache) GetToken(ctx context.Context, address string) (domain.Token, error) {
	t, err := c.TokenCache.GetToken(ctx, address)
	c.m.CacheLookups.WithLabelValues("token", lookupResult(err)).Inc()
	return t, err
}

type priceCache struct {
	domain.PriceCache
	m *Metrics
}

// InstrumentPriceCache counts lookups on c. A batch lookup counts one hit per
// returned pair and one miss per absent pair.
func InstrumentPriceCache(c domain.PriceCache, m *Metrics) domain.PriceCache {
	return &priceCache{PriceCache: c, m: m}
}

func (c *priceCache) GetPrice(ctx context.Context, pair domain.PricePair) (domain.Price, error) {
	p, err := c.PriceCache.GetPrice(ctx, pair)
	c.m.CacheLookups.WithLabelValues("price", lookupResult(err)).Inc()
	return p, err
}

func (c *priceCache) GetPrices(ctx context.Context, pairs []domain.PricePair) (map[string]domain.Price, error) {
	got, err := c.PriceCache.GetPrices(ctx, pairs)
	if err != nil {
		c.m.CacheLookups.WithLabelValues("price", resultError).Add(float64(len(pairs)))
		return got, err
	}
	c.m.CacheLookups.WithLabelValues("price", resultHit).Add(float64(len(got)))
	c.m.CacheLookups.WithLabelValues("price", resultMiss).Add(float64(len(pairs) - len(got)))
	return got, nil
}
