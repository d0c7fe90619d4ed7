package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

// PriceCache implements domain.PriceCache using Redis hashes. Each pair is
// stored at "price:{input}:{output}" with fields "price" (decimal string) and
// "ts" (Unix nanoseconds), expiring after the configured TTL.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPriceCache creates a PriceCache backed by the given Client.
func NewPriceCache(c *Client, ttl time.Duration) *PriceCache {
	return &PriceCache{rdb: c.Underlying(), ttl: ttl}
}

func priceKey(pair domain.PricePair) string {
	return "price:" + pair.Key()
}

// SetPrice stores the price of a pair.
func (pc *PriceCache) SetPrice(ctx context.Context, p domain.Price) error {
	pair := domain.PricePair{InputToken: p.InputToken, OutputToken: p.OutputToken}
	key := priceKey(pair)

	pipe := pc.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price": p.Price,
		"ts":    strconv.FormatInt(p.Timestamp.UnixNano(), 10),
	})
	pipe.Expire(ctx, key, pc.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set price %s: %w", pair.Key(), err)
	}
	return nil
}

// GetPrice returns the cached price of pair, or domain.ErrNotFound.
func (pc *PriceCache) GetPrice(ctx context.Context, pair domain.PricePair) (domain.Price, error) {
	vals, err := pc.rdb.HGetAll(ctx, priceKey(pair)).Result()
	if err != nil {
		return domain.Price{}, fmt.Errorf("redis: get price %s: %w", pair.Key(), err)
	}
	p, ok := priceFromHash(pair, vals)
	if !ok {
		return domain.Price{}, domain.ErrNotFound
	}
	return p, nil
}

// GetPrices returns the cached prices of pairs keyed by PricePair.Key, using
// a single pipeline. Missing or malformed entries are omitted.
func (pc *PriceCache) GetPrices(ctx context.Context, pairs []domain.PricePair) (map[string]domain.Price, error) {
	if len(pairs) == 0 {
		return map[string]domain.Price{}, nil
	}

	pipe := pc.rdb.Pipeline()
	cmds := make(map[domain.PricePair]*redis.MapStringStringCmd, len(pairs))
	for _, pair := range pairs {
		cmds[pair] = pipe.HGetAll(ctx, priceKey(pair))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis: get prices pipeline: %w", err)
	}

	result := make(map[string]domain.Price, len(pairs))
	for pair, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil {
			continue
		}
		if p, ok := priceFromHash(pair, vals); ok {
			result[pair.Key()] = p
		}
	}
	return result, nil
}

func priceFromHash(pair domain.PricePair, vals map[string]string) (domain.Price, bool) {
	price, ok := vals["price"]
	if !ok || price == "" {
		return domain.Price{}, false
	}
	tsNano, err := strconv.ParseInt(vals["ts"], 10, 64)
	if err != nil {
		return domain.Price{}, false
	}
	return domain.Price{
		InputToken:  pair.InputToken,
		OutputToken: pair.OutputToken,
		Price:       price,
		Timestamp:   time.Unix(0, tsNano).UTC(),
	}, true
}

// Compile-time interface check.
var _ domain.PriceCache = (*PriceCache)(nil)
