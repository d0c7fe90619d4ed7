package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// PriceService serves pair prices, reading through an optional cache.
type PriceService struct {
	api    PriceAPI
	cache  domain.PriceCache
	logger *slog.Logger
	now    func() time.Time
}

// NewPriceService creates a PriceService. cache may be nil to disable
// caching.
func NewPriceService(api PriceAPI, cache domain.PriceCache, logger *slog.Logger) *PriceService {
	return &PriceService{api: api, cache: cache, logger: logger, now: time.Now}
}

// Get returns the price of pair. domain.ErrNotFound is returned when no
// price is available.
func (s *PriceService) Get(ctx context.Context, pair domain.PricePair) (domain.Price, error) {
	if s.cache != nil {
		p, err := s.cache.GetPrice(ctx, pair)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.cacheWarn(ctx, "get", err)
		}
	}

	apiPrice, err := s.api.GetPrice(ctx, pair.InputToken, pair.OutputToken)
	if err != nil {
		return domain.Price{}, fmt.Errorf("price_service: get %s: %w", pair.Key(), err)
	}
	if apiPrice.Price.String() == "" {
		return domain.Price{}, fmt.Errorf("price_service: get %s: %w", pair.Key(), domain.ErrNotFound)
	}

	p := s.normalize(apiPrice, pair)
	s.store(ctx, p)
	return p, nil
}

// Batch returns prices for pairs in request order. Cached prices are served
// from the cache; the rest are fetched in one upstream call. Pairs upstream
// has no price for are left out of the result.
func (s *PriceService) Batch(ctx context.Context, pairs []domain.PricePair) ([]domain.Price, error) {
	found := make(map[string]domain.Price, len(pairs))
	if s.cache != nil {
		cached, err := s.cache.GetPrices(ctx, pairs)
		if err != nil {
			s.cacheWarn(ctx, "get batch", err)
		}
		for k, p := range cached {
			found[k] = p
		}
	}

	missing := make([]jupiter.APIPricePair, 0, len(pairs))
	for _, pair := range pairs {
		if _, ok := found[pair.Key()]; !ok {
			missing = append(missing, jupiter.APIPricePair{InputMint: pair.InputToken, OutputMint: pair.OutputToken})
		}
	}

	if len(missing) > 0 {
		batch, err := s.api.GetPrices(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("price_service: batch: %w", err)
		}
		for _, ap := range batch.Prices {
			if ap.Price.String() == "" {
				continue
			}
			pair := domain.PricePair{InputToken: ap.InputMint, OutputToken: ap.OutputMint}
			p := s.normalize(ap, pair)
			found[pair.Key()] = p
			s.store(ctx, p)
		}
	}

	out := make([]domain.Price, 0, len(pairs))
	for _, pair := range pairs {
		if p, ok := found[pair.Key()]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *PriceService) normalize(ap jupiter.APIPrice, pair domain.PricePair) domain.Price {
	p := ap.ToDomainPrice(s.now())
	if p.InputToken == "" {
		p.InputToken = pair.InputToken
	}
	if p.OutputToken == "" {
		p.OutputToken = pair.OutputToken
	}
	return p
}

func (s *PriceService) store(ctx context.Context, p domain.Price) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetPrice(ctx, p); err != nil {
		s.cacheWarn(ctx, "set", err)
	}
}

func (s *PriceService) cacheWarn(ctx context.Context, op string, err error) {
	s.logger.WarnContext(ctx, "price_service: cache "+op+" failed",
		slog.String("error", err.Error()),
	)
}
