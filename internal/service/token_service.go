package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// TokenService serves token metadata, reading through an optional cache.
type TokenService struct {
	api    TokenAPI
	cache  domain.TokenCache
	logger *slog.Logger
}

// NewTokenService creates a TokenService. cache may be nil to disable
// caching.
func NewTokenService(api TokenAPI, cache domain.TokenCache, logger *slog.Logger) *TokenService {
	return &TokenService{api: api, cache: cache, logger: logger}
}

// Get returns metadata for address, checking the cache first. Cache failures
// are logged and otherwise ignored.
func (s *TokenService) Get(ctx context.Context, address string) (domain.Token, error) {
	if s.cache != nil {
		tok, err := s.cache.GetToken(ctx, address)
		if err == nil {
			return tok, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "token_service: cache get failed",
				slog.String("address", address),
				slog.String("error", err.Error()),
			)
		}
	}

	apiTok, err := s.api.GetToken(ctx, address)
	if err != nil {
		return domain.Token{}, fmt.Errorf("token_service: get %q: %w", address, err)
	}
	tok := apiTok.ToDomainToken()
	if tok.Address == "" {
		tok.Address = address
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetToken(ctx, tok); cacheErr != nil {
			s.logger.WarnContext(ctx, "token_service: cache set failed",
				slog.String("address", address),
				slog.String("error", cacheErr.Error()),
			)
		}
	}
	return tok, nil
}

// List returns a page of tokens matching opts.
func (s *TokenService) List(ctx context.Context, opts domain.TokenListOpts) (domain.TokenList, error) {
	list, err := s.api.ListTokens(ctx, jupiter.TokenListParams{
		Limit:    opts.Limit,
		Offset:   opts.Offset,
		Search:   opts.Search,
		Tags:     opts.Tags,
		Verified: opts.Verified,
	})
	if err != nil {
		return domain.TokenList{}, fmt.Errorf("token_service: list: %w", err)
	}

	tokens := make([]domain.Token, 0, len(list.Tokens))
	for i := range list.Tokens {
		tokens = append(tokens, list.Tokens[i].ToDomainToken())
	}
	return domain.TokenList{
		Tokens:     tokens,
		Pagination: domain.Pagination{Limit: opts.Limit, Offset: opts.Offset, Total: list.Total},
	}, nil
}
