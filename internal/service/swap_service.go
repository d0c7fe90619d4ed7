package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// DefaultSlippageBps is applied when a caller does not specify slippage.
const DefaultSlippageBps = 50

// SwapService quotes swaps and builds unsigned swap transactions.
type SwapService struct {
	api    SwapAPI
	logger *slog.Logger
}

// NewSwapService creates a SwapService.
func NewSwapService(api SwapAPI, logger *slog.Logger) *SwapService {
	return &SwapService{api: api, logger: logger}
}

// Quote returns a swap quote for req.
func (s *SwapService) Quote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	q, err := fetchQuote(ctx, s.api, req)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("swap_service: quote: %w", err)
	}
	return q, nil
}

// Swap fetches a quote and then asks upstream for the matching unsigned
// transaction. A failure of the second call is returned as is.
func (s *SwapService) Swap(ctx context.Context, req domain.SwapRequest) (domain.SwapTransaction, error) {
	q, err := fetchQuote(ctx, s.api, req.QuoteRequest)
	if err != nil {
		return domain.SwapTransaction{}, fmt.Errorf("swap_service: quote: %w", err)
	}

	swap, err := s.api.BuildSwap(ctx, jupiter.SwapParams{
		QuoteResponse:    q.Raw,
		UserPublicKey:    req.UserPublicKey,
		WrapAndUnwrapSol: req.WrapUnwrapSOL,
	})
	if err != nil {
		return domain.SwapTransaction{}, fmt.Errorf("swap_service: build swap: %w", err)
	}

	s.logger.InfoContext(ctx, "swap_service: swap transaction built",
		slog.String("input_token", q.InputToken),
		slog.String("output_token", q.OutputToken),
		slog.String("amount", q.Amount),
	)

	fee := swap.PrioritizationFeeLamports.String()
	if fee == "" {
		fee = "0"
	}

	return domain.SwapTransaction{
		Transaction:               swap.SwapTransaction,
		LastValidBlockHeight:      swap.LastValidBlockHeight,
		PrioritizationFeeLamports: fee,
		Status:                    "pending",
		UserPublicKey:             req.UserPublicKey,
		InputToken:                q.InputToken,
		OutputToken:               q.OutputToken,
		Amount:                    q.Amount,
		EstimatedOutput:           q.EstimatedOutput,
		Price:                     q.Price,
		PriceImpact:               q.PriceImpact,
	}, nil
}

// History returns a page of swaps made by userPublicKey.
func (s *SwapService) History(ctx context.Context, userPublicKey string, opts domain.ListOpts) (domain.SwapHistory, error) {
	h, err := s.api.GetSwapHistory(ctx, userPublicKey, opts.Limit, opts.Offset)
	if err != nil {
		return domain.SwapHistory{}, fmt.Errorf("swap_service: history: %w", err)
	}

	swaps := make([]domain.SwapRecord, 0, len(h.Swaps))
	for i := range h.Swaps {
		swaps = append(swaps, h.Swaps[i].ToDomainSwapRecord())
	}
	return domain.SwapHistory{
		Swaps:      swaps,
		Pagination: domain.Pagination{Limit: opts.Limit, Offset: opts.Offset, Total: h.Total},
	}, nil
}

// Status returns a single swap. domain.ErrNotFound is returned when upstream
// does not know the ID.
func (s *SwapService) Status(ctx context.Context, id string) (domain.SwapRecord, error) {
	rec, err := s.api.GetSwapStatus(ctx, id)
	if err != nil {
		return domain.SwapRecord{}, fmt.Errorf("swap_service: status %q: %w", id, err)
	}
	return rec.ToDomainSwapRecord(), nil
}

// fetchQuote runs the quote half of every quote-then-commit flow.
func fetchQuote(ctx context.Context, api QuoteAPI, req domain.QuoteRequest) (domain.Quote, error) {
	q, err := api.GetQuote(ctx, jupiter.QuoteParams{
		InputMint:   req.InputToken,
		OutputMint:  req.OutputToken,
		Amount:      req.Amount,
		SlippageBps: req.SlippageBps,
		SwapMode:    domain.SwapModeExactIn,
	})
	if err != nil {
		return domain.Quote{}, err
	}
	return q.ToDomainQuote(), nil
}
