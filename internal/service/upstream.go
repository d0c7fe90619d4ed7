package service

import (
	"context"

	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// The interfaces below are the slices of *jupiter.Client each service needs.

// QuoteAPI fetches swap quotes.
type QuoteAPI interface {
	GetQuote(ctx context.Context, p jupiter.QuoteParams) (jupiter.APIQuote, error)
}

// SwapAPI is the upstream surface used by SwapService.
type SwapAPI interface {
	QuoteAPI
	BuildSwap(ctx context.Context, p jupiter.SwapParams) (jupiter.APISwap, error)
	GetSwapHistory(ctx context.Context, userPublicKey string, limit, offset int) (jupiter.APISwapHistory, error)
	GetSwapStatus(ctx context.Context, id string) (jupiter.APISwapRecord, error)
}

// TokenAPI is the upstream surface used by TokenService.
type TokenAPI interface {
	GetToken(ctx context.Context, mint string) (jupiter.APIToken, error)
	ListTokens(ctx context.Context, p jupiter.TokenListParams) (jupiter.APITokenList, error)
}

// PriceAPI is the upstream surface used by PriceService.
type PriceAPI interface {
	GetPrice(ctx context.Context, inputMint, outputMint string) (jupiter.APIPrice, error)
	GetPrices(ctx context.Context, pairs []jupiter.APIPricePair) (jupiter.APIPriceBatch, error)
}

// RecurringAPI is the upstream surface used by RecurringService.
type RecurringAPI interface {
	QuoteAPI
	CreateRecurring(ctx context.Context, p jupiter.CreateRecurringParams) (jupiter.APIRecurring, error)
	ListRecurring(ctx context.Context, p jupiter.OrderListParams) (jupiter.APIRecurringList, error)
	UpdateRecurring(ctx context.Context, id string, p jupiter.UpdateRecurringParams) (jupiter.APIRecurring, error)
	CancelRecurring(ctx context.Context, id string) (jupiter.APIRecurring, error)
}

// TriggerAPI is the upstream surface used by TriggerService.
type TriggerAPI interface {
	QuoteAPI
	CreateTrigger(ctx context.Context, p jupiter.CreateTriggerParams) (jupiter.APITrigger, error)
	ListTriggers(ctx context.Context, p jupiter.OrderListParams) (jupiter.APITriggerList, error)
	UpdateTrigger(ctx context.Context, id string, p jupiter.UpdateTriggerParams) (jupiter.APITrigger, error)
	CancelTrigger(ctx context.Context, id string) (jupiter.APITrigger, error)
}

var (
	_ SwapAPI      = (*jupiter.Client)(nil)
	_ TokenAPI     = (*jupiter.Client)(nil)
	_ PriceAPI     = (*jupiter.Client)(nil)
	_ RecurringAPI = (*jupiter.Client)(nil)
	_ TriggerAPI   = (*jupiter.Client)(nil)
)
