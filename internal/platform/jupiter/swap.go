package jupiter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// GetQuote fetches a swap quote. The returned quote keeps the raw response
// body so it can be passed to BuildSwap or an order creation call.
func (c *Client) GetQuote(ctx context.Context, p QuoteParams) (APIQuote, error) {
	params := url.Values{}
	params.Set("inputMint", p.InputMint)
	params.Set("outputMint", p.OutputMint)
	params.Set("amount", p.Amount)
	params.Set("slippageBps", strconv.Itoa(p.SlippageBps))
	if p.SwapMode != "" {
		params.Set("swapMode", p.SwapMode)
	}

	body, err := c.doGet(ctx, "/quote?"+params.Encode())
	if err != nil {
		return APIQuote{}, fmt.Errorf("jupiter: get quote: %w", err)
	}

	quote, err := decode[APIQuote](body, "quote")
	if err != nil {
		return APIQuote{}, fmt.Errorf("jupiter: get quote: %w", err)
	}
	quote.Raw = body
	return quote, nil
}

// BuildSwap requests an unsigned swap transaction for a previously fetched
// quote.
func (c *Client) BuildSwap(ctx context.Context, p SwapParams) (APISwap, error) {
	body, err := c.doJSON(ctx, http.MethodPost, "/swap", p)
	if err != nil {
		return APISwap{}, fmt.Errorf("jupiter: build swap: %w", err)
	}
	swap, err := decode[APISwap](body, "swap")
	if err != nil {
		return APISwap{}, fmt.Errorf("jupiter: build swap: %w", err)
	}
	return swap, nil
}

// GetSwapHistory returns the swaps made by a wallet.
func (c *Client) GetSwapHistory(ctx context.Context, userPublicKey string, limit, offset int) (APISwapHistory, error) {
	params := url.Values{}
	params.Set("userPublicKey", userPublicKey)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	body, err := c.doGet(ctx, "/swap/history?"+params.Encode())
	if err != nil {
		return APISwapHistory{}, fmt.Errorf("jupiter: get swap history: %w", err)
	}
	history, err := decode[APISwapHistory](body, "swap history")
	if err != nil {
		return APISwapHistory{}, fmt.Errorf("jupiter: get swap history: %w", err)
	}
	return history, nil
}

// GetSwapStatus returns a single swap by ID.
func (c *Client) GetSwapStatus(ctx context.Context, id string) (APISwapRecord, error) {
	body, err := c.doGet(ctx, "/swap/status/"+url.PathEscape(id))
	if err != nil {
		return APISwapRecord{}, fmt.Errorf("jupiter: get swap status %s: %w", id, err)
	}
	rec, err := decode[APISwapRecord](body, "swap status")
	if err != nil {
		return APISwapRecord{}, fmt.Errorf("jupiter: get swap status %s: %w", id, err)
	}
	return rec, nil
}
