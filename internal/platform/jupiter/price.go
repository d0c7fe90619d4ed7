package jupiter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// GetPrice returns the price of one unit of inputMint in outputMint.
func (c *Client) GetPrice(ctx context.Context, inputMint, outputMint string) (APIPrice, error) {
	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)

	body, err := c.doGet(ctx, "/price?"+params.Encode())
	if err != nil {
		return APIPrice{}, fmt.Errorf("jupiter: get price %s/%s: %w", inputMint, outputMint, err)
	}
	price, err := decode[APIPrice](body, "price")
	if err != nil {
		return APIPrice{}, fmt.Errorf("jupiter: get price %s/%s: %w", inputMint, outputMint, err)
	}
	return price, nil
}

// GetPrices returns prices for several pairs in one call. The batch endpoint
// is a read, so it is sent as a POST without retries.
func (c *Client) GetPrices(ctx context.Context, pairs []APIPricePair) (APIPriceBatch, error) {
	reqBody := struct {
		Pairs []APIPricePair `json:"pairs"`
	}{Pairs: pairs}

	body, err := c.doJSON(ctx, http.MethodPost, "/price/batch", reqBody)
	if err != nil {
		return APIPriceBatch{}, fmt.Errorf("jupiter: get prices: %w", err)
	}
	batch, err := decode[APIPriceBatch](body, "price batch")
	if err != nil {
		return APIPriceBatch{}, fmt.Errorf("jupiter: get prices: %w", err)
	}
	return batch, nil
}
