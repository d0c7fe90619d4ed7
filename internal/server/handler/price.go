package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// maxBatchPairs caps the number of pairs in one batch price request.
const maxBatchPairs = 100

// PriceService defines the price lookups the price handler needs.
type PriceService interface {
	Get(ctx context.Context, pair domain.PricePair) (domain.Price, error)
	Batch(ctx context.Context, pairs []domain.PricePair) ([]domain.Price, error)
}

// PriceHandler serves pair price endpoints.
type PriceHandler struct {
	base
	prices PriceService
}

// NewPriceHandler creates a PriceHandler.
func NewPriceHandler(prices PriceService, opts Options) *PriceHandler {
	return &PriceHandler{base: newBase(opts), prices: prices}
}

// Get returns the price of one pair.
// GET /price/{inputToken}/{outputToken}
func (h *PriceHandler) Get(w http.ResponseWriter, r *http.Request) {
	pair := domain.PricePair{
		InputToken:  pathParam(r, "inputToken"),
		OutputToken: pathParam(r, "outputToken"),
	}
	if err := checkTokenPair(pair.InputToken, pair.OutputToken); err != nil {
		h.fail(w, r, "price", err, "")
		return
	}

	price, err := h.prices.Get(r.Context(), pair)
	if err != nil {
		h.fail(w, r, "price", err, "Price not available")
		return
	}
	writeJSON(w, http.StatusOK, price)
}

type batchPriceRequest struct {
	Pairs json.RawMessage `json:"pairs"`
}

type batchPair struct {
	InputToken  *string `json:"inputToken"`
	OutputToken *string `json:"outputToken"`
}

type batchPriceResponse struct {
	Prices []domain.Price `json:"prices"`
}

// Batch returns prices for up to maxBatchPairs pairs. Pairs without a price
// are omitted from the response.
// POST /price/batch
func (h *PriceHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchPriceRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "price batch", err, "")
		return
	}
	pairs, err := parseBatchPairs(req.Pairs)
	if err != nil {
		h.fail(w, r, "price batch", err, "")
		return
	}

	prices, err := h.prices.Batch(r.Context(), pairs)
	if err != nil {
		h.fail(w, r, "price batch", err, "")
		return
	}
	if prices == nil {
		prices = []domain.Price{}
	}
	writeJSON(w, http.StatusOK, batchPriceResponse{Prices: prices})
}

// parseBatchPairs checks, in order: array shape, size bounds, each element's
// presence and format, then duplicates by "input:output" key.
func parseBatchPairs(raw json.RawMessage) ([]domain.PricePair, error) {
	var elems []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &elems) != nil || elems == nil {
		return nil, domain.Validation("Pairs must be an array")
	}
	if len(elems) == 0 {
		return nil, domain.Validation("Pairs array cannot be empty")
	}
	if len(elems) > maxBatchPairs {
		return nil, domain.Validation(fmt.Sprintf("Maximum %d pairs allowed per request", maxBatchPairs))
	}

	pairs := make([]domain.PricePair, 0, len(elems))
	for i, elem := range elems {
		var bp batchPair
		if err := json.Unmarshal(elem, &bp); err != nil || bp.InputToken == nil || bp.OutputToken == nil ||
			*bp.InputToken == "" || *bp.OutputToken == "" {
			return nil, domain.Validation(fmt.Sprintf("Missing inputToken or outputToken at index %d", i))
		}
		if !validate.IsTokenAddress(*bp.InputToken) {
			return nil, domain.Validation(fmt.Sprintf("Invalid input token address format at index %d", i))
		}
		if !validate.IsTokenAddress(*bp.OutputToken) {
			return nil, domain.Validation(fmt.Sprintf("Invalid output token address format at index %d", i))
		}
		pairs = append(pairs, domain.PricePair{InputToken: *bp.InputToken, OutputToken: *bp.OutputToken})
	}

	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		if _, dup := seen[p.Key()]; dup {
			return nil, domain.Validation("Duplicate pairs are not allowed")
		}
		seen[p.Key()] = struct{}{}
	}
	return pairs, nil
}
