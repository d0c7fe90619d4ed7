package handler

import (
	"net/http"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

// LegacyHandler serves the older /swap and /price?tokenA=&tokenB= routes on
// top of the current services.
type LegacyHandler struct {
	base
	swaps  SwapService
	tokens TokenService
	prices PriceService
}

// NewLegacyHandler creates a LegacyHandler.
func NewLegacyHandler(swaps SwapService, tokens TokenService, prices PriceService, opts Options) *LegacyHandler {
	return &LegacyHandler{base: newBase(opts), swaps: swaps, tokens: tokens, prices: prices}
}

// Tokens lists tokens.
// GET /swap/tokens
func (h *LegacyHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	serveTokenList(&h.base, h.tokens, w, r, "swap tokens")
}

// Transactions lists a wallet's swaps.
// GET /swap/transactions?userPublicKey=...&limit=10&offset=0
func (h *LegacyHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	serveHistory(&h.base, h.swaps, w, r, "swap transactions")
}

type legacyPriceResponse struct {
	TokenA    string    `json:"tokenA"`
	TokenB    string    `json:"tokenB"`
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Price returns the price of tokenA in tokenB.
// GET /price?tokenA=...&tokenB=...
func (h *LegacyHandler) Price(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pair := domain.PricePair{InputToken: q.Get("tokenA"), OutputToken: q.Get("tokenB")}
	if pair.InputToken == "" || pair.OutputToken == "" {
		invalid(w, "Both tokenA and tokenB are required")
		return
	}
	if err := checkTokenPair(pair.InputToken, pair.OutputToken); err != nil {
		h.fail(w, r, "legacy price", err, "")
		return
	}

	p, err := h.prices.Get(r.Context(), pair)
	if err != nil {
		h.fail(w, r, "legacy price", err, "Price not available")
		return
	}
	writeJSON(w, http.StatusOK, legacyPriceResponse{
		TokenA:    p.InputToken,
		TokenB:    p.OutputToken,
		Price:     p.Price,
		Timestamp: p.Timestamp,
	})
}
