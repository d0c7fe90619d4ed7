package handler

import (
	"context"
	"net/http"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// defaultSlippageBps applies when a quote or swap omits slippage.
const defaultSlippageBps = 50

// SwapService defines the swap operations the ultra and legacy swap handlers
// need from the service layer.
type SwapService interface {
	Quote(ctx context.Context, req domain.QuoteRequest) (domain.Quote, error)
	Swap(ctx context.Context, req domain.SwapRequest) (domain.SwapTransaction, error)
	History(ctx context.Context, userPublicKey string, opts domain.ListOpts) (domain.SwapHistory, error)
	Status(ctx context.Context, id string) (domain.SwapRecord, error)
}

// UltraHandler serves the /ultra quote and swap endpoints.
type UltraHandler struct {
	base
	swaps SwapService
}

// NewUltraHandler creates an UltraHandler.
func NewUltraHandler(swaps SwapService, opts Options) *UltraHandler {
	return &UltraHandler{base: newBase(opts), swaps: swaps}
}

type quoteRequest struct {
	InputToken  string   `json:"inputToken" validate:"required"`
	OutputToken string   `json:"outputToken" validate:"required"`
	Amount      Numeric  `json:"amount" validate:"required"`
	Slippage    *Numeric `json:"slippage"`
}

type swapRequest struct {
	quoteRequest
	UserPublicKey string `json:"userPublicKey" validate:"required"`
	WrapUnwrapSOL *bool  `json:"wrapUnwrapSOL"`
}

// check validates the quote fields in order: token formats, amount, then
// slippage.
func (q *quoteRequest) check() (domain.QuoteRequest, error) {
	if err := firstErr(checkTokenPair(q.InputToken, q.OutputToken), checkAmount(q.Amount)); err != nil {
		return domain.QuoteRequest{}, err
	}

	bps := defaultSlippageBps
	if q.Slippage != nil && q.Slippage.String() != "" {
		if !validate.IsPercentage(q.Slippage.String()) {
			return domain.QuoteRequest{}, domain.Validation("Slippage must be a number between 0 and 100")
		}
		n, err := validate.SlippageBps(q.Slippage.String())
		if err != nil {
			return domain.QuoteRequest{}, domain.Validation("Slippage must be a number between 0 and 100")
		}
		bps = n
	}

	return domain.QuoteRequest{
		InputToken:  q.InputToken,
		OutputToken: q.OutputToken,
		Amount:      q.Amount.String(),
		SlippageBps: bps,
	}, nil
}

// Quote returns a swap quote.
// POST /ultra/quote
func (h *UltraHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "quote", err, "")
		return
	}
	if err := h.v.Required(req); err != nil {
		h.fail(w, r, "quote", err, "")
		return
	}
	qr, err := req.check()
	if err != nil {
		h.fail(w, r, "quote", err, "")
		return
	}

	quote, err := h.swaps.Quote(r.Context(), qr)
	if err != nil {
		h.fail(w, r, "quote", err, "Quote not available")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Swap quotes and builds an unsigned swap transaction.
// POST /ultra/swap
func (h *UltraHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "swap", err, "")
		return
	}
	if err := h.v.Required(req); err != nil {
		h.fail(w, r, "swap", err, "")
		return
	}
	qr, err := req.check()
	if err == nil {
		err = checkPublicKey(req.UserPublicKey)
	}
	if err != nil {
		h.fail(w, r, "swap", err, "")
		return
	}

	wrap := true
	if req.WrapUnwrapSOL != nil {
		wrap = *req.WrapUnwrapSOL
	}

	tx, err := h.swaps.Swap(r.Context(), domain.SwapRequest{
		QuoteRequest:  qr,
		UserPublicKey: req.UserPublicKey,
		WrapUnwrapSOL: wrap,
	})
	if err != nil {
		h.fail(w, r, "swap", err, "Quote not available")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// History lists a wallet's swaps.
// GET /ultra/history?userPublicKey=...&limit=10&offset=0
func (h *UltraHandler) History(w http.ResponseWriter, r *http.Request) {
	serveHistory(&h.base, h.swaps, w, r, "ultra history")
}

// serveHistory is shared with the legacy /swap/transactions route.
func serveHistory(b *base, swaps SwapService, w http.ResponseWriter, r *http.Request, op string) {
	user := r.URL.Query().Get("userPublicKey")
	if user == "" {
		invalid(w, "Missing user public key")
		return
	}
	if err := checkPublicKey(user); err != nil {
		b.fail(w, r, op, err, "")
		return
	}
	opts, err := parseListOpts(r, defaultListLimit)
	if err != nil {
		b.fail(w, r, op, err, "")
		return
	}

	history, err := swaps.History(r.Context(), user, opts)
	if err != nil {
		b.fail(w, r, op, err, "")
		return
	}
	if history.Swaps == nil {
		history.Swaps = []domain.SwapRecord{}
	}
	writeJSON(w, http.StatusOK, history)
}

// Status returns one swap.
// GET /ultra/status/{swapId}
func (h *UltraHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "swapId")
	if id == "" {
		invalid(w, "Missing swap ID")
		return
	}

	rec, err := h.swaps.Status(r.Context(), id)
	if err != nil {
		h.fail(w, r, "swap status", err, "Swap not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
