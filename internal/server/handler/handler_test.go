package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

const (
	solMint  = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	wallet   = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

var fixedNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testOpts(dev bool) Options {
	return Options{DevMode: dev, Now: func() time.Time { return fixedNow }}
}

// serve registers h under pattern on a fresh mux and performs one request.
func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	assert.Equal(t, "error", e.Status)
	return e
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeSwaps struct {
	quoteReq domain.QuoteRequest
	swapReq  domain.SwapRequest
	histUser string
	histOpts domain.ListOpts
	err      error
	calls    int
}

func (f *fakeSwaps) Quote(_ context.Context, req domain.QuoteRequest) (domain.Quote, error) {
	f.calls++
	f.quoteReq = req
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return domain.Quote{InputToken: req.InputToken, OutputToken: req.OutputToken, Amount: req.Amount,
		EstimatedOutput: "150", Price: "1.5", PriceImpact: "0", SlippageBps: req.SlippageBps}, nil
}

func (f *fakeSwaps) Swap(_ context.Context, req domain.SwapRequest) (domain.SwapTransaction, error) {
	f.calls++
	f.swapReq = req
	if f.err != nil {
		return domain.SwapTransaction{}, f.err
	}
	return domain.SwapTransaction{Transaction: "AQID", Status: "pending", UserPublicKey: req.UserPublicKey}, nil
}

func (f *fakeSwaps) History(_ context.Context, user string, opts domain.ListOpts) (domain.SwapHistory, error) {
	f.calls++
	f.histUser, f.histOpts = user, opts
	if f.err != nil {
		return domain.SwapHistory{}, f.err
	}
	return domain.SwapHistory{Pagination: domain.Pagination{Limit: opts.Limit, Offset: opts.Offset}}, nil
}

func (f *fakeSwaps) Status(_ context.Context, id string) (domain.SwapRecord, error) {
	f.calls++
	if f.err != nil {
		return domain.SwapRecord{}, f.err
	}
	return domain.SwapRecord{ID: id, Status: "success"}, nil
}

type fakeTokens struct {
	opts domain.TokenListOpts
	err  error
}

func (f *fakeTokens) Get(_ context.Context, addr string) (domain.Token, error) {
	if f.err != nil {
		return domain.Token{}, f.err
	}
	return domain.Token{Address: addr, Symbol: "SOL", Decimals: 9, Tags: []string{}}, nil
}

func (f *fakeTokens) List(_ context.Context, opts domain.TokenListOpts) (domain.TokenList, error) {
	f.opts = opts
	if f.err != nil {
		return domain.TokenList{}, f.err
	}
	return domain.TokenList{Pagination: domain.Pagination{Limit: opts.Limit, Offset: opts.Offset}}, nil
}

type fakePrices struct {
	batch []domain.PricePair
	err   error
}

func (f *fakePrices) Get(_ context.Context, pair domain.PricePair) (domain.Price, error) {
	if f.err != nil {
		return domain.Price{}, f.err
	}
	return domain.Price{InputToken: pair.InputToken, OutputToken: pair.OutputToken, Price: "150.25", Timestamp: fixedNow}, nil
}

func (f *fakePrices) Batch(_ context.Context, pairs []domain.PricePair) ([]domain.Price, error) {
	f.batch = pairs
	if f.err != nil {
		return nil, f.err
	}
	return []domain.Price{{InputToken: pairs[0].InputToken, OutputToken: pairs[0].OutputToken, Price: "1"}}, nil
}

type fakeRecurring struct {
	create    domain.CreateRecurringRequest
	update    domain.UpdateRecurringRequest
	list      domain.OrderListOpts
	cancelled string
	err       error
	calls     int
}

func (f *fakeRecurring) Create(_ context.Context, req domain.CreateRecurringRequest) (domain.RecurringPayment, error) {
	f.calls++
	f.create = req
	return domain.RecurringPayment{ID: "r1", Status: domain.RecurringActive, Frequency: req.Frequency}, f.err
}

func (f *fakeRecurring) List(_ context.Context, opts domain.OrderListOpts) (domain.RecurringList, error) {
	f.calls++
	f.list = opts
	return domain.RecurringList{}, f.err
}

func (f *fakeRecurring) Update(_ context.Context, req domain.UpdateRecurringRequest) (domain.RecurringPayment, error) {
	f.calls++
	f.update = req
	return domain.RecurringPayment{ID: req.ID}, f.err
}

func (f *fakeRecurring) Cancel(_ context.Context, id string) (domain.RecurringPayment, error) {
	f.calls++
	f.cancelled = id
	return domain.RecurringPayment{ID: id, Status: domain.RecurringCancelled}, f.err
}

type fakeTriggers struct {
	create domain.CreateTriggerRequest
	update domain.UpdateTriggerRequest
	err    error
	calls  int
}

func (f *fakeTriggers) Create(_ context.Context, req domain.CreateTriggerRequest) (domain.TriggerOrder, error) {
	f.calls++
	f.create = req
	return domain.TriggerOrder{ID: "t1", TriggerType: req.TriggerType}, f.err
}

func (f *fakeTriggers) List(_ context.Context, _ domain.OrderListOpts) (domain.TriggerList, error) {
	f.calls++
	return domain.TriggerList{}, f.err
}

func (f *fakeTriggers) Update(_ context.Context, req domain.UpdateTriggerRequest) (domain.TriggerOrder, error) {
	f.calls++
	f.update = req
	return domain.TriggerOrder{ID: req.ID}, f.err
}

func (f *fakeTriggers) Cancel(_ context.Context, id string) (domain.TriggerOrder, error) {
	f.calls++
	return domain.TriggerOrder{ID: id, Status: domain.TriggerCancelled}, f.err
}

// ---------------------------------------------------------------------------
// Ultra
// ---------------------------------------------------------------------------

func TestQuote(t *testing.T) {
	swaps := &fakeSwaps{}
	h := NewUltraHandler(swaps, testOpts(false))

	body := fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"1000000000","slippage":1}`, solMint, usdcMint)
	rec := serve(t, "POST /ultra/quote", h.Quote, http.MethodPost, "/ultra/quote", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var q domain.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, "150", q.EstimatedOutput)
	assert.Equal(t, 100, swaps.quoteReq.SlippageBps)
}

func TestQuoteValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing fields", `{"inputToken":"` + solMint + `"}`, "Missing required parameters: outputToken, amount"},
		{"empty body", ``, "Missing required parameters: inputToken, outputToken, amount"},
		{"malformed", `{"inputToken":`, "Invalid request body"},
		{"bad input", `{"inputToken":"0OIl","outputToken":"` + usdcMint + `","amount":"1"}`, "Invalid input token address format"},
		{"bad output", `{"inputToken":"` + solMint + `","outputToken":"short","amount":"1"}`, "Invalid output token address format"},
		{"zero amount", `{"inputToken":"` + solMint + `","outputToken":"` + usdcMint + `","amount":0}`, "Amount must be a positive number"},
		{"amount not numeric", `{"inputToken":"` + solMint + `","outputToken":"` + usdcMint + `","amount":true}`, "Amount must be a positive number"},
		{"slippage 101", `{"inputToken":"` + solMint + `","outputToken":"` + usdcMint + `","amount":"1","slippage":101}`, "Slippage must be a number between 0 and 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swaps := &fakeSwaps{}
			h := NewUltraHandler(swaps, testOpts(false))
			rec := serve(t, "POST /ultra/quote", h.Quote, http.MethodPost, "/ultra/quote", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec).Message)
			assert.Zero(t, swaps.calls)
		})
	}
}

func TestServiceErrorMasking(t *testing.T) {
	body := fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"1"}`, solMint, usdcMint)
	failing := errors.New("boom")

	t.Run("production", func(t *testing.T) {
		h := NewUltraHandler(&fakeSwaps{err: domain.Service("Service error", http.StatusInternalServerError, failing)}, testOpts(false))
		rec := serve(t, "POST /ultra/quote", h.Quote, http.MethodPost, "/ultra/quote", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, genericErrorMessage, decodeError(t, rec).Message)
	})
	t.Run("development", func(t *testing.T) {
		h := NewUltraHandler(&fakeSwaps{err: domain.Service("Service error", http.StatusInternalServerError, failing)}, testOpts(true))
		rec := serve(t, "POST /ultra/quote", h.Quote, http.MethodPost, "/ultra/quote", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Service error", decodeError(t, rec).Message)
	})
	t.Run("upstream status preserved", func(t *testing.T) {
		h := NewUltraHandler(&fakeSwaps{err: domain.Service("No route", http.StatusBadRequest, failing)}, testOpts(false))
		rec := serve(t, "POST /ultra/quote", h.Quote, http.MethodPost, "/ultra/quote", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "No route", decodeError(t, rec).Message)
	})
	t.Run("unclassified error", func(t *testing.T) {
		h := NewUltraHandler(&fakeSwaps{err: failing}, testOpts(false))
		rec := serve(t, "POST /ultra/quote", h.Quote, http.MethodPost, "/ultra/quote", body)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestSwap(t *testing.T) {
	swaps := &fakeSwaps{}
	h := NewUltraHandler(swaps, testOpts(false))

	body := fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"5","userPublicKey":%q}`, solMint, usdcMint, wallet)
	rec := serve(t, "POST /ultra/swap", h.Swap, http.MethodPost, "/ultra/swap", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, swaps.swapReq.WrapUnwrapSOL)
	assert.Equal(t, defaultSlippageBps, swaps.swapReq.SlippageBps)

	body = fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"5","userPublicKey":%q,"wrapUnwrapSOL":false}`, solMint, usdcMint, wallet)
	rec = serve(t, "POST /ultra/swap", h.Swap, http.MethodPost, "/ultra/swap", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, swaps.swapReq.WrapUnwrapSOL)

	body = fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"5","userPublicKey":"not-a-key"}`, solMint, usdcMint)
	rec = serve(t, "POST /ultra/swap", h.Swap, http.MethodPost, "/ultra/swap", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid Solana public key format", decodeError(t, rec).Message)
}

func TestHistory(t *testing.T) {
	swaps := &fakeSwaps{}
	h := NewUltraHandler(swaps, testOpts(false))

	rec := serve(t, "GET /ultra/history", h.History, http.MethodGet, "/ultra/history?userPublicKey="+wallet+"&limit=20&offset=40", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ListOpts{Limit: 20, Offset: 40}, swaps.histOpts)
	assert.JSONEq(t, `{"swaps":[],"pagination":{"limit":20,"offset":40,"total":0}}`, rec.Body.String())

	rec = serve(t, "GET /ultra/history", h.History, http.MethodGet, "/ultra/history?userPublicKey="+wallet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.ListOpts{Limit: defaultListLimit}, swaps.histOpts)

	page := "/ultra/history?userPublicKey=" + wallet
	for target, want := range map[string]string{
		"/ultra/history":                   "Missing user public key",
		"/ultra/history?userPublicKey=bad": "Invalid Solana public key format",
		page + "&limit=0":                  "Limit and offset must be positive numbers",
		page + "&limit=101":                "Limit and offset must be positive numbers",
		page + "&offset=-1":                "Limit and offset must be positive numbers",
		page + "&limit=x":                  "Limit and offset must be positive numbers",
	} {
		rec := serve(t, "GET /ultra/history", h.History, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, want, decodeError(t, rec).Message, target)
	}
}

func TestStatusNotFound(t *testing.T) {
	h := NewUltraHandler(&fakeSwaps{err: fmt.Errorf("wrapped: %w", domain.ErrNotFound)}, testOpts(false))
	rec := serve(t, "GET /ultra/status/{swapId}", h.Status, http.MethodGet, "/ultra/status/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Swap not found", decodeError(t, rec).Message)
}

// ---------------------------------------------------------------------------
// Token
// ---------------------------------------------------------------------------

func TestTokenInfo(t *testing.T) {
	h := NewTokenHandler(&fakeTokens{}, testOpts(false))
	rec := serve(t, "GET /token/info/{tokenAddress}", h.Info, http.MethodGet, "/token/info/"+solMint, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbol":"SOL"`)

	rec = serve(t, "GET /token/info/{tokenAddress}", h.Info, http.MethodGet, "/token/info/bad0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid token address format", decodeError(t, rec).Message)

	h = NewTokenHandler(&fakeTokens{err: domain.ErrNotFound}, testOpts(false))
	rec = serve(t, "GET /token/info/{tokenAddress}", h.Info, http.MethodGet, "/token/info/"+solMint, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Token not found", decodeError(t, rec).Message)
}

func TestTokenList(t *testing.T) {
	tokens := &fakeTokens{}
	h := NewTokenHandler(tokens, testOpts(false))

	rec := serve(t, "GET /token/list", h.List, http.MethodGet, "/token/list?search=sol&tags=verified,%20lst,&verified=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultTokenListLimit, tokens.opts.Limit)
	assert.Equal(t, "sol", tokens.opts.Search)
	assert.Equal(t, []string{"verified", "lst"}, tokens.opts.Tags)
	require.NotNil(t, tokens.opts.Verified)
	assert.True(t, *tokens.opts.Verified)
	assert.Contains(t, rec.Body.String(), `"tokens":[]`)

	rec = serve(t, "GET /token/list", h.List, http.MethodGet, "/token/list?verified=yes", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Verified must be true or false", decodeError(t, rec).Message)
}

// ---------------------------------------------------------------------------
// Price
// ---------------------------------------------------------------------------

func TestPriceGet(t *testing.T) {
	h := NewPriceHandler(&fakePrices{}, testOpts(false))
	rec := serve(t, "GET /price/{inputToken}/{outputToken}", h.Get, http.MethodGet, "/price/"+solMint+"/"+usdcMint, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":"150.25"`)

	h = NewPriceHandler(&fakePrices{err: domain.ErrNotFound}, testOpts(false))
	rec = serve(t, "GET /price/{inputToken}/{outputToken}", h.Get, http.MethodGet, "/price/"+solMint+"/"+usdcMint, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Price not available", decodeError(t, rec).Message)

	rec = serve(t, "GET /price/{inputToken}/{outputToken}", h.Get, http.MethodGet, "/price/"+solMint+"/xyz", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid output token address format", decodeError(t, rec).Message)
}

func pairsJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"inputToken":%q,"outputToken":%q}`, solMint, usdcMint)
	}
	return `{"pairs":[` + strings.Join(parts, ",") + `]}`
}

func TestPriceBatch(t *testing.T) {
	prices := &fakePrices{}
	h := NewPriceHandler(prices, testOpts(false))

	body := fmt.Sprintf(`{"pairs":[{"inputToken":%q,"outputToken":%q},{"inputToken":%q,"outputToken":%q}]}`,
		solMint, usdcMint, usdcMint, solMint)
	rec := serve(t, "POST /price/batch", h.Batch, http.MethodPost, "/price/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, prices.batch, 2)
	assert.Equal(t, usdcMint, prices.batch[1].InputToken)
	assert.Contains(t, rec.Body.String(), `"prices":[`)
}

func TestPriceBatchValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing", `{}`, "Pairs must be an array"},
		{"object", `{"pairs":{}}`, "Pairs must be an array"},
		{"null", `{"pairs":null}`, "Pairs must be an array"},
		{"empty", `{"pairs":[]}`, "Pairs array cannot be empty"},
		{"too many", pairsJSON(101), "Maximum 100 pairs allowed per request"},
		{"duplicates", pairsJSON(2), "Duplicate pairs are not allowed"},
		{"missing element field", `{"pairs":[{"inputToken":"` + solMint + `","outputToken":"` + usdcMint + `"},{"inputToken":"` + solMint + `"}]}`,
			"Missing inputToken or outputToken at index 1"},
		{"non-object element", `{"pairs":[7]}`, "Missing inputToken or outputToken at index 0"},
		{"bad input", `{"pairs":[{"inputToken":"bad","outputToken":"` + usdcMint + `"}]}`, "Invalid input token address format at index 0"},
		{"bad output", `{"pairs":[{"inputToken":"` + solMint + `","outputToken":"bad"}]}`, "Invalid output token address format at index 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := &fakePrices{}
			h := NewPriceHandler(prices, testOpts(false))
			rec := serve(t, "POST /price/batch", h.Batch, http.MethodPost, "/price/batch", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec).Message)
			assert.Nil(t, prices.batch)
		})
	}
}

func TestPriceBatchAtLimit(t *testing.T) {
	parts := make([]string, maxBatchPairs)
	for i := range parts {
		// Vary the output mint so every pair is distinct.
		out := usdcMint[:len(usdcMint)-2] + string("123456789ABCDEFGHJKLMNPQRSTUVWXYZ"[i%33]) + string("abcdefghijk"[i/33])
		parts[i] = fmt.Sprintf(`{"inputToken":%q,"outputToken":%q}`, solMint, out)
	}
	prices := &fakePrices{}
	h := NewPriceHandler(prices, testOpts(false))
	rec := serve(t, "POST /price/batch", h.Batch, http.MethodPost, "/price/batch", `{"pairs":[`+strings.Join(parts, ",")+`]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, prices.batch, maxBatchPairs)
}

// ---------------------------------------------------------------------------
// Legacy
// ---------------------------------------------------------------------------

func TestLegacyPrice(t *testing.T) {
	h := NewLegacyHandler(&fakeSwaps{}, &fakeTokens{}, &fakePrices{}, testOpts(false))

	rec := serve(t, "GET /price", h.Price, http.MethodGet, "/price?tokenA="+solMint+"&tokenB="+usdcMint, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"tokenA":%q,"tokenB":%q,"price":"150.25","timestamp":"2026-06-01T12:00:00Z"}`, solMint, usdcMint),
		rec.Body.String())

	rec = serve(t, "GET /price", h.Price, http.MethodGet, "/price?tokenA="+solMint, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Both tokenA and tokenB are required", decodeError(t, rec).Message)
}

func TestLegacySwapRoutes(t *testing.T) {
	swaps, tokens := &fakeSwaps{}, &fakeTokens{}
	h := NewLegacyHandler(swaps, tokens, &fakePrices{}, testOpts(false))

	rec := serve(t, "GET /swap/tokens", h.Tokens, http.MethodGet, "/swap/tokens?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, tokens.opts.Limit)

	rec = serve(t, "GET /swap/transactions", h.Transactions, http.MethodGet, "/swap/transactions?userPublicKey="+wallet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, wallet, swaps.histUser)
}

// ---------------------------------------------------------------------------
// Recurring
// ---------------------------------------------------------------------------

func recurringBody(extra string) string {
	return fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"10","frequency":"weekly","userPublicKey":%q%s}`,
		usdcMint, solMint, wallet, extra)
}

func TestRecurringCreate(t *testing.T) {
	payments := &fakeRecurring{}
	h := NewRecurringHandler(payments, testOpts(false))

	rec := serve(t, "POST /recurring/create", h.Create, http.MethodPost, "/recurring/create",
		recurringBody(`,"startDate":"2026-07-01","endDate":"2026-12-31T00:00:00Z"`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.FrequencyWeekly, payments.create.Frequency)
	require.NotNil(t, payments.create.StartDate)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), *payments.create.StartDate)
}

func TestRecurringCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing", `{"inputToken":"` + usdcMint + `"}`, "Missing required parameters: outputToken, amount, frequency, userPublicKey"},
		{"bad start", recurringBody(`,"startDate":"soon"`), "Invalid start date format"},
		{"bad end", recurringBody(`,"endDate":"2026-13-45"`), "Invalid end date format"},
		{"start after end", recurringBody(`,"startDate":"2026-12-31","endDate":"2026-07-01"`), "Start date must be before end date"},
		{"start equals end", recurringBody(`,"startDate":"2026-07-01","endDate":"2026-07-01"`), "Start date must be before end date"},
		{"bad frequency", strings.Replace(recurringBody(""), "weekly", "hourly", 1), "Invalid frequency. Must be one of: daily, weekly, monthly"},
		{"bad key", strings.Replace(recurringBody(""), wallet, "nope", 1), "Invalid Solana public key format"},
		// Date range errors win over other invalid fields.
		{"range before format", `{"inputToken":"x","outputToken":"y","amount":"-1","frequency":"never","userPublicKey":"z",` +
			`"startDate":"2026-12-31","endDate":"2026-01-01"}`, "Start date must be before end date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &fakeRecurring{}
			h := NewRecurringHandler(payments, testOpts(false))
			rec := serve(t, "POST /recurring/create", h.Create, http.MethodPost, "/recurring/create", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec).Message)
			assert.Zero(t, payments.calls)
		})
	}
}

func TestRecurringList(t *testing.T) {
	payments := &fakeRecurring{}
	h := NewRecurringHandler(payments, testOpts(false))

	rec := serve(t, "GET /recurring/list", h.List, http.MethodGet, "/recurring/list?userPublicKey="+wallet+"&status=completed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", payments.list.Status)
	assert.Contains(t, rec.Body.String(), `"payments":[]`)

	rec = serve(t, "GET /recurring/list", h.List, http.MethodGet, "/recurring/list?userPublicKey="+wallet+"&status=triggered", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid status value. Must be one of: active, completed, cancelled", decodeError(t, rec).Message)
}

func TestRecurringListByWallet(t *testing.T) {
	payments := &fakeRecurring{}
	h := NewRecurringHandler(payments, testOpts(false))

	rec := serve(t, "GET /recurring/list/{walletAddress}", h.ListByWallet, http.MethodGet, "/recurring/list/"+wallet+"?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, wallet, payments.list.UserPublicKey)
	assert.Equal(t, 5, payments.list.Limit)

	rec = serve(t, "GET /recurring/list/{walletAddress}", h.ListByWallet, http.MethodGet, "/recurring/list/not-a-key", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, payments.calls)
}

func TestRecurringCancelByBody(t *testing.T) {
	payments := &fakeRecurring{}
	h := NewRecurringHandler(payments, testOpts(false))

	rec := serve(t, "POST /recurring/cancel", h.CancelByBody, http.MethodPost, "/recurring/cancel", `{"paymentId":"r7"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "r7", payments.cancelled)

	rec = serve(t, "POST /recurring/cancel", h.CancelByBody, http.MethodPost, "/recurring/cancel", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing payment ID", decodeError(t, rec).Message)
	assert.Equal(t, 1, payments.calls)
}

func TestRecurringUpdate(t *testing.T) {
	payments := &fakeRecurring{}
	h := NewRecurringHandler(payments, testOpts(false))

	rec := serve(t, "PUT /recurring/update/{id}", h.Update, http.MethodPut, "/recurring/update/r1", `{"amount":25,"endDate":"2027-01-01"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "r1", payments.update.ID)
	assert.Equal(t, "25", payments.update.Amount)
	require.NotNil(t, payments.update.EndDate)

	rec = serve(t, "PUT /recurring/update", h.Update, http.MethodPut, "/recurring/update", `{"id":"r2","frequency":"monthly"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r2", payments.update.ID)
	assert.Equal(t, domain.FrequencyMonthly, payments.update.Frequency)

	for body, want := range map[string]string{
		`{"amount":"1"}`:                     "Missing payment ID",
		`{"id":"r1"}`:                        "At least one update parameter (amount, frequency, endDate) must be provided",
		`{"id":"r1","endDate":"2026-01-01"}`: "End date must be in the future",
		`{"id":"r1","amount":"-4"}`:          "Amount must be a positive number",
	} {
		rec := serve(t, "PUT /recurring/update", h.Update, http.MethodPut, "/recurring/update", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, want, decodeError(t, rec).Message, body)
	}

	h = NewRecurringHandler(&fakeRecurring{err: domain.ErrNotFound}, testOpts(false))
	rec = serve(t, "PUT /recurring/update/{id}", h.Update, http.MethodPut, "/recurring/update/r9", `{"frequency":"daily"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recurring payment not found", decodeError(t, rec).Message)
}

func TestRecurringCancelNotFound(t *testing.T) {
	h := NewRecurringHandler(&fakeRecurring{err: domain.ErrNotFound}, testOpts(false))
	rec := serve(t, "DELETE /recurring/cancel/{id}", h.Cancel, http.MethodDelete, "/recurring/cancel/r9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recurring payment not found", decodeError(t, rec).Message)
}

// ---------------------------------------------------------------------------
// Trigger
// ---------------------------------------------------------------------------

func triggerBody(price, typ, expiry string) string {
	return fmt.Sprintf(`{"inputToken":%q,"outputToken":%q,"amount":"1","triggerPrice":%s,"triggerType":%q,"userPublicKey":%q,"expiryDate":%q}`,
		solMint, usdcMint, price, typ, wallet, expiry)
}

func TestTriggerCreate(t *testing.T) {
	orders := &fakeTriggers{}
	h := NewTriggerHandler(orders, testOpts(false))

	rec := serve(t, "POST /trigger/create", h.Create, http.MethodPost, "/trigger/create", triggerBody(`"200.5"`, "above", "2026-07-01T00:00:00Z"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "200.5", orders.create.TriggerPrice)
	assert.Equal(t, domain.TriggerAbove, orders.create.TriggerType)
}

func TestTriggerCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"price", triggerBody(`0`, "above", "2026-07-01"), "Trigger price must be a positive number"},
		{"type", triggerBody(`1`, "sideways", "2026-07-01"), "Invalid trigger type. Must be one of: above, below"},
		{"expiry format", triggerBody(`1`, "below", "tomorrow"), "Invalid expiry date format"},
		{"expiry past", triggerBody(`1`, "below", "2026-05-01"), "Expiry date must be in the future"},
		{"expiry now", triggerBody(`1`, "below", fixedNow.Format(time.RFC3339)), "Expiry date must be in the future"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeTriggers{}
			h := NewTriggerHandler(orders, testOpts(false))
			rec := serve(t, "POST /trigger/create", h.Create, http.MethodPost, "/trigger/create", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, decodeError(t, rec).Message)
			assert.Zero(t, orders.calls)
		})
	}
}

func TestTriggerUpdateAndCancel(t *testing.T) {
	orders := &fakeTriggers{}
	h := NewTriggerHandler(orders, testOpts(false))

	rec := serve(t, "PUT /trigger/update/{id}", h.Update, http.MethodPut, "/trigger/update/t1", `{"triggerPrice":"3"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", orders.update.TriggerPrice)
	assert.Nil(t, orders.update.ExpiryDate)

	rec = serve(t, "PUT /trigger/update", h.Update, http.MethodPut, "/trigger/update", `{"triggerPrice":"3"}`)
	assert.Equal(t, "Missing order ID", decodeError(t, rec).Message)

	rec = serve(t, "PUT /trigger/update", h.Update, http.MethodPut, "/trigger/update", `{"id":"t1"}`)
	assert.Equal(t, "At least one update parameter (triggerPrice, expiryDate) must be provided", decodeError(t, rec).Message)

	rec = serve(t, "GET /trigger/list", h.List, http.MethodGet, "/trigger/list?userPublicKey="+wallet+"&status=completed", "")
	assert.Equal(t, "Invalid status value. Must be one of: active, triggered, expired, cancelled", decodeError(t, rec).Message)

	h = NewTriggerHandler(&fakeTriggers{err: fmt.Errorf("trigger_service: cancel: %w", domain.ErrNotFound)}, testOpts(false))
	rec = serve(t, "DELETE /trigger/cancel/{id}", h.Cancel, http.MethodDelete, "/trigger/cancel/t9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Trigger order not found", decodeError(t, rec).Message)
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler("1.2.3", "test")
	h.now = func() time.Time { return fixedNow }
	rec := serve(t, "GET /health", h.HealthCheck, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","timestamp":"2026-06-01T12:00:00Z","version":"1.2.3","env":"test"}`, rec.Body.String())
}
