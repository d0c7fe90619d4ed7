package jupiter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alanyoungcy/jupmcp/internal/domain"
)

// flexNumber unmarshals from a JSON number or a numeric string so amounts and
// prices decode whichever form the upstream API sends.
type flexNumber string

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexNumber(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexNumber(n.String())
	return nil
}

func (f flexNumber) String() string { return string(f) }

// flexTime unmarshals from an RFC 3339 string or a unix timestamp in
// milliseconds.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		f.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			f.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			f.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		f.Time = t.UTC()
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	f.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (f *flexTime) ptr() *time.Time {
	if f == nil || f.IsZero() {
		return nil
	}
	t := f.Time
	return &t
}

// apiError is the error body shape returned by the upstream API. Either
// field may be set.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// --------------------------------------------------------------------------
// Quote / swap DTOs
// --------------------------------------------------------------------------

// QuoteParams contains the query parameters of a quote request.
type QuoteParams struct {
	InputMint   string
	OutputMint  string
	Amount      string
	SlippageBps int
	SwapMode    string
}

// APIQuote is the quote response body. Raw holds the exact bytes received so
// the quote can be forwarded unchanged to a commit call.
type APIQuote struct {
	InputMint            string         `json:"inputMint"`
	InAmount             flexNumber     `json:"inAmount"`
	OutputMint           string         `json:"outputMint"`
	OutAmount            flexNumber     `json:"outAmount"`
	OtherAmountThreshold flexNumber     `json:"otherAmountThreshold"`
	SwapMode             string         `json:"swapMode"`
	SlippageBps          int            `json:"slippageBps"`
	PriceImpactPct       flexNumber     `json:"priceImpactPct"`
	RoutePlan            []APIRoutePlan `json:"routePlan"`
	ContextSlot          int64          `json:"contextSlot,omitempty"`
	TimeTaken            float64        `json:"timeTaken,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// APIRoutePlan describes a single step in the swap route.
type APIRoutePlan struct {
	SwapInfo APISwapInfo `json:"swapInfo"`
	Percent  int         `json:"percent"`
}

// APISwapInfo contains details about a route step.
type APISwapInfo struct {
	AmmKey     string     `json:"ammKey"`
	Label      string     `json:"label"`
	InputMint  string     `json:"inputMint"`
	OutputMint string     `json:"outputMint"`
	InAmount   flexNumber `json:"inAmount"`
	OutAmount  flexNumber `json:"outAmount"`
	FeeAmount  flexNumber `json:"feeAmount"`
	FeeMint    string     `json:"feeMint"`
}

// SwapParams is the body of a swap transaction request.
type SwapParams struct {
	QuoteResponse    json.RawMessage `json:"quoteResponse"`
	UserPublicKey    string          `json:"userPublicKey"`
	WrapAndUnwrapSol bool            `json:"wrapAndUnwrapSol"`
}

// APISwap is the swap response body.
type APISwap struct {
	SwapTransaction           string     `json:"swapTransaction"`
	LastValidBlockHeight      int64      `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports flexNumber `json:"prioritizationFeeLamports,omitempty"`
}

// APISwapRecord is a swap as reported by the history and status endpoints.
type APISwapRecord struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Signature     string     `json:"signature"`
	InputMint     string     `json:"inputMint"`
	OutputMint    string     `json:"outputMint"`
	InAmount      flexNumber `json:"inAmount"`
	OutAmount     flexNumber `json:"outAmount"`
	UserPublicKey string     `json:"userPublicKey"`
	CreatedAt     flexTime   `json:"createdAt"`
	UpdatedAt     *flexTime  `json:"updatedAt,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// APISwapHistory is the swap history response body.
type APISwapHistory struct {
	Swaps []APISwapRecord `json:"swaps"`
	Total int             `json:"total"`
}

// --------------------------------------------------------------------------
// Token / price DTOs
// --------------------------------------------------------------------------

// APIToken is token metadata as returned upstream.
type APIToken struct {
	Address  string   `json:"address"`
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name"`
	Decimals int      `json:"decimals"`
	LogoURI  string   `json:"logoURI"`
	Tags     []string `json:"tags"`
	Verified bool     `json:"verified"`
}

// APITokenList is the token list response body.
type APITokenList struct {
	Tokens []APIToken `json:"tokens"`
	Total  int        `json:"total"`
}

// APIPricePair identifies one pair in a batch price request.
type APIPricePair struct {
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
}

// APIPrice is the price of one unit of InputMint in OutputMint.
type APIPrice struct {
	InputMint  string     `json:"inputMint"`
	OutputMint string     `json:"outputMint"`
	Price      flexNumber `json:"price"`
	Timestamp  flexTime   `json:"timestamp"`
}

// APIPriceBatch is the batch price response body. Pairs without a price are
// omitted.
type APIPriceBatch struct {
	Prices []APIPrice `json:"prices"`
}

// --------------------------------------------------------------------------
// Recurring / trigger DTOs
// --------------------------------------------------------------------------

// CreateRecurringParams is the body of a recurring payment creation request.
type CreateRecurringParams struct {
	InputMint     string          `json:"inputMint"`
	OutputMint    string          `json:"outputMint"`
	Amount        string          `json:"amount"`
	Frequency     string          `json:"frequency"`
	UserPublicKey string          `json:"userPublicKey"`
	StartDate     string          `json:"startDate,omitempty"`
	EndDate       string          `json:"endDate,omitempty"`
	QuoteResponse json.RawMessage `json:"quoteResponse"`
}

// UpdateRecurringParams is the body of a recurring payment update request.
type UpdateRecurringParams struct {
	Amount    string `json:"amount,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// APIRecurring is a recurring payment as returned upstream.
type APIRecurring struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	InputMint     string     `json:"inputMint"`
	OutputMint    string     `json:"outputMint"`
	Amount        flexNumber `json:"amount"`
	Frequency     string     `json:"frequency"`
	StartDate     *flexTime  `json:"startDate,omitempty"`
	EndDate       *flexTime  `json:"endDate,omitempty"`
	UserPublicKey string     `json:"userPublicKey"`
	CreatedAt     flexTime   `json:"createdAt"`
	NextPaymentAt *flexTime  `json:"nextPaymentAt,omitempty"`
	CancelledAt   *flexTime  `json:"cancelledAt,omitempty"`
}

// APIRecurringList is the recurring list response body.
type APIRecurringList struct {
	Orders []APIRecurring `json:"orders"`
	Total  int            `json:"total"`
}

// CreateTriggerParams is the body of a trigger order creation request.
type CreateTriggerParams struct {
	InputMint     string          `json:"inputMint"`
	OutputMint    string          `json:"outputMint"`
	Amount        string          `json:"amount"`
	TriggerPrice  string          `json:"triggerPrice"`
	TriggerType   string          `json:"triggerType"`
	UserPublicKey string          `json:"userPublicKey"`
	ExpiryDate    string          `json:"expiryDate"`
	QuoteResponse json.RawMessage `json:"quoteResponse"`
}

// UpdateTriggerParams is the body of a trigger order update request.
type UpdateTriggerParams struct {
	TriggerPrice string `json:"triggerPrice,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
}

// APITrigger is a trigger order as returned upstream.
type APITrigger struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	InputMint     string     `json:"inputMint"`
	OutputMint    string     `json:"outputMint"`
	Amount        flexNumber `json:"amount"`
	TriggerPrice  flexNumber `json:"triggerPrice"`
	TriggerType   string     `json:"triggerType"`
	UserPublicKey string     `json:"userPublicKey"`
	ExpiryDate    flexTime   `json:"expiryDate"`
	CreatedAt     flexTime   `json:"createdAt"`
	TriggeredAt   *flexTime  `json:"triggeredAt,omitempty"`
	CancelledAt   *flexTime  `json:"cancelledAt,omitempty"`
}

// APITriggerList is the trigger list response body.
type APITriggerList struct {
	Orders []APITrigger `json:"orders"`
	Total  int          `json:"total"`
}

// OrderListParams filters recurring and trigger list requests.
type OrderListParams struct {
	UserPublicKey string
	Status        string
	Limit         int
	Offset        int
}

// --------------------------------------------------------------------------
// Conversion helpers: API types -> domain types
// --------------------------------------------------------------------------

// ToDomainQuote converts an APIQuote to a domain.Quote. Price is the output
// amount per unit of input amount in base units.
func (q *APIQuote) ToDomainQuote() domain.Quote {
	quote := domain.Quote{
		InputToken:           q.InputMint,
		OutputToken:          q.OutputMint,
		Amount:               q.InAmount.String(),
		EstimatedOutput:      q.OutAmount.String(),
		Price:                ratio(q.OutAmount.String(), q.InAmount.String()),
		PriceImpact:          q.PriceImpactPct.String(),
		OtherAmountThreshold: q.OtherAmountThreshold.String(),
		SlippageBps:          q.SlippageBps,
		SwapMode:             q.SwapMode,
		Route:                make([]domain.RouteStep, 0, len(q.RoutePlan)),
		Raw:                  q.Raw,
	}
	if quote.PriceImpact == "" {
		quote.PriceImpact = "0"
	}
	for _, rp := range q.RoutePlan {
		quote.Route = append(quote.Route, domain.RouteStep{
			AMMKey:      rp.SwapInfo.AmmKey,
			Label:       rp.SwapInfo.Label,
			InputToken:  rp.SwapInfo.InputMint,
			OutputToken: rp.SwapInfo.OutputMint,
			InAmount:    rp.SwapInfo.InAmount.String(),
			OutAmount:   rp.SwapInfo.OutAmount.String(),
			FeeAmount:   rp.SwapInfo.FeeAmount.String(),
			FeeToken:    rp.SwapInfo.FeeMint,
			Percent:     rp.Percent,
		})
	}
	return quote
}

// ToDomainSwapRecord converts an APISwapRecord to a domain.SwapRecord.
func (r *APISwapRecord) ToDomainSwapRecord() domain.SwapRecord {
	return domain.SwapRecord{
		ID:            r.ID,
		Status:        r.Status,
		Signature:     r.Signature,
		InputToken:    r.InputMint,
		OutputToken:   r.OutputMint,
		InAmount:      r.InAmount.String(),
		OutAmount:     r.OutAmount.String(),
		UserPublicKey: r.UserPublicKey,
		CreatedAt:     r.CreatedAt.Time,
		UpdatedAt:     r.UpdatedAt.ptr(),
		Error:         r.Error,
	}
}

// ToDomainToken converts an APIToken to a domain.Token.
func (t *APIToken) ToDomainToken() domain.Token {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return domain.Token{
		Address:  t.Address,
		Symbol:   t.Symbol,
		Name:     t.Name,
		Decimals: t.Decimals,
		LogoURI:  t.LogoURI,
		Tags:     tags,
		Verified: t.Verified,
	}
}

// ToDomainPrice converts an APIPrice to a domain.Price. A missing timestamp
// is replaced with now.
func (p *APIPrice) ToDomainPrice(now time.Time) domain.Price {
	ts := p.Timestamp.Time
	if ts.IsZero() {
		ts = now.UTC()
	}
	return domain.Price{
		InputToken:  p.InputMint,
		OutputToken: p.OutputMint,
		Price:       p.Price.String(),
		Timestamp:   ts,
	}
}

// ToDomainRecurring converts an APIRecurring to a domain.RecurringPayment.
func (r *APIRecurring) ToDomainRecurring() domain.RecurringPayment {
	return domain.RecurringPayment{
		ID:            r.ID,
		Status:        domain.RecurringStatus(r.Status),
		InputToken:    r.InputMint,
		OutputToken:   r.OutputMint,
		Amount:        r.Amount.String(),
		Frequency:     domain.Frequency(r.Frequency),
		StartDate:     r.StartDate.ptr(),
		EndDate:       r.EndDate.ptr(),
		UserPublicKey: r.UserPublicKey,
		CreatedAt:     r.CreatedAt.Time,
		NextPaymentAt: r.NextPaymentAt.ptr(),
		CancelledAt:   r.CancelledAt.ptr(),
	}
}

// ToDomainTrigger converts an APITrigger to a domain.TriggerOrder.
func (t *APITrigger) ToDomainTrigger() domain.TriggerOrder {
	return domain.TriggerOrder{
		ID:            t.ID,
		Status:        domain.TriggerStatus(t.Status),
		InputToken:    t.InputMint,
		OutputToken:   t.OutputMint,
		Amount:        t.Amount.String(),
		TriggerPrice:  t.TriggerPrice.String(),
		TriggerType:   domain.TriggerType(t.TriggerType),
		UserPublicKey: t.UserPublicKey,
		ExpiryDate:    t.ExpiryDate.Time,
		CreatedAt:     t.CreatedAt.Time,
		TriggeredAt:   t.TriggeredAt.ptr(),
		CancelledAt:   t.CancelledAt.ptr(),
	}
}

// ratio returns num/den as a decimal string, or "0" when either side is not a
// number or den is zero.
func ratio(num, den string) string {
	n, err := decimal.NewFromString(num)
	if err != nil {
		return "0"
	}
	d, err := decimal.NewFromString(den)
	if err != nil || d.IsZero() {
		return "0"
	}
	return n.DivRound(d, 12).String()
}
