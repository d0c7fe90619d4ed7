package domain

import "time"

// SwapMode values accepted by the upstream quote endpoint.
const (
	SwapModeExactIn  = "ExactIn"
	SwapModeExactOut = "ExactOut"
)

// RouteStep is a single hop in a quote's route plan.
type RouteStep struct {
	AMMKey      string `json:"ammKey"`
	Label       string `json:"label"`
	InputToken  string `json:"inputToken"`
	OutputToken string `json:"outputToken"`
	InAmount    string `json:"inAmount"`
	OutAmount   string `json:"outAmount"`
	FeeAmount   string `json:"feeAmount"`
	FeeToken    string `json:"feeToken"`
	Percent     int    `json:"percent"`
}

// Quote is an estimate of output amount and price for a prospective swap.
// It is computed per request and never stored.
type Quote struct {
	InputToken           string      `json:"inputToken"`
	OutputToken          string      `json:"outputToken"`
	Amount               string      `json:"amount"`
	EstimatedOutput      string      `json:"estimatedOutput"`
	Price                string      `json:"price"`
	PriceImpact          string      `json:"priceImpact"`
	OtherAmountThreshold string      `json:"otherAmountThreshold"`
	SlippageBps          int         `json:"slippageBps"`
	SwapMode             string      `json:"swapMode"`
	Route                []RouteStep `json:"route"`

	// Raw is the upstream quote payload, forwarded verbatim to the commit
	// call of a quote-then-commit sequence.
	Raw []byte `json:"-"`
}

// QuoteRequest is a validated quote request.
type QuoteRequest struct {
	InputToken  string
	OutputToken string
	Amount      string
	SlippageBps int
}

// SwapRequest is a validated swap request.
type SwapRequest struct {
	QuoteRequest
	UserPublicKey string
	WrapUnwrapSOL bool
}

// SwapTransaction describes the unsigned transaction returned for a swap.
type SwapTransaction struct {
	Transaction               string `json:"transaction"`
	LastValidBlockHeight      int64  `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports string `json:"prioritizationFeeLamports"`
	Status                    string `json:"status"`
	UserPublicKey             string `json:"userPublicKey"`
	InputToken                string `json:"inputToken"`
	OutputToken               string `json:"outputToken"`
	Amount                    string `json:"amount"`
	EstimatedOutput           string `json:"estimatedOutput"`
	Price                     string `json:"price"`
	PriceImpact               string `json:"priceImpact"`
}

// SwapRecord is a past or in-flight swap as reported upstream.
type SwapRecord struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	Signature     string     `json:"signature,omitempty"`
	InputToken    string     `json:"inputToken"`
	OutputToken   string     `json:"outputToken"`
	InAmount      string     `json:"inAmount"`
	OutAmount     string     `json:"outAmount"`
	UserPublicKey string     `json:"userPublicKey,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// SwapHistory is a paginated list of swaps for one wallet.
type SwapHistory struct {
	Swaps      []SwapRecord `json:"swaps"`
	Pagination Pagination   `json:"pagination"`
}
