package domain

import "time"

// TriggerType is the direction of a trigger order's price condition.
type TriggerType string

const (
	TriggerAbove TriggerType = "above"
	TriggerBelow TriggerType = "below"
)

// TriggerTypes lists the accepted trigger types.
var TriggerTypes = []string{string(TriggerAbove), string(TriggerBelow)}

// TriggerStatus is the lifecycle state of a trigger order.
type TriggerStatus string

const (
	TriggerActive    TriggerStatus = "active"
	TriggerTriggered TriggerStatus = "triggered"
	TriggerExpired   TriggerStatus = "expired"
	TriggerCancelled TriggerStatus = "cancelled"
)

// TriggerStatuses lists the accepted trigger status filter values.
var TriggerStatuses = []string{
	string(TriggerActive),
	string(TriggerTriggered),
	string(TriggerExpired),
	string(TriggerCancelled),
}

// TriggerOrder is a conditional swap executed upstream when the price
// crosses TriggerPrice. Its ID is assigned upstream.
type TriggerOrder struct {
	ID            string        `json:"id"`
	Status        TriggerStatus `json:"status"`
	InputToken    string        `json:"inputToken"`
	OutputToken   string        `json:"outputToken"`
	Amount        string        `json:"amount"`
	TriggerPrice  string        `json:"triggerPrice"`
	TriggerType   TriggerType   `json:"triggerType"`
	UserPublicKey string        `json:"userPublicKey"`
	ExpiryDate    time.Time     `json:"expiryDate"`
	CreatedAt     time.Time     `json:"createdAt"`
	TriggeredAt   *time.Time    `json:"triggeredAt,omitempty"`
	CancelledAt   *time.Time    `json:"cancelledAt,omitempty"`
	Quote         *Quote        `json:"quote,omitempty"`
}

// CreateTriggerRequest is a validated trigger order creation request.
type CreateTriggerRequest struct {
	InputToken    string
	OutputToken   string
	Amount        string
	TriggerPrice  string
	TriggerType   TriggerType
	UserPublicKey string
	ExpiryDate    time.Time
}

// UpdateTriggerRequest carries the fields to change; zero values are left
// untouched upstream.
type UpdateTriggerRequest struct {
	ID           string
	TriggerPrice string
	ExpiryDate   *time.Time
}

// TriggerList is a paginated list of trigger orders.
type TriggerList struct {
	Orders     []TriggerOrder `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}
