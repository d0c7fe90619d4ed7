package domain

import "time"

// Frequency is how often a recurring payment executes.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Frequencies lists the accepted frequency values in display order.
var Frequencies = []string{
	string(FrequencyDaily),
	string(FrequencyWeekly),
	string(FrequencyMonthly),
}

// RecurringStatus is the lifecycle state of a recurring payment.
type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "active"
	RecurringCompleted RecurringStatus = "completed"
	RecurringCancelled RecurringStatus = "cancelled"
)

// RecurringStatuses lists the accepted recurring status filter values.
var RecurringStatuses = []string{
	string(RecurringActive),
	string(RecurringCompleted),
	string(RecurringCancelled),
}

// RecurringPayment is a scheduled repeating swap instruction. Its ID is
// assigned upstream.
type RecurringPayment struct {
	ID            string          `json:"id"`
	Status        RecurringStatus `json:"status"`
	InputToken    string          `json:"inputToken"`
	OutputToken   string          `json:"outputToken"`
	Amount        string          `json:"amount"`
	Frequency     Frequency       `json:"frequency"`
	StartDate     *time.Time      `json:"startDate,omitempty"`
	EndDate       *time.Time      `json:"endDate,omitempty"`
	UserPublicKey string          `json:"userPublicKey"`
	CreatedAt     time.Time       `json:"createdAt"`
	NextPaymentAt *time.Time      `json:"nextPaymentAt,omitempty"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
	Quote         *Quote          `json:"quote,omitempty"`
}

// CreateRecurringRequest is a validated recurring payment creation request.
type CreateRecurringRequest struct {
	InputToken    string
	OutputToken   string
	Amount        string
	Frequency     Frequency
	UserPublicKey string
	StartDate     *time.Time
	EndDate       *time.Time
}

// UpdateRecurringRequest carries the fields to change; zero values are left
// untouched upstream.
type UpdateRecurringRequest struct {
	ID        string
	Amount    string
	Frequency Frequency
	EndDate   *time.Time
}

// OrderListOpts filters recurring and trigger list queries.
type OrderListOpts struct {
	ListOpts
	UserPublicKey string
	Status        string
}

// RecurringList is a paginated list of recurring payments.
type RecurringList struct {
	Payments   []RecurringPayment `json:"payments"`
	Pagination Pagination         `json:"pagination"`
}
