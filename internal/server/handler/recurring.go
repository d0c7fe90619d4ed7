package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// RecurringService defines the recurring payment operations the handler
// needs.
type RecurringService interface {
	Create(ctx context.Context, req domain.CreateRecurringRequest) (domain.RecurringPayment, error)
	List(ctx context.Context, opts domain.OrderListOpts) (domain.RecurringList, error)
	Update(ctx context.Context, req domain.UpdateRecurringRequest) (domain.RecurringPayment, error)
	Cancel(ctx context.Context, id string) (domain.RecurringPayment, error)
}

// RecurringHandler serves the /recurring endpoints.
type RecurringHandler struct {
	base
	payments RecurringService
}

// NewRecurringHandler creates a RecurringHandler.
func NewRecurringHandler(payments RecurringService, opts Options) *RecurringHandler {
	return &RecurringHandler{base: newBase(opts), payments: payments}
}

var frequencyMessage = "Invalid frequency. Must be one of: " + strings.Join(domain.Frequencies, ", ")

type createRecurringRequest struct {
	InputToken    string  `json:"inputToken" validate:"required"`
	OutputToken   string  `json:"outputToken" validate:"required"`
	Amount        Numeric `json:"amount" validate:"required"`
	Frequency     string  `json:"frequency" validate:"required"`
	UserPublicKey string  `json:"userPublicKey" validate:"required"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
}

// check runs the date checks first so a bad range is reported regardless of
// the other fields.
func (c *createRecurringRequest) check() (domain.CreateRecurringRequest, error) {
	start, err := parseOptionalDate(c.StartDate, "Invalid start date format")
	if err != nil {
		return domain.CreateRecurringRequest{}, err
	}
	end, err := parseOptionalDate(c.EndDate, "Invalid end date format")
	if err != nil {
		return domain.CreateRecurringRequest{}, err
	}
	if start != nil && end != nil && !start.Before(*end) {
		return domain.CreateRecurringRequest{}, domain.Validation("Start date must be before end date")
	}

	if err := firstErr(checkTokenPair(c.InputToken, c.OutputToken), checkAmount(c.Amount)); err != nil {
		return domain.CreateRecurringRequest{}, err
	}
	if !validate.IsEnumMember(c.Frequency, domain.Frequencies) {
		return domain.CreateRecurringRequest{}, domain.Validation(frequencyMessage)
	}
	if err := checkPublicKey(c.UserPublicKey); err != nil {
		return domain.CreateRecurringRequest{}, err
	}

	return domain.CreateRecurringRequest{
		InputToken:    c.InputToken,
		OutputToken:   c.OutputToken,
		Amount:        c.Amount.String(),
		Frequency:     domain.Frequency(c.Frequency),
		UserPublicKey: c.UserPublicKey,
		StartDate:     start,
		EndDate:       end,
	}, nil
}

// Create quotes and creates a recurring payment.
// POST /recurring/create
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRecurringRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "recurring create", err, "")
		return
	}
	if err := h.v.Required(req); err != nil {
		h.fail(w, r, "recurring create", err, "")
		return
	}
	cr, err := req.check()
	if err != nil {
		h.fail(w, r, "recurring create", err, "")
		return
	}

	p, err := h.payments.Create(r.Context(), cr)
	if err != nil {
		h.fail(w, r, "recurring create", err, "Quote not available")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// List returns a wallet's recurring payments.
// GET /recurring/list?userPublicKey=...&status=active&limit=10&offset=0
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOrderListOpts(r, domain.RecurringStatuses)
	h.serveList(w, r, opts, err)
}

// ListByWallet is the older form of List taking the wallet from the path.
// GET /recurring/list/{walletAddress}
func (h *RecurringHandler) ListByWallet(w http.ResponseWriter, r *http.Request) {
	opts, err := orderListOpts(r, pathParam(r, "walletAddress"), domain.RecurringStatuses)
	h.serveList(w, r, opts, err)
}

func (h *RecurringHandler) serveList(w http.ResponseWriter, r *http.Request, opts domain.OrderListOpts, err error) {
	if err != nil {
		h.fail(w, r, "recurring list", err, "")
		return
	}

	list, err := h.payments.List(r.Context(), opts)
	if err != nil {
		h.fail(w, r, "recurring list", err, "")
		return
	}
	if list.Payments == nil {
		list.Payments = []domain.RecurringPayment{}
	}
	writeJSON(w, http.StatusOK, list)
}

type updateRecurringRequest struct {
	ID        string  `json:"id"`
	Amount    Numeric `json:"amount"`
	Frequency string  `json:"frequency"`
	EndDate   string  `json:"endDate"`
}

// Update changes a recurring payment's amount, frequency or end date.
// PUT /recurring/update/{id} and PUT /recurring/update with id in the body.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRecurringRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "recurring update", err, "")
		return
	}
	ur, err := h.checkUpdate(r, req)
	if err != nil {
		h.fail(w, r, "recurring update", err, "")
		return
	}

	p, err := h.payments.Update(r.Context(), ur)
	if err != nil {
		h.fail(w, r, "recurring update", err, "Recurring payment not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *RecurringHandler) checkUpdate(r *http.Request, req updateRecurringRequest) (domain.UpdateRecurringRequest, error) {
	ur := domain.UpdateRecurringRequest{ID: orderID(r, req.ID)}
	if ur.ID == "" {
		return ur, domain.Validation("Missing payment ID")
	}
	if req.Amount == "" && req.Frequency == "" && strings.TrimSpace(req.EndDate) == "" {
		return ur, domain.Validation("At least one update parameter (amount, frequency, endDate) must be provided")
	}

	if req.Amount != "" {
		if err := checkAmount(req.Amount); err != nil {
			return ur, err
		}
		ur.Amount = req.Amount.String()
	}
	if req.Frequency != "" {
		if !validate.IsEnumMember(req.Frequency, domain.Frequencies) {
			return ur, domain.Validation(frequencyMessage)
		}
		ur.Frequency = domain.Frequency(req.Frequency)
	}
	end, err := parseOptionalDate(req.EndDate, "Invalid end date format")
	if err != nil {
		return ur, err
	}
	if end != nil && !end.After(h.now()) {
		return ur, domain.Validation("End date must be in the future")
	}
	ur.EndDate = end
	return ur, nil
}

// Cancel cancels a recurring payment.
// DELETE /recurring/cancel/{id}
func (h *RecurringHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.cancel(w, r, pathParam(r, "id"))
}

type cancelRecurringRequest struct {
	PaymentID string `json:"paymentId"`
	ID        string `json:"id"`
}

// CancelByBody is the older form of Cancel taking the ID from the body.
// POST /recurring/cancel
func (h *RecurringHandler) CancelByBody(w http.ResponseWriter, r *http.Request) {
	var req cancelRecurringRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "recurring cancel", err, "")
		return
	}
	id := strings.TrimSpace(req.PaymentID)
	if id == "" {
		id = strings.TrimSpace(req.ID)
	}
	h.cancel(w, r, id)
}

func (h *RecurringHandler) cancel(w http.ResponseWriter, r *http.Request, id string) {
	if id == "" {
		invalid(w, "Missing payment ID")
		return
	}

	p, err := h.payments.Cancel(r.Context(), id)
	if err != nil {
		h.fail(w, r, "recurring cancel", err, "Recurring payment not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
