package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/validate"
)

// TriggerService defines the trigger order operations the handler needs.
type TriggerService interface {
	Create(ctx context.Context, req domain.CreateTriggerRequest) (domain.TriggerOrder, error)
	List(ctx context.Context, opts domain.OrderListOpts) (domain.TriggerList, error)
	Update(ctx context.Context, req domain.UpdateTriggerRequest) (domain.TriggerOrder, error)
	Cancel(ctx context.Context, id string) (domain.TriggerOrder, error)
}

// TriggerHandler serves the /trigger endpoints.
type TriggerHandler struct {
	base
	orders TriggerService
}

// NewTriggerHandler creates a TriggerHandler.
func NewTriggerHandler(orders TriggerService, opts Options) *TriggerHandler {
	return &TriggerHandler{base: newBase(opts), orders: orders}
}

type createTriggerRequest struct {
	InputToken    string  `json:"inputToken" validate:"required"`
	OutputToken   string  `json:"outputToken" validate:"required"`
	Amount        Numeric `json:"amount" validate:"required"`
	TriggerPrice  Numeric `json:"triggerPrice" validate:"required"`
	TriggerType   string  `json:"triggerType" validate:"required"`
	UserPublicKey string  `json:"userPublicKey" validate:"required"`
	ExpiryDate    string  `json:"expiryDate" validate:"required"`
}

func checkTriggerPrice(p Numeric) error {
	if !validate.IsPositiveAmount(p.String()) {
		return domain.Validation("Trigger price must be a positive number")
	}
	return nil
}

// parseExpiry parses an expiry date that must lie strictly after now.
func parseExpiry(v string, now time.Time) (time.Time, error) {
	t, err := validate.ParseDate(v)
	if err != nil {
		return time.Time{}, domain.Validation("Invalid expiry date format")
	}
	if !t.After(now) {
		return time.Time{}, domain.Validation("Expiry date must be in the future")
	}
	return t, nil
}

func (c *createTriggerRequest) check(now time.Time) (domain.CreateTriggerRequest, error) {
	err := firstErr(
		checkTokenPair(c.InputToken, c.OutputToken),
		checkAmount(c.Amount),
		checkTriggerPrice(c.TriggerPrice),
	)
	if err != nil {
		return domain.CreateTriggerRequest{}, err
	}
	if !validate.IsEnumMember(c.TriggerType, domain.TriggerTypes) {
		return domain.CreateTriggerRequest{}, domain.Validation(
			"Invalid trigger type. Must be one of: " + strings.Join(domain.TriggerTypes, ", "))
	}
	if err := checkPublicKey(c.UserPublicKey); err != nil {
		return domain.CreateTriggerRequest{}, err
	}
	expiry, err := parseExpiry(c.ExpiryDate, now)
	if err != nil {
		return domain.CreateTriggerRequest{}, err
	}

	return domain.CreateTriggerRequest{
		InputToken:    c.InputToken,
		OutputToken:   c.OutputToken,
		Amount:        c.Amount.String(),
		TriggerPrice:  c.TriggerPrice.String(),
		TriggerType:   domain.TriggerType(c.TriggerType),
		UserPublicKey: c.UserPublicKey,
		ExpiryDate:    expiry,
	}, nil
}

// Create quotes and creates a trigger order.
// POST /trigger/create
func (h *TriggerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTriggerRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "trigger create", err, "")
		return
	}
	if err := h.v.Required(req); err != nil {
		h.fail(w, r, "trigger create", err, "")
		return
	}
	cr, err := req.check(h.now())
	if err != nil {
		h.fail(w, r, "trigger create", err, "")
		return
	}

	o, err := h.orders.Create(r.Context(), cr)
	if err != nil {
		h.fail(w, r, "trigger create", err, "Quote not available")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// List returns a wallet's trigger orders.
// GET /trigger/list?userPublicKey=...&status=active&limit=10&offset=0
func (h *TriggerHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOrderListOpts(r, domain.TriggerStatuses)
	if err != nil {
		h.fail(w, r, "trigger list", err, "")
		return
	}

	list, err := h.orders.List(r.Context(), opts)
	if err != nil {
		h.fail(w, r, "trigger list", err, "")
		return
	}
	if list.Orders == nil {
		list.Orders = []domain.TriggerOrder{}
	}
	writeJSON(w, http.StatusOK, list)
}

type updateTriggerRequest struct {
	ID           string  `json:"id"`
	TriggerPrice Numeric `json:"triggerPrice"`
	ExpiryDate   string  `json:"expiryDate"`
}

// Update changes a trigger order's price or expiry.
// PUT /trigger/update/{id} and PUT /trigger/update with id in the body.
func (h *TriggerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTriggerRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, "trigger update", err, "")
		return
	}

	ur := domain.UpdateTriggerRequest{ID: orderID(r, req.ID)}
	if ur.ID == "" {
		invalid(w, "Missing order ID")
		return
	}
	if req.TriggerPrice == "" && strings.TrimSpace(req.ExpiryDate) == "" {
		invalid(w, "At least one update parameter (triggerPrice, expiryDate) must be provided")
		return
	}
	if req.TriggerPrice != "" {
		if err := checkTriggerPrice(req.TriggerPrice); err != nil {
			h.fail(w, r, "trigger update", err, "")
			return
		}
		ur.TriggerPrice = req.TriggerPrice.String()
	}
	if strings.TrimSpace(req.ExpiryDate) != "" {
		expiry, err := parseExpiry(req.ExpiryDate, h.now())
		if err != nil {
			h.fail(w, r, "trigger update", err, "")
			return
		}
		ur.ExpiryDate = &expiry
	}

	o, err := h.orders.Update(r.Context(), ur)
	if err != nil {
		h.fail(w, r, "trigger update", err, "Trigger order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// Cancel cancels a trigger order.
// DELETE /trigger/cancel/{id}
func (h *TriggerHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		invalid(w, "Missing order ID")
		return
	}

	o, err := h.orders.Cancel(r.Context(), id)
	if err != nil {
		h.fail(w, r, "trigger cancel", err, "Trigger order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}
