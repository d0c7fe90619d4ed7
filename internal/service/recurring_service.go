package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/jupmcp/internal/domain"
	"github.com/alanyoungcy/jupmcp/internal/platform/jupiter"
)

// RecurringService manages recurring payments held upstream.
type RecurringService struct {
	api    RecurringAPI
	logger *slog.Logger
}

// NewRecurringService creates a RecurringService.
func NewRecurringService(api RecurringAPI, logger *slog.Logger) *RecurringService {
	return &RecurringService{api: api, logger: logger}
}

// Create quotes the first payment and then creates the recurring payment
// carrying that quote. No compensation is attempted if creation fails after
// the quote succeeded.
func (s *RecurringService) Create(ctx context.Context, req domain.CreateRecurringRequest) (domain.RecurringPayment, error) {
	q, err := fetchQuote(ctx, s.api, domain.QuoteRequest{
		InputToken:  req.InputToken,
		OutputToken: req.OutputToken,
		Amount:      req.Amount,
		SlippageBps: DefaultSlippageBps,
	})
	if err != nil {
		return domain.RecurringPayment{}, fmt.Errorf("recurring_service: quote: %w", err)
	}

	rec, err := s.api.CreateRecurring(ctx, jupiter.CreateRecurringParams{
		InputMint:     req.InputToken,
		OutputMint:    req.OutputToken,
		Amount:        req.Amount,
		Frequency:     string(req.Frequency),
		UserPublicKey: req.UserPublicKey,
		StartDate:     formatDate(req.StartDate),
		EndDate:       formatDate(req.EndDate),
		QuoteResponse: q.Raw,
	})
	if err != nil {
		return domain.RecurringPayment{}, fmt.Errorf("recurring_service: create: %w", err)
	}

	p := rec.ToDomainRecurring()
	p.Quote = &q
	s.logger.InfoContext(ctx, "recurring_service: created",
		slog.String("id", p.ID),
		slog.String("frequency", string(p.Frequency)),
	)
	return p, nil
}

// List returns a page of a wallet's recurring payments.
func (s *RecurringService) List(ctx context.Context, opts domain.OrderListOpts) (domain.RecurringList, error) {
	list, err := s.api.ListRecurring(ctx, orderListParams(opts))
	if err != nil {
		return domain.RecurringList{}, fmt.Errorf("recurring_service: list: %w", err)
	}

	payments := make([]domain.RecurringPayment, 0, len(list.Orders))
	for i := range list.Orders {
		payments = append(payments, list.Orders[i].ToDomainRecurring())
	}
	return domain.RecurringList{
		Payments:   payments,
		Pagination: domain.Pagination{Limit: opts.Limit, Offset: opts.Offset, Total: list.Total},
	}, nil
}

// Update changes the non-empty fields of req. domain.ErrNotFound is returned
// for an unknown ID.
func (s *RecurringService) Update(ctx context.Context, req domain.UpdateRecurringRequest) (domain.RecurringPayment, error) {
	rec, err := s.api.UpdateRecurring(ctx, req.ID, jupiter.UpdateRecurringParams{
		Amount:    req.Amount,
		Frequency: string(req.Frequency),
		EndDate:   formatDate(req.EndDate),
	})
	if err != nil {
		return domain.RecurringPayment{}, fmt.Errorf("recurring_service: update %q: %w", req.ID, err)
	}
	return rec.ToDomainRecurring(), nil
}

// Cancel cancels a recurring payment. domain.ErrNotFound is returned for an
// unknown ID.
func (s *RecurringService) Cancel(ctx context.Context, id string) (domain.RecurringPayment, error) {
	rec, err := s.api.CancelRecurring(ctx, id)
	if err != nil {
		return domain.RecurringPayment{}, fmt.Errorf("recurring_service: cancel %q: %w", id, err)
	}
	s.logger.InfoContext(ctx, "recurring_service: cancelled", slog.String("id", id))
	return rec.ToDomainRecurring(), nil
}

func orderListParams(opts domain.OrderListOpts) jupiter.OrderListParams {
	return jupiter.OrderListParams{
		UserPublicKey: opts.UserPublicKey,
		Status:        opts.Status,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
	}
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
